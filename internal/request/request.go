package request

import (
	"time"

	requestDatamodel "github.com/vivekrana775/ems-backend/internal/core/datamodel/request"
)

// validTransitions maps a current status to the statuses it may move to.
// REJECTED and CANCELLED are terminal.
var validTransitions = map[string][]string{
	requestDatamodel.StatusPending:   {requestDatamodel.StatusApproved, requestDatamodel.StatusRejected, requestDatamodel.StatusCancelled},
	requestDatamodel.StatusApproved:  {requestDatamodel.StatusCancelled},
	requestDatamodel.StatusRejected:  {},
	requestDatamodel.StatusCancelled: {},
}

// IsValidTransition reports whether current may move to next. A same-state
// transition is always accepted.
func IsValidTransition(current, next string) bool {
	if current == next {
		return true
	}
	for _, allowed := range validTransitions[current] {
		if allowed == next {
			return true
		}
	}
	return false
}

func IsValidStatus(status string) bool {
	_, ok := validTransitions[status]
	return ok
}

func IsValidType(t string) bool {
	switch t {
	case requestDatamodel.TypeLeave, requestDatamodel.TypeEquipment,
		requestDatamodel.TypeDocument, requestDatamodel.TypeOther:
		return true
	}
	return false
}

// View is the JSON shape returned for a request.
type View struct {
	ID          string     `json:"id"`
	EmployeeID  string     `json:"employeeId"`
	Type        string     `json:"type"`
	Status      string     `json:"status"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Priority    int        `json:"priority"`
	ApproverID  *string    `json:"approverId"`
	SubmittedAt time.Time  `json:"submittedAt"`
	RespondedAt *time.Time `json:"respondedAt"`
}

func ToView(r *requestDatamodel.Request) View {
	return View{
		ID:          r.ID,
		EmployeeID:  r.EmployeeID,
		Type:        r.Type,
		Status:      r.Status,
		Title:       r.Title,
		Description: r.Description,
		Priority:    r.Priority,
		ApproverID:  r.ApproverID,
		SubmittedAt: r.SubmittedAt,
		RespondedAt: r.RespondedAt,
	}
}

func ToViews(requests []*requestDatamodel.Request) []View {
	views := make([]View, len(requests))
	for i, r := range requests {
		views[i] = ToView(r)
	}
	return views
}
