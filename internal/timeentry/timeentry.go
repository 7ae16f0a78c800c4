package timeentry

import (
	"time"

	timeentryDatamodel "github.com/vivekrana775/ems-backend/internal/core/datamodel/timeentry"
)

// View is the JSON shape returned for a time entry.
type View struct {
	ID          string     `json:"id"`
	EmployeeID  string     `json:"employeeId"`
	ClockInAt   time.Time  `json:"clockInAt"`
	ClockOutAt  *time.Time `json:"clockOutAt"`
	Note        *string    `json:"note"`
	CreatedByID *string    `json:"createdById"`
}

func ToView(e *timeentryDatamodel.TimeEntry) View {
	return View{
		ID:          e.ID,
		EmployeeID:  e.EmployeeID,
		ClockInAt:   e.ClockInAt,
		ClockOutAt:  e.ClockOutAt,
		Note:        e.Note,
		CreatedByID: e.CreatedByID,
	}
}

func ToViews(entries []*timeentryDatamodel.TimeEntry) []View {
	views := make([]View, len(entries))
	for i, e := range entries {
		views[i] = ToView(e)
	}
	return views
}
