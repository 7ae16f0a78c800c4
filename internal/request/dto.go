package request

import (
	"strings"

	"github.com/vivekrana775/ems-backend/internal"
)

const (
	minTitleLength  = 3
	defaultPriority = 3
)

type CreateRequestDTO struct {
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Priority    *int    `json:"priority,omitempty"`
	// EmployeeID targets another employee; requires an elevated role.
	EmployeeID *string `json:"employeeId,omitempty"`
}

func (d CreateRequestDTO) Validate() error {
	var errs []internal.ValidationError
	if !IsValidType(d.Type) {
		errs = append(errs, internal.ValidationError{Field: "type", Message: "type must be one of LEAVE, EQUIPMENT, DOCUMENT, OTHER"})
	}
	if len(strings.TrimSpace(d.Title)) < minTitleLength {
		errs = append(errs, internal.ValidationError{Field: "title", Message: "title must be at least 3 characters"})
	}
	if d.Priority != nil && (*d.Priority < 1 || *d.Priority > 5) {
		errs = append(errs, internal.ValidationError{Field: "priority", Message: "priority must be between 1 and 5"})
	}
	if len(errs) > 0 {
		return internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: errs})
	}
	return nil
}

type UpdateStatusDTO struct {
	Status string `json:"status"`
}

func (d UpdateStatusDTO) Validate() error {
	if !IsValidStatus(d.Status) {
		return internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: []internal.ValidationError{
				{Field: "status", Message: "status must be one of PENDING, APPROVED, REJECTED, CANCELLED"},
			}})
	}
	return nil
}

// ListFilter narrows a request listing. Nil fields are not applied.
type ListFilter struct {
	EmployeeID *string
	Status     *string
	Type       *string
}
