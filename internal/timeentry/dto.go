package timeentry

import "time"

type ClockInDTO struct {
	// EmployeeID targets another employee; requires an elevated role.
	EmployeeID *string    `json:"employeeId,omitempty"`
	Note       *string    `json:"note,omitempty"`
	At         *time.Time `json:"at,omitempty"`
}

type ClockOutDTO struct {
	EmployeeID *string    `json:"employeeId,omitempty"`
	Note       *string    `json:"note,omitempty"`
	At         *time.Time `json:"at,omitempty"`
}

// ListFilter narrows a time entry listing. Nil fields are not applied.
type ListFilter struct {
	EmployeeID *string
	From       *time.Time
	To         *time.Time
}
