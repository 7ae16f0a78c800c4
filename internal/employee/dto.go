package employee

import (
	"time"

	"github.com/vivekrana775/ems-backend/internal"
	userDatamodel "github.com/vivekrana775/ems-backend/internal/core/datamodel/user"
)

type CreateEmployeeDTO struct {
	Email        string     `json:"email"`
	Password     string     `json:"password"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	Roles        []string   `json:"roles,omitempty"`
	EmployeeCode string     `json:"employeeCode"`
	Department   *string    `json:"department,omitempty"`
	JobTitle     *string    `json:"jobTitle,omitempty"`
	Status       *string    `json:"status,omitempty"`
	ManagerID    *string    `json:"managerId,omitempty"`
	HireDate     *time.Time `json:"hireDate,omitempty"`
	Phone        *string    `json:"phone,omitempty"`
	Location     *string    `json:"location,omitempty"`
}

func (d CreateEmployeeDTO) Validate() error {
	var errs []internal.ValidationError
	if d.EmployeeCode == "" {
		errs = append(errs, internal.ValidationError{Field: "employeeCode", Message: "employeeCode is required"})
	}
	if d.Status != nil && !IsValidStatus(*d.Status) {
		errs = append(errs, internal.ValidationError{Field: "status", Message: "status must be one of ACTIVE, INACTIVE, ON_LEAVE"})
	}
	if err := validateRoles(d.Roles); err != nil {
		errs = append(errs, *err)
	}
	if len(errs) > 0 {
		return internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: errs})
	}
	return nil
}

// UpdateEmployeeDTO applies only the fields that are present. An empty
// managerId disconnects the manager relation.
type UpdateEmployeeDTO struct {
	Department *string    `json:"department,omitempty"`
	JobTitle   *string    `json:"jobTitle,omitempty"`
	ManagerID  *string    `json:"managerId,omitempty"`
	HireDate   *time.Time `json:"hireDate,omitempty"`
	Phone      *string    `json:"phone,omitempty"`
	Location   *string    `json:"location,omitempty"`
	Roles      []string   `json:"roles,omitempty"`
}

func (d UpdateEmployeeDTO) Validate() error {
	if err := validateRoles(d.Roles); err != nil {
		return internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: []internal.ValidationError{*err}})
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
				{Field: "status", Message: "status must be one of ACTIVE, INACTIVE, ON_LEAVE"},
			}})
	}
	return nil
}

// ListFilter narrows an employee listing. Search matches name, email and
// employee code.
type ListFilter struct {
	Status     *string
	Department *string
	Search     *string
}

func validateRoles(roles []string) *internal.ValidationError {
	for _, role := range roles {
		switch role {
		case userDatamodel.RoleAdmin, userDatamodel.RoleHR, userDatamodel.RoleManager, userDatamodel.RoleEmployee:
		default:
			return &internal.ValidationError{Field: "roles", Message: "roles must be from ADMIN, HR, MANAGER, EMPLOYEE"}
		}
	}
	return nil
}
