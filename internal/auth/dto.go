package auth

import (
	"strings"
	"time"

	"github.com/vivekrana775/ems-backend/internal"
)

const minPasswordLength = 8

// EmployeePayload is the optional embedded employee profile accepted at
// signup.
type EmployeePayload struct {
	EmployeeCode string     `json:"employeeCode"`
	Department   *string    `json:"department,omitempty"`
	JobTitle     *string    `json:"jobTitle,omitempty"`
	Status       *string    `json:"status,omitempty"`
	ManagerID    *string    `json:"managerId,omitempty"`
	HireDate     *time.Time `json:"hireDate,omitempty"`
	Phone        *string    `json:"phone,omitempty"`
	Location     *string    `json:"location,omitempty"`
}

type RegisterDTO struct {
	Email     string           `json:"email"`
	Password  string           `json:"password"`
	FirstName string           `json:"firstName"`
	LastName  string           `json:"lastName"`
	Roles     []string         `json:"roles,omitempty"`
	Employee  *EmployeePayload `json:"employee,omitempty"`
}

func (d RegisterDTO) Validate() error {
	var errs []internal.ValidationError
	if !strings.Contains(d.Email, "@") {
		errs = append(errs, internal.ValidationError{Field: "email", Message: "email must be a valid address"})
	}
	if len(d.Password) < minPasswordLength {
		errs = append(errs, internal.ValidationError{Field: "password", Message: "password must be at least 8 characters"})
	}
	if d.FirstName == "" {
		errs = append(errs, internal.ValidationError{Field: "firstName", Message: "firstName is required"})
	}
	if d.LastName == "" {
		errs = append(errs, internal.ValidationError{Field: "lastName", Message: "lastName is required"})
	}
	if d.Employee != nil && d.Employee.EmployeeCode == "" {
		errs = append(errs, internal.ValidationError{Field: "employee.employeeCode", Message: "employeeCode is required"})
	}
	if len(errs) > 0 {
		return internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: errs})
	}
	return nil
}

type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d LoginDTO) Validate() error {
	var errs []internal.ValidationError
	if d.Email == "" {
		errs = append(errs, internal.ValidationError{Field: "email", Message: "email is required"})
	}
	if len(d.Password) < minPasswordLength {
		errs = append(errs, internal.ValidationError{Field: "password", Message: "password must be at least 8 characters"})
	}
	if len(errs) > 0 {
		return internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: errs})
	}
	return nil
}

// RefreshDTO accepts the refresh token in the body; the handler prefers
// the cookie when present.
type RefreshDTO struct {
	RefreshToken string `json:"refreshToken,omitempty"`
}
