package employee

import (
	"time"

	employeeDatamodel "github.com/vivekrana775/ems-backend/internal/core/datamodel/employee"
)

func IsValidStatus(status string) bool {
	switch status {
	case employeeDatamodel.StatusActive, employeeDatamodel.StatusInactive, employeeDatamodel.StatusOnLeave:
		return true
	}
	return false
}

// UserSummary is the linked account view embedded in an employee.
type UserSummary struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	IsActive  bool     `json:"isActive"`
	Roles     []string `json:"roles"`
}

// View is the JSON shape returned for an employee.
type View struct {
	ID           string       `json:"id"`
	UserID       string       `json:"userId"`
	EmployeeCode string       `json:"employeeCode"`
	Department   *string      `json:"department"`
	JobTitle     *string      `json:"jobTitle"`
	Status       string       `json:"status"`
	ManagerID    *string      `json:"managerId"`
	HireDate     *time.Time   `json:"hireDate"`
	Phone        *string      `json:"phone"`
	Location     *string      `json:"location"`
	User         *UserSummary `json:"user,omitempty"`
}

func ToView(e *employeeDatamodel.Employee) View {
	view := View{
		ID:           e.ID,
		UserID:       e.UserID,
		EmployeeCode: e.EmployeeCode,
		Department:   e.Department,
		JobTitle:     e.JobTitle,
		Status:       e.Status,
		ManagerID:    e.ManagerID,
		HireDate:     e.HireDate,
		Phone:        e.Phone,
		Location:     e.Location,
	}
	if e.User != nil {
		view.User = &UserSummary{
			ID:        e.User.ID,
			Email:     e.User.Email,
			FirstName: e.User.FirstName,
			LastName:  e.User.LastName,
			IsActive:  e.User.IsActive,
			Roles:     e.User.RoleNames(),
		}
	}
	return view
}

func ToViews(employees []*employeeDatamodel.Employee) []View {
	views := make([]View, len(employees))
	for i, e := range employees {
		views[i] = ToView(e)
	}
	return views
}
