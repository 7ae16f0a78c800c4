package employee

import (
	"time"

	userDatamodel "github.com/vivekrana775/ems-backend/internal/core/datamodel/user"
)

const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
	StatusOnLeave  = "ON_LEAVE"
)

// Employee is the profile attached 1:1 to a User. The manager relation is
// a self-reference forming a tree; cycle prevention is not enforced here.
type Employee struct {
	ID           string     `gorm:"primaryKey;type:uuid"`
	UserID       string     `gorm:"column:user_id;type:uuid;uniqueIndex;not null"`
	EmployeeCode string     `gorm:"column:employee_code;uniqueIndex;not null"`
	Department   *string    `gorm:"column:department"`
	JobTitle     *string    `gorm:"column:job_title"`
	Status       string     `gorm:"column:status;default:ACTIVE"`
	ManagerID    *string    `gorm:"column:manager_id;type:uuid"`
	HireDate     *time.Time `gorm:"column:hire_date"`
	Phone        *string    `gorm:"column:phone"`
	Location     *string    `gorm:"column:location"`
	CreatedAt    time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;default:now()"`

	User    *userDatamodel.User `gorm:"foreignKey:UserID"`
	Manager *Employee           `gorm:"foreignKey:ManagerID"`
}

func (Employee) TableName() string {
	return "employees"
}
