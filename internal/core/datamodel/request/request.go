package request

import (
	"time"

	employeeDatamodel "github.com/vivekrana775/ems-backend/internal/core/datamodel/employee"
	userDatamodel "github.com/vivekrana775/ems-backend/internal/core/datamodel/user"
)

const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

const (
	TypeLeave     = "LEAVE"
	TypeEquipment = "EQUIPMENT"
	TypeDocument  = "DOCUMENT"
	TypeOther     = "OTHER"
)

type Request struct {
	ID          string     `gorm:"primaryKey;type:uuid"`
	EmployeeID  string     `gorm:"column:employee_id;type:uuid;not null;index"`
	Type        string     `gorm:"column:type;not null"`
	Status      string     `gorm:"column:status;default:PENDING;index"`
	Title       string     `gorm:"column:title;not null"`
	Description *string    `gorm:"column:description"`
	Priority    int        `gorm:"column:priority;default:3"`
	ApproverID  *string    `gorm:"column:approver_id;type:uuid"`
	SubmittedAt time.Time  `gorm:"column:submitted_at;default:now()"`
	RespondedAt *time.Time `gorm:"column:responded_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;default:now()"`

	Employee *employeeDatamodel.Employee `gorm:"foreignKey:EmployeeID"`
	Approver *userDatamodel.User         `gorm:"foreignKey:ApproverID"`
}

func (Request) TableName() string {
	return "requests"
}
