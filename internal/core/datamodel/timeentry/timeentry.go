package timeentry

import (
	"time"

	employeeDatamodel "github.com/vivekrana775/ems-backend/internal/core/datamodel/employee"
)

// TimeEntry is one clock-in/clock-out session. A null clock_out_at means
// the entry is open; at most one open entry per employee may exist, backed
// by a partial unique index in the migration.
type TimeEntry struct {
	ID          string     `gorm:"primaryKey;type:uuid"`
	EmployeeID  string     `gorm:"column:employee_id;type:uuid;not null;index"`
	ClockInAt   time.Time  `gorm:"column:clock_in_at;not null"`
	ClockOutAt  *time.Time `gorm:"column:clock_out_at"`
	Note        *string    `gorm:"column:note"`
	CreatedByID *string    `gorm:"column:created_by_id;type:uuid"`
	CreatedAt   time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;default:now()"`

	Employee *employeeDatamodel.Employee `gorm:"foreignKey:EmployeeID"`
}

func (TimeEntry) TableName() string {
	return "time_entries"
}
