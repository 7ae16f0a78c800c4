package postgres

import (
	"errors"
	"strings"
	"time"

	employeeDatamodel "github.com/vivekrana775/ems-backend/internal/core/datamodel/employee"
	timeentryDatamodel "github.com/vivekrana775/ems-backend/internal/core/datamodel/timeentry"
	"github.com/vivekrana775/ems-backend/internal/timeentry"
	"gorm.io/gorm"
)

// TimeEntryRepository implements timeentry.Repository using GORM.
type TimeEntryRepository struct {
	db *gorm.DB
}

func NewTimeEntryRepository(db *gorm.DB) timeentry.Repository {
	return &TimeEntryRepository{db: db}
}

// Create inserts an entry. A violation of the partial unique index on open
// entries is translated to ErrDuplicateOpen so the race between check and
// insert stays harmless.
func (r *TimeEntryRepository) Create(entry *timeentryDatamodel.TimeEntry) error {
	err := r.db.Create(entry).Error
	if err != nil && isUniqueViolation(err) {
		return timeentry.ErrDuplicateOpen
	}
	return err
}

func (r *TimeEntryRepository) FindOpenByEmployee(employeeID string) (*timeentryDatamodel.TimeEntry, error) {
	var entry timeentryDatamodel.TimeEntry
	err := r.db.Where("employee_id = ? AND clock_out_at IS NULL", employeeID).
		Order("clock_in_at DESC").
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, timeentry.ErrNoOpenEntry
		}
		return nil, err
	}
	return &entry, nil
}

func (r *TimeEntryRepository) Close(id string, clockOutAt time.Time, note *string) error {
	updates := map[string]interface{}{
		"clock_out_at": clockOutAt,
		"updated_at":   time.Now(),
	}
	if note != nil {
		updates["note"] = *note
	}
	return r.db.Model(&timeentryDatamodel.TimeEntry{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *TimeEntryRepository) List(filter timeentry.ListFilter, limit, offset int) ([]*timeentryDatamodel.TimeEntry, int64, error) {
	query := r.db.Model(&timeentryDatamodel.TimeEntry{})
	if filter.EmployeeID != nil {
		query = query.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.From != nil {
		query = query.Where("clock_in_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("clock_in_at <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []*timeentryDatamodel.TimeEntry
	err := query.Order("clock_in_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	return items, total, err
}

// EmployeeDirectory implements timeentry.EmployeeDirectory against the
// employees table.
type EmployeeDirectory struct {
	db *gorm.DB
}

func NewEmployeeDirectory(db *gorm.DB) timeentry.EmployeeDirectory {
	return &EmployeeDirectory{db: db}
}

func (d *EmployeeDirectory) FindByUserID(userID string) (*employeeDatamodel.Employee, error) {
	var employee employeeDatamodel.Employee
	err := d.db.Where("user_id = ?", userID).First(&employee).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, timeentry.ErrEmployeeNotFound
		}
		return nil, err
	}
	return &employee, nil
}

func (d *EmployeeDirectory) Exists(id string) (bool, error) {
	var count int64
	err := d.db.Model(&employeeDatamodel.Employee{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
