package postgres

import (
	"errors"
	"time"

	employeeDatamodel "github.com/vivekrana775/ems-backend/internal/core/datamodel/employee"
	userDatamodel "github.com/vivekrana775/ems-backend/internal/core/datamodel/user"
	"github.com/vivekrana775/ems-backend/internal/employee"
	"gorm.io/gorm"
)

// EmployeeRepository implements employee.Repository using GORM.
type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) employee.Repository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) List(filter employee.ListFilter, limit, offset int) ([]*employeeDatamodel.Employee, int64, error) {
	query := r.db.Model(&employeeDatamodel.Employee{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Department != nil {
		query = query.Where("department = ?", *filter.Department)
	}
	if filter.Search != nil {
		pattern := "%" + *filter.Search + "%"
		query = query.Where(
			"employee_code ILIKE ? OR user_id IN (SELECT id FROM users WHERE first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?)",
			pattern, pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []*employeeDatamodel.Employee
	err := query.Preload("User").Preload("User.Roles").
		Order("employee_code ASC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	return items, total, err
}

func (r *EmployeeRepository) GetByID(id string) (*employeeDatamodel.Employee, error) {
	var emp employeeDatamodel.Employee
	err := r.db.Preload("User").Preload("User.Roles").Where("id = ?", id).First(&emp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, err
	}
	return &emp, nil
}

func (r *EmployeeRepository) GetByCode(code string) (*employeeDatamodel.Employee, error) {
	var emp employeeDatamodel.Employee
	err := r.db.Preload("User").Preload("User.Roles").Where("employee_code = ?", code).First(&emp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, err
	}
	return &emp, nil
}

func (r *EmployeeRepository) Exists(id string) (bool, error) {
	var count int64
	err := r.db.Model(&employeeDatamodel.Employee{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *EmployeeRepository) Update(emp *employeeDatamodel.Employee) error {
	emp.UpdatedAt = time.Now()
	return r.db.Model(&employeeDatamodel.Employee{}).
		Where("id = ?", emp.ID).
		Updates(map[string]interface{}{
			"department": emp.Department,
			"job_title":  emp.JobTitle,
			"manager_id": emp.ManagerID,
			"hire_date":  emp.HireDate,
			"phone":      emp.Phone,
			"location":   emp.Location,
			"updated_at": emp.UpdatedAt,
		}).Error
}

// UpdateStatus keeps the employee status and the linked user's active flag
// consistent inside one transaction.
func (r *EmployeeRepository) UpdateStatus(id, status, userID string, active bool) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&employeeDatamodel.Employee{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"status":     status,
				"updated_at": time.Now(),
			}).Error; err != nil {
			return err
		}

		return tx.Model(&userDatamodel.User{}).
			Where("id = ?", userID).
			Updates(map[string]interface{}{
				"is_active":  active,
				"updated_at": time.Now(),
			}).Error
	})
}

func (r *EmployeeRepository) ReplaceRoles(userID string, roles []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&userDatamodel.UserRole{}).Error; err != nil {
			return err
		}
		for _, role := range roles {
			userRole := userDatamodel.UserRole{
				UserID:    userID,
				Role:      role,
				CreatedAt: time.Now(),
			}
			if err := tx.Create(&userRole).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
