package postgres

import (
	"errors"
	"time"

	employeeDatamodel "github.com/vivekrana775/ems-backend/internal/core/datamodel/employee"
	requestDatamodel "github.com/vivekrana775/ems-backend/internal/core/datamodel/request"
	"github.com/vivekrana775/ems-backend/internal/request"
	"gorm.io/gorm"
)

// RequestRepository implements request.Repository using GORM.
type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) request.Repository {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) Create(req *requestDatamodel.Request) error {
	return r.db.Create(req).Error
}

func (r *RequestRepository) GetByID(id string) (*requestDatamodel.Request, error) {
	var req requestDatamodel.Request
	err := r.db.Where("id = ?", id).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, request.ErrRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *RequestRepository) List(filter request.ListFilter, limit, offset int) ([]*requestDatamodel.Request, int64, error) {
	query := r.db.Model(&requestDatamodel.Request{})
	if filter.EmployeeID != nil {
		query = query.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []*requestDatamodel.Request
	err := query.Order("submitted_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	return items, total, err
}

func (r *RequestRepository) UpdateStatus(id, status, approverID string, respondedAt time.Time) error {
	return r.db.Model(&requestDatamodel.Request{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       status,
			"approver_id":  approverID,
			"responded_at": respondedAt,
			"updated_at":   time.Now(),
		}).Error
}

// EmployeeDirectory implements request.EmployeeDirectory against the
// employees table.
type EmployeeDirectory struct {
	db *gorm.DB
}

func NewEmployeeDirectory(db *gorm.DB) request.EmployeeDirectory {
	return &EmployeeDirectory{db: db}
}

func (d *EmployeeDirectory) FindByUserID(userID string) (*employeeDatamodel.Employee, error) {
	var employee employeeDatamodel.Employee
	err := d.db.Where("user_id = ?", userID).First(&employee).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, request.ErrEmployeeNotFound
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
