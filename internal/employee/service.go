package employee

import (
	"errors"
	"log/slog"

	"github.com/vivekrana775/ems-backend/internal"
	"github.com/vivekrana775/ems-backend/internal/auth"
	employeeDatamodel "github.com/vivekrana775/ems-backend/internal/core/datamodel/employee"
)

var ErrEmployeeNotFound = errors.New("employee not found")

// Repository is the persistence view the employee service needs.
type Repository interface {
	List(filter ListFilter, limit, offset int) ([]*employeeDatamodel.Employee, int64, error)
	GetByID(id string) (*employeeDatamodel.Employee, error)
	GetByCode(code string) (*employeeDatamodel.Employee, error)
	Exists(id string) (bool, error)
	Update(employee *employeeDatamodel.Employee) error
	// UpdateStatus also toggles the linked user's active flag in the same
	// transaction.
	UpdateStatus(id, status, userID string, active bool) error
	ReplaceRoles(userID string, roles []string) error
}

// UserRegistrar creates the user account backing a new employee; the auth
// service satisfies it.
type UserRegistrar interface {
	Register(dto auth.RegisterDTO) (*auth.AuthUser, error)
}

type ListResult struct {
	Items []View            `json:"items"`
	Meta  internal.PageMeta `json:"meta"`
}

// Service handles employee onboarding and profile management.
type Service struct {
	repo   Repository
	users  UserRegistrar
	logger *slog.Logger
}

func NewService(repo Repository, users UserRegistrar, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		users:  users,
		logger: logger,
	}
}

func (s *Service) List(filter ListFilter, page internal.PageParams) (*ListResult, error) {
	items, total, err := s.repo.List(filter, page.PageSize, page.Offset())
	if err != nil {
		s.logger.Error("employee listing failed", "error", err)
		return nil, internal.NewInternalError("failed to list employees", err)
	}

	return &ListResult{
		Items: ToViews(items),
		Meta:  internal.NewPageMeta(total, page),
	}, nil
}

func (s *Service) GetByID(id string) (*View, error) {
	employee, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, ErrEmployeeNotFound) {
			return nil, internal.ErrEmployeeNotFound
		}
		s.logger.Error("employee lookup failed", "error", err, "employee_id", id)
		return nil, internal.NewInternalError("failed to get employee", err)
	}

	view := ToView(employee)
	return &view, nil
}

// Create onboards an employee: the user account and profile are created
// together through the auth service.
func (s *Service) Create(dto CreateEmployeeDTO) (*View, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetByCode(dto.EmployeeCode); err != nil && !errors.Is(err, ErrEmployeeNotFound) {
		s.logger.Error("employee code lookup failed", "error", err)
		return nil, internal.NewInternalError("failed to create employee", err)
	} else if existing != nil {
		return nil, internal.ErrEmployeeCodeInUse
	}

	if dto.ManagerID != nil && *dto.ManagerID != "" {
		exists, err := s.repo.Exists(*dto.ManagerID)
		if err != nil {
			s.logger.Error("manager existence check failed", "error", err, "manager_id", *dto.ManagerID)
			return nil, internal.NewInternalError("failed to create employee", err)
		}
		if !exists {
			return nil, internal.ErrManagerNotFound
		}
	}

	if _, err := s.users.Register(auth.RegisterDTO{
		Email:     dto.Email,
		Password:  dto.Password,
		FirstName: dto.FirstName,
		LastName:  dto.LastName,
		Roles:     dto.Roles,
		Employee: &auth.EmployeePayload{
			EmployeeCode: dto.EmployeeCode,
			Department:   dto.Department,
			JobTitle:     dto.JobTitle,
			Status:       dto.Status,
			ManagerID:    dto.ManagerID,
			HireDate:     dto.HireDate,
			Phone:        dto.Phone,
			Location:     dto.Location,
		},
	}); err != nil {
		return nil, err
	}

	created, err := s.repo.GetByCode(dto.EmployeeCode)
	if err != nil {
		s.logger.Error("created employee lookup failed", "error", err, "employee_code", dto.EmployeeCode)
		return nil, internal.NewInternalError("failed to create employee", err)
	}

	s.logger.Info("employee created", "employee_id", created.ID, "employee_code", created.EmployeeCode)

	view := ToView(created)
	return &view, nil
}

// Update applies profile changes and optionally replaces the role set of
// the linked user.
func (s *Service) Update(id string, dto UpdateEmployeeDTO) (*View, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	employee, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, ErrEmployeeNotFound) {
			return nil, internal.ErrEmployeeNotFound
		}
		s.logger.Error("employee lookup failed", "error", err, "employee_id", id)
		return nil, internal.NewInternalError("failed to update employee", err)
	}

	if dto.ManagerID != nil {
		if *dto.ManagerID == "" {
			employee.ManagerID = nil
		} else {
			if *dto.ManagerID == employee.ID {
				return nil, internal.NewValidationError("An employee cannot be their own manager", internal.ErrCodeValidationFailed)
			}
			exists, err := s.repo.Exists(*dto.ManagerID)
			if err != nil {
				s.logger.Error("manager existence check failed", "error", err, "manager_id", *dto.ManagerID)
				return nil, internal.NewInternalError("failed to update employee", err)
			}
			if !exists {
				return nil, internal.ErrManagerNotFound
			}
			employee.ManagerID = dto.ManagerID
		}
	}

	if dto.Department != nil {
		employee.Department = dto.Department
	}
	if dto.JobTitle != nil {
		employee.JobTitle = dto.JobTitle
	}
	if dto.HireDate != nil {
		employee.HireDate = dto.HireDate
	}
	if dto.Phone != nil {
		employee.Phone = dto.Phone
	}
	if dto.Location != nil {
		employee.Location = dto.Location
	}

	if err := s.repo.Update(employee); err != nil {
		s.logger.Error("employee update failed", "error", err, "employee_id", id)
		return nil, internal.NewInternalError("failed to update employee", err)
	}

	if dto.Roles != nil {
		if err := s.repo.ReplaceRoles(employee.UserID, dto.Roles); err != nil {
			s.logger.Error("role replacement failed", "error", err, "user_id", employee.UserID)
			return nil, internal.NewInternalError("failed to update employee", err)
		}
	}

	updated, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("updated employee lookup failed", "error", err, "employee_id", id)
		return nil, internal.NewInternalError("failed to update employee", err)
	}

	s.logger.Info("employee updated", "employee_id", id)

	view := ToView(updated)
	return &view, nil
}

// UpdateStatus changes employment status; the linked user is active iff
// the status is ACTIVE.
func (s *Service) UpdateStatus(id string, dto UpdateStatusDTO) (*View, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	employee, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, ErrEmployeeNotFound) {
			return nil, internal.ErrEmployeeNotFound
		}
		s.logger.Error("employee lookup failed", "error", err, "employee_id", id)
		return nil, internal.NewInternalError("failed to update employee status", err)
	}

	active := dto.Status == employeeDatamodel.StatusActive
	if err := s.repo.UpdateStatus(employee.ID, dto.Status, employee.UserID, active); err != nil {
		s.logger.Error("employee status update failed", "error", err, "employee_id", id)
		return nil, internal.NewInternalError("failed to update employee status", err)
	}

	s.logger.Info("employee status updated", "employee_id", id, "status", dto.Status, "user_active", active)

	employee.Status = dto.Status
	if employee.User != nil {
		employee.User.IsActive = active
	}

	view := ToView(employee)
	return &view, nil
}
