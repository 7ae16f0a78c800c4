package request

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/vivekrana775/ems-backend/internal"
	"github.com/vivekrana775/ems-backend/internal/audit"
	"github.com/vivekrana775/ems-backend/internal/auth"
	employeeDatamodel "github.com/vivekrana775/ems-backend/internal/core/datamodel/employee"
	requestDatamodel "github.com/vivekrana775/ems-backend/internal/core/datamodel/request"
)

var (
	ErrRequestNotFound  = errors.New("request not found")
	ErrEmployeeNotFound = errors.New("employee not found")
)

// Repository is the persistence view the workflow needs.
type Repository interface {
	Create(req *requestDatamodel.Request) error
	GetByID(id string) (*requestDatamodel.Request, error)
	List(filter ListFilter, limit, offset int) ([]*requestDatamodel.Request, int64, error)
	UpdateStatus(id, status, approverID string, respondedAt time.Time) error
}

// EmployeeDirectory resolves the acting identity to an employee profile
// and checks targets of on-behalf-of operations.
type EmployeeDirectory interface {
	FindByUserID(userID string) (*employeeDatamodel.Employee, error)
	Exists(id string) (bool, error)
}

type ListResult struct {
	Items []View            `json:"items"`
	Meta  internal.PageMeta `json:"meta"`
}

// Service enforces the approval state machine and its authorization rules.
type Service struct {
	repo      Repository
	employees EmployeeDirectory
	audit     audit.Recorder
	logger    *slog.Logger
}

func NewService(repo Repository, employees EmployeeDirectory, recorder audit.Recorder, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		employees: employees,
		audit:     recorder,
		logger:    logger,
	}
}

// Create files a new request in PENDING state. Targeting another employee
// requires an elevated role; otherwise the caller's own profile is used.
func (s *Service) Create(ctx context.Context, identity *auth.Identity, dto CreateRequestDTO) (*View, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	employeeID, err := s.resolveEmployee(identity, dto.EmployeeID)
	if err != nil {
		return nil, err
	}

	priority := defaultPriority
	if dto.Priority != nil {
		priority = *dto.Priority
	}

	now := time.Now()
	req := &requestDatamodel.Request{
		ID:          uuid.NewString(),
		EmployeeID:  employeeID,
		Type:        dto.Type,
		Status:      requestDatamodel.StatusPending,
		Title:       dto.Title,
		Description: dto.Description,
		Priority:    priority,
		SubmittedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(req); err != nil {
		s.logger.Error("request creation failed", "error", err, "employee_id", employeeID)
		return nil, internal.NewInternalError("failed to create request", err)
	}

	s.audit.Record(ctx, audit.Entry{
		UserID:   &identity.UserID,
		Action:   "request.created",
		Entity:   "Request",
		EntityID: req.ID,
		Metadata: map[string]interface{}{
			"type":     req.Type,
			"status":   req.Status,
			"priority": req.Priority,
		},
	})

	s.logger.Info("request created", "request_id", req.ID, "employee_id", employeeID, "type", req.Type)

	view := ToView(req)
	return &view, nil
}

// GetByID returns a request when the caller owns it or holds an elevated
// role.
func (s *Service) GetByID(identity *auth.Identity, id string) (*View, error) {
	req, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, ErrRequestNotFound) {
			return nil, internal.ErrRequestNotFound
		}
		s.logger.Error("request lookup failed", "error", err, "request_id", id)
		return nil, internal.NewInternalError("failed to get request", err)
	}

	if !identity.IsElevated() {
		own, err := s.employees.FindByUserID(identity.UserID)
		if err != nil || own.ID != req.EmployeeID {
			return nil, internal.NewForbiddenError("Insufficient permissions", internal.ErrCodeForbidden)
		}
	}

	view := ToView(req)
	return &view, nil
}

// List returns a page of requests. Callers without an elevated role are
// pinned to their own employee regardless of the filter.
func (s *Service) List(identity *auth.Identity, filter ListFilter, page internal.PageParams) (*ListResult, error) {
	if !identity.IsElevated() {
		own, err := s.employees.FindByUserID(identity.UserID)
		if err != nil {
			if errors.Is(err, ErrEmployeeNotFound) {
				return nil, internal.ErrNoEmployeeProfile
			}
			s.logger.Error("employee resolution failed", "error", err, "user_id", identity.UserID)
			return nil, internal.NewInternalError("failed to list requests", err)
		}
		filter.EmployeeID = &own.ID
	}

	items, total, err := s.repo.List(filter, page.PageSize, page.Offset())
	if err != nil {
		s.logger.Error("request listing failed", "error", err)
		return nil, internal.NewInternalError("failed to list requests", err)
	}

	return &ListResult{
		Items: ToViews(items),
		Meta:  internal.NewPageMeta(total, page),
	}, nil
}

// UpdateStatus drives the state machine. Only elevated roles may call it;
// a same-state update is accepted as a no-op.
func (s *Service) UpdateStatus(ctx context.Context, identity *auth.Identity, id string, dto UpdateStatusDTO) (*View, error) {
	if !identity.IsElevated() {
		return nil, internal.NewForbiddenError("Insufficient permissions", internal.ErrCodeForbidden)
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	req, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, ErrRequestNotFound) {
			return nil, internal.ErrRequestNotFound
		}
		s.logger.Error("request lookup failed", "error", err, "request_id", id)
		return nil, internal.NewInternalError("failed to update request", err)
	}

	if req.Status == dto.Status {
		view := ToView(req)
		return &view, nil
	}

	if !IsValidTransition(req.Status, dto.Status) {
		return nil, internal.ErrInvalidTransition.WithDetails(map[string]string{
			"from": req.Status,
			"to":   dto.Status,
		})
	}

	respondedAt := time.Now()
	if err := s.repo.UpdateStatus(req.ID, dto.Status, identity.UserID, respondedAt); err != nil {
		s.logger.Error("status update failed", "error", err, "request_id", req.ID)
		return nil, internal.NewInternalError("failed to update request", err)
	}

	s.audit.Record(ctx, audit.Entry{
		UserID:   &identity.UserID,
		Action:   "request.status_updated",
		Entity:   "Request",
		EntityID: req.ID,
		Metadata: map[string]interface{}{
			"from": req.Status,
			"to":   dto.Status,
		},
	})

	s.logger.Info("request status updated",
		"request_id", req.ID,
		"from", req.Status,
		"to", dto.Status,
		"approver_id", identity.UserID)

	req.Status = dto.Status
	req.ApproverID = &identity.UserID
	req.RespondedAt = &respondedAt

	view := ToView(req)
	return &view, nil
}

// resolveEmployee maps the acting identity and an optional target to the
// employee a mutation applies to.
func (s *Service) resolveEmployee(identity *auth.Identity, targetID *string) (string, error) {
	if targetID != nil && *targetID != "" {
		if !identity.IsElevated() {
			own, err := s.employees.FindByUserID(identity.UserID)
			if err != nil || own.ID != *targetID {
				return "", internal.NewForbiddenError("Cannot act on behalf of another employee", internal.ErrCodeForbidden)
			}
			return own.ID, nil
		}

		exists, err := s.employees.Exists(*targetID)
		if err != nil {
			s.logger.Error("employee existence check failed", "error", err, "employee_id", *targetID)
			return "", internal.NewInternalError("failed to resolve employee", err)
		}
		if !exists {
			return "", internal.ErrEmployeeNotFound
		}
		return *targetID, nil
	}

	own, err := s.employees.FindByUserID(identity.UserID)
	if err != nil {
		if errors.Is(err, ErrEmployeeNotFound) {
			return "", internal.ErrNoEmployeeProfile
		}
		s.logger.Error("employee resolution failed", "error", err, "user_id", identity.UserID)
		return "", internal.NewInternalError("failed to resolve employee", err)
	}
	return own.ID, nil
}
