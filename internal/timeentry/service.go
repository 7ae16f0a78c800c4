package timeentry

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/vivekrana775/ems-backend/internal"
	"github.com/vivekrana775/ems-backend/internal/auth"
	employeeDatamodel "github.com/vivekrana775/ems-backend/internal/core/datamodel/employee"
	timeentryDatamodel "github.com/vivekrana775/ems-backend/internal/core/datamodel/timeentry"
)

var (
	ErrNoOpenEntry      = errors.New("no open time entry")
	ErrDuplicateOpen    = errors.New("open time entry already exists")
	ErrEmployeeNotFound = errors.New("employee not found")
)

// Repository is the persistence view the time tracker needs. Create must
// surface ErrDuplicateOpen when the one-open-entry constraint is violated.
type Repository interface {
	Create(entry *timeentryDatamodel.TimeEntry) error
	FindOpenByEmployee(employeeID string) (*timeentryDatamodel.TimeEntry, error)
	Close(id string, clockOutAt time.Time, note *string) error
	List(filter ListFilter, limit, offset int) ([]*timeentryDatamodel.TimeEntry, int64, error)
}

// EmployeeDirectory resolves identities to employee profiles; satisfied by
// the same store adapter the request workflow uses.
type EmployeeDirectory interface {
	FindByUserID(userID string) (*employeeDatamodel.Employee, error)
	Exists(id string) (bool, error)
}

type ListResult struct {
	Items []View            `json:"items"`
	Meta  internal.PageMeta `json:"meta"`
}

// Service enforces the single-open-entry and ordering rules for clock
// sessions.
type Service struct {
	repo      Repository
	employees EmployeeDirectory
	logger    *slog.Logger
}

func NewService(repo Repository, employees EmployeeDirectory, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		employees: employees,
		logger:    logger,
	}
}

// ClockIn opens a new entry. An employee with an open entry cannot open a
// second one; the store-level partial unique index backs the check.
func (s *Service) ClockIn(identity *auth.Identity, dto ClockInDTO) (*View, error) {
	employeeID, err := s.resolveEmployee(identity, dto.EmployeeID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.FindOpenByEmployee(employeeID); err == nil {
		return nil, internal.ErrAlreadyClockedIn
	} else if !errors.Is(err, ErrNoOpenEntry) {
		s.logger.Error("open entry lookup failed", "error", err, "employee_id", employeeID)
		return nil, internal.NewInternalError("failed to clock in", err)
	}

	clockInAt := time.Now()
	if dto.At != nil {
		clockInAt = *dto.At
	}

	entry := &timeentryDatamodel.TimeEntry{
		ID:          uuid.NewString(),
		EmployeeID:  employeeID,
		ClockInAt:   clockInAt,
		Note:        dto.Note,
		CreatedByID: &identity.UserID,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.repo.Create(entry); err != nil {
		if errors.Is(err, ErrDuplicateOpen) {
			return nil, internal.ErrAlreadyClockedIn
		}
		s.logger.Error("time entry creation failed", "error", err, "employee_id", employeeID)
		return nil, internal.NewInternalError("failed to clock in", err)
	}

	s.logger.Info("clocked in", "entry_id", entry.ID, "employee_id", employeeID)

	view := ToView(entry)
	return &view, nil
}

// ClockOut closes the employee's open entry. The clock-out instant must be
// strictly after the clock-in instant.
func (s *Service) ClockOut(identity *auth.Identity, dto ClockOutDTO) (*View, error) {
	employeeID, err := s.resolveEmployee(identity, dto.EmployeeID)
	if err != nil {
		return nil, err
	}

	entry, err := s.repo.FindOpenByEmployee(employeeID)
	if err != nil {
		if errors.Is(err, ErrNoOpenEntry) {
			return nil, internal.ErrNoOpenTimeEntry
		}
		s.logger.Error("open entry lookup failed", "error", err, "employee_id", employeeID)
		return nil, internal.NewInternalError("failed to clock out", err)
	}

	clockOutAt := time.Now()
	if dto.At != nil {
		clockOutAt = *dto.At
	}

	if !clockOutAt.After(entry.ClockInAt) {
		return nil, internal.ErrInvalidClockOut
	}

	note := entry.Note
	if dto.Note != nil {
		note = dto.Note
	}

	if err := s.repo.Close(entry.ID, clockOutAt, note); err != nil {
		s.logger.Error("time entry close failed", "error", err, "entry_id", entry.ID)
		return nil, internal.NewInternalError("failed to clock out", err)
	}

	s.logger.Info("clocked out", "entry_id", entry.ID, "employee_id", employeeID)

	entry.ClockOutAt = &clockOutAt
	entry.Note = note

	view := ToView(entry)
	return &view, nil
}

// List returns a page of entries. Callers without an elevated role are
// pinned to their own employee.
func (s *Service) List(identity *auth.Identity, filter ListFilter, page internal.PageParams) (*ListResult, error) {
	if !identity.IsElevated() {
		own, err := s.employees.FindByUserID(identity.UserID)
		if err != nil {
			if errors.Is(err, ErrEmployeeNotFound) {
				return nil, internal.ErrNoEmployeeProfile
			}
			s.logger.Error("employee resolution failed", "error", err, "user_id", identity.UserID)
			return nil, internal.NewInternalError("failed to list time entries", err)
		}
		filter.EmployeeID = &own.ID
	}

	items, total, err := s.repo.List(filter, page.PageSize, page.Offset())
	if err != nil {
		s.logger.Error("time entry listing failed", "error", err)
		return nil, internal.NewInternalError("failed to list time entries", err)
	}

	return &ListResult{
		Items: ToViews(items),
		Meta:  internal.NewPageMeta(total, page),
	}, nil
}

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
