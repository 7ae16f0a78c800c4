package postgres

import (
	"errors"
	"time"

	"github.com/vivekrana775/ems-backend/internal/auth"
	employeeDatamodel "github.com/vivekrana775/ems-backend/internal/core/datamodel/employee"
	userDatamodel "github.com/vivekrana775/ems-backend/internal/core/datamodel/user"
	"gorm.io/gorm"
)

// UserRepository implements auth.UserRepository using GORM.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) auth.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByEmail(email string) (*userDatamodel.User, error) {
	var user userDatamodel.User
	err := r.db.Preload("Roles").Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByID(id string) (*userDatamodel.User, error) {
	var user userDatamodel.User
	err := r.db.Preload("Roles").Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Create persists a user with roles and an optional employee profile in a
// single transaction.
func (r *UserRepository) Create(user *userDatamodel.User, roles []string, employee *employeeDatamodel.Employee) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		for _, role := range roles {
			userRole := userDatamodel.UserRole{
				UserID:    user.ID,
				Role:      role,
				CreatedAt: time.Now(),
			}
			if err := tx.Create(&userRole).Error; err != nil {
				return err
			}
		}

		if employee != nil {
			if err := tx.Create(employee).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *UserRepository) RecordLogin(userID string, at time.Time) error {
	return r.db.Model(&userDatamodel.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"last_login_at": at,
			"updated_at":    time.Now(),
		}).Error
}

// EmploymentStatus returns the employee status linked to the user, or nil
// when no employee profile exists.
func (r *UserRepository) EmploymentStatus(userID string) (*string, error) {
	var employee employeeDatamodel.Employee
	err := r.db.Select("status").Where("user_id = ?", userID).First(&employee).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &employee.Status, nil
}

// RefreshTokenRepository implements auth.RefreshTokenRepository using GORM.
type RefreshTokenRepository struct {
	db *gorm.DB
}

func NewRefreshTokenRepository(db *gorm.DB) auth.RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func (r *RefreshTokenRepository) Create(token *userDatamodel.RefreshToken) error {
	return r.db.Create(token).Error
}

func (r *RefreshTokenRepository) FindByHash(tokenHash string) (*userDatamodel.RefreshToken, error) {
	var token userDatamodel.RefreshToken
	err := r.db.Where("token_hash = ?", tokenHash).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrTokenNotFound
		}
		return nil, err
	}
	return &token, nil
}

// Revoke marks the token revoked only if it has not been revoked already.
// The conditional update makes concurrent rotations of the same token race
// safe: exactly one caller observes true.
func (r *RefreshTokenRepository) Revoke(id string, replacedByID *string) (bool, error) {
	updates := map[string]interface{}{
		"revoked_at": time.Now(),
	}
	if replacedByID != nil {
		updates["replaced_by_id"] = *replacedByID
	}

	result := r.db.Model(&userDatamodel.RefreshToken{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *RefreshTokenRepository) RevokeAllForUser(userID string) error {
	return r.db.Model(&userDatamodel.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", time.Now()).Error
}
