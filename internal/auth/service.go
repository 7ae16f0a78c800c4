package auth

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/vivekrana775/ems-backend/internal"
	employeeDatamodel "github.com/vivekrana775/ems-backend/internal/core/datamodel/employee"
	userDatamodel "github.com/vivekrana775/ems-backend/internal/core/datamodel/user"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrTokenNotFound = errors.New("refresh token not found")
)

// UserRepository is the credential-store view the auth service needs.
type UserRepository interface {
	FindByEmail(email string) (*userDatamodel.User, error)
	FindByID(id string) (*userDatamodel.User, error)
	Create(user *userDatamodel.User, roles []string, employee *employeeDatamodel.Employee) error
	RecordLogin(userID string, at time.Time) error
	EmploymentStatus(userID string) (*string, error)
}

// RefreshTokenRepository persists hashed refresh tokens.
type RefreshTokenRepository interface {
	Create(token *userDatamodel.RefreshToken) error
	FindByHash(tokenHash string) (*userDatamodel.RefreshToken, error)
	// Revoke marks the token revoked iff it is not revoked yet; the bool
	// reports whether this call won the conditional update.
	Revoke(id string, replacedByID *string) (bool, error)
	RevokeAllForUser(userID string) error
}

type LoginResult struct {
	User   AuthUser
	Tokens AuthTokens
}

// Service orchestrates signup, login, refresh rotation and revocation.
type Service struct {
	users      UserRepository
	tokens     RefreshTokenRepository
	tokenGen   TokenGenerator
	bcryptCost int
	logger     *slog.Logger
}

func NewService(users UserRepository, tokens RefreshTokenRepository, tokenGen TokenGenerator, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = 12
	}
	return &Service{
		users:      users,
		tokens:     tokens,
		tokenGen:   tokenGen,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Register creates a user (and optionally an embedded employee profile)
// with role EMPLOYEE unless roles are given.
func (s *Service) Register(dto RegisterDTO) (*AuthUser, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.users.FindByEmail(dto.Email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		s.logger.Error("register: email lookup failed", "error", err)
		return nil, internal.NewInternalError("failed to create user", err)
	}
	if existing != nil {
		return nil, internal.ErrEmailInUse
	}

	hash, err := s.HashPassword(dto.Password)
	if err != nil {
		s.logger.Error("register: password hashing failed", "error", err)
		return nil, internal.NewInternalError("failed to create user", err)
	}

	roles := dto.Roles
	if len(roles) == 0 {
		roles = []string{userDatamodel.RoleEmployee}
	}

	now := time.Now()
	user := &userDatamodel.User{
		ID:           uuid.NewString(),
		Email:        dto.Email,
		PasswordHash: hash,
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var employee *employeeDatamodel.Employee
	if dto.Employee != nil {
		status := employeeDatamodel.StatusActive
		if dto.Employee.Status != nil {
			status = *dto.Employee.Status
		}
		employee = &employeeDatamodel.Employee{
			ID:           uuid.NewString(),
			UserID:       user.ID,
			EmployeeCode: dto.Employee.EmployeeCode,
			Department:   dto.Employee.Department,
			JobTitle:     dto.Employee.JobTitle,
			Status:       status,
			ManagerID:    dto.Employee.ManagerID,
			HireDate:     dto.Employee.HireDate,
			Phone:        dto.Employee.Phone,
			Location:     dto.Employee.Location,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
	}

	if err := s.users.Create(user, roles, employee); err != nil {
		s.logger.Error("register: user creation failed", "error", err, "email", dto.Email)
		return nil, internal.NewInternalError("failed to create user", err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "roles", roles)

	view := s.toAuthUser(user, roles)
	if employee != nil {
		view.Status = &employee.Status
	}
	return &view, nil
}

// Login verifies credentials and issues a fresh token pair. Unknown email
// and bad password fail with the same error so emails cannot be enumerated.
func (s *Service) Login(dto LoginDTO, meta ClientMeta) (*LoginResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(dto.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, internal.ErrInvalidCredentials
		}
		s.logger.Error("login: user lookup failed", "error", err)
		return nil, internal.NewInternalError("login failed", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(dto.Password)); err != nil {
		return nil, internal.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, internal.ErrUserInactive
	}

	if err := s.users.RecordLogin(user.ID, time.Now()); err != nil {
		s.logger.Error("login: failed to record last login", "error", err, "user_id", user.ID)
		return nil, internal.NewInternalError("login failed", err)
	}

	tokens, err := s.issueTokens(user, meta, uuid.NewString())
	if err != nil {
		return nil, err
	}

	view, err := s.authUserWithStatus(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", "user_id", user.ID)

	return &LoginResult{User: view, Tokens: *tokens}, nil
}

// Refresh rotates a refresh token: a new pair is issued and the presented
// token is revoked in a single conditional update, so a replayed token can
// never succeed twice even under concurrent use.
func (s *Service) Refresh(rawToken string, meta ClientMeta) (*LoginResult, error) {
	claims, err := s.tokenGen.ValidateRefreshToken(rawToken)
	if err != nil {
		return nil, internal.ErrInvalidToken
	}

	// Access tokens carry no token id; rejecting here stops them being
	// replayed as refresh tokens.
	if claims.TokenID == "" {
		return nil, internal.ErrInvalidToken
	}

	stored, err := s.tokens.FindByHash(HashToken(rawToken))
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return nil, internal.ErrInvalidToken
		}
		s.logger.Error("refresh: token lookup failed", "error", err)
		return nil, internal.NewInternalError("token refresh failed", err)
	}

	if stored.RevokedAt != nil || time.Now().After(stored.ExpiresAt) {
		return nil, internal.ErrInvalidToken
	}

	if stored.UserID != claims.Subject {
		s.logger.Warn("refresh: subject mismatch", "stored_user", stored.UserID, "claim_subject", claims.Subject)
		return nil, internal.ErrInvalidToken
	}

	user, err := s.users.FindByID(stored.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, internal.ErrInvalidToken
		}
		s.logger.Error("refresh: user lookup failed", "error", err, "user_id", stored.UserID)
		return nil, internal.NewInternalError("token refresh failed", err)
	}

	// Revoke-then-issue: the conditional revoke is the rotation gate. If a
	// concurrent refresh already revoked this row we lose the race and the
	// caller gets nothing.
	newTokenRowID := uuid.NewString()
	revoked, err := s.tokens.Revoke(stored.ID, &newTokenRowID)
	if err != nil {
		s.logger.Error("refresh: revocation failed", "error", err, "token_id", stored.ID)
		return nil, internal.NewInternalError("token refresh failed", err)
	}
	if !revoked {
		return nil, internal.ErrInvalidToken
	}

	tokens, err := s.issueTokensWithRowID(user, meta, uuid.NewString(), newTokenRowID)
	if err != nil {
		return nil, err
	}

	view, err := s.authUserWithStatus(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("refresh token rotated", "user_id", user.ID, "revoked_token_id", stored.ID)

	return &LoginResult{User: view, Tokens: *tokens}, nil
}

// Logout revokes the presented token when it exists. It never fails:
// absent, unknown and already-revoked tokens are all treated as success.
func (s *Service) Logout(rawToken string) {
	if rawToken == "" {
		return
	}

	stored, err := s.tokens.FindByHash(HashToken(rawToken))
	if err != nil {
		if !errors.Is(err, ErrTokenNotFound) {
			s.logger.Error("logout: token lookup failed", "error", err)
		}
		return
	}

	if stored.RevokedAt != nil {
		return
	}

	if _, err := s.tokens.Revoke(stored.ID, nil); err != nil {
		s.logger.Error("logout: revocation failed", "error", err, "token_id", stored.ID)
	}
}

// LogoutAll revokes every active refresh token owned by the user.
func (s *Service) LogoutAll(userID string) error {
	if err := s.tokens.RevokeAllForUser(userID); err != nil {
		s.logger.Error("logout all: bulk revocation failed", "error", err, "user_id", userID)
		return internal.NewInternalError("failed to revoke sessions", err)
	}
	s.logger.Info("all sessions revoked", "user_id", userID)
	return nil
}

// ValidateAccessToken verifies an access token and returns its claims.
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGen.ValidateAccessToken(tokenString)
}

// HashPassword creates a bcrypt hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *Service) issueTokens(user *userDatamodel.User, meta ClientMeta, tokenID string) (*AuthTokens, error) {
	return s.issueTokensWithRowID(user, meta, tokenID, uuid.NewString())
}

func (s *Service) issueTokensWithRowID(user *userDatamodel.User, meta ClientMeta, tokenID, rowID string) (*AuthTokens, error) {
	roles := user.RoleNames()

	accessToken, err := s.tokenGen.GenerateAccessToken(user.ID, user.Email, roles)
	if err != nil {
		s.logger.Error("token issuance failed", "error", err, "user_id", user.ID)
		return nil, internal.NewInternalError("failed to issue tokens", err)
	}

	refreshToken, err := s.tokenGen.GenerateRefreshToken(user.ID, user.Email, roles, tokenID)
	if err != nil {
		s.logger.Error("token issuance failed", "error", err, "user_id", user.ID)
		return nil, internal.NewInternalError("failed to issue tokens", err)
	}

	var (
		userAgent *string
		ipAddress *string
	)
	if meta.UserAgent != "" {
		userAgent = &meta.UserAgent
	}
	if meta.IPAddress != "" {
		ipAddress = &meta.IPAddress
	}

	expiresAt := time.Now().Add(s.tokenGen.RefreshTTL())

	record := &userDatamodel.RefreshToken{
		ID:        rowID,
		UserID:    user.ID,
		TokenHash: HashToken(refreshToken),
		ExpiresAt: expiresAt,
		UserAgent: userAgent,
		IPAddress: ipAddress,
		CreatedAt: time.Now(),
	}

	if err := s.tokens.Create(record); err != nil {
		s.logger.Error("refresh token persistence failed", "error", err, "user_id", user.ID)
		return nil, internal.NewInternalError("failed to issue tokens", err)
	}

	return &AuthTokens{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: expiresAt,
	}, nil
}

func (s *Service) authUserWithStatus(user *userDatamodel.User) (AuthUser, error) {
	view := s.toAuthUser(user, user.RoleNames())

	status, err := s.users.EmploymentStatus(user.ID)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		s.logger.Error("employment status lookup failed", "error", err, "user_id", user.ID)
		return view, internal.NewInternalError("login failed", err)
	}
	view.Status = status
	return view, nil
}

func (s *Service) toAuthUser(user *userDatamodel.User, roles []string) AuthUser {
	return AuthUser{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Roles:     roles,
	}
}
