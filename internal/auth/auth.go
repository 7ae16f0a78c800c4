package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	userDatamodel "github.com/vivekrana775/ems-backend/internal/core/datamodel/user"
)

// ElevatedRoles may act on behalf of other employees and drive the
// request approval workflow.
var ElevatedRoles = []string{userDatamodel.RoleAdmin, userDatamodel.RoleManager, userDatamodel.RoleHR}

// Identity is the verified access-token claim set attached to a request
// context by the auth middleware.
type Identity struct {
	UserID string
	Email  string
	Roles  []string
}

func (i *Identity) HasAnyRole(allowed ...string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, role := range i.Roles {
		for _, a := range allowed {
			if role == a {
				return true
			}
		}
	}
	return false
}

func (i *Identity) IsElevated() bool {
	return i.HasAnyRole(ElevatedRoles...)
}

type ctxKey string

const identityKey ctxKey = "identity"

func ContextWithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*Identity)
	return identity, ok && identity != nil
}

// AuthUser is the sanitized user view returned by auth operations.
// It never carries the password hash.
type AuthUser struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Roles     []string `json:"roles"`
	Status    *string  `json:"status"`
}

type AuthTokens struct {
	AccessToken           string    `json:"accessToken"`
	RefreshToken          string    `json:"refreshToken"`
	RefreshTokenExpiresAt time.Time `json:"refreshTokenExpiresAt"`
}

// ClientMeta carries request metadata stored alongside refresh tokens
// for audit purposes.
type ClientMeta struct {
	UserAgent string
	IPAddress string
}

// Claims represents JWT token claims. TokenID is present only on refresh
// tokens; access tokens deliberately carry no unique identifier.
type Claims struct {
	Email   string   `json:"email,omitempty"`
	Roles   []string `json:"roles"`
	TokenID string   `json:"token_id,omitempty"`
	jwt.RegisteredClaims
}

// TokenGenerator creates and verifies the two token classes, each signed
// with its own secret and expiry.
type TokenGenerator interface {
	GenerateAccessToken(userID, email string, roles []string) (string, error)
	GenerateRefreshToken(userID, email string, roles []string, tokenID string) (string, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
	RefreshTTL() time.Duration
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}

// NewJWTTokenGenerator creates a new JWT token generator
func NewJWTTokenGenerator(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTTokenGenerator {
	return &JWTTokenGenerator{
		AccessTokenSecret:  []byte(accessSecret),
		RefreshTokenSecret: []byte(refreshSecret),
		AccessTokenTTL:     accessTTL,
		RefreshTokenTTL:    refreshTTL,
	}
}

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrMissingSecret = errors.New("token secret not configured")
)

// GenerateAccessToken creates a new access token
func (j *JWTTokenGenerator) GenerateAccessToken(userID, email string, roles []string) (string, error) {
	return j.sign(j.AccessTokenSecret, j.AccessTokenTTL, userID, email, roles, "")
}

// GenerateRefreshToken creates a new refresh token carrying the token id
// used for persistence lookup.
func (j *JWTTokenGenerator) GenerateRefreshToken(userID, email string, roles []string, tokenID string) (string, error) {
	return j.sign(j.RefreshTokenSecret, j.RefreshTokenTTL, userID, email, roles, tokenID)
}

func (j *JWTTokenGenerator) sign(secret []byte, ttl time.Duration, userID, email string, roles []string, tokenID string) (string, error) {
	if len(secret) == 0 {
		return "", ErrMissingSecret
	}

	now := time.Now()
	claims := &Claims{
		Email:   email,
		Roles:   roles,
		TokenID: tokenID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateAccessToken verifies a token against the access secret.
func (j *JWTTokenGenerator) ValidateAccessToken(tokenString string) (*Claims, error) {
	return j.validate(tokenString, j.AccessTokenSecret)
}

// ValidateRefreshToken verifies a token against the refresh secret.
func (j *JWTTokenGenerator) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return j.validate(tokenString, j.RefreshTokenSecret)
}

// validate performs purely cryptographic/structural checks. Expired and
// malformed tokens are reported identically; callers map both to an
// unauthorized response.
func (j *JWTTokenGenerator) validate(tokenString string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// RefreshTTL reports the configured refresh token lifetime.
func (j *JWTTokenGenerator) RefreshTTL() time.Duration {
	return j.RefreshTokenTTL
}

// HashToken returns the SHA-256 hash of a raw refresh token as a hex
// string; only hashes are ever persisted.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
