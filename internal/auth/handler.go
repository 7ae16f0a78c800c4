package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/vivekrana775/ems-backend/internal"
	"github.com/vivekrana775/ems-backend/internal/transport"
	"github.com/vivekrana775/ems-backend/pkg/logger"
)

const (
	refreshTokenCookie = "refresh_token"
	accessTokenCookie  = "access_token"
	refreshCookiePath  = "/api/auth/refresh"
)

type ServiceAPI interface {
	Register(dto RegisterDTO) (*AuthUser, error)
	Login(dto LoginDTO, meta ClientMeta) (*LoginResult, error)
	Refresh(rawToken string, meta ClientMeta) (*LoginResult, error)
	Logout(rawToken string)
	LogoutAll(userID string) error
	ValidateAccessToken(tokenString string) (*Claims, error)
}

type Handler struct {
	*transport.BaseHandler
	Service      ServiceAPI
	secureCookie bool
}

func NewHandler(svc ServiceAPI, secureCookie bool) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler:  transport.NewBaseHandler(lg),
		Service:      svc,
		secureCookie: secureCookie,
	}
}

// Signup creates a user; the route is gated to ADMIN/HR.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body", internal.ErrCodeBadRequest)
		return
	}

	user, err := h.Service.Register(dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusCreated, user, "User created")
}

type loginResponse struct {
	User                  AuthUser  `json:"user"`
	AccessToken           string    `json:"accessToken"`
	RefreshTokenExpiresAt time.Time `json:"refreshTokenExpiresAt"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body", internal.ErrCodeBadRequest)
		return
	}

	result, err := h.Service.Login(dto, clientMeta(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.setRefreshCookie(w, result.Tokens.RefreshToken, result.Tokens.RefreshTokenExpiresAt)
	h.WriteData(w, http.StatusOK, loginResponse{
		User:                  result.User,
		AccessToken:           result.Tokens.AccessToken,
		RefreshTokenExpiresAt: result.Tokens.RefreshTokenExpiresAt,
	}, "Logged in successfully")
}

// RefreshToken rotates the refresh credential; the raw token is read from
// the cookie first, then the request body.
func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	raw := h.refreshTokenFromRequest(r)
	if raw == "" {
		h.WriteError(w, http.StatusUnauthorized, "Refresh token missing", internal.ErrCodeUnauthorized)
		return
	}

	result, err := h.Service.Refresh(raw, clientMeta(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.setRefreshCookie(w, result.Tokens.RefreshToken, result.Tokens.RefreshTokenExpiresAt)
	h.WriteData(w, http.StatusOK, loginResponse{
		User:                  result.User,
		AccessToken:           result.Tokens.AccessToken,
		RefreshTokenExpiresAt: result.Tokens.RefreshTokenExpiresAt,
	}, "Token refreshed")
}

// Logout always succeeds, even with an absent or bogus token.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Service.Logout(h.refreshTokenFromRequest(r))
	h.clearRefreshCookie(w)
	h.WriteData(w, http.StatusOK, map[string]bool{"success": true}, "Logged out")
}

func (h *Handler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "Unauthorized", internal.ErrCodeUnauthorized)
		return
	}

	if err := h.Service.LogoutAll(identity.UserID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.clearRefreshCookie(w)
	h.WriteData(w, http.StatusOK, map[string]bool{"success": true}, "Logged out of all sessions")
}

// ForgotPassword is a stub: the mail delivery collaborator is not built yet.
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	h.WriteData(w, http.StatusAccepted, map[string]bool{"queued": true},
		"Password reset instructions will be sent if the user exists")
}

// ResetPassword is a stub for the unimplemented reset flow.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	h.WriteData(w, http.StatusNotImplemented, map[string]bool{"supported": false},
		"Reset password flow not yet implemented")
}

// AuthMiddleware verifies the access token from the Authorization header
// (or access_token cookie) and attaches the identity to the context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			if cookie, err := r.Cookie(accessTokenCookie); err == nil {
				token = cookie.Value
			}
		}
		if token == "" {
			h.WriteError(w, http.StatusUnauthorized, "Authentication token missing", internal.ErrCodeUnauthorized)
			return
		}

		claims, err := h.Service.ValidateAccessToken(token)
		if err != nil {
			h.WriteError(w, http.StatusUnauthorized, "Invalid or expired token", internal.ErrCodeInvalidToken)
			return
		}

		identity := &Identity{
			UserID: claims.Subject,
			Email:  claims.Email,
			Roles:  claims.Roles,
		}
		next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), identity)))
	})
}

// RequireRoles allows only identities holding at least one of the given
// roles. An empty list admits any authenticated identity.
func (h *Handler) RequireRoles(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				h.WriteError(w, http.StatusUnauthorized, "Unauthorized", internal.ErrCodeUnauthorized)
				return
			}

			if !identity.HasAnyRole(roles...) {
				h.Logger.Warn("access denied: insufficient role",
					"user_id", identity.UserID,
					"required_roles", roles,
					"user_roles", identity.Roles)
				h.WriteError(w, http.StatusForbidden, "Insufficient permissions", internal.ErrCodeForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (h *Handler) refreshTokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(refreshTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	var dto RefreshDTO
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&dto); err == nil {
			return dto.RefreshToken
		}
	}
	return ""
}

func (h *Handler) setRefreshCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge < 0 {
		maxAge = 0
	}
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    token,
		Path:     refreshCookiePath,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    "",
		Path:     refreshCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func clientMeta(r *http.Request) ClientMeta {
	return ClientMeta{
		UserAgent: r.UserAgent(),
		IPAddress: r.RemoteAddr,
	}
}
