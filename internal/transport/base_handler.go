package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/vivekrana775/ems-backend/internal"
	"github.com/vivekrana775/ems-backend/pkg/logger"
)

// SuccessResponse is the envelope shared by every success response.
type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Message string      `json:"message,omitempty"`
}

// ErrorResponse is the envelope shared by every error response.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg}
}

// WriteData writes a success envelope.
func (h *BaseHandler) WriteData(w http.ResponseWriter, status int, data interface{}, message string) {
	h.writeJSON(w, status, SuccessResponse{Success: true, Data: data, Message: message})
}

// WriteError writes an error envelope with the given status and code.
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string, code internal.ErrorCode) {
	h.writeJSON(w, status, ErrorResponse{Success: false, Message: message, Code: string(code)})
}

// HandleServiceError maps a service error to a response. Operational
// errors surface verbatim; anything unanticipated is logged with its
// cause and reduced to a generic internal error.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := internal.IsAppError(err); ok {
		if appErr.Type == internal.ErrorTypeInternal {
			h.Logger.Error("internal error", "error", appErr.Error(), "cause", appErr.Cause)
			h.WriteError(w, appErr.StatusCode, "Internal server error", appErr.Code)
			return
		}
		h.writeJSON(w, appErr.StatusCode, ErrorResponse{
			Success: false,
			Message: appErr.Message,
			Code:    string(appErr.Code),
			Details: appErr.Details,
		})
		return
	}

	h.Logger.Error("unclassified error", "error", err)
	h.WriteError(w, http.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR")
}

func (h *BaseHandler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ""
	}

	return authHeader[7:]
}
