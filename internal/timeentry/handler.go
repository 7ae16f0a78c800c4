package timeentry

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/vivekrana775/ems-backend/internal"
	"github.com/vivekrana775/ems-backend/internal/auth"
	"github.com/vivekrana775/ems-backend/internal/transport"
	"github.com/vivekrana775/ems-backend/pkg/logger"
)

type ServiceAPI interface {
	ClockIn(identity *auth.Identity, dto ClockInDTO) (*View, error)
	ClockOut(identity *auth.Identity, dto ClockOutDTO) (*View, error)
	List(identity *auth.Identity, filter ListFilter, page internal.PageParams) (*ListResult, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) ClockIn(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "Unauthorized", internal.ErrCodeUnauthorized)
		return
	}

	var dto ClockInDTO
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid request body", internal.ErrCodeBadRequest)
			return
		}
	}

	view, err := h.Service.ClockIn(identity, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusCreated, view, "Clocked in")
}

func (h *Handler) ClockOut(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "Unauthorized", internal.ErrCodeUnauthorized)
		return
	}

	var dto ClockOutDTO
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid request body", internal.ErrCodeBadRequest)
			return
		}
	}

	view, err := h.Service.ClockOut(identity, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, view, "Clocked out")
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "Unauthorized", internal.ErrCodeUnauthorized)
		return
	}

	result, err := h.Service.List(identity, filterFromQuery(r), pageFromQuery(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, result, "")
}

func filterFromQuery(r *http.Request) ListFilter {
	var filter ListFilter
	if v := r.URL.Query().Get("employeeId"); v != "" {
		filter.EmployeeID = &v
	}
	if v := r.URL.Query().Get("from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.From = &t
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.To = &t
		}
	}
	return filter
}

func pageFromQuery(r *http.Request) internal.PageParams {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	return internal.NormalizePage(page, pageSize)
}
