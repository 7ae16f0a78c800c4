package request

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/vivekrana775/ems-backend/internal"
	"github.com/vivekrana775/ems-backend/internal/auth"
	"github.com/vivekrana775/ems-backend/internal/transport"
	"github.com/vivekrana775/ems-backend/pkg/logger"
)

type ServiceAPI interface {
	Create(ctx context.Context, identity *auth.Identity, dto CreateRequestDTO) (*View, error)
	GetByID(identity *auth.Identity, id string) (*View, error)
	List(identity *auth.Identity, filter ListFilter, page internal.PageParams) (*ListResult, error)
	UpdateStatus(ctx context.Context, identity *auth.Identity, id string, dto UpdateStatusDTO) (*View, error)
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

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "Unauthorized", internal.ErrCodeUnauthorized)
		return
	}

	var dto CreateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body", internal.ErrCodeBadRequest)
		return
	}

	view, err := h.Service.Create(r.Context(), identity, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusCreated, view, "Request created")
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "Unauthorized", internal.ErrCodeUnauthorized)
		return
	}

	view, err := h.Service.GetByID(identity, chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, view, "")
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

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "Unauthorized", internal.ErrCodeUnauthorized)
		return
	}

	var dto UpdateStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body", internal.ErrCodeBadRequest)
		return
	}

	view, err := h.Service.UpdateStatus(r.Context(), identity, chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, view, "Request status updated")
}

func filterFromQuery(r *http.Request) ListFilter {
	var filter ListFilter
	if v := r.URL.Query().Get("employeeId"); v != "" {
		filter.EmployeeID = &v
	}
	if v := r.URL.Query().Get("status"); v != "" {
		filter.Status = &v
	}
	if v := r.URL.Query().Get("type"); v != "" {
		filter.Type = &v
	}
	return filter
}

func pageFromQuery(r *http.Request) internal.PageParams {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	return internal.NormalizePage(page, pageSize)
}
