package employee

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/vivekrana775/ems-backend/internal"
	"github.com/vivekrana775/ems-backend/internal/transport"
	"github.com/vivekrana775/ems-backend/pkg/logger"
)

type ServiceAPI interface {
	List(filter ListFilter, page internal.PageParams) (*ListResult, error)
	GetByID(id string) (*View, error)
	Create(dto CreateEmployeeDTO) (*View, error)
	Update(id string, dto UpdateEmployeeDTO) (*View, error)
	UpdateStatus(id string, dto UpdateStatusDTO) (*View, error)
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

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.Service.List(filterFromQuery(r), pageFromQuery(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, result, "")
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.Service.GetByID(chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, view, "")
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateEmployeeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body", internal.ErrCodeBadRequest)
		return
	}

	view, err := h.Service.Create(dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusCreated, view, "Employee created")
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var dto UpdateEmployeeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body", internal.ErrCodeBadRequest)
		return
	}

	view, err := h.Service.Update(chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, view, "Employee updated")
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var dto UpdateStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body", internal.ErrCodeBadRequest)
		return
	}

	view, err := h.Service.UpdateStatus(chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, view, "Employee status updated")
}

func filterFromQuery(r *http.Request) ListFilter {
	var filter ListFilter
	if v := r.URL.Query().Get("status"); v != "" {
		filter.Status = &v
	}
	if v := r.URL.Query().Get("department"); v != "" {
		filter.Department = &v
	}
	if v := r.URL.Query().Get("search"); v != "" {
		filter.Search = &v
	}
	return filter
}

func pageFromQuery(r *http.Request) internal.PageParams {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	return internal.NormalizePage(page, pageSize)
}
