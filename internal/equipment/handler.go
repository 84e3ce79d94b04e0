// AngelaMos | 2026
// handler.go

package equipment

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/angelamos/gymstack/internal/core"
	"github.com/angelamos/gymstack/internal/store"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	v := validator.New(validator.WithRequiredStructEnabled())
	return &Handler{service: service, validator: v}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		core.BadRequest(w, "invalid request body")
		return false
	}
	if err := h.validator.Struct(dst); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return false
	}
	return true
}

func (h *Handler) RegisterStaffRoutes(
	r chi.Router,
	authenticator, staffOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/equipment", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(staffOnly)

		r.Get("/", h.List)
		r.Get("/categories", h.Categories)
		r.Get("/status-breakdown", h.StatusBreakdown)
		r.Post("/", h.Create)
		r.Get("/{equipmentID}", h.Get)
		r.Put("/{equipmentID}", h.Update)
		r.Delete("/{equipmentID}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := ListEquipmentParams{
		PageParams: store.PageParamsFromRequest(r),
		Category:   r.URL.Query().Get("category"),
		Status:     r.URL.Query().Get("status"),
	}

	page, err := h.service.List(r.Context(), params)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, page)
}

func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, map[string][]string{"categories": categories})
}

func (h *Handler) StatusBreakdown(w http.ResponseWriter, r *http.Request) {
	breakdown, err := h.service.StatusBreakdown(r.Context())
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, breakdown)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.Get(r.Context(), chi.URLParam(r, "equipmentID"))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, item)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateEquipmentRequest
	if !h.decode(w, r, &req) {
		return
	}

	item, err := h.service.Create(r.Context(), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, item)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateEquipmentRequest
	if !h.decode(w, r, &req) {
		return
	}

	item, err := h.service.Update(
		r.Context(),
		chi.URLParam(r, "equipmentID"),
		req,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, item)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.service.Delete(r.Context(), chi.URLParam(r, "equipmentID"))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}
