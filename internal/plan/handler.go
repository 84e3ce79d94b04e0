// AngelaMos | 2026
// handler.go

package plan

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

// RegisterRoutes exposes the active plan catalog to any authenticated user.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/plans", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.ListActive)
		r.Get("/{planID}", h.Get)
	})
}

func (h *Handler) RegisterStaffRoutes(
	r chi.Router,
	authenticator, staffOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/plans", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(staffOnly)

		r.Get("/", h.ListAll)
		r.Post("/", h.Create)
		r.Put("/{planID}", h.Update)
		r.Delete("/{planID}", h.Delete)
	})
}

func (h *Handler) ListActive(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

func (h *Handler) list(
	w http.ResponseWriter,
	r *http.Request,
	activeOnly bool,
) {
	params := ListPlansParams{
		PageParams: store.PageParamsFromRequest(r),
		ActiveOnly: activeOnly,
	}

	page, err := h.service.List(r.Context(), params)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, page)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	plan, err := h.service.Get(r.Context(), chi.URLParam(r, "planID"))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, plan)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreatePlanRequest
	if !h.decode(w, r, &req) {
		return
	}

	plan, err := h.service.Create(r.Context(), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, plan)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdatePlanRequest
	if !h.decode(w, r, &req) {
		return
	}

	plan, err := h.service.Update(r.Context(), chi.URLParam(r, "planID"), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, plan)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "planID")); err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}
