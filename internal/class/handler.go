// AngelaMos | 2026
// handler.go

package class

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/angelamos/gymstack/internal/core"
	"github.com/angelamos/gymstack/internal/middleware"
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

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/classes", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.ListClasses)
		r.Get("/categories", h.Categories)
		r.Get("/{classID}", h.GetClass)

		r.Get("/schedules", h.ListSchedules)
		r.Get("/schedules/{scheduleID}", h.GetSchedule)
		r.Post("/schedules/{scheduleID}/register", h.Register)
		r.Delete("/schedules/{scheduleID}/register", h.CancelRegistration)

		r.Get("/registrations", h.MyRegistrations)
	})
}

func (h *Handler) RegisterStaffRoutes(
	r chi.Router,
	authenticator, staffOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/classes", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(staffOnly)

		r.Post("/", h.CreateClass)
		r.Put("/{classID}", h.UpdateClass)
		r.Delete("/{classID}", h.DeleteClass)

		r.Post("/schedules", h.CreateSchedule)
		r.Delete("/schedules/{scheduleID}", h.CancelSchedule)
		r.Get("/schedules/{scheduleID}/registrations", h.ListRegistrations)
	})
}

func (h *Handler) ListClasses(w http.ResponseWriter, r *http.Request) {
	params := ListClassesParams{
		PageParams: store.PageParamsFromRequest(r),
		Category:   r.URL.Query().Get("category"),
	}

	page, err := h.service.ListClasses(r.Context(), params)
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

func (h *Handler) GetClass(w http.ResponseWriter, r *http.Request) {
	class, err := h.service.GetClass(r.Context(), chi.URLParam(r, "classID"))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, class)
}

func (h *Handler) CreateClass(w http.ResponseWriter, r *http.Request) {
	var req CreateClassRequest
	if !h.decode(w, r, &req) {
		return
	}

	class, err := h.service.CreateClass(r.Context(), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, class)
}

func (h *Handler) UpdateClass(w http.ResponseWriter, r *http.Request) {
	var req UpdateClassRequest
	if !h.decode(w, r, &req) {
		return
	}

	class, err := h.service.UpdateClass(
		r.Context(),
		chi.URLParam(r, "classID"),
		req,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, class)
}

func (h *Handler) DeleteClass(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteClass(r.Context(), chi.URLParam(r, "classID")); err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	params := ListSchedulesParams{
		PageParams: store.PageParamsFromRequest(r),
		ClassID:    r.URL.Query().Get("class_id"),
	}

	page, err := h.service.ListSchedules(r.Context(), params)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, page)
}

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	sched, err := h.service.GetSchedule(
		r.Context(),
		chi.URLParam(r, "scheduleID"),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, sched)
}

func (h *Handler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req CreateScheduleRequest
	if !h.decode(w, r, &req) {
		return
	}

	sched, err := h.service.CreateSchedule(r.Context(), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, sched)
}

func (h *Handler) CancelSchedule(w http.ResponseWriter, r *http.Request) {
	err := h.service.CancelSchedule(r.Context(), chi.URLParam(r, "scheduleID"))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	reg, err := h.service.Register(
		r.Context(),
		chi.URLParam(r, "scheduleID"),
		userID,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, reg)
}

func (h *Handler) CancelRegistration(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	err := h.service.CancelRegistration(
		r.Context(),
		chi.URLParam(r, "scheduleID"),
		userID,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) MyRegistrations(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	page, err := h.service.ListUserRegistrations(
		r.Context(),
		userID,
		store.PageParamsFromRequest(r),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, page)
}

func (h *Handler) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.ListRegistrations(
		r.Context(),
		chi.URLParam(r, "scheduleID"),
		store.PageParamsFromRequest(r),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, page)
}
