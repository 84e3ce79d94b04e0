// AngelaMos | 2026
// handler.go

package progress

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
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/progress", func(r chi.Router) {
		r.Use(authenticator)

		r.Post("/", h.Record)
		r.Get("/", h.History)
		r.Get("/summary", h.Summary)
	})
}

func (h *Handler) RegisterStaffRoutes(
	r chi.Router,
	authenticator, staffOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/progress", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(staffOnly)

		r.Get("/users/{userID}", h.UserHistory)
		r.Get("/users/{userID}/summary", h.UserSummary)
		r.Post("/users/{userID}", h.StaffRecord)
	})
}

func (h *Handler) Record(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	h.record(w, r, userID)
}

func (h *Handler) StaffRecord(w http.ResponseWriter, r *http.Request) {
	h.record(w, r, chi.URLParam(r, "userID"))
}

func (h *Handler) record(
	w http.ResponseWriter,
	r *http.Request,
	userID string,
) {
	var req RecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	snapshot, err := h.service.Record(r.Context(), userID, req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, snapshot)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	h.history(w, r, userID)
}

func (h *Handler) UserHistory(w http.ResponseWriter, r *http.Request) {
	h.history(w, r, chi.URLParam(r, "userID"))
}

func (h *Handler) history(
	w http.ResponseWriter,
	r *http.Request,
	userID string,
) {
	page, err := h.service.History(
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

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	h.summary(w, r, userID)
}

func (h *Handler) UserSummary(w http.ResponseWriter, r *http.Request) {
	h.summary(w, r, chi.URLParam(r, "userID"))
}

func (h *Handler) summary(
	w http.ResponseWriter,
	r *http.Request,
	userID string,
) {
	summary, err := h.service.Summary(r.Context(), userID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, summary)
}
