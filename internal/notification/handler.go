// AngelaMos | 2026
// handler.go

package notification

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
	r.Route("/notifications", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Get("/unread-count", h.UnreadCount)
		r.Post("/{notificationID}/read", h.MarkRead)
		r.Post("/read-all", h.MarkAllRead)
	})
}

// RegisterStaffRoutes lets staff push an announcement to a member.
func (h *Handler) RegisterStaffRoutes(
	r chi.Router,
	authenticator, staffOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/notifications", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(staffOnly)

		r.Post("/", h.Notify)
		r.Post("/broadcast", h.Broadcast)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	page, err := h.service.List(
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

func (h *Handler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	count, err := h.service.UnreadCount(r.Context(), userID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, count)
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	err := h.service.MarkRead(
		r.Context(),
		userID,
		chi.URLParam(r, "notificationID"),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	resp, err := h.service.MarkAllRead(r.Context(), userID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) Notify(w http.ResponseWriter, r *http.Request) {
	var req NotifyRequest
	if !h.decode(w, r, &req) {
		return
	}

	err := h.service.Notify(r.Context(), req.UserID, req.Title, req.Body)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, AckResponse{OK: true})
}

func (h *Handler) Broadcast(w http.ResponseWriter, r *http.Request) {
	var req BroadcastRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.service.Broadcast(r.Context(), req.UserIDs, req.Title, req.Body)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, resp)
}
