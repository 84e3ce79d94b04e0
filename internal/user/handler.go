// AngelaMos | 2026
// handler.go

package user

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
	r.Route("/users", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/me", h.GetMe)
		r.Put("/me", h.UpdateMe)
		r.Delete("/me", h.DeleteMe)
	})
}

// RegisterStaffRoutes registers member management endpoints. Listing and
// status changes are staff-level; role changes, deletion and restore stay
// admin-only.
func (h *Handler) RegisterStaffRoutes(
	r chi.Router,
	authenticator, staffOnly, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/users", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(staffOnly)

		r.Get("/", h.ListUsers)
		r.Get("/stats", h.GetStats)
		r.Get("/{userID}", h.GetUser)
		r.Put("/{userID}/status", h.UpdateUserStatus)
		r.Put("/{userID}/plan", h.AssignUserPlan)

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)
			r.Put("/{userID}/role", h.UpdateUserRole)
			r.Delete("/{userID}", h.DeleteUser)
			r.Post("/{userID}/restore", h.RestoreUser)
		})
	})
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	profile, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, profile)
}

func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	var req UpdateProfileRequest
	if !h.decode(w, r, &req) {
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, profile)
}

func (h *Handler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	if err := h.service.Delete(r.Context(), userID); err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	params := ListUsersParams{
		PageParams: store.PageParamsFromRequest(r),
		Role:       r.URL.Query().Get("role"),
		Status:     r.URL.Query().Get("status"),
	}

	page, err := h.service.ListUsers(r.Context(), params)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, page)
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetStats(r.Context())
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, stats)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.GetProfile(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, profile)
}

func (h *Handler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	var req UpdateRoleRequest
	if !h.decode(w, r, &req) {
		return
	}

	profile, err := h.service.SetRole(
		r.Context(),
		chi.URLParam(r, "userID"),
		req.Role,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, profile)
}

func (h *Handler) UpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if !h.decode(w, r, &req) {
		return
	}

	profile, err := h.service.SetStatus(
		r.Context(),
		chi.URLParam(r, "userID"),
		req.Status,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, profile)
}

func (h *Handler) AssignUserPlan(w http.ResponseWriter, r *http.Request) {
	var req AssignPlanRequest
	if !h.decode(w, r, &req) {
		return
	}

	profile, err := h.service.AssignPlan(
		r.Context(),
		chi.URLParam(r, "userID"),
		req.PlanID,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, profile)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	requesterID := middleware.GetUserID(r.Context())
	targetID := chi.URLParam(r, "userID")

	if err := h.service.CanDeleteUser(r.Context(), requesterID, targetID); err != nil {
		core.JSONError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), targetID); err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) RestoreUser(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Restore(r.Context(), chi.URLParam(r, "userID")); err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}
