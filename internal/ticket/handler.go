// AngelaMos | 2026
// handler.go

package ticket

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
	r.Route("/tickets", func(r chi.Router) {
		r.Use(authenticator)

		r.Post("/", h.Create)
		r.Get("/", h.ListMine)
		r.Get("/{ticketID}", h.Get)
		r.Post("/{ticketID}/replies", h.Reply)
		r.Post("/{ticketID}/close", h.Close)
	})
}

func (h *Handler) RegisterStaffRoutes(
	r chi.Router,
	authenticator, staffOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/tickets", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(staffOnly)

		r.Get("/", h.ListAll)
		r.Post("/{ticketID}/reopen", h.Reopen)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	var req CreateTicketRequest
	if !h.decode(w, r, &req) {
		return
	}

	ticket, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, ticket)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	params := ListTicketsParams{
		PageParams: store.PageParamsFromRequest(r),
		Status:     r.URL.Query().Get("status"),
	}

	page, err := h.service.ListMine(r.Context(), userID, params)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, page)
}

func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	params := ListTicketsParams{
		PageParams: store.PageParamsFromRequest(r),
		Status:     r.URL.Query().Get("status"),
	}

	page, err := h.service.ListAll(r.Context(), params)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, page)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	detail, err := h.service.Get(
		r.Context(),
		userID,
		isStaff(r),
		chi.URLParam(r, "ticketID"),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, detail)
}

func (h *Handler) Reply(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	var req ReplyRequest
	if !h.decode(w, r, &req) {
		return
	}

	reply, err := h.service.Reply(
		r.Context(),
		userID,
		isStaff(r),
		chi.URLParam(r, "ticketID"),
		req,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, reply)
}

func (h *Handler) Close(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	err := h.service.Close(
		r.Context(),
		userID,
		isStaff(r),
		chi.URLParam(r, "ticketID"),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) Reopen(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Reopen(r.Context(), chi.URLParam(r, "ticketID")); err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}

func isStaff(r *http.Request) bool {
	role := middleware.GetUserRole(r.Context())
	return role == "staff" || role == "admin"
}
