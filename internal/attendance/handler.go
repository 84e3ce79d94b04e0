// AngelaMos | 2026
// handler.go

package attendance

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

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
	r.Route("/attendance", func(r chi.Router) {
		r.Use(authenticator)

		r.Post("/check-in", h.CheckIn)
		r.Post("/check-out", h.CheckOut)
		r.Get("/current", h.CurrentVisit)
		r.Get("/history", h.History)
	})
}

// RegisterStaffRoutes exposes the occupancy counter, per-member history and
// the door audit trail to staff.
func (h *Handler) RegisterStaffRoutes(
	r chi.Router,
	authenticator, staffOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/attendance", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(staffOnly)

		r.Get("/occupancy", h.Occupancy)
		r.Get("/access-log", h.AccessLog)
		r.Get("/users/{userID}/history", h.UserHistory)
		r.Post("/users/{userID}/check-in", h.StaffCheckIn)
		r.Post("/users/{userID}/check-out", h.StaffCheckOut)
	})
}

func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	req, ok := h.decodeCheckIn(w, r)
	if !ok {
		return
	}

	record, err := h.service.CheckIn(r.Context(), userID, req.Source)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, record)
}

func (h *Handler) CheckOut(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	record, err := h.service.CheckOut(r.Context(), userID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, record)
}

func (h *Handler) CurrentVisit(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	record, err := h.service.CurrentVisit(r.Context(), userID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, record)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	h.writeHistory(w, r, userID)
}

func (h *Handler) UserHistory(w http.ResponseWriter, r *http.Request) {
	h.writeHistory(w, r, chi.URLParam(r, "userID"))
}

func (h *Handler) StaffCheckIn(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCheckIn(w, r)
	if !ok {
		return
	}

	source := req.Source
	if source == "" {
		source = SourceFrontDesk
	}

	record, err := h.service.CheckIn(
		r.Context(),
		chi.URLParam(r, "userID"),
		source,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, record)
}

func (h *Handler) StaffCheckOut(w http.ResponseWriter, r *http.Request) {
	record, err := h.service.CheckOut(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, record)
}

func (h *Handler) Occupancy(w http.ResponseWriter, r *http.Request) {
	occupancy, err := h.service.Occupancy(r.Context())
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, occupancy)
}

func (h *Handler) AccessLog(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.AccessLog(r.Context(), store.PageParamsFromRequest(r))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, page)
}

func (h *Handler) writeHistory(
	w http.ResponseWriter,
	r *http.Request,
	userID string,
) {
	params := HistoryParams{
		PageParams: store.PageParamsFromRequest(r),
		From:       parseTimeQuery(r, "from"),
		To:         parseTimeQuery(r, "to"),
	}

	page, err := h.service.History(r.Context(), userID, params)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, page)
}

// decodeCheckIn tolerates an empty body; the source then defaults.
func (h *Handler) decodeCheckIn(
	w http.ResponseWriter,
	r *http.Request,
) (CheckInRequest, bool) {
	var req CheckInRequest

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil && !errors.Is(err, io.EOF) {
		core.BadRequest(w, "invalid request body")
		return req, false
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return req, false
	}

	return req, true
}

func parseTimeQuery(r *http.Request, key string) *time.Time {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil
	}

	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil
	}

	return &t
}
