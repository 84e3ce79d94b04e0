// AngelaMos | 2026
// handler.go

package auth

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/angelamos/gymstack/internal/core"
	"github.com/angelamos/gymstack/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	v := validator.New(validator.WithRequiredStructEnabled())
	return &Handler{service: service, validator: v}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/auth", func(r chi.Router) {
		// Credential endpoints stay public; everything else needs a
		// valid access token.
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/refresh", h.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Get("/me", h.GetMe)
			r.Get("/sessions", h.GetSessions)
			r.Delete("/sessions/{sessionID}", h.RevokeSession)
			r.Post("/logout", h.Logout)
			r.Post("/logout-all", h.LogoutAll)
			r.Post("/change-password", h.ChangePassword)
		})
	})
}

// identity pulls the authenticated user ID out of the request context,
// writing the 401 itself when the context carries none.
func (h *Handler) identity(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return "", false
	}
	return userID, true
}

// decode unmarshals and validates the request body, writing the 400
// itself when either step fails.
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

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.service.Login(r.Context(), req, r.UserAgent(), clientIP(r))
	if err != nil {
		// One message for both unknown email and wrong password.
		if errors.Is(err, ErrInvalidCredentials) {
			core.JSONError(w, core.UnauthorizedError("invalid email or password"))
			return
		}
		core.JSONError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.service.Register(r.Context(), req, r.UserAgent(), clientIP(r))
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			core.JSONError(w, core.DuplicateError("email"))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, resp)
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.service.Refresh(
		r.Context(),
		req.RefreshToken,
		r.UserAgent(),
		clientIP(r),
	)
	if err != nil {
		h.writeRefreshError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) writeRefreshError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrTokenReuse):
		core.JSONError(w, core.NewAppError(
			core.ErrTokenRevoked,
			"security alert: token reuse detected, all sessions revoked",
			http.StatusUnauthorized,
			"TOKEN_REUSE_DETECTED",
		))
	case errors.Is(err, core.ErrTokenExpired):
		core.JSONError(w, core.TokenExpiredError())
	case errors.Is(err, core.ErrTokenRevoked):
		core.JSONError(w, core.TokenRevokedError())
	case errors.Is(err, core.ErrTokenInvalid):
		core.JSONError(w, core.TokenInvalidError())
	default:
		core.InternalServerError(w, err)
	}
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.identity(w, r)
	if !ok {
		return
	}

	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.service.Logout(r.Context(), req.RefreshToken, userID); err != nil {
		if errors.Is(err, core.ErrForbidden) {
			core.Forbidden(w, "cannot revoke another user's token")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	// The access token presented with this request dies too, not just
	// the refresh chain.
	if claims := middleware.GetClaims(r.Context()); claims != nil {
		//nolint:errcheck // the token expires on its own shortly anyway
		_ = h.service.RevokeAccessToken(r.Context(), claims.JTI, claims.ExpiresAt)
	}

	core.NoContent(w)
}

func (h *Handler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.identity(w, r)
	if !ok {
		return
	}

	if err := h.service.LogoutAll(r.Context(), userID); err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) GetSessions(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.identity(w, r)
	if !ok {
		return
	}

	sessions, err := h.service.GetActiveSessions(r.Context(), userID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, SessionsResponse{Sessions: sessions})
}

func (h *Handler) RevokeSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.identity(w, r)
	if !ok {
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		core.BadRequest(w, "session ID required")
		return
	}

	err := h.service.RevokeSession(r.Context(), userID, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "session")
		case errors.Is(err, core.ErrForbidden):
			core.Forbidden(w, "cannot revoke another user's session")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.NoContent(w)
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.identity(w, r)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	err := h.service.ChangePassword(
		r.Context(),
		userID,
		req.CurrentPassword,
		req.NewPassword,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.identity(w, r)
	if !ok {
		return
	}

	user, err := h.service.GetCurrentUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, user)
}

// clientIP prefers proxy headers, rightmost X-Forwarded-For hop first.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		return strings.TrimSpace(hops[len(hops)-1])
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
