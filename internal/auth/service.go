// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/angelamos/gymstack/internal/core"
	"github.com/angelamos/gymstack/internal/middleware"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenReuse         = errors.New("token reuse detected")
	ErrEmailExists        = errors.New("email already exists")
)

const accessTokenTTL = 15 * time.Minute

// UserInfo is the slice of the user record this package needs; the full
// profile stays behind the user service.
type UserInfo struct {
	ID           string
	Email        string
	Username     string
	Name         string
	PasswordHash string
	Role         string
	Status       string
	TokenVersion int
}

type CreateUserParams struct {
	Email        string
	Username     string
	PasswordHash string
	Name         string
	Phone        string
}

// UserProvider decouples credential flows from user storage; the user
// service satisfies it.
type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	Create(ctx context.Context, params CreateUserParams) (*UserInfo, error)
	IncrementTokenVersion(ctx context.Context, userID string) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

type Service struct {
	repo         Repository
	jwt          *JWTManager
	users        UserProvider
	redis        *redis.Client
	blacklistTTL time.Duration
}

func NewService(
	repo Repository,
	jwt *JWTManager,
	users UserProvider,
	redisClient *redis.Client,
) *Service {
	return &Service{
		repo:         repo,
		jwt:          jwt,
		users:        users,
		redis:        redisClient,
		blacklistTTL: accessTokenTTL,
	}
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
	userAgent, ipAddress string,
) (*AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			// Burn a verification anyway so a missing account is not
			// distinguishable from a wrong password by response time.
			_, _, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, upgradedHash, err := core.VerifyPasswordTimingSafe(
		req.Password,
		&user.PasswordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, ErrInvalidCredentials
	}

	// Suspended members keep their account but lose access until staff
	// lifts the suspension. They proved who they are, so this is a 403.
	if user.Status == "suspended" {
		return nil, core.ForbiddenError("account suspended")
	}

	if upgradedHash != "" {
		//nolint:errcheck // best-effort cost-profile upgrade
		_ = s.users.UpdatePassword(ctx, user.ID, upgradedHash)
	}

	return s.issueTokens(ctx, user, sessionMeta{
		userAgent: userAgent,
		ipAddress: ipAddress,
	})
}

func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
	userAgent, ipAddress string,
) (*AuthResponse, error) {
	hash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, CreateUserParams{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
		Name:         req.Name,
		Phone:        req.Phone,
	})
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.issueTokens(ctx, user, sessionMeta{
		userAgent: userAgent,
		ipAddress: ipAddress,
	})
}

// Refresh rotates the chain: the presented token is spent, a successor
// is issued in the same family, and any replay of a spent token kills
// the whole family.
func (s *Service) Refresh(
	ctx context.Context,
	refreshToken, userAgent, ipAddress string,
) (*AuthResponse, error) {
	stored, err := s.repo.FindByHash(ctx, core.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("refresh: %w", core.ErrTokenInvalid)
		}
		return nil, fmt.Errorf("find token: %w", err)
	}

	if stored.IsUsed {
		//nolint:errcheck // the reuse error stands regardless
		_ = s.repo.RevokeByFamilyID(ctx, stored.FamilyID)
		return nil, ErrTokenReuse
	}
	if stored.RevokedAt != nil {
		return nil, fmt.Errorf("refresh: %w", core.ErrTokenRevoked)
	}
	if stored.Expired() {
		return nil, fmt.Errorf("refresh: %w", core.ErrTokenExpired)
	}

	user, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return s.issueTokens(ctx, user, sessionMeta{
		userAgent:   userAgent,
		ipAddress:   ipAddress,
		familyID:    stored.FamilyID,
		predecessor: stored.ID,
	})
}

// Logout revokes one session. An unknown token is already logged out,
// which is success.
func (s *Service) Logout(
	ctx context.Context,
	refreshToken, userID string,
) error {
	stored, err := s.repo.FindByHash(ctx, core.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("find token: %w", err)
	}

	if stored.UserID != userID {
		return fmt.Errorf("logout: %w", core.ErrForbidden)
	}

	if err := s.repo.RevokeByID(ctx, stored.ID); err != nil &&
		!errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("revoke token: %w", err)
	}

	return nil
}

// LogoutAll revokes every refresh token and bumps the token version so
// outstanding access tokens die at their next version check.
func (s *Service) LogoutAll(ctx context.Context, userID string) error {
	if err := s.repo.RevokeAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("revoke all tokens: %w", err)
	}

	if err := s.users.IncrementTokenVersion(ctx, userID); err != nil {
		return fmt.Errorf("increment token version: %w", err)
	}

	return nil
}

func (s *Service) RevokeAccessToken(
	ctx context.Context,
	jti string,
	expiresAt time.Time,
) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	if err := s.redis.Set(ctx, blacklistKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}

	return nil
}

func (s *Service) IsAccessTokenBlacklisted(
	ctx context.Context,
	jti string,
) (bool, error) {
	n, err := s.redis.Exists(ctx, blacklistKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("check blacklist: %w", err)
	}
	return n > 0, nil
}

func blacklistKey(jti string) string {
	return "blacklist:" + jti
}

// CheckSession is the middleware.SessionGuard hook: a signed token is
// still rejected if its jti was blacklisted at logout or if it predates
// a token-version bump.
func (s *Service) CheckSession(
	ctx context.Context,
	claims *middleware.AccessTokenClaims,
) error {
	blacklisted, err := s.IsAccessTokenBlacklisted(ctx, claims.JTI)
	if err != nil {
		// Redis being down must not lock every member out.
		blacklisted = false
	}
	if blacklisted {
		return fmt.Errorf("check session: %w", core.ErrTokenRevoked)
	}

	return s.ValidateTokenVersion(ctx, claims.UserID, claims.TokenVersion)
}

func (s *Service) GetActiveSessions(
	ctx context.Context,
	userID string,
) ([]SessionInfo, error) {
	tokens, err := s.repo.GetActiveSessionsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get sessions: %w", err)
	}

	sessions := make([]SessionInfo, len(tokens))
	for i, t := range tokens {
		sessions[i] = SessionInfo{
			ID:        t.ID,
			UserAgent: t.UserAgent,
			IPAddress: t.IPAddress,
			CreatedAt: t.CreatedAt,
			ExpiresAt: t.ExpiresAt,
		}
	}
	return sessions, nil
}

// RevokeSession kills one refresh token, but only if it belongs to the
// caller.
func (s *Service) RevokeSession(
	ctx context.Context,
	userID, sessionID string,
) error {
	token, err := s.repo.FindByID(ctx, sessionID)
	switch {
	case err != nil:
		return fmt.Errorf("find session: %w", err)
	case token.UserID != userID:
		return fmt.Errorf("revoke session: %w", core.ErrForbidden)
	}

	if err := s.repo.RevokeByID(ctx, sessionID); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (s *Service) ChangePassword(
	ctx context.Context,
	userID, currentPassword, newPassword string,
) error {
	user, err := s.account(ctx, userID)
	if err != nil {
		return err
	}

	valid, _, err := core.VerifyPasswordWithRehash(
		currentPassword,
		user.PasswordHash,
	)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}

	// A wrong current password on an authenticated request is a bad
	// input, not a failed authentication; the session is already proven.
	if !valid {
		return core.ValidationError("Current password is incorrect")
	}

	hash, err := core.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	// The old password must not keep any session alive.
	if err := s.LogoutAll(ctx, userID); err != nil {
		return fmt.Errorf("logout all: %w", err)
	}

	return nil
}

func (s *Service) ValidateTokenVersion(
	ctx context.Context,
	userID string,
	tokenVersion int,
) error {
	user, err := s.account(ctx, userID)
	if err != nil {
		return err
	}

	if tokenVersion < user.TokenVersion {
		return fmt.Errorf("validate token version: %w", core.ErrTokenRevoked)
	}
	return nil
}

func (s *Service) account(
	ctx context.Context,
	userID string,
) (*UserInfo, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *Service) GetCurrentUser(
	ctx context.Context,
	userID string,
) (*UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

type sessionMeta struct {
	userAgent   string
	ipAddress   string
	familyID    string
	predecessor string
}

func (s *Service) issueTokens(
	ctx context.Context,
	user *UserInfo,
	meta sessionMeta,
) (*AuthResponse, error) {
	accessToken, err := s.jwt.CreateAccessToken(AccessTokenClaims{
		UserID:       user.ID,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	refresh, err := s.jwt.CreateRefreshToken(user.ID, meta.familyID)
	if err != nil {
		return nil, fmt.Errorf("create refresh token: %w", err)
	}

	successorID := uuid.New().String()
	err = s.repo.Create(ctx, &RefreshToken{
		ID:        successorID,
		UserID:    user.ID,
		TokenHash: refresh.Hash,
		FamilyID:  refresh.FamilyID,
		ExpiresAt: refresh.ExpiresAt,
		UserAgent: meta.userAgent,
		IPAddress: meta.ipAddress,
	})
	if err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	if meta.predecessor != "" {
		//nolint:errcheck // best-effort chain bookkeeping
		_ = s.repo.MarkAsUsed(ctx, meta.predecessor, successorID)
	}

	return &AuthResponse{
		User: toUserResponse(user),
		Tokens: TokenResponse{
			AccessToken:  accessToken,
			RefreshToken: refresh.Token,
			TokenType:    "Bearer",
			ExpiresIn:    int(accessTokenTTL / time.Second),
			ExpiresAt:    time.Now().Add(accessTokenTTL),
		},
	}, nil
}

func toUserResponse(u *UserInfo) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Email:    u.Email,
		Username: u.Username,
		Name:     u.Name,
		Role:     u.Role,
		Status:   u.Status,
	}
}
