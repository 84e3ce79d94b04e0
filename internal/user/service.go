// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/angelamos/gymstack/internal/auth"
	"github.com/angelamos/gymstack/internal/core"
	"github.com/angelamos/gymstack/internal/store"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(
	ctx context.Context,
	id string,
) (*auth.UserInfo, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserInfo(u), nil
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}

	return toUserInfo(u), nil
}

func (s *Service) Create(
	ctx context.Context,
	params auth.CreateUserParams,
) (*auth.UserInfo, error) {
	email := strings.ToLower(params.Email)

	// Duplicate emails are rejected before the insert; the unique index
	// still closes the race for concurrent signups.
	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, core.ErrDuplicateKey
	}

	u := &User{
		ID:           uuid.New().String(),
		Username:     strings.ToLower(params.Username),
		Email:        email,
		PasswordHash: params.PasswordHash,
		Name:         params.Name,
		Phone:        params.Phone,
		Role:         RoleMember,
		Status:       StatusActive,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	return toUserInfo(u), nil
}

func (s *Service) IncrementTokenVersion(
	ctx context.Context,
	userID string,
) error {
	return s.repo.IncrementTokenVersion(ctx, userID)
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

// GetProfile projects a user into the flat external shape. The projection
// is the read allow-list; nothing store-specific and no credential material
// crosses this boundary.
func (s *Service) GetProfile(
	ctx context.Context,
	userID string,
) (*ProfileResponse, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, classifyLookup(err, "get profile")
	}

	resp := ToProfileResponse(u)
	return &resp, nil
}

func (s *Service) UpdateProfile(
	ctx context.Context,
	userID string,
	req UpdateProfileRequest,
) (*ProfileResponse, error) {
	set := map[string]any{}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Phone != nil {
		set["phone"] = *req.Phone
	}
	if req.HeightCm != nil {
		set["height_cm"] = *req.HeightCm
	}
	if req.WeightKg != nil {
		set["weight_kg"] = *req.WeightKg
	}

	if len(set) == 0 {
		return s.GetProfile(ctx, userID)
	}

	u, err := s.repo.Update(ctx, userID, set)
	if err != nil {
		return nil, classifyLookup(err, "update profile")
	}

	resp := ToProfileResponse(u)
	return &resp, nil
}

// Measurements returns the profile's current height and weight for the
// progress subsystem.
func (s *Service) Measurements(
	ctx context.Context,
	userID string,
) (float64, float64, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return 0, 0, err
	}

	return u.HeightCm, u.WeightKg, nil
}

func (s *Service) UpdateMeasurements(
	ctx context.Context,
	userID string,
	heightCm, weightKg float64,
) error {
	_, err := s.repo.Update(ctx, userID, map[string]any{
		"height_cm": heightCm,
		"weight_kg": weightKg,
	})
	if err != nil {
		return classifyLookup(err, "update measurements")
	}

	return nil
}

func (s *Service) ListUsers(
	ctx context.Context,
	params ListUsersParams,
) (*store.Page[ProfileResponse], error) {
	page, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return store.MapPage(page, ToProfileResponse), nil
}

// GetStats aggregates dashboard numbers. The total uses the fast estimate;
// the active count is exact because billing reconciles against it.
func (s *Service) GetStats(ctx context.Context) (*StatsResponse, error) {
	total, err := s.repo.EstimatedTotal(ctx)
	if err != nil {
		return nil, fmt.Errorf("estimate members: %w", err)
	}

	active, err := s.repo.CountActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("count active members: %w", err)
	}

	byStatus, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}

	byPlan, err := s.repo.CountByPlan(ctx)
	if err != nil {
		return nil, fmt.Errorf("count by plan: %w", err)
	}

	return &StatsResponse{
		TotalMembers:  total,
		ActiveMembers: active,
		ByStatus:      byStatus,
		ByPlan:        byPlan,
	}, nil
}

func (s *Service) SetRole(
	ctx context.Context,
	userID, role string,
) (*ProfileResponse, error) {
	if role != RoleMember && role != RoleStaff && role != RoleAdmin {
		return nil, core.ValidationError(fmt.Sprintf("invalid role %q", role))
	}

	u, err := s.repo.Update(ctx, userID, map[string]any{"role": role})
	if err != nil {
		return nil, classifyLookup(err, "set role")
	}

	resp := ToProfileResponse(u)
	return &resp, nil
}

func (s *Service) SetStatus(
	ctx context.Context,
	userID, status string,
) (*ProfileResponse, error) {
	if status != StatusActive && status != StatusInactive &&
		status != StatusSuspended {
		return nil, core.ValidationError(fmt.Sprintf("invalid status %q", status))
	}

	u, err := s.repo.Update(ctx, userID, map[string]any{"status": status})
	if err != nil {
		return nil, classifyLookup(err, "set status")
	}

	resp := ToProfileResponse(u)
	return &resp, nil
}

func (s *Service) AssignPlan(
	ctx context.Context,
	userID string,
	planID *string,
) (*ProfileResponse, error) {
	var value any
	if planID != nil {
		value = *planID
	}

	u, err := s.repo.Update(ctx, userID, map[string]any{"plan_id": value})
	if err != nil {
		return nil, classifyLookup(err, "assign plan")
	}

	resp := ToProfileResponse(u)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, userID string) error {
	if err := s.repo.SoftDelete(ctx, userID); err != nil {
		return classifyLookup(err, "delete user")
	}
	return nil
}

func (s *Service) Restore(ctx context.Context, userID string) error {
	if err := s.repo.Restore(ctx, userID); err != nil {
		return classifyLookup(err, "restore user")
	}
	return nil
}

// CanDeleteUser gates staff deletions: self-deletion is always allowed,
// otherwise the requester must be admin and the target must not be.
func (s *Service) CanDeleteUser(
	ctx context.Context,
	requesterID, targetID string,
) error {
	if requesterID == targetID {
		return nil
	}

	requester, err := s.repo.GetByID(ctx, requesterID)
	if err != nil {
		return classifyLookup(err, "delete user")
	}

	if !requester.IsAdmin() {
		return core.ForbiddenError("")
	}

	target, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return classifyLookup(err, "delete user")
	}

	if target.IsAdmin() {
		return core.ForbiddenError("cannot delete admin users")
	}

	return nil
}

// classifyLookup decides the public classification of a repository failure:
// absence is 404, malformed ids are 400, everything else stays internal.
func classifyLookup(err error, op string) error {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return core.NotFoundError("user")
	case errors.Is(err, core.ErrInvalidInput):
		return core.ValidationError("invalid user id")
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		Status:       u.Status,
		TokenVersion: u.TokenVersion,
	}
}

var _ auth.UserProvider = (*Service)(nil)
