// AngelaMos | 2026
// service.go

package progress

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/angelamos/gymstack/internal/core"
	"github.com/angelamos/gymstack/internal/store"
)

// ProfileSource supplies the member's current measurements for snapshots
// that omit a height, and receives the new ones back.
type ProfileSource interface {
	Measurements(ctx context.Context, userID string) (heightCm, weightKg float64, err error)
	UpdateMeasurements(ctx context.Context, userID string, heightCm, weightKg float64) error
}

type Service struct {
	repo     Repository
	profiles ProfileSource
}

func NewService(repo Repository, profiles ProfileSource) *Service {
	return &Service{repo: repo, profiles: profiles}
}

// Record appends an immutable snapshot and syncs the profile's current
// measurements. BMI is computed here, once, at write time; readers never
// derive it.
func (s *Service) Record(
	ctx context.Context,
	userID string,
	req RecordRequest,
) (*SnapshotResponse, error) {
	// The profile is resolved even when the request carries its own height,
	// so a snapshot can never be written against a user that does not exist.
	profileHeight, _, err := s.profiles.Measurements(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("user")
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}

	height := profileHeight
	if req.HeightCm != nil {
		height = *req.HeightCm
	}

	if height <= 0 {
		return nil, core.ValidationError(
			"height_cm is required when the profile has no height",
		)
	}

	snapshot := &MemberProgress{
		ID:         uuid.New().String(),
		UserID:     userID,
		HeightCm:   height,
		WeightKg:   req.WeightKg,
		BMI:        ComputeBMI(height, req.WeightKg),
		Notes:      req.Notes,
		RecordedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("create snapshot: %w", err)
	}

	if err := s.profiles.UpdateMeasurements(ctx, userID, height, req.WeightKg); err != nil {
		return nil, fmt.Errorf("sync profile measurements: %w", err)
	}

	resp := ToSnapshotResponse(snapshot)
	return &resp, nil
}

func (s *Service) History(
	ctx context.Context,
	userID string,
	params store.PageParams,
) (*store.Page[SnapshotResponse], error) {
	page, err := s.repo.History(ctx, userID, params)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}

	return store.MapPage(page, ToSnapshotResponse), nil
}

// Summary compares the newest snapshot against the oldest. With fewer than
// two snapshots both deltas are zero.
func (s *Service) Summary(
	ctx context.Context,
	userID string,
) (*SummaryResponse, error) {
	count, err := s.repo.CountForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count snapshots: %w", err)
	}

	summary := &SummaryResponse{Snapshots: count}
	if count == 0 {
		return summary, nil
	}

	latest, err := s.repo.Latest(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("latest snapshot: %w", err)
	}

	first, err := s.repo.First(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("first snapshot: %w", err)
	}

	latestResp := ToSnapshotResponse(latest)
	firstResp := ToSnapshotResponse(first)
	summary.Latest = &latestResp
	summary.First = &firstResp
	summary.WeightDelta = round2(latest.WeightKg - first.WeightKg)
	summary.BMIDelta = round2(latest.BMI - first.BMI)

	return summary, nil
}

// ComputeBMI is weight in kilograms over squared height in meters, rounded
// to two decimals.
func ComputeBMI(heightCm, weightKg float64) float64 {
	meters := heightCm / 100
	return round2(weightKg / (meters * meters))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
