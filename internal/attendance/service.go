// AngelaMos | 2026
// service.go

package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/angelamos/gymstack/internal/core"
	"github.com/angelamos/gymstack/internal/store"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CheckIn opens a visit for the user. The single-open-visit invariant is
// enforced by the conditional insert in the repository; the service only
// translates the outcome.
func (s *Service) CheckIn(
	ctx context.Context,
	userID, source string,
) (*RecordResponse, error) {
	if source == "" {
		source = SourceFrontDesk
	}

	record, err := s.repo.CheckIn(ctx, userID, source)
	if err != nil {
		if errors.Is(err, core.ErrConflict) {
			s.logAccess(ctx, userID, EventDenied, "already checked in")
			return nil, core.ConflictError("Already checked in")
		}
		return nil, fmt.Errorf("check in: %w", err)
	}

	s.logAccess(ctx, userID, EventCheckIn, source)

	resp := ToRecordResponse(record)
	return &resp, nil
}

func (s *Service) CheckOut(
	ctx context.Context,
	userID string,
) (*RecordResponse, error) {
	record, err := s.repo.CloseOpen(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NewAppError(
				core.ErrNotFound,
				"No active check-in found",
				http.StatusNotFound,
				"NOT_FOUND",
			)
		}
		return nil, fmt.Errorf("check out: %w", err)
	}

	s.logAccess(ctx, userID, EventCheckOut, record.Source)

	resp := ToRecordResponse(record)
	return &resp, nil
}

func (s *Service) CurrentVisit(
	ctx context.Context,
	userID string,
) (*RecordResponse, error) {
	record, err := s.repo.GetOpen(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NewAppError(
				core.ErrNotFound,
				"No active check-in found",
				http.StatusNotFound,
				"NOT_FOUND",
			)
		}
		return nil, fmt.Errorf("current visit: %w", err)
	}

	resp := ToRecordResponse(record)
	return &resp, nil
}

func (s *Service) History(
	ctx context.Context,
	userID string,
	params HistoryParams,
) (*store.Page[RecordResponse], error) {
	page, err := s.repo.History(ctx, userID, params)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}

	return store.MapPage(page, ToRecordResponse), nil
}

func (s *Service) Occupancy(ctx context.Context) (*OccupancyResponse, error) {
	current, err := s.repo.CurrentOccupancy(ctx)
	if err != nil {
		return nil, fmt.Errorf("occupancy: %w", err)
	}

	return &OccupancyResponse{Current: current}, nil
}

func (s *Service) AccessLog(
	ctx context.Context,
	params store.PageParams,
) (*store.Page[AccessLogResponse], error) {
	page, err := s.repo.AccessLog(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("access log: %w", err)
	}

	return store.MapPage(page, ToAccessLogResponse), nil
}

// logAccess is best effort. The audit trail must never block or fail a door
// event, so errors only make it to the log stream.
func (s *Service) logAccess(ctx context.Context, userID, event, detail string) {
	err := s.repo.LogAccess(ctx, &AccessLogEntry{
		UserID: userID,
		Event:  event,
		Detail: detail,
	})
	if err != nil {
		slog.Warn("access log write failed",
			"user_id", userID,
			"event", event,
			"error", err,
		)
	}
}
