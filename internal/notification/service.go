// AngelaMos | 2026
// service.go

package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/angelamos/gymstack/internal/core"
	"github.com/angelamos/gymstack/internal/store"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Notify(
	ctx context.Context,
	userID, title, body string,
) error {
	n := &Notification{
		ID:     uuid.New().String(),
		UserID: userID,
		Title:  title,
		Body:   body,
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	return nil
}

// Broadcast fans one announcement out to many recipients in a single
// insert. Duplicate ids in the request collapse to one notification.
func (s *Service) Broadcast(
	ctx context.Context,
	userIDs []string,
	title, body string,
) (*BroadcastResponse, error) {
	seen := make(map[string]struct{}, len(userIDs))
	ns := make([]Notification, 0, len(userIDs))
	for _, userID := range userIDs {
		if _, dup := seen[userID]; dup {
			continue
		}
		seen[userID] = struct{}{}

		ns = append(ns, Notification{
			ID:     uuid.New().String(),
			UserID: userID,
			Title:  title,
			Body:   body,
		})
	}

	if err := s.repo.CreateMany(ctx, ns); err != nil {
		return nil, fmt.Errorf("broadcast notifications: %w", err)
	}

	return &BroadcastResponse{Sent: len(ns)}, nil
}

func (s *Service) List(
	ctx context.Context,
	userID string,
	params store.PageParams,
) (*store.Page[NotificationResponse], error) {
	page, err := s.repo.List(ctx, userID, params)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	return store.MapPage(page, ToNotificationResponse), nil
}

func (s *Service) UnreadCount(
	ctx context.Context,
	userID string,
) (*UnreadCountResponse, error) {
	count, err := s.repo.UnreadCount(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("unread count: %w", err)
	}

	return &UnreadCountResponse{Unread: count}, nil
}

func (s *Service) MarkRead(ctx context.Context, userID, id string) error {
	if err := s.repo.MarkRead(ctx, userID, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.NotFoundError("notification")
		}
		if errors.Is(err, core.ErrInvalidInput) {
			return core.ValidationError("invalid notification id")
		}
		return fmt.Errorf("mark read: %w", err)
	}
	return nil
}

// MarkAllRead is idempotent. A second call, or a call with nothing unread,
// still acknowledges.
func (s *Service) MarkAllRead(
	ctx context.Context,
	userID string,
) (*AckResponse, error) {
	if _, err := s.repo.MarkAllRead(ctx, userID); err != nil {
		return nil, fmt.Errorf("mark all read: %w", err)
	}

	return &AckResponse{OK: true}, nil
}
