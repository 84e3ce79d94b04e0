// AngelaMos | 2026
// service.go

package ticket

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

func (s *Service) Create(
	ctx context.Context,
	userID string,
	req CreateTicketRequest,
) (*TicketResponse, error) {
	t := &SupportTicket{
		ID:      uuid.New().String(),
		UserID:  userID,
		Subject: req.Subject,
		Body:    req.Body,
		Status:  StatusOpen,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}

	resp := ToTicketResponse(t)
	return &resp, nil
}

// Get loads a ticket with its full reply thread. Non-staff callers only see
// their own tickets; ownership of someone else's ticket reads as absence,
// not as forbidden, to avoid leaking ticket ids.
func (s *Service) Get(
	ctx context.Context,
	requesterID string,
	staff bool,
	ticketID string,
) (*TicketDetailResponse, error) {
	t, err := s.loadVisible(ctx, requesterID, staff, ticketID)
	if err != nil {
		return nil, err
	}

	replies, err := s.repo.Replies(ctx, t.ID)
	if err != nil {
		return nil, fmt.Errorf("load replies: %w", err)
	}

	detail := &TicketDetailResponse{
		TicketResponse: ToTicketResponse(t),
		Replies:        make([]ReplyResponse, 0, len(replies)),
	}
	for i := range replies {
		detail.Replies = append(detail.Replies, ToReplyResponse(&replies[i]))
	}

	return detail, nil
}

func (s *Service) ListMine(
	ctx context.Context,
	userID string,
	params ListTicketsParams,
) (*store.Page[TicketResponse], error) {
	page, err := s.repo.ListForUser(ctx, userID, params)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}

	return store.MapPage(page, ToTicketResponse), nil
}

func (s *Service) ListAll(
	ctx context.Context,
	params ListTicketsParams,
) (*store.Page[TicketResponse], error) {
	page, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}

	return store.MapPage(page, ToTicketResponse), nil
}

// Reply appends to the thread and bumps the ticket so it resurfaces in
// staff queues sorted by activity. Closed tickets do not take replies.
func (s *Service) Reply(
	ctx context.Context,
	requesterID string,
	staff bool,
	ticketID string,
	req ReplyRequest,
) (*ReplyResponse, error) {
	t, err := s.loadVisible(ctx, requesterID, staff, ticketID)
	if err != nil {
		return nil, err
	}

	if t.IsClosed() {
		return nil, core.ConflictError("Ticket is closed")
	}

	reply := &TicketReply{
		ID:       uuid.New().String(),
		TicketID: t.ID,
		AuthorID: requesterID,
		Body:     req.Body,
		Staff:    staff,
	}

	if err := s.repo.AddReply(ctx, reply); err != nil {
		return nil, fmt.Errorf("add reply: %w", err)
	}

	if err := s.repo.Touch(ctx, t.ID); err != nil {
		return nil, fmt.Errorf("touch ticket: %w", err)
	}

	resp := ToReplyResponse(reply)
	return &resp, nil
}

func (s *Service) Close(
	ctx context.Context,
	requesterID string,
	staff bool,
	ticketID string,
) error {
	if _, err := s.loadVisible(ctx, requesterID, staff, ticketID); err != nil {
		return err
	}

	if err := s.repo.Close(ctx, ticketID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.ConflictError("Ticket is already closed")
		}
		return fmt.Errorf("close ticket: %w", err)
	}

	return nil
}

func (s *Service) Reopen(ctx context.Context, ticketID string) error {
	if err := s.repo.Reopen(ctx, ticketID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.ConflictError("Ticket is not closed")
		}
		return fmt.Errorf("reopen ticket: %w", err)
	}
	return nil
}

func (s *Service) loadVisible(
	ctx context.Context,
	requesterID string,
	staff bool,
	ticketID string,
) (*SupportTicket, error) {
	t, err := s.repo.GetByID(ctx, ticketID)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			return nil, core.NotFoundError("ticket")
		case errors.Is(err, core.ErrInvalidInput):
			return nil, core.ValidationError("invalid ticket id")
		default:
			return nil, fmt.Errorf("get ticket: %w", err)
		}
	}

	if !staff && t.UserID != requesterID {
		return nil, core.NotFoundError("ticket")
	}

	return t, nil
}
