// AngelaMos | 2026
// repository.go

package ticket

import (
	"context"
	"fmt"
	"time"

	"github.com/angelamos/gymstack/internal/core"
	"github.com/angelamos/gymstack/internal/store"
)

type Repository interface {
	Create(ctx context.Context, t *SupportTicket) error
	GetByID(ctx context.Context, id string) (*SupportTicket, error)
	List(
		ctx context.Context,
		params ListTicketsParams,
	) (*store.Page[SupportTicket], error)
	ListForUser(
		ctx context.Context,
		userID string,
		params ListTicketsParams,
	) (*store.Page[SupportTicket], error)
	Close(ctx context.Context, id string) error
	Reopen(ctx context.Context, id string) error
	Touch(ctx context.Context, id string) error

	AddReply(ctx context.Context, reply *TicketReply) error
	Replies(ctx context.Context, ticketID string) ([]TicketReply, error)
}

type repository struct {
	tickets *store.Repository[SupportTicket]
	replies *store.Repository[TicketReply]
}

func NewRepository(db core.DBTX) Repository {
	return &repository{
		tickets: store.NewRepository(
			store.New[SupportTicket](db, "support_tickets", Columns),
		),
		replies: store.NewRepository(
			store.New[TicketReply](db, "ticket_replies", ReplyColumns),
		),
	}
}

func (r *repository) Create(ctx context.Context, t *SupportTicket) error {
	return r.tickets.Create(ctx, t)
}

func (r *repository) GetByID(
	ctx context.Context,
	id string,
) (*SupportTicket, error) {
	return r.tickets.FindByID(ctx, id)
}

func (r *repository) List(
	ctx context.Context,
	params ListTicketsParams,
) (*store.Page[SupportTicket], error) {
	filter := store.Filter{}
	if params.Status != "" {
		filter["status"] = params.Status
	}

	return r.tickets.Paginate(ctx, store.Query{
		Filter: filter,
		Sort:   "updated_at DESC",
	}, params.PageParams)
}

func (r *repository) ListForUser(
	ctx context.Context,
	userID string,
	params ListTicketsParams,
) (*store.Page[SupportTicket], error) {
	filter := store.Filter{"user_id": userID}
	if params.Status != "" {
		filter["status"] = params.Status
	}

	return r.tickets.Paginate(ctx, store.Query{
		Filter: filter,
		Sort:   "updated_at DESC",
	}, params.PageParams)
}

// Close is conditional on the ticket still being open, so closing twice
// surfaces as not found rather than silently re-stamping.
func (r *repository) Close(ctx context.Context, id string) error {
	rows, err := r.tickets.Store().UpdateMany(ctx,
		store.Query{Filter: store.Filter{"id": id, "status": StatusOpen}},
		map[string]any{
			"status":     StatusClosed,
			"closed_at":  time.Now(),
			"updated_at": time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("close ticket: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("close ticket: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Reopen(ctx context.Context, id string) error {
	rows, err := r.tickets.Store().UpdateMany(ctx,
		store.Query{Filter: store.Filter{"id": id, "status": StatusClosed}},
		map[string]any{
			"status":     StatusOpen,
			"closed_at":  nil,
			"updated_at": time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("reopen ticket: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("reopen ticket: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Touch(ctx context.Context, id string) error {
	_, err := r.tickets.Store().UpdateMany(ctx,
		store.Query{Filter: store.Filter{"id": id}},
		map[string]any{"updated_at": time.Now()},
	)
	if err != nil {
		return fmt.Errorf("touch ticket: %w", err)
	}
	return nil
}

func (r *repository) AddReply(ctx context.Context, reply *TicketReply) error {
	return r.replies.Create(ctx, reply)
}

func (r *repository) Replies(
	ctx context.Context,
	ticketID string,
) ([]TicketReply, error) {
	replies, err := r.replies.Store().Find(ctx, store.Query{
		Filter: store.Filter{"ticket_id": ticketID},
		Sort:   "created_at ASC",
	})
	if err != nil {
		return nil, fmt.Errorf("list replies: %w", err)
	}

	if replies == nil {
		replies = []TicketReply{}
	}

	return replies, nil
}
