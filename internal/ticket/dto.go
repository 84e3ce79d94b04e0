// AngelaMos | 2026
// dto.go

package ticket

import (
	"time"

	"github.com/angelamos/gymstack/internal/store"
)

type CreateTicketRequest struct {
	Subject string `json:"subject" validate:"required,min=1,max=200"`
	Body    string `json:"body"    validate:"required,min=1,max=5000"`
}

type ReplyRequest struct {
	Body string `json:"body" validate:"required,min=1,max=5000"`
}

type TicketResponse struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Subject   string     `json:"subject"`
	Body      string     `json:"body"`
	Status    string     `json:"status"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type ReplyResponse struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticket_id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	Staff     bool      `json:"staff"`
	CreatedAt time.Time `json:"created_at"`
}

type TicketDetailResponse struct {
	TicketResponse
	Replies []ReplyResponse `json:"replies"`
}

type ListTicketsParams struct {
	store.PageParams
	Status string
}

func ToTicketResponse(t *SupportTicket) TicketResponse {
	return TicketResponse{
		ID:        t.ID,
		UserID:    t.UserID,
		Subject:   t.Subject,
		Body:      t.Body,
		Status:    t.Status,
		ClosedAt:  t.ClosedAt,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func ToReplyResponse(r *TicketReply) ReplyResponse {
	return ReplyResponse{
		ID:        r.ID,
		TicketID:  r.TicketID,
		AuthorID:  r.AuthorID,
		Body:      r.Body,
		Staff:     r.Staff,
		CreatedAt: r.CreatedAt,
	}
}
