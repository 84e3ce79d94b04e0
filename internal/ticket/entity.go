// AngelaMos | 2026
// entity.go

package ticket

import (
	"time"
)

type SupportTicket struct {
	ID        string     `db:"id"`
	UserID    string     `db:"user_id"`
	Subject   string     `db:"subject"`
	Body      string     `db:"body"`
	Status    string     `db:"status"`
	ClosedAt  *time.Time `db:"closed_at"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
}

func (t *SupportTicket) IsClosed() bool {
	return t.Status == StatusClosed
}

const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

var Columns = []string{
	"id",
	"user_id",
	"subject",
	"body",
	"status",
}

type TicketReply struct {
	ID        string    `db:"id"`
	TicketID  string    `db:"ticket_id"`
	AuthorID  string    `db:"author_id"`
	Body      string    `db:"body"`
	Staff     bool      `db:"staff"`
	CreatedAt time.Time `db:"created_at"`
}

var ReplyColumns = []string{
	"id",
	"ticket_id",
	"author_id",
	"body",
	"staff",
}
