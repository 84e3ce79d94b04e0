// AngelaMos | 2026
// entity.go

package notification

import (
	"time"
)

type Notification struct {
	ID        string     `db:"id"`
	UserID    string     `db:"user_id"`
	Title     string     `db:"title"`
	Body      string     `db:"body"`
	ReadAt    *time.Time `db:"read_at"`
	CreatedAt time.Time  `db:"created_at"`
}

func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}

var Columns = []string{
	"id",
	"user_id",
	"title",
	"body",
}
