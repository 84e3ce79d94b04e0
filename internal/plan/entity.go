// AngelaMos | 2026
// entity.go

package plan

import (
	"time"
)

// MembershipPlan prices are stored in cents. Plans are soft deleted so that
// members keeping a retired plan still resolve it by id.
type MembershipPlan struct {
	ID           string     `db:"id"`
	Name         string     `db:"name"`
	Description  string     `db:"description"`
	PriceCents   int64      `db:"price_cents"`
	DurationDays int        `db:"duration_days"`
	Active       bool       `db:"active"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at"`
}

var Columns = []string{
	"id",
	"name",
	"description",
	"price_cents",
	"duration_days",
	"active",
}
