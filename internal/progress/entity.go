// AngelaMos | 2026
// entity.go

package progress

import (
	"time"
)

// MemberProgress is an immutable measurement snapshot. Rows are only ever
// inserted; corrections append a new snapshot rather than editing history.
type MemberProgress struct {
	ID         string    `db:"id"`
	UserID     string    `db:"user_id"`
	HeightCm   float64   `db:"height_cm"`
	WeightKg   float64   `db:"weight_kg"`
	BMI        float64   `db:"bmi"`
	Notes      string    `db:"notes"`
	RecordedAt time.Time `db:"recorded_at"`
	CreatedAt  time.Time `db:"created_at"`
}

var Columns = []string{
	"id",
	"user_id",
	"height_cm",
	"weight_kg",
	"bmi",
	"notes",
	"recorded_at",
}
