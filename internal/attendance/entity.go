// AngelaMos | 2026
// entity.go

package attendance

import (
	"time"
)

// AttendanceRecord is one gym visit. A record with a nil CheckedOutAt is an
// open visit; at most one open record may exist per user.
type AttendanceRecord struct {
	ID           string     `db:"id"`
	UserID       string     `db:"user_id"`
	CheckedInAt  time.Time  `db:"checked_in_at"`
	CheckedOutAt *time.Time `db:"checked_out_at"`
	Source       string     `db:"source"`
	CreatedAt    time.Time  `db:"created_at"`
}

func (a *AttendanceRecord) IsOpen() bool {
	return a.CheckedOutAt == nil
}

// Duration is zero while the visit is still open.
func (a *AttendanceRecord) Duration() time.Duration {
	if a.CheckedOutAt == nil {
		return 0
	}
	return a.CheckedOutAt.Sub(a.CheckedInAt)
}

const (
	SourceFrontDesk = "front_desk"
	SourceKiosk     = "kiosk"
	SourceApp       = "app"
)

var Columns = []string{
	"id",
	"user_id",
	"source",
}

// AccessLogEntry is the append-only trail of door events. Writing it never
// blocks a check-in; failures are logged and dropped.
type AccessLogEntry struct {
	ID         string    `db:"id"`
	UserID     string    `db:"user_id"`
	Event      string    `db:"event"`
	Detail     string    `db:"detail"`
	OccurredAt time.Time `db:"occurred_at"`
}

const (
	EventCheckIn  = "check_in"
	EventCheckOut = "check_out"
	EventDenied   = "denied"
)

var AccessLogColumns = []string{
	"id",
	"user_id",
	"event",
	"detail",
}
