// AngelaMos | 2026
// dto.go

package attendance

import (
	"time"

	"github.com/angelamos/gymstack/internal/store"
)

type CheckInRequest struct {
	Source string `json:"source" validate:"omitempty,oneof=front_desk kiosk app"`
}

type RecordResponse struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	CheckedInAt  time.Time  `json:"checked_in_at"`
	CheckedOutAt *time.Time `json:"checked_out_at,omitempty"`
	Source       string     `json:"source"`
	DurationMins float64    `json:"duration_mins"`
}

type HistoryParams struct {
	store.PageParams
	From *time.Time
	To   *time.Time
}

type OccupancyResponse struct {
	Current int64 `json:"current"`
}

type AccessLogResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Event      string    `json:"event"`
	Detail     string    `json:"detail,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func ToRecordResponse(a *AttendanceRecord) RecordResponse {
	return RecordResponse{
		ID:           a.ID,
		UserID:       a.UserID,
		CheckedInAt:  a.CheckedInAt,
		CheckedOutAt: a.CheckedOutAt,
		Source:       a.Source,
		DurationMins: a.Duration().Minutes(),
	}
}

func ToAccessLogResponse(e *AccessLogEntry) AccessLogResponse {
	return AccessLogResponse{
		ID:         e.ID,
		UserID:     e.UserID,
		Event:      e.Event,
		Detail:     e.Detail,
		OccurredAt: e.OccurredAt,
	}
}
