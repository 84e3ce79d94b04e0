// AngelaMos | 2026
// dto.go

package notification

import (
	"time"
)

type NotifyRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	Title  string `json:"title"   validate:"required,min=1,max=200"`
	Body   string `json:"body"    validate:"omitempty,max=2000"`
}

type BroadcastRequest struct {
	UserIDs []string `json:"user_ids" validate:"required,min=1,max=500,dive,uuid"`
	Title   string   `json:"title"    validate:"required,min=1,max=200"`
	Body    string   `json:"body"     validate:"omitempty,max=2000"`
}

type BroadcastResponse struct {
	Sent int `json:"sent"`
}

type NotificationResponse struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Body      string     `json:"body,omitempty"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}

// AckResponse is deliberately just an acknowledgment. Marking an empty
// inbox read succeeds the same as marking a full one.
type AckResponse struct {
	OK bool `json:"ok"`
}

func ToNotificationResponse(n *Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Title:     n.Title,
		Body:      n.Body,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}
