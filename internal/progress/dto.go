// AngelaMos | 2026
// dto.go

package progress

import (
	"time"
)

// RecordRequest captures one measurement. Height may be omitted, in which
// case the member's profile height is used.
type RecordRequest struct {
	WeightKg float64  `json:"weight_kg" validate:"required,gt=0,lt=500"`
	HeightCm *float64 `json:"height_cm" validate:"omitempty,gt=0,lt=300"`
	Notes    string   `json:"notes"     validate:"omitempty,max=500"`
}

type SnapshotResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	HeightCm   float64   `json:"height_cm"`
	WeightKg   float64   `json:"weight_kg"`
	BMI        float64   `json:"bmi"`
	Notes      string    `json:"notes,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

type SummaryResponse struct {
	Latest      *SnapshotResponse `json:"latest,omitempty"`
	First       *SnapshotResponse `json:"first,omitempty"`
	WeightDelta float64           `json:"weight_delta_kg"`
	BMIDelta    float64           `json:"bmi_delta"`
	Snapshots   int64             `json:"snapshots"`
}

func ToSnapshotResponse(p *MemberProgress) SnapshotResponse {
	return SnapshotResponse{
		ID:         p.ID,
		UserID:     p.UserID,
		HeightCm:   p.HeightCm,
		WeightKg:   p.WeightKg,
		BMI:        p.BMI,
		Notes:      p.Notes,
		RecordedAt: p.RecordedAt,
	}
}
