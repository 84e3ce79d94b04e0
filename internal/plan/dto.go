// AngelaMos | 2026
// dto.go

package plan

import (
	"time"

	"github.com/angelamos/gymstack/internal/store"
)

type CreatePlanRequest struct {
	Name         string `json:"name"          validate:"required,min=1,max=100"`
	Description  string `json:"description"   validate:"omitempty,max=1000"`
	PriceCents   int64  `json:"price_cents"   validate:"required,min=0"`
	DurationDays int    `json:"duration_days" validate:"required,min=1,max=3650"`
}

type UpdatePlanRequest struct {
	Name         *string `json:"name,omitempty"          validate:"omitempty,min=1,max=100"`
	Description  *string `json:"description,omitempty"   validate:"omitempty,max=1000"`
	PriceCents   *int64  `json:"price_cents,omitempty"   validate:"omitempty,min=0"`
	DurationDays *int    `json:"duration_days,omitempty" validate:"omitempty,min=1,max=3650"`
	Active       *bool   `json:"active,omitempty"`
}

type PlanResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	PriceCents   int64     `json:"price_cents"`
	DurationDays int       `json:"duration_days"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

type ListPlansParams struct {
	store.PageParams
	ActiveOnly bool
}

func ToPlanResponse(p *MembershipPlan) PlanResponse {
	return PlanResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		PriceCents:   p.PriceCents,
		DurationDays: p.DurationDays,
		Active:       p.Active,
		CreatedAt:    p.CreatedAt,
	}
}
