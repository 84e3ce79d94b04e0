// AngelaMos | 2026
// dto.go

package equipment

import (
	"time"

	"github.com/angelamos/gymstack/internal/store"
)

type CreateEquipmentRequest struct {
	Name     string `json:"name"     validate:"required,min=1,max=100"`
	Category string `json:"category" validate:"required,min=1,max=50"`
	Notes    string `json:"notes"    validate:"omitempty,max=1000"`
}

type UpdateEquipmentRequest struct {
	Name     *string `json:"name,omitempty"     validate:"omitempty,min=1,max=100"`
	Category *string `json:"category,omitempty" validate:"omitempty,min=1,max=50"`
	Notes    *string `json:"notes,omitempty"    validate:"omitempty,max=1000"`
	Status   *string `json:"status,omitempty"   validate:"omitempty,oneof=operational maintenance retired"`
}

type EquipmentResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListEquipmentParams struct {
	store.PageParams
	Category string
	Status   string
}

func ToEquipmentResponse(e *Equipment) EquipmentResponse {
	return EquipmentResponse{
		ID:        e.ID,
		Name:      e.Name,
		Category:  e.Category,
		Status:    e.Status,
		Notes:     e.Notes,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}
