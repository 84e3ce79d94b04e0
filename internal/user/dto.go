// AngelaMos | 2026
// dto.go

package user

import (
	"time"

	"github.com/angelamos/gymstack/internal/store"
)

// UpdateProfileRequest is the write allow-list for self-service profile
// edits. Role, status, plan and credentials are deliberately absent; they
// change only through staff endpoints or the credential subsystem.
type UpdateProfileRequest struct {
	Name     *string  `json:"name,omitempty"      validate:"omitempty,min=1,max=100"`
	Phone    *string  `json:"phone,omitempty"     validate:"omitempty,max=32"`
	HeightCm *float64 `json:"height_cm,omitempty" validate:"omitempty,gt=0,lt=300"`
	WeightKg *float64 `json:"weight_kg,omitempty" validate:"omitempty,gt=0,lt=500"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=member staff admin"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive suspended"`
}

type AssignPlanRequest struct {
	PlanID *string `json:"plan_id" validate:"omitempty,uuid"`
}

// ProfileResponse is the read allow-list: the flat external shape of a
// user. The password hash never appears here.
type ProfileResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	HeightCm  float64   `json:"height_cm"`
	WeightKg  float64   `json:"weight_kg"`
	PlanID    *string   `json:"plan_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListUsersParams struct {
	store.PageParams
	Role   string `json:"role"`
	Status string `json:"status"`
}

type StatsResponse struct {
	TotalMembers  int64            `json:"total_members"`
	ActiveMembers int64            `json:"active_members"`
	ByStatus      map[string]int64 `json:"by_status"`
	ByPlan        map[string]int64 `json:"by_plan"`
}

func ToProfileResponse(u *User) ProfileResponse {
	return ProfileResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Name:      u.Name,
		Phone:     u.Phone,
		Role:      u.Role,
		Status:    u.Status,
		HeightCm:  u.HeightCm,
		WeightKg:  u.WeightKg,
		PlanID:    u.PlanID,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
