// AngelaMos | 2026
// entity.go

package user

import (
	"time"
)

type User struct {
	ID           string     `db:"id"`
	Username     string     `db:"username"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash"`
	Name         string     `db:"name"`
	Phone        string     `db:"phone"`
	Role         string     `db:"role"`
	Status       string     `db:"status"`
	HeightCm     float64    `db:"height_cm"`
	WeightKg     float64    `db:"weight_kg"`
	PlanID       *string    `db:"plan_id"`
	TokenVersion int        `db:"token_version"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at"`
}

func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsStaff reports whether the user can access back-office management
// endpoints. Admins are staff.
func (u *User) IsStaff() bool {
	return u.Role == RoleStaff || u.Role == RoleAdmin
}

const (
	RoleMember = "member"
	RoleStaff  = "staff"
	RoleAdmin  = "admin"
)

const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusSuspended = "suspended"
)

// Columns lists the insertable columns of the users table, matching the
// entity's db tags. Server-side defaults come back via RETURNING.
var Columns = []string{
	"id",
	"username",
	"email",
	"password_hash",
	"name",
	"phone",
	"role",
	"status",
	"height_cm",
	"weight_kg",
	"plan_id",
}
