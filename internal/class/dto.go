// AngelaMos | 2026
// dto.go

package class

import (
	"time"

	"github.com/angelamos/gymstack/internal/store"
)

type CreateClassRequest struct {
	Name        string `json:"name"        validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"omitempty,max=1000"`
	Category    string `json:"category"    validate:"required,min=1,max=50"`
}

type UpdateClassRequest struct {
	Name        *string `json:"name,omitempty"        validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	Category    *string `json:"category,omitempty"    validate:"omitempty,min=1,max=50"`
}

type CreateScheduleRequest struct {
	ClassID      string    `json:"class_id"      validate:"required,uuid"`
	InstructorID *string   `json:"instructor_id" validate:"omitempty,uuid"`
	Room         string    `json:"room"          validate:"omitempty,max=50"`
	StartsAt     time.Time `json:"starts_at"     validate:"required"`
	EndsAt       time.Time `json:"ends_at"       validate:"required,gtfield=StartsAt"`
	Capacity     int       `json:"capacity"      validate:"required,min=1,max=500"`
}

type ClassResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
}

type ScheduleResponse struct {
	ID           string     `json:"id"`
	ClassID      string     `json:"class_id"`
	InstructorID *string    `json:"instructor_id,omitempty"`
	Room         string     `json:"room,omitempty"`
	StartsAt     time.Time  `json:"starts_at"`
	EndsAt       time.Time  `json:"ends_at"`
	Capacity     int        `json:"capacity"`
	Registered   int64      `json:"registered"`
	SpotsLeft    int64      `json:"spots_left"`
	CanceledAt   *time.Time `json:"canceled_at,omitempty"`
}

type RegistrationResponse struct {
	ID           string    `json:"id"`
	ScheduleID   string    `json:"schedule_id"`
	UserID       string    `json:"user_id"`
	RegisteredAt time.Time `json:"registered_at"`
}

type ListClassesParams struct {
	store.PageParams
	Category string
}

type ListSchedulesParams struct {
	store.PageParams
	ClassID string
}

func ToClassResponse(c *FitnessClass) ClassResponse {
	return ClassResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Category:    c.Category,
		CreatedAt:   c.CreatedAt,
	}
}

func ToRegistrationResponse(reg *ClassRegistration) RegistrationResponse {
	return RegistrationResponse{
		ID:           reg.ID,
		ScheduleID:   reg.ScheduleID,
		UserID:       reg.UserID,
		RegisteredAt: reg.RegisteredAt,
	}
}

func toScheduleResponse(s *ClassSchedule, registered int64) ScheduleResponse {
	spots := int64(s.Capacity) - registered
	if spots < 0 {
		spots = 0
	}

	return ScheduleResponse{
		ID:           s.ID,
		ClassID:      s.ClassID,
		InstructorID: s.InstructorID,
		Room:         s.Room,
		StartsAt:     s.StartsAt,
		EndsAt:       s.EndsAt,
		Capacity:     s.Capacity,
		Registered:   registered,
		SpotsLeft:    spots,
		CanceledAt:   s.CanceledAt,
	}
}
