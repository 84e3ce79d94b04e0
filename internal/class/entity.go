// AngelaMos | 2026
// entity.go

package class

import (
	"time"
)

type FitnessClass struct {
	ID          string     `db:"id"`
	Name        string     `db:"name"`
	Description string     `db:"description"`
	Category    string     `db:"category"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
}

var ClassColumns = []string{
	"id",
	"name",
	"description",
	"category",
}

// ClassSchedule is one concrete occurrence of a class. Capacity is fixed at
// scheduling time; admission control compares it against live registrations
// inside a transaction.
type ClassSchedule struct {
	ID           string     `db:"id"`
	ClassID      string     `db:"class_id"`
	InstructorID *string    `db:"instructor_id"`
	Room         string     `db:"room"`
	StartsAt     time.Time  `db:"starts_at"`
	EndsAt       time.Time  `db:"ends_at"`
	Capacity     int        `db:"capacity"`
	CanceledAt   *time.Time `db:"canceled_at"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

func (s *ClassSchedule) IsCanceled() bool {
	return s.CanceledAt != nil
}

func (s *ClassSchedule) HasStarted() bool {
	return time.Now().After(s.StartsAt)
}

var ScheduleColumns = []string{
	"id",
	"class_id",
	"instructor_id",
	"room",
	"starts_at",
	"ends_at",
	"capacity",
}

// ClassRegistration links a member to a schedule. An active registration
// has a nil CanceledAt; the (schedule_id, user_id) pair is unique among
// active rows.
type ClassRegistration struct {
	ID           string     `db:"id"`
	ScheduleID   string     `db:"schedule_id"`
	UserID       string     `db:"user_id"`
	RegisteredAt time.Time  `db:"registered_at"`
	CanceledAt   *time.Time `db:"canceled_at"`
}

var RegistrationColumns = []string{
	"id",
	"schedule_id",
	"user_id",
}
