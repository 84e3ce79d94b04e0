// AngelaMos | 2026
// service.go

package class

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/angelamos/gymstack/internal/core"
	"github.com/angelamos/gymstack/internal/store"
)

// Notifier delivers in-app notifications. Delivery is best effort; a failed
// notification never fails the registration that triggered it.
type Notifier interface {
	Notify(ctx context.Context, userID, title, body string) error
}

type Service struct {
	repo     Repository
	notifier Notifier
}

func NewService(repo Repository, notifier Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

func (s *Service) CreateClass(
	ctx context.Context,
	req CreateClassRequest,
) (*ClassResponse, error) {
	c := &FitnessClass{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
	}

	if err := s.repo.CreateClass(ctx, c); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, core.DuplicateError("class")
		}
		return nil, fmt.Errorf("create class: %w", err)
	}

	resp := ToClassResponse(c)
	return &resp, nil
}

func (s *Service) GetClass(
	ctx context.Context,
	id string,
) (*ClassResponse, error) {
	c, err := s.repo.GetClass(ctx, id)
	if err != nil {
		return nil, classifyClass(err, "get class")
	}

	resp := ToClassResponse(c)
	return &resp, nil
}

func (s *Service) UpdateClass(
	ctx context.Context,
	id string,
	req UpdateClassRequest,
) (*ClassResponse, error) {
	set := map[string]any{}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.Category != nil {
		set["category"] = *req.Category
	}

	if len(set) == 0 {
		return s.GetClass(ctx, id)
	}

	c, err := s.repo.UpdateClass(ctx, id, set)
	if err != nil {
		return nil, classifyClass(err, "update class")
	}

	resp := ToClassResponse(c)
	return &resp, nil
}

func (s *Service) DeleteClass(ctx context.Context, id string) error {
	if err := s.repo.DeleteClass(ctx, id); err != nil {
		return classifyClass(err, "delete class")
	}
	return nil
}

func (s *Service) ListClasses(
	ctx context.Context,
	params ListClassesParams,
) (*store.Page[ClassResponse], error) {
	page, err := s.repo.ListClasses(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}

	return store.MapPage(page, ToClassResponse), nil
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *Service) CreateSchedule(
	ctx context.Context,
	req CreateScheduleRequest,
) (*ScheduleResponse, error) {
	if _, err := s.repo.GetClass(ctx, req.ClassID); err != nil {
		return nil, classifyClass(err, "create schedule")
	}

	sched := &ClassSchedule{
		ID:           uuid.New().String(),
		ClassID:      req.ClassID,
		InstructorID: req.InstructorID,
		Room:         req.Room,
		StartsAt:     req.StartsAt,
		EndsAt:       req.EndsAt,
		Capacity:     req.Capacity,
	}

	if err := s.repo.CreateSchedule(ctx, sched); err != nil {
		return nil, fmt.Errorf("create schedule: %w", err)
	}

	resp := toScheduleResponse(sched, 0)
	return &resp, nil
}

func (s *Service) GetSchedule(
	ctx context.Context,
	id string,
) (*ScheduleResponse, error) {
	row, err := s.repo.GetSchedule(ctx, id)
	if err != nil {
		return nil, classifySchedule(err, "get schedule")
	}

	resp := toScheduleResponse(&row.ClassSchedule, row.Registered)
	return &resp, nil
}

func (s *Service) CancelSchedule(ctx context.Context, id string) error {
	if err := s.repo.CancelSchedule(ctx, id); err != nil {
		return classifySchedule(err, "cancel schedule")
	}
	return nil
}

func (s *Service) ListSchedules(
	ctx context.Context,
	params ListSchedulesParams,
) (*store.Page[ScheduleResponse], error) {
	page, err := s.repo.ListSchedules(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}

	return store.MapPage(page, func(row *scheduleRow) ScheduleResponse {
		return toScheduleResponse(&row.ClassSchedule, row.Registered)
	}), nil
}

// Register books a spot. Capacity enforcement happens inside the
// repository's transaction; the outcomes map onto the public taxonomy here.
func (s *Service) Register(
	ctx context.Context,
	scheduleID, userID string,
) (*RegistrationResponse, error) {
	reg, err := s.repo.Register(ctx, scheduleID, userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrClassFull):
			return nil, core.ConflictError("Class is full")
		case errors.Is(err, ErrAlreadyRegistered):
			return nil, core.ConflictError("Already registered")
		case errors.Is(err, ErrScheduleCanceled):
			return nil, core.ConflictError("Class has been canceled")
		case errors.Is(err, core.ErrNotFound):
			return nil, core.NotFoundError("schedule")
		case errors.Is(err, core.ErrInvalidInput):
			return nil, core.ValidationError("invalid schedule id")
		default:
			return nil, fmt.Errorf("register: %w", err)
		}
	}

	s.notifyRegistered(ctx, reg)

	resp := ToRegistrationResponse(reg)
	return &resp, nil
}

func (s *Service) CancelRegistration(
	ctx context.Context,
	scheduleID, userID string,
) error {
	if err := s.repo.CancelRegistration(ctx, scheduleID, userID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.NotFoundError("registration")
		}
		if errors.Is(err, core.ErrInvalidInput) {
			return core.ValidationError("invalid schedule id")
		}
		return fmt.Errorf("cancel registration: %w", err)
	}
	return nil
}

func (s *Service) ListRegistrations(
	ctx context.Context,
	scheduleID string,
	params store.PageParams,
) (*store.Page[RegistrationResponse], error) {
	page, err := s.repo.ListRegistrations(ctx, scheduleID, params)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}

	return store.MapPage(page, ToRegistrationResponse), nil
}

func (s *Service) ListUserRegistrations(
	ctx context.Context,
	userID string,
	params store.PageParams,
) (*store.Page[RegistrationResponse], error) {
	page, err := s.repo.ListUserRegistrations(ctx, userID, params)
	if err != nil {
		return nil, fmt.Errorf("list user registrations: %w", err)
	}

	return store.MapPage(page, ToRegistrationResponse), nil
}

func (s *Service) notifyRegistered(
	ctx context.Context,
	reg *ClassRegistration,
) {
	if s.notifier == nil {
		return
	}

	sched, err := s.repo.GetSchedule(ctx, reg.ScheduleID)
	if err != nil {
		slog.Warn("registration notification skipped", "error", err)
		return
	}

	body := fmt.Sprintf(
		"You are booked for %s.",
		sched.StartsAt.Format(time.RFC1123),
	)

	if err := s.notifier.Notify(ctx, reg.UserID, "Class booked", body); err != nil {
		slog.Warn("registration notification failed",
			"user_id", reg.UserID,
			"error", err,
		)
	}
}

func classifyClass(err error, op string) error {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return core.NotFoundError("class")
	case errors.Is(err, core.ErrInvalidInput):
		return core.ValidationError("invalid class id")
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func classifySchedule(err error, op string) error {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return core.NotFoundError("schedule")
	case errors.Is(err, core.ErrInvalidInput):
		return core.ValidationError("invalid schedule id")
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
