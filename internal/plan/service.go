// AngelaMos | 2026
// service.go

package plan

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/angelamos/gymstack/internal/core"
	"github.com/angelamos/gymstack/internal/store"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(
	ctx context.Context,
	req CreatePlanRequest,
) (*PlanResponse, error) {
	p := &MembershipPlan{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Description:  req.Description,
		PriceCents:   req.PriceCents,
		DurationDays: req.DurationDays,
		Active:       true,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, core.DuplicateError("plan")
		}
		return nil, fmt.Errorf("create plan: %w", err)
	}

	resp := ToPlanResponse(p)
	return &resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*PlanResponse, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, classifyPlan(err, "get plan")
	}

	resp := ToPlanResponse(p)
	return &resp, nil
}

func (s *Service) Update(
	ctx context.Context,
	id string,
	req UpdatePlanRequest,
) (*PlanResponse, error) {
	set := map[string]any{}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.PriceCents != nil {
		set["price_cents"] = *req.PriceCents
	}
	if req.DurationDays != nil {
		set["duration_days"] = *req.DurationDays
	}
	if req.Active != nil {
		set["active"] = *req.Active
	}

	if len(set) == 0 {
		return s.Get(ctx, id)
	}

	p, err := s.repo.Update(ctx, id, set)
	if err != nil {
		return nil, classifyPlan(err, "update plan")
	}

	resp := ToPlanResponse(p)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return classifyPlan(err, "delete plan")
	}
	return nil
}

func (s *Service) List(
	ctx context.Context,
	params ListPlansParams,
) (*store.Page[PlanResponse], error) {
	page, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}

	return store.MapPage(page, ToPlanResponse), nil
}

func classifyPlan(err error, op string) error {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return core.NotFoundError("plan")
	case errors.Is(err, core.ErrInvalidInput):
		return core.ValidationError("invalid plan id")
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
