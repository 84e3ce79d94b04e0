// AngelaMos | 2026
// service.go

package equipment

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
	req CreateEquipmentRequest,
) (*EquipmentResponse, error) {
	e := &Equipment{
		ID:       uuid.New().String(),
		Name:     req.Name,
		Category: req.Category,
		Status:   StatusOperational,
		Notes:    req.Notes,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("create equipment: %w", err)
	}

	resp := ToEquipmentResponse(e)
	return &resp, nil
}

func (s *Service) Get(
	ctx context.Context,
	id string,
) (*EquipmentResponse, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, classifyEquipment(err, "get equipment")
	}

	resp := ToEquipmentResponse(e)
	return &resp, nil
}

func (s *Service) Update(
	ctx context.Context,
	id string,
	req UpdateEquipmentRequest,
) (*EquipmentResponse, error) {
	set := map[string]any{}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Category != nil {
		set["category"] = *req.Category
	}
	if req.Notes != nil {
		set["notes"] = *req.Notes
	}
	if req.Status != nil {
		set["status"] = *req.Status
	}

	if len(set) == 0 {
		return s.Get(ctx, id)
	}

	e, err := s.repo.Update(ctx, id, set)
	if err != nil {
		return nil, classifyEquipment(err, "update equipment")
	}

	resp := ToEquipmentResponse(e)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return classifyEquipment(err, "delete equipment")
	}
	return nil
}

func (s *Service) List(
	ctx context.Context,
	params ListEquipmentParams,
) (*store.Page[EquipmentResponse], error) {
	page, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list equipment: %w", err)
	}

	return store.MapPage(page, ToEquipmentResponse), nil
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

func (s *Service) StatusBreakdown(
	ctx context.Context,
) (map[string]int64, error) {
	breakdown, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("status breakdown: %w", err)
	}
	return breakdown, nil
}

func classifyEquipment(err error, op string) error {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return core.NotFoundError("equipment")
	case errors.Is(err, core.ErrInvalidInput):
		return core.ValidationError("invalid equipment id")
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
