package parts

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/gmtc-io/crm/internal/platform/httpx"
	"github.com/gmtc-io/crm/internal/server/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Part, int, error) {
	parts, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, 0, err
	}
	for i := range parts {
		parts[i].derive()
	}
	return parts, total, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Part, error) {
	part, err := s.repo.Get(ctx, id)
	if err != nil {
		return Part{}, err
	}
	part.derive()
	return part, nil
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (Part, error) {
	if strings.TrimSpace(req.SKU) == "" {
		return Part{}, fmt.Errorf("%w: part sku is required", httpx.ErrValidation)
	}
	if strings.TrimSpace(req.Name) == "" {
		return Part{}, fmt.Errorf("%w: part name is required", httpx.ErrValidation)
	}
	if err := validatePrice(req.UnitPrice); err != nil {
		return Part{}, err
	}
	part := Part{
		SKU:            strings.TrimSpace(req.SKU),
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		Category:       req.Category,
		Specifications: req.Specifications,
		UnitPrice:      req.UnitPrice,
	}
	if part.Specifications == nil {
		part.Specifications = map[string]any{}
	}
	if part.UnitPrice == nil {
		zero := "0.00"
		part.UnitPrice = &zero
	}
	if req.CurrentStock != nil {
		part.CurrentStock = *req.CurrentStock
	}
	if req.MinimumStock != nil {
		part.MinimumStock = *req.MinimumStock
	}
	created, err := s.repo.Create(ctx, part)
	if err != nil {
		return Part{}, err
	}
	created.derive()
	return created, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (Part, error) {
	if req.SKU != nil && strings.TrimSpace(*req.SKU) == "" {
		return Part{}, fmt.Errorf("%w: part sku cannot be empty", httpx.ErrValidation)
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return Part{}, fmt.Errorf("%w: part name cannot be empty", httpx.ErrValidation)
	}
	if err := validatePrice(req.UnitPrice); err != nil {
		return Part{}, err
	}
	updated, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return Part{}, err
	}
	updated.derive()
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

// AdjustStock applies a signed quantity delta and returns the part with its
// stock status recomputed.
func (s *Service) AdjustStock(ctx context.Context, id uuid.UUID, adj StockAdjustment) (Part, error) {
	if adj.Quantity == 0 {
		return Part{}, fmt.Errorf("%w: quantity must be non-zero", httpx.ErrValidation)
	}
	part, err := s.repo.AdjustStock(ctx, id, adj.Quantity)
	if err != nil {
		return Part{}, err
	}
	part.derive()
	return part, nil
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

func validatePrice(price *string) error {
	if price == nil {
		return nil
	}
	value, err := strconv.ParseFloat(*price, 64)
	if err != nil {
		return fmt.Errorf("%w: unit_price must be a decimal number", httpx.ErrValidation)
	}
	if value < 0 {
		return fmt.Errorf("%w: unit_price must not be negative", httpx.ErrValidation)
	}
	return nil
}
