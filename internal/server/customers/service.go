package customers

import (
	"context"
	"fmt"
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

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Customer, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Customer, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (Customer, error) {
	if strings.TrimSpace(req.Name) == "" {
		return Customer{}, fmt.Errorf("%w: customer name is required", httpx.ErrValidation)
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return s.repo.Create(ctx, Customer{
		Name:          strings.TrimSpace(req.Name),
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		CompanyName:   req.CompanyName,
		TaxID:         req.TaxID,
		AddressLine1:  req.AddressLine1,
		AddressLine2:  req.AddressLine2,
		City:          req.City,
		State:         req.State,
		PostalCode:    req.PostalCode,
		Country:       req.Country,
		Website:       req.Website,
		Notes:         req.Notes,
		CustomerType:  req.CustomerType,
		IsActive:      active,
	})
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (Customer, error) {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return Customer{}, fmt.Errorf("%w: customer name cannot be empty", httpx.ErrValidation)
	}
	return s.repo.Update(ctx, id, req)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}
