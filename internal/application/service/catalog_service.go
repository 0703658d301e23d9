package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/tablepos-api/internal/domain/entity"
	"github.com/sangkips/tablepos-api/internal/domain/repository"
	"github.com/sangkips/tablepos-api/pkg/pagination"
)

// CatalogService serves the menu, kitchens and tables to the till.
type CatalogService struct {
	catalogRepo repository.CatalogRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(catalogRepo repository.CatalogRepository) *CatalogService {
	return &CatalogService{catalogRepo: catalogRepo}
}

// ListProducts lists menu items with pagination
func (s *CatalogService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	products, total, err := s.catalogRepo.ListProducts(ctx, params)
	if err != nil {
		return nil, err
	}

	return pagination.NewResult(products, params.Pagination, total), nil
}

// ListKitchens lists the kitchen stations
func (s *CatalogService) ListKitchens(ctx context.Context) ([]entity.Kitchen, error) {
	return s.catalogRepo.ListKitchens(ctx)
}

// TableView is a dining table with its occupancy.
type TableView struct {
	entity.DiningTable
	Occupied bool `json:"occupied"`
}

// ListTables lists dining tables, marking those with an open order.
func (s *CatalogService) ListTables(ctx context.Context) ([]TableView, error) {
	tables, err := s.catalogRepo.ListTables(ctx)
	if err != nil {
		return nil, err
	}
	open, err := s.catalogRepo.OpenTableIDs(ctx)
	if err != nil {
		return nil, err
	}
	occupied := make(map[uuid.UUID]bool, len(open))
	for _, id := range open {
		occupied[id] = true
	}

	views := make([]TableView, len(tables))
	for i, t := range tables {
		views[i] = TableView{DiningTable: t, Occupied: occupied[t.ID]}
	}
	return views, nil
}
