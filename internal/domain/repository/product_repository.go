package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/tablepos-api/internal/domain/entity"
	"github.com/sangkips/tablepos-api/pkg/pagination"
)

// ProductRepository is the catalog lookup and stock contract used by the
// order pipeline.
type ProductRepository interface {
	// GetByIDs retrieves multiple products by their IDs in a single query (prevents N+1)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error)
	// DecrementStock takes amount from stock only if enough is left.
	// Returns (false, nil) when stock is insufficient.
	DecrementStock(ctx context.Context, id uuid.UUID, amount int) (bool, error)
	IncrementStock(ctx context.Context, id uuid.UUID, amount int) error
}

// KitchenRepository resolves kitchen station names.
type KitchenRepository interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Kitchen, error)
}

// TableRepository resolves dining tables.
type TableRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.DiningTable, error)
	// GetByIDForUpdate locks the table row so concurrent first orders for
	// one table serialize.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.DiningTable, error)
}

// ProductFilterParams contains filtering parameters for menu queries
type ProductFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	KitchenID  *uuid.UUID
	ActiveOnly bool
}

// CatalogRepository serves the read side of the menu for the till.
type CatalogRepository interface {
	ListProducts(ctx context.Context, params *ProductFilterParams) ([]entity.Product, int64, error)
	ListKitchens(ctx context.Context) ([]entity.Kitchen, error)
	ListTables(ctx context.Context) ([]entity.DiningTable, error)
	// OpenTableIDs returns the tables that currently have a pending order.
	OpenTableIDs(ctx context.Context) ([]uuid.UUID, error)
}
