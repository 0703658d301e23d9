package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/tablepos-api/internal/domain/entity"
	"github.com/sangkips/tablepos-api/pkg/pagination"
)

// OrderRepository defines the interface for order data operations.
// Not-found lookups return (nil, nil).
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	// GetByIDForUpdate loads the order with its items and holds a row lock
	// until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	// FindPendingByTable returns the open Dine-in order of a table, locked.
	FindPendingByTable(ctx context.Context, tableID uuid.UUID) (*entity.Order, error)
	// Update writes the order row only, never its items.
	Update(ctx context.Context, order *entity.Order) error
	// SaveItems inserts new lines and updates existing ones.
	SaveItems(ctx context.Context, items []entity.OrderItem) error
	// ReplaceItems swaps the whole item list of an order.
	ReplaceItems(ctx context.Context, orderID uuid.UUID, items []entity.OrderItem) error
	SoftDelete(ctx context.Context, id uuid.UUID, deletedBy *uuid.UUID) error
	// MaxOrderNumber is the highest numeric suffix ever issued, soft-deleted rows included.
	MaxOrderNumber(ctx context.Context) (int64, error)
}

// BillRepository defines the interface for bill data operations.
type BillRepository interface {
	Create(ctx context.Context, bill *entity.Bill) error
	// GetByNumber loads the bill with its order and order items.
	GetByNumber(ctx context.Context, billNumber int64) (*entity.Bill, error)
	GetByNumberForUpdate(ctx context.Context, billNumber int64) (*entity.Bill, error)
	Update(ctx context.Context, bill *entity.Bill) error
	SoftDelete(ctx context.Context, id uuid.UUID, deletedBy *uuid.UUID) error
	List(ctx context.Context, params *BillFilterParams) ([]entity.Bill, int64, error)
	// MaxBillNumber is the highest bill number ever issued, soft-deleted rows included.
	MaxBillNumber(ctx context.Context) (int64, error)
}

// BillFilterParams contains filtering parameters for bill queries
type BillFilterParams struct {
	Pagination *pagination.PaginationParams
	EditedOnly bool
}

// OrderHistoryRepository appends and reads edit audit records.
type OrderHistoryRepository interface {
	Create(ctx context.Context, history *entity.OrderHistory) error
	ListByBillNumber(ctx context.Context, billNumber int64) ([]entity.OrderHistory, error)
}
