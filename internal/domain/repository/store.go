package repository

import (
	"context"
	"errors"
)

// ErrDuplicate is returned by Create when a unique key (order or bill
// number) is already taken.
var ErrDuplicate = errors.New("duplicate key")

// SequenceRepository hands out numbers from named counters. Next must be
// called inside a transaction; a rollback returns the number.
type SequenceRepository interface {
	Next(ctx context.Context, name string) (int64, error)
	// EnsureAtLeast moves the counter forward to value if it is behind.
	EnsureAtLeast(ctx context.Context, name string, value int64) error
}

// Store groups the repositories of the order pipeline and binds them to one
// unit of work.
type Store interface {
	Orders() OrderRepository
	Bills() BillRepository
	Histories() OrderHistoryRepository
	Products() ProductRepository
	Kitchens() KitchenRepository
	Tables() TableRepository
	Sequences() SequenceRepository

	// Transaction runs fn with a Store whose repositories share one
	// database transaction. Returning an error rolls everything back.
	Transaction(ctx context.Context, fn func(tx Store) error) error
	// SavePoint and RollbackTo are only meaningful inside Transaction.
	SavePoint(name string) error
	RollbackTo(name string) error
}
