package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sangkips/tablepos-api/internal/domain/entity"
	"github.com/sangkips/tablepos-api/internal/domain/repository"
	"github.com/sangkips/tablepos-api/pkg/apperror"
	"github.com/sirupsen/logrus"
)

// FormatOrderNumber renders the human order number, e.g. ORD-0042.
func FormatOrderNumber(n int64) string {
	return fmt.Sprintf("ORD-%04d", n)
}

// Sequencer mints order and bill numbers from the atomic counters.
type Sequencer struct {
	log logrus.FieldLogger
}

// NewSequencer creates a new sequencer
func NewSequencer(log logrus.FieldLogger) *Sequencer {
	return &Sequencer{log: log}
}

// Sync moves both counters past the highest number already stored. It is
// run at startup so databases written before the counters existed, or
// restored from backup, never hand out a used number.
func (s *Sequencer) Sync(ctx context.Context, store repository.Store) error {
	return store.Transaction(ctx, func(tx repository.Store) error {
		for _, name := range []string{entity.SequenceOrder, entity.SequenceBill} {
			max, err := s.highest(ctx, tx, name)
			if err != nil {
				return err
			}
			if err := tx.Sequences().EnsureAtLeast(ctx, name, max); err != nil {
				return err
			}
		}
		return nil
	})
}

// CreateOrder assigns the next order number and inserts order.
func (s *Sequencer) CreateOrder(ctx context.Context, tx repository.Store, order *entity.Order) error {
	return s.allocate(ctx, tx, entity.SequenceOrder, func(n int64) error {
		order.OrderNumber = FormatOrderNumber(n)
		return tx.Orders().Create(ctx, order)
	})
}

// AssignOrderNumber numbers an order that was stored without one.
func (s *Sequencer) AssignOrderNumber(ctx context.Context, tx repository.Store, order *entity.Order) error {
	return s.allocate(ctx, tx, entity.SequenceOrder, func(n int64) error {
		order.OrderNumber = FormatOrderNumber(n)
		return tx.Orders().Update(ctx, order)
	})
}

// CreateBill assigns the next bill number and inserts bill.
func (s *Sequencer) CreateBill(ctx context.Context, tx repository.Store, bill *entity.Bill) error {
	return s.allocate(ctx, tx, entity.SequenceBill, func(n int64) error {
		bill.BillNumber = n
		return tx.Bills().Create(ctx, bill)
	})
}

// allocate draws a number and runs insert under a savepoint. A unique
// violation rolls back to the savepoint, resynchronises the counter and
// tries once more.
func (s *Sequencer) allocate(ctx context.Context, tx repository.Store, name string, insert func(n int64) error) error {
	savepoint := "seq_" + name

	var err error
	for attempt := 0; attempt < 2; attempt++ {
		if err = tx.SavePoint(savepoint); err != nil {
			return err
		}

		var n int64
		n, err = tx.Sequences().Next(ctx, name)
		if err == nil {
			err = insert(n)
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return err
		}

		s.log.WithFields(logrus.Fields{"sequence": name, "value": n}).
			Warn("sequence number already taken, resynchronising")

		if rbErr := tx.RollbackTo(savepoint); rbErr != nil {
			return rbErr
		}
		max, hErr := s.highest(ctx, tx, name)
		if hErr != nil {
			return hErr
		}
		if eErr := tx.Sequences().EnsureAtLeast(ctx, name, max); eErr != nil {
			return eErr
		}
	}
	return apperror.NewConflictError("Could not allocate a unique "+name+" number", err)
}

func (s *Sequencer) highest(ctx context.Context, tx repository.Store, name string) (int64, error) {
	if name == entity.SequenceBill {
		max, err := tx.Bills().MaxBillNumber(ctx)
		if err != nil {
			return 0, err
		}
		if start := entity.SequenceStart(name); max < start {
			max = start
		}
		return max, nil
	}
	return tx.Orders().MaxOrderNumber(ctx)
}
