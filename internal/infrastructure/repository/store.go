package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	domainRepo "github.com/sangkips/tablepos-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormStore struct {
	db *gorm.DB
}

// NewStore creates the unit of work over db.
func NewStore(db *gorm.DB) domainRepo.Store {
	return &gormStore{db: db}
}

func (s *gormStore) Orders() domainRepo.OrderRepository {
	return &orderRepository{db: s.db}
}

func (s *gormStore) Bills() domainRepo.BillRepository {
	return &billRepository{db: s.db}
}

func (s *gormStore) Histories() domainRepo.OrderHistoryRepository {
	return &orderHistoryRepository{db: s.db}
}

func (s *gormStore) Products() domainRepo.ProductRepository {
	return &productRepository{db: s.db}
}

func (s *gormStore) Kitchens() domainRepo.KitchenRepository {
	return &kitchenRepository{db: s.db}
}

func (s *gormStore) Tables() domainRepo.TableRepository {
	return &tableRepository{db: s.db}
}

func (s *gormStore) Sequences() domainRepo.SequenceRepository {
	return &sequenceRepository{db: s.db}
}

func (s *gormStore) Transaction(ctx context.Context, fn func(tx domainRepo.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

func (s *gormStore) SavePoint(name string) error {
	return s.db.SavePoint(name).Error
}

func (s *gormStore) RollbackTo(name string) error {
	return s.db.RollbackTo(name).Error
}

// forUpdate adds SELECT ... FOR UPDATE. SQLite has no row locks; its
// writer lock already serializes transactions.
func forUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// translateDuplicate maps unique violations of every supported driver onto
// domainRepo.ErrDuplicate.
func translateDuplicate(err error) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return errors.Join(domainRepo.ErrDuplicate, err)
	}
	return err
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // sqlite
		strings.Contains(msg, "Duplicate entry") // mysql 1062
}
