package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tablepos-api/internal/domain/entity"
	domainRepo "github.com/sangkips/tablepos-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type billRepository struct {
	db *gorm.DB
}

func (r *billRepository) Create(ctx context.Context, bill *entity.Bill) error {
	return translateDuplicate(r.db.WithContext(ctx).Omit(clause.Associations).Create(bill).Error)
}

func (r *billRepository) GetByNumber(ctx context.Context, billNumber int64) (*entity.Bill, error) {
	var bill entity.Bill
	err := r.db.WithContext(ctx).
		Preload("Order").
		Preload("Order.Items", itemsInOrder).
		Preload("Order.Table").
		First(&bill, "bill_number = ?", billNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &bill, err
}

func (r *billRepository) GetByNumberForUpdate(ctx context.Context, billNumber int64) (*entity.Bill, error) {
	var bill entity.Bill
	err := forUpdate(r.db.WithContext(ctx)).First(&bill, "bill_number = ?", billNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &bill, err
}

func (r *billRepository) Update(ctx context.Context, bill *entity.Bill) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(bill).Error
}

func (r *billRepository) SoftDelete(ctx context.Context, id uuid.UUID, deletedBy *uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entity.Bill{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"deleted_at": time.Now(),
			"deleted_by": deletedBy,
		}).Error
}

func (r *billRepository) List(ctx context.Context, params *domainRepo.BillFilterParams) ([]entity.Bill, int64, error) {
	var bills []entity.Bill
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Bill{})
	if params.EditedOnly {
		query = query.Where("bill_edit_status = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("bill_number DESC").
		Find(&bills).Error

	return bills, total, err
}

func (r *billRepository) MaxBillNumber(ctx context.Context) (int64, error) {
	var max sql.NullInt64
	err := r.db.WithContext(ctx).
		Unscoped().
		Model(&entity.Bill{}).
		Select("MAX(bill_number)").
		Row().Scan(&max)
	if err != nil {
		return 0, err
	}
	return max.Int64, nil
}

type orderHistoryRepository struct {
	db *gorm.DB
}

func (r *orderHistoryRepository) Create(ctx context.Context, history *entity.OrderHistory) error {
	return r.db.WithContext(ctx).Create(history).Error
}

func (r *orderHistoryRepository) ListByBillNumber(ctx context.Context, billNumber int64) ([]entity.OrderHistory, error) {
	var histories []entity.OrderHistory
	err := r.db.WithContext(ctx).
		Where("bill_number = ?", billNumber).
		Order("edited_at ASC").
		Find(&histories).Error
	return histories, err
}
