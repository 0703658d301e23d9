package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tablepos-api/internal/domain/entity"
	"github.com/sangkips/tablepos-api/internal/domain/enum"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type orderRepository struct {
	db *gorm.DB
}

func itemsInOrder(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	for i := range order.Items {
		order.Items[i].Position = i
	}
	return translateDuplicate(r.db.WithContext(ctx).Create(order).Error)
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var order entity.Order
	err := r.db.WithContext(ctx).
		Preload("Items", itemsInOrder).
		Preload("Table").
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *orderRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var order entity.Order
	err := forUpdate(r.db.WithContext(ctx)).First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, r.loadItems(ctx, &order)
}

func (r *orderRepository) FindPendingByTable(ctx context.Context, tableID uuid.UUID) (*entity.Order, error) {
	var order entity.Order
	err := forUpdate(r.db.WithContext(ctx)).
		Where("table_id = ? AND order_type = ? AND status = ?", tableID, enum.OrderTypeDineIn, enum.OrderStatusPending).
		Order("created_at DESC").
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, r.loadItems(ctx, &order)
}

func (r *orderRepository) loadItems(ctx context.Context, order *entity.Order) error {
	return r.db.WithContext(ctx).
		Where("order_id = ?", order.ID).
		Order("position ASC").
		Find(&order.Items).Error
}

func (r *orderRepository) Update(ctx context.Context, order *entity.Order) error {
	return translateDuplicate(r.db.WithContext(ctx).Omit(clause.Associations).Save(order).Error)
}

func (r *orderRepository) SaveItems(ctx context.Context, items []entity.OrderItem) error {
	db := r.db.WithContext(ctx)
	for i := range items {
		var err error
		if items[i].ID == uuid.Nil {
			err = db.Create(&items[i]).Error
		} else {
			err = db.Save(&items[i]).Error
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *orderRepository) ReplaceItems(ctx context.Context, orderID uuid.UUID, items []entity.OrderItem) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("order_id = ?", orderID).Delete(&entity.OrderItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].ID = uuid.Nil
		items[i].OrderID = orderID
		items[i].Position = i
	}
	return db.Create(&items).Error
}

func (r *orderRepository) SoftDelete(ctx context.Context, id uuid.UUID, deletedBy *uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entity.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"deleted_at": time.Now(),
			"deleted_by": deletedBy,
		}).Error
}

func (r *orderRepository) MaxOrderNumber(ctx context.Context) (int64, error) {
	var numbers []string
	err := r.db.WithContext(ctx).
		Unscoped().
		Model(&entity.Order{}).
		Order("LENGTH(order_number) DESC, order_number DESC").
		Limit(1).
		Pluck("order_number", &numbers).Error
	if err != nil || len(numbers) == 0 {
		return 0, err
	}
	return parseOrderNumber(numbers[0]), nil
}

func parseOrderNumber(s string) int64 {
	i := strings.LastIndex(s, "-")
	n, err := strconv.ParseInt(s[i+1:], 10, 64)
	if err != nil {
		return 0
	}
	return n
}
