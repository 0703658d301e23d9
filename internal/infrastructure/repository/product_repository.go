package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/tablepos-api/internal/domain/entity"
	"github.com/sangkips/tablepos-api/internal/domain/enum"
	domainRepo "github.com/sangkips/tablepos-api/internal/domain/repository"
	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

// GetByIDs retrieves multiple products by their IDs in a single query
func (r *productRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	if len(ids) == 0 {
		return []entity.Product{}, nil
	}
	var products []entity.Product
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&products).Error
	return products, err
}

// DecrementStock is a conditional update, so two concurrent sales can never
// take the same unit.
func (r *productRepository) DecrementStock(ctx context.Context, id uuid.UUID, amount int) (bool, error) {
	if amount <= 0 {
		return true, nil
	}
	result := r.db.WithContext(ctx).
		Model(&entity.Product{}).
		Where("id = ? AND qty >= ?", id, amount).
		Update("qty", gorm.Expr("qty - ?", amount))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *productRepository) IncrementStock(ctx context.Context, id uuid.UUID, amount int) error {
	if amount <= 0 {
		return nil
	}
	// Unscoped: stock of a product deleted from the menu is still returned.
	return r.db.WithContext(ctx).
		Unscoped().
		Model(&entity.Product{}).
		Where("id = ?", id).
		Update("qty", gorm.Expr("qty + ?", amount)).Error
}

type kitchenRepository struct {
	db *gorm.DB
}

func (r *kitchenRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Kitchen, error) {
	if len(ids) == 0 {
		return []entity.Kitchen{}, nil
	}
	var kitchens []entity.Kitchen
	err := r.db.WithContext(ctx).Unscoped().Where("id IN ?", ids).Find(&kitchens).Error
	return kitchens, err
}

type tableRepository struct {
	db *gorm.DB
}

func (r *tableRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.DiningTable, error) {
	var table entity.DiningTable
	err := r.db.WithContext(ctx).First(&table, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &table, err
}

func (r *tableRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.DiningTable, error) {
	var table entity.DiningTable
	err := forUpdate(r.db.WithContext(ctx)).First(&table, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &table, err
}

type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *gorm.DB) domainRepo.CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) ListProducts(ctx context.Context, params *domainRepo.ProductFilterParams) ([]entity.Product, int64, error) {
	var products []entity.Product
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Product{})
	if params.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(params.Search)+"%")
	}
	if params.KitchenID != nil {
		query = query.Where("kitchen_id = ?", *params.KitchenID)
	}
	if params.ActiveOnly {
		query = query.Where("status = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Kitchen").
		Order("name ASC").
		Find(&products).Error

	return products, total, err
}

func (r *catalogRepository) ListKitchens(ctx context.Context) ([]entity.Kitchen, error) {
	var kitchens []entity.Kitchen
	err := r.db.WithContext(ctx).Order("name ASC").Find(&kitchens).Error
	return kitchens, err
}

func (r *catalogRepository) ListTables(ctx context.Context) ([]entity.DiningTable, error) {
	var tables []entity.DiningTable
	err := r.db.WithContext(ctx).Order("no ASC").Find(&tables).Error
	return tables, err
}

func (r *catalogRepository) OpenTableIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&entity.Order{}).
		Where("status = ? AND table_id IS NOT NULL", enum.OrderStatusPending).
		Distinct().
		Pluck("table_id", &ids).Error
	return ids, err
}
