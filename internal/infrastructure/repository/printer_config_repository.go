package repository

import (
	"context"
	"errors"

	"github.com/sangkips/tablepos-api/internal/domain/entity"
	domainRepo "github.com/sangkips/tablepos-api/internal/domain/repository"
	"gorm.io/gorm"
)

type printerConfigRepository struct {
	db *gorm.DB
}

// NewPrinterConfigRepository keeps the printer configuration in a single row.
func NewPrinterConfigRepository(db *gorm.DB) domainRepo.PrinterConfigStore {
	return &printerConfigRepository{db: db}
}

func (r *printerConfigRepository) Get(ctx context.Context) (*entity.PrinterConfig, error) {
	return r.current(r.db.WithContext(ctx))
}

func (r *printerConfigRepository) current(db *gorm.DB) (*entity.PrinterConfig, error) {
	var cfg entity.PrinterConfig
	err := db.First(&cfg, "id = ?", entity.PrinterConfigID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &entity.PrinterConfig{Kitchens: map[string]string{}}, nil
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save stores cfg as the next version under a row lock.
func (r *printerConfigRepository) Save(ctx context.Context, cfg *entity.PrinterConfig) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := r.current(forUpdate(tx))
		if err != nil {
			return err
		}
		cfg.ID = entity.PrinterConfigID
		cfg.Version = current.Version + 1
		return tx.Save(cfg).Error
	})
}
