package repository

import (
	"context"

	"github.com/sangkips/tablepos-api/internal/domain/entity"
)

// SettingsRepository defines the interface for store settings data access
type SettingsRepository interface {
	// Get returns the settings row, or nil when it has not been seeded.
	Get(ctx context.Context) (*entity.StoreSettings, error)
	Save(ctx context.Context, settings *entity.StoreSettings) error
}
