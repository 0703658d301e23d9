package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/tablepos-api/internal/domain/entity"
	"github.com/sangkips/tablepos-api/internal/domain/enum"
	"github.com/sangkips/tablepos-api/pkg/pagination"
)

// PrintJobRepository stores the durable record of every dispatch.
type PrintJobRepository interface {
	Create(ctx context.Context, job *entity.PrintJob) error
	Update(ctx context.Context, job *entity.PrintJob) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.PrintJob, error)
	List(ctx context.Context, status enum.PrintJobStatus, params *pagination.PaginationParams) ([]entity.PrintJob, int64, error)
}

// PrinterConfigStore persists the printer configuration. How it is stored
// is up to the implementation.
type PrinterConfigStore interface {
	// Get returns the current configuration. A store that was never written
	// returns an empty configuration, not an error.
	Get(ctx context.Context) (*entity.PrinterConfig, error)
	// Save stores cfg as the next version and updates cfg in place.
	Save(ctx context.Context, cfg *entity.PrinterConfig) error
}
