package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tablepos-api/internal/domain/enum"
	"gorm.io/gorm"
)

// PrintJob is a durable record of a payload sent (or meant to be sent) to a printer.
type PrintJob struct {
	ID        uuid.UUID           `gorm:"type:char(36);primaryKey" json:"id"`
	Target    string              `gorm:"size:100;not null;index" json:"target"`
	Endpoint  string              `gorm:"size:255" json:"endpoint"`
	Kind      enum.PrintKind      `gorm:"size:20;not null" json:"kind"`
	Reference string              `gorm:"size:50;index" json:"reference"`
	Content   string              `gorm:"type:text;not null" json:"content"`
	Status    enum.PrintJobStatus `gorm:"size:20;not null;index" json:"status"`
	Attempts  int                 `gorm:"not null;default:0" json:"attempts"`
	LastError string              `gorm:"type:text" json:"lastError,omitempty"`
	PrintedAt *time.Time          `json:"printedAt,omitempty"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// BeforeCreate generates a UUID before creating a new print job
func (j *PrintJob) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PrintJob model
func (PrintJob) TableName() string {
	return "print_jobs"
}
