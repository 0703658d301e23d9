package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrHistoryImmutable is returned when something tries to change an audit record.
var ErrHistoryImmutable = errors.New("order history is append-only")

// OrderHistory is an append-only audit record written once per edit of a
// settled bill.
type OrderHistory struct {
	ID           uuid.UUID      `gorm:"type:char(36);primaryKey" json:"id"`
	OrderID      uuid.UUID      `gorm:"type:char(36);not null;index" json:"orderId"`
	BillNumber   int64          `gorm:"not null;index" json:"billNumber"`
	PreviousData datatypes.JSON `json:"previousData"`
	UpdatedData  datatypes.JSON `json:"updatedData"`
	EditedBy     *uuid.UUID     `gorm:"type:char(36)" json:"editedBy,omitempty"`
	EditedAt     time.Time      `gorm:"not null;index" json:"editedAt"`
}

// BeforeCreate generates a UUID before creating a new history record
func (h *OrderHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

func (h *OrderHistory) BeforeUpdate(tx *gorm.DB) error {
	return ErrHistoryImmutable
}

func (h *OrderHistory) BeforeDelete(tx *gorm.DB) error {
	return ErrHistoryImmutable
}

// TableName returns the table name for the OrderHistory model
func (OrderHistory) TableName() string {
	return "order_histories"
}
