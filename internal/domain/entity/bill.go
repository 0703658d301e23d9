package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tablepos-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Bill is the financial record produced once an order completes. Its item
// list is a snapshot taken at settlement; only the edit flow rewrites it.
type Bill struct {
	ID             uuid.UUID                     `gorm:"type:char(36);primaryKey" json:"id"`
	BillNumber     int64                         `gorm:"uniqueIndex;not null" json:"billNumber"`
	OrderID        uuid.UUID                     `gorm:"type:char(36);uniqueIndex;not null" json:"orderId"`
	OrderNumber    string                        `gorm:"size:20;not null" json:"orderNumber"`
	TableID        *uuid.UUID                    `gorm:"type:char(36);index" json:"tableId,omitempty"`
	Type           enum.OrderType                `gorm:"size:20;not null;index" json:"type"`
	PaymentType    enum.PaymentType              `gorm:"size:20" json:"paymentType"`
	Items          datatypes.JSONSlice[BillItem] `json:"items"`
	Charges        Charges                       `gorm:"embedded" json:"charges"`
	BillEditStatus bool                          `gorm:"not null;default:false" json:"billeditstatus"`
	EditDate       *time.Time                    `json:"editDate,omitempty"`
	CreatedBy      *uuid.UUID                    `gorm:"type:char(36)" json:"createdBy,omitempty"`
	CreatedAt      time.Time                     `gorm:"index" json:"createdAt"`
	UpdatedAt      time.Time                     `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt                `gorm:"index" json:"-"`
	DeletedBy      *uuid.UUID                    `gorm:"type:char(36)" json:"deletedBy,omitempty"`

	// Relationships
	Order *Order `gorm:"foreignKey:OrderID" json:"order,omitempty"`
}

// BeforeCreate generates a UUID before creating a new bill
func (b *Bill) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Bill model
func (Bill) TableName() string {
	return "bills"
}

// BillItem is the settled copy of an order line, with the product name as
// it was at the time of sale.
type BillItem struct {
	ProductID  uuid.UUID       `json:"productId"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Addons     []Addon         `json:"addons,omitempty"`
}

// BillSnapshot is the full state recorded on either side of an edit.
type BillSnapshot struct {
	BillNumber  int64            `json:"billNumber"`
	OrderNumber string           `json:"orderNumber"`
	Type        enum.OrderType   `json:"type"`
	PaymentType enum.PaymentType `json:"paymentType"`
	Items       []BillItem       `json:"items"`
	Charges     Charges          `json:"charges"`
}

// Snapshot captures the bill's current state.
func (b *Bill) Snapshot() BillSnapshot {
	items := make([]BillItem, len(b.Items))
	copy(items, b.Items)
	return BillSnapshot{
		BillNumber:  b.BillNumber,
		OrderNumber: b.OrderNumber,
		Type:        b.Type,
		PaymentType: b.PaymentType,
		Items:       items,
		Charges:     b.Charges,
	}
}
