package entity

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Product is a menu item. The order pipeline reads it, catalog CRUD lives elsewhere.
type Product struct {
	ID        uuid.UUID                         `gorm:"type:char(36);primaryKey" json:"id"`
	Name      string                            `gorm:"size:255;not null" json:"name"`
	Price     decimal.Decimal                   `gorm:"type:decimal(16,6);not null" json:"price"`
	Qty       int                               `gorm:"not null;default:0" json:"qty"`
	KitchenID *uuid.UUID                        `gorm:"type:char(36);index" json:"kitchenId,omitempty"`
	Addons    datatypes.JSONSlice[ProductAddon] `json:"addons"`
	Status    bool                              `gorm:"not null" json:"status"`
	CreatedAt time.Time                         `json:"createdAt"`
	UpdatedAt time.Time                         `json:"updatedAt"`
	DeletedAt gorm.DeletedAt                    `gorm:"index" json:"-"`

	// Relationships
	Kitchen *Kitchen `gorm:"foreignKey:KitchenID" json:"kitchen,omitempty"`
}

// ProductAddon is an extra offered on the menu for a product.
type ProductAddon struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// StationID is the kitchen station key used for ticket grouping and printer lookup.
func (p *Product) StationID() string {
	if p.KitchenID == nil {
		return ""
	}
	return p.KitchenID.String()
}

// Kitchen is a preparation station with its own ticket printer.
type Kitchen struct {
	ID        uuid.UUID      `gorm:"type:char(36);primaryKey" json:"id"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Status    bool           `gorm:"not null" json:"status"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new kitchen
func (k *Kitchen) BeforeCreate(tx *gorm.DB) error {
	if k.ID == uuid.Nil {
		k.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Kitchen model
func (Kitchen) TableName() string {
	return "kitchens"
}

// DiningTable is a physical table that Dine-in orders are attached to.
type DiningTable struct {
	ID        uuid.UUID      `gorm:"type:char(36);primaryKey" json:"id"`
	No        int            `gorm:"not null" json:"no"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new table
func (t *DiningTable) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the DiningTable model
func (DiningTable) TableName() string {
	return "dining_tables"
}

// DisplayName is what kitchen tickets print for the table.
func (t *DiningTable) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	return "Table " + strconv.Itoa(t.No)
}
