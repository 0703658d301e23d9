package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StoreSettingsID is the primary key of the single settings row.
const StoreSettingsID uint = 1

// StoreSettings is the store-wide configuration consulted by the order
// pipeline. It is loaded once and handed to each operation as a snapshot.
type StoreSettings struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Receipt header
	StoreName      string `gorm:"size:255;not null" json:"storeName"`
	Logo           string `gorm:"size:255" json:"logo,omitempty"`
	StoreAddress   string `gorm:"size:500" json:"storeAddress"`
	StoreContact   string `gorm:"size:100" json:"storeContact"`
	GSTAvailable   bool   `gorm:"not null;default:false" json:"gstAvailable"`
	GSTNumber      string `gorm:"size:50" json:"gstNumber"`
	FSSAIAvailable bool   `gorm:"not null;default:false" json:"fssaiAvailable"`
	FSSAINumber    string `gorm:"size:50" json:"fssaiNumber"`

	// Inventory
	StockUpdate bool `gorm:"not null;default:false" json:"stockUpdate"`

	// Tax
	TaxStatus bool            `gorm:"not null;default:false" json:"taxStatus"`
	SGST      decimal.Decimal `gorm:"type:decimal(8,4);not null" json:"sgst"`
	CGST      decimal.Decimal `gorm:"type:decimal(8,4);not null" json:"cgst"`
	IGST      decimal.Decimal `gorm:"type:decimal(8,4);not null" json:"igst"`

	// Printing
	AutoPrintBill  bool `gorm:"not null" json:"autoPrintBill"`
	AutoPrintKOT   bool `gorm:"not null" json:"autoPrintKot"`
	AutoPrintToken bool `gorm:"not null;default:false" json:"autoPrintToken"`
}

// TableName returns the table name for the StoreSettings model
func (StoreSettings) TableName() string {
	return "store_settings"
}

// Clone returns an independent copy so callers can hold a stable snapshot.
func (s *StoreSettings) Clone() *StoreSettings {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
