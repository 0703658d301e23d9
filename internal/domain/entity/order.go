package entity

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tablepos-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Order is a cart in progress (Dine-in, pending) or a settled sale.
type Order struct {
	ID          uuid.UUID        `gorm:"type:char(36);primaryKey" json:"id"`
	OrderNumber string           `gorm:"size:20;uniqueIndex;not null" json:"orderNumber"`
	OrderType   enum.OrderType   `gorm:"size:20;not null;index" json:"orderType"`
	TableID     *uuid.UUID       `gorm:"type:char(36);index" json:"tableId,omitempty"`
	PaymentType enum.PaymentType `gorm:"size:20" json:"paymentType,omitempty"`
	Status      enum.OrderStatus `gorm:"not null;default:0;index" json:"status"`
	Charges     Charges          `gorm:"embedded" json:"charges"`
	CreatedBy   *uuid.UUID       `gorm:"type:char(36)" json:"createdBy,omitempty"`
	CompletedAt *time.Time       `json:"completedAt,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt   `gorm:"index" json:"-"`
	DeletedBy   *uuid.UUID       `gorm:"type:char(36)" json:"deletedBy,omitempty"`

	// Relationships
	Items []OrderItem  `gorm:"foreignKey:OrderID" json:"items"`
	Table *DiningTable `gorm:"foreignKey:TableID" json:"table,omitempty"`
}

// BeforeCreate generates a UUID before creating a new order
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

func (o *Order) IsPending() bool {
	return o.Status == enum.OrderStatusPending
}

// OrderItem is one line of an order.
type OrderItem struct {
	ID         uuid.UUID                  `gorm:"type:char(36);primaryKey" json:"id"`
	OrderID    uuid.UUID                  `gorm:"type:char(36);not null;index" json:"orderId"`
	Position   int                        `gorm:"not null;default:0" json:"-"`
	ProductID  uuid.UUID                  `gorm:"type:char(36);not null;index" json:"productId"`
	Quantity   int                        `gorm:"not null" json:"quantity"`
	UnitPrice  decimal.Decimal            `gorm:"type:decimal(16,6);not null" json:"unitPrice"`
	TotalPrice decimal.Decimal            `gorm:"type:decimal(16,6);not null" json:"totalPrice"`
	Addons     datatypes.JSONSlice[Addon] `json:"addons"`
	// StockQty is how much of this line was actually taken from stock, so a
	// restore gives back exactly that and nothing is deducted twice.
	StockQty  int       `gorm:"not null;default:0" json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// BeforeCreate generates a UUID before creating a new order item
func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// Addon is an optional extra priced and counted on its own.
type Addon struct {
	Name  string          `json:"name"`
	Qty   int             `json:"qty"`
	Price decimal.Decimal `json:"price"`
}

// LineTotal is price*qty plus every add-on's price*qty.
func LineTotal(unitPrice decimal.Decimal, qty int, addons []Addon) decimal.Decimal {
	total := unitPrice.Mul(decimal.NewFromInt(int64(qty)))
	for _, a := range addons {
		total = total.Add(a.Price.Mul(decimal.NewFromInt(int64(a.Qty))))
	}
	return total
}

// Signature identifies lines that may be merged: same product, same unit
// price and the same add-on (name, price) set. Quantities do not count.
func Signature(productID uuid.UUID, unitPrice decimal.Decimal, addons []Addon) string {
	keys := make([]string, 0, len(addons))
	for _, a := range addons {
		keys = append(keys, strings.ToLower(strings.TrimSpace(a.Name))+"@"+a.Price.String())
	}
	sort.Strings(keys)
	return productID.String() + "|" + unitPrice.String() + "|" + strings.Join(keys, ",")
}

// MergeAddons adds the quantities of extra onto base, matching by name and price.
func MergeAddons(base, extra []Addon) []Addon {
	out := make([]Addon, len(base))
	copy(out, base)
	for _, e := range extra {
		found := false
		for i := range out {
			if strings.EqualFold(out[i].Name, e.Name) && out[i].Price.Equal(e.Price) {
				out[i].Qty += e.Qty
				found = true
				break
			}
		}
		if !found {
			out = append(out, e)
		}
	}
	return out
}

// Charges holds every derived money field shared by orders and bills.
type Charges struct {
	TotalAmount    decimal.Decimal   `gorm:"type:decimal(16,6);not null" json:"totalAmount"`
	DiscountType   enum.DiscountType `gorm:"size:20" json:"discountType,omitempty"`
	DiscountValue  decimal.Decimal   `gorm:"type:decimal(16,6);not null" json:"discountValue"`
	DiscountAmount decimal.Decimal   `gorm:"type:decimal(16,6);not null" json:"discountAmount"`
	TaxableAmount  decimal.Decimal   `gorm:"type:decimal(16,6);not null" json:"taxableAmount"`
	TaxStatus      bool              `gorm:"not null;default:false" json:"taxStatus"`
	SGSTRate       decimal.Decimal   `gorm:"type:decimal(8,4);not null" json:"sgstRate"`
	CGSTRate       decimal.Decimal   `gorm:"type:decimal(8,4);not null" json:"cgstRate"`
	IGSTRate       decimal.Decimal   `gorm:"type:decimal(8,4);not null" json:"igstRate"`
	SGST           decimal.Decimal   `gorm:"type:decimal(16,6);not null" json:"sgst"`
	CGST           decimal.Decimal   `gorm:"type:decimal(16,6);not null" json:"cgst"`
	IGST           decimal.Decimal   `gorm:"type:decimal(16,6);not null" json:"igst"`
	TaxAmount      decimal.Decimal   `gorm:"type:decimal(16,6);not null" json:"taxAmount"`
	RoundOff       decimal.Decimal   `gorm:"type:decimal(16,6);not null" json:"roundOff"`
	GrandTotal     decimal.Decimal   `gorm:"type:decimal(16,6);not null" json:"grandTotal"`
}
