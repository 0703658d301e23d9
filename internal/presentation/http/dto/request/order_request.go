package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddonRequest is an add-on chosen for one order line
type AddonRequest struct {
	Name  string          `json:"name"`
	Qty   int             `json:"qty"`
	Price decimal.Decimal `json:"price"`
}

// OrderItemRequest is one requested order line. UnitPrice overrides the
// menu price when present.
type OrderItemRequest struct {
	ProductID uuid.UUID        `json:"productId"`
	Quantity  int              `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unitPrice"`
	Addons    []AddonRequest   `json:"addons"`
}

// DiscountFields are shared by every request that can carry a discount
type DiscountFields struct {
	DiscountType  string           `json:"discountType"`
	DiscountValue *decimal.Decimal `json:"discountValue"`
}

// CreateOrderRequest represents an order submission from the till
type CreateOrderRequest struct {
	TableID     *uuid.UUID         `json:"tableId"`
	OrderType   string             `json:"orderType" binding:"required"`
	PaymentType string             `json:"paymentType"`
	Items       []OrderItemRequest `json:"items" binding:"required"`
	DiscountFields
}

// CompleteOrderRequest settles an open Dine-in order
type CompleteOrderRequest struct {
	PaymentType string `json:"paymentType"`
	DiscountFields
}

// UpdateBillRequest corrects a settled bill. BillNumber wins over the
// path parameter when both are given.
type UpdateBillRequest struct {
	BillNumber  *int64             `json:"billNumber"`
	Items       []OrderItemRequest `json:"items" binding:"required"`
	PaymentType string             `json:"paymentType"`
	DiscountFields
}

// BillFilterRequest represents bill list parameters
type BillFilterRequest struct {
	Page       int  `form:"page"`
	PerPage    int  `form:"per_page"`
	EditedOnly bool `form:"edited"`
}
