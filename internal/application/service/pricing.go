package service

import (
	"github.com/sangkips/tablepos-api/internal/domain/entity"
	"github.com/sangkips/tablepos-api/internal/domain/enum"
	"github.com/sangkips/tablepos-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Discount is the discount requested on an order.
type Discount struct {
	Type  enum.DiscountType
	Value decimal.Decimal
}

// TaxConfig is the tax part of the store settings.
type TaxConfig struct {
	Enabled bool
	SGST    decimal.Decimal
	CGST    decimal.Decimal
	IGST    decimal.Decimal
}

// TaxConfigFrom reads the tax rates out of a settings snapshot.
func TaxConfigFrom(s *entity.StoreSettings) TaxConfig {
	if s == nil {
		return TaxConfig{}
	}
	return TaxConfig{Enabled: s.TaxStatus, SGST: s.SGST, CGST: s.CGST, IGST: s.IGST}
}

// ValidateDiscount rejects discounts that cannot be applied.
func ValidateDiscount(d Discount) error {
	if !d.Type.IsValid() {
		return apperror.NewValidationError("Invalid discount type",
			apperror.FieldError{Field: "discountType", Message: "must be percentage, amount or none"})
	}
	if d.Value.IsNegative() {
		return apperror.NewValidationError("Invalid discount value",
			apperror.FieldError{Field: "discountValue", Message: "must not be negative"})
	}
	return nil
}

// Subtotal sums the line totals of items.
func Subtotal(items []entity.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(entity.LineTotal(item.UnitPrice, item.Quantity, item.Addons))
	}
	return total
}

// Price computes every derived money field of an order. Intermediate
// amounts keep full precision; only the grand total is rounded.
func Price(items []entity.OrderItem, discount Discount, tax TaxConfig) (entity.Charges, error) {
	if err := ValidateDiscount(discount); err != nil {
		return entity.Charges{}, err
	}

	subtotal := Subtotal(items)
	c := entity.Charges{
		TotalAmount:   subtotal,
		DiscountType:  discount.Type,
		DiscountValue: discount.Value,
	}

	switch discount.Type {
	case enum.DiscountPercentage:
		c.DiscountAmount = subtotal.Mul(discount.Value).Div(hundred)
	case enum.DiscountAmount:
		c.DiscountAmount = discount.Value
	default:
		c.DiscountValue = decimal.Zero
	}
	if c.DiscountAmount.GreaterThan(subtotal) {
		c.DiscountAmount = subtotal
	}
	c.TaxableAmount = subtotal.Sub(c.DiscountAmount)

	if tax.Enabled {
		c.TaxStatus = true
		if tax.IGST.IsPositive() {
			c.IGSTRate = tax.IGST
			c.IGST = c.TaxableAmount.Mul(tax.IGST).Div(hundred)
		} else {
			c.SGSTRate = tax.SGST
			c.CGSTRate = tax.CGST
			c.SGST = c.TaxableAmount.Mul(tax.SGST).Div(hundred)
			c.CGST = c.TaxableAmount.Mul(tax.CGST).Div(hundred)
		}
	}
	c.TaxAmount = c.SGST.Add(c.CGST).Add(c.IGST)

	beforeRounding := c.TaxableAmount.Add(c.TaxAmount)
	c.GrandTotal = beforeRounding.Round(0)
	c.RoundOff = c.GrandTotal.Sub(beforeRounding)
	return c, nil
}
