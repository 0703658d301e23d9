package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/tablepos-api/internal/domain/entity"
	"github.com/sangkips/tablepos-api/internal/domain/enum"
	"github.com/sangkips/tablepos-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoLines() []entity.OrderItem {
	return []entity.OrderItem{
		{ProductID: uuid.New(), Quantity: 2, UnitPrice: dec("100")},
		{ProductID: uuid.New(), Quantity: 1, UnitPrice: dec("50"),
			Addons: []entity.Addon{{Name: "Extra Sambar", Qty: 1, Price: dec("10")}}},
	}
}

func gst(sgst, cgst, igst string) TaxConfig {
	return TaxConfig{Enabled: true, SGST: dec(sgst), CGST: dec(cgst), IGST: dec(igst)}
}

func assertDec(t *testing.T, want string, got interface{ String() string }) {
	t.Helper()
	assert.True(t, dec(want).Equal(dec(got.String())), "want %s, got %s", want, got.String())
}

func TestPrice_TakeawayScenario(t *testing.T) {
	c, err := Price(twoLines(), Discount{Type: enum.DiscountPercentage, Value: dec("10")}, gst("2.5", "2.5", "0"))
	require.NoError(t, err)

	assertDec(t, "260", c.TotalAmount)
	assertDec(t, "26", c.DiscountAmount)
	assertDec(t, "234", c.TaxableAmount)
	assertDec(t, "5.85", c.SGST)
	assertDec(t, "5.85", c.CGST)
	assertDec(t, "0", c.IGST)
	assertDec(t, "11.70", c.TaxAmount)
	assertDec(t, "246", c.GrandTotal)
	assertDec(t, "0.30", c.RoundOff)
	assert.True(t, c.TaxStatus)
}

func TestPrice_DiscountClamping(t *testing.T) {
	tests := []struct {
		name     string
		discount Discount
		want     string
	}{
		{"no discount", Discount{}, "0"},
		{"percentage", Discount{Type: enum.DiscountPercentage, Value: dec("25")}, "65"},
		{"percentage above 100", Discount{Type: enum.DiscountPercentage, Value: dec("150")}, "260"},
		{"flat", Discount{Type: enum.DiscountAmount, Value: dec("60")}, "60"},
		{"flat above subtotal", Discount{Type: enum.DiscountAmount, Value: dec("500")}, "260"},
		{"value without type", Discount{Value: dec("40")}, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Price(twoLines(), tt.discount, TaxConfig{})
			require.NoError(t, err)
			assertDec(t, tt.want, c.DiscountAmount)
			assert.False(t, c.TaxableAmount.IsNegative())
			assert.False(t, c.GrandTotal.IsNegative())
		})
	}
}

func TestPrice_RejectsBadDiscount(t *testing.T) {
	_, err := Price(twoLines(), Discount{Type: enum.DiscountAmount, Value: dec("-5")}, TaxConfig{})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	_, err = Price(twoLines(), Discount{Type: "coupon", Value: dec("5")}, TaxConfig{})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestPrice_TaxExclusivity(t *testing.T) {
	c, err := Price(twoLines(), Discount{}, gst("2.5", "2.5", "5"))
	require.NoError(t, err)
	assertDec(t, "0", c.SGST)
	assertDec(t, "0", c.CGST)
	assertDec(t, "13", c.IGST)
	assertDec(t, "13", c.TaxAmount)
	assertDec(t, "5", c.IGSTRate)
	assertDec(t, "0", c.SGSTRate)

	c, err = Price(twoLines(), Discount{}, gst("9", "9", "0"))
	require.NoError(t, err)
	assertDec(t, "0", c.IGST)
	assert.True(t, c.TaxAmount.Equal(c.SGST.Add(c.CGST)))
	assertDec(t, "46.8", c.TaxAmount)
	assertDec(t, "307", c.GrandTotal)
}

func TestPrice_TaxDisabled(t *testing.T) {
	tax := gst("2.5", "2.5", "0")
	tax.Enabled = false
	c, err := Price(twoLines(), Discount{}, tax)
	require.NoError(t, err)
	assertDec(t, "0", c.TaxAmount)
	assertDec(t, "0", c.SGSTRate)
	assertDec(t, "260", c.GrandTotal)
	assert.False(t, c.TaxStatus)
}

func TestPrice_GrandTotalIdentity(t *testing.T) {
	prices := []string{"0.01", "19.99", "33.33", "45.5", "99.49", "120.75", "0"}
	rates := []string{"0", "2.5", "6", "9", "14"}

	for _, p := range prices {
		for _, r := range rates {
			items := []entity.OrderItem{{ProductID: uuid.New(), Quantity: 3, UnitPrice: dec(p)}}
			c, err := Price(items, Discount{Type: enum.DiscountPercentage, Value: dec("7.5")}, gst(r, r, "0"))
			require.NoError(t, err)

			exact := c.TotalAmount.Sub(c.DiscountAmount).Add(c.TaxAmount)
			assert.True(t, c.GrandTotal.Equal(exact.Round(0)), "price %s rate %s", p, r)
			assert.True(t, c.RoundOff.Equal(c.GrandTotal.Sub(exact)))
			assert.True(t, c.RoundOff.Abs().LessThanOrEqual(dec("0.5")), "round off %s", c.RoundOff)
		}
	}
}

func TestLineTotalAndSubtotal(t *testing.T) {
	items := twoLines()
	assertDec(t, "200", entity.LineTotal(items[0].UnitPrice, items[0].Quantity, items[0].Addons))
	assertDec(t, "60", entity.LineTotal(items[1].UnitPrice, items[1].Quantity, items[1].Addons))
	assertDec(t, "260", Subtotal(items))
}
