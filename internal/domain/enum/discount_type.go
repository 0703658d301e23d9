package enum

import "strings"

type DiscountType string

const (
	DiscountNone       DiscountType = ""
	DiscountPercentage DiscountType = "percentage"
	DiscountAmount     DiscountType = "amount"
)

// ParseDiscountType reads a client value. "none" clears the discount.
func ParseDiscountType(s string) DiscountType {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "none" {
		return DiscountNone
	}
	return DiscountType(v)
}

func (d DiscountType) IsValid() bool {
	switch d {
	case DiscountNone, DiscountPercentage, DiscountAmount:
		return true
	}
	return false
}
