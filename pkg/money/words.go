// Package money holds currency helpers shared by pricing and receipt rendering.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

var ones = [...]string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tens = [...]string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

var hundred = decimal.NewFromInt(100)

// InWords renders an amount in English words using the Indian numbering
// system (thousand, lakh, crore). A fractional part is rendered as a paise
// clause, e.g. 99.50 becomes "Ninety Nine and Fifty Paise".
func InWords(amount decimal.Decimal) string {
	prefix := ""
	if amount.IsNegative() {
		prefix = "Minus "
		amount = amount.Neg()
	}

	rupees := amount.Truncate(0)
	paise := amount.Sub(rupees).Mul(hundred).Round(0).IntPart()
	whole := rupees.IntPart()
	if paise >= 100 {
		whole++
		paise -= 100
	}

	words := IntegerInWords(whole)
	if paise > 0 {
		words += " and " + IntegerInWords(paise) + " Paise"
	}
	return prefix + words
}

// IntegerInWords renders a non-negative integer. Zero is "Zero".
func IntegerInWords(n int64) string {
	if n <= 0 {
		return "Zero"
	}
	return strings.Join(groups(n), " ")
}

func groups(n int64) []string {
	var parts []string

	if n >= 10000000 {
		parts = append(parts, groups(n/10000000)...)
		parts = append(parts, "Crore")
		n %= 10000000
	}
	if n >= 100000 {
		parts = append(parts, belowHundred(n/100000), "Lakh")
		n %= 100000
	}
	if n >= 1000 {
		parts = append(parts, belowHundred(n/1000), "Thousand")
		n %= 1000
	}
	if n >= 100 {
		parts = append(parts, ones[n/100], "Hundred")
		n %= 100
	}
	if n > 0 {
		parts = append(parts, belowHundred(n))
	}
	return parts
}

func belowHundred(n int64) string {
	if n < 20 {
		return ones[n]
	}
	if n%10 == 0 {
		return tens[n/10]
	}
	return tens[n/10] + " " + ones[n%10]
}
