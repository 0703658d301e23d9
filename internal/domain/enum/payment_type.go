package enum

// PaymentType is recorded on the bill, never processed.
type PaymentType string

const (
	PaymentCash   PaymentType = "Cash"
	PaymentUPI    PaymentType = "UPI"
	PaymentCard   PaymentType = "Card"
	PaymentSwiggy PaymentType = "Swiggy"
	PaymentZomato PaymentType = "Zomato"
	PaymentOther  PaymentType = "Other"
)

func (p PaymentType) IsValid() bool {
	switch p {
	case PaymentCash, PaymentUPI, PaymentCard, PaymentSwiggy, PaymentZomato, PaymentOther:
		return true
	}
	return false
}

// CollectedAtCounter reports whether the receipt carries a payment received line.
func (p PaymentType) CollectedAtCounter() bool {
	return p == PaymentCash || p == PaymentCard
}
