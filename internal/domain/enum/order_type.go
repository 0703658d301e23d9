package enum

// OrderType is how the guest is served.
type OrderType string

const (
	OrderTypeDineIn   OrderType = "Dine-in"
	OrderTypeTakeaway OrderType = "Takeaway"
	// OrderTypeBill is direct walk-in billing without a table.
	OrderTypeBill OrderType = "Bill"
)

func (t OrderType) IsValid() bool {
	switch t {
	case OrderTypeDineIn, OrderTypeTakeaway, OrderTypeBill:
		return true
	}
	return false
}

// CompletesImmediately reports whether an order of this type is settled on creation.
func (t OrderType) CompletesImmediately() bool {
	return t == OrderTypeTakeaway || t == OrderTypeBill
}
