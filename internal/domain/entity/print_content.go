package entity

// KitchenTicket is the rendered ticket for one kitchen station.
type KitchenTicket struct {
	StationID   string `json:"stationId"`
	StationName string `json:"stationName"`
	Content     string `json:"content"`
}

// PrintContent is everything rendered for an order event. It is returned to
// the client whether or not any printer accepted it.
type PrintContent struct {
	KOT     []KitchenTicket `json:"kot,omitempty"`
	Token   string          `json:"token,omitempty"`
	Receipt string          `json:"receipt,omitempty"`
	// Warnings carries advisory print dispatch failures.
	Warnings []string `json:"warnings,omitempty"`
}
