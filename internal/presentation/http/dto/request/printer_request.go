package request

// UpdatePrinterConfigRequest replaces the printer configuration. Kitchens
// maps kitchen station ids to endpoints.
type UpdatePrinterConfigRequest struct {
	Billing  string            `json:"billing"`
	Token    string            `json:"token"`
	Kitchens map[string]string `json:"kitchens"`
}

// TestPrintRequest selects the target for a test slip
type TestPrintRequest struct {
	Target string `json:"target" binding:"required"`
}

// PrintJobFilterRequest represents print job list parameters
type PrintJobFilterRequest struct {
	Status  string `form:"status"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}
