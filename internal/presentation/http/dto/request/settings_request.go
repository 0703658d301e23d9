package request

import "github.com/shopspring/decimal"

// UpdateSettingsRequest replaces the store settings
type UpdateSettingsRequest struct {
	StoreName      string          `json:"storeName" binding:"required,max=255"`
	Logo           string          `json:"logo" binding:"max=255"`
	StoreAddress   string          `json:"storeAddress" binding:"max=500"`
	StoreContact   string          `json:"storeContact" binding:"max=100"`
	GSTAvailable   bool            `json:"gstAvailable"`
	GSTNumber      string          `json:"gstNumber" binding:"max=50"`
	FSSAIAvailable bool            `json:"fssaiAvailable"`
	FSSAINumber    string          `json:"fssaiNumber" binding:"max=50"`
	StockUpdate    bool            `json:"stockUpdate"`
	TaxStatus      bool            `json:"taxStatus"`
	SGST           decimal.Decimal `json:"sgst"`
	CGST           decimal.Decimal `json:"cgst"`
	IGST           decimal.Decimal `json:"igst"`
	AutoPrintBill  bool            `json:"autoPrintBill"`
	AutoPrintKOT   bool            `json:"autoPrintKot"`
	AutoPrintToken bool            `json:"autoPrintToken"`
}
