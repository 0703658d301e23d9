package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/tablepos-api/internal/application/service"
	"github.com/sangkips/tablepos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/tablepos-api/internal/presentation/http/dto/response"
)

// SettingsHandler handles store settings HTTP requests
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetSettings retrieves the store settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.Snapshot(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings retrieved successfully", settings)
}

// UpdateSettings replaces the store settings
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req request.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	settings, err := h.settingsService.UpdateSettings(c.Request.Context(), &service.UpdateSettingsInput{
		StoreName:      req.StoreName,
		Logo:           req.Logo,
		StoreAddress:   req.StoreAddress,
		StoreContact:   req.StoreContact,
		GSTAvailable:   req.GSTAvailable,
		GSTNumber:      req.GSTNumber,
		FSSAIAvailable: req.FSSAIAvailable,
		FSSAINumber:    req.FSSAINumber,
		StockUpdate:    req.StockUpdate,
		TaxStatus:      req.TaxStatus,
		SGST:           req.SGST,
		CGST:           req.CGST,
		IGST:           req.IGST,
		AutoPrintBill:  req.AutoPrintBill,
		AutoPrintKOT:   req.AutoPrintKOT,
		AutoPrintToken: req.AutoPrintToken,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings updated successfully", settings)
}
