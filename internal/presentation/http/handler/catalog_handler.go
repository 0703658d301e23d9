package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/tablepos-api/internal/application/service"
	"github.com/sangkips/tablepos-api/internal/domain/repository"
	"github.com/sangkips/tablepos-api/internal/presentation/http/dto/response"
)

// CatalogHandler serves the menu, kitchens and tables
type CatalogHandler struct {
	catalogService *service.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListProducts handles listing menu items
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "50"))

	params := &repository.ProductFilterParams{
		Pagination: pageParams(page, perPage),
		Search:     c.Query("search"),
		ActiveOnly: c.Query("active") == "true",
	}
	if kitchenIDStr := c.Query("kitchen_id"); kitchenIDStr != "" {
		kitchenID, err := uuid.Parse(kitchenIDStr)
		if err != nil {
			response.BadRequest(c, "Invalid kitchen ID")
			return
		}
		params.KitchenID = &kitchenID
	}

	result, err := h.catalogService.ListProducts(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Products retrieved successfully", result)
}

// ListKitchens handles listing kitchen stations
func (h *CatalogHandler) ListKitchens(c *gin.Context) {
	kitchens, err := h.catalogService.ListKitchens(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Kitchens retrieved successfully", kitchens)
}

// ListTables handles listing dining tables
func (h *CatalogHandler) ListTables(c *gin.Context) {
	tables, err := h.catalogService.ListTables(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Tables retrieved successfully", tables)
}
