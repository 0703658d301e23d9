package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/tablepos-api/internal/application/service"
	"github.com/sangkips/tablepos-api/internal/domain/entity"
	"github.com/sangkips/tablepos-api/internal/domain/enum"
	"github.com/sangkips/tablepos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/tablepos-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

func pageParams(page, perPage int) *pagination.PaginationParams {
	params := &pagination.PaginationParams{Page: page, PerPage: perPage}
	params.Validate()
	return params
}

func parseBillNumber(s string) (int64, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	return n, err == nil && n > 0
}

func toItemInputs(items []request.OrderItemRequest) []service.ItemInput {
	out := make([]service.ItemInput, len(items))
	for i, item := range items {
		addons := make([]entity.Addon, len(item.Addons))
		for j, a := range item.Addons {
			addons[j] = entity.Addon{Name: a.Name, Qty: a.Qty, Price: a.Price}
		}
		out[i] = service.ItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Addons:    addons,
		}
	}
	return out
}

// toDiscount returns nil when the request carries no discount at all, so
// the existing discount of an order or bill is kept.
func toDiscount(d request.DiscountFields) *service.Discount {
	if d.DiscountType == "" && d.DiscountValue == nil {
		return nil
	}
	value := decimal.Zero
	if d.DiscountValue != nil {
		value = *d.DiscountValue
	}
	return &service.Discount{Type: enum.ParseDiscountType(d.DiscountType), Value: value}
}
