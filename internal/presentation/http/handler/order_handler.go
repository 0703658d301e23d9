package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/tablepos-api/internal/application/service"
	"github.com/sangkips/tablepos-api/internal/domain/enum"
	"github.com/sangkips/tablepos-api/internal/domain/repository"
	"github.com/sangkips/tablepos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/tablepos-api/internal/presentation/http/dto/response"
)

// OrderHandler handles order and bill HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Create handles an order submission. A Dine-in submission for a table
// with an open order is merged into it and answered with 200.
func (h *OrderHandler) Create(c *gin.Context) {
	var req request.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.orderService.CreateOrUpdateOrder(c.Request.Context(), &service.CreateOrderInput{
		UserID:      GetUserID(c),
		TableID:     req.TableID,
		OrderType:   enum.OrderType(req.OrderType),
		PaymentType: enum.PaymentType(req.PaymentType),
		Discount:    toDiscount(req.DiscountFields),
		Items:       toItemInputs(req.Items),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	if result.Merged {
		response.OK(c, "Items added to order", result)
		return
	}
	response.Created(c, "Order created successfully", result)
}

// Complete handles settling an open order
func (h *OrderHandler) Complete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req request.CompleteOrderRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body")
			return
		}
	}

	result, err := h.orderService.CompleteOrder(c.Request.Context(), &service.CompleteOrderInput{
		OrderID:     id,
		UserID:      GetUserID(c),
		PaymentType: enum.PaymentType(req.PaymentType),
		Discount:    toDiscount(req.DiscountFields),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order completed successfully", result)
}

// UpdateBill handles correcting a settled bill
func (h *OrderHandler) UpdateBill(c *gin.Context) {
	var req request.UpdateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	billNumber, ok := parseBillNumber(c.Param("id"))
	if req.BillNumber != nil {
		billNumber, ok = *req.BillNumber, *req.BillNumber > 0
	}
	if !ok {
		response.BadRequest(c, "Invalid bill number")
		return
	}

	bill, err := h.orderService.EditSettledBill(c.Request.Context(), &service.EditBillInput{
		BillNumber:  billNumber,
		UserID:      GetUserID(c),
		Items:       toItemInputs(req.Items),
		PaymentType: enum.PaymentType(req.PaymentType),
		Discount:    toDiscount(req.DiscountFields),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill updated successfully", gin.H{"bill": bill})
}

// Delete handles soft deleting a bill
func (h *OrderHandler) Delete(c *gin.Context) {
	billNumber, ok := parseBillNumber(c.Param("id"))
	if !ok {
		response.BadRequest(c, "Invalid bill number")
		return
	}

	if err := h.orderService.SoftDeleteBill(c.Request.Context(), billNumber, GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill deleted successfully", gin.H{"billNumber": billNumber})
}

// Get handles getting a single bill with its order
func (h *OrderHandler) Get(c *gin.Context) {
	billNumber, ok := parseBillNumber(c.Param("id"))
	if !ok {
		response.BadRequest(c, "Invalid bill number")
		return
	}

	bill, err := h.orderService.GetBill(c.Request.Context(), billNumber)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill retrieved successfully", bill)
}

// List handles listing bills, newest first
func (h *OrderHandler) List(c *gin.Context) {
	var req request.BillFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.orderService.ListBills(c.Request.Context(), &repository.BillFilterParams{
		Pagination: pageParams(req.Page, req.PerPage),
		EditedOnly: req.EditedOnly,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Bills retrieved successfully", result)
}

// History handles listing the edit history of a bill
func (h *OrderHandler) History(c *gin.Context) {
	billNumber, ok := parseBillNumber(c.Param("id"))
	if !ok {
		response.BadRequest(c, "Invalid bill number")
		return
	}

	history, err := h.orderService.ListHistory(c.Request.Context(), billNumber)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill history retrieved successfully", history)
}

// PrintKOT handles sending kitchen tickets for an order
func (h *OrderHandler) PrintKOT(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	content, err := h.orderService.PrintKitchenTickets(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Kitchen tickets sent", gin.H{"printContent": content})
}
