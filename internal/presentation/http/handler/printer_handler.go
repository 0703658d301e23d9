package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/tablepos-api/internal/application/service"
	"github.com/sangkips/tablepos-api/internal/domain/enum"
	"github.com/sangkips/tablepos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/tablepos-api/internal/presentation/http/dto/response"
)

// PrinterHandler handles printer-related HTTP requests.
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler.
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// GetConfig returns the printer configuration.
func (h *PrinterHandler) GetConfig(c *gin.Context) {
	cfg, err := h.printerService.GetConfig(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Printer configuration retrieved", cfg)
}

// UpdateConfig replaces the printer configuration.
func (h *PrinterHandler) UpdateConfig(c *gin.Context) {
	var req request.UpdatePrinterConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	cfg, err := h.printerService.UpdateConfig(c.Request.Context(), &service.UpdateConfigInput{
		Billing:  req.Billing,
		Token:    req.Token,
		Kitchens: req.Kitchens,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Printer configuration saved", cfg)
}

// GetStatus checks every configured printer.
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	status, err := h.printerService.GetStatus(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Printer status retrieved", status)
}

// TestPrint sends a test slip to one target. A failed print is reported
// on the job, not as an error.
func (h *PrinterHandler) TestPrint(c *gin.Context) {
	var req request.TestPrintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: target is required")
		return
	}

	job, err := h.printerService.TestPrint(c.Request.Context(), req.Target)
	if err != nil {
		response.Error(c, err)
		return
	}

	if job.Status != enum.PrintJobPrinted {
		response.OK(c, "Test print failed", job)
		return
	}
	response.OK(c, "Test page sent to printer", job)
}

// ListJobs lists print jobs, optionally by status.
func (h *PrinterHandler) ListJobs(c *gin.Context) {
	var req request.PrintJobFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	status := enum.PrintJobStatus(req.Status)
	if status != "" && !status.IsValid() {
		response.BadRequest(c, "Invalid print job status")
		return
	}

	result, err := h.printerService.ListJobs(c.Request.Context(), status, pageParams(req.Page, req.PerPage))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, "Print jobs retrieved", result)
}

// RetryJob sends a failed or skipped print job again.
func (h *PrinterHandler) RetryJob(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid print job ID")
		return
	}

	job, err := h.printerService.RetryJob(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Print job retried", job)
}
