// internal/interfaces/http/handlers/invoice.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/repairparts-backend/internal/domain/order"
	"github.com/your-org/repairparts-backend/internal/pkg/pdf"
)

// InvoiceHandler handles invoice-related endpoints
type InvoiceHandler struct {
	orderService *order.Service
	pdfService   *pdf.Service
	logger       *logrus.Logger
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(orderService *order.Service, pdfService *pdf.Service, logger *logrus.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		orderService: orderService,
		pdfService:   pdfService,
		logger:       logger,
	}
}

// GenerateInvoice handles GET /orders/:number/invoice
func (h *InvoiceHandler) GenerateInvoice(c *gin.Context) {
	o, ok := loadAuthorizedOrder(c, h.orderService, h.logger)
	if !ok {
		return
	}

	pdfBuffer, err := h.pdfService.GenerateInvoice(o)
	if err != nil {
		h.logger.WithError(err).WithField("order_number", o.OrderNumber).Error("Failed to generate invoice")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate invoice",
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice-%s.pdf", o.OrderNumber))
	c.Data(http.StatusOK, "application/pdf", pdfBuffer.Bytes())
}

// GetInvoiceData handles GET /orders/:number/invoice/data (for frontend preview)
func (h *InvoiceHandler) GetInvoiceData(c *gin.Context) {
	o, ok := loadAuthorizedOrder(c, h.orderService, h.logger)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Invoice data retrieved successfully",
		"data":    h.pdfService.NewInvoiceData(o),
	})
}
