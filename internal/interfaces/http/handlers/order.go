// internal/interfaces/http/handlers/order.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/repairparts-backend/internal/domain/order"
	"github.com/your-org/repairparts-backend/internal/interfaces/http/middleware"
)

// OrderHandler handles order endpoints
type OrderHandler struct {
	orderService *order.Service
	logger       *logrus.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *order.Service, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// GetOrder handles GET /orders/:number
func (h *OrderHandler) GetOrder(c *gin.Context) {
	o, ok := loadAuthorizedOrder(c, h.orderService, h.logger)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order retrieved successfully",
		"data":    o,
	})
}

// UpdateOrderStatus handles PATCH /admin/orders/:number/status
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	var req order.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	o, err := h.orderService.UpdateOrderStatus(c.Request.Context(), c.Param("number"), &req)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		case errors.Is(err, order.ErrInvalidStatusChange):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			h.logger.WithError(err).Error("Failed to update order status")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated successfully",
		"data":    o,
	})
}

// loadAuthorizedOrder fetches the order named in the path and checks the
// caller may see it. Account orders need the owner or an admin; guest orders
// need the customer email as the "email" query parameter.
func loadAuthorizedOrder(c *gin.Context, orderService *order.Service, logger *logrus.Logger) (*order.Order, bool) {
	o, err := orderService.GetOrderByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return nil, false
		}
		logger.WithError(err).Error("Failed to retrieve order")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve order"})
		return nil, false
	}

	if middleware.IsAdminFromContext(c) {
		return o, true
	}

	if o.UserID != nil {
		userID, ok := middleware.GetUserIDFromContext(c)
		if ok && userID == *o.UserID {
			return o, true
		}
	} else if email := c.Query("email"); email != "" && strings.EqualFold(email, o.Customer.Email) {
		return o, true
	}

	// Same response as a missing order so order numbers cannot be enumerated
	c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
	return nil, false
}
