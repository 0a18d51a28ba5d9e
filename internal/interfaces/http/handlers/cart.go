// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/repairparts-backend/internal/domain/cart"
)

// SessionHeader identifies the browser session that owns a cart
const SessionHeader = "X-Session-ID"

// CartHandler handles cart endpoints
type CartHandler struct {
	cartService *cart.Service
	logger      *logrus.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *cart.Service, logger *logrus.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		logger:      logger,
	}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	sessionID := getOrCreateSessionID(c)

	current, err := h.cartService.Load(c.Request.Context(), sessionID)
	if err != nil {
		h.logger.WithError(err).WithField("session_id", sessionID).Error("Failed to load cart")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    cart.NewCartResponse(sessionID, current),
	})
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	sessionID := getOrCreateSessionID(c)

	var req cart.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	updated, err := h.cartService.AddToCart(c.Request.Context(), sessionID, &req)
	if err != nil {
		h.cartError(c, sessionID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"data":    cart.NewCartResponse(sessionID, updated),
	})
}

// UpdateCartItem handles PUT /cart/items/:productId
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	sessionID := getOrCreateSessionID(c)

	var req cart.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	updated, err := h.cartService.UpdateCartItem(c.Request.Context(), sessionID, c.Param("productId"), &req)
	if err != nil {
		h.cartError(c, sessionID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
		"data":    cart.NewCartResponse(sessionID, updated),
	})
}

// RemoveFromCart handles DELETE /cart/items/:productId
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	sessionID := getOrCreateSessionID(c)

	updated, err := h.cartService.RemoveFromCart(c.Request.Context(), sessionID, c.Param("productId"))
	if err != nil {
		h.cartError(c, sessionID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart successfully",
		"data":    cart.NewCartResponse(sessionID, updated),
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	sessionID := getOrCreateSessionID(c)

	if err := h.cartService.ClearCart(c.Request.Context(), sessionID); err != nil {
		h.cartError(c, sessionID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
		"data":    cart.NewCartResponse(sessionID, cart.New()),
	})
}

func (h *CartHandler) cartError(c *gin.Context, sessionID string, err error) {
	switch {
	case errors.Is(err, cart.ErrProductUnavailable):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, cart.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.logger.WithError(err).WithField("session_id", sessionID).Error("Cart operation failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update cart",
		})
	}
}

// getOrCreateSessionID reads the session header, issuing a new id when absent
func getOrCreateSessionID(c *gin.Context) string {
	sessionID := c.GetHeader(SessionHeader)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	c.Header(SessionHeader, sessionID)
	return sessionID
}
