// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/repairparts-backend/internal/domain/cart"
	"github.com/your-org/repairparts-backend/internal/domain/checkout"
	"github.com/your-org/repairparts-backend/internal/domain/order"
	"github.com/your-org/repairparts-backend/internal/domain/payment"
	"github.com/your-org/repairparts-backend/internal/interfaces/http/middleware"
)

// IdempotencyHeader carries the checkout idempotency key
const IdempotencyHeader = "Idempotency-Key"

// CheckoutHandler handles checkout endpoints
type CheckoutHandler struct {
	checkoutService *checkout.Service
	cartService     *cart.Service
	ledger          *payment.RedisLedger
	supportEmail    string
	logger          *logrus.Logger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *checkout.Service, cartService *cart.Service, ledger *payment.RedisLedger, supportEmail string, logger *logrus.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		cartService:     cartService,
		ledger:          ledger,
		supportEmail:    supportEmail,
		logger:          logger,
	}
}

// CheckoutRequest is the body of POST /checkout
type CheckoutRequest struct {
	Customer        order.CustomerInfo `json:"customer"`
	ShippingAddress order.Address      `json:"shipping_address"`
}

// GetQuote handles GET /checkout/quote. Totals use the prices stored in the
// cart and are not authoritative.
func (h *CheckoutHandler) GetQuote(c *gin.Context) {
	sessionID := getOrCreateSessionID(c)

	current, err := h.cartService.Load(c.Request.Context(), sessionID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load cart for quote")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Quote calculated successfully",
		"data": gin.H{
			"totals":  h.checkoutService.Quote(current),
			"pricing": h.checkoutService.Pricing(),
		},
	})
}

// Checkout handles POST /checkout
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	sessionID := getOrCreateSessionID(c)

	key := c.GetHeader(IdempotencyHeader)
	if key == "" {
		key = uuid.NewString()
	}
	c.Header(IdempotencyHeader, key)

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	current, err := h.cartService.Load(ctx, sessionID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load cart for checkout")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve cart",
		})
		return
	}

	checkoutReq := &checkout.Request{
		IdempotencyKey: key,
		Cart:           current,
		Customer:       req.Customer,
		Shipping:       req.ShippingAddress,
	}
	if userID, ok := middleware.GetUserIDFromContext(c); ok {
		checkoutReq.UserID = &userID
	}

	result, err := h.checkoutService.Checkout(ctx, checkoutReq)
	if err != nil {
		h.checkoutError(c, result, err)
		return
	}

	// The service emptied the cart; saving an empty cart deletes the session key.
	if err := h.cartService.Save(context.WithoutCancel(ctx), sessionID, current); err != nil {
		h.logger.WithError(err).WithField("session_id", sessionID).Warn("Failed to clear cart after checkout")
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"data":    result,
	})
}

// ListPendingPayments handles GET /admin/payments/pending
func (h *CheckoutHandler) ListPendingPayments(c *gin.Context) {
	payments, err := h.ledger.List(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list pending payments")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list pending payments",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Pending payments retrieved successfully",
		"data":    payments,
	})
}

func (h *CheckoutHandler) checkoutError(c *gin.Context, result *checkout.Result, err error) {
	var (
		inputErr       *order.InputError
		validationErr  *checkout.ValidationError
		paymentErr     *checkout.PaymentError
		persistenceErr *checkout.PersistenceError
	)

	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
			"state": result.State,
		})
	case errors.As(err, &inputErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Missing required fields",
			"details": inputErr.Fields,
			"state":   result.State,
		})
	case errors.Is(err, payment.ErrCheckoutInProgress):
		c.JSON(http.StatusConflict, gin.H{
			"error": "A checkout with this key is already in progress",
		})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusConflict, gin.H{
			"error":       "Cart validation failed",
			"issues":      validationErr.Issues,
			"corrections": validationErr.Corrections,
			"state":       result.State,
		})
	case errors.Is(err, checkout.ErrInventoryUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Inventory is temporarily unavailable, please try again",
			"state": result.State,
		})
	case errors.As(err, &paymentErr):
		body := gin.H{
			"error":          "Payment failed",
			"payment_status": paymentErr.Status,
			"state":          result.State,
		}
		if paymentErr.Status == payment.StatusDeclined && paymentErr.Err != nil {
			body["details"] = paymentErr.Err.Error()
		}
		c.JSON(http.StatusPaymentRequired, body)
	case errors.As(err, &persistenceErr):
		c.JSON(http.StatusBadGateway, gin.H{
			"error":             "Your payment was received but we could not save your order. Retry with the same Idempotency-Key or contact support.",
			"payment_reference": persistenceErr.PaymentReference,
			"support_email":     h.supportEmail,
			"state":             result.State,
		})
	default:
		h.logger.WithError(err).Error("Checkout failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Checkout failed",
			"state": result.State,
		})
	}
}
