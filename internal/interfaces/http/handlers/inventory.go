// internal/interfaces/http/handlers/inventory.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/repairparts-backend/internal/domain/inventory"
)

// InventoryHandler handles product and stock endpoints
type InventoryHandler struct {
	repo   *inventory.Repository
	logger *logrus.Logger
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(repo *inventory.Repository, logger *logrus.Logger) *InventoryHandler {
	return &InventoryHandler{
		repo:   repo,
		logger: logger,
	}
}

// GetProduct handles GET /products/:id
func (h *InventoryHandler) GetProduct(c *gin.Context) {
	product, err := h.repo.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.productError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product retrieved successfully",
		"data":    product,
	})
}

// UpsertProduct handles PUT /admin/products
func (h *InventoryHandler) UpsertProduct(c *gin.Context) {
	var req inventory.UpsertProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid price",
			"details": req.Price,
		})
		return
	}

	product := &inventory.Product{
		ID:            req.ID,
		SKU:           req.SKU,
		Name:          req.Name,
		Price:         price.Round(2),
		StockQuantity: req.StockQuantity,
		IsActive:      req.IsActive,
		ImageURL:      req.ImageURL,
	}
	if err := h.repo.Upsert(c.Request.Context(), product); err != nil {
		h.productError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product saved successfully",
		"data":    product,
	})
}

// Restock handles POST /admin/products/:id/restock
func (h *InventoryHandler) Restock(c *gin.Context) {
	var req struct {
		Quantity int `json:"quantity" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	productID := c.Param("id")
	if err := h.repo.Restock(c.Request.Context(), productID, req.Quantity); err != nil {
		h.productError(c, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"product_id": productID,
		"quantity":   req.Quantity,
	}).Info("📦 Product restocked")

	c.JSON(http.StatusOK, gin.H{
		"message": "Product restocked successfully",
	})
}

// GetMovements handles GET /admin/products/:id/movements
func (h *InventoryHandler) GetMovements(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	movements, err := h.repo.GetMovements(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		h.productError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stock movements retrieved successfully",
		"data":    movements,
	})
}

func (h *InventoryHandler) productError(c *gin.Context, err error) {
	if errors.Is(err, inventory.ErrProductNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	h.logger.WithError(err).Error("Inventory operation failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Inventory operation failed"})
}
