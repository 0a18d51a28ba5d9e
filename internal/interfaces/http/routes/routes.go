// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/repairparts-backend/internal/config"
	"github.com/your-org/repairparts-backend/internal/domain/cart"
	"github.com/your-org/repairparts-backend/internal/domain/checkout"
	"github.com/your-org/repairparts-backend/internal/domain/inventory"
	"github.com/your-org/repairparts-backend/internal/domain/order"
	"github.com/your-org/repairparts-backend/internal/domain/payment"
	"github.com/your-org/repairparts-backend/internal/interfaces/http/handlers"
	"github.com/your-org/repairparts-backend/internal/interfaces/http/middleware"
	"github.com/your-org/repairparts-backend/internal/pkg/pdf"
)

// Services are the domain services the routes expose
type Services struct {
	Cart      *cart.Service
	Checkout  *checkout.Service
	Orders    *order.Service
	Inventory *inventory.Repository
	Ledger    *payment.RedisLedger
	PDF       *pdf.Service
}

// SetupCartRoutes sets up session cart routes
func SetupCartRoutes(rg *gin.RouterGroup, svc Services, logger *logrus.Logger) {
	cartHandler := handlers.NewCartHandler(svc.Cart, logger)

	carts := rg.Group("/cart")
	{
		carts.GET("", cartHandler.GetCart)
		carts.DELETE("", cartHandler.ClearCart)
		carts.POST("/items", cartHandler.AddToCart)
		carts.PUT("/items/:productId", cartHandler.UpdateCartItem)
		carts.DELETE("/items/:productId", cartHandler.RemoveFromCart)
	}
}

// SetupCheckoutRoutes sets up checkout routes
func SetupCheckoutRoutes(rg *gin.RouterGroup, svc Services, cfg *config.Config, logger *logrus.Logger) {
	checkoutHandler := handlers.NewCheckoutHandler(svc.Checkout, svc.Cart, svc.Ledger, cfg.Checkout.SupportEmail, logger)

	checkouts := rg.Group("/checkout")
	checkouts.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		checkouts.GET("/quote", checkoutHandler.GetQuote)
		checkouts.POST("", checkoutHandler.Checkout)
	}

	admin := rg.Group("/admin/payments")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.AdminMiddleware())
	{
		admin.GET("/pending", checkoutHandler.ListPendingPayments)
	}
}

// SetupOrderRoutes sets up order routes
func SetupOrderRoutes(rg *gin.RouterGroup, svc Services, cfg *config.Config, logger *logrus.Logger) {
	orderHandler := handlers.NewOrderHandler(svc.Orders, logger)
	invoiceHandler := handlers.NewInvoiceHandler(svc.Orders, svc.PDF, logger)

	orders := rg.Group("/orders")
	orders.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		orders.GET("/:number", orderHandler.GetOrder)
		orders.GET("/:number/invoice", invoiceHandler.GenerateInvoice)
		orders.GET("/:number/invoice/data", invoiceHandler.GetInvoiceData)
	}

	admin := rg.Group("/admin/orders")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.AdminMiddleware())
	{
		admin.PATCH("/:number/status", orderHandler.UpdateOrderStatus)
	}
}

// SetupInventoryRoutes sets up product and stock routes
func SetupInventoryRoutes(rg *gin.RouterGroup, svc Services, cfg *config.Config, logger *logrus.Logger) {
	inventoryHandler := handlers.NewInventoryHandler(svc.Inventory, logger)

	rg.GET("/products/:id", inventoryHandler.GetProduct)

	admin := rg.Group("/admin/products")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.AdminMiddleware())
	{
		admin.PUT("", inventoryHandler.UpsertProduct)
		admin.POST("/:id/restock", inventoryHandler.Restock)
		admin.GET("/:id/movements", inventoryHandler.GetMovements)
	}
}

// SetupRoutes sets up all API routes
func SetupRoutes(rg *gin.RouterGroup, svc Services, cfg *config.Config, logger *logrus.Logger) {
	SetupCartRoutes(rg, svc, logger)
	SetupCheckoutRoutes(rg, svc, cfg, logger)
	SetupOrderRoutes(rg, svc, cfg, logger)
	if svc.Inventory != nil {
		SetupInventoryRoutes(rg, svc, cfg, logger)
	}
}
