// cmd/api/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/your-org/repairparts-backend/internal/config"
	"github.com/your-org/repairparts-backend/internal/domain/cart"
	"github.com/your-org/repairparts-backend/internal/domain/checkout"
	"github.com/your-org/repairparts-backend/internal/domain/inventory"
	"github.com/your-org/repairparts-backend/internal/domain/order"
	"github.com/your-org/repairparts-backend/internal/domain/payment"
	"github.com/your-org/repairparts-backend/internal/infrastructure/database/postgres"
	"github.com/your-org/repairparts-backend/internal/infrastructure/database/redis"
	"github.com/your-org/repairparts-backend/internal/interfaces/http"
	"github.com/your-org/repairparts-backend/internal/interfaces/http/routes"
	"github.com/your-org/repairparts-backend/internal/pkg/email"
	"github.com/your-org/repairparts-backend/internal/pkg/logger"
	"github.com/your-org/repairparts-backend/internal/pkg/pdf"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.New(cfg.Logging)
	appLogger.Infof("🚀 Starting %s v%s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Environment)

	// Connect to database
	db, err := postgres.NewConnection(cfg, appLogger)
	if err != nil {
		appLogger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Connect to Redis
	redisClient, err := redis.NewConnection(cfg, appLogger)
	if err != nil {
		appLogger.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	if err := db.Health(); err != nil {
		appLogger.Fatalf("Database health check failed: %v", err)
	}
	if err := redisClient.Health(context.Background()); err != nil {
		appLogger.Fatalf("Redis health check failed: %v", err)
	}

	// Run database migrations
	migration := postgres.NewMigration(db.GetDB(), appLogger)
	if err := migration.Run(); err != nil {
		appLogger.Fatalf("Database migration failed: %v", err)
	}

	if cfg.IsDevelopment() {
		if err := migration.SeedCatalog(); err != nil {
			appLogger.Warnf("Catalog seeding failed: %v", err)
		}
		if err := migration.GetTableInfo(); err != nil {
			appLogger.Warnf("Failed to read table info: %v", err)
		}
	}

	// Inventory oracle
	inventoryRepo := inventory.NewRepository(db.GetDB(), appLogger)
	var oracle inventory.Oracle = inventoryRepo
	if cfg.Checkout.UseMemoryInventory {
		memory := inventory.NewMemoryOracle()
		for _, product := range postgres.DevelopmentCatalog() {
			memory.Put(product)
		}
		oracle = memory
		inventoryRepo = nil
		appLogger.Warn("⚠️ Using in-memory inventory, stock changes are not persisted")
	}

	// Checkout pipeline
	orderStore := order.NewRepository(db.GetDB())
	ledger := payment.NewRedisLedger(redisClient.GetClient(), cfg.Checkout.PendingPaymentTTL)
	emailService := email.NewEmailService(cfg, email.NewSMTPSender(cfg.External.Email), appLogger)
	cartService := cart.NewService(redisClient.GetClient(), oracle, cfg.Checkout.SessionCartTTL)

	checkoutService := checkout.NewService(checkout.Dependencies{
		Validator: checkout.NewValidator(oracle, cfg.Checkout.InventoryTimeout),
		Writer:    order.NewWriter(orderStore, oracle, cfg.Checkout.InventoryTimeout, appLogger),
		Gateway:   payment.NewHTTPGateway(cfg.External.Payment, appLogger),
		Ledger:    ledger,
		Notifier:  emailService,
		Reporter:  emailService,
	}, cfg.Checkout, appLogger)

	services := routes.Services{
		Cart:      cartService,
		Checkout:  checkoutService,
		Orders:    order.NewService(orderStore, appLogger),
		Inventory: inventoryRepo,
		Ledger:    ledger,
		PDF:       pdf.NewService(cfg),
	}

	appLogger.Info("✅ All systems operational!")

	server := http.NewServer(cfg, db.GetDB(), redisClient.GetClient(), services, appLogger)

	go func() {
		if err := server.Start(); err != nil {
			appLogger.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("👋 Shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		appLogger.Errorf("Failed to shutdown HTTP server gracefully: %v", err)
	}

	appLogger.Info("✅ Server shutdown completed")
}
