package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/repairparts-backend/internal/config"
	"github.com/your-org/repairparts-backend/internal/domain/order"
	"github.com/your-org/repairparts-backend/internal/pkg/email"
	"github.com/your-org/repairparts-backend/internal/pkg/logger"
)

// Sends a sample order confirmation through the configured SMTP server.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run ./cmd/mailcheck <recipient>")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg.External.Email.Enabled = true

	appLogger := logger.New(cfg.Logging)
	emailService := email.NewEmailService(cfg, email.NewSMTPSender(cfg.External.Email), appLogger)

	sample := &order.Order{
		OrderNumber:    order.FormatOrderNumber(time.Now(), 0),
		Status:         order.OrderStatusProcessing,
		SubtotalAmount: decimal.RequireFromString("29.50"),
		TaxAmount:      decimal.RequireFromString("2.36"),
		ShippingAmount: decimal.RequireFromString("9.99"),
		TotalAmount:    decimal.RequireFromString("41.85"),
		Currency:       cfg.Checkout.Currency,
		Customer:       order.CustomerInfo{Name: "Mail Check", Email: os.Args[1]},
		ShippingAddress: order.Address{
			Line1:      "1 Test Street",
			City:       "Springfield",
			PostalCode: "62701",
			Country:    "US",
		},
		Items: []order.OrderItem{
			{ProductID: "bat-ip12", Quantity: 1, UnitPrice: decimal.RequireFromString("29.50"), TotalPrice: decimal.RequireFromString("29.50")},
		},
		CreatedAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := emailService.OrderConfirmed(ctx, sample); err != nil {
		log.Fatal("Send failed:", err)
	}

	log.Println("✅ Email sent successfully!")
}
