package email

import (
	"context"
	"errors"
	"io"
	"net/smtp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/repairparts-backend/internal/config"
	"github.com/your-org/repairparts-backend/internal/domain/checkout"
	"github.com/your-org/repairparts-backend/internal/domain/order"
)

type recordingSender struct {
	sent []*Email
	err  error
}

func (r *recordingSender) Send(_ context.Context, email *Email) error {
	r.sent = append(r.sent, email)
	return r.err
}

func testConfig(enabled bool) *config.Config {
	return &config.Config{
		App:      config.AppConfig{CompanyName: "Fixit Parts"},
		Checkout: config.CheckoutConfig{SupportEmail: "support@fixit.test"},
		External: config.ExternalConfig{Email: config.EmailConfig{Enabled: enabled, FromEmail: "orders@fixit.test"}},
	}
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func sampleOrder() *order.Order {
	return &order.Order{
		OrderNumber:    "ORD-20250101-000042",
		Currency:       "USD",
		SubtotalAmount: decimal.RequireFromString("100"),
		TaxAmount:      decimal.RequireFromString("8"),
		ShippingAmount: decimal.Zero,
		TotalAmount:    decimal.RequireFromString("108"),
		Customer:       order.CustomerInfo{Name: "Ada", Email: "ada@example.com"},
		ShippingAddress: order.Address{
			Line1: "1 Main St", City: "Springfield", PostalCode: "62701", Country: "US",
		},
		Items: []order.OrderItem{{
			ProductID: "scr-ip13", Quantity: 2,
			UnitPrice: decimal.RequireFromString("50"), TotalPrice: decimal.RequireFromString("100"),
		}},
		CreatedAt: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestOrderConfirmed(t *testing.T) {
	sender := &recordingSender{}
	svc := NewEmailService(testConfig(true), sender, quietLogger())

	require.NoError(t, svc.OrderConfirmed(context.Background(), sampleOrder()))

	require.Len(t, sender.sent, 1)
	sent := sender.sent[0]
	assert.Equal(t, []string{"ada@example.com"}, sent.To)
	assert.Equal(t, EmailTypeOrderConfirmation, sent.Type)
	assert.Contains(t, sent.Subject, "ORD-20250101-000042")
	assert.Contains(t, sent.HTMLContent, "108.00 USD")
	assert.Contains(t, sent.HTMLContent, "scr-ip13")
	assert.Contains(t, sent.HTMLContent, "support@fixit.test")
}

func TestOrderConfirmed_Disabled(t *testing.T) {
	sender := &recordingSender{}
	svc := NewEmailService(testConfig(false), sender, quietLogger())

	require.NoError(t, svc.OrderConfirmed(context.Background(), sampleOrder()))
	assert.Empty(t, sender.sent)
}

func TestPersistenceFailed(t *testing.T) {
	sender := &recordingSender{}
	svc := NewEmailService(testConfig(true), sender, quietLogger())

	err := svc.PersistenceFailed(context.Background(), checkout.Incident{
		CheckoutKey:      "key-1",
		PaymentReference: "ch_123",
		Amount:           decimal.RequireFromString("108"),
		Currency:         "USD",
		Customer:         order.CustomerInfo{Name: "Ada", Email: "ada@example.com"},
		Err:              errors.New("connection reset"),
		OccurredAt:       time.Now(),
	})
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, []string{"support@fixit.test"}, sender.sent[0].To)
	assert.Contains(t, sender.sent[0].Subject, "ch_123")
	assert.Contains(t, sender.sent[0].HTMLContent, "connection reset")
	assert.Contains(t, sender.sent[0].HTMLContent, "108.00 USD")
}

func TestPersistenceFailed_NoSupportEmail(t *testing.T) {
	cfg := testConfig(true)
	cfg.Checkout.SupportEmail = ""
	svc := NewEmailService(cfg, &recordingSender{}, quietLogger())

	err := svc.PersistenceFailed(context.Background(), checkout.Incident{PaymentReference: "ch_1"})
	assert.ErrorContains(t, err, "ch_1")
}

func TestSMTPSender_Send(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte

	sender := NewSMTPSender(config.EmailConfig{
		FromEmail: "orders@fixit.test",
		FromName:  "Fixit Parts",
		SMTPHost:  "smtp.fixit.test",
		SMTPPort:  2525,
	})
	sender.sendMail = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	err := sender.Send(context.Background(), &Email{To: []string{"ada@example.com"}, Subject: "Hi", HTMLContent: "<p>hi</p>"})
	require.NoError(t, err)

	assert.Equal(t, "smtp.fixit.test:2525", gotAddr)
	assert.Equal(t, "orders@fixit.test", gotFrom)
	assert.Equal(t, []string{"ada@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "From: Fixit Parts <orders@fixit.test>\r\n")
	assert.Contains(t, string(gotMsg), "\r\n\r\n<p>hi</p>")
}

func TestSMTPSender_Errors(t *testing.T) {
	sender := NewSMTPSender(config.EmailConfig{})
	err := sender.Send(context.Background(), &Email{To: []string{"a@b.c"}})
	assert.ErrorContains(t, err, "missing host")

	sender = NewSMTPSender(config.EmailConfig{SMTPHost: "smtp.fixit.test"})
	sender.sendMail = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("421 busy") }
	err = sender.Send(context.Background(), &Email{To: []string{"a@b.c"}})
	assert.ErrorContains(t, err, "421 busy")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sender.Send(ctx, &Email{To: []string{"a@b.c"}}), context.Canceled)
}
