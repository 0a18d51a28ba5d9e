// internal/pkg/email/service.go
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/repairparts-backend/internal/config"
	"github.com/your-org/repairparts-backend/internal/domain/checkout"
	"github.com/your-org/repairparts-backend/internal/domain/order"
)

// EmailService renders and sends checkout emails. It is both the checkout
// Notifier and Reporter.
type EmailService struct {
	config    *config.Config
	sender    Sender
	templates map[string]*template.Template
	logger    *logrus.Logger
}

var (
	_ checkout.Notifier = (*EmailService)(nil)
	_ checkout.Reporter = (*EmailService)(nil)
)

// NewEmailService creates a new email service
func NewEmailService(cfg *config.Config, sender Sender, logger *logrus.Logger) *EmailService {
	return &EmailService{
		config: cfg,
		sender: sender,
		templates: map[string]*template.Template{
			string(EmailTypeOrderConfirmation): template.Must(template.New("order_confirmation").Parse(orderConfirmationTemplate)),
			string(EmailTypePaymentIncident):   template.Must(template.New("payment_incident").Parse(paymentIncidentTemplate)),
		},
		logger: logger,
	}
}

// SendEmail sends an email, or only logs it when email is disabled
func (s *EmailService) SendEmail(ctx context.Context, email *Email) error {
	if !s.config.External.Email.Enabled {
		s.logger.WithFields(logrus.Fields{
			"type":    email.Type,
			"to":      email.To,
			"subject": email.Subject,
		}).Info("📧 Email disabled, not sending")
		return nil
	}
	return s.sender.Send(ctx, email)
}

// OrderConfirmed sends the order confirmation to the customer
func (s *EmailService) OrderConfirmed(ctx context.Context, o *order.Order) error {
	data := OrderConfirmationData{
		EmailTemplateData: GetBaseTemplateData(
			s.config.App.CompanyName,
			s.config.Checkout.SupportEmail,
			o.Customer.Name,
			o.Customer.Email,
		),
		OrderNumber: o.OrderNumber,
		OrderDate:   o.CreatedAt.Format("January 2, 2006"),
		Currency:    o.Currency,
		Subtotal:    o.SubtotalAmount.StringFixed(2),
		Tax:         o.TaxAmount.StringFixed(2),
		Shipping:    o.ShippingAmount.StringFixed(2),
		Total:       o.TotalAmount.StringFixed(2),
		ShippingAddress: Address{
			Name:         o.Customer.Name,
			AddressLine1: o.ShippingAddress.Line1,
			AddressLine2: o.ShippingAddress.Line2,
			City:         o.ShippingAddress.City,
			State:        o.ShippingAddress.State,
			PostalCode:   o.ShippingAddress.PostalCode,
			Country:      o.ShippingAddress.Country,
		},
	}
	for _, item := range o.Items {
		data.Items = append(data.Items, OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.UnitPrice.StringFixed(2),
			Total:     item.TotalPrice.StringFixed(2),
		})
	}

	htmlContent, err := s.renderTemplate(string(EmailTypeOrderConfirmation), data)
	if err != nil {
		return fmt.Errorf("failed to render order confirmation template: %w", err)
	}

	return s.SendEmail(ctx, &Email{
		To:          []string{o.Customer.Email},
		Subject:     fmt.Sprintf("Order Confirmation - %s", o.OrderNumber),
		HTMLContent: htmlContent,
		Type:        EmailTypeOrderConfirmation,
		Data: map[string]interface{}{
			"order_number": o.OrderNumber,
		},
	})
}

// PersistenceFailed alerts support about a charge with no order record
func (s *EmailService) PersistenceFailed(ctx context.Context, incident checkout.Incident) error {
	supportEmail := s.config.Checkout.SupportEmail
	if supportEmail == "" {
		return fmt.Errorf("no support email configured for payment incident %s", incident.PaymentReference)
	}

	data := PaymentIncidentData{
		EmailTemplateData: GetBaseTemplateData(s.config.App.CompanyName, supportEmail, "Support", supportEmail),
		CheckoutKey:       incident.CheckoutKey,
		PaymentReference:  incident.PaymentReference,
		Amount:            incident.Amount.StringFixed(2),
		Currency:          incident.Currency,
		CustomerName:      incident.Customer.Name,
		CustomerEmail:     incident.Customer.Email,
		OccurredAt:        incident.OccurredAt.Format(time.RFC3339),
	}
	if incident.Err != nil {
		data.Error = incident.Err.Error()
	}

	htmlContent, err := s.renderTemplate(string(EmailTypePaymentIncident), data)
	if err != nil {
		return fmt.Errorf("failed to render payment incident template: %w", err)
	}

	return s.SendEmail(ctx, &Email{
		To:          []string{supportEmail},
		Subject:     fmt.Sprintf("[ACTION REQUIRED] Payment %s has no order", incident.PaymentReference),
		HTMLContent: htmlContent,
		Type:        EmailTypePaymentIncident,
		Data: map[string]interface{}{
			"payment_reference": incident.PaymentReference,
			"checkout_key":      incident.CheckoutKey,
		},
	})
}

// renderTemplate renders an email template with data
func (s *EmailService) renderTemplate(templateName string, data interface{}) (string, error) {
	tmpl, exists := s.templates[templateName]
	if !exists {
		return "", fmt.Errorf("template %s not found", templateName)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", templateName, err)
	}

	return buf.String(), nil
}

const orderConfirmationTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>{{.SiteName}}</title></head>
<body style="font-family: Arial, sans-serif; margin: 0; padding: 20px; background-color: #f4f4f4;">
    <div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 20px; border-radius: 8px;">
        <h1 style="color: #333;">Thanks for your order, {{.UserName}}</h1>
        <p>Order <strong>{{.OrderNumber}}</strong> placed on {{.OrderDate}}.</p>
        <table style="width: 100%; border-collapse: collapse;">
            <tr><th align="left">Part</th><th align="right">Qty</th><th align="right">Price</th><th align="right">Total</th></tr>
            {{range .Items}}<tr><td>{{.ProductID}}</td><td align="right">{{.Quantity}}</td><td align="right">{{.Price}}</td><td align="right">{{.Total}}</td></tr>
            {{end}}
        </table>
        <p>Subtotal: {{.Subtotal}} {{.Currency}}<br>
        Tax: {{.Tax}} {{.Currency}}<br>
        Shipping: {{.Shipping}} {{.Currency}}<br>
        <strong>Total: {{.Total}} {{.Currency}}</strong></p>
        <p>Shipping to:<br>{{.ShippingAddress.Name}}<br>{{.ShippingAddress.AddressLine1}}<br>{{if .ShippingAddress.AddressLine2}}{{.ShippingAddress.AddressLine2}}<br>{{end}}{{.ShippingAddress.City}} {{.ShippingAddress.PostalCode}}<br>{{.ShippingAddress.Country}}</p>
        <p>Questions? Contact {{.SupportEmail}}.</p>
        <hr>
        <p style="font-size: 12px; color: #666;">&copy; {{.Year}} {{.SiteName}}. All rights reserved.</p>
    </div>
</body>
</html>`

const paymentIncidentTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>Payment incident</title></head>
<body style="font-family: Arial, sans-serif; padding: 20px;">
    <h2 style="color: #b00020;">Payment captured without an order</h2>
    <p>The customer was charged but the order could not be saved. Retrying checkout with the same key will save the order without charging again.</p>
    <ul>
        <li>Payment reference: {{.PaymentReference}}</li>
        <li>Checkout key: {{.CheckoutKey}}</li>
        <li>Amount: {{.Amount}} {{.Currency}}</li>
        <li>Customer: {{.CustomerName}} &lt;{{.CustomerEmail}}&gt;</li>
        <li>Error: {{.Error}}</li>
        <li>At: {{.OccurredAt}}</li>
    </ul>
</body>
</html>`
