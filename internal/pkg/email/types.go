// internal/pkg/email/types.go
package email

import (
	"time"
)

// EmailType represents the type of email being sent
type EmailType string

const (
	EmailTypeOrderConfirmation EmailType = "order_confirmation"
	EmailTypePaymentIncident   EmailType = "payment_incident"
)

// Email represents an email message
type Email struct {
	To          []string               `json:"to"`
	Subject     string                 `json:"subject"`
	HTMLContent string                 `json:"html_content"`
	Type        EmailType              `json:"type"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// EmailTemplateData contains common data for all email templates
type EmailTemplateData struct {
	SiteName     string `json:"site_name"`
	SupportEmail string `json:"support_email"`
	UserName     string `json:"user_name"`
	UserEmail    string `json:"user_email"`
	Year         int    `json:"year"`
}

// OrderConfirmationData contains data for order confirmation email
type OrderConfirmationData struct {
	EmailTemplateData
	OrderNumber     string      `json:"order_number"`
	OrderDate       string      `json:"order_date"`
	Currency        string      `json:"currency"`
	Subtotal        string      `json:"subtotal"`
	Tax             string      `json:"tax"`
	Shipping        string      `json:"shipping"`
	Total           string      `json:"total"`
	Items           []OrderItem `json:"items"`
	ShippingAddress Address     `json:"shipping_address"`
}

// OrderItem represents an item in the order
type OrderItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
	Total     string `json:"total"`
}

// Address represents the shipping address
type Address struct {
	Name         string `json:"name"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
}

// PaymentIncidentData describes a captured payment whose order was not saved
type PaymentIncidentData struct {
	EmailTemplateData
	CheckoutKey      string `json:"checkout_key"`
	PaymentReference string `json:"payment_reference"`
	Amount           string `json:"amount"`
	Currency         string `json:"currency"`
	CustomerName     string `json:"customer_name"`
	CustomerEmail    string `json:"customer_email"`
	Error            string `json:"error"`
	OccurredAt       string `json:"occurred_at"`
}

// GetBaseTemplateData returns common template data
func GetBaseTemplateData(siteName, supportEmail, userName, userEmail string) EmailTemplateData {
	return EmailTemplateData{
		SiteName:     siteName,
		SupportEmail: supportEmail,
		UserName:     userName,
		UserEmail:    userEmail,
		Year:         time.Now().Year(),
	}
}
