// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/repairparts-backend/internal/config"
	"github.com/your-org/repairparts-backend/internal/domain/order"
)

// Service handles PDF generation
type Service struct {
	config *config.Config
	tmpl   *template.Template
	now    func() time.Time
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		tmpl:   template.Must(template.New("invoice").Parse(invoiceTemplate)),
		now:    time.Now,
	}
}

// InvoiceData represents the data passed to the invoice template
type InvoiceData struct {
	InvoiceNumber string             `json:"invoice_number"`
	InvoiceDate   string             `json:"invoice_date"`
	OrderNumber   string             `json:"order_number"`
	OrderDate     string             `json:"order_date"`
	Status        string             `json:"status"`
	Currency      string             `json:"currency"`
	PaymentRef    string             `json:"payment_reference"`
	Customer      order.CustomerInfo `json:"customer"`
	Shipping      order.Address      `json:"shipping"`
	Items         []InvoiceLine      `json:"items"`
	Subtotal      string             `json:"subtotal"`
	Tax           string             `json:"tax"`
	ShippingFee   string             `json:"shipping_fee"`
	Total         string             `json:"total"`
	Company       CompanyInfo        `json:"company"`
}

// InvoiceLine is one formatted order line
type InvoiceLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Total     string `json:"total"`
}

// CompanyInfo represents company information
type CompanyInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Website string `json:"website"`
}

// NewInvoiceData formats an order for the invoice template
func (s *Service) NewInvoiceData(o *order.Order) InvoiceData {
	data := InvoiceData{
		InvoiceNumber: fmt.Sprintf("INV-%s", o.OrderNumber),
		InvoiceDate:   s.now().Format("January 2, 2006"),
		OrderNumber:   o.OrderNumber,
		OrderDate:     o.CreatedAt.Format("January 2, 2006"),
		Status:        string(o.Status),
		Currency:      o.Currency,
		PaymentRef:    o.PaymentReference,
		Customer:      o.Customer,
		Shipping:      o.ShippingAddress,
		Subtotal:      o.SubtotalAmount.StringFixed(2),
		Tax:           o.TaxAmount.StringFixed(2),
		ShippingFee:   o.ShippingAmount.StringFixed(2),
		Total:         o.TotalAmount.StringFixed(2),
		Company: CompanyInfo{
			Name:    s.config.App.CompanyName,
			Address: s.config.App.CompanyAddress,
			Phone:   s.config.App.CompanyPhone,
			Email:   s.config.App.CompanyEmail,
			Website: s.config.App.CompanyWebsite,
		},
	}
	for _, item := range o.Items {
		data.Items = append(data.Items, InvoiceLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.StringFixed(2),
			Total:     item.TotalPrice.StringFixed(2),
		})
	}
	return data
}

// GenerateHTML renders the invoice as HTML
func (s *Service) GenerateHTML(o *order.Order) (string, error) {
	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, s.NewInvoiceData(o)); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// GenerateInvoice generates a PDF invoice for an order. Requires the
// wkhtmltopdf binary on PATH.
func (s *Service) GenerateInvoice(o *order.Order) (*bytes.Buffer, error) {
	htmlContent, err := s.GenerateHTML(o)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	page.Zoom.Set(0.95)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

const invoiceTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Invoice {{.InvoiceNumber}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; color: #333; }
        .header { display: flex; justify-content: space-between; margin-bottom: 30px; border-bottom: 2px solid #eee; padding-bottom: 20px; }
        .invoice-info { text-align: right; }
        .invoice-title { font-size: 28px; font-weight: bold; color: #2563eb; margin-bottom: 10px; }
        .section-title { font-size: 16px; font-weight: bold; margin-bottom: 10px; color: #374151; }
        .items-table { width: 100%; border-collapse: collapse; margin: 30px 0; }
        .items-table th, .items-table td { border: 1px solid #ddd; padding: 12px 8px; text-align: left; }
        .items-table th { background-color: #f8f9fa; }
        .num { text-align: right !important; width: 90px; }
        .totals { float: right; width: 300px; }
        .totals table { width: 100%; border-collapse: collapse; }
        .totals td { padding: 8px; border-bottom: 1px solid #eee; text-align: right; }
        .total-row { font-size: 18px; font-weight: bold; }
        .footer { clear: both; margin-top: 50px; padding-top: 20px; border-top: 1px solid #eee; text-align: center; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="header">
        <div>
            <h1>{{.Company.Name}}</h1>
            <p>{{.Company.Address}}</p>
            <p>Phone: {{.Company.Phone}}</p>
            <p>Email: {{.Company.Email}}</p>
            <p>{{.Company.Website}}</p>
        </div>
        <div class="invoice-info">
            <div class="invoice-title">INVOICE</div>
            <p><strong>Invoice #:</strong> {{.InvoiceNumber}}</p>
            <p><strong>Invoice Date:</strong> {{.InvoiceDate}}</p>
            <p><strong>Order #:</strong> {{.OrderNumber}}</p>
            <p><strong>Order Date:</strong> {{.OrderDate}}</p>
            <p><strong>Status:</strong> {{.Status}}</p>
            <p><strong>Payment:</strong> {{.PaymentRef}}</p>
        </div>
    </div>

    <div>
        <div class="section-title">Ship To:</div>
        <p><strong>{{.Customer.Name}}</strong></p>
        <p>{{.Shipping.Line1}}</p>
        {{if .Shipping.Line2}}<p>{{.Shipping.Line2}}</p>{{end}}
        <p>{{.Shipping.City}}{{if .Shipping.State}}, {{.Shipping.State}}{{end}} {{.Shipping.PostalCode}}</p>
        <p>{{.Shipping.Country}}</p>
        <p>Email: {{.Customer.Email}}</p>
        {{if .Customer.Phone}}<p>Phone: {{.Customer.Phone}}</p>{{end}}
    </div>

    <table class="items-table">
        <thead>
            <tr>
                <th>Part</th>
                <th class="num">Qty</th>
                <th class="num">Price</th>
                <th class="num">Total</th>
            </tr>
        </thead>
        <tbody>
            {{range .Items}}
            <tr>
                <td>{{.ProductID}}</td>
                <td class="num">{{.Quantity}}</td>
                <td class="num">{{.UnitPrice}}</td>
                <td class="num">{{.Total}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>

    <div class="totals">
        <table>
            <tr><td>Subtotal:</td><td>{{.Subtotal}} {{.Currency}}</td></tr>
            <tr><td>Shipping:</td><td>{{.ShippingFee}} {{.Currency}}</td></tr>
            <tr><td>Tax:</td><td>{{.Tax}} {{.Currency}}</td></tr>
            <tr class="total-row"><td>Total:</td><td>{{.Total}} {{.Currency}}</td></tr>
        </table>
    </div>

    <div class="footer">
        <p>Thank you for your business!</p>
        <p>If you have any questions about this invoice, please contact us at {{.Company.Email}} or {{.Company.Phone}}</p>
    </div>
</body>
</html>
`
