// internal/domain/payment/http_gateway.go
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/repairparts-backend/internal/config"
)

// HTTPGateway charges cards through a JSON-over-HTTP payment provider
type HTTPGateway struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewHTTPGateway creates a new HTTP payment gateway client
func NewHTTPGateway(cfg config.PaymentConfig, logger *logrus.Logger) *HTTPGateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &HTTPGateway{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		secretKey: cfg.SecretKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

type chargeBody struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type chargeResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Charge captures req.Amount. Amounts go over the wire in minor units.
// A 402 from the provider is a decline; any other failure is an error.
func (g *HTTPGateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("invalid charge amount %s", req.Amount)
	}

	body := chargeBody{
		Amount:   req.Amount.Shift(2).Round(0).IntPart(),
		Currency: strings.ToLower(req.Currency),
		Metadata: req.Metadata,
	}

	status, respBody, err := g.makeAPICall(ctx, http.MethodPost, "/charges", req.IdempotencyKey, body)
	if err != nil {
		return nil, err
	}

	var parsed chargeResponse
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &parsed); err != nil && status < 400 {
			return nil, fmt.Errorf("failed to parse charge response: %w", err)
		}
	}

	switch {
	case status == http.StatusPaymentRequired:
		result := &ChargeResult{Reference: parsed.ID, Status: StatusDeclined}
		if parsed.Error != nil {
			result.Message = parsed.Error.Message
		}
		return result, nil
	case status >= 400:
		return nil, fmt.Errorf("payment API call failed with status %d: %s", status, string(respBody))
	}

	if parsed.ID == "" {
		return nil, fmt.Errorf("payment API returned no charge id")
	}

	switch Status(parsed.Status) {
	case StatusSucceeded:
		return &ChargeResult{Reference: parsed.ID, Status: StatusSucceeded}, nil
	case StatusDeclined:
		return &ChargeResult{Reference: parsed.ID, Status: StatusDeclined}, nil
	default:
		return nil, fmt.Errorf("unexpected charge status %q", parsed.Status)
	}
}

// makeAPICall makes HTTP calls to the payment API and returns the status and body
func (g *HTTPGateway) makeAPICall(ctx context.Context, method, endpoint, idempotencyKey string, data interface{}) (int, []byte, error) {
	var reqBody []byte
	var err error

	if data != nil {
		reqBody, err = json.Marshal(data)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal request data: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+endpoint, bytes.NewBuffer(reqBody))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(g.secretKey, "")
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	start := time.Now()
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to make API call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}

	g.logger.WithFields(logrus.Fields{
		"method":   method,
		"endpoint": endpoint,
		"status":   resp.StatusCode,
		"latency":  time.Since(start).String(),
	}).Debug("Payment API call completed")

	return resp.StatusCode, respBody, nil
}
