package payment

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/repairparts-backend/internal/config"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc, timeout time.Duration) *HTTPGateway {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return NewHTTPGateway(config.PaymentConfig{
		BaseURL:   server.URL + "/v1/",
		SecretKey: "sk_test_123",
		Timeout:   timeout,
	}, logger)
}

func TestHTTPGateway_Charge_Succeeded(t *testing.T) {
	var got chargeBody
	gateway := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/charges", r.URL.Path)
		assert.Equal(t, "checkout-key-1", r.Header.Get("Idempotency-Key"))

		user, _, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "sk_test_123", user)

		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"ch_1","status":"succeeded"}`))
	}, time.Second)

	result, err := gateway.Charge(context.Background(), ChargeRequest{
		Amount:         decimal.RequireFromString("31.59"),
		Currency:       "USD",
		IdempotencyKey: "checkout-key-1",
		Metadata:       map[string]string{"checkout_key": "checkout-key-1"},
	})
	require.NoError(t, err)

	assert.Equal(t, "ch_1", result.Reference)
	assert.Equal(t, StatusSucceeded, result.Status)
	assert.Equal(t, int64(3159), got.Amount)
	assert.Equal(t, "usd", got.Currency)
	assert.Equal(t, "checkout-key-1", got.Metadata["checkout_key"])
}

func TestHTTPGateway_Charge_Declined(t *testing.T) {
	gateway := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"id":"ch_2","error":{"code":"card_declined","message":"Your card was declined."}}`))
	}, time.Second)

	result, err := gateway.Charge(context.Background(), ChargeRequest{Amount: decimal.NewFromInt(10), Currency: "USD"})
	require.NoError(t, err)

	assert.Equal(t, StatusDeclined, result.Status)
	assert.Equal(t, "ch_2", result.Reference)
	assert.Equal(t, "Your card was declined.", result.Message)
}

func TestHTTPGateway_Charge_ServerError(t *testing.T) {
	gateway := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`upstream exploded`))
	}, time.Second)

	result, err := gateway.Charge(context.Background(), ChargeRequest{Amount: decimal.NewFromInt(10), Currency: "USD"})
	assert.Nil(t, result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestHTTPGateway_Charge_Timeout(t *testing.T) {
	gateway := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}, 50*time.Millisecond)

	result, err := gateway.Charge(context.Background(), ChargeRequest{Amount: decimal.NewFromInt(10), Currency: "USD"})
	assert.Nil(t, result)
	assert.Error(t, err)
}

func TestHTTPGateway_Charge_UnexpectedStatus(t *testing.T) {
	gateway := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"ch_3","status":"requires_action"}`))
	}, time.Second)

	_, err := gateway.Charge(context.Background(), ChargeRequest{Amount: decimal.NewFromInt(10), Currency: "USD"})
	assert.Error(t, err)
}

func TestHTTPGateway_Charge_RejectsNonPositiveAmount(t *testing.T) {
	called := false
	gateway := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	}, time.Second)

	_, err := gateway.Charge(context.Background(), ChargeRequest{Amount: decimal.Zero, Currency: "USD"})
	assert.Error(t, err)
	assert.False(t, called)
}
