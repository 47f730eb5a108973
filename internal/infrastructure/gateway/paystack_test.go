package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/charlykso/smart-s-sub004/internal/domain/payment"
	"github.com/charlykso/smart-s-sub004/internal/infrastructure/config"
)

const testPaystackSecret = "sk_test_0123456789abcdef"

func newTestPaystackAdapter(t *testing.T, serverURL string) *PaystackAdapter {
	t.Helper()
	adapter, err := NewPaystackAdapter(config.PaystackConfig{
		SecretKey: testPaystackSecret,
		BaseURL:   serverURL,
	}, zap.NewNop())
	require.NoError(t, err)
	return adapter
}

func signPaystackPayload(payload []byte) string {
	mac := hmac.New(sha512.New, []byte(testPaystackSecret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestNewPaystackAdapter_MissingSecretKey(t *testing.T) {
	_, err := NewPaystackAdapter(config.PaystackConfig{}, zap.NewNop())

	assert.ErrorIs(t, err, payment.ErrGatewayNotConfigured)
}

func TestPaystackAdapter_GatewayType(t *testing.T) {
	adapter := newTestPaystackAdapter(t, "http://localhost")

	assert.Equal(t, payment.GatewayPaystack, adapter.GatewayType())
}

func TestPaystackAdapter_InitiatePayment(t *testing.T) {
	var captured paystackInitializeRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/transaction/initialize", r.URL.Path)
		assert.Equal(t, "Bearer "+testPaystackSecret, r.Header.Get("Authorization"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": true,
			"message": "Authorization URL created",
			"data": {
				"authorization_url": "https://checkout.paystack.com/abc123",
				"access_code": "abc123",
				"reference": "PAY-20260105-ABCDEF123456"
			}
		}`))
	}))
	defer server.Close()

	adapter := newTestPaystackAdapter(t, server.URL)

	resp, err := adapter.InitiatePayment(context.Background(), payment.InitiateRequest{
		PaymentID:   uuid.New(),
		Reference:   "PAY-20260105-ABCDEF123456",
		Amount:      decimal.NewFromInt(5000),
		Currency:    "NGN",
		PayerEmail:  "chinedu.okafor@smartacademy.ng",
		CallbackURL: "https://smart-s.ng/payments/callback",
	})

	require.NoError(t, err)
	assert.Equal(t, "https://checkout.paystack.com/abc123", resp.AuthorizationURL)
	assert.Equal(t, "abc123", resp.AccessCode)
	assert.Equal(t, "PAY-20260105-ABCDEF123456", resp.Reference)

	// 5000 NGN is sent as 500000 kobo
	assert.Equal(t, "500000", captured.Amount)
	assert.Equal(t, "chinedu.okafor@smartacademy.ng", captured.Email)
	assert.Equal(t, "NGN", captured.Currency)
}

func TestPaystackAdapter_InitiatePayment_Declined(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": false, "message": "Invalid key"}`))
	}))
	defer server.Close()

	adapter := newTestPaystackAdapter(t, server.URL)

	_, err := adapter.InitiatePayment(context.Background(), payment.InitiateRequest{
		Reference: "PAY-20260105-ABCDEF123456",
		Amount:    decimal.NewFromInt(5000),
		Currency:  "NGN",
	})

	assert.ErrorIs(t, err, payment.ErrGatewayRequestFailed)
	assert.Contains(t, err.Error(), "Invalid key")
}

func TestPaystackAdapter_InitiatePayment_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	adapter := newTestPaystackAdapter(t, server.URL)

	_, err := adapter.InitiatePayment(context.Background(), payment.InitiateRequest{
		Reference: "PAY-20260105-ABCDEF123456",
		Amount:    decimal.NewFromInt(5000),
		Currency:  "NGN",
	})

	assert.ErrorIs(t, err, payment.ErrGatewayRequestFailed)
}

func TestPaystackAdapter_VerifyCallback_Success(t *testing.T) {
	adapter := newTestPaystackAdapter(t, "http://localhost")

	payload := []byte(`{
		"event": "charge.success",
		"data": {
			"id": 302961,
			"reference": "PAY-20260105-ABCDEF123456",
			"status": "success",
			"amount": 500000,
			"gateway_response": "Successful",
			"paid_at": "2026-01-05T14:30:00Z"
		}
	}`)

	event, err := adapter.VerifyCallback(context.Background(), payload, signPaystackPayload(payload))

	require.NoError(t, err)
	assert.Equal(t, "PAY-20260105-ABCDEF123456", event.Reference)
	assert.Equal(t, payment.StatusSuccess, event.Status)
	assert.Equal(t, "302961", event.GatewayTransactionID)
	assert.True(t, decimal.NewFromInt(5000).Equal(event.Amount))
	assert.Equal(t, 2026, event.SettledAt.Year())
	assert.Empty(t, event.FailureReason)
}

func TestPaystackAdapter_VerifyCallback_FailedCharge(t *testing.T) {
	adapter := newTestPaystackAdapter(t, "http://localhost")

	payload := []byte(`{
		"event": "charge.failed",
		"data": {
			"id": 302962,
			"reference": "PAY-20260105-ABCDEF123456",
			"status": "failed",
			"amount": 500000,
			"gateway_response": "Insufficient funds"
		}
	}`)

	event, err := adapter.VerifyCallback(context.Background(), payload, signPaystackPayload(payload))

	require.NoError(t, err)
	assert.Equal(t, payment.StatusFailed, event.Status)
	assert.Equal(t, "Insufficient funds", event.FailureReason)
}

func TestPaystackAdapter_VerifyCallback_BadSignature(t *testing.T) {
	adapter := newTestPaystackAdapter(t, "http://localhost")

	payload := []byte(`{"event": "charge.success", "data": {"reference": "PAY-X"}}`)

	_, err := adapter.VerifyCallback(context.Background(), payload, "deadbeef")

	assert.ErrorIs(t, err, payment.ErrInvalidCallback)
}

func TestPaystackAdapter_VerifyCallback_EmptySignature(t *testing.T) {
	adapter := newTestPaystackAdapter(t, "http://localhost")

	_, err := adapter.VerifyCallback(context.Background(), []byte(`{}`), "")

	assert.ErrorIs(t, err, payment.ErrInvalidCallback)
}

func TestPaystackAdapter_VerifyCallback_MissingReference(t *testing.T) {
	adapter := newTestPaystackAdapter(t, "http://localhost")

	payload := []byte(`{"event": "charge.success", "data": {"status": "success"}}`)

	_, err := adapter.VerifyCallback(context.Background(), payload, signPaystackPayload(payload))

	assert.ErrorIs(t, err, payment.ErrInvalidCallback)
}
