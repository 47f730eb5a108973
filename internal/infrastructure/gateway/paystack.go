package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/charlykso/smart-s-sub004/internal/domain/payment"
	"github.com/charlykso/smart-s-sub004/internal/infrastructure/config"
)

const (
	paystackInitializePath = "/transaction/initialize"
	paystackVerifyPath     = "/transaction/verify/%s"

	// Paystack signs webhooks with HMAC-SHA512 of the raw body
	paystackSignatureHeader = "x-paystack-signature"
)

// PaystackAdapter implements the payment gateway interface for Paystack.
// Amounts are converted to kobo on the wire; Paystack only deals in the
// currency's minor unit.
type PaystackAdapter struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewPaystackAdapter creates a Paystack adapter from configuration
func NewPaystackAdapter(cfg config.PaystackConfig, logger *zap.Logger) (*PaystackAdapter, error) {
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("paystack: %w: secret key is required", payment.ErrGatewayNotConfigured)
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.paystack.co"
	}
	return &PaystackAdapter{
		secretKey: cfg.SecretKey,
		baseURL:   baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger.Named("paystack"),
	}, nil
}

// GatewayType returns the provider identifier
func (a *PaystackAdapter) GatewayType() payment.GatewayType {
	return payment.GatewayPaystack
}

type paystackInitializeRequest struct {
	Email       string `json:"email"`
	Amount      string `json:"amount"` // minor unit (kobo)
	Reference   string `json:"reference"`
	Currency    string `json:"currency"`
	CallbackURL string `json:"callback_url,omitempty"`
}

type paystackInitializeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

// InitiatePayment opens a transaction and returns the hosted checkout URL
func (a *PaystackAdapter) InitiatePayment(ctx context.Context, req payment.InitiateRequest) (*payment.InitiateResponse, error) {
	body := paystackInitializeRequest{
		Email:       req.PayerEmail,
		Amount:      toMinorUnit(req.Amount),
		Reference:   req.Reference,
		Currency:    req.Currency,
		CallbackURL: req.CallbackURL,
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("paystack: failed to marshal request: %w", err)
	}

	respBody, err := a.doRequest(ctx, http.MethodPost, paystackInitializePath, bodyBytes)
	if err != nil {
		return nil, err
	}

	var resp paystackInitializeResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("paystack: failed to parse response: %w", err)
	}
	if !resp.Status {
		return nil, fmt.Errorf("%w: paystack: %s", payment.ErrGatewayRequestFailed, resp.Message)
	}

	a.logger.Debug("Transaction initialized",
		zap.String("reference", resp.Data.Reference),
		zap.String("access_code", resp.Data.AccessCode),
	)

	return &payment.InitiateResponse{
		Reference:        resp.Data.Reference,
		AuthorizationURL: resp.Data.AuthorizationURL,
		AccessCode:       resp.Data.AccessCode,
	}, nil
}

type paystackWebhookPayload struct {
	Event string `json:"event"`
	Data  struct {
		ID              int64           `json:"id"`
		Reference       string          `json:"reference"`
		Status          string          `json:"status"`
		Amount          decimal.Decimal `json:"amount"` // minor unit
		GatewayResponse string          `json:"gateway_response"`
		PaidAt          string          `json:"paid_at"`
	} `json:"data"`
}

// VerifyCallback authenticates a webhook against the HMAC signature header
// and parses it into a callback event.
func (a *PaystackAdapter) VerifyCallback(_ context.Context, payload []byte, signature string) (*payment.CallbackEvent, error) {
	mac := hmac.New(sha512.New, []byte(a.secretKey))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	if signature == "" || !hmac.Equal([]byte(expected), []byte(signature)) {
		return nil, payment.ErrInvalidCallback
	}

	var hook paystackWebhookPayload
	if err := json.Unmarshal(payload, &hook); err != nil {
		return nil, fmt.Errorf("%w: paystack: malformed payload", payment.ErrInvalidCallback)
	}
	if hook.Data.Reference == "" {
		return nil, fmt.Errorf("%w: paystack: missing reference", payment.ErrInvalidCallback)
	}

	event := &payment.CallbackEvent{
		Reference:            hook.Data.Reference,
		Status:               mapPaystackStatus(hook.Event, hook.Data.Status),
		Amount:               fromMinorUnit(hook.Data.Amount),
		GatewayTransactionID: strconv.FormatInt(hook.Data.ID, 10),
		SettledAt:            time.Now().UTC(),
	}
	if event.Status == payment.StatusFailed {
		event.FailureReason = hook.Data.GatewayResponse
	}
	if t, err := time.Parse(time.RFC3339, hook.Data.PaidAt); err == nil {
		event.SettledAt = t
	}

	return event, nil
}

// SignatureHeader returns the HTTP header Paystack sends its signature in
func (a *PaystackAdapter) SignatureHeader() string {
	return paystackSignatureHeader
}

func (a *PaystackAdapter) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("paystack: failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: paystack: %v", payment.ErrGatewayRequestFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: paystack: reading response: %v", payment.ErrGatewayRequestFailed, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: paystack: HTTP %d: %s", payment.ErrGatewayRequestFailed, resp.StatusCode, respBody)
	}
	return respBody, nil
}

func mapPaystackStatus(event, status string) payment.Status {
	if event == "charge.success" || status == "success" {
		return payment.StatusSuccess
	}
	return payment.StatusFailed
}

// toMinorUnit converts a major-unit amount to kobo
func toMinorUnit(amount decimal.Decimal) string {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).String()
}

// fromMinorUnit converts a kobo amount back to the major unit
func fromMinorUnit(amount decimal.Decimal) decimal.Decimal {
	return amount.Div(decimal.NewFromInt(100))
}

var _ payment.Gateway = (*PaystackAdapter)(nil)
