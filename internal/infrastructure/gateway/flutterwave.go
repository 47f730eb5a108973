package gateway

import (
	"bytes"
	"context"
	"crypto/subtle"
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
	flutterwavePaymentsPath = "/payments"

	// Flutterwave webhooks carry the configured secret hash verbatim
	flutterwaveSignatureHeader = "verif-hash"
)

// FlutterwaveAdapter implements the payment gateway interface for
// Flutterwave. Unlike Paystack, amounts stay in the major unit.
type FlutterwaveAdapter struct {
	secretKey  string
	secretHash string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewFlutterwaveAdapter creates a Flutterwave adapter from configuration
func NewFlutterwaveAdapter(cfg config.FlutterwaveConfig, logger *zap.Logger) (*FlutterwaveAdapter, error) {
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("flutterwave: %w: secret key is required", payment.ErrGatewayNotConfigured)
	}
	if cfg.SecretHash == "" {
		return nil, fmt.Errorf("flutterwave: %w: webhook secret hash is required", payment.ErrGatewayNotConfigured)
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.flutterwave.com/v3"
	}
	return &FlutterwaveAdapter{
		secretKey:  cfg.SecretKey,
		secretHash: cfg.SecretHash,
		baseURL:    baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger.Named("flutterwave"),
	}, nil
}

// GatewayType returns the provider identifier
func (a *FlutterwaveAdapter) GatewayType() payment.GatewayType {
	return payment.GatewayFlutterwave
}

type flutterwaveCustomer struct {
	Email string `json:"email"`
}

type flutterwavePaymentRequest struct {
	TxRef       string              `json:"tx_ref"`
	Amount      string              `json:"amount"`
	Currency    string              `json:"currency"`
	RedirectURL string              `json:"redirect_url,omitempty"`
	Customer    flutterwaveCustomer `json:"customer"`
}

type flutterwavePaymentResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Link string `json:"link"`
	} `json:"data"`
}

// InitiatePayment opens a hosted payment session and returns its link
func (a *FlutterwaveAdapter) InitiatePayment(ctx context.Context, req payment.InitiateRequest) (*payment.InitiateResponse, error) {
	body := flutterwavePaymentRequest{
		TxRef:       req.Reference,
		Amount:      req.Amount.String(),
		Currency:    req.Currency,
		RedirectURL: req.CallbackURL,
		Customer:    flutterwaveCustomer{Email: req.PayerEmail},
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("flutterwave: failed to marshal request: %w", err)
	}

	respBody, err := a.doRequest(ctx, http.MethodPost, flutterwavePaymentsPath, bodyBytes)
	if err != nil {
		return nil, err
	}

	var resp flutterwavePaymentResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("flutterwave: failed to parse response: %w", err)
	}
	if resp.Status != "success" {
		return nil, fmt.Errorf("%w: flutterwave: %s", payment.ErrGatewayRequestFailed, resp.Message)
	}

	a.logger.Debug("Payment session created", zap.String("tx_ref", req.Reference))

	return &payment.InitiateResponse{
		Reference:        req.Reference,
		AuthorizationURL: resp.Data.Link,
	}, nil
}

type flutterwaveWebhookPayload struct {
	Event string `json:"event"`
	Data  struct {
		ID                int64           `json:"id"`
		TxRef             string          `json:"tx_ref"`
		FlwRef            string          `json:"flw_ref"`
		Amount            decimal.Decimal `json:"amount"`
		Currency          string          `json:"currency"`
		Status            string          `json:"status"`
		ProcessorResponse string          `json:"processor_response"`
		CreatedAt         string          `json:"created_at"`
	} `json:"data"`
}

// VerifyCallback checks the verif-hash header against the configured
// secret hash and parses the payload into a callback event.
func (a *FlutterwaveAdapter) VerifyCallback(_ context.Context, payload []byte, signature string) (*payment.CallbackEvent, error) {
	if signature == "" || subtle.ConstantTimeCompare([]byte(a.secretHash), []byte(signature)) != 1 {
		return nil, payment.ErrInvalidCallback
	}

	var hook flutterwaveWebhookPayload
	if err := json.Unmarshal(payload, &hook); err != nil {
		return nil, fmt.Errorf("%w: flutterwave: malformed payload", payment.ErrInvalidCallback)
	}
	if hook.Data.TxRef == "" {
		return nil, fmt.Errorf("%w: flutterwave: missing tx_ref", payment.ErrInvalidCallback)
	}

	event := &payment.CallbackEvent{
		Reference:            hook.Data.TxRef,
		Status:               mapFlutterwaveStatus(hook.Data.Status),
		Amount:               hook.Data.Amount,
		GatewayTransactionID: strconv.FormatInt(hook.Data.ID, 10),
		SettledAt:            time.Now().UTC(),
	}
	if event.Status == payment.StatusFailed {
		event.FailureReason = hook.Data.ProcessorResponse
	}
	if t, err := time.Parse("2006-01-02T15:04:05.000Z", hook.Data.CreatedAt); err == nil {
		event.SettledAt = t
	} else if t, err := time.Parse(time.RFC3339, hook.Data.CreatedAt); err == nil {
		event.SettledAt = t
	}

	return event, nil
}

// SignatureHeader returns the HTTP header Flutterwave sends its hash in
func (a *FlutterwaveAdapter) SignatureHeader() string {
	return flutterwaveSignatureHeader
}

func (a *FlutterwaveAdapter) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("flutterwave: failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: flutterwave: %v", payment.ErrGatewayRequestFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: flutterwave: reading response: %v", payment.ErrGatewayRequestFailed, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: flutterwave: HTTP %d: %s", payment.ErrGatewayRequestFailed, resp.StatusCode, respBody)
	}
	return respBody, nil
}

func mapFlutterwaveStatus(status string) payment.Status {
	if status == "successful" {
		return payment.StatusSuccess
	}
	return payment.StatusFailed
}

var _ payment.Gateway = (*FlutterwaveAdapter)(nil)
