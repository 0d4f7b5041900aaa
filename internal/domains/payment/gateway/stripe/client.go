package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"lovewall-backend/internal/domains/payment/gateway"
)

// =====================================================
// STRIPE CLIENT
// =====================================================

// Client talks to the Stripe REST API directly: form-encoded requests with
// Bearer auth. Only the two checkout-session calls are needed.
type Client struct {
	config     *Config
	httpClient *http.Client
}

func NewClient(config *Config) (gateway.CheckoutGateway, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid stripe config: %w", err)
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// checkoutSessionResponse is the subset of Stripe's session object we read.
type checkoutSessionResponse struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	PaymentStatus string `json:"payment_status"` // paid, unpaid, no_payment_required
	AmountTotal   int64  `json:"amount_total"`   // minor units
	Currency      string `json:"currency"`
}

type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// =====================================================
// CREATE CHECKOUT SESSION
// =====================================================

func (c *Client) CreateCheckoutSession(
	ctx context.Context,
	req gateway.CheckoutSessionRequest,
) (*gateway.CheckoutSession, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("amount must be positive")
	}

	// Stripe takes amounts in minor units.
	unitAmount := req.Amount.Mul(decimal.NewFromInt(100)).Round(0)

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", c.config.SuccessURL)
	form.Set("cancel_url", c.config.CancelURL)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", req.Currency)
	form.Set("line_items[0][price_data][unit_amount]", unitAmount.StringFixed(0))
	form.Set("line_items[0][price_data][product_data][name]", req.Description)

	var resp checkoutSessionResponse
	if err := c.do(ctx, http.MethodPost, "/v1/checkout/sessions", form, &resp); err != nil {
		return nil, err
	}

	return &gateway.CheckoutSession{ID: resp.ID, URL: resp.URL}, nil
}

// =====================================================
// GET SESSION
// =====================================================

func (c *Client) GetSession(ctx context.Context, sessionID string) (*gateway.SessionState, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session id is required")
	}

	var resp checkoutSessionResponse
	path := "/v1/checkout/sessions/" + url.PathEscape(sessionID)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	return &gateway.SessionState{
		ID:       resp.ID,
		Paid:     resp.PaymentStatus == "paid",
		Amount:   decimal.NewFromInt(resp.AmountTotal).Div(decimal.NewFromInt(100)),
		Currency: resp.Currency,
	}, nil
}

// =====================================================
// WEBHOOK SIGNATURE
// =====================================================

func (c *Client) VerifyWebhookSignature(payload []byte, signatureHeader string) bool {
	return VerifySignature(payload, signatureHeader, c.config.WebhookSecret, time.Now())
}

// =====================================================
// HTTP
// =====================================================

func (c *Client) do(ctx context.Context, method, path string, form url.Values, out interface{}) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.config.APIURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+c.config.SecretKey)
	if form != nil {
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to call stripe api: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if json.Unmarshal(bodyBytes, &apiErr) == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("stripe error [%s]: %s", apiErr.Error.Type, apiErr.Error.Message)
		}
		return fmt.Errorf("stripe error: status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
