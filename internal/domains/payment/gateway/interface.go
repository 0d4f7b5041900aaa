package gateway

import (
	"context"

	"github.com/shopspring/decimal"
)

// =====================================================
// GATEWAY INTERFACES
// =====================================================

// CheckoutGateway abstracts the hosted-checkout provider. The real
// implementation talks to Stripe; the mock settles instantly.
type CheckoutGateway interface {
	// CreateCheckoutSession opens a hosted checkout for one wall spot.
	CreateCheckoutSession(ctx context.Context, req CheckoutSessionRequest) (*CheckoutSession, error)

	// GetSession fetches the current state of a session.
	GetSession(ctx context.Context, sessionID string) (*SessionState, error)

	// VerifyWebhookSignature checks the signature header of a webhook
	// delivery against the raw body.
	VerifyWebhookSignature(payload []byte, signatureHeader string) bool
}

// =====================================================
// REQUEST/RESPONSE TYPES
// =====================================================

// CheckoutSessionRequest carries what the provider needs to open a session.
type CheckoutSessionRequest struct {
	Amount      decimal.Decimal // major units
	Currency    string
	Description string
	SuccessURL  string
	CancelURL   string
}

// CheckoutSession is the freshly created session the client redirects to.
type CheckoutSession struct {
	ID  string
	URL string
}

// SessionState is the provider's view of a session.
type SessionState struct {
	ID       string
	Paid     bool
	Amount   decimal.Decimal // major units
	Currency string
}
