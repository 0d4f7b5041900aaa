package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"lovewall-backend/internal/domains/payment/gateway"
)

// =====================================================
// MOCK CHECKOUT GATEWAY
// =====================================================

// Gateway is an in-memory stand-in for the hosted checkout: every session it
// creates reports paid immediately. Used in development and tests.
type Gateway struct {
	mu       sync.Mutex
	sessions map[string]*gateway.SessionState

	// SuccessURL is where the fake checkout page "redirects".
	SuccessURL string
}

func NewGateway(successURL string) *Gateway {
	return &Gateway{
		sessions:   make(map[string]*gateway.SessionState),
		SuccessURL: successURL,
	}
}

func (g *Gateway) CreateCheckoutSession(
	ctx context.Context,
	req gateway.CheckoutSessionRequest,
) (*gateway.CheckoutSession, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("amount must be positive")
	}

	id := "cs_mock_" + uuid.NewString()

	g.mu.Lock()
	g.sessions[id] = &gateway.SessionState{
		ID:       id,
		Paid:     true,
		Amount:   req.Amount,
		Currency: req.Currency,
	}
	g.mu.Unlock()

	return &gateway.CheckoutSession{ID: id, URL: g.SuccessURL}, nil
}

func (g *Gateway) GetSession(ctx context.Context, sessionID string) (*gateway.SessionState, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	state, ok := g.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("session %s not found", sessionID)
	}
	copied := *state
	return &copied, nil
}

// VerifyWebhookSignature always passes in mock mode.
func (g *Gateway) VerifyWebhookSignature(payload []byte, signatureHeader string) bool {
	return true
}

// MarkUnpaid flips a session to unpaid. Test hook.
func (g *Gateway) MarkUnpaid(sessionID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if s, ok := g.sessions[sessionID]; ok {
		s.Paid = false
	}
}
