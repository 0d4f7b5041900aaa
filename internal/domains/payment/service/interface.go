package service

import (
	"context"

	"github.com/google/uuid"

	"lovewall-backend/internal/domains/payment/model"
)

// Service is the checkout business logic boundary.
type Service interface {
	// Checkout opens a hosted checkout session for one wall spot.
	Checkout(ctx context.Context) (*model.CheckoutResponse, error)

	// Verify reports whether a session has settled, consulting the gateway
	// and recording the result.
	Verify(ctx context.Context, sessionID string) (*model.VerifyResponse, error)

	// RequirePaid returns nil only for a settled, still-unused session.
	// The submission flow calls this before accepting a photo.
	RequirePaid(ctx context.Context, sessionID string) error

	// ClaimSession marks a settled session as consumed by a submission.
	ClaimSession(ctx context.Context, sessionID string, coupleID uuid.UUID) error

	// HandleWebhook processes a raw gateway webhook delivery.
	HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) error
}
