package repository

import (
	"context"

	"github.com/google/uuid"

	"lovewall-backend/internal/domains/payment/model"
)

// Repository persists checkout sessions and their settlement state.
type Repository interface {
	Create(ctx context.Context, payment *model.Payment) error
	GetBySessionID(ctx context.Context, sessionID string) (*model.Payment, error)
	UpdateStatus(ctx context.Context, sessionID string, status model.PaymentStatus) error

	// AttachCouple links a settled session to the submission that used it.
	// Fails with ErrSessionAlreadyUsed when the session is already linked.
	AttachCouple(ctx context.Context, sessionID string, coupleID uuid.UUID) error
}
