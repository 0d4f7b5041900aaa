package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"lovewall-backend/internal/domains/payment/gateway"
	"lovewall-backend/internal/domains/payment/model"
	"lovewall-backend/internal/domains/payment/repository"
)

type paymentService struct {
	repo    repository.Repository
	gateway gateway.CheckoutGateway
}

func NewService(repo repository.Repository, gw gateway.CheckoutGateway) Service {
	return &paymentService{repo: repo, gateway: gw}
}

// =====================================================
// CHECKOUT
// =====================================================

func (s *paymentService) Checkout(ctx context.Context) (*model.CheckoutResponse, error) {
	session, err := s.gateway.CreateCheckoutSession(ctx, gateway.CheckoutSessionRequest{
		Amount:      model.SubmissionPrice,
		Currency:    model.SubmissionCurrency,
		Description: "Love Wall photo spot",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	now := time.Now().UTC()
	payment := &model.Payment{
		ID:        uuid.New(),
		SessionID: session.ID,
		Amount:    model.SubmissionPrice,
		Currency:  model.SubmissionCurrency,
		Status:    model.PaymentStatusCreated,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, err
	}

	return &model.CheckoutResponse{SessionID: session.ID, URL: session.URL}, nil
}

// =====================================================
// VERIFY
// =====================================================

func (s *paymentService) Verify(ctx context.Context, sessionID string) (*model.VerifyResponse, error) {
	payment, err := s.repo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// Already settled locally, no need to ask the gateway again.
	if payment.Status == model.PaymentStatusPaid {
		return &model.VerifyResponse{
			SessionID: sessionID,
			Paid:      true,
			Amount:    payment.Amount.StringFixed(2),
			Currency:  payment.Currency,
		}, nil
	}

	state, err := s.gateway.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session: %w", err)
	}

	if state.Paid {
		if err := s.repo.UpdateStatus(ctx, sessionID, model.PaymentStatusPaid); err != nil {
			return nil, err
		}
	}

	return &model.VerifyResponse{
		SessionID: sessionID,
		Paid:      state.Paid,
		Amount:    state.Amount.StringFixed(2),
		Currency:  state.Currency,
	}, nil
}

func (s *paymentService) RequirePaid(ctx context.Context, sessionID string) error {
	result, err := s.Verify(ctx, sessionID)
	if err != nil {
		return err
	}
	if !result.Paid {
		return model.ErrSessionNotPaid
	}

	payment, err := s.repo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return err
	}
	if payment.CoupleID != nil {
		return model.ErrSessionAlreadyUsed
	}
	return nil
}

func (s *paymentService) ClaimSession(ctx context.Context, sessionID string, coupleID uuid.UUID) error {
	return s.repo.AttachCouple(ctx, sessionID, coupleID)
}

// =====================================================
// WEBHOOK
// =====================================================

// webhookEvent is the subset of a Stripe event we care about.
type webhookEvent struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID            string `json:"id"`
			PaymentStatus string `json:"payment_status"`
		} `json:"object"`
	} `json:"data"`
}

func (s *paymentService) HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) error {
	if !s.gateway.VerifyWebhookSignature(payload, signatureHeader) {
		return model.ErrInvalidSignature
	}

	var event webhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("failed to parse webhook event: %w", err)
	}

	switch event.Type {
	case "checkout.session.completed":
		sessionID := event.Data.Object.ID
		err := s.repo.UpdateStatus(ctx, sessionID, model.PaymentStatusPaid)
		if errors.Is(err, model.ErrPaymentNotFound) {
			// A session created elsewhere (dashboard, another env). Log and ack
			// so the gateway stops redelivering.
			log.Warn().Str("session_id", sessionID).Msg("Webhook for unknown session")
			return nil
		}
		if err != nil {
			return err
		}
		log.Info().Str("session_id", sessionID).Msg("Checkout session settled")

	case "checkout.session.expired":
		sessionID := event.Data.Object.ID
		if err := s.repo.UpdateStatus(ctx, sessionID, model.PaymentStatusFailed); err != nil && !errors.Is(err, model.ErrPaymentNotFound) {
			return err
		}

	default:
		log.Debug().Str("type", event.Type).Msg("Ignoring webhook event")
	}

	return nil
}
