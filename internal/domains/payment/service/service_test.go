package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"lovewall-backend/internal/domains/payment/gateway/mock"
	"lovewall-backend/internal/domains/payment/model"
)

// =====================================================
// FAKE REPOSITORY
// =====================================================

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments map[string]*model.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[string]*model.Payment)}
}

func (r *fakePaymentRepo) Create(ctx context.Context, p *model.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *p
	r.payments[p.SessionID] = &copied
	return nil
}

func (r *fakePaymentRepo) GetBySessionID(ctx context.Context, sessionID string) (*model.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[sessionID]
	if !ok {
		return nil, model.ErrPaymentNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakePaymentRepo) UpdateStatus(ctx context.Context, sessionID string, status model.PaymentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[sessionID]
	if !ok {
		return model.ErrPaymentNotFound
	}
	p.Status = status
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakePaymentRepo) AttachCouple(ctx context.Context, sessionID string, coupleID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[sessionID]
	if !ok {
		return model.ErrPaymentNotFound
	}
	if p.CoupleID != nil {
		return model.ErrSessionAlreadyUsed
	}
	p.CoupleID = &coupleID
	return nil
}

func newTestService() (Service, *fakePaymentRepo, *mock.Gateway) {
	repo := newFakePaymentRepo()
	gw := mock.NewGateway("http://localhost:3000/success")
	return NewService(repo, gw), repo, gw
}

// =====================================================
// TESTS
// =====================================================

func TestCheckout_CreatesSession(t *testing.T) {
	svc, repo, _ := newTestService()

	resp, err := svc.Checkout(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, resp.SessionID)
	require.NotEmpty(t, resp.URL)

	stored, err := repo.GetBySessionID(context.Background(), resp.SessionID)
	require.NoError(t, err)
	require.Equal(t, model.PaymentStatusCreated, stored.Status)
	require.True(t, stored.Amount.Equal(model.SubmissionPrice))
}

func TestVerify_SettlesPaidSession(t *testing.T) {
	svc, repo, _ := newTestService()

	created, err := svc.Checkout(context.Background())
	require.NoError(t, err)

	result, err := svc.Verify(context.Background(), created.SessionID)
	require.NoError(t, err)
	require.True(t, result.Paid)

	stored, err := repo.GetBySessionID(context.Background(), created.SessionID)
	require.NoError(t, err)
	require.Equal(t, model.PaymentStatusPaid, stored.Status)
}

func TestVerify_UnpaidSession(t *testing.T) {
	svc, _, gw := newTestService()

	created, err := svc.Checkout(context.Background())
	require.NoError(t, err)
	gw.MarkUnpaid(created.SessionID)

	result, err := svc.Verify(context.Background(), created.SessionID)
	require.NoError(t, err)
	require.False(t, result.Paid)
}

func TestVerify_UnknownSession(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Verify(context.Background(), "cs_unknown")
	require.ErrorIs(t, err, model.ErrPaymentNotFound)
}

func TestRequirePaid(t *testing.T) {
	svc, _, gw := newTestService()

	created, err := svc.Checkout(context.Background())
	require.NoError(t, err)
	require.NoError(t, svc.RequirePaid(context.Background(), created.SessionID))

	unpaid, err := svc.Checkout(context.Background())
	require.NoError(t, err)
	gw.MarkUnpaid(unpaid.SessionID)
	require.ErrorIs(t, svc.RequirePaid(context.Background(), unpaid.SessionID), model.ErrSessionNotPaid)
}

func TestClaimSession_SingleUse(t *testing.T) {
	svc, _, _ := newTestService()

	created, err := svc.Checkout(context.Background())
	require.NoError(t, err)
	require.NoError(t, svc.RequirePaid(context.Background(), created.SessionID))

	first := uuid.New()
	require.NoError(t, svc.ClaimSession(context.Background(), created.SessionID, first))

	// A claimed session cannot back a second submission.
	err = svc.ClaimSession(context.Background(), created.SessionID, uuid.New())
	require.ErrorIs(t, err, model.ErrSessionAlreadyUsed)

	require.ErrorIs(t, svc.RequirePaid(context.Background(), created.SessionID), model.ErrSessionAlreadyUsed)
}

func TestHandleWebhook_SettlesSession(t *testing.T) {
	svc, repo, _ := newTestService()

	created, err := svc.Checkout(context.Background())
	require.NoError(t, err)

	payload := []byte(`{"type":"checkout.session.completed","data":{"object":{"id":"` + created.SessionID + `","payment_status":"paid"}}}`)
	require.NoError(t, svc.HandleWebhook(context.Background(), payload, "sig"))

	stored, err := repo.GetBySessionID(context.Background(), created.SessionID)
	require.NoError(t, err)
	require.Equal(t, model.PaymentStatusPaid, stored.Status)
}

func TestHandleWebhook_UnknownSessionIsAcked(t *testing.T) {
	svc, _, _ := newTestService()

	payload := []byte(`{"type":"checkout.session.completed","data":{"object":{"id":"cs_elsewhere"}}}`)
	require.NoError(t, svc.HandleWebhook(context.Background(), payload, "sig"))
}

func TestHandleWebhook_IgnoresOtherEvents(t *testing.T) {
	svc, repo, _ := newTestService()

	created, err := svc.Checkout(context.Background())
	require.NoError(t, err)

	payload := []byte(`{"type":"payment_intent.created","data":{"object":{"id":"` + created.SessionID + `"}}}`)
	require.NoError(t, svc.HandleWebhook(context.Background(), payload, "sig"))

	stored, err := repo.GetBySessionID(context.Background(), created.SessionID)
	require.NoError(t, err)
	require.Equal(t, model.PaymentStatusCreated, stored.Status)
}
