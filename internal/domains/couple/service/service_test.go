package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"regexp"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"lovewall-backend/internal/domains/couple/model"
	infracache "lovewall-backend/internal/infrastructure/cache"
	"lovewall-backend/internal/infrastructure/storage"
)

// =====================================================
// FAKES
// =====================================================

type fakeRepo struct {
	mu      sync.Mutex
	couples map[uuid.UUID]*model.Couple

	slugAlwaysExists bool
	listCalls        int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{couples: make(map[uuid.UUID]*model.Couple)}
}

func (r *fakeRepo) Create(ctx context.Context, c *model.Couple) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.couples {
		if existing.Slug == c.Slug {
			return model.ErrSlugTaken
		}
	}
	copied := *c
	r.couples[c.ID] = &copied
	return nil
}

func (r *fakeRepo) sorted(status model.Status) []model.Couple {
	var out []model.Couple
	for _, c := range r.couples {
		if status == "" || c.Status == status {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

func (r *fakeRepo) ListByStatus(ctx context.Context, status model.Status, page, limit int) ([]model.Couple, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++

	all := r.sorted(status)
	start := (page - 1) * limit
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], len(all), nil
}

func (r *fakeRepo) AdminList(ctx context.Context, status model.Status, page, limit int) ([]model.Couple, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := r.sorted(status)
	// Newest first on the admin surface.
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	start := (page - 1) * limit
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], len(all), nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Couple, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.couples[id]
	if !ok {
		return nil, model.ErrCoupleNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *fakeRepo) GetBySlug(ctx context.Context, slug string) (*model.Couple, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.couples {
		if c.Slug == slug {
			copied := *c
			return &copied, nil
		}
	}
	return nil, model.ErrCoupleNotFound
}

func (r *fakeRepo) FindByNamesAndSecret(ctx context.Context, names, secretCode string) (*model.Couple, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.couples {
		if c.Names == strings.TrimSpace(names) && c.SecretCode == strings.TrimSpace(secretCode) {
			copied := *c
			return &copied, nil
		}
	}
	return nil, model.ErrCoupleNotFound
}

func (r *fakeRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.Status) (*model.Couple, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.couples[id]
	if !ok {
		return nil, model.ErrCoupleNotFound
	}
	c.Status = status
	c.UpdatedAt = time.Now().UTC()
	copied := *c
	return &copied, nil
}

func (r *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.couples[id]; !ok {
		return model.ErrCoupleNotFound
	}
	delete(r.couples, id)
	return nil
}

func (r *fakeRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	if r.slugAlwaysExists {
		return true, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.couples {
		if c.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) CountByStatus(ctx context.Context, status model.Status) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sorted(status)), nil
}

func (r *fakeRepo) ListRejectedBefore(ctx context.Context, cutoff time.Time, limit int) ([]model.Couple, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Couple
	for _, c := range r.sorted(model.StatusRejected) {
		if c.UpdatedAt.Before(cutoff) {
			out = append(out, c)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

type fakePhotoStore struct {
	mu       sync.Mutex
	uploads  []string
	deletes  []string
	uploadMu map[string][]byte

	deleteErr error
}

func newFakePhotoStore() *fakePhotoStore {
	return &fakePhotoStore{uploadMu: make(map[string][]byte)}
}

func (s *fakePhotoStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads = append(s.uploads, key)
	s.uploadMu[key] = data
	return "http://storage.local/" + key, nil
}

func (s *fakePhotoStore) DeleteByPrefix(ctx context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Attempts are recorded even when the store is failing.
	s.deletes = append(s.deletes, prefix)
	return s.deleteErr
}

type fakeBus struct {
	mu       sync.Mutex
	messages []string
}

func (b *fakeBus) Publish(ctx context.Context, channel, message string) error {
	b.mu.Lock()
	b.messages = append(b.messages, message)
	b.mu.Unlock()
	return nil
}

func (b *fakeBus) Subscribe(ctx context.Context, channel string, handler func(message string)) error {
	return nil
}

func (b *fakeBus) Close() error { return nil }

type fakePayments struct {
	paidSessions map[string]bool
	claimed      map[string]uuid.UUID
}

func newFakePayments(paid ...string) *fakePayments {
	p := &fakePayments{paidSessions: map[string]bool{}, claimed: map[string]uuid.UUID{}}
	for _, s := range paid {
		p.paidSessions[s] = true
	}
	return p
}

func (p *fakePayments) RequirePaid(ctx context.Context, sessionID string) error {
	if !p.paidSessions[sessionID] {
		return fmt.Errorf("session not paid")
	}
	return nil
}

func (p *fakePayments) ClaimSession(ctx context.Context, sessionID string, coupleID uuid.UUID) error {
	p.claimed[sessionID] = coupleID
	return nil
}

// =====================================================
// HELPERS
// =====================================================

func testPhoto(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 6), G: uint8(y * 6), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type testEnv struct {
	repo     *fakeRepo
	store    *fakePhotoStore
	bus      *fakeBus
	payments *fakePayments
	service  Service
}

func newTestEnv(t *testing.T, payments *fakePayments) *testEnv {
	t.Helper()
	repo := newFakeRepo()
	store := newFakePhotoStore()
	bus := &fakeBus{}

	var verifier PaymentVerifier
	if payments != nil {
		verifier = payments
	}

	svc := NewService(
		repo,
		infracache.NewMemoryCache(),
		storage.NewImageProcessor(),
		store,
		nil, // no queue in tests; enqueues are skipped
		bus,
		verifier,
		30*time.Second,
	)

	return &testEnv{repo: repo, store: store, bus: bus, payments: payments, service: svc}
}

func (e *testEnv) create(t *testing.T, names string) *model.CreateCoupleResponse {
	t.Helper()
	resp, err := e.service.Create(context.Background(), model.CreateCoupleRequest{Names: names}, testPhoto(t))
	require.NoError(t, err)
	return resp
}

// =====================================================
// CREATE
// =====================================================

func TestCreate_HappyPath(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := env.create(t, "Anna & Ben")

	require.Equal(t, string(model.StatusPending), resp.Couple.Status)
	require.Regexp(t, regexp.MustCompile(`^[0-9]{8}$`), resp.SecretCode)
	require.False(t, resp.EmailSent)
	require.NotEmpty(t, resp.Couple.Slug)
	require.NotEmpty(t, resp.Couple.PhotoURL)
	require.NotEmpty(t, resp.Couple.ThumbURL)

	// Both renditions uploaded under the couple's folder.
	require.Len(t, env.store.uploads, 2)
	for _, key := range env.store.uploads {
		require.Contains(t, key, resp.Couple.ID)
	}

	// Mutation broadcast for other replicas.
	require.NotEmpty(t, env.bus.messages)
}

func TestCreate_KeepsProvidedSecretCode(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, err := env.service.Create(context.Background(), model.CreateCoupleRequest{
		Names:      "Anna & Ben",
		SecretCode: "12345678",
	}, testPhoto(t))
	require.NoError(t, err)
	require.Equal(t, "12345678", resp.SecretCode)
}

func TestCreate_RejectsMissingPhoto(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.service.Create(context.Background(), model.CreateCoupleRequest{Names: "Anna & Ben"}, nil)
	require.ErrorIs(t, err, model.ErrPhotoRequired)
}

func TestCreate_RejectsNonImagePayload(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.service.Create(context.Background(), model.CreateCoupleRequest{Names: "Anna & Ben"}, []byte("not an image"))
	require.ErrorIs(t, err, model.ErrInvalidImage)
}

func TestCreate_RejectsInvalidRequest(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.service.Create(context.Background(), model.CreateCoupleRequest{Names: ""}, testPhoto(t))
	require.Error(t, err)
}

func TestCreate_SlugRetryExhaustion(t *testing.T) {
	env := newTestEnv(t, nil)
	env.repo.slugAlwaysExists = true

	_, err := env.service.Create(context.Background(), model.CreateCoupleRequest{Names: "Anna & Ben"}, testPhoto(t))
	require.ErrorIs(t, err, model.ErrSlugGenerationFailed)

	// Orphaned renditions are cleaned up when the insert never happened.
	require.NotEmpty(t, env.store.deletes)
}

func TestCreate_PaywallBlocksWithoutSession(t *testing.T) {
	env := newTestEnv(t, newFakePayments("cs_paid"))

	_, err := env.service.Create(context.Background(), model.CreateCoupleRequest{Names: "Anna & Ben"}, testPhoto(t))
	require.ErrorIs(t, err, model.ErrPaymentRequired)
}

func TestCreate_PaywallAcceptsPaidSession(t *testing.T) {
	payments := newFakePayments("cs_paid")
	env := newTestEnv(t, payments)

	resp, err := env.service.Create(context.Background(), model.CreateCoupleRequest{
		Names:            "Anna & Ben",
		PaymentSessionID: "cs_paid",
	}, testPhoto(t))
	require.NoError(t, err)

	// Session claimed by the new submission.
	require.Equal(t, resp.Couple.ID, payments.claimed["cs_paid"].String())
}

func TestCreate_PaywallRejectsUnpaidSession(t *testing.T) {
	env := newTestEnv(t, newFakePayments("cs_paid"))

	_, err := env.service.Create(context.Background(), model.CreateCoupleRequest{
		Names:            "Anna & Ben",
		PaymentSessionID: "cs_unpaid",
	}, testPhoto(t))
	require.Error(t, err)
}

// =====================================================
// READS
// =====================================================

func TestListByStatus_CachesResult(t *testing.T) {
	env := newTestEnv(t, nil)
	env.create(t, "Anna & Ben")

	req := model.ListCouplesRequest{Status: model.StatusPending, Page: 1, Limit: 100}

	_, _, err := env.service.ListByStatus(context.Background(), req)
	require.NoError(t, err)
	calls := env.repo.listCalls

	_, _, err = env.service.ListByStatus(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, calls, env.repo.listCalls, "second read must hit the cache")
}

func TestListByStatus_CacheExpiresAtConfiguredTTL(t *testing.T) {
	repo := newFakeRepo()
	current := time.Now().UTC()
	clock := func() time.Time { return current }

	svc := NewService(
		repo,
		infracache.NewMemoryCacheWithClock(clock),
		storage.NewImageProcessor(),
		newFakePhotoStore(),
		nil,
		&fakeBus{},
		nil,
		10*time.Second,
	)

	require.NoError(t, repo.Create(context.Background(), &model.Couple{
		ID:        uuid.New(),
		Slug:      "anna-ben-abc123",
		Names:     "Anna & Ben",
		Status:    model.StatusPending,
		CreatedAt: current,
		UpdatedAt: current,
	}))

	req := model.ListCouplesRequest{Status: model.StatusPending, Page: 1, Limit: 100}

	_, _, err := svc.ListByStatus(context.Background(), req)
	require.NoError(t, err)
	calls := repo.listCalls

	// Still fresh just short of the TTL.
	current = current.Add(9 * time.Second)
	_, _, err = svc.ListByStatus(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, calls, repo.listCalls)

	// Past the configured TTL the next read goes back to the repository.
	current = current.Add(2 * time.Second)
	_, _, err = svc.ListByStatus(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, calls+1, repo.listCalls)
}

func TestListByStatus_InvalidStatus(t *testing.T) {
	env := newTestEnv(t, nil)

	_, _, err := env.service.ListByStatus(context.Background(), model.ListCouplesRequest{Status: "bogus"})
	require.ErrorIs(t, err, model.ErrInvalidStatus)
}

// =====================================================
// MODERATION
// =====================================================

func TestModerate_ApprovePending(t *testing.T) {
	env := newTestEnv(t, nil)
	created := env.create(t, "Anna & Ben")
	id := uuid.MustParse(created.Couple.ID)

	updated, err := env.service.Moderate(context.Background(), id, model.StatusApproved)
	require.NoError(t, err)
	require.Equal(t, string(model.StatusApproved), updated.Status)
}

func TestModerate_IdempotentSameStatus(t *testing.T) {
	env := newTestEnv(t, nil)
	created := env.create(t, "Anna & Ben")
	id := uuid.MustParse(created.Couple.ID)

	_, err := env.service.Moderate(context.Background(), id, model.StatusApproved)
	require.NoError(t, err)

	again, err := env.service.Moderate(context.Background(), id, model.StatusApproved)
	require.NoError(t, err)
	require.Equal(t, string(model.StatusApproved), again.Status)
}

func TestModerate_RejectsApprovedToRejected(t *testing.T) {
	env := newTestEnv(t, nil)
	created := env.create(t, "Anna & Ben")
	id := uuid.MustParse(created.Couple.ID)

	_, err := env.service.Moderate(context.Background(), id, model.StatusApproved)
	require.NoError(t, err)

	_, err = env.service.Moderate(context.Background(), id, model.StatusRejected)
	require.ErrorIs(t, err, model.ErrInvalidTransition)
}

func TestModerate_RejectsPendingTarget(t *testing.T) {
	env := newTestEnv(t, nil)
	created := env.create(t, "Anna & Ben")
	id := uuid.MustParse(created.Couple.ID)

	_, err := env.service.Moderate(context.Background(), id, model.StatusPending)
	require.ErrorIs(t, err, model.ErrInvalidStatus)
}

func TestModerate_ApprovedAppearsInPublicListInOrder(t *testing.T) {
	env := newTestEnv(t, nil)
	first := env.create(t, "Anna & Ben")
	time.Sleep(2 * time.Millisecond)
	second := env.create(t, "Carla & David")

	for _, c := range []*model.CreateCoupleResponse{second, first} {
		_, err := env.service.Moderate(context.Background(), uuid.MustParse(c.Couple.ID), model.StatusApproved)
		require.NoError(t, err)
	}

	couples, _, err := env.service.ListByStatus(context.Background(), model.ListCouplesRequest{
		Status: model.StatusApproved, Page: 1, Limit: 100,
	})
	require.NoError(t, err)
	require.Len(t, couples, 2)

	// Creation order, not approval order.
	require.Equal(t, first.Couple.ID, couples[0].ID)
	require.Equal(t, second.Couple.ID, couples[1].ID)
}

// =====================================================
// REMOVAL
// =====================================================

func TestRemove_HappyPath(t *testing.T) {
	env := newTestEnv(t, nil)
	created := env.create(t, "Anna & Ben")

	err := env.service.Remove(context.Background(), model.RemoveCoupleRequest{
		Names:      "Anna & Ben",
		SecretCode: created.SecretCode,
	})
	require.NoError(t, err)

	_, err = env.service.GetBySlug(context.Background(), created.Couple.Slug)
	require.ErrorIs(t, err, model.ErrCoupleNotFound)
}

func TestRemove_FailsClosed(t *testing.T) {
	env := newTestEnv(t, nil)
	created := env.create(t, "Anna & Ben")

	cases := []model.RemoveCoupleRequest{
		{Names: "Wrong Names", SecretCode: created.SecretCode},
		{Names: "Anna & Ben", SecretCode: "00000000"},
		{Names: "Wrong Names", SecretCode: "00000000"},
	}
	for _, req := range cases {
		err := env.service.Remove(context.Background(), req)
		require.ErrorIs(t, err, model.ErrCoupleNotFound, "any mismatch yields the same not-found")
	}

	// The record survived every failed attempt.
	_, err := env.service.GetBySlug(context.Background(), created.Couple.Slug)
	require.NoError(t, err)
}

func TestRemove_RequiresBothFields(t *testing.T) {
	env := newTestEnv(t, nil)

	err := env.service.Remove(context.Background(), model.RemoveCoupleRequest{Names: "Anna & Ben"})
	require.Error(t, err)
}

// =====================================================
// PURGE
// =====================================================

func TestPurgeRejected(t *testing.T) {
	env := newTestEnv(t, nil)
	created := env.create(t, "Anna & Ben")
	id := uuid.MustParse(created.Couple.ID)

	_, err := env.service.Moderate(context.Background(), id, model.StatusRejected)
	require.NoError(t, err)

	// Backdate the rejection so it falls behind the cutoff.
	env.repo.mu.Lock()
	env.repo.couples[id].UpdatedAt = time.Now().UTC().AddDate(0, 0, -60)
	env.repo.mu.Unlock()

	purged, err := env.service.PurgeRejected(context.Background(), 30)
	require.NoError(t, err)
	require.Equal(t, 1, purged)

	_, err = env.service.GetBySlug(context.Background(), created.Couple.Slug)
	require.ErrorIs(t, err, model.ErrCoupleNotFound)

	// Renditions deleted alongside the row.
	require.NotEmpty(t, env.store.deletes)
}

func TestPurgeRejected_StopsWhenStorageFails(t *testing.T) {
	env := newTestEnv(t, nil)
	created := env.create(t, "Anna & Ben")
	id := uuid.MustParse(created.Couple.ID)

	_, err := env.service.Moderate(context.Background(), id, model.StatusRejected)
	require.NoError(t, err)

	env.repo.mu.Lock()
	env.repo.couples[id].UpdatedAt = time.Now().UTC().AddDate(0, 0, -60)
	env.repo.mu.Unlock()

	env.store.mu.Lock()
	env.store.deleteErr = errors.New("bucket unavailable")
	env.store.mu.Unlock()

	purged, err := env.service.PurgeRejected(context.Background(), 30)
	require.Error(t, err)
	require.Equal(t, 0, purged)

	// One attempt per run, not an endless loop against broken storage.
	require.Len(t, env.store.deletes, 1)

	// The row survives for the next scheduled run.
	_, err = env.service.GetBySlug(context.Background(), created.Couple.Slug)
	require.NoError(t, err)
}

func TestPurgeRejected_LeavesRecentRejections(t *testing.T) {
	env := newTestEnv(t, nil)
	created := env.create(t, "Anna & Ben")
	id := uuid.MustParse(created.Couple.ID)

	_, err := env.service.Moderate(context.Background(), id, model.StatusRejected)
	require.NoError(t, err)

	purged, err := env.service.PurgeRejected(context.Background(), 30)
	require.NoError(t, err)
	require.Equal(t, 0, purged)

	_, err = env.service.GetBySlug(context.Background(), created.Couple.Slug)
	require.NoError(t, err)
}
