package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"lovewall-backend/internal/domains/couple/model"
	"lovewall-backend/internal/domains/couple/repository"
	"lovewall-backend/internal/infrastructure/broadcast"
	"lovewall-backend/internal/infrastructure/storage"
	"lovewall-backend/internal/shared"
	"lovewall-backend/internal/shared/utils"
	"lovewall-backend/pkg/cache"
)

// CacheKeyPrefix namespaces every cached couples list; mutations clear the
// whole namespace.
const CacheKeyPrefix = "couples:"

const slugRetryLimit = 10

// defaultListCacheTTL backstops a zero config value.
const defaultListCacheTTL = 30 * time.Second

// PaymentVerifier is the narrow slice of the payment service the submission
// flow needs. Nil disables the paywall (tests, free mode).
type PaymentVerifier interface {
	RequirePaid(ctx context.Context, sessionID string) error
	ClaimSession(ctx context.Context, sessionID string, coupleID uuid.UUID) error
}

// PhotoStore is the object storage surface the submission flow needs.
// Satisfied by storage.MinIOStorage.
type PhotoStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	DeleteByPrefix(ctx context.Context, prefix string) error
}

type coupleService struct {
	repo           repository.Repository
	sharedCache    cache.Cache
	imageProcessor *storage.ImageProcessor
	minio          PhotoStore
	asynqClient    *asynq.Client
	bus            broadcast.Bus
	payments       PaymentVerifier
	listTTL        time.Duration
}

func NewService(
	repo repository.Repository,
	sharedCache cache.Cache,
	imageProcessor *storage.ImageProcessor,
	minio PhotoStore,
	asynqClient *asynq.Client,
	bus broadcast.Bus,
	payments PaymentVerifier,
	listTTL time.Duration,
) Service {
	if listTTL <= 0 {
		listTTL = defaultListCacheTTL
	}
	return &coupleService{
		repo:           repo,
		sharedCache:    sharedCache,
		imageProcessor: imageProcessor,
		minio:          minio,
		asynqClient:    asynqClient,
		bus:            bus,
		payments:       payments,
		listTTL:        listTTL,
	}
}

// =====================================================
// CREATE
// =====================================================

func (s *coupleService) Create(ctx context.Context, req model.CreateCoupleRequest, photo []byte) (*model.CreateCoupleResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if len(photo) == 0 {
		return nil, model.ErrPhotoRequired
	}

	// The paywall gates the upload: no settled, unused session, no spot.
	if s.payments != nil {
		if req.PaymentSessionID == "" {
			return nil, model.ErrPaymentRequired
		}
		if err := s.payments.RequirePaid(ctx, req.PaymentSessionID); err != nil {
			return nil, err
		}
	}

	if err := s.imageProcessor.ValidateImage(photo); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidImage, err)
	}

	renditions, err := s.imageProcessor.ProcessImage(photo)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidImage, err)
	}

	id := uuid.New()

	folder := fmt.Sprintf("%s/%s", storage.PhotoFolder, id)
	photoURL, err := s.minio.Upload(ctx, folder+"/photo.jpg", renditions[storage.RenditionOptimized], "image/jpeg")
	if err != nil {
		return nil, fmt.Errorf("photo upload failed: %w", err)
	}
	thumbURL, err := s.minio.Upload(ctx, folder+"/thumb.jpg", renditions[storage.RenditionThumb], "image/jpeg")
	if err != nil {
		return nil, fmt.Errorf("thumbnail upload failed: %w", err)
	}

	secretCode := req.SecretCode
	if secretCode == "" {
		secretCode = utils.GenerateSecretCode()
	}

	now := time.Now().UTC()
	couple := &model.Couple{
		ID:         id,
		Names:      req.Names,
		PhotoURL:   photoURL,
		ThumbURL:   thumbURL,
		SecretCode: secretCode,
		Status:     model.StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if req.Email != "" {
		couple.Email = &req.Email
	}
	if req.Country != "" {
		couple.Country = &req.Country
	}
	if req.Story != "" {
		couple.Story = &req.Story
	}
	if req.PaymentSessionID != "" {
		couple.PaymentID = &req.PaymentSessionID
	}
	if req.WeddingDate != "" {
		d, err := time.Parse("2006-01-02", req.WeddingDate)
		if err == nil {
			couple.WeddingDate = &d
		}
	}

	// Bounded retry: the random slug suffix collides rarely, but uniqueness
	// is enforced here, not hoped for.
	if err := s.createWithUniqueSlug(ctx, couple); err != nil {
		// The record never existed; drop the uploaded renditions.
		if cleanupErr := s.minio.DeleteByPrefix(context.Background(), folder+"/"); cleanupErr != nil {
			log.Warn().Err(cleanupErr).Str("folder", folder).Msg("Failed to clean up orphaned renditions")
		}
		return nil, err
	}

	if s.payments != nil && req.PaymentSessionID != "" {
		if err := s.payments.ClaimSession(ctx, req.PaymentSessionID, couple.ID); err != nil {
			// The submission stands; the unclaimed session is an audit gap,
			// not a user-facing failure.
			log.Warn().Err(err).Str("session_id", req.PaymentSessionID).Msg("Failed to claim checkout session")
		}
	}

	emailSent := s.enqueueSecretCodeEmail(couple)

	s.invalidateLists(ctx, "create")

	return &model.CreateCoupleResponse{
		Couple:     model.ToResponse(*couple),
		SecretCode: secretCode,
		EmailSent:  emailSent,
	}, nil
}

func (s *coupleService) createWithUniqueSlug(ctx context.Context, couple *model.Couple) error {
	for attempt := 0; attempt < slugRetryLimit; attempt++ {
		couple.Slug = utils.GenerateSlug(couple.Names)

		exists, err := s.repo.SlugExists(ctx, couple.Slug)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		err = s.repo.Create(ctx, couple)
		if err == nil {
			return nil
		}
		// A concurrent insert can still win the slug between the existence
		// check and the insert; regenerate and try again.
		if err == model.ErrSlugTaken {
			continue
		}
		return err
	}
	return model.ErrSlugGenerationFailed
}

func (s *coupleService) enqueueSecretCodeEmail(couple *model.Couple) bool {
	if couple.Email == nil || s.asynqClient == nil {
		return false
	}

	payload, err := json.Marshal(shared.SecretCodeEmailPayload{
		Email:      *couple.Email,
		Names:      couple.Names,
		SecretCode: couple.SecretCode,
		Slug:       couple.Slug,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal secret code email payload")
		return false
	}

	task := asynq.NewTask(shared.TypeSendSecretCodeEmail, payload)
	if _, err := s.asynqClient.Enqueue(task, asynq.Queue(shared.QueueCritical), asynq.MaxRetry(3)); err != nil {
		// The submission stands either way; the code is repeated in-app.
		log.Error().Err(err).Str("slug", couple.Slug).Msg("Failed to enqueue secret code email")
		return false
	}
	return true
}

// =====================================================
// READS
// =====================================================

func (s *coupleService) ListByStatus(ctx context.Context, req model.ListCouplesRequest) ([]model.CoupleResponse, *model.PaginationMeta, error) {
	req.Normalize()
	if !req.Status.Valid() {
		return nil, nil, model.ErrInvalidStatus
	}

	type listCache struct {
		Data []model.CoupleResponse `json:"data"`
		Meta model.PaginationMeta   `json:"meta"`
	}

	cacheKey := fmt.Sprintf("%slist:%s:%d:%d", CacheKeyPrefix, req.Status, req.Page, req.Limit)

	var cached listCache
	found, err := s.sharedCache.Get(ctx, cacheKey, &cached)
	if err != nil {
		log.Warn().Err(err).Str("key", cacheKey).Msg("Cache read failed")
	}
	if found {
		return cached.Data, &cached.Meta, nil
	}

	couples, total, err := s.repo.ListByStatus(ctx, req.Status, req.Page, req.Limit)
	if err != nil {
		return nil, nil, err
	}

	responses := model.ToResponses(couples)
	meta := model.NewPaginationMeta(req.Page, req.Limit, total)

	if err := s.sharedCache.Set(ctx, cacheKey, listCache{Data: responses, Meta: *meta}, s.listTTL); err != nil {
		log.Warn().Err(err).Str("key", cacheKey).Msg("Cache write failed")
	}

	return responses, meta, nil
}

func (s *coupleService) GetBySlug(ctx context.Context, slug string) (*model.CoupleResponse, error) {
	couple, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	resp := model.ToResponse(*couple)
	return &resp, nil
}

// =====================================================
// REMOVAL (self-service)
// =====================================================

func (s *coupleService) Remove(ctx context.Context, req model.RemoveCoupleRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	couple, err := s.repo.FindByNamesAndSecret(ctx, req.Names, req.SecretCode)
	if err != nil {
		return err
	}

	if req.Reason != "" {
		log.Info().Str("names", couple.Names).Str("reason", req.Reason).Msg("Photo removal requested")
	}

	// Hard delete: the record ceases to exist, no tombstone.
	if err := s.repo.Delete(ctx, couple.ID); err != nil {
		return err
	}

	s.enqueueImageDeletion(couple.ID)
	s.invalidateLists(ctx, "remove")

	return nil
}

func (s *coupleService) enqueueImageDeletion(id uuid.UUID) {
	if s.asynqClient == nil {
		return
	}

	payload, err := json.Marshal(shared.DeleteCoupleImagesPayload{CoupleID: id.String()})
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal delete images payload")
		return
	}

	task := asynq.NewTask(shared.TypeDeleteCoupleImages, payload)
	if _, err := s.asynqClient.Enqueue(task, asynq.Queue(shared.QueueLow), asynq.MaxRetry(5)); err != nil {
		log.Error().Err(err).Str("couple_id", id.String()).Msg("Failed to enqueue image deletion")
	}
}

// =====================================================
// MODERATION
// =====================================================

func (s *coupleService) Moderate(ctx context.Context, id uuid.UUID, status model.Status) (*model.CoupleResponse, error) {
	if status != model.StatusApproved && status != model.StatusRejected {
		return nil, model.ErrInvalidStatus
	}

	couple, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Idempotent re-application: already in the requested state.
	if couple.Status == status {
		resp := model.ToResponse(*couple)
		return &resp, nil
	}

	if !couple.CanTransitionTo(status) {
		return nil, model.ErrInvalidTransition
	}

	updated, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	s.invalidateLists(ctx, "moderate")

	resp := model.ToResponse(*updated)
	return &resp, nil
}

func (s *coupleService) AdminList(ctx context.Context, req model.ListCouplesRequest) ([]model.CoupleResponse, *model.PaginationMeta, error) {
	req.Normalize()
	if req.Status != "" && !req.Status.Valid() {
		return nil, nil, model.ErrInvalidStatus
	}

	couples, total, err := s.repo.AdminList(ctx, req.Status, req.Page, req.Limit)
	if err != nil {
		return nil, nil, err
	}

	return model.ToResponses(couples), model.NewPaginationMeta(req.Page, req.Limit, total), nil
}

func (s *coupleService) AdminDelete(ctx context.Context, id uuid.UUID) error {
	couple, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, couple.ID); err != nil {
		return err
	}

	s.enqueueImageDeletion(couple.ID)
	s.invalidateLists(ctx, "admin_delete")
	return nil
}

func (s *coupleService) PendingCount(ctx context.Context) (int, error) {
	return s.repo.CountByStatus(ctx, model.StatusPending)
}

// =====================================================
// EXPORT
// =====================================================

func (s *coupleService) Export(ctx context.Context) (*excelize.File, error) {
	const sheet = "Submissions"

	f := excelize.NewFile()
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Slug", "Names", "Email", "Wedding Date", "Country", "Status", "Payment ID", "Created At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	row := 2
	page := 1
	const pageSize = 500
	for {
		couples, total, err := s.repo.AdminList(ctx, "", page, pageSize)
		if err != nil {
			return nil, err
		}

		for _, c := range couples {
			values := []interface{}{
				c.ID.String(),
				c.Slug,
				c.Names,
				deref(c.Email),
				formatDate(c.WeddingDate),
				deref(c.Country),
				string(c.Status),
				deref(c.PaymentID),
				c.CreatedAt.UTC().Format(time.RFC3339),
			}
			for i, v := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				f.SetCellValue(sheet, cell, v)
			}
			row++
		}

		if page*pageSize >= total || len(couples) == 0 {
			break
		}
		page++
	}

	return f, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}

// =====================================================
// PURGE (scheduled)
// =====================================================

func (s *coupleService) PurgeRejected(ctx context.Context, olderThanDays int) (int, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -olderThanDays)

	purged := 0
	var lastErr error
	for {
		batch, err := s.repo.ListRejectedBefore(ctx, cutoff, 100)
		if err != nil {
			return purged, err
		}
		if len(batch) == 0 {
			// Nothing eligible remains; earlier failures were retried and
			// cleared on a later pass.
			lastErr = nil
			break
		}

		deleted := 0
		for _, c := range batch {
			prefix := fmt.Sprintf("%s/%s/", storage.PhotoFolder, c.ID)
			if err := s.minio.DeleteByPrefix(ctx, prefix); err != nil {
				log.Warn().Err(err).Str("couple_id", c.ID.String()).Msg("Failed to delete renditions during purge")
				lastErr = err
				continue
			}
			if err := s.repo.Delete(ctx, c.ID); err != nil {
				log.Warn().Err(err).Str("couple_id", c.ID.String()).Msg("Failed to delete couple during purge")
				lastErr = err
				continue
			}
			deleted++
			purged++
		}

		// Failed rows stay rejected and come straight back from the next
		// fetch. A pass with zero progress means everything left is failing;
		// stop and surface the error so the task is retried with backoff.
		if deleted == 0 {
			break
		}
	}

	if purged > 0 {
		s.invalidateLists(ctx, "purge")
	}
	return purged, lastErr
}

// =====================================================
// INVALIDATION
// =====================================================

// invalidateLists clears the shared list cache and broadcasts the change so
// other processes drop theirs. Best-effort on both legs: an unreachable
// cache or bus only extends staleness to the next TTL expiry.
func (s *coupleService) invalidateLists(ctx context.Context, reason string) {
	if err := s.sharedCache.DeletePattern(ctx, CacheKeyPrefix+"*"); err != nil {
		log.Warn().Err(err).Msg("Failed to invalidate couples cache")
	}

	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, broadcast.ChannelCouplesInvalidate, reason); err != nil {
		log.Warn().Err(err).Msg("Failed to broadcast invalidation")
	}
}
