package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"lovewall-backend/internal/domains/couple/service"
	"lovewall-backend/internal/infrastructure/storage"
	"lovewall-backend/internal/shared"
	"lovewall-backend/internal/shared/utils"
)

// PurgeRejectedAfterDays is how long rejected submissions are kept before the
// scheduled purge removes them for good.
const PurgeRejectedAfterDays = 30

// DeleteImagesHandler removes every rendition of a deleted submission.
// Runs after the database row is already gone, so it retries safely.
type DeleteImagesHandler struct {
	minio *storage.MinIOStorage
}

func NewDeleteImagesHandler(minio *storage.MinIOStorage) *DeleteImagesHandler {
	return &DeleteImagesHandler{minio: minio}
}

func (h *DeleteImagesHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload shared.DeleteCoupleImagesPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w: %w", err, asynq.SkipRetry)
	}

	// A malformed id would make the prefix match nothing (or worse, too
	// much); refuse instead of retrying.
	if !utils.IsValidUUID(payload.CoupleID) {
		return fmt.Errorf("invalid couple id %q: %w", payload.CoupleID, asynq.SkipRetry)
	}

	prefix := fmt.Sprintf("%s/%s/", storage.PhotoFolder, payload.CoupleID)
	if err := h.minio.DeleteByPrefix(ctx, prefix); err != nil {
		return fmt.Errorf("failed to delete images for %s: %w", payload.CoupleID, err)
	}

	log.Info().Str("couple_id", payload.CoupleID).Msg("Deleted couple images")
	return nil
}

// PurgeRejectedHandler runs on a schedule and clears out old rejected
// submissions, database rows and renditions both.
type PurgeRejectedHandler struct {
	service service.Service
}

func NewPurgeRejectedHandler(svc service.Service) *PurgeRejectedHandler {
	return &PurgeRejectedHandler{service: svc}
}

func (h *PurgeRejectedHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	purged, err := h.service.PurgeRejected(ctx, PurgeRejectedAfterDays)
	if err != nil {
		return fmt.Errorf("purge rejected failed: %w", err)
	}

	log.Info().Int("purged", purged).Msg("Purged rejected submissions")
	return nil
}
