package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"lovewall-backend/internal/domains/couple/model"
)

// Service is the submission/moderation business logic boundary.
type Service interface {
	// Create records a pending submission: photo renditions uploaded,
	// unique slug assigned (bounded retry), secret-code email queued.
	Create(ctx context.Context, req model.CreateCoupleRequest, photo []byte) (*model.CreateCoupleResponse, error)

	// ListByStatus serves the public list. Callers outside the admin
	// surface always pass StatusApproved.
	ListByStatus(ctx context.Context, req model.ListCouplesRequest) ([]model.CoupleResponse, *model.PaginationMeta, error)

	GetBySlug(ctx context.Context, slug string) (*model.CoupleResponse, error)

	// Remove hard-deletes a submission authorized by names + secret code.
	// Any mismatch returns ErrCoupleNotFound.
	Remove(ctx context.Context, req model.RemoveCoupleRequest) error

	// Moderate applies an admin decision. Re-applying the current status is
	// an idempotent no-op success.
	Moderate(ctx context.Context, id uuid.UUID, status model.Status) (*model.CoupleResponse, error)

	AdminList(ctx context.Context, req model.ListCouplesRequest) ([]model.CoupleResponse, *model.PaginationMeta, error)
	AdminDelete(ctx context.Context, id uuid.UUID) error
	PendingCount(ctx context.Context) (int, error)

	// Export renders every submission into a spreadsheet for offline review.
	Export(ctx context.Context) (*excelize.File, error)

	// PurgeRejected deletes rejected submissions older than the cutoff,
	// images included. Returns the number purged.
	PurgeRejected(ctx context.Context, olderThanDays int) (int, error)
}
