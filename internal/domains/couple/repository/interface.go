package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"lovewall-backend/internal/domains/couple/model"
)

// Repository is the record store boundary for submissions.
type Repository interface {
	Create(ctx context.Context, couple *model.Couple) error

	// ListByStatus returns records in the canonical public order:
	// created_at ASC, id ASC. This ordering must be stable across refetches.
	ListByStatus(ctx context.Context, status model.Status, page, limit int) ([]model.Couple, int, error)

	// AdminList returns records newest first, optionally filtered by status
	// (empty status means all).
	AdminList(ctx context.Context, status model.Status, page, limit int) ([]model.Couple, int, error)

	GetByID(ctx context.Context, id uuid.UUID) (*model.Couple, error)
	GetBySlug(ctx context.Context, slug string) (*model.Couple, error)

	// FindByNamesAndSecret returns ErrCoupleNotFound on any mismatch,
	// without revealing which of the two fields was wrong.
	FindByNamesAndSecret(ctx context.Context, names, secretCode string) (*model.Couple, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, status model.Status) (*model.Couple, error)
	Delete(ctx context.Context, id uuid.UUID) error

	SlugExists(ctx context.Context, slug string) (bool, error)
	CountByStatus(ctx context.Context, status model.Status) (int, error)

	// ListRejectedBefore feeds the purge job.
	ListRejectedBefore(ctx context.Context, cutoff time.Time, limit int) ([]model.Couple, error)
}
