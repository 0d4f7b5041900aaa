package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"lovewall-backend/internal/domains/couple/model"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================

const coupleColumns = `
	id, slug, names, email, wedding_date, country, story,
	photo_url, thumb_url, secret_code, status, payment_id,
	created_at, updated_at
`

type postgresCoupleRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresCoupleRepository{pool: pool}
}

func scanCouple(row pgx.Row) (*model.Couple, error) {
	c := &model.Couple{}
	err := row.Scan(
		&c.ID,
		&c.Slug,
		&c.Names,
		&c.Email,
		&c.WeddingDate,
		&c.Country,
		&c.Story,
		&c.PhotoURL,
		&c.ThumbURL,
		&c.SecretCode,
		&c.Status,
		&c.PaymentID,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// =====================================================
// CREATE
// =====================================================

func (r *postgresCoupleRepository) Create(ctx context.Context, couple *model.Couple) error {
	query := `
		INSERT INTO couples (` + coupleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.pool.Exec(ctx, query,
		couple.ID,
		couple.Slug,
		couple.Names,
		couple.Email,
		couple.WeddingDate,
		couple.Country,
		couple.Story,
		couple.PhotoURL,
		couple.ThumbURL,
		couple.SecretCode,
		couple.Status,
		couple.PaymentID,
		couple.CreatedAt,
		couple.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrSlugTaken
		}
		return fmt.Errorf("failed to create couple: %w", err)
	}

	return nil
}

// =====================================================
// LIST
// =====================================================

func (r *postgresCoupleRepository) ListByStatus(
	ctx context.Context,
	status model.Status,
	page, limit int,
) ([]model.Couple, int, error) {
	// Oldest first: the wall fills positions in creation order, and the
	// order must not shift between refetches.
	query := `
		SELECT ` + coupleColumns + `
		FROM couples
		WHERE status = $1
		ORDER BY created_at ASC, id ASC
		LIMIT $2 OFFSET $3
	`

	offset := (page - 1) * limit
	rows, err := r.pool.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list couples: %w", err)
	}
	defer rows.Close()

	couples, err := collectCouples(rows)
	if err != nil {
		return nil, 0, err
	}

	total, err := r.CountByStatus(ctx, status)
	if err != nil {
		return nil, 0, err
	}

	return couples, total, nil
}

func (r *postgresCoupleRepository) AdminList(
	ctx context.Context,
	status model.Status,
	page, limit int,
) ([]model.Couple, int, error) {
	var conds []string
	var args []interface{}
	argCount := 1

	if status != "" {
		conds = append(conds, fmt.Sprintf("status = $%d", argCount))
		args = append(args, status)
		argCount++
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	query := `SELECT ` + coupleColumns + ` FROM couples` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list couples: %w", err)
	}
	defer rows.Close()

	couples, err := collectCouples(rows)
	if err != nil {
		return nil, 0, err
	}

	countQuery := `SELECT COUNT(*) FROM couples` + where
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args[:argCount-1]...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count couples: %w", err)
	}

	return couples, total, nil
}

func collectCouples(rows pgx.Rows) ([]model.Couple, error) {
	var couples []model.Couple
	for rows.Next() {
		c, err := scanCouple(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan couple: %w", err)
		}
		couples = append(couples, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read couples: %w", err)
	}
	return couples, nil
}

// =====================================================
// LOOKUPS
// =====================================================

func (r *postgresCoupleRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Couple, error) {
	query := `SELECT ` + coupleColumns + ` FROM couples WHERE id = $1`

	c, err := scanCouple(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCoupleNotFound
		}
		return nil, fmt.Errorf("failed to get couple: %w", err)
	}
	return c, nil
}

func (r *postgresCoupleRepository) GetBySlug(ctx context.Context, slug string) (*model.Couple, error) {
	query := `SELECT ` + coupleColumns + ` FROM couples WHERE slug = $1`

	c, err := scanCouple(r.pool.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCoupleNotFound
		}
		return nil, fmt.Errorf("failed to get couple by slug: %w", err)
	}
	return c, nil
}

func (r *postgresCoupleRepository) FindByNamesAndSecret(
	ctx context.Context,
	names, secretCode string,
) (*model.Couple, error) {
	// Single predicate on both fields: a mismatch on either yields the same
	// not-found result, never revealing which one was wrong.
	query := `SELECT ` + coupleColumns + ` FROM couples WHERE names = $1 AND secret_code = $2`

	c, err := scanCouple(r.pool.QueryRow(ctx, query, strings.TrimSpace(names), strings.TrimSpace(secretCode)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCoupleNotFound
		}
		return nil, fmt.Errorf("failed to find couple: %w", err)
	}
	return c, nil
}

// =====================================================
// MUTATIONS
// =====================================================

func (r *postgresCoupleRepository) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status model.Status,
) (*model.Couple, error) {
	if !status.Valid() {
		return nil, model.ErrInvalidStatus
	}

	query := `
		UPDATE couples
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + coupleColumns

	c, err := scanCouple(r.pool.QueryRow(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCoupleNotFound
		}
		return nil, fmt.Errorf("failed to update status: %w", err)
	}
	return c, nil
}

func (r *postgresCoupleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM couples WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete couple: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrCoupleNotFound
	}
	return nil
}

// =====================================================
// HELPERS
// =====================================================

func (r *postgresCoupleRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM couples WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	return exists, nil
}

func (r *postgresCoupleRepository) CountByStatus(ctx context.Context, status model.Status) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM couples WHERE status = $1`, status).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count couples: %w", err)
	}
	return total, nil
}

func (r *postgresCoupleRepository) ListRejectedBefore(
	ctx context.Context,
	cutoff time.Time,
	limit int,
) ([]model.Couple, error) {
	query := `
		SELECT ` + coupleColumns + `
		FROM couples
		WHERE status = $1 AND updated_at < $2
		ORDER BY updated_at ASC
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, model.StatusRejected, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list rejected couples: %w", err)
	}
	defer rows.Close()

	return collectCouples(rows)
}
