package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lovewall-backend/internal/domains/payment/model"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================

const paymentColumns = `
	id, session_id, amount, currency, status, couple_id, created_at, updated_at
`

type postgresPaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresPaymentRepository{pool: pool}
}

func scanPayment(row pgx.Row) (*model.Payment, error) {
	p := &model.Payment{}
	err := row.Scan(
		&p.ID,
		&p.SessionID,
		&p.Amount,
		&p.Currency,
		&p.Status,
		&p.CoupleID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresPaymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		payment.ID,
		payment.SessionID,
		payment.Amount,
		payment.Currency,
		payment.Status,
		payment.CoupleID,
		payment.CreatedAt,
		payment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (r *postgresPaymentRepository) GetBySessionID(ctx context.Context, sessionID string) (*model.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE session_id = $1`

	p, err := scanPayment(r.pool.QueryRow(ctx, query, sessionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return p, nil
}

func (r *postgresPaymentRepository) UpdateStatus(ctx context.Context, sessionID string, status model.PaymentStatus) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE payments SET status = $2, updated_at = NOW() WHERE session_id = $1`,
		sessionID, status,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrPaymentNotFound
	}
	return nil
}

func (r *postgresPaymentRepository) AttachCouple(ctx context.Context, sessionID string, coupleID uuid.UUID) error {
	// couple_id IS NULL in the predicate makes the link single-use: a second
	// submission on the same session affects zero rows.
	result, err := r.pool.Exec(ctx,
		`UPDATE payments SET couple_id = $2, updated_at = NOW() WHERE session_id = $1 AND couple_id IS NULL`,
		sessionID, coupleID,
	)
	if err != nil {
		return fmt.Errorf("failed to attach couple: %w", err)
	}

	if result.RowsAffected() == 0 {
		if _, getErr := r.GetBySessionID(ctx, sessionID); getErr != nil {
			return getErr
		}
		return model.ErrSessionAlreadyUsed
	}
	return nil
}
