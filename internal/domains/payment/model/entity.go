package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusCreated PaymentStatus = "created"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// SubmissionPrice is the flat price of one wall spot, in the checkout
// currency's major unit.
var SubmissionPrice = decimal.NewFromInt(5)

const SubmissionCurrency = "usd"

// Payment tracks one checkout session from creation to settlement. The
// session ID is the join key to the gateway, CoupleID is filled in once a
// submission references the session.
type Payment struct {
	ID        uuid.UUID
	SessionID string
	Amount    decimal.Decimal
	Currency  string
	Status    PaymentStatus
	CoupleID  *uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}
