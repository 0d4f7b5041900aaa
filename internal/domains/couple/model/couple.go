package model

import (
	"time"

	"github.com/google/uuid"
)

// Status is the moderation state of a submission.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Couple is a submission: one couple, one photo, one spot on the wall.
// Created as pending; only approved submissions appear on public surfaces.
type Couple struct {
	ID   uuid.UUID `json:"id"`
	Slug string    `json:"slug"`

	Names       string     `json:"names"`
	Email       *string    `json:"email,omitempty"`
	WeddingDate *time.Time `json:"weddingDate,omitempty"`
	Country     *string    `json:"country,omitempty"`
	Story       *string    `json:"story,omitempty"`

	PhotoURL string `json:"photoUrl"`
	ThumbURL string `json:"thumbUrl"`

	// SecretCode plus Names authorize self-service removal. Never returned
	// on public reads.
	SecretCode string `json:"-"`

	Status    Status  `json:"status"`
	PaymentID *string `json:"paymentId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CanTransitionTo enforces the moderation state machine: decisions are made
// from pending only. Re-applying the current status is an idempotent no-op
// handled by the caller.
func (c *Couple) CanTransitionTo(next Status) bool {
	if c.Status == next {
		return true
	}
	return c.Status == StatusPending && (next == StatusApproved || next == StatusRejected)
}
