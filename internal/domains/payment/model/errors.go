package model

import "errors"

var (
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrSessionNotPaid     = errors.New("checkout session not paid")
	ErrInvalidSignature   = errors.New("invalid webhook signature")
	ErrSessionAlreadyUsed = errors.New("checkout session already used")
)
