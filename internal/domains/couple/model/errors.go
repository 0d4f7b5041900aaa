package model

import "errors"

var (
	// ErrCoupleNotFound is also returned on a names/secret mismatch during
	// removal: the response must not reveal which field was wrong.
	ErrCoupleNotFound = errors.New("couple not found")

	ErrSlugTaken            = errors.New("slug already taken")
	ErrSlugGenerationFailed = errors.New("failed to generate a unique slug")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrInvalidTransition    = errors.New("invalid moderation transition")
	ErrPhotoRequired        = errors.New("photo is required")
	ErrInvalidImage         = errors.New("invalid image")
	ErrPaymentRequired      = errors.New("payment required")
)
