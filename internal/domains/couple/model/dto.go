package model

import (
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var secretCodePattern = regexp.MustCompile(`^[0-9]{8}$`)

// CreateCoupleRequest carries the multipart form fields of a submission.
// The photo bytes travel separately.
type CreateCoupleRequest struct {
	Names       string `form:"names"`
	Email       string `form:"email"`
	WeddingDate string `form:"weddingDate"` // 2006-01-02, optional
	Country     string `form:"country"`
	Story       string `form:"story"`
	// SecretCode is client-supplied per the public API contract; when empty
	// the service generates one.
	SecretCode string `form:"secretCode"`
	// PaymentSessionID references the verified checkout session.
	PaymentSessionID string `form:"paymentSessionId"`
}

func (r CreateCoupleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Names, validation.Required, validation.Length(1, 120)),
		validation.Field(&r.Email, is.Email),
		validation.Field(&r.WeddingDate, validation.Date("2006-01-02")),
		validation.Field(&r.Country, validation.Length(0, 80)),
		validation.Field(&r.Story, validation.Length(0, 500)),
		validation.Field(&r.SecretCode, validation.Match(secretCodePattern).Error("must be an 8-digit code")),
	)
}

// RemoveCoupleRequest authorizes a hard delete by names + secret code.
type RemoveCoupleRequest struct {
	Names      string `json:"names"`
	SecretCode string `json:"secretCode"`
	Reason     string `json:"reason"`
}

func (r RemoveCoupleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Names, validation.Required),
		validation.Field(&r.SecretCode, validation.Required),
	)
}

// ListCouplesRequest is the paging envelope for list reads.
type ListCouplesRequest struct {
	Status Status
	Page   int
	Limit  int
}

func (r *ListCouplesRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 || r.Limit > 500 {
		r.Limit = 100
	}
}

// PaginationMeta mirrors the public {page, limit, total, pages} shape.
type PaginationMeta struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

func NewPaginationMeta(page, limit, total int) *PaginationMeta {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return &PaginationMeta{Page: page, Limit: limit, Total: total, Pages: pages}
}

// CoupleResponse is the public projection of a submission. The secret code
// never appears here.
type CoupleResponse struct {
	ID          string  `json:"id"`
	Slug        string  `json:"slug"`
	Names       string  `json:"names"`
	WeddingDate *string `json:"weddingDate"`
	Country     *string `json:"country"`
	Story       *string `json:"story"`
	PhotoURL    string  `json:"photoUrl"`
	ThumbURL    string  `json:"thumbUrl"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// CreateCoupleResponse is returned once, right after creation. It repeats
// the secret code in-app so the submitter still has it if the email fails.
type CreateCoupleResponse struct {
	Couple     CoupleResponse `json:"couple"`
	SecretCode string         `json:"secretCode"`
	EmailSent  bool           `json:"emailSent"`
}

// ToResponse normalizes the entity into the public projection. Optional
// fields from the store surface as explicit nulls, so consumers never deal
// with missing keys.
func ToResponse(c Couple) CoupleResponse {
	resp := CoupleResponse{
		ID:        c.ID.String(),
		Slug:      c.Slug,
		Names:     c.Names,
		Country:   c.Country,
		Story:     c.Story,
		PhotoURL:  c.PhotoURL,
		ThumbURL:  c.ThumbURL,
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.UTC().Format(time.RFC3339),
	}

	if c.WeddingDate != nil {
		d := c.WeddingDate.UTC().Format(time.RFC3339)
		resp.WeddingDate = &d
	}

	return resp
}

// ToResponses maps a slice preserving order.
func ToResponses(couples []Couple) []CoupleResponse {
	out := make([]CoupleResponse, len(couples))
	for i, c := range couples {
		out[i] = ToResponse(c)
	}
	return out
}
