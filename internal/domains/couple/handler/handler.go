package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"lovewall-backend/internal/domains/couple/model"
	"lovewall-backend/internal/domains/couple/service"
	paymentmodel "lovewall-backend/internal/domains/payment/model"
	"lovewall-backend/internal/shared/response"
)

// MaxPhotoBytes caps the uploaded photo part before decoding.
const MaxPhotoBytes = 4_500_000

type CoupleHandler struct {
	service service.Service
}

func NewCoupleHandler(svc service.Service) *CoupleHandler {
	return &CoupleHandler{service: svc}
}

// =====================================================
// PUBLIC
// =====================================================

// Create handles POST /api/v1/couples (multipart/form-data).
func (h *CoupleHandler) Create(c *gin.Context) {
	var req model.CreateCoupleRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "invalid form data")
		return
	}

	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		response.BadRequest(c, "photo is required")
		return
	}
	defer file.Close()

	if header.Size > MaxPhotoBytes {
		response.PayloadTooLarge(c, "photo exceeds 4.5MB")
		return
	}

	photo, err := io.ReadAll(io.LimitReader(file, MaxPhotoBytes+1))
	if err != nil {
		response.BadRequest(c, "cannot read photo")
		return
	}
	if len(photo) > MaxPhotoBytes {
		response.PayloadTooLarge(c, "photo exceeds 4.5MB")
		return
	}

	result, err := h.service.Create(c.Request.Context(), req, photo)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// List handles GET /api/v1/couples. The public surface only ever sees
// approved submissions, in stable creation order.
func (h *CoupleHandler) List(c *gin.Context) {
	req := model.ListCouplesRequest{
		Status: model.StatusApproved,
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 100),
	}

	couples, meta, err := h.service.ListByStatus(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, couples, &response.Meta{
		Page:  meta.Page,
		Limit: meta.Limit,
		Total: meta.Total,
		Pages: meta.Pages,
	})
}

// GetBySlug handles GET /api/v1/couples/:slug.
func (h *CoupleHandler) GetBySlug(c *gin.Context) {
	couple, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	if couple.Status != string(model.StatusApproved) {
		// Pending and rejected records stay invisible on the public surface.
		response.NotFound(c, "couple not found")
		return
	}

	response.Success(c, http.StatusOK, couple)
}

// Remove handles POST /api/v1/couples/remove.
func (h *CoupleHandler) Remove(c *gin.Context) {
	var req model.RemoveCoupleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := h.service.Remove(c.Request.Context(), req); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"removed": true})
}

// =====================================================
// ADMIN
// =====================================================

// AdminList handles GET /api/v1/admin/couples.
func (h *CoupleHandler) AdminList(c *gin.Context) {
	req := model.ListCouplesRequest{
		Status: model.Status(c.Query("status")),
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 100),
	}

	couples, meta, err := h.service.AdminList(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, couples, &response.Meta{
		Page:  meta.Page,
		Limit: meta.Limit,
		Total: meta.Total,
		Pages: meta.Pages,
	})
}

// Approve handles POST /api/v1/admin/couples/:id/approve.
func (h *CoupleHandler) Approve(c *gin.Context) {
	h.moderate(c, model.StatusApproved)
}

// Reject handles POST /api/v1/admin/couples/:id/reject.
func (h *CoupleHandler) Reject(c *gin.Context) {
	h.moderate(c, model.StatusRejected)
}

func (h *CoupleHandler) moderate(c *gin.Context, status model.Status) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid couple id")
		return
	}

	couple, err := h.service.Moderate(c.Request.Context(), id, status)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, couple)
}

// AdminDelete handles DELETE /api/v1/admin/couples/:id.
func (h *CoupleHandler) AdminDelete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid couple id")
		return
	}

	if err := h.service.AdminDelete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// Export handles GET /api/v1/admin/couples/export. Streams an xlsx file.
func (h *CoupleHandler) Export(c *gin.Context) {
	f, err := h.service.Export(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	filename := fmt.Sprintf("submissions-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := f.Write(c.Writer); err != nil {
		response.InternalServerError(c, "failed to write export")
	}
}

// =====================================================
// HELPERS
// =====================================================

func (h *CoupleHandler) handleError(c *gin.Context, err error) {
	var vErrs validation.Errors
	if errors.As(err, &vErrs) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", vErrs)
		return
	}

	switch {
	case errors.Is(err, model.ErrCoupleNotFound):
		response.NotFound(c, "couple not found")
	case errors.Is(err, model.ErrSlugTaken), errors.Is(err, model.ErrSlugGenerationFailed):
		response.Conflict(c, "could not allocate a unique page address, please retry")
	case errors.Is(err, model.ErrInvalidStatus):
		response.BadRequest(c, "invalid status")
	case errors.Is(err, model.ErrInvalidTransition):
		response.Conflict(c, "submission already moderated")
	case errors.Is(err, model.ErrPhotoRequired):
		response.BadRequest(c, "photo is required")
	case errors.Is(err, model.ErrInvalidImage):
		response.BadRequest(c, err.Error())
	case errors.Is(err, paymentmodel.ErrSessionNotPaid), errors.Is(err, model.ErrPaymentRequired):
		response.ErrorResponse(c, http.StatusPaymentRequired, "PAYMENT_REQUIRED", "a completed checkout session is required")
	case errors.Is(err, paymentmodel.ErrSessionAlreadyUsed):
		response.Conflict(c, "checkout session already used")
	case errors.Is(err, paymentmodel.ErrPaymentNotFound):
		response.BadRequest(c, "unknown checkout session")
	default:
		response.InternalServerError(c, "something went wrong")
	}
}

func queryInt(c *gin.Context, key string, def int) int {
	var v int
	if _, err := fmt.Sscanf(c.Query(key), "%d", &v); err != nil {
		return def
	}
	return v
}
