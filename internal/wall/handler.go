package wall

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lovewall-backend/internal/shared/response"
)

type Handler struct {
	service *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{service: svc}
}

// GetWall handles GET /api/v1/wall?size=320.
func (h *Handler) GetWall(c *gin.Context) {
	size, _ := strconv.ParseFloat(c.Query("size"), 64)

	view, err := h.service.Wall(c.Request.Context(), size)
	if err != nil {
		response.InternalServerError(c, "failed to render wall")
		return
	}
	response.Success(c, http.StatusOK, view)
}

// GetStats handles GET /api/v1/wall/stats.
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.service.WallStats(c.Request.Context())
	if err != nil {
		response.InternalServerError(c, "failed to load stats")
		return
	}
	response.Success(c, http.StatusOK, stats)
}

// GetAlbum handles GET /api/v1/album?page=1&limit=100.
func (h *Handler) GetAlbum(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	album, err := h.service.Album(c.Request.Context(), page, limit)
	if err != nil {
		response.InternalServerError(c, "failed to load album")
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, album.Couples, &response.Meta{
		Page:  album.Meta.Page,
		Limit: album.Meta.Limit,
		Total: album.Meta.Total,
		Pages: album.Meta.Pages,
	})
}

// Search handles GET /api/v1/carousel/search?q=...&from=-1&direction=next.
func (h *Handler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		response.BadRequest(c, "q is required")
		return
	}

	from := -1
	if raw := c.Query("from"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(c, "from must be an integer")
			return
		}
		from = v
	}

	direction := c.Query("dir")
	if direction == "" {
		direction = c.DefaultQuery("direction", SearchForward)
	}
	if direction != SearchForward && direction != SearchBackward {
		response.BadRequest(c, "direction must be next or prev")
		return
	}

	result, err := h.service.CarouselSearch(c.Request.Context(), query, from, direction)
	if err != nil {
		response.InternalServerError(c, "search failed")
		return
	}
	response.Success(c, http.StatusOK, result)
}
