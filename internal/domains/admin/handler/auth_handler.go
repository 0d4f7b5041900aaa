package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"lovewall-backend/internal/config"
	"lovewall-backend/internal/shared/response"
	"lovewall-backend/pkg/jwt"
)

// AuthHandler authenticates the single configured moderator account.
type AuthHandler struct {
	cfg        config.AdminConfig
	jwtManager *jwt.Manager
}

func NewAuthHandler(cfg config.AdminConfig, jwtManager *jwt.Manager) *AuthHandler {
	return &AuthHandler{cfg: cfg, jwtManager: jwtManager}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /api/v1/admin/login. A bcrypt mismatch and an unknown
// username return the same error.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if h.cfg.PasswordHash == "" {
		response.Forbidden(c, "admin login is disabled")
		return
	}

	if req.Username != h.cfg.Username ||
		bcrypt.CompareHashAndPassword([]byte(h.cfg.PasswordHash), []byte(req.Password)) != nil {
		response.Unauthorized(c, "invalid credentials")
		return
	}

	token, err := h.jwtManager.GenerateAdminToken(req.Username)
	if err != nil {
		log.Error().Err(err).Msg("Failed to generate admin token")
		response.InternalServerError(c, "failed to generate token")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"token": token})
}
