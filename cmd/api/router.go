package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"lovewall-backend/internal/shared/middleware"
	"lovewall-backend/internal/shared/response"
	"lovewall-backend/pkg/container"
)

// SetupRouter wires every route to its handler.
func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS())

	v1 := router.Group("/api/v1")

	// Health
	v1.GET("/health", func(ctx *gin.Context) {
		status := "ok"
		code := http.StatusOK
		if err := c.DB.HealthCheck(ctx.Request.Context()); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		if err := c.Cache.Ping(ctx.Request.Context()); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		response.Success(ctx, code, gin.H{
			"status":  status,
			"version": c.Config.App.Version,
		})
	})

	// Public submission surface. Creation is rate limited per client IP:
	// the payment step already throttles abuse, this guards the upload path.
	couples := v1.Group("/couples")
	{
		couples.POST("", middleware.RateLimit(rate.Limit(1), 5), c.CoupleHandler.Create)
		couples.GET("", c.CoupleHandler.List)
		couples.POST("/remove", middleware.RateLimit(rate.Limit(1), 3), c.CoupleHandler.Remove)
		couples.GET("/:slug", c.CoupleHandler.GetBySlug)
	}

	// Wall views
	v1.GET("/wall", c.WallHandler.GetWall)
	v1.GET("/wall/stats", c.WallHandler.GetStats)
	v1.GET("/album", c.WallHandler.GetAlbum)
	v1.GET("/carousel/search", c.WallHandler.Search)

	// Checkout
	v1.POST("/checkout", c.PaymentHandler.Checkout)
	v1.POST("/checkout/verify", c.PaymentHandler.Verify)
	v1.POST("/webhooks/stripe", c.PaymentHandler.Webhook)

	// Admin
	admin := v1.Group("/admin")
	{
		admin.POST("/login", middleware.RateLimit(rate.Limit(0.5), 5), c.AuthHandler.Login)

		authed := admin.Group("", middleware.AdminAuth(c.JWTManager))
		{
			authed.GET("/couples", c.CoupleHandler.AdminList)
			authed.POST("/couples/:id/approve", c.CoupleHandler.Approve)
			authed.POST("/couples/:id/reject", c.CoupleHandler.Reject)
			authed.DELETE("/couples/:id", c.CoupleHandler.AdminDelete)
			authed.GET("/couples/export", c.CoupleHandler.Export)
		}
	}

	return router
}
