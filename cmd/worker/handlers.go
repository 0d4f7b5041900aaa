package main

import (
	"github.com/hibiken/asynq"

	coupleJob "lovewall-backend/internal/domains/couple/job"
	"lovewall-backend/internal/infrastructure/email"
	emailjob "lovewall-backend/internal/infrastructure/email/job"
	"lovewall-backend/internal/shared"
	"lovewall-backend/pkg/container"
)

// HandlerRegistry holds all job handlers.
type HandlerRegistry struct {
	secretCodeEmail *emailjob.SecretCodeEmailHandler
	deleteImages    *coupleJob.DeleteImagesHandler
	purgeRejected   *coupleJob.PurgeRejectedHandler
}

// initializeHandlers creates all job handlers with their dependencies.
func initializeHandlers(c *container.Container, cfg *Config) *HandlerRegistry {
	emailSvc := email.NewSMTPEmailService(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailFrom)

	return &HandlerRegistry{
		secretCodeEmail: emailjob.NewSecretCodeEmailHandler(emailSvc),
		deleteImages:    coupleJob.NewDeleteImagesHandler(c.Storage),
		purgeRejected:   coupleJob.NewPurgeRejectedHandler(c.CoupleService),
	}
}

// RegisterHandlers registers all handlers with the mux.
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeSendSecretCodeEmail, h.secretCodeEmail.ProcessTask)
	mux.HandleFunc(shared.TypeDeleteCoupleImages, h.deleteImages.ProcessTask)
	mux.HandleFunc(shared.TypePurgeRejected, h.purgeRejected.ProcessTask)
}
