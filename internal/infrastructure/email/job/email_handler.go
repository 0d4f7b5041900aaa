package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"lovewall-backend/internal/infrastructure/email"
	"lovewall-backend/internal/shared"
)

// SecretCodeEmailHandler delivers the removal code after a submission is
// recorded. The submission itself never waits on this; a failed delivery is
// retried by asynq and the code is also shown in-app.
type SecretCodeEmailHandler struct {
	emailService email.EmailService
}

func NewSecretCodeEmailHandler(emailService email.EmailService) *SecretCodeEmailHandler {
	return &SecretCodeEmailHandler{
		emailService: emailService,
	}
}

func (h *SecretCodeEmailHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.SecretCodeEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal SecretCodeEmail payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	log.Info().
		Str("email", payload.Email).
		Str("slug", payload.Slug).
		Msg("Sending secret code email")

	data := email.SecretCodeEmailData{
		Email:      payload.Email,
		Names:      payload.Names,
		SecretCode: payload.SecretCode,
		Slug:       payload.Slug,
	}
	if err := h.emailService.SendSecretCodeEmail(ctx, data); err != nil {
		log.Error().Err(err).Str("email", payload.Email).Msg("Failed to send secret code email")
		return fmt.Errorf("send secret code email: %w", err)
	}

	return nil
}
