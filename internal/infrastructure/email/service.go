package email

import (
	"context"
	"fmt"
	"net/smtp"

	"lovewall-backend/pkg/logger"
)

// SecretCodeEmailData carries the submitter's removal code.
type SecretCodeEmailData struct {
	Email      string
	Names      string
	SecretCode string
	Slug       string
}

type EmailService interface {
	SendSecretCodeEmail(ctx context.Context, data SecretCodeEmailData) error
}

type smtpEmailService struct {
	smtpAddr string
	smtpFrom string
}

func NewSMTPEmailService(smtpHost, smtpPort, from string) EmailService {
	return &smtpEmailService{
		smtpAddr: smtpHost + ":" + smtpPort,
		smtpFrom: from,
	}
}

func (s *smtpEmailService) SendSecretCodeEmail(ctx context.Context, data SecretCodeEmailData) error {
	subject := "Your Love Wall Secret Code"
	body := fmt.Sprintf(`Hello %s!

Thank you for joining the Love Wall. Your photo has been received and will
be reviewed within 24 hours.

Your secret code: %s

Keep this code safe. Together with your names it is the only way to remove
your photo from the wall later. Removal is permanent and cannot be undone.

Your album page: /album/%s

With love,
The Love Wall team`, data.Names, data.SecretCode, data.Slug)

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.smtpFrom, data.Email, subject, body))

	if err := smtp.SendMail(s.smtpAddr, nil, s.smtpFrom, []string{data.Email}, msg); err != nil {
		logger.Info("Failed to send secret code email", map[string]interface{}{
			"error":     err.Error(),
			"to":        data.Email,
			"smtp_addr": s.smtpAddr,
		})
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
