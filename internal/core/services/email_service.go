package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/notely/notely_backend/internal/core/domain"
	portssvc "github.com/notely/notely_backend/internal/core/ports/services"
	"github.com/resend/resend-go/v2"
)

// emailService delivers transactional mail through Resend. Without an API
// key in development the mail is logged instead of sent, so the full flow
// stays exercisable locally.
type emailService struct {
	client *resend.Client
	from   string
	isDev  bool
}

// NewEmailService creates the outbound mail notifier.
func NewEmailService(apiKey, from string, isProduction bool) portssvc.NotifierSvc {
	var client *resend.Client
	if apiKey != "" {
		client = resend.NewClient(apiKey)
	}
	return &emailService{
		client: client,
		from:   from,
		isDev:  !isProduction,
	}
}

func (s *emailService) SendPasswordReset(ctx context.Context, user *domain.User, resetURL string) error {
	subject := "Reset your Notely password"
	body := fmt.Sprintf(
		"Hi %s,\n\nForgot your password? Open the link below to choose a new one. "+
			"The link is valid for 10 minutes and can be used once.\n\n%s\n\n"+
			"If you didn't request this, you can safely ignore this email.\n",
		user.Name, resetURL,
	)

	if s.client == nil {
		if s.isDev {
			slog.Info("password reset email (dev mode, not sent)", "to", user.Email, "url", resetURL)
			return nil
		}
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{user.Email},
		Subject: subject,
		Text:    body,
	}
	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	return nil
}
