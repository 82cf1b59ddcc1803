package service

import (
	"context"
	"fmt"
	"time"

	"drc-backend/internal/config"
	"drc-backend/internal/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type emailService struct {
	cfg config.EmailConfig
}

// NewEmailService builds the SendGrid-backed mailer. With email disabled in
// config it degrades to logging what would have been sent, which is what
// dev and CI run with.
func NewEmailService(cfg config.EmailConfig) EmailService {
	return &emailService{cfg: cfg}
}

func (s *emailService) send(ctx context.Context, to, toName, subject, plainText, htmlContent string) error {
	if !s.cfg.Enabled {
		logger.Debug("email disabled, skipping send", "to", to, "subject", subject)
		return nil
	}

	from := mail.NewEmail(s.cfg.FromName, s.cfg.From)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	client := sendgrid.NewSendClient(s.cfg.APIKey)
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *emailService) SendOverdueReminder(ctx context.Context, email, name, containerID string, dueAt time.Time) error {
	subject := fmt.Sprintf("Container %s is overdue", containerID)
	plainText := fmt.Sprintf(
		"Hi %s, container %s was due back on %s. Please return it to any participating dining location.",
		name, containerID, dueAt.Format("Jan 2, 2006 3:04 PM"))
	htmlContent := fmt.Sprintf(`
		<html>
		<body>
			<p>Hi %s,</p>
			<p>Container <strong>%s</strong> was due back on <strong>%s</strong>.</p>
			<p>Please return it to any participating dining location to avoid further late fees.</p>
		</body>
		</html>`,
		name, containerID, dueAt.Format("Jan 2, 2006 3:04 PM"))
	return s.send(ctx, email, name, subject, plainText, htmlContent)
}

func (s *emailService) SendAchievementUnlocked(ctx context.Context, email, name, badge string) error {
	subject := fmt.Sprintf("Achievement unlocked: %s", badge)
	plainText := fmt.Sprintf(
		"Congratulations %s! You just earned the %s badge. Check your impact dashboard to see your progress.",
		name, badge)
	htmlContent := fmt.Sprintf(`
		<html>
		<body>
			<p>Congratulations %s!</p>
			<p>You just earned the <strong>%s</strong> badge.</p>
			<p>Check your impact dashboard to see your progress toward the next one.</p>
		</body>
		</html>`,
		name, badge)
	return s.send(ctx, email, name, subject, plainText, htmlContent)
}
