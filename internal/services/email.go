package services

import (
	"context"
	"fmt"
	"html/template"

	"eventstage/internal/domain"
)

type emailService struct {
	mailer domain.Mailer
}

// NewEmailService returns an EmailService that uses the given Mailer.
func NewEmailService(mailer domain.Mailer) domain.EmailService {
	return &emailService{mailer: mailer}
}

// SendRejectionNotice emails the event owner the rejection reason.
func (s *emailService) SendRejectionNotice(ctx context.Context, data *domain.RejectionNoticeEmailData) error {
	if data == nil {
		return fmt.Errorf("rejection notice data is nil")
	}
	if data.Email == "" {
		return fmt.Errorf("rejection notice recipient is empty")
	}
	subject := fmt.Sprintf("Your event %q was not approved", data.EventName)
	text := fmt.Sprintf(
		"Your event %q was reviewed and not approved.\n\nReason: %s\n\nYou can revise the event and resubmit it for approval.",
		data.EventName, data.Reason,
	)
	html := fmt.Sprintf(
		"<p>Your event <strong>%s</strong> was reviewed and not approved.</p><p>Reason: %s</p><p>You can revise the event and resubmit it for approval.</p>",
		template.HTMLEscapeString(data.EventName), template.HTMLEscapeString(data.Reason),
	)
	if err := s.mailer.Send(data.Email, subject, html, text); err != nil {
		return fmt.Errorf("failed to send rejection notice: %w", err)
	}
	return nil
}
