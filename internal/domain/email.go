package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// RejectionNoticeEmailData holds data for the event rejection notice.
type RejectionNoticeEmailData struct {
	Email     string
	EventName string
	Reason    string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendRejectionNotice(ctx context.Context, data *RejectionNoticeEmailData) error
}
