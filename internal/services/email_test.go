package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventstage/internal/domain"
)

type sentEmail struct {
	to      string
	subject string
	html    string
	text    string
}

type fakeMailer struct {
	sent []sentEmail
	err  error
}

func (m *fakeMailer) Send(to, subject, html, text string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentEmail{to: to, subject: subject, html: html, text: text})
	return nil
}

func TestEmailService_SendRejectionNotice(t *testing.T) {
	ctx := context.Background()

	t.Run("sends notice with reason", func(t *testing.T) {
		mailer := &fakeMailer{}
		svc := NewEmailService(mailer)

		err := svc.SendRejectionNotice(ctx, &domain.RejectionNoticeEmailData{
			Email:     "ada@example.com",
			EventName: "GopherConf",
			Reason:    "description too vague",
		})

		require.NoError(t, err)
		require.Len(t, mailer.sent, 1)
		msg := mailer.sent[0]
		assert.Equal(t, "ada@example.com", msg.to)
		assert.Contains(t, msg.subject, "GopherConf")
		assert.Contains(t, msg.text, "description too vague")
		assert.Contains(t, msg.html, "description too vague")
	})

	t.Run("escapes html in event name and reason", func(t *testing.T) {
		mailer := &fakeMailer{}
		svc := NewEmailService(mailer)

		err := svc.SendRejectionNotice(ctx, &domain.RejectionNoticeEmailData{
			Email:     "ada@example.com",
			EventName: "<script>alert(1)</script>",
			Reason:    "a & b",
		})

		require.NoError(t, err)
		require.Len(t, mailer.sent, 1)
		msg := mailer.sent[0]
		assert.NotContains(t, msg.html, "<script>")
		assert.Contains(t, msg.html, "&lt;script&gt;")
		assert.Contains(t, msg.html, "a &amp; b")
	})

	t.Run("nil data", func(t *testing.T) {
		mailer := &fakeMailer{}
		svc := NewEmailService(mailer)

		err := svc.SendRejectionNotice(ctx, nil)

		require.Error(t, err)
		assert.Empty(t, mailer.sent)
	})

	t.Run("empty recipient", func(t *testing.T) {
		mailer := &fakeMailer{}
		svc := NewEmailService(mailer)

		err := svc.SendRejectionNotice(ctx, &domain.RejectionNoticeEmailData{
			EventName: "GopherConf",
			Reason:    "missing venue",
		})

		require.Error(t, err)
		assert.Empty(t, mailer.sent)
	})

	t.Run("mailer failure is wrapped", func(t *testing.T) {
		sendErr := errors.New("ses throttled")
		svc := NewEmailService(&fakeMailer{err: sendErr})

		err := svc.SendRejectionNotice(ctx, &domain.RejectionNoticeEmailData{
			Email:     "ada@example.com",
			EventName: "GopherConf",
			Reason:    "missing venue",
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, sendErr)
	})
}
