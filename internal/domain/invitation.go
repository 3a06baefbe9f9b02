package domain

import (
	"context"
	"time"
)

// InvitationStatus is the lifecycle state of a peer-service invitation.
// Invitations are owned by the speaker-management service; this service
// only reads them to detect scheduling conflicts.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "PENDING"
	InvitationAccepted InvitationStatus = "ACCEPTED"
	InvitationDeclined InvitationStatus = "DECLINED"
	InvitationExpired  InvitationStatus = "EXPIRED"
)

// Invitation is a speaker-management record of an offer to present.
type Invitation struct {
	ID        string           `json:"id"`
	SpeakerID string           `json:"speaker_id"`
	EventID   string           `json:"event_id"`
	SessionID *string          `json:"session_id,omitempty"`
	Status    InvitationStatus `json:"status"`
}

// SessionWindow is the time window of a session as reported by the
// speaker-management service.
type SessionWindow struct {
	SessionID string    `json:"session_id"`
	Title     string    `json:"title"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
}

// SpeakerProfile is the subset of a speaker record needed for notifications.
type SpeakerProfile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SpeakerDirectory is the client interface to the speaker-management peer
// service. Callers must treat failures as non-fatal: the conflict check
// degrades to assume-no-conflict and invitation bookkeeping is best-effort.
type SpeakerDirectory interface {
	ListAcceptedInvitations(ctx context.Context, speakerID string) ([]*Invitation, error)
	GetSessionWindow(ctx context.Context, sessionID string) (*SessionWindow, error)
	GetSpeaker(ctx context.Context, speakerID string) (*SpeakerProfile, error)
	CreateInvitation(ctx context.Context, speakerID, eventID, sessionID string) error
	DeleteInvitation(ctx context.Context, sessionID, speakerID string) error
}
