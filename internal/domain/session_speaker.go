package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for speaker assignments.
var (
	ErrSpeakerAlreadyAssigned = errors.New("speaker already assigned to this session")
	ErrSpeakerConflict        = errors.New("speaker schedule conflict")
)

// SessionSpeaker is the assignment of a speaker to a session, carrying
// materials and check-in state. At most one row exists per (session, speaker).
// swagger:model SessionSpeaker
type SessionSpeaker struct {
	ID                      string          `json:"id"`
	SessionID               string          `json:"session_id"`
	SpeakerID               string          `json:"speaker_id"`
	MaterialsAssetID        *string         `json:"materials_asset_id,omitempty"`
	MaterialsStatus         MaterialsStatus `json:"materials_status"`
	SpeakerCheckinConfirmed bool            `json:"speaker_checkin_confirmed"`
	SpecialNotes            *string         `json:"special_notes,omitempty"`
	CreatedAt               time.Time       `json:"created_at"`
	UpdatedAt               time.Time       `json:"updated_at"`
}

// NewSessionSpeaker returns a new assignment with materials pending.
func NewSessionSpeaker(sessionID, speakerID string, specialNotes *string, createdAt, updatedAt time.Time) *SessionSpeaker {
	return &SessionSpeaker{
		SessionID:       sessionID,
		SpeakerID:       speakerID,
		MaterialsStatus: MaterialsPending,
		SpecialNotes:    specialNotes,
		CreatedAt:       createdAt,
		UpdatedAt:       updatedAt,
	}
}

// SessionSpeakerUpdate carries a partial edit of an assignment. Nil fields are left unchanged.
type SessionSpeakerUpdate struct {
	MaterialsAssetID        *string
	MaterialsStatus         *MaterialsStatus
	SpeakerCheckinConfirmed *bool
	SpecialNotes            *string
}

// SessionSpeakerRepository defines the interface for speaker assignment storage.
// Create must return ErrSpeakerAlreadyAssigned when the (session, speaker)
// uniqueness constraint is violated; that constraint is the only arbiter of
// concurrent duplicate assignments.
type SessionSpeakerRepository interface {
	Create(ctx context.Context, assignment *SessionSpeaker) error
	Get(ctx context.Context, sessionID, speakerID string) (*SessionSpeaker, error)
	ListBySessionID(ctx context.Context, sessionID string) ([]*SessionSpeaker, error)
	Update(ctx context.Context, sessionID, speakerID string, update SessionSpeakerUpdate) (*SessionSpeaker, error)
	Delete(ctx context.Context, sessionID, speakerID string) error
}

// SpeakerAssignmentService defines the business logic for assigning speakers
// to sessions, including the cross-service conflict check.
type SpeakerAssignmentService interface {
	ListSessionSpeakers(ctx context.Context, eventID, sessionID string) ([]*SessionSpeaker, error)
	AssignSpeaker(ctx context.Context, eventID, sessionID, speakerID string, specialNotes *string) (*SessionSpeaker, error)
	UpdateAssignment(ctx context.Context, eventID, sessionID, speakerID string, update SessionSpeakerUpdate) (*SessionSpeaker, error)
	RemoveSpeaker(ctx context.Context, eventID, sessionID, speakerID string) error
}
