package domain

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for session scheduling.
var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrInvalidSchedule  = errors.New("invalid session schedule")
	ErrOutsideWindow    = errors.New("session schedule must fall within the event booking window")
)

// Session represents a time-boxed slot within an event's program.
// swagger:model Session
type Session struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	Stage       *string   `json:"stage,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewSession returns a new Session under eventID. ID is typically set by the repository on create.
func NewSession(eventID, title string, description *string, startsAt, endsAt time.Time, stage *string, createdAt, updatedAt time.Time) *Session {
	return &Session{
		EventID:     eventID,
		Title:       title,
		Description: description,
		StartsAt:    startsAt,
		EndsAt:      endsAt,
		Stage:       stage,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// Overlaps reports whether [s.StartsAt, s.EndsAt) overlaps [start, end).
func (s *Session) Overlaps(start, end time.Time) bool {
	return s.StartsAt.Before(end) && s.EndsAt.After(start)
}

// SessionUpdate carries a partial edit of a session. Nil fields are left unchanged.
type SessionUpdate struct {
	Title       *string
	Description *string
	StartsAt    *time.Time
	EndsAt      *time.Time
	Stage       *string
}

// SessionRepository defines the interface for session storage.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	GetByID(ctx context.Context, id string) (*Session, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Session, error)
	Update(ctx context.Context, id string, update SessionUpdate) (*Session, error)
	// Delete removes the session; speaker assignments cascade at the database level.
	Delete(ctx context.Context, id string) error
}

// ScheduleService defines the business logic for session scheduling.
type ScheduleService interface {
	ListSessions(ctx context.Context, eventID string) ([]*Session, error)
	CreateSession(ctx context.Context, eventID string, session *Session) error
	UpdateSession(ctx context.Context, eventID, sessionID string, update SessionUpdate) (*Session, error)
	DeleteSession(ctx context.Context, eventID, sessionID string) error
}

// MaterialsStatus is the review state of a speaker's session materials.
type MaterialsStatus int

const (
	MaterialsPending MaterialsStatus = iota
	MaterialsSubmitted
	MaterialsApproved
)

var materialsStatusNames = map[MaterialsStatus]string{
	MaterialsPending:   "PENDING",
	MaterialsSubmitted: "SUBMITTED",
	MaterialsApproved:  "APPROVED",
}

func (m MaterialsStatus) String() string {
	if name, ok := materialsStatusNames[m]; ok {
		return name
	}
	return fmt.Sprintf("MaterialsStatus(%d)", int(m))
}

// ParseMaterialsStatus converts a stored status string to a MaterialsStatus.
func ParseMaterialsStatus(s string) (MaterialsStatus, error) {
	for status, name := range materialsStatusNames {
		if name == s {
			return status, nil
		}
	}
	return MaterialsPending, fmt.Errorf("unknown materials status %q", s)
}

func (m MaterialsStatus) MarshalJSON() ([]byte, error) {
	name, ok := materialsStatusNames[m]
	if !ok {
		return nil, fmt.Errorf("unknown materials status %d", int(m))
	}
	return json.Marshal(name)
}

func (m *MaterialsStatus) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	status, err := ParseMaterialsStatus(name)
	if err != nil {
		return err
	}
	*m = status
	return nil
}

func (m MaterialsStatus) Value() (driver.Value, error) {
	name, ok := materialsStatusNames[m]
	if !ok {
		return nil, fmt.Errorf("unknown materials status %d", int(m))
	}
	return name, nil
}

func (m *MaterialsStatus) Scan(src any) error {
	var name string
	switch v := src.(type) {
	case string:
		name = v
	case []byte:
		name = string(v)
	default:
		return fmt.Errorf("cannot scan %T into MaterialsStatus", src)
	}
	status, err := ParseMaterialsStatus(name)
	if err != nil {
		return err
	}
	*m = status
	return nil
}
