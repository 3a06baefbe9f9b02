package domain

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Sentinel errors shared across event operations.
var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidTransition = errors.New("invalid event status transition")
	ErrInvalidWindow     = errors.New("booking start date must be before booking end date")
)

// EventStatus is the approval state of an event. The zero value is StatusDraft.
type EventStatus int

const (
	StatusDraft EventStatus = iota
	StatusPendingApproval
	StatusRejected
	StatusPublished
	StatusCancelled
	StatusCompleted
)

var eventStatusNames = map[EventStatus]string{
	StatusDraft:           "DRAFT",
	StatusPendingApproval: "PENDING_APPROVAL",
	StatusRejected:        "REJECTED",
	StatusPublished:       "PUBLISHED",
	StatusCancelled:       "CANCELLED",
	StatusCompleted:       "COMPLETED",
}

// legalTransitions is the closed edge set of the event state machine.
// Absent entries are illegal.
var legalTransitions = map[EventStatus]map[EventStatus]bool{
	StatusDraft:           {StatusPendingApproval: true},
	StatusPendingApproval: {StatusPublished: true, StatusRejected: true},
	StatusRejected:        {StatusPendingApproval: true},
	StatusPublished:       {StatusCancelled: true, StatusCompleted: true},
}

func (s EventStatus) String() string {
	if name, ok := eventStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("EventStatus(%d)", int(s))
}

// ParseEventStatus converts a stored status string to an EventStatus.
func ParseEventStatus(s string) (EventStatus, error) {
	for status, name := range eventStatusNames {
		if name == s {
			return status, nil
		}
	}
	return StatusDraft, fmt.Errorf("unknown event status %q", s)
}

// CanTransitionTo reports whether the edge s -> next is legal.
func (s EventStatus) CanTransitionTo(next EventStatus) bool {
	return legalTransitions[s][next]
}

// Editable reports whether the owning speaker may edit event details in this status.
func (s EventStatus) Editable() bool {
	return s == StatusDraft || s == StatusRejected
}

func (s EventStatus) MarshalJSON() ([]byte, error) {
	name, ok := eventStatusNames[s]
	if !ok {
		return nil, fmt.Errorf("unknown event status %d", int(s))
	}
	return json.Marshal(name)
}

func (s *EventStatus) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	status, err := ParseEventStatus(name)
	if err != nil {
		return err
	}
	*s = status
	return nil
}

// Value implements driver.Valuer so the status is stored as text.
func (s EventStatus) Value() (driver.Value, error) {
	name, ok := eventStatusNames[s]
	if !ok {
		return nil, fmt.Errorf("unknown event status %d", int(s))
	}
	return name, nil
}

// Scan implements sql.Scanner for text status columns.
func (s *EventStatus) Scan(src any) error {
	var name string
	switch v := src.(type) {
	case string:
		name = v
	case []byte:
		name = string(v)
	default:
		return fmt.Errorf("cannot scan %T into EventStatus", src)
	}
	status, err := ParseEventStatus(name)
	if err != nil {
		return err
	}
	*s = status
	return nil
}

// Event represents a managed event and its approval state.
// swagger:model Event
type Event struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	Description      string      `json:"description"`
	Category         string      `json:"category"`
	Status           EventStatus `json:"status"`
	SpeakerID        string      `json:"speaker_id"`
	VenueID          string      `json:"venue_id"`
	BookingStartDate time.Time   `json:"booking_start_date"`
	BookingEndDate   time.Time   `json:"booking_end_date"`
	RejectionReason  *string     `json:"rejection_reason,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// NewEvent returns a new draft Event owned by speakerID. ID is typically set by the repository on create.
func NewEvent(name, description, category, speakerID, venueID string, bookingStart, bookingEnd time.Time, createdAt, updatedAt time.Time) *Event {
	return &Event{
		Name:             name,
		Description:      description,
		Category:         category,
		Status:           StatusDraft,
		SpeakerID:        speakerID,
		VenueID:          venueID,
		BookingStartDate: bookingStart,
		BookingEndDate:   bookingEnd,
		CreatedAt:        createdAt,
		UpdatedAt:        updatedAt,
	}
}

// EventUpdate carries a partial edit of event details. Nil fields are left unchanged.
type EventUpdate struct {
	Name             *string
	Description      *string
	Category         *string
	VenueID          *string
	BookingStartDate *time.Time
	BookingEndDate   *time.Time
}

// FieldNames returns the names of the fields this update touches, in a fixed order.
func (u EventUpdate) FieldNames() []string {
	var fields []string
	if u.Name != nil {
		fields = append(fields, "name")
	}
	if u.Description != nil {
		fields = append(fields, "description")
	}
	if u.Category != nil {
		fields = append(fields, "category")
	}
	if u.VenueID != nil {
		fields = append(fields, "venueId")
	}
	if u.BookingStartDate != nil {
		fields = append(fields, "bookingStartDate")
	}
	if u.BookingEndDate != nil {
		fields = append(fields, "bookingEndDate")
	}
	return fields
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	ListBySpeakerID(ctx context.Context, speakerID string) ([]*Event, error)
	// UpdateStatus sets the status and rejection reason (nil clears it) and returns the updated row.
	UpdateStatus(ctx context.Context, id string, status EventStatus, rejectionReason *string) (*Event, error)
	UpdateDetails(ctx context.Context, id string, update EventUpdate) (*Event, error)
}

// EventService defines the business logic for the event approval workflow.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event) error
	GetEvent(ctx context.Context, eventID string) (*Event, error)
	ListMyEvents(ctx context.Context) ([]*Event, error)
	SubmitEvent(ctx context.Context, eventID string) (*Event, error)
	ApproveEvent(ctx context.Context, eventID string) (*Event, error)
	RejectEvent(ctx context.Context, eventID, reason string) (*Event, error)
	ResubmitEvent(ctx context.Context, eventID string) (*Event, error)
	CancelEvent(ctx context.Context, eventID string) (*Event, error)
	UpdateEvent(ctx context.Context, eventID string, update EventUpdate) (*Event, error)
	ListVenues(ctx context.Context) ([]*Venue, error)
}
