package domain

import (
	"context"
	"errors"
	"time"
)

// ErrPublishFailed indicates the lifecycle notification could not be
// delivered to the broker. Callers must treat it as fatal for the operation
// even though the underlying state change may already be committed; that
// coupling is deliberate and leaves a known consistency gap.
var ErrPublishFailed = errors.New("failed to publish lifecycle notification")

// Routing keys for lifecycle notifications.
const (
	RoutingKeyEventPublished = "event.published"
	RoutingKeyEventUpdated   = "event.updated"
	RoutingKeyEventCancelled = "event.cancelled"
)

// EventPublishedMessage announces that an event went live.
type EventPublishedMessage struct {
	EventID          string    `json:"event_id"`
	SpeakerID        string    `json:"speaker_id"`
	Name             string    `json:"name"`
	Capacity         int       `json:"capacity"`
	BookingStartDate time.Time `json:"booking_start_date"`
	BookingEndDate   time.Time `json:"booking_end_date"`
}

// EventUpdatedMessage announces a mutation of a published event.
type EventUpdatedMessage struct {
	EventID       string   `json:"event_id"`
	UpdatedFields []string `json:"updated_fields"`
}

// EventCancelledMessage announces that a published event was cancelled.
type EventCancelledMessage struct {
	EventID string `json:"event_id"`
}

// LifecyclePublisher delivers at-least-once, durable notifications of event
// state changes to downstream consumers.
type LifecyclePublisher interface {
	EventPublished(ctx context.Context, msg EventPublishedMessage) error
	EventUpdated(ctx context.Context, msg EventUpdatedMessage) error
	EventCancelled(ctx context.Context, msg EventCancelledMessage) error
}
