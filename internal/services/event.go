package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"eventstage/internal/domain"
	"eventstage/internal/requestctx"
)

type eventService struct {
	eventRepo      domain.EventRepository
	venueRepo      domain.VenueRepository
	publisher      domain.LifecyclePublisher
	speakerDir     domain.SpeakerDirectory
	emailService   domain.EmailService
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewEventService(eventRepo domain.EventRepository,
	venueRepo domain.VenueRepository,
	publisher domain.LifecyclePublisher,
	speakerDir domain.SpeakerDirectory,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		venueRepo:      venueRepo,
		publisher:      publisher,
		speakerDir:     speakerDir,
		emailService:   emailService,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	userID, err := requestctx.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	event.SpeakerID = userID
	event.Status = domain.StatusDraft

	if event.Name == "" {
		return fmt.Errorf("%w: event name is required", domain.ErrInvalidInput)
	}
	if !event.BookingStartDate.Before(event.BookingEndDate) {
		return domain.ErrInvalidWindow
	}
	if event.VenueID != "" {
		if _, err := s.venueRepo.GetByID(ctx, event.VenueID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("get venue: %w", err)
		}
	}

	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()
	return s.eventRepo.Create(ctx, event)
}

func (s *eventService) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) ListMyEvents(ctx context.Context) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	userID, err := requestctx.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}
	events, err := s.eventRepo.ListBySpeakerID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (s *eventService) ListVenues(ctx context.Context) ([]*domain.Venue, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	venues, err := s.venueRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}
	if venues == nil {
		venues = []*domain.Venue{}
	}
	return venues, nil
}

// transition loads the event, checks the caller and the edge, and persists
// the new status. Side effects (publishing, email) are the caller's concern.
func (s *eventService) transition(ctx context.Context, eventID string, next domain.EventStatus, ownerOnly bool, rejectionReason *string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	if ownerOnly {
		userID, err := requestctx.CurrentUserID(ctx)
		if err != nil {
			return nil, err
		}
		if event.SpeakerID != userID {
			return nil, domain.ErrForbidden
		}
	} else {
		role, err := requestctx.CurrentUserRole(ctx)
		if err != nil {
			return nil, err
		}
		if role != domain.RoleAdmin {
			return nil, domain.ErrForbidden
		}
	}

	if !event.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, event.Status, next)
	}

	updated, err := s.eventRepo.UpdateStatus(ctx, eventID, next, rejectionReason)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event status: %w", err)
	}
	return updated, nil
}

func (s *eventService) SubmitEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.transition(ctx, eventID, domain.StatusPendingApproval, true, nil)
}

func (s *eventService) ApproveEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	updated, err := s.transition(ctx, eventID, domain.StatusPublished, false, nil)
	if err != nil {
		return nil, err
	}

	capacity := 0
	if updated.VenueID != "" {
		venue, err := s.venueRepo.GetByID(ctx, updated.VenueID)
		if err != nil {
			s.logger.WarnContext(ctx, "venue lookup failed for published event",
				"event_id", updated.ID, "venue_id", updated.VenueID,
				"request_id", requestctx.RequestID(ctx), "err", err)
		} else {
			capacity = venue.Capacity
		}
	}

	// The status change is already committed; a failed publish still fails
	// the operation so callers never see success without a notification attempt.
	msg := domain.EventPublishedMessage{
		EventID:          updated.ID,
		SpeakerID:        updated.SpeakerID,
		Name:             updated.Name,
		Capacity:         capacity,
		BookingStartDate: updated.BookingStartDate,
		BookingEndDate:   updated.BookingEndDate,
	}
	if err := s.publisher.EventPublished(ctx, msg); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPublishFailed, err)
	}
	return updated, nil
}

func (s *eventService) RejectEvent(ctx context.Context, eventID, reason string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if reason == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", domain.ErrInvalidInput)
	}
	updated, err := s.transition(ctx, eventID, domain.StatusRejected, false, &reason)
	if err != nil {
		return nil, err
	}
	s.notifyRejection(ctx, updated, reason)
	return updated, nil
}

// notifyRejection emails the owning speaker the rejection reason. Both the
// profile lookup and the send are best-effort.
func (s *eventService) notifyRejection(ctx context.Context, event *domain.Event, reason string) {
	profile, err := s.speakerDir.GetSpeaker(ctx, event.SpeakerID)
	if err != nil {
		s.logger.WarnContext(ctx, "speaker lookup failed, skipping rejection notice",
			"event_id", event.ID, "speaker_id", event.SpeakerID,
			"request_id", requestctx.RequestID(ctx), "err", err)
		return
	}
	data := &domain.RejectionNoticeEmailData{
		Email:     profile.Email,
		EventName: event.Name,
		Reason:    reason,
	}
	if err := s.emailService.SendRejectionNotice(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "rejection notice email failed",
			"event_id", event.ID, "speaker_id", event.SpeakerID,
			"request_id", requestctx.RequestID(ctx), "err", err)
	}
}

func (s *eventService) ResubmitEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	// Passing a nil reason clears the stored rejection reason.
	return s.transition(ctx, eventID, domain.StatusPendingApproval, true, nil)
}

func (s *eventService) CancelEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	updated, err := s.transition(ctx, eventID, domain.StatusCancelled, false, nil)
	if err != nil {
		return nil, err
	}
	if err := s.publisher.EventCancelled(ctx, domain.EventCancelledMessage{EventID: updated.ID}); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPublishFailed, err)
	}
	return updated, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, eventID string, update domain.EventUpdate) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	role, _ := requestctx.CurrentUserRole(ctx)
	if role != domain.RoleAdmin {
		userID, err := requestctx.CurrentUserID(ctx)
		if err != nil {
			return nil, err
		}
		if event.SpeakerID != userID {
			return nil, domain.ErrForbidden
		}
		if !event.Status.Editable() {
			return nil, domain.ErrForbidden
		}
	}

	// Recompute the effective window with existing values for omitted fields.
	newStart := event.BookingStartDate
	if update.BookingStartDate != nil {
		newStart = *update.BookingStartDate
	}
	newEnd := event.BookingEndDate
	if update.BookingEndDate != nil {
		newEnd = *update.BookingEndDate
	}
	if !newStart.Before(newEnd) {
		return nil, domain.ErrInvalidWindow
	}

	if update.VenueID != nil && *update.VenueID != "" {
		if _, err := s.venueRepo.GetByID(ctx, *update.VenueID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrNotFound
			}
			return nil, fmt.Errorf("get venue: %w", err)
		}
	}

	updated, err := s.eventRepo.UpdateDetails(ctx, eventID, update)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}

	if event.Status == domain.StatusPublished {
		msg := domain.EventUpdatedMessage{
			EventID:       updated.ID,
			UpdatedFields: update.FieldNames(),
		}
		if err := s.publisher.EventUpdated(ctx, msg); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrPublishFailed, err)
		}
	}
	return updated, nil
}
