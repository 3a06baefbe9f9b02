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

type scheduleService struct {
	eventRepo          domain.EventRepository
	sessionRepo        domain.SessionRepository
	sessionSpeakerRepo domain.SessionSpeakerRepository
	speakerDir         domain.SpeakerDirectory
	logger             *slog.Logger
	contextTimeout     time.Duration
}

func NewScheduleService(eventRepo domain.EventRepository,
	sessionRepo domain.SessionRepository,
	sessionSpeakerRepo domain.SessionSpeakerRepository,
	speakerDir domain.SpeakerDirectory,
	logger *slog.Logger,
	timeout time.Duration,
) domain.ScheduleService {
	return &scheduleService{
		eventRepo:          eventRepo,
		sessionRepo:        sessionRepo,
		sessionSpeakerRepo: sessionSpeakerRepo,
		speakerDir:         speakerDir,
		logger:             logger,
		contextTimeout:     timeout,
	}
}

// validateWindow checks startsAt < endsAt and containment in the event's
// booking window.
func validateWindow(event *domain.Event, startsAt, endsAt time.Time) error {
	if !startsAt.Before(endsAt) {
		return domain.ErrInvalidSchedule
	}
	if startsAt.Before(event.BookingStartDate) || endsAt.After(event.BookingEndDate) {
		return domain.ErrOutsideWindow
	}
	return nil
}

func (s *scheduleService) ListSessions(ctx context.Context, eventID string) ([]*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	sessions, err := s.sessionRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	if sessions == nil {
		sessions = []*domain.Session{}
	}
	return sessions, nil
}

func (s *scheduleService) CreateSession(ctx context.Context, eventID string, session *domain.Session) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if session.Title == "" {
		return fmt.Errorf("%w: session title is required", domain.ErrInvalidInput)
	}
	if err := validateWindow(event, session.StartsAt, session.EndsAt); err != nil {
		return err
	}

	session.EventID = eventID
	session.CreatedAt = time.Now()
	session.UpdatedAt = time.Now()
	return s.sessionRepo.Create(ctx, session)
}

// getEventSession loads a session and verifies it belongs to eventID.
// Sessions reachable through the wrong event are reported as not found.
func (s *scheduleService) getEventSession(ctx context.Context, eventID, sessionID string) (*domain.Event, *domain.Session, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("get event: %w", err)
	}
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, nil, domain.ErrSessionNotFound
		}
		return nil, nil, fmt.Errorf("get session: %w", err)
	}
	if session.EventID != eventID {
		return nil, nil, domain.ErrSessionNotFound
	}
	return event, session, nil
}

func (s *scheduleService) UpdateSession(ctx context.Context, eventID, sessionID string, update domain.SessionUpdate) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, session, err := s.getEventSession(ctx, eventID, sessionID)
	if err != nil {
		return nil, err
	}

	// Recompute the effective schedule with existing values for omitted fields.
	newStart := session.StartsAt
	if update.StartsAt != nil {
		newStart = *update.StartsAt
	}
	newEnd := session.EndsAt
	if update.EndsAt != nil {
		newEnd = *update.EndsAt
	}
	if err := validateWindow(event, newStart, newEnd); err != nil {
		return nil, err
	}

	updated, err := s.sessionRepo.Update(ctx, sessionID, update)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("update session: %w", err)
	}
	return updated, nil
}

func (s *scheduleService) DeleteSession(ctx context.Context, eventID, sessionID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	_, _, err := s.getEventSession(ctx, eventID, sessionID)
	if err != nil {
		return err
	}

	// Snapshot assignments before the delete cascades them away, so the
	// peer invitations can be cleaned up afterwards.
	assignments, err := s.sessionSpeakerRepo.ListBySessionID(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("list session speakers: %w", err)
	}

	if err := s.sessionRepo.Delete(ctx, sessionID); err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return domain.ErrSessionNotFound
		}
		return fmt.Errorf("delete session: %w", err)
	}

	for _, a := range assignments {
		if err := s.speakerDir.DeleteInvitation(ctx, sessionID, a.SpeakerID); err != nil {
			s.logger.WarnContext(ctx, "peer invitation cleanup failed",
				"session_id", sessionID, "speaker_id", a.SpeakerID,
				"request_id", requestctx.RequestID(ctx), "err", err)
		}
	}
	return nil
}
