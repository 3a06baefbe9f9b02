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

type speakerAssignmentService struct {
	eventRepo          domain.EventRepository
	sessionRepo        domain.SessionRepository
	sessionSpeakerRepo domain.SessionSpeakerRepository
	speakerDir         domain.SpeakerDirectory
	logger             *slog.Logger
	contextTimeout     time.Duration
	peerTimeout        time.Duration
}

func NewSpeakerAssignmentService(eventRepo domain.EventRepository,
	sessionRepo domain.SessionRepository,
	sessionSpeakerRepo domain.SessionSpeakerRepository,
	speakerDir domain.SpeakerDirectory,
	logger *slog.Logger,
	timeout time.Duration,
	peerTimeout time.Duration,
) domain.SpeakerAssignmentService {
	return &speakerAssignmentService{
		eventRepo:          eventRepo,
		sessionRepo:        sessionRepo,
		sessionSpeakerRepo: sessionSpeakerRepo,
		speakerDir:         speakerDir,
		logger:             logger,
		contextTimeout:     timeout,
		peerTimeout:        peerTimeout,
	}
}

func (s *speakerAssignmentService) getEventSession(ctx context.Context, eventID, sessionID string) (*domain.Session, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session.EventID != eventID {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (s *speakerAssignmentService) ListSessionSpeakers(ctx context.Context, eventID, sessionID string) ([]*domain.SessionSpeaker, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.getEventSession(ctx, eventID, sessionID); err != nil {
		return nil, err
	}
	assignments, err := s.sessionSpeakerRepo.ListBySessionID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list session speakers: %w", err)
	}
	if assignments == nil {
		assignments = []*domain.SessionSpeaker{}
	}
	return assignments, nil
}

func (s *speakerAssignmentService) AssignSpeaker(ctx context.Context, eventID, sessionID, speakerID string, specialNotes *string) (*domain.SessionSpeaker, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if speakerID == "" {
		return nil, fmt.Errorf("%w: speaker id is required", domain.ErrInvalidInput)
	}
	session, err := s.getEventSession(ctx, eventID, sessionID)
	if err != nil {
		return nil, err
	}

	if _, err := s.sessionSpeakerRepo.Get(ctx, sessionID, speakerID); err == nil {
		return nil, domain.ErrSpeakerAlreadyAssigned
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get session speaker: %w", err)
	}

	if err := s.checkSpeakerConflicts(ctx, speakerID, session); err != nil {
		return nil, err
	}

	now := time.Now()
	assignment := domain.NewSessionSpeaker(sessionID, speakerID, specialNotes, now, now)
	if err := s.sessionSpeakerRepo.Create(ctx, assignment); err != nil {
		// Two racing assignments are arbitrated by the unique constraint.
		if errors.Is(err, domain.ErrSpeakerAlreadyAssigned) {
			return nil, domain.ErrSpeakerAlreadyAssigned
		}
		return nil, fmt.Errorf("create session speaker: %w", err)
	}

	if err := s.speakerDir.CreateInvitation(ctx, speakerID, eventID, sessionID); err != nil {
		// The assignment stands even if peer bookkeeping fails.
		s.logger.WarnContext(ctx, "peer invitation creation failed",
			"session_id", sessionID, "speaker_id", speakerID,
			"request_id", requestctx.RequestID(ctx), "err", err)
	}
	return assignment, nil
}

// checkSpeakerConflicts scans the speaker's accepted invitations in the
// peer service for sessions overlapping the target session. The check is
// best-effort: peer failures degrade to assume-no-conflict.
func (s *speakerAssignmentService) checkSpeakerConflicts(ctx context.Context, speakerID string, target *domain.Session) error {
	peerCtx, cancel := context.WithTimeout(ctx, s.peerTimeout)
	defer cancel()

	invitations, err := s.speakerDir.ListAcceptedInvitations(peerCtx, speakerID)
	if err != nil {
		s.logger.WarnContext(ctx, "speaker conflict check degraded, assuming no conflict",
			"speaker_id", speakerID, "session_id", target.ID,
			"request_id", requestctx.RequestID(ctx), "err", err)
		return nil
	}

	for _, inv := range invitations {
		if inv.SessionID == nil || *inv.SessionID == "" {
			continue
		}
		window, err := s.speakerDir.GetSessionWindow(peerCtx, *inv.SessionID)
		if err != nil {
			s.logger.WarnContext(ctx, "accepted session window unavailable, skipping",
				"speaker_id", speakerID, "peer_session_id", *inv.SessionID,
				"request_id", requestctx.RequestID(ctx), "err", err)
			continue
		}
		// Half-open intervals: [a,b) and [c,d) overlap iff a < d && b > c.
		if target.Overlaps(window.StartsAt, window.EndsAt) {
			return fmt.Errorf("%w: speaker has an accepted overlapping session %s", domain.ErrSpeakerConflict, window.SessionID)
		}
	}
	return nil
}

func (s *speakerAssignmentService) UpdateAssignment(ctx context.Context, eventID, sessionID, speakerID string, update domain.SessionSpeakerUpdate) (*domain.SessionSpeaker, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.getEventSession(ctx, eventID, sessionID); err != nil {
		return nil, err
	}
	updated, err := s.sessionSpeakerRepo.Update(ctx, sessionID, speakerID, update)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update session speaker: %w", err)
	}
	return updated, nil
}

func (s *speakerAssignmentService) RemoveSpeaker(ctx context.Context, eventID, sessionID, speakerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.getEventSession(ctx, eventID, sessionID); err != nil {
		return err
	}
	if err := s.sessionSpeakerRepo.Delete(ctx, sessionID, speakerID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete session speaker: %w", err)
	}
	if err := s.speakerDir.DeleteInvitation(ctx, sessionID, speakerID); err != nil {
		s.logger.WarnContext(ctx, "peer invitation deletion failed",
			"session_id", sessionID, "speaker_id", speakerID,
			"request_id", requestctx.RequestID(ctx), "err", err)
	}
	return nil
}
