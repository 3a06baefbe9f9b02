package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"eventstage/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSpeakerServiceForTest(eventRepo *fakeEventRepo, sessionRepo *fakeSessionRepo, speakerRepo *fakeSessionSpeakerRepo, dir *fakeSpeakerDirectory) domain.SpeakerAssignmentService {
	return NewSpeakerAssignmentService(eventRepo, sessionRepo, speakerRepo, dir, testLogger(), 5*time.Second, 3*time.Second)
}

// seedAssignmentFixture creates a published event with one 10:00-11:00 session.
func seedAssignmentFixture(t *testing.T, dir *fakeSpeakerDirectory) (domain.SpeakerAssignmentService, *fakeSessionSpeakerRepo, *domain.Event, *domain.Session) {
	t.Helper()
	eventRepo := newFakeEventRepo()
	sessionRepo := newFakeSessionRepo()
	speakerRepo := newFakeSessionSpeakerRepo()
	event := seedEvent(t, eventRepo, "user-1", domain.StatusPublished)
	session := &domain.Session{EventID: event.ID, Title: "Keynote", StartsAt: at(10, 0), EndsAt: at(11, 0)}
	require.NoError(t, sessionRepo.Create(context.Background(), session))
	svc := newSpeakerServiceForTest(eventRepo, sessionRepo, speakerRepo, dir)
	return svc, speakerRepo, event, session
}

// acceptedSession registers an accepted invitation for speakerID pointing at a
// peer session with the given window.
func acceptedSession(dir *fakeSpeakerDirectory, speakerID, sessionID string, startsAt, endsAt time.Time) {
	sid := sessionID
	dir.invitations[speakerID] = append(dir.invitations[speakerID], &domain.Invitation{
		ID:        "inv-" + sessionID,
		SpeakerID: speakerID,
		SessionID: &sid,
		Status:    domain.InvitationAccepted,
	})
	dir.windows[sessionID] = &domain.SessionWindow{
		SessionID: sessionID,
		Title:     "Peer Session",
		StartsAt:  startsAt,
		EndsAt:    endsAt,
	}
}

func TestSpeakerAssignmentService_AssignSpeaker(t *testing.T) {
	t.Run("assigns and records a peer invitation", func(t *testing.T) {
		dir := newFakeSpeakerDirectory()
		svc, speakerRepo, event, session := seedAssignmentFixture(t, dir)

		notes := "needs HDMI"
		assignment, err := svc.AssignSpeaker(adminCtx("admin-1"), event.ID, session.ID, "sp-a", &notes)
		require.NoError(t, err)
		assert.Equal(t, session.ID, assignment.SessionID)
		assert.Equal(t, "sp-a", assignment.SpeakerID)
		assert.Equal(t, domain.MaterialsPending, assignment.MaterialsStatus)
		require.NotNil(t, assignment.SpecialNotes)
		assert.Equal(t, notes, *assignment.SpecialNotes)

		_, err = speakerRepo.Get(context.Background(), session.ID, "sp-a")
		require.NoError(t, err)
		require.Len(t, dir.created, 1)
		assert.Equal(t, createdInvitation{"sp-a", event.ID, session.ID}, dir.created[0])
	})

	t.Run("duplicate assignment rejected", func(t *testing.T) {
		dir := newFakeSpeakerDirectory()
		svc, _, event, session := seedAssignmentFixture(t, dir)

		_, err := svc.AssignSpeaker(adminCtx("admin-1"), event.ID, session.ID, "sp-a", nil)
		require.NoError(t, err)
		_, err = svc.AssignSpeaker(adminCtx("admin-1"), event.ID, session.ID, "sp-a", nil)
		require.ErrorIs(t, err, domain.ErrSpeakerAlreadyAssigned)
	})

	t.Run("overlapping accepted session blocks the assignment", func(t *testing.T) {
		dir := newFakeSpeakerDirectory()
		// Target session is 10:00-11:00; peer session 10:30-11:30 overlaps.
		acceptedSession(dir, "sp-a", "peer-1", at(10, 30), at(11, 30))
		svc, speakerRepo, event, session := seedAssignmentFixture(t, dir)

		_, err := svc.AssignSpeaker(adminCtx("admin-1"), event.ID, session.ID, "sp-a", nil)
		require.ErrorIs(t, err, domain.ErrSpeakerConflict)
		assert.Contains(t, err.Error(), "peer-1")
		assert.Empty(t, speakerRepo.rows)
		assert.Empty(t, dir.created)
	})

	t.Run("back-to-back sessions do not conflict", func(t *testing.T) {
		dir := newFakeSpeakerDirectory()
		// Peer session 11:00-12:00 starts exactly when the target ends.
		acceptedSession(dir, "sp-a", "peer-1", at(11, 0), at(12, 0))
		svc, _, event, session := seedAssignmentFixture(t, dir)

		_, err := svc.AssignSpeaker(adminCtx("admin-1"), event.ID, session.ID, "sp-a", nil)
		require.NoError(t, err)
	})

	t.Run("peer outage degrades to assume no conflict", func(t *testing.T) {
		dir := newFakeSpeakerDirectory()
		dir.listErr = errors.New("connection refused")
		svc, speakerRepo, event, session := seedAssignmentFixture(t, dir)

		_, err := svc.AssignSpeaker(adminCtx("admin-1"), event.ID, session.ID, "sp-a", nil)
		require.NoError(t, err)
		assert.Len(t, speakerRepo.rows, 1)
	})

	t.Run("unavailable session window is skipped", func(t *testing.T) {
		dir := newFakeSpeakerDirectory()
		acceptedSession(dir, "sp-a", "peer-1", at(10, 30), at(11, 30))
		dir.windowErr = errors.New("timeout")
		svc, _, event, session := seedAssignmentFixture(t, dir)

		_, err := svc.AssignSpeaker(adminCtx("admin-1"), event.ID, session.ID, "sp-a", nil)
		require.NoError(t, err)
	})

	t.Run("invitation without a session is ignored", func(t *testing.T) {
		dir := newFakeSpeakerDirectory()
		dir.invitations["sp-a"] = []*domain.Invitation{
			{ID: "inv-1", SpeakerID: "sp-a", Status: domain.InvitationAccepted},
		}
		svc, _, event, session := seedAssignmentFixture(t, dir)

		_, err := svc.AssignSpeaker(adminCtx("admin-1"), event.ID, session.ID, "sp-a", nil)
		require.NoError(t, err)
	})

	t.Run("invitation creation failure leaves the assignment standing", func(t *testing.T) {
		dir := newFakeSpeakerDirectory()
		dir.createErr = errors.New("peer down")
		svc, speakerRepo, event, session := seedAssignmentFixture(t, dir)

		assignment, err := svc.AssignSpeaker(adminCtx("admin-1"), event.ID, session.ID, "sp-a", nil)
		require.NoError(t, err)
		require.NotNil(t, assignment)
		assert.Len(t, speakerRepo.rows, 1)
	})

	t.Run("missing speaker id", func(t *testing.T) {
		dir := newFakeSpeakerDirectory()
		svc, _, event, session := seedAssignmentFixture(t, dir)
		_, err := svc.AssignSpeaker(adminCtx("admin-1"), event.ID, session.ID, "", nil)
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("unknown session", func(t *testing.T) {
		dir := newFakeSpeakerDirectory()
		svc, _, event, _ := seedAssignmentFixture(t, dir)
		_, err := svc.AssignSpeaker(adminCtx("admin-1"), event.ID, "sess-missing", "sp-a", nil)
		require.ErrorIs(t, err, domain.ErrSessionNotFound)
	})
}

func TestSpeakerAssignmentService_ListSessionSpeakers(t *testing.T) {
	dir := newFakeSpeakerDirectory()
	svc, _, event, session := seedAssignmentFixture(t, dir)

	speakers, err := svc.ListSessionSpeakers(adminCtx("admin-1"), event.ID, session.ID)
	require.NoError(t, err)
	assert.NotNil(t, speakers)
	assert.Empty(t, speakers)

	_, err = svc.AssignSpeaker(adminCtx("admin-1"), event.ID, session.ID, "sp-a", nil)
	require.NoError(t, err)
	_, err = svc.AssignSpeaker(adminCtx("admin-1"), event.ID, session.ID, "sp-b", nil)
	require.NoError(t, err)

	speakers, err = svc.ListSessionSpeakers(adminCtx("admin-1"), event.ID, session.ID)
	require.NoError(t, err)
	assert.Len(t, speakers, 2)
}

func TestSpeakerAssignmentService_UpdateAssignment(t *testing.T) {
	dir := newFakeSpeakerDirectory()
	svc, _, event, session := seedAssignmentFixture(t, dir)
	_, err := svc.AssignSpeaker(adminCtx("admin-1"), event.ID, session.ID, "sp-a", nil)
	require.NoError(t, err)

	t.Run("materials submission", func(t *testing.T) {
		assetID := "asset-9"
		status := domain.MaterialsSubmitted
		updated, err := svc.UpdateAssignment(adminCtx("admin-1"), event.ID, session.ID, "sp-a", domain.SessionSpeakerUpdate{
			MaterialsAssetID: &assetID,
			MaterialsStatus:  &status,
		})
		require.NoError(t, err)
		require.NotNil(t, updated.MaterialsAssetID)
		assert.Equal(t, assetID, *updated.MaterialsAssetID)
		assert.Equal(t, domain.MaterialsSubmitted, updated.MaterialsStatus)
	})

	t.Run("check-in confirmation", func(t *testing.T) {
		confirmed := true
		updated, err := svc.UpdateAssignment(adminCtx("admin-1"), event.ID, session.ID, "sp-a", domain.SessionSpeakerUpdate{
			SpeakerCheckinConfirmed: &confirmed,
		})
		require.NoError(t, err)
		assert.True(t, updated.SpeakerCheckinConfirmed)
	})

	t.Run("unknown assignment", func(t *testing.T) {
		confirmed := true
		_, err := svc.UpdateAssignment(adminCtx("admin-1"), event.ID, session.ID, "sp-ghost", domain.SessionSpeakerUpdate{
			SpeakerCheckinConfirmed: &confirmed,
		})
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestSpeakerAssignmentService_RemoveSpeaker(t *testing.T) {
	t.Run("removes the assignment and the peer invitation", func(t *testing.T) {
		dir := newFakeSpeakerDirectory()
		svc, speakerRepo, event, session := seedAssignmentFixture(t, dir)
		_, err := svc.AssignSpeaker(adminCtx("admin-1"), event.ID, session.ID, "sp-a", nil)
		require.NoError(t, err)

		require.NoError(t, svc.RemoveSpeaker(adminCtx("admin-1"), event.ID, session.ID, "sp-a"))
		assert.Empty(t, speakerRepo.rows)
		require.Len(t, dir.deleted, 1)
		assert.Equal(t, deletedInvitation{session.ID, "sp-a"}, dir.deleted[0])
	})

	t.Run("invitation deletion failure does not fail the removal", func(t *testing.T) {
		dir := newFakeSpeakerDirectory()
		svc, speakerRepo, event, session := seedAssignmentFixture(t, dir)
		_, err := svc.AssignSpeaker(adminCtx("admin-1"), event.ID, session.ID, "sp-a", nil)
		require.NoError(t, err)

		dir.deleteErr = errors.New("peer down")
		require.NoError(t, svc.RemoveSpeaker(adminCtx("admin-1"), event.ID, session.ID, "sp-a"))
		assert.Empty(t, speakerRepo.rows)
	})

	t.Run("unknown assignment", func(t *testing.T) {
		dir := newFakeSpeakerDirectory()
		svc, _, event, session := seedAssignmentFixture(t, dir)
		err := svc.RemoveSpeaker(adminCtx("admin-1"), event.ID, session.ID, "sp-ghost")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}
