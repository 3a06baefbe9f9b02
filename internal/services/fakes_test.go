package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"eventstage/internal/domain"
	"eventstage/internal/requestctx"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// speakerCtx returns a context bound to a speaker identity.
func speakerCtx(userID string) context.Context {
	return requestctx.With(context.Background(), requestctx.RequestContext{
		UserID:    userID,
		UserEmail: userID + "@example.com",
		UserRole:  domain.RoleSpeaker,
		RequestID: "req-test",
	})
}

// adminCtx returns a context bound to an admin identity.
func adminCtx(userID string) context.Context {
	return requestctx.With(context.Background(), requestctx.RequestContext{
		UserID:    userID,
		UserEmail: userID + "@example.com",
		UserRole:  domain.RoleAdmin,
		RequestID: "req-test",
	})
}

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	byID   map[string]*domain.Event
	nextID int
	err    error // if set, Create returns this error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		byID:   make(map[string]*domain.Event),
		nextID: 1,
	}
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if f.err != nil {
		return f.err
	}
	e.ID = fmt.Sprintf("ev-%d", f.nextID)
	f.nextID++
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if e, ok := f.byID[id]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) ListBySpeakerID(ctx context.Context, speakerID string) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range f.byID {
		if e.SpeakerID == speakerID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeEventRepo) UpdateStatus(ctx context.Context, id string, status domain.EventStatus, rejectionReason *string) (*domain.Event, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	e.Status = status
	e.RejectionReason = rejectionReason
	copied := *e
	return &copied, nil
}

func (f *fakeEventRepo) UpdateDetails(ctx context.Context, id string, update domain.EventUpdate) (*domain.Event, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if update.Name != nil {
		e.Name = *update.Name
	}
	if update.Description != nil {
		e.Description = *update.Description
	}
	if update.Category != nil {
		e.Category = *update.Category
	}
	if update.VenueID != nil {
		e.VenueID = *update.VenueID
	}
	if update.BookingStartDate != nil {
		e.BookingStartDate = *update.BookingStartDate
	}
	if update.BookingEndDate != nil {
		e.BookingEndDate = *update.BookingEndDate
	}
	copied := *e
	return &copied, nil
}

// fakeVenueRepo is an in-memory VenueRepository for tests.
type fakeVenueRepo struct {
	byID map[string]*domain.Venue
}

func newFakeVenueRepo() *fakeVenueRepo {
	return &fakeVenueRepo{byID: make(map[string]*domain.Venue)}
}

func (f *fakeVenueRepo) GetByID(ctx context.Context, id string) (*domain.Venue, error) {
	if v, ok := f.byID[id]; ok {
		return v, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeVenueRepo) List(ctx context.Context) ([]*domain.Venue, error) {
	var out []*domain.Venue
	for _, v := range f.byID {
		out = append(out, v)
	}
	return out, nil
}

// fakeSessionRepo is an in-memory SessionRepository for tests.
type fakeSessionRepo struct {
	byID      map[string]*domain.Session
	nextID    int
	deleted   []string
	createErr error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{
		byID:   make(map[string]*domain.Session),
		nextID: 1,
	}
}

func (f *fakeSessionRepo) Create(ctx context.Context, s *domain.Session) error {
	if f.createErr != nil {
		return f.createErr
	}
	s.ID = fmt.Sprintf("sess-%d", f.nextID)
	f.nextID++
	f.byID[s.ID] = s
	return nil
}

func (f *fakeSessionRepo) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	if s, ok := f.byID[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, domain.ErrSessionNotFound
}

func (f *fakeSessionRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.Session, error) {
	var out []*domain.Session
	for _, s := range f.byID {
		if s.EventID == eventID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

func (f *fakeSessionRepo) Update(ctx context.Context, id string, update domain.SessionUpdate) (*domain.Session, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if update.Title != nil {
		s.Title = *update.Title
	}
	if update.Description != nil {
		s.Description = update.Description
	}
	if update.StartsAt != nil {
		s.StartsAt = *update.StartsAt
	}
	if update.EndsAt != nil {
		s.EndsAt = *update.EndsAt
	}
	if update.Stage != nil {
		s.Stage = update.Stage
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSessionRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

// fakeSessionSpeakerRepo is an in-memory SessionSpeakerRepository for tests.
// Create enforces the (session, speaker) uniqueness the real table provides.
type fakeSessionSpeakerRepo struct {
	rows   map[string]*domain.SessionSpeaker // key: sessionID + "|" + speakerID
	nextID int
}

func newFakeSessionSpeakerRepo() *fakeSessionSpeakerRepo {
	return &fakeSessionSpeakerRepo{
		rows:   make(map[string]*domain.SessionSpeaker),
		nextID: 1,
	}
}

func assignmentKey(sessionID, speakerID string) string {
	return sessionID + "|" + speakerID
}

func (f *fakeSessionSpeakerRepo) Create(ctx context.Context, a *domain.SessionSpeaker) error {
	key := assignmentKey(a.SessionID, a.SpeakerID)
	if _, ok := f.rows[key]; ok {
		return domain.ErrSpeakerAlreadyAssigned
	}
	a.ID = fmt.Sprintf("sp-%d", f.nextID)
	f.nextID++
	f.rows[key] = a
	return nil
}

func (f *fakeSessionSpeakerRepo) Get(ctx context.Context, sessionID, speakerID string) (*domain.SessionSpeaker, error) {
	if a, ok := f.rows[assignmentKey(sessionID, speakerID)]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeSessionSpeakerRepo) ListBySessionID(ctx context.Context, sessionID string) ([]*domain.SessionSpeaker, error) {
	var out []*domain.SessionSpeaker
	for _, a := range f.rows {
		if a.SessionID == sessionID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeSessionSpeakerRepo) Update(ctx context.Context, sessionID, speakerID string, update domain.SessionSpeakerUpdate) (*domain.SessionSpeaker, error) {
	a, ok := f.rows[assignmentKey(sessionID, speakerID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if update.MaterialsAssetID != nil {
		a.MaterialsAssetID = update.MaterialsAssetID
	}
	if update.MaterialsStatus != nil {
		a.MaterialsStatus = *update.MaterialsStatus
	}
	if update.SpeakerCheckinConfirmed != nil {
		a.SpeakerCheckinConfirmed = *update.SpeakerCheckinConfirmed
	}
	if update.SpecialNotes != nil {
		a.SpecialNotes = update.SpecialNotes
	}
	copied := *a
	return &copied, nil
}

func (f *fakeSessionSpeakerRepo) Delete(ctx context.Context, sessionID, speakerID string) error {
	key := assignmentKey(sessionID, speakerID)
	if _, ok := f.rows[key]; !ok {
		return domain.ErrNotFound
	}
	delete(f.rows, key)
	return nil
}

// publishedMessage records one publish call on the fake publisher.
type publishedMessage struct {
	routingKey string
	payload    any
}

// fakePublisher records lifecycle notifications; err fails every publish.
type fakePublisher struct {
	published []publishedMessage
	err       error
}

func (f *fakePublisher) EventPublished(ctx context.Context, msg domain.EventPublishedMessage) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, publishedMessage{domain.RoutingKeyEventPublished, msg})
	return nil
}

func (f *fakePublisher) EventUpdated(ctx context.Context, msg domain.EventUpdatedMessage) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, publishedMessage{domain.RoutingKeyEventUpdated, msg})
	return nil
}

func (f *fakePublisher) EventCancelled(ctx context.Context, msg domain.EventCancelledMessage) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, publishedMessage{domain.RoutingKeyEventCancelled, msg})
	return nil
}

// fakeEmailService records rejection notices; err fails every send.
type fakeEmailService struct {
	sent []*domain.RejectionNoticeEmailData
	err  error
}

func (f *fakeEmailService) SendRejectionNotice(ctx context.Context, data *domain.RejectionNoticeEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, data)
	return nil
}

// createdInvitation records one CreateInvitation call.
type createdInvitation struct {
	speakerID string
	eventID   string
	sessionID string
}

// deletedInvitation records one DeleteInvitation call.
type deletedInvitation struct {
	sessionID string
	speakerID string
}

// fakeSpeakerDirectory is an in-memory SpeakerDirectory for tests.
type fakeSpeakerDirectory struct {
	invitations map[string][]*domain.Invitation    // speakerID -> accepted invitations
	windows     map[string]*domain.SessionWindow   // sessionID -> window
	profiles    map[string]*domain.SpeakerProfile  // speakerID -> profile
	created     []createdInvitation
	deleted     []deletedInvitation

	listErr      error
	windowErr    error
	profileErr   error
	createErr    error
	deleteErr    error
}

func newFakeSpeakerDirectory() *fakeSpeakerDirectory {
	return &fakeSpeakerDirectory{
		invitations: make(map[string][]*domain.Invitation),
		windows:     make(map[string]*domain.SessionWindow),
		profiles:    make(map[string]*domain.SpeakerProfile),
	}
}

func (f *fakeSpeakerDirectory) ListAcceptedInvitations(ctx context.Context, speakerID string) ([]*domain.Invitation, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.invitations[speakerID], nil
}

func (f *fakeSpeakerDirectory) GetSessionWindow(ctx context.Context, sessionID string) (*domain.SessionWindow, error) {
	if f.windowErr != nil {
		return nil, f.windowErr
	}
	if w, ok := f.windows[sessionID]; ok {
		return w, nil
	}
	return nil, fmt.Errorf("speaker service returned status: 404")
}

func (f *fakeSpeakerDirectory) GetSpeaker(ctx context.Context, speakerID string) (*domain.SpeakerProfile, error) {
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	if p, ok := f.profiles[speakerID]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("speaker service returned status: 404")
}

func (f *fakeSpeakerDirectory) CreateInvitation(ctx context.Context, speakerID, eventID, sessionID string) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, createdInvitation{speakerID, eventID, sessionID})
	return nil
}

func (f *fakeSpeakerDirectory) DeleteInvitation(ctx context.Context, sessionID, speakerID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, deletedInvitation{sessionID, speakerID})
	return nil
}
