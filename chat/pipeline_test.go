package chat

import (
	"errors"
	"testing"

	"fixdesk/models"

	"github.com/stretchr/testify/require"
)

type chatFixture struct {
	registry *Registry
	pipeline *Pipeline
	rooms    *RoomManager
	store    *GormMessageStore
	verifier stubVerifier
}

func newChatFixture(t *testing.T) (*chatFixture, *GormDirectory) {
	t.Helper()
	db := newTestDB(t)
	directory := NewDirectory(db)
	store := NewMessageStore(db)
	verifier := stubVerifier{}
	registry := NewRegistry(verifier, directory)
	registry.Start()
	t.Cleanup(registry.Stop)

	return &chatFixture{
		registry: registry,
		pipeline: NewPipeline(directory, store, registry),
		rooms:    NewRoomManager(directory, store, registry),
		store:    store,
		verifier: verifier,
	}, directory
}

func (f *chatFixture) admit(t *testing.T, user *models.User) *Session {
	t.Helper()
	token := "token-" + user.Email
	f.verifier[token] = user.ID
	session, err := f.registry.Admit(token)
	require.NoError(t, err)
	return session
}

func TestSendUnassignedTicketForbidden(t *testing.T) {
	req := require.New(t)
	fixture, directory := newChatFixture(t)
	db := directory.db

	reporter := seedUser(t, db, "rita", models.RoleStandard)
	ticket := seedTicket(t, db, reporter.ID, nil)

	_, err := fixture.pipeline.Send(Actor{ID: reporter.ID, Role: reporter.Role}, ticket.ID, "hello")
	var forbiddenErr *ForbiddenError
	req.ErrorAs(err, &forbiddenErr)
	req.Equal(ReasonNotAssigned, forbiddenErr.Reason)
}

func TestSendMissingTicketNotFound(t *testing.T) {
	req := require.New(t)
	fixture, directory := newChatFixture(t)

	reporter := seedUser(t, directory.db, "rita", models.RoleStandard)

	_, err := fixture.pipeline.Send(Actor{ID: reporter.ID, Role: reporter.Role}, 12345, "hello")
	var notFoundErr *NotFoundError
	req.ErrorAs(err, &notFoundErr)
}

func TestSendEmptyContentValidation(t *testing.T) {
	req := require.New(t)
	fixture, directory := newChatFixture(t)
	db := directory.db

	desk := seedUser(t, db, "sam", models.RoleServiceDesk)
	reporter := seedUser(t, db, "rita", models.RoleStandard)
	ticket := seedTicket(t, db, reporter.ID, &desk.ID)

	_, err := fixture.pipeline.Send(Actor{ID: desk.ID, Role: desk.Role}, ticket.ID, "   ")
	var validationErr *ValidationError
	req.ErrorAs(err, &validationErr)
}

// Blank content is rejected before the ticket lookup and the permission
// check, so the caller always sees a validation failure regardless of the
// ticket's state.
func TestSendEmptyContentCheckedFirst(t *testing.T) {
	req := require.New(t)
	fixture, directory := newChatFixture(t)
	db := directory.db

	reporter := seedUser(t, db, "rita", models.RoleStandard)
	unassigned := seedTicket(t, db, reporter.ID, nil)
	actor := Actor{ID: reporter.ID, Role: reporter.Role}

	var validationErr *ValidationError

	// Unassigned ticket: blank content still reads as validation, not a
	// permission failure.
	_, err := fixture.pipeline.Send(actor, unassigned.ID, "   ")
	req.ErrorAs(err, &validationErr)

	// Missing ticket: likewise no not-found leak for blank content.
	_, err = fixture.pipeline.Send(actor, 12345, "")
	req.ErrorAs(err, &validationErr)
}

// Full lifecycle: the reporter is blocked until assignment, then the thread
// flows and read state follows each side opening it.
func TestAssignmentUnlocksReporterThread(t *testing.T) {
	req := require.New(t)
	fixture, directory := newChatFixture(t)
	db := directory.db

	reporter := seedUser(t, db, "rita", models.RoleStandard)
	desk := seedUser(t, db, "sam", models.RoleServiceDesk)
	ticket := seedTicket(t, db, reporter.ID, nil)

	actor := Actor{ID: reporter.ID, Role: reporter.Role}

	_, err := fixture.pipeline.Send(actor, ticket.ID, "hello")
	var forbiddenErr *ForbiddenError
	req.ErrorAs(err, &forbiddenErr)
	req.Equal(ReasonNotAssigned, forbiddenErr.Reason)

	// Service desk claims the ticket
	req.NoError(db.Model(ticket).Updates(map[string]interface{}{
		"assigned_to_id": desk.ID,
		"status":         models.StatusAssigned,
	}).Error)

	message, err := fixture.pipeline.Send(actor, ticket.ID, "hello")
	req.NoError(err)
	req.Equal("hello", message.Content)

	// Desk has not opened the thread yet
	listed, err := fixture.store.ListByTicket(ticket.ID)
	req.NoError(err)
	req.Len(listed, 1)
	req.False(listed[0].Read)

	// Desk joins the room: the reporter's message flips to read
	deskSession := fixture.admit(t, desk)
	history, err := fixture.rooms.Join(deskSession, ticket.ID)
	req.NoError(err)
	req.Len(history, 1)

	listed, err = fixture.store.ListByTicket(ticket.ID)
	req.NoError(err)
	req.True(listed[0].Read)
	req.NotNil(listed[0].ReadAt)
}

func TestJoinDeniedForUnrelatedUser(t *testing.T) {
	req := require.New(t)
	fixture, directory := newChatFixture(t)
	db := directory.db

	reporter := seedUser(t, db, "rita", models.RoleStandard)
	desk := seedUser(t, db, "sam", models.RoleServiceDesk)
	stranger := seedUser(t, db, "uma", models.RoleStandard)
	ticket := seedTicket(t, db, reporter.ID, &desk.ID)

	session := fixture.admit(t, stranger)

	history, err := fixture.rooms.Join(session, ticket.ID)
	var forbiddenErr *ForbiddenError
	req.ErrorAs(err, &forbiddenErr)

	// no membership, no history
	req.Nil(history)
	req.Equal(0, fixture.registry.RoomSize(ticket.ID))
	req.EqualValues(0, session.CurrentTicketRoom)
}

func TestJoinMissingTicket(t *testing.T) {
	req := require.New(t)
	fixture, directory := newChatFixture(t)

	desk := seedUser(t, directory.db, "sam", models.RoleServiceDesk)
	session := fixture.admit(t, desk)

	_, err := fixture.rooms.Join(session, 999)
	var notFoundErr *NotFoundError
	req.ErrorAs(err, &notFoundErr)
	req.Equal(0, fixture.registry.RoomSize(999))
}

type brokenHistoryStore struct {
	MessageStore
}

func (brokenHistoryStore) ListByTicket(ticketID uint) ([]models.Message, error) {
	return nil, &StoreError{Op: "list messages", Err: errors.New("connection reset")}
}

// A history load failure after admission must not leave the session in the
// room: the join is rolled back so membership matches what the client saw.
func TestJoinRollsBackOnHistoryFailure(t *testing.T) {
	req := require.New(t)
	fixture, directory := newChatFixture(t)
	db := directory.db

	reporter := seedUser(t, db, "rita", models.RoleStandard)
	ticket := seedTicket(t, db, reporter.ID, nil)

	rooms := NewRoomManager(directory, brokenHistoryStore{fixture.store}, fixture.registry)
	session := fixture.admit(t, reporter)

	_, err := rooms.Join(session, ticket.ID)
	var storeErr *StoreError
	req.ErrorAs(err, &storeErr)
	req.Equal(0, fixture.registry.RoomSize(ticket.ID))
}

func TestSendBroadcastsToAllRoomMembers(t *testing.T) {
	req := require.New(t)
	fixture, directory := newChatFixture(t)
	db := directory.db

	reporter := seedUser(t, db, "rita", models.RoleStandard)
	desk := seedUser(t, db, "sam", models.RoleServiceDesk)
	ticket := seedTicket(t, db, reporter.ID, &desk.ID)

	reporterSession := fixture.admit(t, reporter)
	deskSession := fixture.admit(t, desk)

	_, err := fixture.rooms.Join(reporterSession, ticket.ID)
	req.NoError(err)
	_, err = fixture.rooms.Join(deskSession, ticket.ID)
	req.NoError(err)
	req.Equal(2, fixture.registry.RoomSize(ticket.ID))

	// Desk sends; the direct return is for the one-shot caller, the room
	// broadcast reaches both bound sessions.
	returned, err := fixture.pipeline.Send(deskSession.Actor(), ticket.ID, "ack")
	req.NoError(err)
	req.Equal("ack", returned.Content)

	for _, session := range []*Session{reporterSession, deskSession} {
		select {
		case evt := <-session.Events():
			req.Equal(EventNewMessage, evt.Event)
			data, ok := evt.Data.(map[string]interface{})
			req.True(ok)
			message, ok := data["message"].(*models.Message)
			req.True(ok)
			req.Equal("ack", message.Content)
		default:
			t.Fatalf("session %s did not receive new-message", session.ID)
		}
	}
}

func TestLeaveStopsDelivery(t *testing.T) {
	req := require.New(t)
	fixture, directory := newChatFixture(t)
	db := directory.db

	reporter := seedUser(t, db, "rita", models.RoleStandard)
	desk := seedUser(t, db, "sam", models.RoleServiceDesk)
	ticket := seedTicket(t, db, reporter.ID, &desk.ID)

	reporterSession := fixture.admit(t, reporter)
	_, err := fixture.rooms.Join(reporterSession, ticket.ID)
	req.NoError(err)

	fixture.rooms.Leave(reporterSession, ticket.ID)
	req.Equal(0, fixture.registry.RoomSize(ticket.ID))

	_, err = fixture.pipeline.Send(Actor{ID: desk.ID, Role: desk.Role}, ticket.ID, "anyone there?")
	req.NoError(err)

	select {
	case evt := <-reporterSession.Events():
		t.Fatalf("departed session received %s event", evt.Event)
	default:
	}
}

func TestAdminCanViewButNotSend(t *testing.T) {
	req := require.New(t)
	fixture, directory := newChatFixture(t)
	db := directory.db

	reporter := seedUser(t, db, "rita", models.RoleStandard)
	desk := seedUser(t, db, "sam", models.RoleServiceDesk)
	admin := seedUser(t, db, "ada", models.RoleAdmin)
	ticket := seedTicket(t, db, reporter.ID, &desk.ID)

	adminActor := Actor{ID: admin.ID, Role: admin.Role}

	_, err := fixture.pipeline.History(adminActor, ticket.ID)
	req.NoError(err)

	_, err = fixture.pipeline.Send(adminActor, ticket.ID, "quiet please")
	var forbiddenErr *ForbiddenError
	req.ErrorAs(err, &forbiddenErr)
	req.Equal(ReasonNoRelationship, forbiddenErr.Reason)
}

func TestHistoryMarksCounterpartRead(t *testing.T) {
	req := require.New(t)
	fixture, directory := newChatFixture(t)
	db := directory.db

	reporter := seedUser(t, db, "rita", models.RoleStandard)
	desk := seedUser(t, db, "sam", models.RoleServiceDesk)
	ticket := seedTicket(t, db, reporter.ID, &desk.ID)

	_, err := fixture.pipeline.Send(Actor{ID: desk.ID, Role: desk.Role}, ticket.ID, "looking into it")
	req.NoError(err)

	// Reporter fetches the thread; the desk's message flips to read
	messages, err := fixture.pipeline.History(Actor{ID: reporter.ID, Role: reporter.Role}, ticket.ID)
	req.NoError(err)
	req.Len(messages, 1)

	listed, err := fixture.store.ListByTicket(ticket.ID)
	req.NoError(err)
	req.True(listed[0].Read)
}

func TestMarkReadRequiresView(t *testing.T) {
	req := require.New(t)
	fixture, directory := newChatFixture(t)
	db := directory.db

	reporter := seedUser(t, db, "rita", models.RoleStandard)
	desk := seedUser(t, db, "sam", models.RoleServiceDesk)
	stranger := seedUser(t, db, "uma", models.RoleStandard)
	ticket := seedTicket(t, db, reporter.ID, &desk.ID)

	err := fixture.pipeline.MarkRead(Actor{ID: stranger.ID, Role: stranger.Role}, ticket.ID)
	var forbiddenErr *ForbiddenError
	req.ErrorAs(err, &forbiddenErr)

	req.NoError(fixture.pipeline.MarkRead(Actor{ID: reporter.ID, Role: reporter.Role}, ticket.ID))
}
