package chat

import (
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
)

// Wire event names shared by both directions of the socket protocol.
const (
	EventJoinTicket     = "join-ticket"
	EventSendMessage    = "send-message"
	EventMessagesLoaded = "messages-loaded"
	EventNewMessage     = "new-message"
	EventError          = "error"
)

// Event is one frame of the socket protocol.
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

// TokenVerifier checks a bearer credential's signature and expiry and returns
// the user id it was issued to.
type TokenVerifier interface {
	Verify(token string) (uint, error)
}

// VerifierFunc adapts a plain function to the TokenVerifier interface.
type VerifierFunc func(token string) (uint, error)

func (f VerifierFunc) Verify(token string) (uint, error) { return f(token) }

// Session is one authenticated real-time connection. Created on successful
// handshake, destroyed on disconnect, never persisted.
type Session struct {
	ID     string
	UserID uint
	Role   string
	Name   string

	// CurrentTicketRoom is the most recent room this session joined, kept for
	// display and cleanup convenience. Zero means unbound. Guarded by the
	// registry lock.
	CurrentTicketRoom uint

	mu     sync.Mutex
	out    chan Event
	closed bool
}

// Actor returns the policy-evaluator view of this session's identity.
func (s *Session) Actor() Actor {
	return Actor{ID: s.UserID, Role: s.Role}
}

// Events is the ordered outbound stream for this session. The transport layer
// drains it into the connection; channel FIFO preserves per-room ordering.
func (s *Session) Events() <-chan Event {
	return s.out
}

// Send enqueues an event for delivery. Events to a closed or saturated
// session are dropped; a dead consumer must not stall the room.
func (s *Session) Send(evt Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.out <- evt:
	default:
		log.Printf("chat: dropping %s event for slow session %s", evt.Event, s.ID)
	}
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.out)
}

// Registry tracks connected sessions and their room membership, and
// authenticates new connections before any room operation is permitted.
// Constructed explicitly and passed to whatever needs to broadcast.
type Registry struct {
	verify TokenVerifier
	users  UserDirectory

	mu       sync.RWMutex
	sessions map[string]*Session
	rooms    map[uint]map[string]*Session
	running  bool
}

func NewRegistry(verify TokenVerifier, users UserDirectory) *Registry {
	return &Registry{
		verify:   verify,
		users:    users,
		sessions: make(map[string]*Session),
		rooms:    make(map[uint]map[string]*Session),
	}
}

// Start makes the registry accept handshakes.
func (r *Registry) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.running = true
}

// Stop rejects further handshakes and disconnects every session.
func (r *Registry) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.running = false
	for _, s := range r.sessions {
		s.close()
	}
	r.sessions = make(map[string]*Session)
	r.rooms = make(map[uint]map[string]*Session)
}

// Admit authenticates a handshake credential and registers a session for it.
// Any failure is wrapped in AuthenticationError: the cause is for the server
// log, the client only sees the opaque message. No partial state survives a
// failed handshake.
func (r *Registry) Admit(token string) (*Session, error) {
	if token == "" {
		return nil, &AuthenticationError{Err: fmt.Errorf("no token provided")}
	}

	userID, err := r.verify.Verify(token)
	if err != nil {
		return nil, &AuthenticationError{Err: err}
	}

	user, err := r.users.UserByID(userID)
	if err != nil {
		return nil, &AuthenticationError{Err: fmt.Errorf("user not found: %w", err)}
	}

	session := &Session{
		ID:     uuid.NewString(),
		UserID: user.ID,
		Role:   user.Role,
		Name:   user.Name,
		out:    make(chan Event, 64),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		session.close()
		return nil, &AuthenticationError{Err: fmt.Errorf("registry not running")}
	}
	r.sessions[session.ID] = session
	return session, nil
}

// JoinRoom registers the session in the ticket's broadcast set. Authorization
// is the room manager's job; by the time this runs the join is allowed.
func (r *Registry) JoinRoom(s *Session, ticketID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[ticketID]
	if !ok {
		room = make(map[string]*Session)
		r.rooms[ticketID] = room
	}
	room[s.ID] = s
	s.CurrentTicketRoom = ticketID
}

// LeaveRoom removes the session from one room's broadcast set.
func (r *Registry) LeaveRoom(s *Session, ticketID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaveLocked(s, ticketID)
}

func (r *Registry) leaveLocked(s *Session, ticketID uint) {
	room, ok := r.rooms[ticketID]
	if !ok {
		return
	}
	delete(room, s.ID)
	if len(room) == 0 {
		delete(r.rooms, ticketID)
	}
	if s.CurrentTicketRoom == ticketID {
		s.CurrentTicketRoom = 0
	}
}

// Remove tears a session down on disconnect: membership in every room is
// dropped, then the outbound stream is closed. Other participants get no
// presence notification.
func (r *Registry) Remove(s *Session) {
	r.mu.Lock()
	for ticketID, room := range r.rooms {
		if _, ok := room[s.ID]; ok {
			delete(room, s.ID)
			if len(room) == 0 {
				delete(r.rooms, ticketID)
			}
		}
	}
	delete(r.sessions, s.ID)
	r.mu.Unlock()

	s.close()
}

// Broadcast delivers an event to every session currently bound to the
// ticket's room, in the same relative order for all of them.
func (r *Registry) Broadcast(ticketID uint, evt Event) {
	r.mu.RLock()
	members := make([]*Session, 0, len(r.rooms[ticketID]))
	for _, s := range r.rooms[ticketID] {
		members = append(members, s)
	}
	r.mu.RUnlock()

	for _, s := range members {
		s.Send(evt)
	}
}

// SessionCount reports how many sessions are currently admitted.
func (r *Registry) SessionCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// RoomSize reports how many sessions are bound to a ticket's room.
func (r *Registry) RoomSize(ticketID uint) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[ticketID])
}
