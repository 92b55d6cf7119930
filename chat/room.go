package chat

import (
	"log"

	"fixdesk/models"
)

// RoomManager binds sessions to ticket rooms, enforcing the view policy
// before any membership change.
type RoomManager struct {
	tickets  TicketDirectory
	store    MessageStore
	registry *Registry
}

func NewRoomManager(tickets TicketDirectory, store MessageStore, registry *Registry) *RoomManager {
	return &RoomManager{tickets: tickets, store: store, registry: registry}
}

// Join admits a session into a ticket's room and returns the ordered thread
// history for a private snapshot to the requester. On any failure no
// membership change happens and no history is delivered. Opening the room
// marks the counterpart's messages read.
func (m *RoomManager) Join(session *Session, ticketID uint) ([]models.Message, error) {
	ticket, err := m.tickets.TicketByID(ticketID)
	if err != nil {
		return nil, err
	}

	if !CanView(session.Actor(), ticket) {
		return nil, &ForbiddenError{
			Reason: ReasonNoRelationship,
			Msg:    "You do not have permission to access this ticket",
		}
	}

	m.registry.JoinRoom(session, ticketID)

	messages, err := m.store.ListByTicket(ticketID)
	if err != nil {
		// Membership without the history snapshot would leave the client in a
		// room it thinks it failed to join; roll the join back.
		m.registry.LeaveRoom(session, ticketID)
		return nil, err
	}

	if _, err := m.store.MarkReadExcept(ticketID, session.UserID); err != nil {
		log.Printf("chat: mark-read after join failed for ticket %d: %v", ticketID, err)
	}

	return messages, nil
}

// Leave drops the session from a ticket's room. No broadcast: other
// participants do not get presence notifications.
func (m *RoomManager) Leave(session *Session, ticketID uint) {
	m.registry.LeaveRoom(session, ticketID)
}
