package chat

import (
	"log"
	"strings"

	"fixdesk/models"
)

// Broadcaster fans a room event out to every bound session.
type Broadcaster interface {
	Broadcast(ticketID uint, evt Event)
}

// Pipeline is the single delivery path for ticket-chat messages. Both the
// HTTP endpoints and the socket events funnel through it, so authorization
// and persistence cannot drift between the two.
type Pipeline struct {
	tickets   TicketDirectory
	store     MessageStore
	broadcast Broadcaster
}

func NewPipeline(tickets TicketDirectory, store MessageStore, broadcast Broadcaster) *Pipeline {
	return &Pipeline{tickets: tickets, store: store, broadcast: broadcast}
}

// Send validates, authorizes, persists and fans out one message. The stored
// record is returned to the caller; sessions bound to the ticket's room
// receive it as a new-message event. Sending also marks the counterpart's
// prior messages read, mirroring the join-time side effect.
func (p *Pipeline) Send(actor Actor, ticketID uint, content string) (*models.Message, error) {
	// Content is checked before anything else so a blank message reads the
	// same on both entry points, whatever the ticket's state.
	if strings.TrimSpace(content) == "" {
		return nil, &ValidationError{Msg: "Message content is required"}
	}

	ticket, err := p.tickets.TicketByID(ticketID)
	if err != nil {
		return nil, err
	}

	if allowed, reason := CanSend(actor, ticket); !allowed {
		if reason == ReasonNotAssigned {
			return nil, &ForbiddenError{
				Reason: reason,
				Msg:    "Ticket must be assigned before you can send messages",
			}
		}
		return nil, &ForbiddenError{
			Reason: reason,
			Msg:    "You do not have permission to send messages for this ticket",
		}
	}

	message, err := p.store.Append(ticketID, actor.ID, content)
	if err != nil {
		return nil, err
	}

	p.broadcast.Broadcast(ticketID, Event{
		Event: EventNewMessage,
		Data:  map[string]interface{}{"message": message},
	})

	// The sender's own outgoing message never counts against their unread
	// set; sending marks everything from the counterpart read.
	if _, err := p.store.MarkReadExcept(ticketID, actor.ID); err != nil {
		log.Printf("chat: mark-read after send failed for ticket %d: %v", ticketID, err)
	}

	return message, nil
}

// History authorizes the actor against the ticket and returns the ordered
// thread. Opening the thread marks the counterpart's messages read.
func (p *Pipeline) History(actor Actor, ticketID uint) ([]models.Message, error) {
	ticket, err := p.tickets.TicketByID(ticketID)
	if err != nil {
		return nil, err
	}

	if !CanView(actor, ticket) {
		return nil, &ForbiddenError{
			Reason: ReasonNoRelationship,
			Msg:    "You do not have permission to view messages for this ticket",
		}
	}

	messages, err := p.store.ListByTicket(ticketID)
	if err != nil {
		return nil, err
	}

	if _, err := p.store.MarkReadExcept(ticketID, actor.ID); err != nil {
		log.Printf("chat: mark-read after history failed for ticket %d: %v", ticketID, err)
	}

	return messages, nil
}

// MarkRead is the standalone "I have seen this thread" action.
func (p *Pipeline) MarkRead(actor Actor, ticketID uint) error {
	ticket, err := p.tickets.TicketByID(ticketID)
	if err != nil {
		return err
	}

	if !CanView(actor, ticket) {
		return &ForbiddenError{
			Reason: ReasonNoRelationship,
			Msg:    "You do not have permission to access this ticket",
		}
	}

	_, err = p.store.MarkReadExcept(ticketID, actor.ID)
	return err
}
