package chat

import (
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type joinPayload struct {
	TicketID uint `json:"ticketId"`
}

type sendPayload struct {
	TicketID uint   `json:"ticketId"`
	Content  string `json:"content"`
}

type inboundFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// UpgradeMiddleware gates the socket route to real websocket upgrades and
// stashes the handshake credential for the connection handler. The credential
// travels out-of-band from ordinary request headers: a long-lived connection
// has exactly one upgrade request, so the token rides on it as a query
// parameter (or a standard bearer header).
func UpgradeMiddleware(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	token := c.Query("token")
	if token == "" {
		header := c.Get("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			token = header[len("Bearer "):]
		}
	}
	c.Locals("token", token)
	return c.Next()
}

// SocketHandler returns the websocket connection handler: authenticate the
// handshake, then dispatch join-ticket and send-message events until the
// connection drops.
func SocketHandler(registry *Registry, rooms *RoomManager, pipeline *Pipeline) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		defer conn.Close()

		// The credential arrived on the upgrade request, so admission runs
		// immediately; an unauthenticated connection never idles waiting for
		// a client frame.
		token, _ := conn.Locals("token").(string)
		session, err := registry.Admit(token)
		if err != nil {
			var authErr *AuthenticationError
			if errors.As(err, &authErr) {
				log.Printf("chat: socket auth failed: %v", authErr.Unwrap())
			}
			_ = conn.WriteJSON(Event{Event: EventError, Data: fiber.Map{"message": "Authentication error"}})
			return
		}

		// Writer pump: the session's outbound channel is the single ordered
		// stream for this connection.
		writeDone := make(chan struct{})
		go func() {
			defer close(writeDone)
			for evt := range session.Events() {
				_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
				if err := conn.WriteJSON(evt); err != nil {
					return
				}
			}
		}()

		for {
			var frame inboundFrame
			if err := conn.ReadJSON(&frame); err != nil {
				break
			}
			dispatch(session, rooms, pipeline, frame)
		}

		registry.Remove(session)
		<-writeDone
	})
}

func dispatch(session *Session, rooms *RoomManager, pipeline *Pipeline, frame inboundFrame) {
	switch frame.Event {
	case EventJoinTicket:
		ticketID, ok := parseJoinTarget(frame.Data)
		if !ok {
			session.Send(errorEvent("Ticket not found"))
			return
		}
		messages, err := rooms.Join(session, ticketID)
		if err != nil {
			session.Send(errorEvent(clientMessage(err, "Error joining ticket room")))
			return
		}
		session.Send(Event{Event: EventMessagesLoaded, Data: fiber.Map{"messages": messages}})

	case EventSendMessage:
		var payload sendPayload
		if err := json.Unmarshal(frame.Data, &payload); err != nil {
			session.Send(errorEvent("Message content is required"))
			return
		}
		// Broadcast to the room reaches the sender too, since they are bound
		// to it; the direct return is only for the one-shot entry point.
		if _, err := pipeline.Send(session.Actor(), payload.TicketID, payload.Content); err != nil {
			session.Send(errorEvent(clientMessage(err, "Error sending message")))
			return
		}

	default:
		session.Send(errorEvent("Unknown event"))
	}
}

// parseJoinTarget accepts either a bare ticket id or a {ticketId} object.
func parseJoinTarget(raw json.RawMessage) (uint, bool) {
	var id uint
	if err := json.Unmarshal(raw, &id); err == nil && id != 0 {
		return id, true
	}
	var payload joinPayload
	if err := json.Unmarshal(raw, &payload); err == nil && payload.TicketID != 0 {
		return payload.TicketID, true
	}
	return 0, false
}

func errorEvent(message string) Event {
	return Event{Event: EventError, Data: fiber.Map{"message": message}}
}

// clientMessage maps a pipeline failure to the string the client may see.
// Store failures collapse to the generic fallback; detail stays in the log.
func clientMessage(err error, fallback string) string {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Msg
	}
	var notFoundErr *NotFoundError
	if errors.As(err, &notFoundErr) {
		return notFoundErr.Resource + " not found"
	}
	var forbiddenErr *ForbiddenError
	if errors.As(err, &forbiddenErr) {
		return forbiddenErr.Msg
	}
	log.Printf("chat: %s: %v", fallback, err)
	return fallback
}
