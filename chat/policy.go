package chat

import (
	"fixdesk/models"
)

// Actor is the verified identity a request or socket session acts as.
// Resolved once at the entry point and passed down; handlers never re-derive
// role flags from raw claims.
type Actor struct {
	ID   uint
	Role string
}

// CanView reports whether the actor may observe a ticket's chat thread.
//
// Service desk staff see every ticket, including unassigned ones, so they can
// claim them. Admins have blanket visibility. Standard users only see tickets
// they reported; they are never assignees.
func CanView(actor Actor, ticket *models.Ticket) bool {
	if ticket == nil {
		return false
	}

	switch actor.Role {
	case models.RoleServiceDesk, models.RoleAdmin:
		return true
	case models.RoleStandard:
		return actor.ID == ticket.ReporterID
	}
	return false
}

// CanSend reports whether the actor may post to a ticket's chat thread. When
// it returns false the reason distinguishes "reporter waiting on assignment"
// from "no relationship to the ticket".
//
// Admins do not participate in chat: they observe but never send.
func CanSend(actor Actor, ticket *models.Ticket) (bool, ForbiddenReason) {
	if ticket == nil {
		return false, ReasonNoRelationship
	}

	switch actor.Role {
	case models.RoleServiceDesk:
		return true, ""
	case models.RoleStandard:
		if actor.ID != ticket.ReporterID {
			return false, ReasonNoRelationship
		}
		if ticket.AssignedToID == nil {
			return false, ReasonNotAssigned
		}
		return true, ""
	}
	return false, ReasonNoRelationship
}
