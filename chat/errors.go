package chat

import "fmt"

// ForbiddenReason distinguishes why a send/view was denied; callers surface
// different messages for each.
type ForbiddenReason string

const (
	// ReasonNotAssigned means the reporter must wait for assignment before messaging.
	ReasonNotAssigned ForbiddenReason = "not-assigned"
	// ReasonNoRelationship means the actor has no standing on the ticket at all.
	ReasonNoRelationship ForbiddenReason = "no-relationship"
)

// ValidationError signals malformed input (empty message content).
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// NotFoundError signals a missing ticket.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// ForbiddenError signals a policy denial, carrying the sub-reason.
type ForbiddenError struct {
	Reason ForbiddenReason
	Msg    string
}

func (e *ForbiddenError) Error() string { return e.Msg }

// AuthenticationError signals a failed socket handshake. The wrapped cause is
// logged server-side; clients only ever see the opaque message.
type AuthenticationError struct {
	Err error
}

func (e *AuthenticationError) Error() string { return "Authentication error" }

func (e *AuthenticationError) Unwrap() error { return e.Err }

// StoreError wraps a persistence failure. Callers treat it as transient and
// surface a generic message.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store: %s: %v", e.Op, e.Err) }

func (e *StoreError) Unwrap() error { return e.Err }
