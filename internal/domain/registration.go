package domain

import (
	"context"
	"time"
)

// RegistrationStatus is the lifecycle state of a registration.
type RegistrationStatus string

const (
	// RegistrationConfirmed counts against event capacity; the holder has a ticket.
	RegistrationConfirmed RegistrationStatus = "confirmed"
	// RegistrationWaitlisted is recorded but not counted against capacity;
	// eligible for FIFO promotion when a confirmed slot frees up.
	RegistrationWaitlisted RegistrationStatus = "waitlisted"
	// RegistrationCancelled is terminal. Cancelled rows are kept for audit
	// and never block a fresh registration.
	RegistrationCancelled RegistrationStatus = "cancelled"
	// RegistrationAttended is terminal, reached only via ticket check-in.
	RegistrationAttended RegistrationStatus = "attended"
)

// Active reports whether the status counts as an active registration
// (confirmed or waitlisted).
func (s RegistrationStatus) Active() bool {
	return s == RegistrationConfirmed || s == RegistrationWaitlisted
}

// Registration represents one user's relationship to one event. At most one
// active registration exists per (event, user) pair; CreatedAt is the sole
// tie-break for waitlist ordering.
// swagger:model Registration
type Registration struct {
	ID        string             `json:"id"`
	EventID   string             `json:"event_id"`
	UserID    string             `json:"user_id"`
	Status    RegistrationStatus `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// NewRegistration creates a new Registration. ID is typically set by the repository on create.
func NewRegistration(eventID, userID string, status RegistrationStatus, createdAt time.Time) *Registration {
	return &Registration{
		EventID:   eventID,
		UserID:    userID,
		Status:    status,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

// RegistrationResult is the outcome of Register. Ticket is set iff the
// registration was confirmed; Position is the 1-based waitlist rank and is 0
// for confirmed registrations.
type RegistrationResult struct {
	Registration *Registration `json:"registration"`
	Ticket       *Ticket       `json:"ticket,omitempty"`
	Position     int           `json:"position,omitempty"`
}

// RegistrationWithEvent bundles a registration with its related event.
type RegistrationWithEvent struct {
	Registration *Registration `json:"registration"`
	Event        *Event        `json:"event"`
}

// RegistrationTx is the transaction-scoped view of registration storage.
// Every method runs against the same unit of work; reads are only valid for
// decisions made inside that unit of work.
type RegistrationTx interface {
	// EventForUpdate reads the event row and locks it for the remainder of
	// the transaction, serializing concurrent registrations per event.
	EventForUpdate(ctx context.Context, eventID string) (*Event, error)
	// FindActive returns the confirmed or waitlisted registration for
	// (eventID, userID), or ErrNotFound.
	FindActive(ctx context.Context, eventID, userID string) (*Registration, error)
	// CountConfirmed counts confirmed registrations for the event.
	CountConfirmed(ctx context.Context, eventID string) (int, error)
	// EarliestWaitlisted returns the oldest waitlisted registration for the
	// event (FIFO head), or ErrNotFound when the waitlist is empty.
	EarliestWaitlisted(ctx context.Context, eventID string) (*Registration, error)
	Insert(ctx context.Context, reg *Registration) error
	UpdateStatus(ctx context.Context, id string, status RegistrationStatus) error
	InsertTicket(ctx context.Context, ticket *Ticket) error
	// GetByTicketCode resolves the registration holding the ticket code.
	GetByTicketCode(ctx context.Context, code string) (*Registration, error)
	// WaitlistPosition returns the 1-based rank of the given waitlisted
	// registration among the event's waitlisted rows, ordered by CreatedAt.
	WaitlistPosition(ctx context.Context, eventID, registrationID string) (int, error)
}

// RegistrationRepository defines storage operations for registrations. InTx
// runs fn inside a single atomic unit of work and rolls back entirely when fn
// fails; a commit-time write conflict surfaces as ErrConcurrencyConflict.
type RegistrationRepository interface {
	InTx(ctx context.Context, fn func(tx RegistrationTx) error) error

	FindActive(ctx context.Context, eventID, userID string) (*Registration, error)
	ListByUserID(ctx context.Context, userID string) ([]*Registration, error)
	ListByEventID(ctx context.Context, eventID string, p PaginationParams) ([]*Registration, int, error)
	CountConfirmed(ctx context.Context, eventID string) (int, error)
	CountActive(ctx context.Context, eventID string) (int, error)
	WaitlistPosition(ctx context.Context, eventID, registrationID string) (int, error)
	GetByTicketCode(ctx context.Context, code string) (*Registration, error)
}

// RegistrationService owns the capacity/waitlist state machine.
type RegistrationService interface {
	// Register creates a confirmed registration while capacity remains,
	// otherwise a waitlisted one. Errors: ErrNotFound (event),
	// ErrDuplicateRegistration, ErrDeadlinePassed, ErrConcurrencyConflict.
	Register(ctx context.Context, eventID, userID string) (*RegistrationResult, error)
	// RegisterByCode resolves the event by its share code, then registers.
	RegisterByCode(ctx context.Context, eventCode, userID string) (*RegistrationResult, error)
	// Cancel cancels the caller's active registration. Cancelling a
	// confirmed registration promotes the earliest waitlisted registrant,
	// if any. Errors: ErrRegistrationNotFound.
	Cancel(ctx context.Context, eventID, userID string) error
	// WaitlistPosition returns the caller's current 1-based waitlist rank.
	// Errors: ErrRegistrationNotFound (no active registration),
	// ErrInvalidInput (registration is confirmed, not waitlisted).
	WaitlistPosition(ctx context.Context, eventID, userID string) (int, error)
	// GetTicket returns the ticket for the caller's confirmed registration.
	GetTicket(ctx context.Context, eventID, userID string) (*Ticket, error)
	// CheckIn marks the confirmed registration holding the ticket code as
	// attended. Errors: ErrNotFound (unknown code), ErrInvalidInput
	// (registration not in confirmed state).
	CheckIn(ctx context.Context, ticketCode string) (*Registration, error)
	ListMyRegistrations(ctx context.Context, userID string) ([]*RegistrationWithEvent, error)
}
