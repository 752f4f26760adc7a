package domain

import (
	"context"
	"time"
)

// Ticket is the opaque admission artifact for a confirmed registration. Code
// is what gets rendered as a scannable pass by clients; the backend treats it
// as an opaque string.
// swagger:model Ticket
type Ticket struct {
	ID             string    `json:"id"`
	RegistrationID string    `json:"registration_id"`
	Code           string    `json:"code"`
	IssuedAt       time.Time `json:"issued_at"`
}

// TicketIssuer produces the ticket artifact for a confirmed registration.
// Issue must not have side effects; persistence happens in the caller's
// transaction so an issuance failure aborts the whole unit of work.
type TicketIssuer interface {
	Issue(registrationID string) (*Ticket, error)
}

// TicketRepository defines read access to issued tickets.
type TicketRepository interface {
	GetByRegistrationID(ctx context.Context, registrationID string) (*Ticket, error)
}
