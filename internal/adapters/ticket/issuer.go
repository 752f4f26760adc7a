package ticket

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"eventportals/internal/domain"
)

type uuidIssuer struct{}

// NewUUIDIssuer returns a TicketIssuer whose codes are random UUIDs with a
// short prefix. Codes are opaque; clients render them as scannable passes.
func NewUUIDIssuer() domain.TicketIssuer {
	return &uuidIssuer{}
}

func (i *uuidIssuer) Issue(registrationID string) (*domain.Ticket, error) {
	if registrationID == "" {
		return nil, fmt.Errorf("registration id is required")
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("failed to generate ticket id: %w", err)
	}
	code, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("failed to generate ticket code: %w", err)
	}
	return &domain.Ticket{
		ID:             id.String(),
		RegistrationID: registrationID,
		Code:           "tkt_" + code.String(),
		IssuedAt:       time.Now(),
	}, nil
}
