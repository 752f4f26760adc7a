package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventportals/internal/domain"
)

type registrationService struct {
	eventRepo  domain.EventRepository
	regRepo    domain.RegistrationRepository
	ticketRepo domain.TicketRepository
	issuer     domain.TicketIssuer
}

// NewRegistrationService creates the capacity/waitlist registration service.
func NewRegistrationService(
	eventRepo domain.EventRepository,
	regRepo domain.RegistrationRepository,
	ticketRepo domain.TicketRepository,
	issuer domain.TicketIssuer,
) domain.RegistrationService {
	return &registrationService{
		eventRepo:  eventRepo,
		regRepo:    regRepo,
		ticketRepo: ticketRepo,
		issuer:     issuer,
	}
}

// inTxRetryOnce runs the unit of work, retrying once with a fresh read of
// state when the first attempt loses a write conflict.
func (s *registrationService) inTxRetryOnce(ctx context.Context, fn func(tx domain.RegistrationTx) error) error {
	err := s.regRepo.InTx(ctx, fn)
	if errors.Is(err, domain.ErrConcurrencyConflict) {
		err = s.regRepo.InTx(ctx, fn)
	}
	return err
}

func (s *registrationService) Register(ctx context.Context, eventID, userID string) (*domain.RegistrationResult, error) {
	var result *domain.RegistrationResult

	err := s.inTxRetryOnce(ctx, func(tx domain.RegistrationTx) error {
		result = nil

		// Lock the event row first; the confirmed count read below stays
		// authoritative until this unit of work commits.
		event, err := tx.EventForUpdate(ctx, eventID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("lock event: %w", err)
		}

		if _, err := tx.FindActive(ctx, eventID, userID); err == nil {
			return domain.ErrDuplicateRegistration
		} else if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("find active registration: %w", err)
		}

		if event.RegistrationDeadline != nil && time.Now().After(*event.RegistrationDeadline) {
			return domain.ErrDeadlinePassed
		}

		confirmed, err := tx.CountConfirmed(ctx, eventID)
		if err != nil {
			return fmt.Errorf("count confirmed: %w", err)
		}

		now := time.Now()
		if event.Capacity == nil || confirmed < *event.Capacity {
			reg := domain.NewRegistration(eventID, userID, domain.RegistrationConfirmed, now)
			if err := tx.Insert(ctx, reg); err != nil {
				return fmt.Errorf("insert registration: %w", err)
			}
			// Ticket issuance is part of the unit of work: if it fails, the
			// whole registration rolls back.
			ticket, err := s.issuer.Issue(reg.ID)
			if err != nil {
				return fmt.Errorf("issue ticket: %w", err)
			}
			if err := tx.InsertTicket(ctx, ticket); err != nil {
				return fmt.Errorf("insert ticket: %w", err)
			}
			result = &domain.RegistrationResult{Registration: reg, Ticket: ticket}
			return nil
		}

		reg := domain.NewRegistration(eventID, userID, domain.RegistrationWaitlisted, now)
		if err := tx.Insert(ctx, reg); err != nil {
			return fmt.Errorf("insert registration: %w", err)
		}
		// Rank among waitlisted rows created at or before ours, not
		// capacity-overflow arithmetic, so audit history cannot skew it.
		position, err := tx.WaitlistPosition(ctx, eventID, reg.ID)
		if err != nil {
			return fmt.Errorf("waitlist position: %w", err)
		}
		result = &domain.RegistrationResult{Registration: reg, Position: position}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *registrationService) RegisterByCode(ctx context.Context, eventCode, userID string) (*domain.RegistrationResult, error) {
	code := strings.ToLower(strings.TrimSpace(eventCode))
	event, err := s.eventRepo.GetByEventCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event by code: %w", err)
	}
	return s.Register(ctx, event.ID, userID)
}

func (s *registrationService) Cancel(ctx context.Context, eventID, userID string) error {
	return s.inTxRetryOnce(ctx, func(tx domain.RegistrationTx) error {
		if _, err := tx.EventForUpdate(ctx, eventID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// No event, so no active registration either.
				return domain.ErrRegistrationNotFound
			}
			return fmt.Errorf("lock event: %w", err)
		}

		reg, err := tx.FindActive(ctx, eventID, userID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrRegistrationNotFound
			}
			return fmt.Errorf("find active registration: %w", err)
		}

		if err := tx.UpdateStatus(ctx, reg.ID, domain.RegistrationCancelled); err != nil {
			return fmt.Errorf("cancel registration: %w", err)
		}

		// Cancelling a waitlisted entry frees no confirmed slot; only a
		// confirmed cancellation promotes, and at most one registrant.
		if reg.Status != domain.RegistrationConfirmed {
			return nil
		}

		next, err := tx.EarliestWaitlisted(ctx, eventID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil
			}
			return fmt.Errorf("find waitlist head: %w", err)
		}
		if err := tx.UpdateStatus(ctx, next.ID, domain.RegistrationConfirmed); err != nil {
			return fmt.Errorf("promote registration: %w", err)
		}
		ticket, err := s.issuer.Issue(next.ID)
		if err != nil {
			return fmt.Errorf("issue ticket: %w", err)
		}
		if err := tx.InsertTicket(ctx, ticket); err != nil {
			return fmt.Errorf("insert ticket: %w", err)
		}
		return nil
	})
}

func (s *registrationService) WaitlistPosition(ctx context.Context, eventID, userID string) (int, error) {
	reg, err := s.regRepo.FindActive(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, domain.ErrRegistrationNotFound
		}
		return 0, fmt.Errorf("find active registration: %w", err)
	}
	if reg.Status != domain.RegistrationWaitlisted {
		return 0, fmt.Errorf("%w: registration is %s, not waitlisted", domain.ErrInvalidInput, reg.Status)
	}
	position, err := s.regRepo.WaitlistPosition(ctx, eventID, reg.ID)
	if err != nil {
		return 0, fmt.Errorf("waitlist position: %w", err)
	}
	return position, nil
}

func (s *registrationService) GetTicket(ctx context.Context, eventID, userID string) (*domain.Ticket, error) {
	reg, err := s.regRepo.FindActive(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("find active registration: %w", err)
	}
	if reg.Status != domain.RegistrationConfirmed {
		return nil, fmt.Errorf("%w: registration is %s, not confirmed", domain.ErrInvalidInput, reg.Status)
	}
	ticket, err := s.ticketRepo.GetByRegistrationID(ctx, reg.ID)
	if err != nil {
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	return ticket, nil
}

func (s *registrationService) CheckIn(ctx context.Context, ticketCode string) (*domain.Registration, error) {
	var checked *domain.Registration
	err := s.inTxRetryOnce(ctx, func(tx domain.RegistrationTx) error {
		checked = nil

		reg, err := tx.GetByTicketCode(ctx, ticketCode)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("get registration by ticket: %w", err)
		}
		if reg.Status != domain.RegistrationConfirmed {
			return fmt.Errorf("%w: registration is %s, not confirmed", domain.ErrInvalidInput, reg.Status)
		}
		if err := tx.UpdateStatus(ctx, reg.ID, domain.RegistrationAttended); err != nil {
			return fmt.Errorf("mark attended: %w", err)
		}
		reg.Status = domain.RegistrationAttended
		checked = reg
		return nil
	})
	if err != nil {
		return nil, err
	}
	return checked, nil
}

func (s *registrationService) ListMyRegistrations(ctx context.Context, userID string) ([]*domain.RegistrationWithEvent, error) {
	regs, err := s.regRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	if len(regs) == 0 {
		return []*domain.RegistrationWithEvent{}, nil
	}

	eventsByID := make(map[string]*domain.Event)
	result := make([]*domain.RegistrationWithEvent, 0, len(regs))
	for _, reg := range regs {
		event, ok := eventsByID[reg.EventID]
		if !ok {
			event, err = s.eventRepo.GetByID(ctx, reg.EventID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					// Event deleted but registration remains; skip the entry.
					continue
				}
				return nil, fmt.Errorf("get event for registration: %w", err)
			}
			eventsByID[reg.EventID] = event
		}
		result = append(result, &domain.RegistrationWithEvent{
			Registration: reg,
			Event:        event,
		})
	}
	return result, nil
}
