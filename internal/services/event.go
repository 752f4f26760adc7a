package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"eventportals/internal/domain"
)

type eventService struct {
	eventRepo domain.EventRepository
	regRepo   domain.RegistrationRepository
}

// NewEventService creates the organizer-facing event service.
func NewEventService(eventRepo domain.EventRepository, regRepo domain.RegistrationRepository) domain.EventService {
	return &eventService{
		eventRepo: eventRepo,
		regRepo:   regRepo,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	event.Name = strings.TrimSpace(event.Name)
	if event.Name == "" {
		return fmt.Errorf("%w: event name is required", domain.ErrInvalidInput)
	}
	if event.OwnerID == "" {
		return fmt.Errorf("%w: event owner is required", domain.ErrInvalidInput)
	}
	if event.Capacity != nil && *event.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be a positive integer", domain.ErrInvalidInput)
	}

	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()

	if event.EventCode == "" {
		code, err := generateEventCode()
		if err != nil {
			return fmt.Errorf("generate event code: %w", err)
		}
		event.EventCode = code
	}

	return s.eventRepo.Create(ctx, event)
}

const eventCodeLength = 4

var eventCodeAlphabet = []rune("abcdefghijklmnopqrstuvwxyz0123456789")

func generateEventCode() (string, error) {
	b := make([]rune, eventCodeLength)
	max := big.NewInt(int64(len(eventCodeAlphabet)))
	for i := 0; i < eventCodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = eventCodeAlphabet[n.Int64()]
	}
	return string(b), nil
}

func (s *eventService) GetEventByID(ctx context.Context, eventID string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) ListMyEvents(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	events, err := s.eventRepo.ListByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, eventID, ownerID string, upd domain.EventUpdate) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}

	if upd.Capacity != nil && !upd.ClearCapacity {
		if *upd.Capacity <= 0 {
			return nil, fmt.Errorf("%w: capacity must be a positive integer", domain.ErrInvalidInput)
		}
		// Capacity may never drop below registrations already confirmed;
		// that would break the capacity invariant retroactively.
		confirmed, err := s.regRepo.CountConfirmed(ctx, eventID)
		if err != nil {
			return nil, fmt.Errorf("count confirmed: %w", err)
		}
		if *upd.Capacity < confirmed {
			return nil, fmt.Errorf("%w: capacity %d is below %d confirmed registrations", domain.ErrInvalidInput, *upd.Capacity, confirmed)
		}
	}

	updated, err := s.eventRepo.Update(ctx, eventID, upd)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return updated, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, eventID, ownerID string) error {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if event.OwnerID != ownerID {
		return domain.ErrForbidden
	}

	active, err := s.regRepo.CountActive(ctx, eventID)
	if err != nil {
		return fmt.Errorf("count active registrations: %w", err)
	}
	if active > 0 {
		return domain.ErrActiveRegistrations
	}

	return s.eventRepo.Delete(ctx, eventID)
}

func (s *eventService) ListAttendees(ctx context.Context, eventID, ownerID string, p domain.PaginationParams) ([]*domain.Registration, int, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, 0, domain.ErrNotFound
		}
		return nil, 0, fmt.Errorf("get event: %w", err)
	}
	if event.OwnerID != ownerID {
		return nil, 0, domain.ErrForbidden
	}

	regs, total, err := s.regRepo.ListByEventID(ctx, eventID, p)
	if err != nil {
		return nil, 0, fmt.Errorf("list registrations: %w", err)
	}
	return regs, total, nil
}
