package domain

import (
	"context"
	"time"
)

// Event represents a managed event. Capacity bounds the number of confirmed
// registrations; nil means unbounded. RegistrationDeadline, when set, closes
// registration after that instant.
// swagger:model Event
type Event struct {
	ID                   string     `json:"id"`
	Name                 string     `json:"name"`
	EventCode            string     `json:"event_code"`
	OwnerID              string     `json:"owner_id"`
	Capacity             *int       `json:"capacity"`
	RegistrationDeadline *time.Time `json:"registration_deadline"`
	Description          *string    `json:"description"`
	Date                 *time.Time `json:"date"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// NewEvent returns a new Event with the given fields. ID is typically set by the repository on create.
func NewEvent(name, eventCode, ownerID string, capacity *int, deadline *time.Time, createdAt, updatedAt time.Time) *Event {
	return &Event{
		Name:                 name,
		EventCode:            eventCode,
		OwnerID:              ownerID,
		Capacity:             capacity,
		RegistrationDeadline: deadline,
		CreatedAt:            createdAt,
		UpdatedAt:            updatedAt,
	}
}

// EventUpdate carries the mutable event fields for Update. Nil pointer
// fields are left unchanged; ClearCapacity removes the capacity bound and
// ClearDeadline removes the registration deadline.
type EventUpdate struct {
	Name          *string
	Capacity      *int
	ClearCapacity bool
	Deadline      *time.Time
	ClearDeadline bool
	Description   *string
	Date          *time.Time
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	GetByEventCode(ctx context.Context, eventCode string) (*Event, error)
	ListByOwnerID(ctx context.Context, ownerID string) ([]*Event, error)
	List(ctx context.Context, p PaginationParams) ([]*Event, int, error)
	Update(ctx context.Context, eventID string, upd EventUpdate) (*Event, error)
	Delete(ctx context.Context, id string) error
}

// EventService defines organizer-facing event operations.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event) error
	GetEventByID(ctx context.Context, eventID string) (*Event, error)
	ListMyEvents(ctx context.Context, ownerID string) ([]*Event, error)
	// UpdateEvent applies upd after verifying ownership. A capacity change
	// that would drop below the current confirmed count is rejected with
	// ErrInvalidInput.
	UpdateEvent(ctx context.Context, eventID, ownerID string, upd EventUpdate) (*Event, error)
	// DeleteEvent removes an event with no active registrations; otherwise
	// it fails with ErrActiveRegistrations.
	DeleteEvent(ctx context.Context, eventID, ownerID string) error
	// ListAttendees returns the event's registrations (all statuses), newest
	// first, with the total count for pagination.
	ListAttendees(ctx context.Context, eventID, ownerID string, p PaginationParams) ([]*Registration, int, error)
}
