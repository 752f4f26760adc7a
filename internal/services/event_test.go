package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"eventportals/internal/domain"
)

type mockEventRepository struct {
	events  map[string]*domain.Event
	deleted []string
	err     error
}

func (m *mockEventRepository) Create(ctx context.Context, event *domain.Event) error {
	if m.err != nil {
		return m.err
	}
	event.ID = "e-new"
	if m.events == nil {
		m.events = map[string]*domain.Event{}
	}
	m.events[event.ID] = event
	return nil
}

func (m *mockEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	ev, ok := m.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return ev, nil
}

func (m *mockEventRepository) GetByEventCode(ctx context.Context, eventCode string) (*domain.Event, error) {
	for _, ev := range m.events {
		if ev.EventCode == eventCode {
			return ev, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockEventRepository) ListByOwnerID(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.Event
	for _, ev := range m.events {
		if ev.OwnerID == ownerID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (m *mockEventRepository) List(ctx context.Context, p domain.PaginationParams) ([]*domain.Event, int, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	var out []*domain.Event
	for _, ev := range m.events {
		out = append(out, ev)
	}
	return out, len(out), nil
}

func (m *mockEventRepository) Update(ctx context.Context, eventID string, upd domain.EventUpdate) (*domain.Event, error) {
	ev, ok := m.events[eventID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *ev
	if upd.Name != nil {
		cp.Name = *upd.Name
	}
	if upd.ClearCapacity {
		cp.Capacity = nil
	} else if upd.Capacity != nil {
		cp.Capacity = upd.Capacity
	}
	m.events[eventID] = &cp
	return &cp, nil
}

func (m *mockEventRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.events[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.events, id)
	m.deleted = append(m.deleted, id)
	return nil
}

// regCounts satisfies the registration repository with canned counters; the
// event service only reads aggregates from it.
type regCounts struct {
	domain.RegistrationRepository
	confirmed int
	active    int
}

func (m *regCounts) CountConfirmed(ctx context.Context, eventID string) (int, error) {
	return m.confirmed, nil
}

func (m *regCounts) CountActive(ctx context.Context, eventID string) (int, error) {
	return m.active, nil
}

func (m *regCounts) ListByEventID(ctx context.Context, eventID string, p domain.PaginationParams) ([]*domain.Registration, int, error) {
	regs := make([]*domain.Registration, m.active)
	for i := range regs {
		regs[i] = &domain.Registration{ID: "r", EventID: eventID, Status: domain.RegistrationConfirmed}
	}
	return regs, m.active, nil
}

func TestEventService_CreateEvent(t *testing.T) {
	tests := []struct {
		name    string
		event   *domain.Event
		wantErr error
	}{
		{
			name:  "valid with capacity",
			event: &domain.Event{Name: "Meetup", OwnerID: "org1", Capacity: intPtr(50)},
		},
		{
			name:  "valid unbounded",
			event: &domain.Event{Name: "Meetup", OwnerID: "org1"},
		},
		{
			name:    "blank name",
			event:   &domain.Event{Name: "   ", OwnerID: "org1"},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "zero capacity",
			event:   &domain.Event{Name: "Meetup", OwnerID: "org1", Capacity: intPtr(0)},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "negative capacity",
			event:   &domain.Event{Name: "Meetup", OwnerID: "org1", Capacity: intPtr(-3)},
			wantErr: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockEventRepository{events: map[string]*domain.Event{}}
			svc := NewEventService(repo, &regCounts{})

			err := svc.CreateEvent(context.Background(), tt.event)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			if len(tt.event.EventCode) != eventCodeLength {
				t.Fatalf("expected generated %d-char event code, got %q", eventCodeLength, tt.event.EventCode)
			}
			if tt.event.CreatedAt.IsZero() {
				t.Fatal("expected CreatedAt to be set")
			}
		})
	}
}

func TestEventService_CreateEvent_KeepsProvidedCode(t *testing.T) {
	repo := &mockEventRepository{events: map[string]*domain.Event{}}
	svc := NewEventService(repo, &regCounts{})

	event := &domain.Event{Name: "Meetup", OwnerID: "org1", EventCode: "ab12"}
	if err := svc.CreateEvent(context.Background(), event); err != nil {
		t.Fatalf("create: %v", err)
	}
	if event.EventCode != "ab12" {
		t.Fatalf("expected provided code to survive, got %q", event.EventCode)
	}
}

func TestEventService_UpdateEvent(t *testing.T) {
	newName := "Renamed"
	tests := []struct {
		name      string
		eventID   string
		ownerID   string
		confirmed int
		upd       domain.EventUpdate
		wantErr   error
	}{
		{
			name:    "rename by owner",
			eventID: "e1",
			ownerID: "org1",
			upd:     domain.EventUpdate{Name: &newName},
		},
		{
			name:    "not owner",
			eventID: "e1",
			ownerID: "someone-else",
			upd:     domain.EventUpdate{Name: &newName},
			wantErr: domain.ErrForbidden,
		},
		{
			name:    "unknown event",
			eventID: "missing",
			ownerID: "org1",
			upd:     domain.EventUpdate{Name: &newName},
			wantErr: domain.ErrNotFound,
		},
		{
			name:      "capacity below confirmed count",
			eventID:   "e1",
			ownerID:   "org1",
			confirmed: 8,
			upd:       domain.EventUpdate{Capacity: intPtr(5)},
			wantErr:   domain.ErrInvalidInput,
		},
		{
			name:      "capacity equal to confirmed count",
			eventID:   "e1",
			ownerID:   "org1",
			confirmed: 5,
			upd:       domain.EventUpdate{Capacity: intPtr(5)},
		},
		{
			name:      "clearing capacity skips the confirmed check",
			eventID:   "e1",
			ownerID:   "org1",
			confirmed: 8,
			upd:       domain.EventUpdate{ClearCapacity: true},
		},
		{
			name:    "zero capacity",
			eventID: "e1",
			ownerID: "org1",
			upd:     domain.EventUpdate{Capacity: intPtr(0)},
			wantErr: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockEventRepository{events: map[string]*domain.Event{
				"e1": {ID: "e1", Name: "Meetup", OwnerID: "org1", Capacity: intPtr(10)},
			}}
			svc := NewEventService(repo, &regCounts{confirmed: tt.confirmed})

			got, err := svc.UpdateEvent(context.Background(), tt.eventID, tt.ownerID, tt.upd)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("update: %v", err)
			}
			if got == nil {
				t.Fatal("expected updated event")
			}
			if tt.upd.ClearCapacity && got.Capacity != nil {
				t.Fatal("expected capacity cleared")
			}
		})
	}
}

func TestEventService_DeleteEvent(t *testing.T) {
	tests := []struct {
		name    string
		eventID string
		ownerID string
		active  int
		wantErr error
	}{
		{name: "owner deletes idle event", eventID: "e1", ownerID: "org1"},
		{name: "not owner", eventID: "e1", ownerID: "intruder", wantErr: domain.ErrForbidden},
		{name: "unknown event", eventID: "missing", ownerID: "org1", wantErr: domain.ErrNotFound},
		{name: "active registrations block delete", eventID: "e1", ownerID: "org1", active: 3, wantErr: domain.ErrActiveRegistrations},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockEventRepository{events: map[string]*domain.Event{
				"e1": {ID: "e1", Name: "Meetup", OwnerID: "org1"},
			}}
			svc := NewEventService(repo, &regCounts{active: tt.active})

			err := svc.DeleteEvent(context.Background(), tt.eventID, tt.ownerID)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if len(repo.deleted) != 0 {
					t.Fatal("event must not be deleted on error")
				}
				return
			}
			if err != nil {
				t.Fatalf("delete: %v", err)
			}
			if len(repo.deleted) != 1 || repo.deleted[0] != tt.eventID {
				t.Fatalf("expected %s deleted, got %v", tt.eventID, repo.deleted)
			}
		})
	}
}

func TestEventService_ListAttendees(t *testing.T) {
	repo := &mockEventRepository{events: map[string]*domain.Event{
		"e1": {ID: "e1", Name: "Meetup", OwnerID: "org1"},
	}}
	svc := NewEventService(repo, &regCounts{active: 2})
	p := domain.PaginationParams{Page: 1, PageSize: 20}

	regs, total, err := svc.ListAttendees(context.Background(), "e1", "org1", p)
	if err != nil {
		t.Fatalf("list attendees: %v", err)
	}
	if total != 2 || len(regs) != 2 {
		t.Fatalf("expected 2 attendees, got %d (total %d)", len(regs), total)
	}

	if _, _, err := svc.ListAttendees(context.Background(), "e1", "intruder", p); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, _, err := svc.ListAttendees(context.Background(), "missing", "org1", p); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEventService_ListMyEvents_EmptyIsNotNil(t *testing.T) {
	repo := &mockEventRepository{events: map[string]*domain.Event{}}
	svc := NewEventService(repo, &regCounts{})

	events, err := svc.ListMyEvents(context.Background(), "org1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if events == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(events) != 0 {
		t.Fatalf("expected no events, got %d", len(events))
	}
}

func TestEventService_GetEventByID(t *testing.T) {
	deadline := time.Now().Add(time.Hour)
	repo := &mockEventRepository{events: map[string]*domain.Event{
		"e1": {ID: "e1", Name: "Meetup", OwnerID: "org1", RegistrationDeadline: &deadline},
	}}
	svc := NewEventService(repo, &regCounts{})

	got, err := svc.GetEventByID(context.Background(), "e1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Meetup" {
		t.Fatalf("expected Meetup, got %s", got.Name)
	}
	if _, err := svc.GetEventByID(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
