package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventportals/internal/delivery/http/helpers"
	"eventportals/internal/domain"
)

type mockEventService struct {
	event  *domain.Event
	events []*domain.Event
	regs   []*domain.Registration
	total  int
	err    error

	gotUpdate  domain.EventUpdate
	gotEventID string
	gotOwnerID string
}

func (m *mockEventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	m.event = event
	return m.err
}

func (m *mockEventService) GetEventByID(ctx context.Context, eventID string) (*domain.Event, error) {
	m.gotEventID = eventID
	return m.event, m.err
}

func (m *mockEventService) ListMyEvents(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	m.gotOwnerID = ownerID
	return m.events, m.err
}

func (m *mockEventService) UpdateEvent(ctx context.Context, eventID, ownerID string, upd domain.EventUpdate) (*domain.Event, error) {
	m.gotEventID, m.gotOwnerID, m.gotUpdate = eventID, ownerID, upd
	return m.event, m.err
}

func (m *mockEventService) DeleteEvent(ctx context.Context, eventID, ownerID string) error {
	m.gotEventID, m.gotOwnerID = eventID, ownerID
	return m.err
}

func (m *mockEventService) ListAttendees(ctx context.Context, eventID, ownerID string, p domain.PaginationParams) ([]*domain.Registration, int, error) {
	m.gotEventID, m.gotOwnerID = eventID, ownerID
	return m.regs, m.total, m.err
}

func TestEventController_CreateEvent(t *testing.T) {
	svc := &mockEventService{}
	ctrl := NewEventController(testControllerLogger(), svc)

	body := `{"name":"Launch Party","capacity":50}`
	req := authedRequest(http.MethodPost, "/organizer/events", body, "org1")
	w := httptest.NewRecorder()

	ctrl.CreateEvent(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}
	if svc.event == nil || svc.event.Name != "Launch Party" {
		t.Fatalf("service received event %+v", svc.event)
	}
	if svc.event.OwnerID != "org1" {
		t.Fatalf("expected owner org1, got %q", svc.event.OwnerID)
	}
	if svc.event.Capacity == nil || *svc.event.Capacity != 50 {
		t.Fatalf("expected capacity 50, got %v", svc.event.Capacity)
	}
}

func TestEventController_CreateEvent_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"capacity":50}`},
		{"zero capacity", `{"name":"Launch","capacity":0}`},
		{"negative capacity", `{"name":"Launch","capacity":-3}`},
		{"unknown field", `{"name":"Launch","seats":10}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewEventController(testControllerLogger(), &mockEventService{})

			req := authedRequest(http.MethodPost, "/organizer/events", tt.body, "org1")
			w := httptest.NewRecorder()

			ctrl.CreateEvent(w, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
			}
		})
	}
}

func TestEventController_UpdateEvent_ForwardsClearFlags(t *testing.T) {
	svc := &mockEventService{event: &domain.Event{ID: "e1", Name: "Launch"}}
	ctrl := NewEventController(testControllerLogger(), svc)

	body := `{"clear_capacity":true,"clear_deadline":true}`
	req := authedRequest(http.MethodPatch, "/organizer/events/e1", body, "org1")
	req.SetPathValue("eventID", "e1")
	w := httptest.NewRecorder()

	ctrl.UpdateEvent(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	if !svc.gotUpdate.ClearCapacity || !svc.gotUpdate.ClearDeadline {
		t.Fatalf("clear flags not forwarded: %+v", svc.gotUpdate)
	}
}

func TestEventController_UpdateEvent_NotOwner(t *testing.T) {
	svc := &mockEventService{err: domain.ErrForbidden}
	ctrl := NewEventController(testControllerLogger(), svc)

	req := authedRequest(http.MethodPatch, "/organizer/events/e1", `{"name":"New Name"}`, "org2")
	req.SetPathValue("eventID", "e1")
	w := httptest.NewRecorder()

	ctrl.UpdateEvent(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status %d, got %d", http.StatusForbidden, w.Code)
	}
	resp := decodeEnvelope(t, w)
	if resp.Error == nil || resp.Error.Code != helpers.ErrCodeForbidden {
		t.Fatalf("expected forbidden error, got %+v", resp.Error)
	}
}

func TestEventController_DeleteEvent_ActiveRegistrations(t *testing.T) {
	svc := &mockEventService{err: domain.ErrActiveRegistrations}
	ctrl := NewEventController(testControllerLogger(), svc)

	req := authedRequest(http.MethodDelete, "/organizer/events/e1", "", "org1")
	req.SetPathValue("eventID", "e1")
	w := httptest.NewRecorder()

	ctrl.DeleteEvent(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected status %d, got %d", http.StatusConflict, w.Code)
	}
	resp := decodeEnvelope(t, w)
	if resp.Error == nil || resp.Error.Code != helpers.ErrCodeConflict {
		t.Fatalf("expected conflict error, got %+v", resp.Error)
	}
}

func TestEventController_ListAttendees_Pagination(t *testing.T) {
	svc := &mockEventService{
		regs: []*domain.Registration{
			{ID: "r1", EventID: "e1", UserID: "u1", Status: domain.RegistrationConfirmed},
		},
		total: 41,
	}
	ctrl := NewEventController(testControllerLogger(), svc)

	req := authedRequest(http.MethodGet, "/organizer/events/e1/attendees?page=2&page_size=20", "", "org1")
	req.SetPathValue("eventID", "e1")
	w := httptest.NewRecorder()

	ctrl.ListAttendees(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	resp := decodeEnvelope(t, w)
	data, _ := json.Marshal(resp.Data)
	var body ListAttendeesResponse
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("failed to unmarshal attendees: %v", err)
	}
	if len(body.Registrations) != 1 {
		t.Fatalf("expected 1 registration, got %d", len(body.Registrations))
	}
	if body.Pagination.Total != 41 || body.Pagination.Page != 2 {
		t.Fatalf("unexpected pagination: %+v", body.Pagination)
	}
}
