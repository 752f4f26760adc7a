package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"eventportals/internal/delivery/http/helpers"
	"eventportals/internal/delivery/http/middleware"
	"eventportals/internal/domain"
)

// CreateEventRequest is the request body for POST /organizer/events.
type CreateEventRequest struct {
	Name                 string     `json:"name"`
	Capacity             *int       `json:"capacity"`
	RegistrationDeadline *time.Time `json:"registration_deadline"`
	Description          *string    `json:"description"`
	Date                 *time.Time `json:"date"`
}

// Validate implements Validator.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if c.Name == "" {
		errs = append(errs, "name is required")
	}
	if c.Capacity != nil && *c.Capacity <= 0 {
		errs = append(errs, "capacity must be a positive integer")
	}
	return errs
}

// UpdateEventRequest is the request body for PATCH /organizer/events/{eventID}.
// All fields optional; omitted fields are unchanged. clear_capacity and
// clear_deadline remove the respective bound.
type UpdateEventRequest struct {
	Name                 *string    `json:"name"`
	Capacity             *int       `json:"capacity"`
	ClearCapacity        bool       `json:"clear_capacity"`
	RegistrationDeadline *time.Time `json:"registration_deadline"`
	ClearDeadline        bool       `json:"clear_deadline"`
	Description          *string    `json:"description"`
	Date                 *time.Time `json:"date"`
}

// Validate implements Validator.
func (u UpdateEventRequest) Validate() []string {
	var errs []string
	if u.Name != nil && *u.Name == "" {
		errs = append(errs, "name must not be empty")
	}
	if u.Capacity != nil && *u.Capacity <= 0 {
		errs = append(errs, "capacity must be a positive integer")
	}
	if u.Capacity != nil && u.ClearCapacity {
		errs = append(errs, "capacity and clear_capacity are mutually exclusive")
	}
	if u.RegistrationDeadline != nil && u.ClearDeadline {
		errs = append(errs, "registration_deadline and clear_deadline are mutually exclusive")
	}
	return errs
}

// ListAttendeesResponse is the data payload for GET /organizer/events/{eventID}/attendees.
type ListAttendeesResponse struct {
	Registrations []*domain.Registration `json:"registrations"`
	Pagination    helpers.PaginationMeta `json:"pagination"`
}

// DeleteEventResponse is the data payload for DELETE /organizer/events/{eventID} (200).
type DeleteEventResponse struct {
	Status string `json:"status"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateEvent godoc
// @Summary Create a new event
// @Description Create an event with an optional capacity bound and registration deadline. The event code is server-generated when omitted; the authenticated organizer becomes the owner.
// @Tags organizer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CreateEventRequest true "Event data"
// @Success 201 {object} helpers.APIResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not an organizer)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /organizer/events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	ownerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	now := time.Now()
	event := domain.NewEvent(req.Name, "", ownerID, req.Capacity, req.RegistrationDeadline, now, now)
	event.Description = req.Description
	event.Date = req.Date
	if err := c.Service.CreateEvent(r.Context(), event); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// ListMyEvents godoc
// @Summary List the organizer's events
// @Tags organizer
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the organizer's events"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /organizer/events [get]
func (c *EventController) ListMyEvents(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	events, err := c.Service.ListMyEvents(r.Context(), ownerID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// GetEvent godoc
// @Summary Get an event by ID
// @Tags organizer
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the event"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /organizer/events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	event, err := c.Service.GetEventByID(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// UpdateEvent godoc
// @Summary Update event details
// @Description Updates name, capacity, deadline, description, and date. Only the owner can update. Shrinking capacity below the current confirmed count is rejected.
// @Tags organizer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body UpdateEventRequest true "Fields to update (all optional)"
// @Success 200 {object} helpers.APIResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /organizer/events/{eventID} [patch]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	ownerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	upd := domain.EventUpdate{
		Name:          req.Name,
		Capacity:      req.Capacity,
		ClearCapacity: req.ClearCapacity,
		Deadline:      req.RegistrationDeadline,
		ClearDeadline: req.ClearDeadline,
		Description:   req.Description,
		Date:          req.Date,
	}
	event, err := c.Service.UpdateEvent(r.Context(), eventID, ownerID, upd)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Delete an event with no active registrations. Only the owner can delete.
// @Tags organizer
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains status"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (active registrations exist)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /organizer/events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	ownerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), eventID, ownerID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
			return
		}
		if errors.Is(err, domain.ErrActiveRegistrations) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "event has active registrations")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, DeleteEventResponse{Status: "deleted"})
}

// ListAttendees godoc
// @Summary List an event's registrations
// @Description Returns the event's registrations across all statuses, paginated. Only the owner can list.
// @Tags organizer
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains registrations and pagination metadata"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /organizer/events/{eventID}/attendees [get]
func (c *EventController) ListAttendees(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	ownerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	p := helpers.ParsePagination(r)
	regs, total, err := c.Service.ListAttendees(r.Context(), eventID, ownerID, p)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if regs == nil {
		regs = []*domain.Registration{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListAttendeesResponse{
		Registrations: regs,
		Pagination:    helpers.NewPaginationMeta(p.Page, p.PageSize, total),
	})
}
