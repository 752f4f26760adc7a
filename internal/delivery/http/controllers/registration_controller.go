package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"eventportals/internal/delivery/http/helpers"
	"eventportals/internal/delivery/http/middleware"
	"eventportals/internal/domain"
)

// RegisterByCodeRequest is the request body for POST /registrations/by-code.
type RegisterByCodeRequest struct {
	EventCode string `json:"event_code"`
}

// Validate implements Validator.
func (r RegisterByCodeRequest) Validate() []string {
	var errs []string
	if r.EventCode == "" {
		errs = append(errs, "event_code is required")
	}
	return errs
}

// CheckInRequest is the request body for POST /organizer/check-in.
type CheckInRequest struct {
	TicketCode string `json:"ticket_code"`
}

// Validate implements Validator.
func (c CheckInRequest) Validate() []string {
	var errs []string
	if c.TicketCode == "" {
		errs = append(errs, "ticket_code is required")
	}
	return errs
}

// WaitlistPositionResponse is the data payload for GET /events/{eventID}/waitlist-position.
type WaitlistPositionResponse struct {
	Position int `json:"position"`
}

// CancelResponse is the data payload for POST /events/{eventID}/cancel.
type CancelResponse struct {
	Status string `json:"status"`
}

type RegistrationController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
}

func NewRegistrationController(logger *slog.Logger, svc domain.RegistrationService) *RegistrationController {
	return &RegistrationController{
		Logger:  logger,
		Service: svc,
	}
}

func (c *RegistrationController) writeRegistrationError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
	case errors.Is(err, domain.ErrDuplicateRegistration):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "already registered for this event")
	case errors.Is(err, domain.ErrDeadlinePassed):
		helpers.WriteJSONError(w, http.StatusUnprocessableEntity, helpers.ErrCodeDeadlinePassed, "registration deadline has passed")
	case errors.Is(err, domain.ErrConcurrencyConflict):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "registration conflicted with a concurrent request, please retry")
	case errors.Is(err, domain.ErrRegistrationNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "registration not found")
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}

// Register godoc
// @Summary Register for an event
// @Description Registers the authenticated user. When the event has free capacity the registration is confirmed and a ticket is issued; otherwise the user joins the waitlist and the response carries the waitlist position.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 201 {object} helpers.APIResponse "data contains the registration, ticket (when confirmed), and waitlist position (when waitlisted)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (duplicate or concurrent registration)"
// @Failure 422 {object} helpers.APIResponse "error.code: deadline_passed"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/register [post]
func (c *RegistrationController) Register(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	result, err := c.Service.Register(r.Context(), eventID, userID)
	if err != nil {
		c.writeRegistrationError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, result)
}

// RegisterByCode godoc
// @Summary Register for an event by its short code
// @Description Same as the register endpoint but resolves the event from its short attendee-facing code. The code is case-insensitive.
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RegisterByCodeRequest true "Event code"
// @Success 201 {object} helpers.APIResponse "data contains the registration result"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 422 {object} helpers.APIResponse "error.code: deadline_passed"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/by-code [post]
func (c *RegistrationController) RegisterByCode(w http.ResponseWriter, r *http.Request) {
	var req RegisterByCodeRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	result, err := c.Service.RegisterByCode(r.Context(), req.EventCode, userID)
	if err != nil {
		c.writeRegistrationError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, result)
}

// Cancel godoc
// @Summary Cancel a registration
// @Description Cancels the authenticated user's active registration for the event. Cancelling a confirmed seat promotes the earliest waitlisted registration and issues it a ticket.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains status"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (no active registration)"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (concurrent cancellation)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/cancel [post]
func (c *RegistrationController) Cancel(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.Cancel(r.Context(), eventID, userID); err != nil {
		c.writeRegistrationError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, CancelResponse{Status: "cancelled"})
}

// WaitlistPosition godoc
// @Summary Get the user's waitlist position
// @Description Returns the 1-based position of the authenticated user on the event's waitlist.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the position"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (registration is not waitlisted)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/waitlist-position [get]
func (c *RegistrationController) WaitlistPosition(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	pos, err := c.Service.WaitlistPosition(r.Context(), eventID, userID)
	if err != nil {
		c.writeRegistrationError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, WaitlistPositionResponse{Position: pos})
}

// GetTicket godoc
// @Summary Get the user's ticket for an event
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the ticket"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (no confirmed registration or no ticket)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/ticket [get]
func (c *RegistrationController) GetTicket(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	ticket, err := c.Service.GetTicket(r.Context(), eventID, userID)
	if err != nil {
		c.writeRegistrationError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ticket)
}

// ListMine godoc
// @Summary List the user's registrations
// @Description Returns the authenticated user's registrations together with the event each one belongs to.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the registrations"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/me [get]
func (c *RegistrationController) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	regs, err := c.Service.ListMyRegistrations(r.Context(), userID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if regs == nil {
		regs = []*domain.RegistrationWithEvent{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, regs)
}

// CheckIn godoc
// @Summary Check in an attendee by ticket code
// @Description Marks the confirmed registration behind the ticket code as attended. A ticket can be used once.
// @Tags organizer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CheckInRequest true "Ticket code"
// @Success 200 {object} helpers.APIResponse "data contains the attended registration"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (already checked in or not confirmed)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (unknown ticket code)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /organizer/check-in [post]
func (c *RegistrationController) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req CheckInRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	reg, err := c.Service.CheckIn(r.Context(), req.TicketCode)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "ticket not found")
		case errors.Is(err, domain.ErrInvalidInput):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reg)
}
