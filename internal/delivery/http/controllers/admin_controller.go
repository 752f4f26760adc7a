package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"eventportals/internal/delivery/http/helpers"
	"eventportals/internal/domain"
)

// ListAllEventsResponse is the data payload for GET /admin/events.
type ListAllEventsResponse struct {
	Events     []*domain.Event        `json:"events"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

type AdminController struct {
	Logger  *slog.Logger
	Service domain.AnalyticsService
}

func NewAdminController(logger *slog.Logger, svc domain.AnalyticsService) *AdminController {
	return &AdminController{
		Logger:  logger,
		Service: svc,
	}
}

// ListAllEvents godoc
// @Summary List all events across the platform
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains events and pagination metadata"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events [get]
func (c *AdminController) ListAllEvents(w http.ResponseWriter, r *http.Request) {
	p := helpers.ParsePagination(r)
	events, total, err := c.Service.ListAllEvents(r.Context(), p)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if events == nil {
		events = []*domain.Event{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListAllEventsResponse{
		Events:     events,
		Pagination: helpers.NewPaginationMeta(p.Page, p.PageSize, total),
	})
}

// EventStats godoc
// @Summary Get aggregate statistics for an event
// @Description Returns registration counts per status, the capacity fill percentage, and the gross vendor sales total. Snapshots are cached briefly and may lag writes by a few seconds.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the stats snapshot"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID}/stats [get]
func (c *AdminController) EventStats(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	stats, err := c.Service.EventStats(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, stats)
}
