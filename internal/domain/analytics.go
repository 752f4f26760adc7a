package domain

import "context"

// EventStats is the per-event analytics snapshot shown on the admin portal.
// FillPercent is confirmed/capacity*100, or 0 when capacity is unbounded.
// swagger:model EventStats
type EventStats struct {
	EventID         string  `json:"event_id"`
	Capacity        *int    `json:"capacity"`
	Confirmed       int     `json:"confirmed"`
	Waitlisted      int     `json:"waitlisted"`
	Cancelled       int     `json:"cancelled"`
	Attended        int     `json:"attended"`
	FillPercent     float64 `json:"fill_percent"`
	GrossSalesCents int     `json:"gross_sales_cents"`
}

// AnalyticsRepository defines the aggregate queries behind the admin portal.
type AnalyticsRepository interface {
	// EventStats derives all counters from the authoritative registration
	// and sales rows in one query round-trip each.
	EventStats(ctx context.Context, eventID string) (*EventStats, error)
}

// AnalyticsService defines admin-facing analytics operations.
type AnalyticsService interface {
	// EventStats returns the snapshot for one event, served from cache when
	// fresh. Errors: ErrNotFound when the event does not exist.
	EventStats(ctx context.Context, eventID string) (*EventStats, error)
	ListAllEvents(ctx context.Context, p PaginationParams) ([]*Event, int, error)
}
