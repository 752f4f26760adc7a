package postgres

import (
	"context"
	"database/sql"

	"eventportals/internal/domain"
)

type analyticsRepository struct {
	DB *sql.DB
}

// NewAnalyticsRepository returns a domain.AnalyticsRepository implemented with Postgres.
func NewAnalyticsRepository(db *sql.DB) domain.AnalyticsRepository {
	return &analyticsRepository{DB: db}
}

// EventStats re-derives every counter from the registration rows; nothing is
// read from a cached counter column.
func (r *analyticsRepository) EventStats(ctx context.Context, eventID string) (*domain.EventStats, error) {
	stats := &domain.EventStats{EventID: eventID}

	var capacityNull sql.NullInt64
	query := `
		SELECT
			e.capacity,
			COUNT(r.id) FILTER (WHERE r.status = 'confirmed'),
			COUNT(r.id) FILTER (WHERE r.status = 'waitlisted'),
			COUNT(r.id) FILTER (WHERE r.status = 'cancelled'),
			COUNT(r.id) FILTER (WHERE r.status = 'attended')
		FROM events e
		LEFT JOIN registrations r ON r.event_id = e.id
		WHERE e.id = $1
		GROUP BY e.capacity
	`
	err := r.DB.QueryRowContext(ctx, query, eventID).
		Scan(&capacityNull, &stats.Confirmed, &stats.Waitlisted, &stats.Cancelled, &stats.Attended)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if capacityNull.Valid {
		capacity := int(capacityNull.Int64)
		stats.Capacity = &capacity
		if capacity > 0 {
			stats.FillPercent = float64(stats.Confirmed) / float64(capacity) * 100
		}
	}

	salesQuery := `
		SELECT COALESCE(SUM(s.total_cents), 0)
		FROM sales s
		JOIN booths b ON b.id = s.booth_id
		WHERE b.event_id = $1
	`
	if err := r.DB.QueryRowContext(ctx, salesQuery, eventID).Scan(&stats.GrossSalesCents); err != nil {
		return nil, err
	}
	return stats, nil
}
