package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"eventportals/internal/domain"
)

const eventStatsTTL = 30 * time.Second

type analyticsService struct {
	analyticsRepo domain.AnalyticsRepository
	eventRepo     domain.EventRepository
	cache         domain.Cache
	logger        *slog.Logger
}

// NewAnalyticsService creates the admin-portal analytics service. cache may be
// nil, in which case every read hits the database.
func NewAnalyticsService(analyticsRepo domain.AnalyticsRepository, eventRepo domain.EventRepository, cache domain.Cache, logger *slog.Logger) domain.AnalyticsService {
	return &analyticsService{
		analyticsRepo: analyticsRepo,
		eventRepo:     eventRepo,
		cache:         cache,
		logger:        logger,
	}
}

func eventStatsKey(eventID string) string {
	return "event_stats:" + eventID
}

func (s *analyticsService) EventStats(ctx context.Context, eventID string) (*domain.EventStats, error) {
	key := eventStatsKey(eventID)

	if s.cache != nil {
		var cached domain.EventStats
		err := s.cache.Get(ctx, key, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, domain.ErrCacheMiss) {
			// A broken cache must not take the portal down.
			s.logger.WarnContext(ctx, "event stats cache read failed", "event_id", eventID, "err", err)
		}
	}

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	stats, err := s.analyticsRepo.EventStats(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("event stats: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, stats, eventStatsTTL); err != nil {
			s.logger.WarnContext(ctx, "event stats cache write failed", "event_id", eventID, "err", err)
		}
	}
	return stats, nil
}

func (s *analyticsService) ListAllEvents(ctx context.Context, p domain.PaginationParams) ([]*domain.Event, int, error) {
	events, total, err := s.eventRepo.List(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, total, nil
}
