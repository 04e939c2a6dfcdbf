package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"trip_planner/internal/domain"
)

// SyncService pulls itinerary content from the upstream trip API into
// local storage. Known upstream misses (404/401/403) are recorded and
// surfaced as domain.ErrNotFound; anything unexpected bubbles up.
type SyncService struct {
	api   domain.TripAPI
	repo  domain.ItineraryRepository
	cache domain.Cache
}

func NewSyncService(api domain.TripAPI, repo domain.ItineraryRepository, cache domain.Cache) *SyncService {
	return &SyncService{api: api, repo: repo, cache: cache}
}

func (s *SyncService) SyncItinerary(ctx context.Context, id int64) (domain.Itinerary, error) {
	p, err := s.api.GetItineraryContent(ctx, id)
	if err != nil {
		low := strings.ToLower(err.Error())

		// 404: record the miss, evict stale caches, report not-found.
		if errors.Is(err, domain.ErrNotFound) || strings.Contains(low, "not found") {
			_ = s.repo.LogMiss(ctx, id, 404, "not found")
			s.invalidate(ctx, id)
			return domain.Itinerary{}, fmt.Errorf("itinerary %d: %w", id, domain.ErrNotFound)
		}

		// 401/403: unauthorized/forbidden -> same treatment as a miss.
		if strings.Contains(low, "403") || strings.Contains(low, "forbidden") ||
			strings.Contains(low, "401") || strings.Contains(low, "unauthorized") {
			_ = s.repo.LogMiss(ctx, id, 403, "inactive")
			s.invalidate(ctx, id)
			return domain.Itinerary{}, fmt.Errorf("itinerary %d: %w", id, domain.ErrNotFound)
		}

		return domain.Itinerary{}, err
	}

	it, err := mapItinerary(id, p)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			_ = s.repo.LogMiss(ctx, id, 422, le.Reason)
		}
		return domain.Itinerary{}, err
	}

	if err := s.repo.UpsertItinerary(ctx, it); err != nil {
		return domain.Itinerary{}, fmt.Errorf("upsert itinerary %d: %w", id, err)
	}
	s.invalidate(ctx, id)
	return it, nil
}

func (s *SyncService) invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, fmt.Sprintf("itinerary:%d", id))
	_ = s.cache.Del(ctx, "trips:list")
}
