package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"trip_planner/internal/domain"
)

// TripService is the read side for the dashboard: cached trip cards and
// cache-aside itinerary fetches.
type TripService struct {
	repo     domain.ItineraryRepository
	sync     *SyncService
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewTripService(repo domain.ItineraryRepository, sync *SyncService, cache domain.Cache, ttl time.Duration) *TripService {
	return &TripService{repo: repo, sync: sync, cache: cache, cacheTTL: ttl}
}

const tripsListLimit = 100

func (s *TripService) ListTrips(ctx context.Context) ([]domain.TripCard, error) {
	var out []domain.TripCard
	if ok, _ := s.cache.Get(ctx, "trips:list", &out); ok {
		return out, nil
	}
	cards, err := s.repo.ListTrips(ctx, tripsListLimit)
	if err != nil {
		return nil, err
	}
	// copy to avoid aliasing the repo's backing array in the cached value
	out = make([]domain.TripCard, len(cards))
	copy(out, cards)
	_ = s.cache.Set(ctx, "trips:list", out, int(s.cacheTTL.Seconds()))
	return out, nil
}

// FetchItinerary loads one itinerary: redis, then storage, then an
// upstream sync for ids we have never seen.
func (s *TripService) FetchItinerary(ctx context.Context, id int64) (domain.Itinerary, error) {
	key := fmt.Sprintf("itinerary:%d", id)
	var it domain.Itinerary
	if ok, _ := s.cache.Get(ctx, key, &it); ok {
		return it, nil
	}
	it, err := s.repo.GetItinerary(ctx, id)
	if errors.Is(err, domain.ErrNotFound) && s.sync != nil {
		it, err = s.sync.SyncItinerary(ctx, id)
	}
	if err != nil {
		return domain.Itinerary{}, err
	}
	_ = s.cache.Set(ctx, key, it, int(s.cacheTTL.Seconds()))
	return it, nil
}
