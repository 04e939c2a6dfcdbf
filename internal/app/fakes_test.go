package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"trip_planner/internal/domain"
)

// ---- fakes shared by the app tests ----

type fakeAPI struct {
	mu      sync.Mutex
	calls   map[string]int
	pois    map[string]map[string]any
	fail    map[string]bool
	content map[int64]map[string]any
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		calls:   map[string]int{},
		pois:    map[string]map[string]any{},
		fail:    map[string]bool{},
		content: map[int64]map[string]any{},
	}
}

func (f *fakeAPI) GetItineraryContent(ctx context.Context, id int64) (map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.content[id]
	if !ok {
		return nil, fmt.Errorf("remote 404: not found")
	}
	return p, nil
}

func (f *fakeAPI) GetPOI(ctx context.Context, id string) (map[string]any, error) {
	f.mu.Lock()
	f.calls[id]++
	failed := f.fail[id]
	p, ok := f.pois[id]
	f.mu.Unlock()
	if failed {
		return nil, fmt.Errorf("remote 500")
	}
	if !ok {
		return nil, fmt.Errorf("remote 404: not found")
	}
	return p, nil
}

func (f *fakeAPI) callCount(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[id]
}

type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
}

func newFakeCache() *fakeCache { return &fakeCache{store: map[string][]byte{}} }

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	b, ok := c.store[key]
	c.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.store[key] = b
	c.mu.Unlock()
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.store, key)
	c.mu.Unlock()
	return nil
}

type fakeRepo struct {
	mu     sync.Mutex
	its    map[int64]domain.Itinerary
	misses []string
	saves  int
}

func newFakeRepo() *fakeRepo { return &fakeRepo{its: map[int64]domain.Itinerary{}} }

func (r *fakeRepo) UpsertItinerary(ctx context.Context, it domain.Itinerary) error {
	r.mu.Lock()
	r.its[it.ID] = it
	r.saves++
	r.mu.Unlock()
	return nil
}

func (r *fakeRepo) LogMiss(ctx context.Context, id int64, status int, reason string) error {
	r.mu.Lock()
	r.misses = append(r.misses, fmt.Sprintf("%d:%d:%s", id, status, reason))
	r.mu.Unlock()
	return nil
}

func (r *fakeRepo) GetItinerary(ctx context.Context, id int64) (domain.Itinerary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.its[id]
	if !ok {
		return domain.Itinerary{}, domain.ErrNotFound
	}
	return it, nil
}

func (r *fakeRepo) ListTrips(ctx context.Context, limit int) ([]domain.TripCard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.TripCard
	for _, it := range r.its {
		out = append(out, domain.TripCard{ID: it.ID, Title: it.Title, Days: len(it.Days), Stops: it.StopCount()})
	}
	return out, nil
}
