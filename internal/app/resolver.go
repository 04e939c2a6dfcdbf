package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"trip_planner/internal/domain"
)

// Resolver maps poi ids to POIDetail records. Lookups go memory table →
// redis → upstream API. A batch makes its results visible atomically at
// completion; a failed id is logged and left unresolved, never aborting
// the rest of the batch.
type Resolver struct {
	api     domain.TripAPI
	cache   domain.Cache
	ttl     time.Duration
	timeout time.Duration

	flight singleflight.Group

	mu    sync.RWMutex
	gen   uint64
	table map[string]domain.POIDetail
}

const resolveFanout = 8

func NewResolver(api domain.TripAPI, cache domain.Cache, ttl, timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Resolver{
		api:     api,
		cache:   cache,
		ttl:     ttl,
		timeout: timeout,
		table:   map[string]domain.POIDetail{},
	}
}

// Reset clears the table for a new itinerary and bumps the generation,
// so batches still in flight for the previous itinerary are discarded
// when they settle.
func (r *Resolver) Reset() {
	r.mu.Lock()
	r.gen++
	r.table = map[string]domain.POIDetail{}
	r.mu.Unlock()
}

// Get returns the cached detail for id, or false when it is still
// loading or unresolvable. It never errors; callers degrade to
// placeholder display.
func (r *Resolver) Get(id string) (domain.POIDetail, bool) {
	r.mu.RLock()
	d, ok := r.table[id]
	r.mu.RUnlock()
	return d, ok
}

// ResolveAll resolves every id not already in the table. Lookups run
// concurrently (bounded fan-out); the whole batch settles before any
// result becomes visible.
func (r *Resolver) ResolveAll(ctx context.Context, ids []string) {
	r.mu.RLock()
	gen := r.gen
	var missing []string
	for _, id := range ids {
		if _, ok := r.table[id]; !ok {
			missing = append(missing, id)
		}
	}
	r.mu.RUnlock()
	if len(missing) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var (
		resMu   sync.Mutex
		results = make(map[string]domain.POIDetail, len(missing))
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(resolveFanout)
	for _, id := range missing {
		id := id
		g.Go(func() error {
			d, err := r.lookup(ctx, id)
			if err != nil {
				log.Warn().Str("poi", id).Err(err).Msg("poi lookup failed")
				return nil // isolation: one failure never aborts the batch
			}
			resMu.Lock()
			results[id] = d
			resMu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gen != gen {
		// itinerary changed while the batch was in flight
		log.Debug().Int("results", len(results)).Msg("discarding stale poi batch")
		return
	}
	for id, d := range results {
		r.table[id] = d
	}
}

// lookup fetches one id, collapsing concurrent requests for the same id
// into a single in-flight call.
func (r *Resolver) lookup(ctx context.Context, id string) (domain.POIDetail, error) {
	v, err, _ := r.flight.Do(id, func() (any, error) {
		key := "poi:" + id
		var cached domain.POIDetail
		if ok, _ := r.cache.Get(ctx, key, &cached); ok {
			return cached, nil
		}
		p, err := r.api.GetPOI(ctx, id)
		if err != nil {
			return domain.POIDetail{}, fmt.Errorf("get poi %s: %w", id, err)
		}
		d := mapPOIDetail(id, p)
		_ = r.cache.Set(ctx, key, d, int(r.ttl.Seconds()))
		return d, nil
	})
	if err != nil {
		return domain.POIDetail{}, err
	}
	return v.(domain.POIDetail), nil
}
