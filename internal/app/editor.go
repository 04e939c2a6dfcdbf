package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"trip_planner/internal/domain"
)

// Editor is one user's working copy of an itinerary: the current
// immutable snapshot, the selected day and the dirty flag. Mutations are
// serialized by the UI; the mutex only guards against overlapping HTTP
// requests on the same session.
type Editor struct {
	trips    *TripService
	resolver *Resolver
	repo     domain.ItineraryRepository
	cache    domain.Cache
	policy   domain.EmptyDayPolicy

	mu       sync.Mutex
	cur      domain.Itinerary
	loaded   bool
	selected int // 0 = none
	dirty    bool
}

// Snapshot is what handlers render after a load or mutation.
type Snapshot struct {
	Itinerary   domain.Itinerary `json:"itinerary"`
	SelectedDay *int             `json:"selectedDay"`
	Stops       int              `json:"stops"`
	Dirty       bool             `json:"dirty"`
}

func (e *Editor) snapshotLocked() Snapshot {
	s := Snapshot{Itinerary: e.cur, Stops: e.cur.StopCount(), Dirty: e.dirty}
	if e.selected != 0 {
		d := e.selected
		s.SelectedDay = &d
	}
	return s
}

// Load replaces the working copy with the requested itinerary and kicks
// off a detail-resolver batch for its poi ids. A failed load keeps the
// previous working copy untouched. Loading the already-open itinerary
// is a no-op so in-progress edits survive page refreshes.
func (e *Editor) Load(ctx context.Context, id int64) (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.loaded && e.cur.ID == id {
		return e.snapshotLocked(), nil
	}
	it, err := e.trips.FetchItinerary(ctx, id)
	if err != nil {
		return Snapshot{}, err
	}
	e.cur = it
	e.loaded = true
	e.selected = 0
	e.dirty = false

	e.resolver.Reset()
	e.resolver.ResolveAll(ctx, it.PoiIDs())
	return e.snapshotLocked(), nil
}

// MovePoi applies the combined move contract. Inapplicable moves return
// the unchanged snapshot; they are not errors.
func (e *Editor) MovePoi(poiID string, dayNumber int, dir domain.Direction) Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	next, changed := e.cur.MovePoi(poiID, dayNumber, dir, e.policy)
	if changed {
		e.cur = next
		e.dirty = true
		e.selected = ReconcileSelection(e.cur, e.selected)
	}
	return e.snapshotLocked()
}

func (e *Editor) DeletePoi(poiID string) Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	next, changed := e.cur.DeletePoi(poiID, e.policy)
	if changed {
		e.cur = next
		e.dirty = true
		e.selected = ReconcileSelection(e.cur, e.selected)
	}
	return e.snapshotLocked()
}

// SelectDay sets the day driving the map projection; 0 clears it.
// Selecting a day that does not exist clears the selection rather than
// pointing the map at a stale day.
func (e *Editor) SelectDay(dayNumber int) Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	if dayNumber != 0 && e.cur.HasDay(dayNumber) {
		e.selected = dayNumber
	} else {
		e.selected = 0
	}
	return e.snapshotLocked()
}

// Save persists the working copy and refreshes the read caches.
func (e *Editor) Save(ctx context.Context) (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loaded {
		return Snapshot{}, domain.ErrNotFound
	}
	if err := e.repo.UpsertItinerary(ctx, e.cur); err != nil {
		return Snapshot{}, err
	}
	if e.cache != nil {
		_ = e.cache.Del(ctx, fmt.Sprintf("itinerary:%d", e.cur.ID))
		_ = e.cache.Del(ctx, "trips:list")
	}
	e.dirty = false
	return e.snapshotLocked(), nil
}

// ItineraryID reports the loaded itinerary, 0 when nothing is open.
func (e *Editor) ItineraryID() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loaded {
		return 0
	}
	return e.cur.ID
}

// Summaries recomputes the per-day summary view.
func (e *Editor) Summaries() []domain.DaySummary {
	e.mu.Lock()
	it := e.cur
	e.mu.Unlock()
	return DaySummaries(it, e.resolver.Get)
}

// MapActivities recomputes the map projection for the selected day.
func (e *Editor) MapActivities() []domain.MapActivity {
	e.mu.Lock()
	it, sel := e.cur, e.selected
	e.mu.Unlock()
	return MapProjection(it, sel, e.resolver.Get)
}

// Detail exposes the resolver table to handlers rendering stop rows.
func (e *Editor) Detail(poiID string) (domain.POIDetail, bool) { return e.resolver.Get(poiID) }

// Workspace hands out one Editor per session token.
type Workspace struct {
	trips    *TripService
	repo     domain.ItineraryRepository
	api      domain.TripAPI
	cache    domain.Cache
	policy   domain.EmptyDayPolicy
	poiTTL   time.Duration
	resolveT time.Duration

	mu      sync.Mutex
	editors map[string]*Editor
}

func NewWorkspace(trips *TripService, repo domain.ItineraryRepository, api domain.TripAPI,
	cache domain.Cache, policy domain.EmptyDayPolicy, poiTTL, resolveTimeout time.Duration) *Workspace {
	return &Workspace{
		trips:    trips,
		repo:     repo,
		api:      api,
		cache:    cache,
		policy:   policy,
		poiTTL:   poiTTL,
		resolveT: resolveTimeout,
		editors:  map[string]*Editor{},
	}
}

// Editor returns the session's editor, creating it on first use.
func (w *Workspace) Editor(session string) *Editor {
	w.mu.Lock()
	defer w.mu.Unlock()
	if e, ok := w.editors[session]; ok {
		return e
	}
	e := &Editor{
		trips:    w.trips,
		resolver: NewResolver(w.api, w.cache, w.poiTTL, w.resolveT),
		repo:     w.repo,
		cache:    w.cache,
		policy:   w.policy,
	}
	w.editors[session] = e
	return e
}

// Drop discards a session's editor (logout).
func (w *Workspace) Drop(session string) {
	w.mu.Lock()
	delete(w.editors, session)
	w.mu.Unlock()
}
