package app

import (
	"context"
	"testing"
	"time"

	"trip_planner/internal/domain"
)

func testWorkspace(api *fakeAPI, repo *fakeRepo, policy domain.EmptyDayPolicy) *Workspace {
	cache := newFakeCache()
	syncSvc := NewSyncService(api, repo, cache)
	trips := NewTripService(repo, syncSvc, cache, time.Minute)
	return NewWorkspace(trips, repo, api, cache, policy, time.Minute, time.Second)
}

func seedContent(api *fakeAPI, id int64) {
	api.content[id] = map[string]any{
		"title": "NYC",
		"days": []any{
			map[string]any{"day": 1.0, "pois": []any{
				map[string]any{"poiId": "a"}, map[string]any{"poiId": "b"},
			}},
			map[string]any{"day": 2.0, "pois": []any{
				map[string]any{"poiId": "c"},
			}},
		},
	}
	api.pois["a"] = poiPayload("Alpha", 40.1, -73.1)
	api.pois["b"] = poiPayload("Beta", 40.2, -73.2)
	api.pois["c"] = poiPayload("Gamma", 40.3, -73.3)
}

func TestEditor_LoadSyncsAndResolves(t *testing.T) {
	api := newFakeAPI()
	repo := newFakeRepo()
	seedContent(api, 4)

	ed := testWorkspace(api, repo, domain.KeepEmptyDays).Editor("tok")
	snap, err := ed.Load(context.Background(), 4)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if snap.Itinerary.Title != "NYC" || snap.Stops != 3 || snap.SelectedDay != nil {
		t.Fatalf("snapshot: %+v", snap)
	}
	if d, ok := ed.Detail("a"); !ok || d.Name != "Alpha" {
		t.Fatalf("detail a: %+v ok=%v", d, ok)
	}
	// synced into storage on first load
	if _, err := repo.GetItinerary(context.Background(), 4); err != nil {
		t.Fatalf("expected itinerary persisted: %v", err)
	}
}

func TestEditor_LoadFailureKeepsState(t *testing.T) {
	api := newFakeAPI()
	repo := newFakeRepo()
	seedContent(api, 4)

	ed := testWorkspace(api, repo, domain.KeepEmptyDays).Editor("tok")
	if _, err := ed.Load(context.Background(), 4); err != nil {
		t.Fatalf("load: %v", err)
	}

	// unknown itinerary: error surfaces, working copy untouched
	if _, err := ed.Load(context.Background(), 999); err == nil {
		t.Fatal("expected load error")
	}
	if ed.ItineraryID() != 4 {
		t.Fatalf("previous state lost: %d", ed.ItineraryID())
	}
	if got := ed.MovePoi("b", 1, domain.Up); got.Itinerary.Days[0].Pois[0].PoiID != "b" {
		t.Fatalf("editor should still be usable: %+v", got.Itinerary.Days[0])
	}
}

func TestEditor_MoveReconcilesSelection(t *testing.T) {
	api := newFakeAPI()
	repo := newFakeRepo()
	seedContent(api, 4)

	ed := testWorkspace(api, repo, domain.DropEmptyDays).Editor("tok")
	if _, err := ed.Load(context.Background(), 4); err != nil {
		t.Fatalf("load: %v", err)
	}

	snap := ed.SelectDay(2)
	if snap.SelectedDay == nil || *snap.SelectedDay != 2 {
		t.Fatalf("select: %+v", snap)
	}
	if len(ed.MapActivities()) != 1 {
		t.Fatalf("expected day 2 projected")
	}

	// move the only stop of day 2 away; day 2 drops, selection resets
	snap = ed.MovePoi("c", 2, domain.Up)
	if len(snap.Itinerary.Days) != 1 {
		t.Fatalf("day 2 should be dropped: %+v", snap.Itinerary.Days)
	}
	if snap.SelectedDay != nil {
		t.Fatalf("selection should reset: %+v", snap.SelectedDay)
	}
	if acts := ed.MapActivities(); len(acts) != 0 {
		t.Fatalf("projection should be empty: %+v", acts)
	}
}

func TestEditor_NoOpMoveReturnsUnchanged(t *testing.T) {
	api := newFakeAPI()
	repo := newFakeRepo()
	seedContent(api, 4)

	ed := testWorkspace(api, repo, domain.KeepEmptyDays).Editor("tok")
	if _, err := ed.Load(context.Background(), 4); err != nil {
		t.Fatalf("load: %v", err)
	}

	snap := ed.MovePoi("a", 1, domain.Up) // first item of first day
	if snap.Dirty {
		t.Fatalf("no-op must not dirty the editor: %+v", snap)
	}
	if snap.Itinerary.Days[0].Pois[0].PoiID != "a" {
		t.Fatalf("unchanged structure expected: %+v", snap.Itinerary.Days[0])
	}
}

func TestEditor_SaveClearsDirty(t *testing.T) {
	api := newFakeAPI()
	repo := newFakeRepo()
	seedContent(api, 4)

	ed := testWorkspace(api, repo, domain.KeepEmptyDays).Editor("tok")
	if _, err := ed.Load(context.Background(), 4); err != nil {
		t.Fatalf("load: %v", err)
	}
	snap := ed.MovePoi("b", 1, domain.Up)
	if !snap.Dirty {
		t.Fatal("move should dirty the editor")
	}

	snap, err := ed.Save(context.Background())
	if err != nil || snap.Dirty {
		t.Fatalf("save: err=%v snap=%+v", err, snap)
	}
	stored, err := repo.GetItinerary(context.Background(), 4)
	if err != nil || stored.Days[0].Pois[0].PoiID != "b" {
		t.Fatalf("persisted order wrong: %+v err=%v", stored, err)
	}
}

func TestEditor_DeletePoi(t *testing.T) {
	api := newFakeAPI()
	repo := newFakeRepo()
	seedContent(api, 4)

	ed := testWorkspace(api, repo, domain.KeepEmptyDays).Editor("tok")
	if _, err := ed.Load(context.Background(), 4); err != nil {
		t.Fatalf("load: %v", err)
	}
	snap := ed.DeletePoi("b")
	if snap.Stops != 2 {
		t.Fatalf("delete: %+v", snap)
	}
	if snap = ed.DeletePoi("zzz"); snap.Stops != 2 {
		t.Fatalf("unknown delete must be a no-op: %+v", snap)
	}
}

func TestWorkspace_SessionIsolation(t *testing.T) {
	api := newFakeAPI()
	repo := newFakeRepo()
	seedContent(api, 4)

	ws := testWorkspace(api, repo, domain.KeepEmptyDays)
	a := ws.Editor("alice")
	b := ws.Editor("bob")
	if a == b {
		t.Fatal("sessions must not share editors")
	}
	if again := ws.Editor("alice"); again != a {
		t.Fatal("same session must reuse its editor")
	}
	ws.Drop("alice")
	if again := ws.Editor("alice"); again == a {
		t.Fatal("dropped session should get a fresh editor")
	}
}
