package app

import (
	"math"
	"testing"

	"trip_planner/internal/domain"
)

func pf(f float64) *float64 { return &f }

func lookupOf(details map[string]domain.POIDetail) LookupFunc {
	return func(id string) (domain.POIDetail, bool) {
		d, ok := details[id]
		return d, ok
	}
}

func twoDayItinerary() domain.Itinerary {
	return domain.Itinerary{ID: 1, Days: []domain.Day{
		{Number: 1, Pois: []domain.POIRef{{PoiID: "a"}, {PoiID: "b"}}},
		{Number: 2, Pois: []domain.POIRef{{PoiID: "c"}}},
	}}
}

func TestDaySummaries_RouteLabels(t *testing.T) {
	it := twoDayItinerary()
	details := map[string]domain.POIDetail{
		"a": {PoiID: "a", Name: "Times Square"},
		"b": {PoiID: "b", Name: "Central Park"},
		"c": {PoiID: "c", Name: "MoMA"},
	}

	s := DaySummaries(it, lookupOf(details))
	if len(s) != 2 {
		t.Fatalf("summaries: %+v", s)
	}
	if s[0].Stops != 2 || s[0].Route != "Times Square → Central Park" {
		t.Fatalf("day1: %+v", s[0])
	}
	if s[1].Stops != 1 || s[1].Route != "MoMA" {
		t.Fatalf("day2: %+v", s[1])
	}
}

func TestDaySummaries_IdenticalNamesCollapse(t *testing.T) {
	it := domain.Itinerary{Days: []domain.Day{
		{Number: 1, Pois: []domain.POIRef{{PoiID: "a"}, {PoiID: "b"}}},
	}}
	details := map[string]domain.POIDetail{
		"a": {PoiID: "a", Name: "Times Square"},
		"b": {PoiID: "b", Name: "Times Square"},
	}

	s := DaySummaries(it, lookupOf(details))
	if s[0].Route != "Times Square" {
		t.Fatalf("identical names must not arrow-join: %q", s[0].Route)
	}
}

func TestDaySummaries_UnresolvedNamesOmitted(t *testing.T) {
	it := twoDayItinerary()

	// nothing resolved yet: labels stay empty, counts still correct
	s := DaySummaries(it, lookupOf(nil))
	if s[0].Route != "" || s[0].Stops != 2 {
		t.Fatalf("unresolved day1: %+v", s[0])
	}

	// only the last stop resolved: label still empty (first drives it)
	s = DaySummaries(it, lookupOf(map[string]domain.POIDetail{
		"b": {PoiID: "b", Name: "Central Park"},
	}))
	if s[0].Route != "" {
		t.Fatalf("label should wait for the first stop: %q", s[0].Route)
	}
}

func TestMapProjection_FiltersAndOrders(t *testing.T) {
	it := domain.Itinerary{Days: []domain.Day{
		{Number: 1, Pois: []domain.POIRef{{PoiID: "a"}, {PoiID: "b"}, {PoiID: "c"}, {PoiID: "d"}}},
	}}
	details := map[string]domain.POIDetail{
		"a": {PoiID: "a", Name: "A", Lat: pf(40.1), Lng: pf(-73.1)},
		"b": {PoiID: "b", Name: "B", Lat: pf(math.NaN()), Lng: pf(-73.2)}, // NaN: excluded
		"c": {PoiID: "c", Name: "C", Lat: pf(40.3), Lng: pf(-73.3)},
		// "d" unresolved: excluded
	}

	acts := MapProjection(it, 1, lookupOf(details))
	if len(acts) != 2 || acts[0].PoiID != "a" || acts[1].PoiID != "c" {
		t.Fatalf("projection: %+v", acts)
	}
}

func TestMapProjection_NoSelection(t *testing.T) {
	if acts := MapProjection(twoDayItinerary(), 0, lookupOf(nil)); len(acts) != 0 {
		t.Fatalf("no selection must project nothing: %+v", acts)
	}
	if acts := MapProjection(twoDayItinerary(), 9, lookupOf(nil)); len(acts) != 0 {
		t.Fatalf("unknown day must project nothing: %+v", acts)
	}
}

func TestMapProjection_PlaceholderName(t *testing.T) {
	it := domain.Itinerary{Days: []domain.Day{
		{Number: 1, Pois: []domain.POIRef{{PoiID: "42"}}},
	}}
	details := map[string]domain.POIDetail{
		"42": {PoiID: "42", Lat: pf(1), Lng: pf(2)}, // coords but no name
	}
	acts := MapProjection(it, 1, lookupOf(details))
	if len(acts) != 1 || acts[0].Name != "Place 42" {
		t.Fatalf("placeholder: %+v", acts)
	}
}

func TestReconcileSelection(t *testing.T) {
	it := twoDayItinerary()
	if got := ReconcileSelection(it, 2); got != 2 {
		t.Fatalf("existing day kept: %d", got)
	}
	if got := ReconcileSelection(it, 5); got != 0 {
		t.Fatalf("vanished day resets: %d", got)
	}
	if got := ReconcileSelection(it, 0); got != 0 {
		t.Fatalf("none stays none: %d", got)
	}
}
