package app

import (
	"fmt"

	"trip_planner/internal/domain"
)

// Derived views: pure functions over a store snapshot plus a detail
// lookup, recomputed after every mutation and resolver settle.

// LookupFunc resolves a poi id to its detail record; ok=false means the
// id is still loading or unresolvable.
type LookupFunc func(id string) (domain.POIDetail, bool)

// PlaceholderName is the display fallback for an unresolved stop.
func PlaceholderName(poiID string) string { return fmt.Sprintf("Place %s", poiID) }

// DaySummaries computes the collapsed header rows: stop count and route
// label per day. The label is the first stop's resolved name; with more
// than one stop and a differently named resolved last stop it becomes
// "first → last". Unresolved names stay out of the label entirely.
func DaySummaries(it domain.Itinerary, lookup LookupFunc) []domain.DaySummary {
	out := make([]domain.DaySummary, 0, len(it.Days))
	for _, d := range it.Days {
		s := domain.DaySummary{Day: d.Number, Stops: len(d.Pois)}
		if len(d.Pois) > 0 {
			first, last := "", ""
			if det, ok := lookup(d.Pois[0].PoiID); ok {
				first = det.Name
			}
			if det, ok := lookup(d.Pois[len(d.Pois)-1].PoiID); ok {
				last = det.Name
			}
			if first != "" {
				if len(d.Pois) > 1 && last != "" && last != first {
					s.Route = first + " → " + last
				} else {
					s.Route = first
				}
			}
		}
		out = append(out, s)
	}
	return out
}

// MapProjection builds the ordered marker list for the selected day
// (0 = none selected = empty). Stops whose coordinates did not resolve
// to finite numbers are filtered out; the map never sees a NaN marker.
func MapProjection(it domain.Itinerary, selectedDay int, lookup LookupFunc) []domain.MapActivity {
	out := []domain.MapActivity{}
	if selectedDay == 0 {
		return out
	}
	for _, d := range it.Days {
		if d.Number != selectedDay {
			continue
		}
		for _, p := range d.Pois {
			det, ok := lookup(p.PoiID)
			if !ok || !det.HasCoords() {
				continue
			}
			name := det.Name
			if name == "" {
				name = PlaceholderName(p.PoiID)
			}
			out = append(out, domain.MapActivity{
				PoiID:    p.PoiID,
				Name:     name,
				Lat:      *det.Lat,
				Lng:      *det.Lng,
				Category: det.Category,
			})
		}
	}
	return out
}

// ReconcileSelection drops a selection whose day no longer exists, so a
// mutation or reload never leaves the map pointed at a stale day.
func ReconcileSelection(it domain.Itinerary, selectedDay int) int {
	if selectedDay == 0 || it.HasDay(selectedDay) {
		return selectedDay
	}
	return 0
}
