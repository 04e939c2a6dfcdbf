package app

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"trip_planner/internal/domain"
)

// LoadError reports a structurally malformed itinerary payload (missing
// days, non-array pois). The store keeps its previous snapshot when a
// load fails with it.
type LoadError struct {
	Reason string
}

func (e *LoadError) Error() string { return "itinerary load failed: " + e.Reason }

/********** alias registries (single source of truth) **********/

var poiAliases = map[string][]string{
	"name":     {"name", "title", "label"},
	"category": {"type", "category", "kind"},
}

var latPaths = []string{"lat", "latitude", "location.lat", "coords.lat"}
var lngPaths = []string{"lng", "lon", "longitude", "location.lng", "coords.lng"}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func firstNonEmptyAlias(m map[string]any, aliases map[string][]string, key string) string {
	for _, p := range aliases[key] {
		if s := lookupStr(m, p); s != "" {
			return s
		}
	}
	return ""
}

// firstFloatFlexible: number from several paths (float64/int/string like
// "40,7"). Nil when absent, so missing coordinates stay missing instead
// of zero.
func firstFloatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

// flexID renders a string or numeric id as its canonical string form.
func flexID(v any) string {
	switch id := v.(type) {
	case string:
		return strings.TrimSpace(id)
	case float64:
		if id == math.Trunc(id) {
			return strconv.FormatInt(int64(id), 10)
		}
		return strconv.FormatFloat(id, 'f', -1, 64)
	case int:
		return strconv.Itoa(id)
	case int64:
		return strconv.FormatInt(id, 10)
	}
	return ""
}

func flexInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i, true
		}
	}
	return 0, false
}

/********** itinerary content **********/

// mapItinerary turns an upstream content payload into a normalized
// Itinerary. Tolerant where it can afford to be: a day without a pois
// array is an empty day, duplicate poi references keep their first
// occurrence. Structural breakage (no days, pois present but not an
// array) is a LoadError.
//
// Days are sorted by their declared number, groups with equal numbers
// concatenated in payload order, then renumbered 1..n so day numbers
// are always unique, positive and contiguous.
func mapItinerary(id int64, p map[string]any) (domain.Itinerary, error) {
	out := domain.Itinerary{ID: id, Title: lookupStr(p, "title")}

	rawDays, ok := p["days"]
	if !ok || rawDays == nil {
		return domain.Itinerary{}, &LoadError{Reason: "missing days"}
	}
	daysArr, ok := rawDays.([]any)
	if !ok {
		return domain.Itinerary{}, &LoadError{Reason: "days is not an array"}
	}

	type rawDay struct {
		number int
		order  int
		pois   []domain.POIRef
	}
	var days []rawDay
	seen := map[string]bool{}

	for i, rd := range daysArr {
		dm, ok := rd.(map[string]any)
		if !ok {
			return domain.Itinerary{}, &LoadError{Reason: fmt.Sprintf("day %d is not an object", i)}
		}
		num, _ := flexInt(dm["day"])
		if num <= 0 {
			num, _ = flexInt(dm["dayNumber"])
		}

		d := rawDay{number: num, order: i}
		switch pois := dm["pois"].(type) {
		case nil:
			// tolerated: a day with no pois array is an empty day
		case []any:
			for _, rp := range pois {
				pm, ok := rp.(map[string]any)
				if !ok {
					continue
				}
				pid := flexID(pm["poiId"])
				if pid == "" {
					pid = flexID(pm["id"])
				}
				if pid == "" || seen[pid] {
					continue
				}
				seen[pid] = true
				d.pois = append(d.pois, domain.POIRef{PoiID: pid})
			}
		default:
			return domain.Itinerary{}, &LoadError{Reason: fmt.Sprintf("day %d pois is not an array", i)}
		}
		days = append(days, d)
	}

	sort.SliceStable(days, func(a, b int) bool {
		if days[a].number != days[b].number {
			return days[a].number < days[b].number
		}
		return days[a].order < days[b].order
	})

	// merge equal declared numbers, then renumber contiguously from 1
	lastNum := 0
	for _, d := range days {
		if n := len(out.Days); n > 0 && d.number == lastNum {
			out.Days[n-1].Pois = append(out.Days[n-1].Pois, d.pois...)
			continue
		}
		lastNum = d.number
		out.Days = append(out.Days, domain.Day{Number: len(out.Days) + 1, Pois: d.pois})
	}
	return out, nil
}

/********** poi details **********/

// mapPOIDetail maps a place payload to a POIDetail. Missing coordinates
// come out nil, which HasCoords later filters.
func mapPOIDetail(id string, p map[string]any) domain.POIDetail {
	return domain.POIDetail{
		PoiID:    id,
		Name:     firstNonEmptyAlias(p, poiAliases, "name"),
		Category: firstNonEmptyAlias(p, poiAliases, "category"),
		Lat:      firstFloatFlexible(p, latPaths...),
		Lng:      firstFloatFlexible(p, lngPaths...),
	}
}
