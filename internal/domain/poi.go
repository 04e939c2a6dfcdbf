package domain

import "math"

// POIDetail is one resolved place record. Entries are immutable once
// fetched; absence from the resolver table means "still loading or
// unresolvable" and callers degrade to placeholders. Coordinates are
// pointers so a payload without them stays representable (and cacheable)
// as null rather than NaN.
type POIDetail struct {
	PoiID    string   `json:"poiId"`
	Name     string   `json:"name"`
	Lat      *float64 `json:"lat"`
	Lng      *float64 `json:"lng"`
	Category string   `json:"category,omitempty"`
}

// HasCoords reports whether both coordinates are present and finite.
// The map must never receive a marker with missing or NaN coordinates.
func (d POIDetail) HasCoords() bool {
	return d.Lat != nil && d.Lng != nil && finite(*d.Lat) && finite(*d.Lng)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
