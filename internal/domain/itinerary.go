package domain

// Direction of a move request, as sent by the arrow buttons in the UI.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// EmptyDayPolicy decides what happens to a day whose last POI was moved
// or deleted away: keep it as an explicitly empty day, or drop it and
// renumber the remaining days contiguously from 1.
type EmptyDayPolicy int

const (
	KeepEmptyDays EmptyDayPolicy = iota
	DropEmptyDays
)

// POIRef is one stop in a day's visit order. It carries the id only;
// descriptive data lives in the resolver's POIDetail table.
type POIRef struct {
	PoiID string `json:"poiId"`
}

type Day struct {
	Number int      `json:"day"`
	Pois   []POIRef `json:"pois"`
}

// Itinerary is the canonical day-partitioned POI sequence. Days are
// ordered by Number ascending; numbers are unique and contiguous from 1.
// Every poi id appears in exactly one day.
//
// Mutation methods never modify the receiver: they return a fresh deep
// copy, so callers can hold on to prior snapshots.
type Itinerary struct {
	ID    int64  `json:"id"`
	Title string `json:"title,omitempty"`
	Days  []Day  `json:"days"`
}

func (it Itinerary) clone() Itinerary {
	out := Itinerary{ID: it.ID, Title: it.Title}
	if it.Days == nil {
		return out
	}
	out.Days = make([]Day, len(it.Days))
	for i, d := range it.Days {
		nd := Day{Number: d.Number}
		if d.Pois != nil {
			nd.Pois = make([]POIRef, len(d.Pois))
			copy(nd.Pois, d.Pois)
		}
		out.Days[i] = nd
	}
	return out
}

func (it Itinerary) dayIndex(number int) int {
	for i, d := range it.Days {
		if d.Number == number {
			return i
		}
	}
	return -1
}

// StopCount is the total number of POI references across all days.
func (it Itinerary) StopCount() int {
	n := 0
	for _, d := range it.Days {
		n += len(d.Pois)
	}
	return n
}

// PoiIDs returns every referenced poi id in visit order.
func (it Itinerary) PoiIDs() []string {
	ids := make([]string, 0, it.StopCount())
	for _, d := range it.Days {
		for _, p := range d.Pois {
			ids = append(ids, p.PoiID)
		}
	}
	return ids
}

// HasDay reports whether a day with the given number exists.
func (it Itinerary) HasDay(number int) bool { return it.dayIndex(number) != -1 }

// MovePoi applies the combined move contract: a within-day swap with the
// immediate neighbour when possible; at the boundary of a day it falls
// through to a cross-day transfer (up: append to the end of the previous
// day, down: prepend to the start of the next day). Moving up from the
// first day or down from the last day is a no-op, as is an unknown day
// or poi id. Returns the resulting snapshot and whether anything changed.
func (it Itinerary) MovePoi(poiID string, dayNumber int, dir Direction, policy EmptyDayPolicy) (Itinerary, bool) {
	di := it.dayIndex(dayNumber)
	if di == -1 {
		return it, false
	}
	pi := -1
	for i, p := range it.Days[di].Pois {
		if p.PoiID == poiID {
			pi = i
			break
		}
	}
	if pi == -1 {
		return it, false
	}

	next := it.clone()
	pois := next.Days[di].Pois

	switch {
	case dir == Up && pi > 0:
		pois[pi], pois[pi-1] = pois[pi-1], pois[pi]
	case dir == Down && pi < len(pois)-1:
		pois[pi], pois[pi+1] = pois[pi+1], pois[pi]
	case dir == Up && di > 0:
		moved := pois[pi]
		next.Days[di].Pois = append(pois[:pi], pois[pi+1:]...)
		next.Days[di-1].Pois = append(next.Days[di-1].Pois, moved)
		next.applyEmptyDayPolicy(policy)
	case dir == Down && di < len(next.Days)-1:
		moved := pois[pi]
		next.Days[di].Pois = append(pois[:pi], pois[pi+1:]...)
		next.Days[di+1].Pois = append([]POIRef{moved}, next.Days[di+1].Pois...)
		next.applyEmptyDayPolicy(policy)
	default:
		// first day moving up, or last day moving down
		return it, false
	}
	return next, true
}

// DeletePoi removes the reference from whichever day contains it.
// Unknown ids are a no-op.
func (it Itinerary) DeletePoi(poiID string, policy EmptyDayPolicy) (Itinerary, bool) {
	for di, d := range it.Days {
		for pi, p := range d.Pois {
			if p.PoiID != poiID {
				continue
			}
			next := it.clone()
			next.Days[di].Pois = append(next.Days[di].Pois[:pi], next.Days[di].Pois[pi+1:]...)
			next.applyEmptyDayPolicy(policy)
			return next, true
		}
	}
	return it, false
}

func (it *Itinerary) applyEmptyDayPolicy(policy EmptyDayPolicy) {
	if policy != DropEmptyDays {
		return
	}
	kept := it.Days[:0]
	for _, d := range it.Days {
		if len(d.Pois) > 0 {
			kept = append(kept, d)
		}
	}
	it.Days = kept
	// renumber to keep day numbers contiguous from 1
	for i := range it.Days {
		it.Days[i].Number = i + 1
	}
}
