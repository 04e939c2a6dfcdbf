package shared

// SeedItineraryIDs is the itinerary set the warmer pre-syncs so first
// page loads hit warm storage. Extend as trips are published upstream.
var SeedItineraryIDs = []int64{
	1, 2, 3, 4, 5, 6, 7, 8,
	101, 102, 103,
	204, 205,
}
