package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound   = errors.New("trip: not found")
	ErrUserExists = errors.New("trip: user already exists")
)

type ItineraryRepository interface {
	// Write paths
	UpsertItinerary(ctx context.Context, it Itinerary) error
	LogMiss(ctx context.Context, id int64, status int, reason string) error

	// Read paths
	GetItinerary(ctx context.Context, id int64) (Itinerary, error)
	ListTrips(ctx context.Context, limit int) ([]TripCard, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, u User) error
	GetUserByEmail(ctx context.Context, email string) (User, error)
}

// TripAPI is the upstream REST backend the planner consumes: itinerary
// content by id and a single POI's descriptive record by id. Payloads
// are loosely shaped maps; mapping into domain values is the app
// layer's job.
type TripAPI interface {
	GetItineraryContent(ctx context.Context, id int64) (map[string]any, error)
	GetPOI(ctx context.Context, id string) (map[string]any, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Read models

type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

// TripCard is one dashboard entry.
type TripCard struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Days      int       `json:"days"`
	Stops     int       `json:"stops"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DaySummary is the collapsed per-day header: stop count plus a route
// label built from the first and last resolved stop names.
type DaySummary struct {
	Day   int    `json:"day"`
	Stops int    `json:"stops"`
	Route string `json:"route"`
}

// MapActivity is one entry of the map projection: a stop enriched with
// resolved name and coordinates. Only entries with finite coordinates
// are ever produced.
type MapActivity struct {
	PoiID    string  `json:"poiId"`
	Name     string  `json:"name"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Category string  `json:"category,omitempty"`
}
