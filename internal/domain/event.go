package domain

import (
	"context"
	"time"
)

// Event represents a published campus event. Events are created and edited
// by the organizer surface; the registration core only reads them.
// swagger:model Event
type Event struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	StartAt         time.Time `json:"start_at"`
	EndAt           time.Time `json:"end_at"`
	Venue           string    `json:"venue"`
	Capacity        int       `json:"capacity"`
	WaitlistEnabled bool      `json:"waitlist_enabled"`
	IsTeamEvent     bool      `json:"is_team_event"`
	TeamSizeMin     int       `json:"team_size_min"`
	TeamSizeMax     int       `json:"team_size_max"`
}

// EventWithCounts is an Event annotated with its confirmed registration
// count and remaining spots (capacity - confirmed).
// swagger:model EventWithCounts
type EventWithCounts struct {
	Event
	Confirmed int `json:"confirmed"`
	Spots     int `json:"spots"`
}

// EventService defines read operations over the event catalog.
type EventService interface {
	// ListEvents returns all events with confirmed counts and remaining
	// spots, ordered by start time ascending.
	ListEvents(ctx context.Context) ([]*EventWithCounts, error)
}
