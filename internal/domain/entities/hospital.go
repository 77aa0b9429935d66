package entities

import (
	"time"
)

// Hospital represents a single hospital's bed availability within a ward.
// Rows come from the ward detail endpoint and are read-only client-side.
type Hospital struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	District        *string   `json:"district,omitempty"`
	WardName        string    `json:"ward_name"`
	AvailablePlaces int       `json:"available_places"`
	TotalPlaces     int       `json:"total_places"`
	LastScrapedAt   time.Time `json:"last_scraped_at"`
}
