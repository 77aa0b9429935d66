package entities

import (
	"time"
)

// Ward represents a hospital department category aggregated across hospitals.
// WardName is the client-side primary key; the collection is replaced
// wholesale on every successful list fetch.
type Ward struct {
	WardName      string    `json:"ward_name"`
	HospitalCount int       `json:"hospital_count"`
	TotalPlaces   int       `json:"total_places"`
	LastScrapedAt time.Time `json:"last_scraped_at"`

	// IsFavorite is a render-time projection from the favorites engine,
	// not server truth. On the wire it carries the server-declared value
	// used to seed local state.
	IsFavorite bool `json:"is_favorite"`
}

// ListMeta holds pagination and freshness metadata returned with a ward list
type ListMeta struct {
	Total          int        `json:"total"`
	Limit          int        `json:"limit"`
	Offset         int        `json:"offset"`
	LastScrapeTime *time.Time `json:"last_scrape_time,omitempty"`
	IsStale        bool       `json:"is_stale"`
}

// WardList is a fetched page of wards plus its metadata
type WardList struct {
	Wards []Ward
	Meta  ListMeta
}
