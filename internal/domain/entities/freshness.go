package entities

import (
	"time"
)

// FreshnessState is a snapshot of how old the underlying scraped data was
// at the time of the last fetch. It is recomputed per fetch, never ticked.
type FreshnessState struct {
	LastScrapeTime       *time.Time
	HoursSinceLastScrape int
	IsStale              bool
}
