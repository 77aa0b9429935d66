package services

import (
	"sync"
	"time"

	"github.com/zatekoja/wardwatch/internal/domain/entities"
)

// DefaultStaleAfterHours is the freshness threshold: data older than this
// many whole hours is flagged stale.
const DefaultStaleAfterHours = 12

// EvaluateFreshness derives a staleness snapshot from the last scrape time.
// Hours are the floor of the elapsed time, clamped at zero for absent or
// future timestamps (a future timestamp means clock skew, not stale data).
// Exactly staleAfterHours elapsed is still fresh; staleness starts beyond it.
func EvaluateFreshness(lastScrape *time.Time, now time.Time, staleAfterHours int) entities.FreshnessState {
	if lastScrape == nil {
		return entities.FreshnessState{}
	}

	hours := int(now.Sub(*lastScrape).Hours())
	if hours < 0 {
		hours = 0
	}

	return entities.FreshnessState{
		LastScrapeTime:       lastScrape,
		HoursSinceLastScrape: hours,
		IsStale:              hours > staleAfterHours,
	}
}

// InsightState holds the active advisory and the session-scoped dismissal
// flag. Dismissal is one-way for the session; Undismiss restores visibility
// explicitly.
type InsightState struct {
	mu        sync.Mutex
	current   *entities.Insight
	dismissed bool
}

// NewInsightState creates an empty insight holder
func NewInsightState() *InsightState {
	return &InsightState{}
}

// Set records the advisory returned by the latest fetch or poll. The
// dismissal flag is untouched: dismissing an insight hides it for the whole
// session even when later polls return it again.
func (s *InsightState) Set(insight *entities.Insight) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = insight
}

// Current returns the active advisory, or nil
func (s *InsightState) Current() *entities.Insight {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Dismiss hides the advisory for the rest of the session
func (s *InsightState) Dismiss() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dismissed = true
}

// Undismiss restores advisory visibility
func (s *InsightState) Undismiss() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dismissed = false
}

// Visible reports whether an advisory exists and has not been dismissed
func (s *InsightState) Visible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil && !s.dismissed
}
