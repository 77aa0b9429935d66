package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/zatekoja/wardwatch/internal/domain/entities"
)

func TestEvaluateFreshness_StaleBeyondThreshold(t *testing.T) {
	now := time.Date(2026, 8, 31, 14, 0, 0, 0, time.UTC)
	scraped := now.Add(-13 * time.Hour)

	state := EvaluateFreshness(&scraped, now, DefaultStaleAfterHours)

	assert.True(t, state.IsStale)
	assert.Equal(t, 13, state.HoursSinceLastScrape)
}

func TestEvaluateFreshness_ExactThresholdIsFresh(t *testing.T) {
	now := time.Date(2026, 8, 31, 14, 0, 0, 0, time.UTC)
	scraped := now.Add(-12 * time.Hour)

	state := EvaluateFreshness(&scraped, now, DefaultStaleAfterHours)

	assert.False(t, state.IsStale)
	assert.Equal(t, 12, state.HoursSinceLastScrape)
}

func TestEvaluateFreshness_HoursAreFloored(t *testing.T) {
	now := time.Date(2026, 8, 31, 14, 0, 0, 0, time.UTC)
	scraped := now.Add(-12*time.Hour - 59*time.Minute)

	state := EvaluateFreshness(&scraped, now, DefaultStaleAfterHours)

	assert.Equal(t, 12, state.HoursSinceLastScrape)
	assert.False(t, state.IsStale)
}

func TestEvaluateFreshness_AbsentTimestamp(t *testing.T) {
	state := EvaluateFreshness(nil, time.Now(), DefaultStaleAfterHours)

	assert.Equal(t, entities.FreshnessState{}, state)
	assert.False(t, state.IsStale)
	assert.Equal(t, 0, state.HoursSinceLastScrape)
}

func TestEvaluateFreshness_FutureTimestampClampsToZero(t *testing.T) {
	now := time.Date(2026, 8, 31, 14, 0, 0, 0, time.UTC)
	scraped := now.Add(2 * time.Hour)

	state := EvaluateFreshness(&scraped, now, DefaultStaleAfterHours)

	assert.Equal(t, 0, state.HoursSinceLastScrape)
	assert.False(t, state.IsStale)
}

func TestInsightState_VisibilityLifecycle(t *testing.T) {
	s := NewInsightState()
	assert.False(t, s.Visible())

	insight := &entities.Insight{Text: "ICU capacity is tightening"}
	s.Set(insight)
	assert.True(t, s.Visible())
	assert.Equal(t, insight, s.Current())

	s.Dismiss()
	assert.False(t, s.Visible())

	// A later poll returning the advisory again stays hidden this session.
	s.Set(insight)
	assert.False(t, s.Visible())

	s.Undismiss()
	assert.True(t, s.Visible())
}

func TestInsightState_NilInsightNeverVisible(t *testing.T) {
	s := NewInsightState()
	s.Set(nil)
	s.Undismiss()
	assert.False(t, s.Visible())
}
