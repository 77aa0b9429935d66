package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDebounce = 40 * time.Millisecond

func collectEmissions() (func(string), chan string) {
	ch := make(chan string, 16)
	return func(q string) { ch <- q }, ch
}

func expectEmission(t *testing.T, ch chan string) string {
	t.Helper()
	select {
	case q := <-ch:
		return q
	case <-time.After(1 * time.Second):
		t.Fatal("expected a committed query emission")
		return ""
	}
}

func expectNoEmission(t *testing.T, ch chan string, wait time.Duration) {
	t.Helper()
	select {
	case q := <-ch:
		t.Fatalf("expected no emission, got %q", q)
	case <-time.After(wait):
	}
}

func TestSearchDebouncer_CommitsAfterSettling(t *testing.T) {
	emit, ch := collectEmissions()
	d := NewSearchDebouncer(testDebounce, 2, emit)
	defer d.Stop()

	d.Submit("Kar")

	assert.Equal(t, "Kar", expectEmission(t, ch))
	assert.Equal(t, "Kar", d.CommittedQuery())
}

func TestSearchDebouncer_LatestKeystrokeWins(t *testing.T) {
	emit, ch := collectEmissions()
	d := NewSearchDebouncer(testDebounce, 2, emit)
	defer d.Stop()

	d.Submit("Ka")
	d.Submit("Kar")
	d.Submit("Kard")

	assert.Equal(t, "Kard", expectEmission(t, ch))
	expectNoEmission(t, ch, 3*testDebounce)
}

func TestSearchDebouncer_ShortInputIsNotCommitted(t *testing.T) {
	emit, ch := collectEmissions()
	d := NewSearchDebouncer(testDebounce, 2, emit)
	defer d.Stop()

	d.Submit("Kar")
	require.Equal(t, "Kar", expectEmission(t, ch))

	// A single character settles without replacing the committed query.
	d.Submit("K")
	expectNoEmission(t, ch, 3*testDebounce)
	assert.Equal(t, "Kar", d.CommittedQuery())
}

func TestSearchDebouncer_ClearEmitsImmediately(t *testing.T) {
	emit, ch := collectEmissions()
	d := NewSearchDebouncer(10*time.Second, 2, emit)
	defer d.Stop()

	d.Submit("Kar")
	d.Submit("")

	// No waiting: the debounce window here is far longer than the test.
	assert.Equal(t, "", expectEmission(t, ch))
	assert.Equal(t, "", d.CommittedQuery())
}

func TestSearchDebouncer_ClearCancelsPendingCommit(t *testing.T) {
	emit, ch := collectEmissions()
	d := NewSearchDebouncer(testDebounce, 2, emit)
	defer d.Stop()

	d.Submit("Kar")
	d.Submit("")

	assert.Equal(t, "", expectEmission(t, ch))
	expectNoEmission(t, ch, 3*testDebounce)
}

func TestSearchDebouncer_MinCharsCountsRunes(t *testing.T) {
	emit, ch := collectEmissions()
	d := NewSearchDebouncer(testDebounce, 2, emit)
	defer d.Stop()

	// Two runes, more than two bytes.
	d.Submit("Łó")

	assert.Equal(t, "Łó", expectEmission(t, ch))
}

func TestSearchDebouncer_StopDropsPendingTimer(t *testing.T) {
	emit, ch := collectEmissions()
	d := NewSearchDebouncer(testDebounce, 2, emit)

	d.Submit("Kar")
	d.Stop()
	d.Submit("Kardio")

	expectNoEmission(t, ch, 3*testDebounce)
}
