package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/zatekoja/wardwatch/internal/domain/entities"
	"github.com/zatekoja/wardwatch/internal/domain/providers"
)

// Exercises the debouncer feeding the list controller the way the frontend
// wires them: typing settles into one fetch, clearing fetches immediately.
func TestSearchFlow_TypeThenClear(t *testing.T) {
	h := newListHarness()

	var mu sync.Mutex
	var searches []string
	h.provider.setListFn(func(req providers.ListWardsRequest) (*entities.WardList, error) {
		mu.Lock()
		searches = append(searches, req.Search)
		mu.Unlock()
		return listOf(wardNamed("Kardiologia", false)), nil
	})

	ctx := context.Background()
	d := NewSearchDebouncer(testDebounce, 2, func(committedQuery string) {
		h.service.SetQuery(ctx, committedQuery)
	})
	defer d.Stop()

	// "K", "Ka", "Kar" typed quickly: one settled commit, one fetch.
	d.Submit("K")
	d.Submit("Ka")
	d.Submit("Kar")
	h.awaitPhase(t, PhaseSuccess)

	mu.Lock()
	assert.Equal(t, []string{"Kar"}, searches)
	mu.Unlock()

	// Clearing fetches without waiting out the debounce window.
	cleared := time.Now()
	d.Submit("")
	h.awaitPhase(t, PhaseLoading)
	assert.Less(t, time.Since(cleared), testDebounce, "clearing must not be debounced")

	h.awaitPhase(t, PhaseSuccess)
	mu.Lock()
	assert.Equal(t, []string{"Kar", ""}, searches)
	mu.Unlock()
}
