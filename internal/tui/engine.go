// Package tui renders the ward availability list in the terminal and feeds
// user input into the synchronization engine.
package tui

import (
	"context"

	"github.com/zatekoja/wardwatch/internal/application/services"
	"github.com/zatekoja/wardwatch/internal/domain/entities"
	"github.com/zatekoja/wardwatch/internal/domain/providers"
)

// Notice is a transient toast shown after a favorite toggle settles
type Notice struct {
	Text    string
	IsError bool
}

// Engine bundles the synchronization services behind channels the bubbletea
// event loop can consume. Service callbacks run on engine goroutines; the
// channels hand their output to the UI thread.
type Engine struct {
	ctx       context.Context
	debouncer *services.SearchDebouncer
	list      *services.WardListService
	favorites *services.FavoritesService
	insights  *services.InsightState

	snapshots chan services.Snapshot
	notices   chan Notice
}

// NewEngine wires the services together: the debouncer commits queries into
// the list controller, the favorites engine reports outcomes as notices, and
// every render lands on the snapshot channel.
func NewEngine(ctx context.Context, list *services.WardListService, favorites *services.FavoritesService, insights *services.InsightState, debouncer *services.SearchDebouncer) *Engine {
	e := &Engine{
		ctx:       ctx,
		debouncer: debouncer,
		list:      list,
		favorites: favorites,
		insights:  insights,
		snapshots: make(chan services.Snapshot, 32),
		notices:   make(chan Notice, 32),
	}

	list.SetOnRender(func(s services.Snapshot) {
		select {
		case e.snapshots <- s:
		default:
			// UI is behind; drop the oldest snapshot and keep the newest.
			select {
			case <-e.snapshots:
			default:
			}
			e.snapshots <- s
		}
	})

	return e
}

// PushNotice queues a toast for the UI
func (e *Engine) PushNotice(n Notice) {
	select {
	case e.notices <- n:
	default:
	}
}

// Search feeds a keystroke's resulting input value to the debouncer
func (e *Engine) Search(rawInput string) {
	e.debouncer.Submit(rawInput)
}

// Refresh re-fetches with current filters
func (e *Engine) Refresh() {
	e.list.Refresh(e.ctx)
}

// ToggleFavoritesOnly flips the favorites-only filter
func (e *Engine) ToggleFavoritesOnly(on bool) {
	e.list.SetFavoritesOnly(e.ctx, on)
}

// ToggleFavorite flips a ward's favorite state optimistically
func (e *Engine) ToggleFavorite(wardName string) bool {
	return e.favorites.Toggle(e.ctx, wardName)
}

// DismissInsight hides the advisory for the session and re-renders the
// current list without refetching.
func (e *Engine) DismissInsight() {
	e.insights.Dismiss()
	e.list.Rerender()
}

// Hospitals fetches detail rows for a ward, most available beds first
func (e *Engine) Hospitals(wardName string) ([]entities.Hospital, error) {
	return e.list.Hospitals(e.ctx, wardName, providers.ListHospitalsRequest{Order: "available_desc"})
}

// Stop shuts the debouncer down
func (e *Engine) Stop() {
	e.debouncer.Stop()
}
