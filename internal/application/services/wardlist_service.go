package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/zatekoja/wardwatch/internal/domain/entities"
	"github.com/zatekoja/wardwatch/internal/domain/providers"
	"github.com/zatekoja/wardwatch/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/wardwatch/pkg/errors"
)

// ListPhase is the ward list's fetch state
type ListPhase int

const (
	PhaseIdle ListPhase = iota
	PhaseLoading
	PhaseSuccess
	PhaseError
)

// WardRow is one rendered list entry: the ward plus its favorites projection
type WardRow struct {
	Ward     entities.Ward
	Favorite bool
	Pending  bool
}

// Snapshot is a full render of the ward list pushed to the frontend
type Snapshot struct {
	Phase         ListPhase
	Rows          []WardRow
	Meta          entities.ListMeta
	Freshness     entities.FreshnessState
	Insight       *entities.Insight
	ErrorMessage  string
	Query         string
	FavoritesOnly bool
}

// WardListService orchestrates list fetches against filter changes. Only the
// most recently issued fetch may apply its result; superseded responses are
// discarded on arrival. On failure the previous list is retained and an
// error message surfaces instead.
type WardListService struct {
	mu        sync.Mutex
	provider  providers.WardProvider
	favorites *FavoritesService
	insights  *InsightState
	collator  *collate.Collator

	now             func() time.Time
	staleAfterHours int
	pageSize        int

	query         string
	favoritesOnly bool
	phase         ListPhase
	wards         []entities.Ward
	meta          entities.ListMeta
	freshness     entities.FreshnessState
	errorMessage  string

	generation  uint64
	cancelInFly context.CancelFunc
	onRender    func(Snapshot)
}

// WardListOption configures a WardListService
type WardListOption func(*WardListService)

// WithCollationLocale sets the locale for ward-name ordering
func WithCollationLocale(locale string) WardListOption {
	return func(s *WardListService) {
		tag, err := language.Parse(locale)
		if err != nil {
			tag = language.Polish
		}
		s.collator = collate.New(tag)
	}
}

// WithStaleAfterHours sets the freshness threshold
func WithStaleAfterHours(hours int) WardListOption {
	return func(s *WardListService) {
		s.staleAfterHours = hours
	}
}

// WithPageSize sets the fetch page size
func WithPageSize(size int) WardListOption {
	return func(s *WardListService) {
		s.pageSize = size
	}
}

// WithClock overrides the time source, for tests
func WithClock(now func() time.Time) WardListOption {
	return func(s *WardListService) {
		s.now = now
	}
}

// NewWardListService creates the list controller and hooks itself into the
// favorites engine so settling toggles re-sort the rendered list.
func NewWardListService(provider providers.WardProvider, favorites *FavoritesService, insights *InsightState, opts ...WardListOption) *WardListService {
	s := &WardListService{
		provider:        provider,
		favorites:       favorites,
		insights:        insights,
		collator:        collate.New(language.Polish),
		now:             time.Now,
		staleAfterHours: DefaultStaleAfterHours,
		pageSize:        50,
		phase:           PhaseIdle,
	}
	for _, opt := range opts {
		opt(s)
	}

	favorites.SetOnChange(s.render)
	return s
}

// SetOnRender registers the frontend callback receiving render snapshots
func (s *WardListService) SetOnRender(fn func(Snapshot)) {
	s.mu.Lock()
	s.onRender = fn
	s.mu.Unlock()
}

// SetQuery applies a committed search query. A value equal to the current
// one is a no-op; a changed one supersedes any in-flight fetch.
func (s *WardListService) SetQuery(ctx context.Context, committedQuery string) {
	s.mu.Lock()
	if committedQuery == s.query {
		s.mu.Unlock()
		return
	}
	s.query = committedQuery
	s.fetchLocked(ctx)
}

// SetFavoritesOnly toggles the favorites-only filter
func (s *WardListService) SetFavoritesOnly(ctx context.Context, favoritesOnly bool) {
	s.mu.Lock()
	if favoritesOnly == s.favoritesOnly {
		s.mu.Unlock()
		return
	}
	s.favoritesOnly = favoritesOnly
	s.fetchLocked(ctx)
}

// Refresh re-issues a fetch with the current filter parameters
func (s *WardListService) Refresh(ctx context.Context) {
	s.mu.Lock()
	s.fetchLocked(ctx)
}

// fetchLocked supersedes any in-flight fetch and issues a new one. The mutex
// is held on entry and released before the render callback fires.
func (s *WardListService) fetchLocked(ctx context.Context) {
	s.generation++
	generation := s.generation

	if s.cancelInFly != nil {
		s.cancelInFly()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	s.cancelInFly = cancel

	s.phase = PhaseLoading
	req := providers.ListWardsRequest{
		Search:        s.query,
		FavoritesOnly: s.favoritesOnly,
		Limit:         s.pageSize,
	}
	s.mu.Unlock()

	s.render()

	go func() {
		list, err := s.provider.ListWards(fetchCtx, req)

		var insight *entities.Insight
		var insightErr error
		if err == nil {
			insight, insightErr = s.provider.CurrentInsight(fetchCtx)
		}

		s.apply(fetchCtx, generation, list, err, insight, insightErr)
	}()
}

// apply settles a fetch result. Results from superseded generations are
// dropped: last request wins, not first response.
func (s *WardListService) apply(ctx context.Context, generation uint64, list *entities.WardList, err error, insight *entities.Insight, insightErr error) {
	logger := observability.LoggerFromContext(ctx)

	s.mu.Lock()
	if generation != s.generation {
		s.mu.Unlock()
		logger.Debug().
			Uint64("generation", generation).
			Msg("discarding superseded ward list response")
		return
	}
	// The fetch settled; release its context so it does not stay registered
	// on the session-long parent.
	s.cancelInFly()
	s.cancelInFly = nil

	if err != nil {
		s.phase = PhaseError
		s.errorMessage = fetchFailureMessage(err)
		s.mu.Unlock()

		logger.Error().Err(err).Msg("ward list fetch failed, retaining previous list")
		s.render()
		return
	}

	s.wards = list.Wards
	s.meta = list.Meta
	s.freshness = EvaluateFreshness(list.Meta.LastScrapeTime, s.now(), s.staleAfterHours)
	s.phase = PhaseSuccess
	s.errorMessage = ""
	query := s.query

	// Seeding and pruning stay under the mutex, inside the generation guard,
	// so a superseded fetch can never prune entries a newer one just seeded.
	serverFavorites := make([]string, 0, len(list.Wards))
	rendered := make(map[string]struct{}, len(list.Wards))
	for _, w := range list.Wards {
		rendered[w.WardName] = struct{}{}
		if w.IsFavorite {
			serverFavorites = append(serverFavorites, w.WardName)
		}
	}
	s.favorites.Seed(serverFavorites)
	s.favorites.Prune(rendered)

	if insightErr != nil {
		logger.Warn().Err(insightErr).Msg("insight poll failed, keeping previous advisory")
	} else {
		s.insights.Set(insight)
	}
	s.mu.Unlock()

	logger.Info().
		Int("wards", len(list.Wards)).
		Int("total", list.Meta.Total).
		Str("search", query).
		Msg("ward list refreshed")

	s.render()
}

func fetchFailureMessage(err error) string {
	switch apperrors.TypeOf(err) {
	case apperrors.ErrorTypeUnauthorized:
		return "Your session has expired, please sign in again"
	default:
		return "Could not refresh ward availability, showing the last loaded data"
	}
}

// render builds a snapshot of the current state, sorted favorites-first then
// by locale-aware ward name with fetch order breaking ties, and pushes it to
// the frontend. Also invoked when the favorite set changes.
func (s *WardListService) render() {
	s.mu.Lock()
	onRender := s.onRender
	if onRender == nil {
		s.mu.Unlock()
		return
	}

	rows := make([]WardRow, len(s.wards))
	for i, w := range s.wards {
		w.IsFavorite = s.favorites.IsFavorite(w.WardName)
		rows[i] = WardRow{
			Ward:     w,
			Favorite: w.IsFavorite,
			Pending:  s.favorites.IsPending(w.WardName),
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Favorite != rows[j].Favorite {
			return rows[i].Favorite
		}
		return s.collator.CompareString(rows[i].Ward.WardName, rows[j].Ward.WardName) < 0
	})

	var insight *entities.Insight
	if s.insights.Visible() {
		insight = s.insights.Current()
	}

	snapshot := Snapshot{
		Phase:         s.phase,
		Rows:          rows,
		Meta:          s.meta,
		Freshness:     s.freshness,
		Insight:       insight,
		ErrorMessage:  s.errorMessage,
		Query:         s.query,
		FavoritesOnly: s.favoritesOnly,
	}
	s.mu.Unlock()

	onRender(snapshot)
}

// Rerender pushes a fresh snapshot without refetching. Used when a purely
// client-side input to the render changes, such as an insight dismissal.
func (s *WardListService) Rerender() {
	s.render()
}

// Hospitals fetches the detail rows for a ward. The detail view is plain
// request/response and does not participate in list fetch supersession.
func (s *WardListService) Hospitals(ctx context.Context, wardName string, req providers.ListHospitalsRequest) ([]entities.Hospital, error) {
	return s.provider.ListHospitals(ctx, wardName, req)
}
