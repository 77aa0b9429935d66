package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/zatekoja/wardwatch/internal/domain/providers"
	"github.com/zatekoja/wardwatch/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/wardwatch/pkg/errors"
)

// favoriteEntry tracks one ward's membership in the favorite set.
// optimistic is what the UI shows; confirmed is the last server-acknowledged
// value; pending means a mutation is in flight.
type favoriteEntry struct {
	pending    bool
	optimistic bool
	confirmed  bool
}

// FavoritesNotifier receives human-readable outcomes of favorite toggles
type FavoritesNotifier struct {
	OnSuccess func(message string)
	OnError   func(message string)
}

// FavoritesService owns the favorite-ward set. Toggles apply optimistically
// and roll back on failure; at most one mutation per ward is in flight at a
// time, while different wards proceed independently.
type FavoritesService struct {
	mu       sync.Mutex
	entries  map[string]*favoriteEntry
	provider providers.WardProvider
	notifier FavoritesNotifier
	onChange func()
}

// NewFavoritesService creates a favorites sync engine
func NewFavoritesService(provider providers.WardProvider, notifier FavoritesNotifier) *FavoritesService {
	return &FavoritesService{
		entries:  make(map[string]*favoriteEntry),
		provider: provider,
		notifier: notifier,
	}
}

// SetOnChange registers a callback fired whenever any entry's visible state
// changes (optimistic flip, confirmation, or rollback). Used by the list
// controller to re-sort.
func (s *FavoritesService) SetOnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Toggle flips the optimistic value for wardName and issues exactly one
// mutation chosen by the previous optimistic value. The flip is visible to
// IsFavorite before Toggle returns. Returns false when a mutation for this
// ward is already in flight and the request was ignored.
func (s *FavoritesService) Toggle(ctx context.Context, wardName string) bool {
	s.mu.Lock()

	entry := s.entries[wardName]
	if entry == nil {
		entry = &favoriteEntry{}
		s.entries[wardName] = entry
	}

	if entry.pending {
		s.mu.Unlock()
		observability.LoggerFromContext(ctx).Debug().
			Str("ward", wardName).
			Msg("favorite toggle ignored, mutation already in flight")
		return false
	}

	wasFavorite := entry.optimistic
	entry.optimistic = !wasFavorite
	entry.pending = true
	onChange := s.onChange
	s.mu.Unlock()

	if onChange != nil {
		onChange()
	}

	go s.resolve(ctx, wardName, wasFavorite)
	return true
}

// resolve runs the network mutation for an accepted toggle and settles the
// entry according to the outcome.
func (s *FavoritesService) resolve(ctx context.Context, wardName string, wasFavorite bool) {
	var err error
	if wasFavorite {
		err = s.provider.RemoveFavorite(ctx, wardName)
	} else {
		err = s.provider.AddFavorite(ctx, wardName)
	}

	s.mu.Lock()
	entry := s.entries[wardName]
	if entry == nil {
		// Pruned while in flight; nothing left to settle.
		s.mu.Unlock()
		return
	}

	if err == nil {
		entry.confirmed = entry.optimistic
	} else {
		entry.optimistic = entry.confirmed
	}
	entry.pending = false
	onChange := s.onChange
	s.mu.Unlock()

	logger := observability.LoggerFromContext(ctx)
	if err == nil {
		message := fmt.Sprintf("Added %s to favorites", wardName)
		if wasFavorite {
			message = fmt.Sprintf("Removed %s from favorites", wardName)
		}
		logger.Info().Str("ward", wardName).Bool("favorite", !wasFavorite).Msg("favorite toggle confirmed")
		if s.notifier.OnSuccess != nil {
			s.notifier.OnSuccess(message)
		}
	} else {
		logger.Error().Err(err).Str("ward", wardName).Msg("favorite toggle failed, rolled back")
		if s.notifier.OnError != nil {
			s.notifier.OnError(toggleFailureMessage(wardName, err))
		}
	}

	if onChange != nil {
		onChange()
	}
}

func toggleFailureMessage(wardName string, err error) string {
	switch apperrors.TypeOf(err) {
	case apperrors.ErrorTypeConflict:
		return fmt.Sprintf("Favorites for %s were already changed elsewhere", wardName)
	case apperrors.ErrorTypeUnauthorized:
		return "Your session has expired, please sign in again"
	default:
		return fmt.Sprintf("Could not update favorites for %s, please try again", wardName)
	}
}

// Seed bulk-initializes confirmed and optimistic values to true for the
// server-declared favorites of a list fetch. Entries with a mutation in
// flight are left untouched so a user's action is never clobbered.
func (s *FavoritesService) Seed(wardNames []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, name := range wardNames {
		entry := s.entries[name]
		if entry == nil {
			s.entries[name] = &favoriteEntry{optimistic: true, confirmed: true}
			continue
		}
		if entry.pending {
			continue
		}
		entry.optimistic = true
		entry.confirmed = true
	}
}

// Prune drops entries for wards no longer rendered. Pending entries survive:
// their mutation still has to settle.
func (s *FavoritesService) Prune(rendered map[string]struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, entry := range s.entries {
		if entry.pending {
			continue
		}
		if _, ok := rendered[name]; !ok {
			delete(s.entries, name)
		}
	}
}

// IsFavorite returns the UI-facing truth for wardName
func (s *FavoritesService) IsFavorite(wardName string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry := s.entries[wardName]; entry != nil {
		return entry.optimistic
	}
	return false
}

// IsPending reports whether a mutation for wardName is in flight
func (s *FavoritesService) IsPending(wardName string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry := s.entries[wardName]; entry != nil {
		return entry.pending
	}
	return false
}
