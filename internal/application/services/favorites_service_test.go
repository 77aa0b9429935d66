package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/zatekoja/wardwatch/pkg/errors"
)

type notifierRecorder struct {
	successes chan string
	errors    chan string
}

func newNotifierRecorder() *notifierRecorder {
	return &notifierRecorder{
		successes: make(chan string, 16),
		errors:    make(chan string, 16),
	}
}

func (r *notifierRecorder) notifier() FavoritesNotifier {
	return FavoritesNotifier{
		OnSuccess: func(msg string) { r.successes <- msg },
		OnError:   func(msg string) { r.errors <- msg },
	}
}

func awaitMessage(t *testing.T, ch chan string) string {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for toggle resolution")
		return ""
	}
}

func TestFavoritesService_ToggleIsOptimistic(t *testing.T) {
	provider := newFakeWardProvider()
	release := make(chan struct{})
	provider.addFn = func(string) error {
		<-release
		return nil
	}

	recorder := newNotifierRecorder()
	s := NewFavoritesService(provider, recorder.notifier())

	accepted := s.Toggle(context.Background(), "Kardiologia")

	require.True(t, accepted)
	assert.True(t, s.IsFavorite("Kardiologia"), "optimistic value must flip before the mutation resolves")
	assert.True(t, s.IsPending("Kardiologia"))

	close(release)
	awaitMessage(t, recorder.successes)

	assert.True(t, s.IsFavorite("Kardiologia"))
	assert.False(t, s.IsPending("Kardiologia"))
}

func TestFavoritesService_SecondToggleIgnoredWhilePending(t *testing.T) {
	provider := newFakeWardProvider()
	release := make(chan struct{})
	provider.addFn = func(string) error {
		<-release
		return nil
	}

	recorder := newNotifierRecorder()
	s := NewFavoritesService(provider, recorder.notifier())

	require.True(t, s.Toggle(context.Background(), "Kardiologia"))
	assert.False(t, s.Toggle(context.Background(), "Kardiologia"))
	assert.False(t, s.Toggle(context.Background(), "Kardiologia"))

	close(release)
	awaitMessage(t, recorder.successes)

	// One accepted toggle, exactly one mutation.
	assert.Equal(t, 1, provider.mutationCount())
	assert.True(t, s.IsFavorite("Kardiologia"))
}

func TestFavoritesService_DifferentWardsToggleIndependently(t *testing.T) {
	provider := newFakeWardProvider()
	release := make(chan struct{})
	provider.addFn = func(string) error {
		<-release
		return nil
	}

	recorder := newNotifierRecorder()
	s := NewFavoritesService(provider, recorder.notifier())

	require.True(t, s.Toggle(context.Background(), "Kardiologia"))
	require.True(t, s.Toggle(context.Background(), "Ortopedia"))

	close(release)
	awaitMessage(t, recorder.successes)
	awaitMessage(t, recorder.successes)

	assert.Equal(t, 2, provider.mutationCount())
	assert.True(t, s.IsFavorite("Kardiologia"))
	assert.True(t, s.IsFavorite("Ortopedia"))
}

func TestFavoritesService_RollbackOnFailure(t *testing.T) {
	provider := newFakeWardProvider()
	provider.addFn = func(string) error {
		return apperrors.NewExternalError("ward API request failed", nil)
	}

	recorder := newNotifierRecorder()
	s := NewFavoritesService(provider, recorder.notifier())

	require.True(t, s.Toggle(context.Background(), "Kardiologia"))
	awaitMessage(t, recorder.errors)

	// optimisticValue after rollback equals confirmedValue before the toggle.
	assert.False(t, s.IsFavorite("Kardiologia"))
	assert.False(t, s.IsPending("Kardiologia"))
}

func TestFavoritesService_RollbackOnConflict(t *testing.T) {
	provider := newFakeWardProvider()
	provider.removeFn = func(string) error {
		return apperrors.NewConflictError("ward is not favorited")
	}

	recorder := newNotifierRecorder()
	s := NewFavoritesService(provider, recorder.notifier())
	s.Seed([]string{"Chirurgia"})

	require.True(t, s.Toggle(context.Background(), "Chirurgia"))
	awaitMessage(t, recorder.errors)

	assert.True(t, s.IsFavorite("Chirurgia"), "rollback restores the confirmed value")
}

func TestFavoritesService_ToggleAgainAfterResolution(t *testing.T) {
	provider := newFakeWardProvider()
	recorder := newNotifierRecorder()
	s := NewFavoritesService(provider, recorder.notifier())

	require.True(t, s.Toggle(context.Background(), "Kardiologia"))
	awaitMessage(t, recorder.successes)
	require.True(t, s.Toggle(context.Background(), "Kardiologia"))
	awaitMessage(t, recorder.successes)

	assert.Equal(t, []string{"Kardiologia"}, provider.addCalls)
	assert.Equal(t, []string{"Kardiologia"}, provider.removeCalls)
	assert.False(t, s.IsFavorite("Kardiologia"))
}

func TestFavoritesService_SeedInitializesConfirmed(t *testing.T) {
	provider := newFakeWardProvider()
	recorder := newNotifierRecorder()
	s := NewFavoritesService(provider, recorder.notifier())

	s.Seed([]string{"Kardiologia", "Chirurgia"})

	assert.True(t, s.IsFavorite("Kardiologia"))
	assert.True(t, s.IsFavorite("Chirurgia"))
	assert.False(t, s.IsFavorite("Ortopedia"))
}

func TestFavoritesService_SeedNeverOverwritesPending(t *testing.T) {
	provider := newFakeWardProvider()
	release := make(chan struct{})
	provider.removeFn = func(string) error {
		<-release
		return nil
	}

	recorder := newNotifierRecorder()
	s := NewFavoritesService(provider, recorder.notifier())
	s.Seed([]string{"Kardiologia"})

	// User un-favorites; the removal is in flight when a fetch re-declares
	// the ward as a server-side favorite.
	require.True(t, s.Toggle(context.Background(), "Kardiologia"))
	s.Seed([]string{"Kardiologia"})

	assert.False(t, s.IsFavorite("Kardiologia"), "seed must not clobber the in-flight removal")

	close(release)
	awaitMessage(t, recorder.successes)
	assert.False(t, s.IsFavorite("Kardiologia"))
}

func TestFavoritesService_PruneKeepsPendingEntries(t *testing.T) {
	provider := newFakeWardProvider()
	release := make(chan struct{})
	provider.addFn = func(string) error {
		<-release
		return nil
	}

	recorder := newNotifierRecorder()
	s := NewFavoritesService(provider, recorder.notifier())
	s.Seed([]string{"Chirurgia"})

	require.True(t, s.Toggle(context.Background(), "Kardiologia"))
	s.Prune(map[string]struct{}{})

	assert.True(t, s.IsPending("Kardiologia"), "pending entry survives pruning")
	assert.False(t, s.IsFavorite("Chirurgia"), "settled entry for an unrendered ward is dropped")

	close(release)
	awaitMessage(t, recorder.successes)
	assert.True(t, s.IsFavorite("Kardiologia"))
}

func TestFavoritesService_OnChangeFiresOnFlipAndSettle(t *testing.T) {
	provider := newFakeWardProvider()
	recorder := newNotifierRecorder()
	s := NewFavoritesService(provider, recorder.notifier())

	changes := make(chan struct{}, 8)
	s.SetOnChange(func() { changes <- struct{}{} })

	require.True(t, s.Toggle(context.Background(), "Kardiologia"))
	awaitMessage(t, recorder.successes)

	count := 0
	for {
		select {
		case <-changes:
			count++
			continue
		case <-time.After(100 * time.Millisecond):
		}
		break
	}
	assert.Equal(t, 2, count, "one change for the optimistic flip, one for the confirmation")
}
