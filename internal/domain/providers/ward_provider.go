package providers

import (
	"context"

	"github.com/zatekoja/wardwatch/internal/domain/entities"
)

// ListWardsRequest holds filter parameters for a ward list fetch
type ListWardsRequest struct {
	Search        string
	FavoritesOnly bool
	Limit         int
	Offset        int
}

// ListHospitalsRequest holds filter parameters for a ward's hospital rows
type ListHospitalsRequest struct {
	District string
	Search   string
	Order    string
	Limit    int
	Offset   int
}

// WardProvider defines the interface to the ward availability backend.
// Implementations must map transport failures onto the pkg/errors taxonomy:
// CONFLICT for already-favorited/already-removed, UNAUTHORIZED for auth
// failures, EXTERNAL for everything else network-shaped.
type WardProvider interface {
	// ListWards fetches a page of wards matching the filter
	ListWards(ctx context.Context, req ListWardsRequest) (*entities.WardList, error)

	// ListHospitals fetches hospital availability rows for a ward
	ListHospitals(ctx context.Context, wardName string, req ListHospitalsRequest) ([]entities.Hospital, error)

	// AddFavorite marks a ward as a favorite for the current user
	AddFavorite(ctx context.Context, wardName string) error

	// RemoveFavorite removes a ward from the current user's favorites
	RemoveFavorite(ctx context.Context, wardName string) error

	// CurrentInsight returns the active advisory, or nil when none is active
	CurrentInsight(ctx context.Context) (*entities.Insight, error)
}
