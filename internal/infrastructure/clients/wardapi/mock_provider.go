package wardapi

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/zatekoja/wardwatch/internal/domain/entities"
	"github.com/zatekoja/wardwatch/internal/domain/providers"
	apperrors "github.com/zatekoja/wardwatch/pkg/errors"
)

// MockProvider implements an in-memory ward provider for demo mode and
// testing, without requiring a running backend.
type MockProvider struct {
	mu        sync.Mutex
	wards     []entities.Ward
	favorites map[string]bool
	insight   *entities.Insight
	scrapedAt time.Time
}

// NewMockProvider creates a mock provider seeded with sample wards
func NewMockProvider() *MockProvider {
	scraped := time.Now().Add(-2 * time.Hour)
	return &MockProvider{
		wards: []entities.Ward{
			{WardName: "Kardiologia", HospitalCount: 14, TotalPlaces: 220, LastScrapedAt: scraped},
			{WardName: "Chirurgia", HospitalCount: 18, TotalPlaces: 340, LastScrapedAt: scraped},
			{WardName: "Ortopedia", HospitalCount: 9, TotalPlaces: 130, LastScrapedAt: scraped},
			{WardName: "Neurologia", HospitalCount: 7, TotalPlaces: 95, LastScrapedAt: scraped},
			{WardName: "Pediatria", HospitalCount: 11, TotalPlaces: 180, LastScrapedAt: scraped},
			{WardName: "Łóżka internistyczne", HospitalCount: 21, TotalPlaces: 410, LastScrapedAt: scraped},
		},
		favorites: map[string]bool{},
		insight: &entities.Insight{
			Text:        "Availability on internal medicine wards is dropping across the region; consider surrounding districts.",
			GeneratedAt: time.Now().Add(-30 * time.Minute),
			ExpiresAt:   time.Now().Add(6 * time.Hour),
		},
		scrapedAt: scraped,
	}
}

// ListWards filters the seeded wards the way the backend would
func (m *MockProvider) ListWards(ctx context.Context, req providers.ListWardsRequest) (*entities.WardList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := make([]entities.Ward, 0, len(m.wards))
	for _, w := range m.wards {
		if req.Search != "" && !strings.Contains(strings.ToLower(w.WardName), strings.ToLower(req.Search)) {
			continue
		}
		if req.FavoritesOnly && !m.favorites[w.WardName] {
			continue
		}
		w.IsFavorite = m.favorites[w.WardName]
		matched = append(matched, w)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].WardName < matched[j].WardName
	})

	total := len(matched)
	limit := req.Limit
	if limit <= 0 || limit > total {
		limit = total
	}
	offset := req.Offset
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	scraped := m.scrapedAt
	return &entities.WardList{
		Wards: matched[offset:end],
		Meta: entities.ListMeta{
			Total:          total,
			Limit:          limit,
			Offset:         offset,
			LastScrapeTime: &scraped,
			IsStale:        false,
		},
	}, nil
}

// ListHospitals returns synthetic hospital rows for a ward
func (m *MockProvider) ListHospitals(ctx context.Context, wardName string, req providers.ListHospitalsRequest) ([]entities.Hospital, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, w := range m.wards {
		if w.WardName != wardName {
			continue
		}
		district := "Śródmieście"
		return []entities.Hospital{
			{ID: "h-1", Name: "Szpital Wojewódzki", District: &district, WardName: wardName, AvailablePlaces: 4, TotalPlaces: 40, LastScrapedAt: m.scrapedAt},
			{ID: "h-2", Name: "Szpital Miejski", District: &district, WardName: wardName, AvailablePlaces: 0, TotalPlaces: 25, LastScrapedAt: m.scrapedAt},
		}, nil
	}
	return nil, apperrors.NewNotFoundError("ward not found: " + wardName)
}

// AddFavorite marks a ward as favorited, mirroring the backend's 409 on repeat
func (m *MockProvider) AddFavorite(ctx context.Context, wardName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.favorites[wardName] {
		return apperrors.NewConflictError("ward already favorited")
	}
	m.favorites[wardName] = true
	return nil
}

// RemoveFavorite clears a favorite, mirroring the backend's 404 when absent
func (m *MockProvider) RemoveFavorite(ctx context.Context, wardName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.favorites[wardName] {
		return apperrors.NewConflictError("ward is not favorited")
	}
	delete(m.favorites, wardName)
	return nil
}

// CurrentInsight returns the seeded advisory
func (m *MockProvider) CurrentInsight(ctx context.Context) (*entities.Insight, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insight, nil
}
