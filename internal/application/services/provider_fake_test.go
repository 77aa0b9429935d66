package services

import (
	"context"
	"sync"

	"github.com/zatekoja/wardwatch/internal/domain/entities"
	"github.com/zatekoja/wardwatch/internal/domain/providers"
)

// fakeWardProvider is a controllable in-memory provider for service tests.
// Each operation delegates to an overridable func so tests can inject
// failures, block resolution, or serve per-request results.
type fakeWardProvider struct {
	mu sync.Mutex

	listFn    func(req providers.ListWardsRequest) (*entities.WardList, error)
	addFn     func(wardName string) error
	removeFn  func(wardName string) error
	insightFn func() (*entities.Insight, error)

	addCalls    []string
	removeCalls []string
	listCtxs    []context.Context
}

func newFakeWardProvider() *fakeWardProvider {
	return &fakeWardProvider{}
}

func (f *fakeWardProvider) ListWards(ctx context.Context, req providers.ListWardsRequest) (*entities.WardList, error) {
	f.mu.Lock()
	f.listCtxs = append(f.listCtxs, ctx)
	fn := f.listFn
	f.mu.Unlock()
	if fn != nil {
		return fn(req)
	}
	return &entities.WardList{}, nil
}

func (f *fakeWardProvider) ListHospitals(ctx context.Context, wardName string, req providers.ListHospitalsRequest) ([]entities.Hospital, error) {
	return nil, nil
}

func (f *fakeWardProvider) AddFavorite(ctx context.Context, wardName string) error {
	f.mu.Lock()
	f.addCalls = append(f.addCalls, wardName)
	fn := f.addFn
	f.mu.Unlock()
	if fn != nil {
		return fn(wardName)
	}
	return nil
}

func (f *fakeWardProvider) RemoveFavorite(ctx context.Context, wardName string) error {
	f.mu.Lock()
	f.removeCalls = append(f.removeCalls, wardName)
	fn := f.removeFn
	f.mu.Unlock()
	if fn != nil {
		return fn(wardName)
	}
	return nil
}

func (f *fakeWardProvider) CurrentInsight(ctx context.Context) (*entities.Insight, error) {
	f.mu.Lock()
	fn := f.insightFn
	f.mu.Unlock()
	if fn != nil {
		return fn()
	}
	return nil, nil
}

func (f *fakeWardProvider) mutationCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.addCalls) + len(f.removeCalls)
}

func (f *fakeWardProvider) listContexts() []context.Context {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]context.Context(nil), f.listCtxs...)
}

func (f *fakeWardProvider) setListFn(fn func(req providers.ListWardsRequest) (*entities.WardList, error)) {
	f.mu.Lock()
	f.listFn = fn
	f.mu.Unlock()
}
