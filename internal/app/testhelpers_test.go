package app

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/commercemesh/catalog-sync/internal/app/workflow"
	"github.com/commercemesh/catalog-sync/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func testRunner() *workflow.Runner {
	return workflow.NewRunner(testLogger())
}

// fakeCommerce implements ports.CommerceQuery with per-method functions.
type fakeCommerce struct {
	categories  func(ctx context.Context, ids []string) ([]domain.Category, error)
	collections func(ctx context.Context, ids []string) ([]domain.Collection, error)
	products    func(ctx context.Context, ids []string) ([]domain.Product, error)
}

func (f *fakeCommerce) Categories(ctx context.Context, ids []string) ([]domain.Category, error) {
	return f.categories(ctx, ids)
}

func (f *fakeCommerce) Collections(ctx context.Context, ids []string) ([]domain.Collection, error) {
	return f.collections(ctx, ids)
}

func (f *fakeCommerce) Products(ctx context.Context, ids []string) ([]domain.Product, error) {
	return f.products(ctx, ids)
}

// fakeContentStore implements ports.ContentStore, recording update calls.
type fakeContentStore struct {
	mu      sync.Mutex
	find    func(ctx context.Context, collection string, ids []string) ([]domain.Document, error)
	update  func(ctx context.Context, collection, id string, fields map[string]any) (*domain.Document, error)
	updates []string
}

func (f *fakeContentStore) Find(ctx context.Context, collection string, ids []string) ([]domain.Document, error) {
	if f.find == nil {
		return nil, nil
	}
	return f.find(ctx, collection, ids)
}

func (f *fakeContentStore) Update(ctx context.Context, collection, id string, fields map[string]any) (*domain.Document, error) {
	f.mu.Lock()
	f.updates = append(f.updates, id)
	f.mu.Unlock()
	return f.update(ctx, collection, id, fields)
}

func (f *fakeContentStore) updatedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.updates...)
}

// fakePatternCache implements ports.PatternCache, recording patterns and
// failing on request.
type fakePatternCache struct {
	mu       sync.Mutex
	patterns []string
	failOn   map[string]error
}

func (f *fakePatternCache) Invalidate(_ context.Context, pattern string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failOn[pattern]; ok {
		return err
	}
	f.patterns = append(f.patterns, pattern)
	return nil
}

// fakeNotifier implements ports.Notifier, recording calls per URL.
type fakeNotifier struct {
	mu     sync.Mutex
	calls  []notifyCall
	failOn map[string]error
}

type notifyCall struct {
	url  string
	tags []domain.Tag
}

func (f *fakeNotifier) PostTags(_ context.Context, url string, tags []domain.Tag) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failOn[url]; ok {
		return err
	}
	f.calls = append(f.calls, notifyCall{url: url, tags: append([]domain.Tag(nil), tags...)})
	return nil
}

func (f *fakeNotifier) urls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	urls := make([]string, len(f.calls))
	for i, c := range f.calls {
		urls[i] = c.url
	}
	return urls
}

func requireStrings(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
