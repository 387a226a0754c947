package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/commercemesh/catalog-sync/internal/domain"
	"github.com/commercemesh/catalog-sync/internal/ports"
)

const testSecret = "test-secret"

// fakeGateway is a function-backed ports.CacheGateway.
type fakeGateway struct {
	invalidate func(ctx context.Context, req ports.InvalidationRequest) (*ports.InvalidationResult, error)
}

func (f *fakeGateway) Invalidate(ctx context.Context, req ports.InvalidationRequest) (*ports.InvalidationResult, error) {
	return f.invalidate(ctx, req)
}

// fakeTagCache is a function-backed ports.TagCache.
type fakeTagCache struct {
	revalidate func(ctx context.Context, tag domain.Tag) error
}

func (f *fakeTagCache) Revalidate(ctx context.Context, tag domain.Tag) error {
	if f.revalidate == nil {
		return nil
	}
	return f.revalidate(ctx, tag)
}

// fakeCatalogSync is a function-backed ports.CatalogSync; each method falls
// back to the shared run func when its own is unset.
type fakeCatalogSync struct {
	run func(ctx context.Context, ids []string) ([]domain.Document, error)
}

func (f *fakeCatalogSync) SyncCategories(ctx context.Context, ids []string) ([]domain.Document, error) {
	return f.run(ctx, ids)
}

func (f *fakeCatalogSync) SyncCollections(ctx context.Context, ids []string) ([]domain.Document, error) {
	return f.run(ctx, ids)
}

func (f *fakeCatalogSync) SyncProducts(ctx context.Context, ids []string) ([]domain.Document, error) {
	return f.run(ctx, ids)
}

// fakeRegistry is a canned ports.HealthRegistry.
type fakeRegistry struct {
	results map[string]error
}

func (f *fakeRegistry) Register(ports.HealthChecker) {}

func (f *fakeRegistry) CheckAll(context.Context) map[string]error {
	if f.results == nil {
		return map[string]error{}
	}
	return f.results
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(v); err != nil {
		t.Fatalf("failed to encode JSON body: %v", err)
	}
	return buf
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var result T
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode JSON response: %v", err)
	}
	return result
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Errorf("status = %d, want %d; body = %s", rec.Code, want, rec.Body.String())
	}
}
