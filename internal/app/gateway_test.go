package app

import (
	"context"
	"errors"
	"testing"

	"github.com/commercemesh/catalog-sync/internal/ports"
)

func TestInvalidate_NoCacheConfigured(t *testing.T) {
	g := NewGatewayService(nil, testLogger(), nil)

	res, err := g.Invalidate(context.Background(), ports.InvalidationRequest{Tags: []string{"products"}})
	if err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if res.Message != "No cache module configured" {
		t.Errorf("message = %q", res.Message)
	}
	if len(res.Invalidated) != 0 {
		t.Errorf("unexpected invalidated patterns: %v", res.Invalidated)
	}
}

func TestInvalidate_All(t *testing.T) {
	cache := &fakePatternCache{}
	g := NewGatewayService(cache, testLogger(), nil)

	res, err := g.Invalidate(context.Background(), ports.InvalidationRequest{
		Tags:          []string{"products"}, // ignored when invalidateAll is set
		InvalidateAll: true,
	})
	if err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if res.Message != "All cache invalidated" {
		t.Errorf("message = %q", res.Message)
	}
	requireStrings(t, cache.patterns, []string{"*"})
}

func TestInvalidate_AllFailureSurfaces(t *testing.T) {
	cache := &fakePatternCache{failOn: map[string]error{"*": errors.New("cache down")}}
	g := NewGatewayService(cache, testLogger(), nil)

	_, err := g.Invalidate(context.Background(), ports.InvalidationRequest{InvalidateAll: true})
	if err == nil {
		t.Fatal("expected error from failed invalidate-all")
	}
}

func TestInvalidate_TagPatterns(t *testing.T) {
	cache := &fakePatternCache{}
	g := NewGatewayService(cache, testLogger(), nil)

	res, err := g.Invalidate(context.Background(), ports.InvalidationRequest{Tags: []string{"categories"}})
	if err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	want := []string{"*category*", "*payload_category*"}
	requireStrings(t, res.Invalidated, want)
	requireStrings(t, cache.patterns, want)
}

func TestInvalidate_RepeatedTagsNotDeduplicated(t *testing.T) {
	cache := &fakePatternCache{}
	g := NewGatewayService(cache, testLogger(), nil)

	res, err := g.Invalidate(context.Background(), ports.InvalidationRequest{Tags: []string{"products", "products"}})
	if err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	requireStrings(t, res.Invalidated, []string{"*product*", "*payload_product*", "*product*", "*payload_product*"})
}

func TestInvalidate_NoValidTagsFallsBack(t *testing.T) {
	cache := &fakePatternCache{}
	g := NewGatewayService(cache, testLogger(), nil)

	res, err := g.Invalidate(context.Background(), ports.InvalidationRequest{Tags: []string{"bogus"}})
	if err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	requireStrings(t, res.Invalidated, []string{"*product*", "*collection*", "*category*"})
}

func TestInvalidate_PatternFailureIsBestEffort(t *testing.T) {
	cache := &fakePatternCache{failOn: map[string]error{"*product*": errors.New("cache down")}}
	g := NewGatewayService(cache, testLogger(), nil)

	res, err := g.Invalidate(context.Background(), ports.InvalidationRequest{Tags: []string{"products"}})
	if err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	// The failed pattern is skipped; the rest still purge and report.
	requireStrings(t, res.Invalidated, []string{"*payload_product*"})
}
