package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/commercemesh/catalog-sync/internal/domain"
)

var testTime = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func category(id, contentID string) domain.Category {
	return domain.Category{
		ID:        id,
		Name:      "Category " + id,
		Handle:    "category-" + id,
		CreatedAt: testTime,
		UpdatedAt: testTime,
		ContentID: contentID,
	}
}

// echoUpdate returns the incoming fields as the updated document.
func echoUpdate(_ context.Context, _ string, id string, fields map[string]any) (*domain.Document, error) {
	return &domain.Document{ID: id, Fields: fields}, nil
}

func TestSyncCategories_UpdatesLinkedEntities(t *testing.T) {
	commerce := &fakeCommerce{
		categories: func(_ context.Context, ids []string) ([]domain.Category, error) {
			return []domain.Category{
				category("cat_1", "doc_1"),
				category("cat_2", ""), // unlinked, filtered out
				category("cat_3", "doc_3"),
			}, nil
		},
	}
	store := &fakeContentStore{update: echoUpdate}

	svc := NewSyncService(commerce, store, testRunner(), testLogger(), nil)
	docs, err := svc.SyncCategories(context.Background(), []string{"cat_1", "cat_2", "cat_3"})
	if err != nil {
		t.Fatalf("SyncCategories: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 synced documents, got %d", len(docs))
	}
	requireStrings(t, store.updatedIDs(), []string{"doc_1", "doc_3"})
	if docs[0].Fields[domain.FieldCommerceID] != "cat_1" {
		t.Errorf("commerce id = %v", docs[0].Fields[domain.FieldCommerceID])
	}
}

func TestSyncCategories_AllUnlinkedSkipsUpsert(t *testing.T) {
	commerce := &fakeCommerce{
		categories: func(context.Context, []string) ([]domain.Category, error) {
			return []domain.Category{category("cat_1", "")}, nil
		},
	}
	store := &fakeContentStore{
		find: func(context.Context, string, []string) ([]domain.Document, error) {
			t.Fatal("store should not be read when every entity is filtered out")
			return nil, nil
		},
		update: echoUpdate,
	}

	svc := NewSyncService(commerce, store, testRunner(), testLogger(), nil)
	docs, err := svc.SyncCategories(context.Background(), []string{"cat_1"})
	if err != nil {
		t.Fatalf("SyncCategories: %v", err)
	}
	if docs == nil || len(docs) != 0 {
		t.Errorf("expected empty non-nil result, got %v", docs)
	}
}

func TestSyncCollections_FetchFailurePropagates(t *testing.T) {
	wantErr := fmt.Errorf("collection col_2: %w", domain.ErrNotFound)
	commerce := &fakeCommerce{
		collections: func(context.Context, []string) ([]domain.Collection, error) {
			return nil, wantErr
		},
	}
	store := &fakeContentStore{update: echoUpdate}

	svc := NewSyncService(commerce, store, testRunner(), testLogger(), nil)
	_, err := svc.SyncCollections(context.Background(), []string{"col_1", "col_2"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(store.updatedIDs()) != 0 {
		t.Errorf("store written despite fetch failure: %v", store.updatedIDs())
	}
}

func TestSyncProducts_RollsBackOnMidBatchFailure(t *testing.T) {
	subtitle := "limited"
	commerce := &fakeCommerce{
		products: func(context.Context, []string) ([]domain.Product, error) {
			return []domain.Product{
				{ID: "prod_1", Title: "One", Handle: "one", Subtitle: &subtitle, ContentID: "doc_1", CreatedAt: testTime, UpdatedAt: testTime},
				{ID: "prod_2", Title: "Two", Handle: "two", ContentID: "doc_2", CreatedAt: testTime, UpdatedAt: testTime},
			}, nil
		},
	}

	snapshots := map[string]domain.Document{
		"doc_1": {ID: "doc_1", Fields: map[string]any{"title": "Old One"}},
		"doc_2": {ID: "doc_2", Fields: map[string]any{"title": "Old Two"}},
	}
	var restoredMu sync.Mutex
	restored := map[string]map[string]any{}
	store := &fakeContentStore{}
	store.find = func(_ context.Context, _ string, ids []string) ([]domain.Document, error) {
		docs := make([]domain.Document, 0, len(ids))
		for _, id := range ids {
			docs = append(docs, snapshots[id])
		}
		return docs, nil
	}
	failing := true
	store.update = func(_ context.Context, _ string, id string, fields map[string]any) (*domain.Document, error) {
		if failing && id == "doc_2" {
			failing = false // compensation writes succeed
			return nil, errors.New("content backend down")
		}
		if !failing {
			restoredMu.Lock()
			restored[id] = fields
			restoredMu.Unlock()
		}
		return &domain.Document{ID: id, Fields: fields}, nil
	}

	svc := NewSyncService(commerce, store, testRunner(), testLogger(), nil)
	_, err := svc.SyncProducts(context.Background(), []string{"prod_1", "prod_2"})
	if err == nil {
		t.Fatal("expected error from failed upsert")
	}

	// Both snapshotted documents get restored, doc_1 to its pre-update state.
	if restored["doc_1"]["title"] != "Old One" {
		t.Errorf("doc_1 not restored: %v", restored["doc_1"])
	}
	if restored["doc_2"]["title"] != "Old Two" {
		t.Errorf("doc_2 not restored: %v", restored["doc_2"])
	}
}

func TestSyncProducts_SnapshotFailureLeavesStoreUntouched(t *testing.T) {
	commerce := &fakeCommerce{
		products: func(context.Context, []string) ([]domain.Product, error) {
			return []domain.Product{
				{ID: "prod_1", Title: "One", Handle: "one", ContentID: "doc_1", CreatedAt: testTime, UpdatedAt: testTime},
			}, nil
		},
	}
	store := &fakeContentStore{
		find: func(context.Context, string, []string) ([]domain.Document, error) {
			return nil, errors.New("read timeout")
		},
		update: echoUpdate,
	}

	svc := NewSyncService(commerce, store, testRunner(), testLogger(), nil)
	_, err := svc.SyncProducts(context.Background(), []string{"prod_1"})
	if err == nil {
		t.Fatal("expected error from failed snapshot")
	}
	if len(store.updatedIDs()) != 0 {
		t.Errorf("store written despite snapshot failure: %v", store.updatedIDs())
	}
}

func TestSyncCategories_Idempotent(t *testing.T) {
	commerce := &fakeCommerce{
		categories: func(context.Context, []string) ([]domain.Category, error) {
			return []domain.Category{category("cat_1", "doc_1")}, nil
		},
	}
	store := &fakeContentStore{update: echoUpdate}
	svc := NewSyncService(commerce, store, testRunner(), testLogger(), nil)

	first, err := svc.SyncCategories(context.Background(), []string{"cat_1"})
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := svc.SyncCategories(context.Background(), []string{"cat_1"})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("expected 1 document per run, got %d and %d", len(first), len(second))
	}
	for k, v := range first[0].Fields {
		if second[0].Fields[k] != v {
			t.Errorf("field %s drifted between runs: %v vs %v", k, v, second[0].Fields[k])
		}
	}
}
