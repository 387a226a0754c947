// Package store provides in-memory implementations of the content store and
// cache ports, used by the local profile and tests in place of the real
// content backend and cache infrastructure.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/commercemesh/catalog-sync/internal/domain"
	"github.com/commercemesh/catalog-sync/internal/ports"
)

// Compile-time interface checks.
var (
	_ ports.ContentStore  = (*MemoryContentStore)(nil)
	_ ports.HookRegistrar = (*MemoryContentStore)(nil)
)

// MemoryContentStore is a thread-safe in-memory content document store. It
// enforces the content-side write rules (handle format, single featured
// collection, write-once commerce id) and fires lifecycle hooks after
// successful mutations, mirroring the real content backend's behavior.
type MemoryContentStore struct {
	mu     sync.RWMutex
	docs   map[string]map[string]domain.Document
	order  map[string][]string
	hooks  map[string][]ports.LifecycleHook
	logger *slog.Logger
}

// NewMemoryContentStore creates an empty store.
func NewMemoryContentStore(logger *slog.Logger) *MemoryContentStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &MemoryContentStore{
		docs:   make(map[string]map[string]domain.Document),
		order:  make(map[string][]string),
		hooks:  make(map[string][]ports.LifecycleHook),
		logger: logger,
	}
}

// RegisterHook registers a lifecycle hook for the named collection. Hooks
// run after the mutation commits, outside the store lock.
func (s *MemoryContentStore) RegisterHook(collection string, hook ports.LifecycleHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks[collection] = append(s.hooks[collection], hook)
}

// Find returns the documents with the given ids in input order. Missing ids
// are omitted.
func (s *MemoryContentStore) Find(_ context.Context, collection string, ids []string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]domain.Document, 0, len(ids))
	for _, id := range ids {
		if doc, ok := s.docs[collection][id]; ok {
			docs = append(docs, doc.Clone())
		}
	}
	return docs, nil
}

// List returns every document in the collection in insertion order.
func (s *MemoryContentStore) List(_ context.Context, collection string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.order[collection]
	docs := make([]domain.Document, 0, len(ids))
	for _, id := range ids {
		if doc, ok := s.docs[collection][id]; ok {
			docs = append(docs, doc.Clone())
		}
	}
	return docs, nil
}

// Create inserts a new document after validating its fields. The commerce id
// may be set here; it becomes immutable afterwards.
func (s *MemoryContentStore) Create(ctx context.Context, collection string, doc domain.Document) (*domain.Document, error) {
	if doc.ID == "" {
		return nil, fmt.Errorf("document id must not be empty: %w", domain.ErrValidation)
	}

	s.mu.Lock()
	if _, exists := s.docs[collection][doc.ID]; exists {
		s.mu.Unlock()
		return nil, fmt.Errorf("document %s already exists: %w", doc.ID, domain.ErrConflict)
	}
	if err := s.validateLocked(collection, doc.ID, doc.Fields); err != nil {
		s.mu.Unlock()
		return nil, err
	}

	stored := doc.Clone()
	if s.docs[collection] == nil {
		s.docs[collection] = make(map[string]domain.Document)
	}
	s.docs[collection][doc.ID] = stored
	s.order[collection] = append(s.order[collection], doc.ID)
	hooks := s.hooks[collection]
	s.mu.Unlock()

	s.fire(ctx, hooks, ports.EventAfterCreate, collection, stored)
	result := stored.Clone()
	return &result, nil
}

// Update applies fields to an existing document. The commerce id field is
// write-once: rewriting the same value is allowed (idempotent sync runs),
// changing it is rejected.
func (s *MemoryContentStore) Update(ctx context.Context, collection, id string, fields map[string]any) (*domain.Document, error) {
	s.mu.Lock()
	current, ok := s.docs[collection][id]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	if incoming, present := fields[domain.FieldCommerceID]; present {
		if existing := current.CommerceID(); existing != "" && existing != incoming {
			s.mu.Unlock()
			return nil, fmt.Errorf("%s is immutable once set: %w", domain.FieldCommerceID, domain.ErrConflict)
		}
	}
	if err := s.validateLocked(collection, id, fields); err != nil {
		s.mu.Unlock()
		return nil, err
	}

	updated := current.Clone()
	if updated.Fields == nil {
		updated.Fields = make(map[string]any, len(fields))
	}
	for k, v := range fields {
		updated.Fields[k] = v
	}
	s.docs[collection][id] = updated
	hooks := s.hooks[collection]
	s.mu.Unlock()

	s.fire(ctx, hooks, ports.EventAfterUpdate, collection, updated)
	result := updated.Clone()
	return &result, nil
}

// Delete removes a document. Missing documents are an error.
func (s *MemoryContentStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	doc, ok := s.docs[collection][id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	delete(s.docs[collection], id)
	for i, orderedID := range s.order[collection] {
		if orderedID == id {
			s.order[collection] = append(s.order[collection][:i], s.order[collection][i+1:]...)
			break
		}
	}
	hooks := s.hooks[collection]
	s.mu.Unlock()

	s.fire(ctx, hooks, ports.EventAfterDelete, collection, doc)
	return nil
}

// validateLocked applies the content-side field rules. Caller holds the lock.
func (s *MemoryContentStore) validateLocked(collection, id string, fields map[string]any) error {
	if handle, ok := fields["handle"].(string); ok {
		if err := domain.ValidateHandle(handle); err != nil {
			return err
		}
	}

	if featured, ok := fields["featured"].(bool); ok && featured && collection == domain.CollectionCollections {
		existing := make([]domain.Document, 0, len(s.order[collection]))
		for _, orderedID := range s.order[collection] {
			existing = append(existing, s.docs[collection][orderedID])
		}
		if err := domain.CheckFeatured(existing, id); err != nil {
			return err
		}
	}

	return nil
}

// fire runs hooks outside the lock. Hooks never fail the write; panics are
// recovered and logged.
func (s *MemoryContentStore) fire(ctx context.Context, hooks []ports.LifecycleHook, event ports.LifecycleEvent, collection string, doc domain.Document) {
	for _, hook := range hooks {
		func() {
			defer func() {
				if v := recover(); v != nil {
					s.logger.ErrorContext(ctx, "lifecycle hook panicked",
						slog.String("collection", collection),
						slog.String("event", string(event)),
						slog.Any("panic", v),
					)
				}
			}()
			hook(ctx, event, collection, doc.Clone())
		}()
	}
}
