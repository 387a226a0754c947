package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/commercemesh/catalog-sync/internal/app/fanout"
	"github.com/commercemesh/catalog-sync/internal/domain"
	"github.com/commercemesh/catalog-sync/internal/ports"
)

// upsertStep writes a batch of mapped items into one content collection.
//
// Forward phase: snapshot the current state of every targeted document,
// then update them one by one in input order. There is no multi-item
// transaction — if item 3 of 5 fails, items 1–2 stay committed and the
// step reports the failure with the snapshot armed for compensation.
//
// Compensation phase: restore every snapshotted document to its pre-update
// fields, concurrently (disjoint documents). A failed snapshot read aborts
// the step before any write, leaving nothing to compensate.
type upsertStep struct {
	store      ports.ContentStore
	logger     *slog.Logger
	collection string

	items   []domain.Document
	updated []domain.Document
	prev    []domain.Document
	armed   bool
}

func newUpsertStep(store ports.ContentStore, collection string, logger *slog.Logger) *upsertStep {
	return &upsertStep{store: store, collection: collection, logger: logger}
}

func (s *upsertStep) run(ctx context.Context) error {
	ids := make([]string, len(s.items))
	for i, item := range s.items {
		ids[i] = item.ID
	}

	prev, err := s.store.Find(ctx, s.collection, ids)
	if err != nil {
		return fmt.Errorf("snapshotting %s: %w", s.collection, err)
	}
	snapshot := make([]domain.Document, len(prev))
	for i, doc := range prev {
		snapshot[i] = doc.Clone()
	}
	s.prev = snapshot
	s.armed = true

	for _, item := range s.items {
		doc, err := s.store.Update(ctx, s.collection, item.ID, item.Fields)
		if err != nil {
			return fmt.Errorf("updating %s/%s: %w", s.collection, item.ID, err)
		}
		s.updated = append(s.updated, *doc)
	}
	return nil
}

func (s *upsertStep) compensate(ctx context.Context) error {
	if !s.armed || len(s.prev) == 0 {
		return nil
	}

	s.logger.WarnContext(ctx, "rolling back content items",
		slog.String("collection", s.collection),
		slog.Int("count", len(s.prev)),
	)

	results := fanout.Run(ctx, len(s.prev), s.prev,
		func(ctx context.Context, doc domain.Document) (struct{}, error) {
			_, err := s.store.Update(ctx, s.collection, doc.ID, doc.Fields)
			return struct{}{}, err
		})

	var errs []error
	for i, res := range results {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("restoring %s/%s: %w", s.collection, s.prev[i].ID, res.Err))
		}
	}
	return errors.Join(errs...)
}
