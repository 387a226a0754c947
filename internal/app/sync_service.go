package app

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/metric"

	"github.com/commercemesh/catalog-sync/internal/app/workflow"
	"github.com/commercemesh/catalog-sync/internal/domain"
	"github.com/commercemesh/catalog-sync/internal/platform/telemetry"
	"github.com/commercemesh/catalog-sync/internal/ports"
)

// Compile-time check that SyncService implements ports.CatalogSync.
var _ ports.CatalogSync = (*SyncService)(nil)

// SyncService implements the three entity synchronization workflows. Each
// run reads a strict projection from the commerce backend, maps linked
// entities to content documents, and hands the batch to the compensatable
// upsert step under the workflow runner.
type SyncService struct {
	commerce ports.CommerceQuery
	content  ports.ContentStore
	runner   *workflow.Runner
	logger   *slog.Logger
	metrics  *telemetry.Metrics
}

// NewSyncService creates a SyncService. metrics may be nil, in which case
// metric recording is skipped.
func NewSyncService(
	commerce ports.CommerceQuery,
	content ports.ContentStore,
	runner *workflow.Runner,
	logger *slog.Logger,
	metrics *telemetry.Metrics,
) *SyncService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SyncService{
		commerce: commerce,
		content:  content,
		runner:   runner,
		logger:   logger,
		metrics:  metrics,
	}
}

// SyncCategories runs the category workflow for the given commerce ids.
func (s *SyncService) SyncCategories(ctx context.Context, ids []string) ([]domain.Document, error) {
	return s.run(ctx, "sync-categories", domain.CollectionCategories, len(ids),
		func(ctx context.Context) ([]domain.Document, error) {
			categories, err := s.commerce.Categories(ctx, ids)
			if err != nil {
				return nil, err
			}
			return mapCategories(categories), nil
		})
}

// SyncCollections runs the collection workflow for the given commerce ids.
func (s *SyncService) SyncCollections(ctx context.Context, ids []string) ([]domain.Document, error) {
	return s.run(ctx, "sync-collections", domain.CollectionCollections, len(ids),
		func(ctx context.Context) ([]domain.Document, error) {
			collections, err := s.commerce.Collections(ctx, ids)
			if err != nil {
				return nil, err
			}
			return mapCollections(collections), nil
		})
}

// SyncProducts runs the product workflow for the given commerce ids.
func (s *SyncService) SyncProducts(ctx context.Context, ids []string) ([]domain.Document, error) {
	return s.run(ctx, "sync-products", domain.CollectionProducts, len(ids),
		func(ctx context.Context) ([]domain.Document, error) {
			products, err := s.commerce.Products(ctx, ids)
			if err != nil {
				return nil, err
			}
			return mapProducts(products), nil
		})
}

// run executes one workflow: a fetch-and-map step followed by the
// conditional upsert step. Entities without a linked content document are
// filtered out by the mapping; an all-filtered batch skips the upsert
// entirely and succeeds with an empty result.
func (s *SyncService) run(
	ctx context.Context,
	name, collection string,
	requested int,
	project func(ctx context.Context) ([]domain.Document, error),
) ([]domain.Document, error) {
	var items []domain.Document

	up := newUpsertStep(s.content, collection, s.logger)

	fetch := workflow.Step{
		Name: "fetch-projection",
		Run: func(ctx context.Context) error {
			mapped, err := project(ctx)
			if err != nil {
				return err
			}
			items = mapped
			return nil
		},
	}

	upsert := workflow.Step{
		Name: "update-content-items",
		Run: func(ctx context.Context) error {
			if len(items) == 0 {
				s.logger.DebugContext(ctx, "no linked content items, skipping upsert",
					slog.String("workflow", name),
				)
				return nil
			}
			up.items = items
			return up.run(ctx)
		},
		Compensate: up.compensate,
	}

	if err := s.runner.Execute(ctx, name, fetch, upsert); err != nil {
		s.recordRun(ctx, collection, "error", 0)
		return nil, err
	}

	s.logger.InfoContext(ctx, "sync workflow completed",
		slog.String("workflow", name),
		slog.Int("requested", requested),
		slog.Int("synced", len(items)),
		slog.Int("skipped", requested-len(items)),
	)
	s.recordRun(ctx, collection, "success", len(items))

	if up.updated == nil {
		return []domain.Document{}, nil
	}
	return up.updated, nil
}

func (s *SyncService) recordRun(ctx context.Context, entity, result string, items int) {
	if s.metrics == nil {
		return
	}
	attrs := metric.WithAttributes(
		telemetry.AttrEntity.String(entity),
		telemetry.AttrResult.String(result),
	)
	s.metrics.SyncRunTotal.Add(ctx, 1, attrs)
	if items > 0 {
		s.metrics.SyncItemTotal.Add(ctx, int64(items), attrs)
	}
}
