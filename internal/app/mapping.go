package app

import (
	"time"

	"github.com/commercemesh/catalog-sync/internal/domain"
)

// The mapping layer is pure: it turns commerce projections into content
// documents keyed by the linked content id, dropping entities with no link.
// Field names follow the content schema; timestamps carry through as
// RFC 3339 strings.

func mapCategories(categories []domain.Category) []domain.Document {
	items := make([]domain.Document, 0, len(categories))
	for _, c := range categories {
		if c.ContentID == "" {
			continue
		}
		items = append(items, domain.Document{
			ID: c.ContentID,
			Fields: map[string]any{
				domain.FieldCommerceID: c.ID,
				"createdAt":            formatTime(c.CreatedAt),
				"updatedAt":            formatTime(c.UpdatedAt),
				"title":                c.Name,
				"handle":               c.Handle,
				"description":          c.Description,
				"is_active":            c.IsActive,
				"is_internal":          c.IsInternal,
				"rank":                 c.Rank,
			},
		})
	}
	return items
}

func mapCollections(collections []domain.Collection) []domain.Document {
	items := make([]domain.Document, 0, len(collections))
	for _, c := range collections {
		if c.ContentID == "" {
			continue
		}
		items = append(items, domain.Document{
			ID: c.ContentID,
			Fields: map[string]any{
				domain.FieldCommerceID: c.ID,
				"createdAt":            formatTime(c.CreatedAt),
				"updatedAt":            formatTime(c.UpdatedAt),
				"title":                c.Title,
				"handle":               c.Handle,
			},
		})
	}
	return items
}

func mapProducts(products []domain.Product) []domain.Document {
	items := make([]domain.Document, 0, len(products))
	for _, p := range products {
		if p.ContentID == "" {
			continue
		}
		fields := map[string]any{
			domain.FieldCommerceID: p.ID,
			"createdAt":            formatTime(p.CreatedAt),
			"updatedAt":            formatTime(p.UpdatedAt),
			"title":                p.Title,
			"handle":               p.Handle,
			// Description defaults to empty when absent upstream.
			"description": stringOrEmpty(p.Description),
			"options":     mapOptions(p.Options),
			"variants":    mapVariants(p.Variants),
		}
		// Other optional fields pass through only when present.
		if p.Subtitle != nil {
			fields["subtitle"] = *p.Subtitle
		}
		items = append(items, domain.Document{ID: p.ContentID, Fields: fields})
	}
	return items
}

func mapOptions(options []domain.ProductOption) []map[string]any {
	out := make([]map[string]any, len(options))
	for i, o := range options {
		out[i] = map[string]any{
			"title":                o.Title,
			domain.FieldCommerceID: o.ID,
		}
	}
	return out
}

func mapVariants(variants []domain.ProductVariant) []map[string]any {
	out := make([]map[string]any, len(variants))
	for i, v := range variants {
		values := make([]map[string]any, len(v.Options))
		for j, ov := range v.Options {
			values[j] = map[string]any{
				domain.FieldCommerceID: ov.ID,
				"medusa_option_id":     ov.OptionID,
				"value":                ov.Value,
			}
		}
		out[i] = map[string]any{
			"title":                v.Title,
			domain.FieldCommerceID: v.ID,
			"option_values":        values,
		}
	}
	return out
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
