package domain

import "maps"

// Content collection names, shared between the sync workflows, the content
// store, and the revalidation hooks.
const (
	CollectionProducts    = "products"
	CollectionCollections = "collections"
	CollectionCategories  = "categories"
)

// FieldCommerceID is the write-once field on every content document holding
// the originating commerce entity id. It is unique per collection and may
// only be written by the synchronization pipeline, never by an editor.
const FieldCommerceID = "medusa_id"

// Document is a content-side record: an id plus a flat field map. The sync
// pipeline treats content documents as schemaless — it writes the fields the
// entity mapping produces and restores whatever snapshot it captured.
type Document struct {
	ID     string
	Fields map[string]any
}

// Clone returns a deep-enough copy for snapshot purposes: the field map is
// copied, values are shared. Mapped payloads never alias nested state across
// documents, so sharing values is safe.
func (d Document) Clone() Document {
	return Document{ID: d.ID, Fields: maps.Clone(d.Fields)}
}

// CommerceID returns the document's commerce entity reference, or "" when
// the document is not linked.
func (d Document) CommerceID() string {
	if v, ok := d.Fields[FieldCommerceID].(string); ok {
		return v
	}
	return ""
}
