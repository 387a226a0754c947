// Package domain holds the core entities and invariants of the catalog
// synchronization pipeline: commerce-side entity projections, content-side
// documents, semantic invalidation tags, and the error taxonomy shared
// across layers. It has no dependencies on other internal packages.
package domain
