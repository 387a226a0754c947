// Package app provides the application services of the catalog sync
// pipeline: the entity synchronization workflows with their compensatable
// content upsert step, the tag-based cache invalidation gateway, and the
// storefront revalidation dispatcher. Services orchestrate through port
// interfaces and contain no transport code.
package app
