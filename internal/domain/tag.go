package domain

// Tag is a semantic cache-invalidation category. Tags decouple "what
// changed" from the physical cache keys each backend derives from them.
type Tag string

// The closed set of valid tags. Anything else arriving on the wire is
// silently dropped.
const (
	TagProducts    Tag = "products"
	TagCollections Tag = "collections"
	TagCategories  Tag = "categories"
)

// ValidTags lists every recognized tag, in canonical order.
var ValidTags = []Tag{TagCollections, TagCategories, TagProducts}

// ValidTagNames returns the recognized tag names as strings, for error
// responses that echo the accepted vocabulary.
func ValidTagNames() []string {
	names := make([]string, len(ValidTags))
	for i, t := range ValidTags {
		names[i] = string(t)
	}
	return names
}

// tagPatterns maps each tag to the commerce query-cache key globs it covers.
// The second pattern in each pair targets cached content-backend lookups.
var tagPatterns = map[Tag][]string{
	TagProducts:    {"*product*", "*payload_product*"},
	TagCollections: {"*collection*", "*payload_collection*"},
	TagCategories:  {"*category*", "*payload_category*"},
}

// FallbackPatterns is purged when an invalidation request carries no valid
// tags: a broad sweep over all three entity kinds.
var FallbackPatterns = []string{"*product*", "*collection*", "*category*"}

// Valid reports whether t is a member of the known tag set.
func (t Tag) Valid() bool {
	_, ok := tagPatterns[t]
	return ok
}

// Patterns returns the cache-key glob patterns for t, or nil for an
// unknown tag. The returned slice must not be mutated.
func (t Tag) Patterns() []string {
	return tagPatterns[t]
}

// ParseTags filters raw strings down to valid tags, deduplicated in
// first-seen order. Used by the storefront revalidation endpoint, which
// dedupes; the cache gateway intentionally does not (see CollectPatterns).
func ParseTags(raw []string) []Tag {
	seen := make(map[Tag]bool, len(raw))
	tags := make([]Tag, 0, len(raw))
	for _, r := range raw {
		t := Tag(r)
		if t.Valid() && !seen[t] {
			seen[t] = true
			tags = append(tags, t)
		}
	}
	return tags
}

// CollectPatterns resolves raw tag strings to the concatenated pattern
// lists of every valid tag, preserving input order and repeats. Invalid
// tags contribute nothing.
func CollectPatterns(raw []string) []string {
	var patterns []string
	for _, r := range raw {
		if t := Tag(r); t.Valid() {
			patterns = append(patterns, t.Patterns()...)
		}
	}
	return patterns
}

// TagForCollection maps a content collection name to its invalidation tag.
// The three content collections share their names with the tag set.
func TagForCollection(collection string) (Tag, bool) {
	t := Tag(collection)
	return t, t.Valid()
}
