package domain

import (
	"fmt"
	"regexp"
)

// handlePattern admits lowercase URL-friendly handles: letters, digits, and
// single hyphens between segments.
var handlePattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ValidateHandle checks the URL-handle format rule applied to every content
// collection. Returns a field-level ValidationError on mismatch.
func ValidateHandle(handle string) error {
	if !handlePattern.MatchString(handle) {
		return &ValidationError{Fields: map[string]string{
			"handle": "Handle must be URL-friendly (lowercase letters, numbers, and hyphens only)",
		}}
	}
	return nil
}

// CheckFeatured enforces the single-featured-collection invariant: at most
// one collection document may carry featured=true. The existing slice is the
// current state of the collections content collection; id is the document
// being written. Re-featuring the already-featured document is allowed.
//
// The read-then-check sequence is not guarded against concurrent writers;
// two racing featured writes can both pass (accepted TOCTOU gap).
func CheckFeatured(existing []Document, id string) error {
	for _, doc := range existing {
		featured, _ := doc.Fields["featured"].(bool)
		if !featured || doc.ID == id {
			continue
		}
		title, _ := doc.Fields["title"].(string)
		return &ValidationError{Fields: map[string]string{
			"featured": fmt.Sprintf(
				"Only one collection can be featured at a time. The current featured collection is %s", title),
		}}
	}
	return nil
}
