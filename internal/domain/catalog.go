package domain

import "time"

// Category is the commerce backend's product-category projection: the fixed
// field set the category sync workflow reads. ContentID carries the linked
// content document id and is empty for unlinked categories.
type Category struct {
	ID          string
	Name        string
	Handle      string
	Description string
	IsActive    bool
	IsInternal  bool
	Rank        int
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ContentID   string
}

// Collection is the commerce backend's collection projection.
type Collection struct {
	ID        string
	Title     string
	Handle    string
	CreatedAt time.Time
	UpdatedAt time.Time
	ContentID string
}

// Product is the commerce backend's product projection, including option and
// variant structure. Subtitle and Description are nil when absent upstream;
// the mapping layer decides per-field defaulting.
type Product struct {
	ID          string
	Title       string
	Handle      string
	Subtitle    *string
	Description *string
	Options     []ProductOption
	Variants    []ProductVariant
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ContentID   string
}

// ProductOption is a product-level option definition (e.g. "Size").
type ProductOption struct {
	ID    string
	Title string
}

// ProductVariant is a purchasable variant with its selected option values.
type ProductVariant struct {
	ID      string
	Title   string
	Options []VariantOptionValue
}

// VariantOptionValue is one selected value of a product option, keyed by
// both the value id and its parent option id.
type VariantOptionValue struct {
	ID       string
	OptionID string
	Value    string
}
