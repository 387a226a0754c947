package clients

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/commercemesh/catalog-sync/internal/domain"
	"github.com/commercemesh/catalog-sync/internal/platform/httpclient"
	"github.com/commercemesh/catalog-sync/internal/ports"
)

// Compile-time interface check.
var _ ports.CommerceQuery = (*CommerceClient)(nil)

// Projection field lists requested from the commerce backend. The payload_*
// fields expand the module link to the content document, which is how the
// sync workflows learn the content-side id.
var (
	categoryFields = []string{
		"id", "name", "handle", "description", "is_active", "is_internal",
		"rank", "created_at", "updated_at", "payload_category.*",
	}
	collectionFields = []string{
		"id", "title", "handle", "created_at", "updated_at",
		"payload_collection.*",
	}
	productFields = []string{
		"id", "title", "handle", "subtitle", "description", "created_at",
		"updated_at", "options.*", "variants.*", "variants.options.*",
		"payload_product.*",
	}
)

// CommerceClient is the outbound adapter for the commerce backend's admin
// query API. It implements [ports.CommerceQuery] in strict mode: every
// requested id must exist, or the call fails with [domain.ErrNotFound]
// naming the first missing id.
type CommerceClient struct {
	req *Requester
}

// NewCommerceClient creates a CommerceClient that sends requests through the
// given [httpclient.Client]. The client's base URL should point at the
// commerce backend root.
func NewCommerceClient(client *httpclient.Client, logger *slog.Logger) *CommerceClient {
	return &CommerceClient{req: NewRequester(client, nil, logger)}
}

// linkedDoc is the expanded content-document link on a commerce entity.
type linkedDoc struct {
	ID string `json:"id"`
}

func (l *linkedDoc) id() string {
	if l == nil {
		return ""
	}
	return l.ID
}

type categoryDTO struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Handle          string     `json:"handle"`
	Description     string     `json:"description"`
	IsActive        bool       `json:"is_active"`
	IsInternal      bool       `json:"is_internal"`
	Rank            int        `json:"rank"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	PayloadCategory *linkedDoc `json:"payload_category"`
}

type collectionDTO struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Handle            string     `json:"handle"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	PayloadCollection *linkedDoc `json:"payload_collection"`
}

type productOptionDTO struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type variantOptionDTO struct {
	ID     string `json:"id"`
	Value  string `json:"value"`
	Option *struct {
		ID string `json:"id"`
	} `json:"option"`
}

type productVariantDTO struct {
	ID      string             `json:"id"`
	Title   string             `json:"title"`
	Options []variantOptionDTO `json:"options"`
}

type productDTO struct {
	ID             string              `json:"id"`
	Title          string              `json:"title"`
	Handle         string              `json:"handle"`
	Subtitle       *string             `json:"subtitle"`
	Description    *string             `json:"description"`
	Options        []productOptionDTO  `json:"options"`
	Variants       []productVariantDTO `json:"variants"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
	PayloadProduct *linkedDoc          `json:"payload_product"`
}

// Categories fetches category projections from GET /admin/product-categories.
func (c *CommerceClient) Categories(ctx context.Context, ids []string) ([]domain.Category, error) {
	var resp struct {
		ProductCategories []categoryDTO `json:"product_categories"`
	}
	path := "/admin/product-categories" + projectionQuery(ids, categoryFields)
	if err := c.req.Get(ctx, path, &resp); err != nil {
		return nil, err
	}

	if err := requireAll(ids, "category", len(resp.ProductCategories), func(i int) string {
		return resp.ProductCategories[i].ID
	}); err != nil {
		return nil, err
	}

	categories := make([]domain.Category, len(resp.ProductCategories))
	for i, d := range resp.ProductCategories {
		categories[i] = domain.Category{
			ID:          d.ID,
			Name:        d.Name,
			Handle:      d.Handle,
			Description: d.Description,
			IsActive:    d.IsActive,
			IsInternal:  d.IsInternal,
			Rank:        d.Rank,
			CreatedAt:   d.CreatedAt,
			UpdatedAt:   d.UpdatedAt,
			ContentID:   d.PayloadCategory.id(),
		}
	}
	return categories, nil
}

// Collections fetches collection projections from GET /admin/collections.
func (c *CommerceClient) Collections(ctx context.Context, ids []string) ([]domain.Collection, error) {
	var resp struct {
		Collections []collectionDTO `json:"collections"`
	}
	path := "/admin/collections" + projectionQuery(ids, collectionFields)
	if err := c.req.Get(ctx, path, &resp); err != nil {
		return nil, err
	}

	if err := requireAll(ids, "collection", len(resp.Collections), func(i int) string {
		return resp.Collections[i].ID
	}); err != nil {
		return nil, err
	}

	collections := make([]domain.Collection, len(resp.Collections))
	for i, d := range resp.Collections {
		collections[i] = domain.Collection{
			ID:        d.ID,
			Title:     d.Title,
			Handle:    d.Handle,
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
			ContentID: d.PayloadCollection.id(),
		}
	}
	return collections, nil
}

// Products fetches product projections from GET /admin/products, including
// option and variant structure.
func (c *CommerceClient) Products(ctx context.Context, ids []string) ([]domain.Product, error) {
	var resp struct {
		Products []productDTO `json:"products"`
	}
	path := "/admin/products" + projectionQuery(ids, productFields)
	if err := c.req.Get(ctx, path, &resp); err != nil {
		return nil, err
	}

	if err := requireAll(ids, "product", len(resp.Products), func(i int) string {
		return resp.Products[i].ID
	}); err != nil {
		return nil, err
	}

	products := make([]domain.Product, len(resp.Products))
	for i, d := range resp.Products {
		products[i] = toDomainProduct(d)
	}
	return products, nil
}

func toDomainProduct(d productDTO) domain.Product {
	options := make([]domain.ProductOption, len(d.Options))
	for i, o := range d.Options {
		options[i] = domain.ProductOption{ID: o.ID, Title: o.Title}
	}

	variants := make([]domain.ProductVariant, len(d.Variants))
	for i, v := range d.Variants {
		values := make([]domain.VariantOptionValue, len(v.Options))
		for j, ov := range v.Options {
			value := domain.VariantOptionValue{ID: ov.ID, Value: ov.Value}
			if ov.Option != nil {
				value.OptionID = ov.Option.ID
			}
			values[j] = value
		}
		variants[i] = domain.ProductVariant{ID: v.ID, Title: v.Title, Options: values}
	}

	return domain.Product{
		ID:          d.ID,
		Title:       d.Title,
		Handle:      d.Handle,
		Subtitle:    d.Subtitle,
		Description: d.Description,
		Options:     options,
		Variants:    variants,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
		ContentID:   d.PayloadProduct.id(),
	}
}

// projectionQuery builds the id filter plus field projection query string.
func projectionQuery(ids, fields []string) string {
	v := url.Values{}
	for _, id := range ids {
		v.Add("id[]", id)
	}
	v.Set("fields", strings.Join(fields, ","))
	v.Set("limit", strconv.Itoa(len(ids)))
	return "?" + v.Encode()
}

// requireAll enforces strict fetch semantics: every requested id must appear
// in the response, or the whole call fails naming the first missing id.
func requireAll(ids []string, entity string, n int, idAt func(int) string) error {
	returned := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		returned[idAt(i)] = true
	}
	for _, id := range ids {
		if !returned[id] {
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
		}
	}
	return nil
}
