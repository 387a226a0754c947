package clients

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/commercemesh/catalog-sync/internal/domain"
	"github.com/commercemesh/catalog-sync/internal/platform/httpclient"
	"github.com/commercemesh/catalog-sync/internal/ports"
)

// Compile-time interface check.
var _ ports.ContentStore = (*ContentClient)(nil)

// ContentClient is the outbound adapter for the content backend's document
// REST API. Documents come back as raw field maps; the id field is lifted
// into [domain.Document.ID] and stripped from the field set.
type ContentClient struct {
	req *Requester
}

// NewContentClient creates a ContentClient that sends requests through the
// given [httpclient.Client]. The secret authenticates the privileged sync
// writer path against the content backend.
func NewContentClient(client *httpclient.Client, secret string, logger *slog.Logger) *ContentClient {
	var headers map[string]string
	if secret != "" {
		headers = map[string]string{"x-revalidate-secret": secret}
	}
	return &ContentClient{req: NewRequester(client, headers, logger)}
}

// Find returns the current state of the documents with the given ids.
// Missing ids are omitted per the [ports.ContentStore] contract.
func (c *ContentClient) Find(ctx context.Context, collection string, ids []string) ([]domain.Document, error) {
	if len(ids) == 0 {
		return []domain.Document{}, nil
	}

	v := url.Values{}
	v.Set("where[id][in]", strings.Join(ids, ","))
	v.Set("limit", strconv.Itoa(len(ids)))
	v.Set("depth", "0")

	var resp struct {
		Docs []map[string]any `json:"docs"`
	}
	path := fmt.Sprintf("/api/%s?%s", collection, v.Encode())
	if err := c.req.Get(ctx, path, &resp); err != nil {
		return nil, err
	}

	docs := make([]domain.Document, 0, len(resp.Docs))
	for _, raw := range resp.Docs {
		docs = append(docs, toDocument(raw))
	}
	return docs, nil
}

// Update applies the given fields to one document via PATCH. The
// is_from_medusa flag marks the write as coming from the sync pipeline so
// the content backend admits the commerce id field and skips its editor-side
// hooks firing back at us.
func (c *ContentClient) Update(ctx context.Context, collection, id string, fields map[string]any) (*domain.Document, error) {
	var resp struct {
		Doc map[string]any `json:"doc"`
	}
	path := fmt.Sprintf("/api/%s/%s?is_from_medusa=true", collection, url.PathEscape(id))
	if err := c.req.Do(ctx, http.MethodPatch, path, fields, &resp); err != nil {
		return nil, err
	}

	doc := toDocument(resp.Doc)
	return &doc, nil
}

// toDocument lifts the id out of a raw document map.
func toDocument(raw map[string]any) domain.Document {
	doc := domain.Document{Fields: make(map[string]any, len(raw))}
	for k, v := range raw {
		if k == "id" {
			doc.ID, _ = v.(string)
			continue
		}
		doc.Fields[k] = v
	}
	return doc
}
