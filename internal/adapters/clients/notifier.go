package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/commercemesh/catalog-sync/internal/domain"
	"github.com/commercemesh/catalog-sync/internal/platform/httpclient"
	"github.com/commercemesh/catalog-sync/internal/ports"
)

// Compile-time interface check.
var _ ports.Notifier = (*RevalidationNotifier)(nil)

// RevalidationNotifier delivers tag lists to downstream revalidation
// endpoints. Unlike the other clients it takes the full target URL per call:
// the dispatcher owns which targets exist.
type RevalidationNotifier struct {
	client *httpclient.Client
	secret string
	logger *slog.Logger
}

// NewRevalidationNotifier creates a RevalidationNotifier authenticating with
// the given shared secret.
func NewRevalidationNotifier(client *httpclient.Client, secret string, logger *slog.Logger) *RevalidationNotifier {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &RevalidationNotifier{client: client, secret: secret, logger: logger}
}

// PostTags sends a single POST with the tag list to the given URL.
func (n *RevalidationNotifier) PostTags(ctx context.Context, targetURL string, tags []domain.Tag) error {
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = string(t)
	}

	body, err := json.Marshal(map[string]any{"tags": names})
	if err != nil {
		return fmt.Errorf("marshaling tag payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, targetURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating notification request for %s: %w", targetURL, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-revalidate-secret", n.secret)

	resp, err := n.client.Do(ctx, req)
	if err != nil {
		if resp != nil {
			defer func() {
				if cerr := resp.Body.Close(); cerr != nil {
					n.logger.WarnContext(ctx, "failed to close response body",
						slog.String("error", cerr.Error()),
					)
				}
			}()
		}
		return fmt.Errorf("POST %s: %w", targetURL, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			n.logger.WarnContext(ctx, "failed to close response body",
				slog.String("error", cerr.Error()),
			)
		}
	}()

	if !is2xx(resp.StatusCode) {
		return TranslateHTTPError(resp)
	}
	return nil
}
