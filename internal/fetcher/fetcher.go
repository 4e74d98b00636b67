// Package fetcher retrieves catalog snapshots from monitored storefronts.
package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/TheAndersMadsen/shopify-monitor/internal/models"
)

// catalogPath is the public products feed; limit=250 is the maximum page
// size the feed serves.
const catalogPath = "/products.json?limit=250"

// requestTimeout bounds one storefront request so a hung endpoint cannot
// stall the cycle indefinitely.
const requestTimeout = 15 * time.Second

// catalogResponse mirrors the feed body: {"products": [...]}.
type catalogResponse struct {
	Products []models.Product `json:"products"`
}

type Fetcher struct {
	log    *slog.Logger
	client *http.Client
}

func NewFetcher(log *slog.Logger) *Fetcher {
	return &Fetcher{log: log, client: &http.Client{Timeout: requestTimeout}}
}

// Products returns the sequence of products currently published by the
// storefront at baseURL, in feed order. Any transport, status or decode
// failure is returned as an error; the caller decides that a failed site
// simply contributes zero products to the cycle.
func (f *Fetcher) Products(ctx context.Context, baseURL, userAgent string) ([]models.Product, error) {
	reqURL, err := url.Parse(baseURL + catalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse storefront URL %s: %w", baseURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create new request %s: %w", reqURL.String(), err)
	}

	req.Header.Add("User-Agent", userAgent)

	f.log.DebugContext(ctx, "Send request", "method", req.Method, "URL", req.URL)

	res, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to request %s: %w", baseURL, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status code error: [%d] %s", res.StatusCode, res.Status)
	}

	var catalog catalogResponse
	if err = json.NewDecoder(res.Body).Decode(&catalog); err != nil {
		return nil, fmt.Errorf("failed to decode catalog body from %s: %w", baseURL, err)
	}

	f.log.DebugContext(ctx, "Successfully fetched catalog", "site", baseURL, "count", len(catalog.Products))

	return catalog.Products, nil
}
