// Package source provides the snapshot delivery adapters around the
// catalog store: a product-service fetcher for pull-based full snapshots
// and a Redis warm cache so restarts can serve results before the first
// live snapshot arrives.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vistaluz/catalog-search/internal/domain"
	"github.com/vistaluz/catalog-search/pkg/httpclient"
)

// exportPath is the product-service endpoint that returns the complete
// catalog in one response.
const exportPath = "/api/v1/products/export"

// maxExportBytes caps the export response size (the catalog is hundreds
// to low thousands of records; 32 MB is generous headroom).
const maxExportBytes = 32 << 20

// Fetcher pulls complete catalog snapshots from the product service. The
// underlying client retries transient failures and a circuit breaker
// sheds load when the product service is down; the catalog simply keeps
// serving the previous snapshot in that case.
type Fetcher struct {
	client  *httpclient.CircuitBreakerClient
	baseURL string
	logger  *slog.Logger
}

// NewFetcher creates a fetcher for the product service at baseURL.
func NewFetcher(baseURL string, logger *slog.Logger) *Fetcher {
	client := httpclient.New(httpclient.DefaultConfig())
	breaker := httpclient.NewCircuitBreakerClient(
		client,
		httpclient.DefaultCircuitBreakerConfig("product-service"),
		logger,
	)

	return &Fetcher{
		client:  breaker,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// exportResponse mirrors the product service's export envelope.
type exportResponse struct {
	Data struct {
		Products []domain.Product `json:"products"`
	} `json:"data"`
}

// FetchAll retrieves the full current product collection.
func (f *Fetcher) FetchAll(ctx context.Context) ([]domain.Product, error) {
	url := f.baseURL + exportPath

	resp, err := f.client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog export: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, "product-service")
	}

	var export exportResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxExportBytes)).Decode(&export); err != nil {
		return nil, fmt.Errorf("decode catalog export: %w", err)
	}

	f.logger.DebugContext(ctx, "catalog export fetched",
		slog.Int("count", len(export.Data.Products)),
	)

	return export.Data.Products, nil
}
