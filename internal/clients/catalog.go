package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bookshelf/catalog-api/internal/config"
	"github.com/bookshelf/catalog-api/internal/metrics"
	"github.com/bookshelf/catalog-api/internal/middleware"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
)

const (
	catalogService = "catalog-upstream"
	maxBodyBytes   = 10 << 20
)

// CatalogFetcher returns the full book list from the remote catalog.
type CatalogFetcher interface {
	FetchBooks(ctx context.Context) (json.RawMessage, error)
}

// CatalogClient handles communication with the remote catalog service
type CatalogClient struct {
	url        string
	httpClient *http.Client
	breaker    *CircuitBreaker
	logger     *logrus.Logger
}

// NewCatalogClient creates a new catalog client
func NewCatalogClient(cfg *config.CatalogConfig, logger *logrus.Logger) *CatalogClient {
	httpClient := &http.Client{
		Timeout: cfg.UpstreamTimeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxConnsPerHost:     10,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	return &CatalogClient{
		url:        cfg.UpstreamURL,
		httpClient: httpClient,
		breaker:    NewCircuitBreaker(catalogService, cfg.BreakerFailures, cfg.BreakerReset, logger),
		logger:     logger,
	}
}

// Breaker exposes the client's circuit breaker for health reporting.
func (c *CatalogClient) Breaker() *CircuitBreaker {
	return c.breaker
}

// FetchBooks retrieves the upstream book list as raw JSON.
func (c *CatalogClient) FetchBooks(ctx context.Context) (json.RawMessage, error) {
	ctx, span := middleware.StartSpan(ctx, "catalog.FetchBooks")
	defer span.End()
	span.SetAttributes(attribute.String("http.url", c.url))

	var body json.RawMessage
	err := c.breaker.Execute(func() error {
		var err error
		body, err = c.doRequest(ctx)
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, ErrCircuitOpen) {
			c.logger.WithField("url", c.url).Warn("Catalog upstream skipped, circuit open")
		}
		return nil, err
	}

	return body, nil
}

func (c *CatalogClient) doRequest(ctx context.Context) (json.RawMessage, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordBackendCall(catalogService, http.MethodGet, 0, time.Since(start))
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	metrics.RecordBackendCall(catalogService, http.MethodGet, resp.StatusCode, time.Since(start))

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}

	if !json.Valid(respBody) {
		return nil, fmt.Errorf("upstream returned invalid JSON")
	}

	c.logger.WithFields(logrus.Fields{
		"url":         c.url,
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("Fetched catalog from upstream")

	return respBody, nil
}
