// Package upstream implements port.LedgerStore and port.PasswordChecker
// against the remote ledger REST API. All persistence, search and
// balance computation live on the other side of this client.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/khata-app/khata-bff/internal/domain"
	"github.com/khata-app/khata-bff/internal/infra/observability"
	"github.com/khata-app/khata-bff/internal/infra/resilience"
)

var tracer = otel.Tracer("upstream")

// Client wraps HTTP calls to the ledger API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cb         *gobreaker.CircuitBreaker
	bulkhead   *resilience.Bulkhead
	cfg        resilience.Config
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewClient creates a ledger API client. baseURL includes the API
// prefix, e.g. http://localhost:5000/api.
func NewClient(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker, cfg resilience.Config, metrics *observability.Metrics, logger *zap.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		cb:         cb,
		bulkhead:   resilience.NewBulkhead(cfg.MaxConcurrency),
		cfg:        cfg,
		metrics:    metrics,
		logger:     logger,
	}
}

// notFound is returned by doRequest on 404 so callers can attach the
// resource name and id.
var errNotFound = fmt.Errorf("upstream: not found")

// doRequest executes one HTTP exchange against the ledger API and
// decodes the JSON response into out (skipped when out is nil).
func (c *Client) doRequest(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	url := fmt.Sprintf("%s/%s", c.baseURL, path)
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("upstream: request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		c.logger.Warn("upstream: non-2xx response",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(raw)),
		)
		return fmt.Errorf("ledger API returned status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// call wraps doRequest with the bulkhead, circuit breaker and retry
// policy. Transport failures come back as *domain.ErrRemote. A 404 is
// a definitive answer rather than an outage, so it is never retried,
// does not count against the breaker, and surfaces as the
// *domain.ErrNotFound built by mkNotFound.
func (c *Client) call(ctx context.Context, operation, method, path string, payload, out any, mkNotFound func() *domain.ErrNotFound) error {
	if err := c.bulkhead.Acquire(ctx); err != nil {
		return &domain.ErrRemote{Operation: operation, Err: err}
	}
	defer c.bulkhead.Release()

	var notFound *domain.ErrNotFound
	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			err := c.doRequest(ctx, method, path, payload, out)
			if err == errNotFound {
				if mkNotFound != nil {
					notFound = mkNotFound()
				}
				return nil
			}
			return err
		})
	})
	if notFound != nil {
		return notFound
	}
	if err != nil {
		// Cancelled callers (a superseded search, a closed client
		// connection) are not upstream failures.
		if !errors.Is(err, context.Canceled) {
			c.metrics.IncrUpstreamError(operation)
		}
		return &domain.ErrRemote{Operation: operation, Err: err}
	}
	return nil
}
