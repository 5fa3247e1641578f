package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

// ErrUpstream wraps every failure to obtain a usable inventory feed.
var ErrUpstream = errors.New("inventory upstream unavailable")

var tracer = otel.Tracer("github.com/sozercan/dealer-assistant/internal/inventory")

// HTTPSource reads the whole inventory from a JSON endpoint. No query
// parameters are sent; filtering happens locally.
type HTTPSource struct {
	url     string
	client  *http.Client
	limiter *rate.Limiter
}

type HTTPSourceOption func(*HTTPSource)

// WithHTTPClient replaces the default instrumented client.
func WithHTTPClient(c *http.Client) HTTPSourceOption {
	return func(s *HTTPSource) {
		s.client = c
	}
}

// WithRateLimit throttles upstream fetches. A non-positive rps disables it.
func WithRateLimit(rps float64, burst int) HTTPSourceOption {
	return func(s *HTTPSource) {
		if rps <= 0 {
			s.limiter = nil
			return
		}
		if burst <= 0 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func NewHTTPSource(url string, timeout time.Duration, opts ...HTTPSourceOption) (*HTTPSource, error) {
	slog.Info("Creating inventory source", "url", url)
	if url == "" {
		return nil, fmt.Errorf("inventory URL cannot be empty")
	}

	s := &HTTPSource{
		url: url,
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]Vehicle, error) {
	ctx, span := tracer.Start(ctx, "inventory.fetch",
		trace.WithAttributes(attribute.String("inventory.url", s.url)))
	defer span.End()

	cars, err := s.fetch(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("inventory.count", len(cars)))
	return cars, nil
}

func (s *HTTPSource) fetch(ctx context.Context) ([]Vehicle, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limiter: %v", ErrUpstream, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUpstream, resp.StatusCode)
	}

	var records []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: decode inventory: %v", ErrUpstream, err)
	}

	// A malformed record costs only itself.
	cars := make([]Vehicle, 0, len(records))
	for i, raw := range records {
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			continue
		}
		var v Vehicle
		if err := json.Unmarshal(raw, &v); err != nil {
			slog.Warn("Skipping malformed inventory record", "index", i, "error", err)
			continue
		}
		cars = append(cars, v)
	}
	return cars, nil
}
