// Package fetch is the only place network I/O happens. The Gateway wraps
// outbound calls with a per-endpoint timeout policy and folds results
// through the shared TTL cache keyed by the full request URL.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/faciam-dev/widgetboard/internal/cache"
	"github.com/faciam-dev/widgetboard/internal/config"
	"github.com/faciam-dev/widgetboard/pkg/metrics"
)

// ErrTimeout is returned when the upstream did not answer inside the
// endpoint's budget or the transport failed.
var ErrTimeout = errors.New("fetch: upstream timeout")

// UpstreamError is a non-2xx response or a body that is not valid JSON.
type UpstreamError struct {
	URL    string
	Status int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("fetch: upstream error %d from %s", e.Status, e.URL)
}

// Gateway performs outbound JSON fetches for widget behaviors.
type Gateway struct {
	http  *resty.Client
	cache cache.Cache
	cfg   *config.Store
}

// New creates a Gateway using the given cache and runtime config.
func New(c cache.Cache, cfg *config.Store) *Gateway {
	return &Gateway{http: resty.New(), cache: c, cfg: cfg}
}

// budget picks the timeout for a URL: the distinguished slow hosts get the
// long budget, everything else the default.
func (g *Gateway) budget(rawURL string) time.Duration {
	rt := g.cfg.Current()
	u, err := url.Parse(rawURL)
	if err != nil {
		return rt.DefaultTimeout.D()
	}
	for _, h := range rt.SlowHosts {
		if u.Hostname() == h {
			return rt.SlowTimeout.D()
		}
	}
	return rt.DefaultTimeout.D()
}

// JSON fetches url through the cache and unmarshals the body into out.
func (g *Gateway) JSON(ctx context.Context, rawURL string, out any) error {
	body, err := g.cache.GetOrFetch(ctx, rawURL, func(ctx context.Context) ([]byte, error) {
		return g.do(ctx, rawURL)
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

// JSONUncached fetches url directly, for widgets whose semantics require a
// fresh result on every call (randomizers, card draws).
func (g *Gateway) JSONUncached(ctx context.Context, rawURL string, out any) error {
	body, err := g.do(ctx, rawURL)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

func (g *Gateway) do(ctx context.Context, rawURL string) ([]byte, error) {
	host := hostOf(rawURL)

	tctx, cancel := context.WithTimeout(ctx, g.budget(rawURL))
	defer cancel()

	resp, err := g.http.R().SetContext(tctx).Get(rawURL)
	if err != nil {
		metrics.UpstreamFetches.WithLabelValues(host, "timeout").Inc()
		return nil, fmt.Errorf("%w: %s: %v", ErrTimeout, rawURL, err)
	}
	if resp.IsError() {
		metrics.UpstreamFetches.WithLabelValues(host, "error").Inc()
		return nil, &UpstreamError{URL: rawURL, Status: resp.StatusCode()}
	}
	body := resp.Body()
	if !json.Valid(body) {
		metrics.UpstreamFetches.WithLabelValues(host, "error").Inc()
		return nil, &UpstreamError{URL: rawURL, Status: resp.StatusCode()}
	}
	metrics.UpstreamFetches.WithLabelValues(host, "ok").Inc()
	return body, nil
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "invalid"
	}
	return u.Hostname()
}
