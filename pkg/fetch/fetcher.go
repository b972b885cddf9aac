// Package fetch implements the orchestrator that tries enabled backends in
// randomized order, consults the image cache, downloads on a miss and
// aggregates failures into a terminal error.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/hyprland-community/wallfetch/config"
	"github.com/hyprland-community/wallfetch/pkg/backend"
	"github.com/hyprland-community/wallfetch/pkg/cache"
	"github.com/hyprland-community/wallfetch/util/log"
)

// DefaultTimeout bounds every request made through the shared HTTP session.
const DefaultTimeout = 30 * time.Second

// NoBackendAvailableError is returned when every candidate backend in the
// trial order failed. Tried lists the backends in the order they were tried;
// the last underlying failure is available via Unwrap.
type NoBackendAvailableError struct {
	Tried []string
	Err   error
}

func (e *NoBackendAvailableError) Error() string {
	return fmt.Sprintf("all backends failed, tried: %s", strings.Join(e.Tried, ", "))
}

func (e *NoBackendAvailableError) Unwrap() error {
	return e.Err
}

// Request describes one image fetch.
type Request struct {
	MinWidth  int
	MinHeight int
	Keywords  []string
	Backend   string // force a specific enabled backend; "" tries all
}

// Fetcher fetches random images from its enabled backends and caches the
// bytes on disk. Safe for concurrent use; concurrent misses for the same
// cache key share a single download.
type Fetcher struct {
	names    []string
	backends map[string]backend.Backend
	cache    *cache.ImageCache
	limiter  *rate.Limiter
	shuffle  func([]string)

	mu     sync.Mutex
	client *http.Client

	group singleflight.Group
}

// Option configures a Fetcher.
type Option func(*fetcherConfig)

type fetcherConfig struct {
	registry *backend.Registry
	limiter  *rate.Limiter
	shuffle  func([]string)
}

// WithRegistry uses a registry other than the process-wide default. Intended
// for tests injecting fake backends.
func WithRegistry(r *backend.Registry) Option {
	return func(c *fetcherConfig) { c.registry = r }
}

// WithRateLimit waits on l before every outbound backend trial.
func WithRateLimit(l *rate.Limiter) Option {
	return func(c *fetcherConfig) { c.limiter = l }
}

// WithShuffle replaces the uniform random trial-order shuffle. Intended for
// tests that need a deterministic order.
func WithShuffle(fn func([]string)) Option {
	return func(c *fetcherConfig) { c.shuffle = fn }
}

// New creates a Fetcher over the named backends, validated against the
// registry. nil names enables every registered backend. The enabled set must
// be non-empty.
func New(names []string, imageCache *cache.ImageCache, opts ...Option) (*Fetcher, error) {
	cfg := fetcherConfig{
		registry: backend.Default(),
		shuffle: func(s []string) {
			rand.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
		},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	available := cfg.registry.Names()
	if names == nil {
		names = available
	}

	backends := make(map[string]backend.Backend, len(names))
	var unknown []string
	for _, name := range names {
		b, err := cfg.registry.Get(name)
		if err != nil {
			unknown = append(unknown, name)
			continue
		}
		backends[name] = b
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("unknown backends: %s, available: %s",
			strings.Join(unknown, ", "), strings.Join(available, ", "))
	}
	if len(names) == 0 {
		return nil, errors.New("at least one backend must be enabled")
	}

	return &Fetcher{
		names:    append([]string(nil), names...),
		backends: backends,
		cache:    imageCache,
		limiter:  cfg.limiter,
		shuffle:  cfg.shuffle,
	}, nil
}

// Backends returns the enabled backend names.
func (f *Fetcher) Backends() []string {
	return append([]string(nil), f.names...)
}

// Cache returns the image cache backing this fetcher.
func (f *Fetcher) Cache() *cache.ImageCache {
	return f.cache
}

// session returns the shared HTTP client, creating it on first use or after
// a Close.
func (f *Fetcher) session() *http.Client {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.client == nil {
		f.client = &http.Client{
			Timeout: DefaultTimeout,
			Transport: &UserAgentTransport{
				RoundTripper: http.DefaultTransport,
				UserAgent:    config.UserAgent,
			},
		}
	}
	return f.client
}

// Close releases the HTTP session. Idempotent; a later GetImage recreates
// the session.
func (f *Fetcher) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.client != nil {
		f.client.CloseIdleConnections()
		f.client = nil
	}
}

// trialOrder selects the backends to try. A forced backend yields a single
// candidate and must be enabled; otherwise the full enabled set is shuffled
// for load distribution across sources.
func (f *Fetcher) trialOrder(forced string) ([]string, error) {
	if forced != "" {
		if _, ok := f.backends[forced]; !ok {
			return nil, fmt.Errorf("backend %q not enabled, enabled: %s", forced, strings.Join(f.names, ", "))
		}
		return []string{forced}, nil
	}
	order := append([]string(nil), f.names...)
	f.shuffle(order)
	return order, nil
}

// storeError marks a cache write failure, which aborts the whole call
// instead of moving on to the next backend.
type storeError struct {
	err error
}

func (e *storeError) Error() string { return e.err.Error() }
func (e *storeError) Unwrap() error { return e.err }

// GetImage fetches one image satisfying the request and returns the path of
// its cached file. Backends are tried sequentially; a backend or network
// failure moves on to the next candidate, and only full exhaustion surfaces
// as *NoBackendAvailableError.
func (f *Fetcher) GetImage(ctx context.Context, req Request) (string, error) {
	if req.MinWidth <= 0 {
		req.MinWidth = config.DefaultWidth
	}
	if req.MinHeight <= 0 {
		req.MinHeight = config.DefaultHeight
	}

	client := f.session()
	order, err := f.trialOrder(req.Backend)
	if err != nil {
		return "", err
	}

	tried := make([]string, 0, len(order))
	var lastErr error

	for _, name := range order {
		tried = append(tried, name)

		if f.limiter != nil {
			if err := f.limiter.Wait(ctx); err != nil {
				return "", err
			}
		}

		path, err := f.tryBackend(ctx, client, f.backends[name], req)
		if err != nil {
			var se *storeError
			if errors.As(err, &se) {
				return "", fmt.Errorf("caching image from %s: %w", name, se.err)
			}
			log.Printf("backend %s failed: %v", name, err)
			lastErr = err
			continue
		}
		return path, nil
	}

	return "", &NoBackendAvailableError{Tried: tried, Err: lastErr}
}

// tryBackend resolves metadata from one backend, serves the result from the
// cache when possible and downloads it otherwise.
func (f *Fetcher) tryBackend(ctx context.Context, client *http.Client, b backend.Backend, req Request) (string, error) {
	log.Debugf("trying backend: %s", b.Name())

	info, err := b.FetchImageInfo(ctx, client, backend.Request{
		MinWidth:  req.MinWidth,
		MinHeight: req.MinHeight,
		Keywords:  req.Keywords,
	})
	if err != nil {
		return "", err
	}

	// The key composition is fixed: two fetches resolving the same remote
	// image map to the same cache file no matter which backend trial
	// produced the metadata.
	cacheKey := fmt.Sprintf("%s:%s:%s", info.Source, info.ImageID, info.URL)

	if path, ok := f.cache.Get(cacheKey, info.Extension); ok {
		log.Debugf("cache hit: %s", path)
		return path, nil
	}

	// Concurrent misses for the same key share one download.
	v, err, _ := f.group.Do(cacheKey, func() (interface{}, error) {
		if path, ok := f.cache.Get(cacheKey, info.Extension); ok {
			return path, nil
		}
		data, err := f.download(ctx, client, info.URL)
		if err != nil {
			return nil, err
		}
		path, err := f.cache.Store(cacheKey, data, info.Extension)
		if err != nil {
			return nil, &storeError{err: err}
		}
		return path, nil
	})
	if err != nil {
		return "", err
	}

	path := v.(string)
	log.Printf("downloaded from %s: %s", b.Name(), path)
	return path, nil
}

// download fetches the raw image bytes.
func (f *Fetcher) download(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("downloading %s: HTTP %d", url, resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// Fetch is the scoped-use helper: it builds a Fetcher, performs one GetImage
// and guarantees the session is released on every exit path.
func Fetch(ctx context.Context, names []string, imageCache *cache.ImageCache, req Request, opts ...Option) (string, error) {
	f, err := New(names, imageCache, opts...)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return f.GetImage(ctx, req)
}
