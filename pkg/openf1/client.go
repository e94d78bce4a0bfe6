// Package openf1 talks to the public OpenF1 REST API. Every response is
// cached by request URL in a cache.Store with a TTL chosen by the caller.
package openf1

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"f1dashboard/pkg/cache"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	ResourceSessions     = "sessions"
	ResourceMeetings     = "meetings"
	ResourceDrivers      = "drivers"
	ResourceLaps         = "laps"
	ResourceStints       = "stints"
	ResourceWeather      = "weather"
	ResourceResults      = "session_result"
	ResourceStartingGrid = "starting_grid"
	ResourcePit          = "pit"
	ResourcePosition     = "position"
	ResourceRaceControl  = "race_control"
)

// Resources lists the upstream collections that may be proxied.
var Resources = map[string]bool{
	ResourceSessions:     true,
	ResourceMeetings:     true,
	ResourceDrivers:      true,
	ResourceLaps:         true,
	ResourceStints:       true,
	ResourceWeather:      true,
	ResourceResults:      true,
	ResourceStartingGrid: true,
	ResourcePit:          true,
	ResourcePosition:     true,
	ResourceRaceControl:  true,
}

var ErrUnknownResource = errors.New("unknown upstream resource")

// StatusError is returned when upstream answers with a non-2xx status.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream %s answered %d", e.URL, e.Code)
}

func (e *StatusError) transient() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

type Client struct {
	baseURL      string
	httpClient   *http.Client
	store        cache.Store
	logger       *zap.Logger
	retries      int
	initialDelay time.Duration
	fetchTimeout time.Duration
	flight       singleflight.Group
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithRetries(retries int, initialDelay time.Duration) Option {
	return func(c *Client) {
		c.retries = retries
		c.initialDelay = initialDelay
	}
}

// WithFetchTimeout bounds a shared upstream fetch, retries included. The
// fetch outlives the caller that started it so other waiters on the same
// key are not cancelled with it.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.fetchTimeout = d
	}
}

func NewClient(baseURL string, store cache.Store, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:      baseURL,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
		store:        store,
		logger:       logger,
		retries:      2,
		initialDelay: 500 * time.Millisecond,
		fetchTimeout: time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Raw returns the upstream JSON for resource filtered by query.
func (c *Client) Raw(ctx context.Context, resource string, query url.Values, ttl time.Duration) ([]byte, error) {
	if !Resources[resource] {
		return nil, errors.Wrap(ErrUnknownResource, resource)
	}
	return c.get(ctx, resource, query, ttl)
}

func (c *Client) get(ctx context.Context, resource string, query url.Values, ttl time.Duration) ([]byte, error) {
	key := resource
	if encoded := query.Encode(); encoded != "" {
		key += "?" + encoded
	}

	if body, ok, err := c.store.Get(ctx, key); err != nil {
		c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		return body, nil
	}

	ch := c.flight.DoChan(key, func() (interface{}, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout)
		defer cancel()

		body, err := c.fetchWithRetry(fctx, c.baseURL+"/"+key)
		if err != nil {
			return nil, err
		}
		if err := c.store.Set(fctx, key, body, ttl); err != nil {
			c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		}
		return body, nil
	})

	select {
	case <-ctx.Done():
		return nil, errors.Wrapf(ctx.Err(), "requesting %s", key)
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

func (c *Client) fetchWithRetry(ctx context.Context, u string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			delay := backoff(c.initialDelay, attempt)
			c.logger.Debug("retrying upstream request",
				zap.String("url", u),
				zap.Int("attempt", attempt),
				zap.Duration("retry_in", delay),
				zap.Error(lastErr))
			select {
			case <-ctx.Done():
				return nil, errors.Wrap(ctx.Err(), "retry cancelled")
			case <-time.After(delay):
			}
		}

		body, err := c.fetch(ctx, u)
		if err == nil {
			return body, nil
		}
		lastErr = err

		var se *StatusError
		if errors.As(err, &se) && !se.transient() {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, err
		}
	}
	return nil, errors.Wrapf(lastErr, "giving up after %d attempts", c.retries+1)
}

func (c *Client) fetch(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "requesting %s", u)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", u)
	}

	// OpenF1 answers 404 with a detail payload when a filter matches nothing
	if resp.StatusCode == http.StatusNotFound {
		return []byte("[]"), nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, URL: u}
	}
	return body, nil
}

func backoff(initial time.Duration, attempt int) time.Duration {
	delay := initial << (attempt - 1)
	if initial <= 0 {
		return 0
	}
	jitter := time.Duration(rand.Int63n(int64(initial)/2 + 1))
	return delay + jitter
}

func decode[T any](body []byte, what string) ([]T, error) {
	out := []T{}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", what)
	}
	return out, nil
}
