// Package search runs catalog track searches for interactive input. It
// debounces keystrokes, rate-limits outgoing requests, and discards
// responses that arrive after a newer query has been issued.
package search

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/sableaudio/mixtape/internal/models"
)

// DebounceInterval is how long input must be quiet before a search fires.
const DebounceInterval = 300 * time.Millisecond

// Searcher is the remote side of a query. Implemented by
// services.SpotifyService.
type Searcher interface {
	SearchTracks(ctx context.Context, query string) ([]models.Track, error)
}

// Session gates searching. Satisfied by session.Session.
type Session interface {
	Authenticated() bool
}

// Result pairs a response with the request that produced it.
type Result struct {
	RequestID string
	Query     string
	Tracks    []models.Track
}

// Client issues track searches. Each call is tagged with a request id so
// callers can drop responses that a later query has superseded, and calls
// share a limiter so rapid input cannot flood the API.
type Client struct {
	api     Searcher
	limiter *rate.Limiter
	logger  *log.Logger

	mu     sync.Mutex
	latest string
}

// NewClient creates a search client. A nil logger silences the client.
func NewClient(api Searcher, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(nil)
	}

	return &Client{
		api:     api,
		limiter: rate.NewLimiter(rate.Every(DebounceInterval), 2),
		logger:  logger,
	}
}

// Search runs a query and returns its results. An empty query, or one issued
// without a session, resolves to an empty result without touching the
// network. Remote failures also resolve to an empty result; search is
// best-effort and a failed query must never surface as a fatal error.
//
// The returned result carries the request id that Accept expects.
func (c *Client) Search(ctx context.Context, sess Session, query string) Result {
	id := c.issue()
	result := Result{RequestID: id, Query: query}

	if strings.TrimSpace(query) == "" || !sess.Authenticated() {
		return result
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return result
	}

	tracks, err := c.api.SearchTracks(ctx, query)
	if err != nil {
		c.logger.Warn("search failed", "query", query, "error", err)
		return result
	}

	result.Tracks = tracks
	return result
}

// Accept reports whether a result belongs to the most recently issued
// request. Callers drop stale results so a slow early response can never
// overwrite the results of the query the user actually typed last.
func (c *Client) Accept(result Result) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return result.RequestID == c.latest
}

func (c *Client) issue() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.latest = uuid.NewString()
	return c.latest
}

// Debouncer delays a function call until input has been quiet for an
// interval. Each trigger restarts the timer, so only the final burst of a
// typing session fires.
type Debouncer struct {
	mu       sync.Mutex
	interval time.Duration
	timer    *time.Timer
}

// NewDebouncer creates a debouncer. A non-positive interval falls back to
// DebounceInterval.
func NewDebouncer(interval time.Duration) *Debouncer {
	if interval <= 0 {
		interval = DebounceInterval
	}
	return &Debouncer{interval: interval}
}

// Trigger schedules fn after the quiet interval, cancelling any previously
// scheduled call. fn runs on its own goroutine.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, fn)
}

// Stop cancels any pending call.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
