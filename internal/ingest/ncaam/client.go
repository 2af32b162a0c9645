package ncaam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	BaseURL = "https://ncaam.hicksrch.workers.dev/v1"

	maxAttempts = 3
	pageSize    = 100
	maxPages    = 50
)

// ErrNotFound is returned (wrapped) when the API answers 404.
var ErrNotFound = errors.New("ncaam: not found")

var retryStatuses = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// Client talks to the NCAAM play-by-play proxy. Requests are rate limited
// client-side and retried on throttling and 5xx responses.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	backoff    func(attempt int) time.Duration
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit sets the request rate and burst.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(limit, burst) }
}

// WithBackoff overrides the delay before retry attempt n (1-based).
func WithBackoff(fn func(attempt int) time.Duration) Option {
	return func(c *Client) { c.backoff = fn }
}

// New creates a client for baseURL, falling back to BaseURL when empty.
func New(baseURL string, opts ...Option) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = BaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(5), 5),
		backoff:    defaultBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	log.Printf("[ncaam-client] New() called with baseURL: %s", c.baseURL)
	return c
}

// NewClient creates a client with default settings.
func NewClient() *Client {
	return New(BaseURL)
}

func defaultBackoff(attempt int) time.Duration {
	base := time.Duration(300*(1<<(attempt-1))) * time.Millisecond
	return base + time.Duration(rand.Int63n(int64(150 * time.Millisecond)))
}

// FetchGame fetches the game record for gameID.
func (c *Client) FetchGame(ctx context.Context, gameID string) (map[string]interface{}, error) {
	return c.fetch(ctx, "/games/"+url.PathEscape(gameID), nil)
}

// FetchPlayByPlay fetches every page of plays for gameID and returns the raw
// play objects in the order the API returned them.
func (c *Client) FetchPlayByPlay(ctx context.Context, gameID string) ([]interface{}, error) {
	path := "/games/" + url.PathEscape(gameID) + "/playbyplay"

	var plays []interface{}
	cursor := ""
	for page := 0; page < maxPages; page++ {
		params := url.Values{}
		params.Set("per_page", fmt.Sprint(pageSize))
		if cursor != "" {
			params.Set("cursor", cursor)
		}

		resp, err := c.fetch(ctx, path, params)
		if err != nil {
			return nil, err
		}

		parsed := parsePage(resp)
		plays = append(plays, parsed.Data...)

		if parsed.NextCursor == "" || parsed.NextCursor == cursor {
			return plays, nil
		}
		cursor = parsed.NextCursor
	}

	log.Printf("[ncaam-client] ⚠️  Stopped paging %s after %d pages", path, maxPages)
	return plays, nil
}

func (c *Client) fetch(ctx context.Context, path string, params url.Values) (map[string]interface{}, error) {
	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	for attempt := 1; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		result, retry, err := c.do(ctx, target, path)
		if err == nil {
			return result, nil
		}
		if !retry || attempt >= maxAttempts || ctx.Err() != nil {
			return nil, err
		}

		delay := c.backoff(attempt)
		log.Printf("[ncaam-client] Attempt %d/%d for %s failed: %v (retrying in %v)", attempt, maxAttempts, path, err, delay)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
}

// do performs a single request. retry reports whether the failure is worth
// another attempt.
func (c *Client) do(ctx context.Context, target, path string) (result map[string]interface{}, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, false, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, retryStatuses[resp.StatusCode], fmt.Errorf("NCAAM %d %s for %s :: %s",
			resp.StatusCode, http.StatusText(resp.StatusCode), path, snippet(body))
	}

	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
		return nil, false, fmt.Errorf("NCAAM unexpected content-type for %s: %s :: %s", path, fallbackString(ct, "unknown"), snippet(body))
	}

	if err := json.Unmarshal(body, &result); err != nil {
		return nil, false, fmt.Errorf("decoding response: %w (body: %s)", err, snippet(body))
	}
	return result, false, nil
}

func snippet(body []byte) string {
	return string(body[:min(len(body), 120)])
}
