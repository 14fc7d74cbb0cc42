// Package timing provides a client for an external race timing feed that
// publishes session classifications and season entry lists as JSON.
package timing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/abrezinsky/gridpicks/internal/logger"
)

// FlexInt is an int that can be unmarshaled from either a number or a
// numeric string. Feeds disagree on how rider numbers are encoded.
type FlexInt int

// UnmarshalJSON implements json.Unmarshaler for FlexInt
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = 0
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexInt(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("FlexInt: %q is not a number", s)
		}
		*f = FlexInt(n)
		return nil
	}

	return fmt.Errorf("FlexInt: cannot unmarshal %s", string(data))
}

// Session identifies one timed session of a race weekend
type Session struct {
	Season int
	Round  int
	Type   string // "sprint" or "race"
}

// Entry is one line of a session classification
type Entry struct {
	Position    FlexInt `json:"position"`
	RiderNumber FlexInt `json:"rider_number"`
	Status      string  `json:"status"`
}

// Classified reports whether the entry finished with a valid position
func (e Entry) Classified() bool {
	if e.Position <= 0 {
		return false
	}
	switch strings.ToLower(e.Status) {
	case "", "finished", "classified":
		return true
	default:
		return false
	}
}

// ClassificationResponse is the feed's classification payload
type ClassificationResponse struct {
	Entries []Entry `json:"entries"`
}

// Rider is one entry of the season entry list
type Rider struct {
	Number FlexInt `json:"number"`
	Name   string  `json:"name"`
	Team   string  `json:"team"`
}

// RiderListResponse is the feed's entry list payload
type RiderListResponse struct {
	Riders []Rider `json:"riders"`
}

// Client defines the interface for timing feed operations
type Client interface {
	// FetchClassification returns the classified entries of a session
	// ordered by position
	FetchClassification(ctx context.Context, baseURL string, s Session) ([]Entry, error)
	// FetchRiders returns the season entry list
	FetchRiders(ctx context.Context, baseURL string, season int) ([]Rider, error)
	// SetToken configures a bearer token sent with every request
	SetToken(token string)
}

// HTTPClient is a rate-limited HTTP client for the timing feed
type HTTPClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	log        logger.Logger

	mu    sync.RWMutex
	token string
}

// NewHTTPClient creates a client allowing rps requests per second
func NewHTTPClient(rps float64, log logger.Logger) *HTTPClient {
	return NewHTTPClientWithHTTPClient(&http.Client{Timeout: 30 * time.Second}, rps, log)
}

// NewHTTPClientWithHTTPClient creates a client with a custom http.Client
func NewHTTPClientWithHTTPClient(httpClient *http.Client, rps float64, log logger.Logger) *HTTPClient {
	return &HTTPClient{
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		log:        log,
	}
}

// SetToken configures a bearer token sent with every request
func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *HTTPClient) get(ctx context.Context, apiURL string, response interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.mu.RLock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	c.mu.RUnlock()

	c.log.Debug("Timing feed request", "url", apiURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to timing feed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Debug("Timing feed response", "status", resp.StatusCode, "bytes", len(body))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("timing feed returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.Unmarshal(body, response); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// FetchClassification returns the classified entries of a session ordered
// by position. DNFs and unclassified riders are dropped.
func (c *HTTPClient) FetchClassification(ctx context.Context, baseURL string, s Session) ([]Entry, error) {
	apiURL := fmt.Sprintf("%s/seasons/%d/rounds/%d/%s/classification",
		strings.TrimRight(baseURL, "/"), s.Season, s.Round, s.Type)

	var response ClassificationResponse
	if err := c.get(ctx, apiURL, &response); err != nil {
		return nil, err
	}
	return Classified(response.Entries), nil
}

// FetchRiders returns the season entry list
func (c *HTTPClient) FetchRiders(ctx context.Context, baseURL string, season int) ([]Rider, error) {
	apiURL := fmt.Sprintf("%s/seasons/%d/riders", strings.TrimRight(baseURL, "/"), season)

	var response RiderListResponse
	if err := c.get(ctx, apiURL, &response); err != nil {
		return nil, err
	}
	return response.Riders, nil
}

// Classified filters entries down to classified finishers sorted by position
func Classified(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Classified() {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

var _ Client = (*HTTPClient)(nil)
