package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"github.com/pfrederiksen/trailday/internal/logger"
)

// Lookup defaults.
const (
	DefaultBaseURL   = "https://nominatim.openstreetmap.org"
	DefaultUserAgent = "trailday/1.0"
	DefaultTimeout   = 10 * time.Second
	DefaultDelay     = 100 * time.Millisecond
)

var (
	// ErrNotFound means the service had no match for the query.
	ErrNotFound = errors.New("location not found")
	// ErrTimeout means the service did not answer in time.
	ErrTimeout = errors.New("geocoding timed out")
)

// Point is a WGS84 coordinate.
type Point struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DisplayName string  `json:"display_name,omitempty"`
}

// Geocoder resolves a query to a point.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (Point, error)
}

// Nominatim is a Geocoder backed by the Nominatim search endpoint.
type Nominatim struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *Cache
}

// Options configures a Nominatim client. Zero values use the defaults.
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	Delay     time.Duration
}

// NewNominatim creates a client that waits at least opts.Delay between
// requests.
func NewNominatim(opts Options) *Nominatim {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	return &Nominatim{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		userAgent: opts.UserAgent,
		httpClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		limiter: rate.NewLimiter(rate.Every(opts.Delay), 1),
		cache:   NewCache(),
	}
}

// Cache returns the client's result cache.
func (n *Nominatim) Cache() *Cache {
	return n.cache
}

type searchResult struct {
	Lat         float64 `json:"lat,string"`
	Lon         float64 `json:"lon,string"`
	DisplayName string  `json:"display_name"`
}

// Geocode returns the best match for query. Cached answers, including
// misses, are returned without a request.
func (n *Nominatim) Geocode(ctx context.Context, query string) (Point, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Point{}, ErrNotFound
	}

	if p, ok := n.cache.Get(query); ok {
		logger.IncrCounter("geocode.cache_hits")
		if p == nil {
			return Point{}, ErrNotFound
		}
		return *p, nil
	}

	if err := n.limiter.Wait(ctx); err != nil {
		return Point{}, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	start := time.Now()
	p, err := n.search(ctx, query)
	logger.RecordTiming("geocode.request", time.Since(start))

	switch {
	case err == nil:
		logger.IncrCounter("geocode.hits")
		n.cache.Set(query, &p)
		return p, nil
	case errors.Is(err, ErrNotFound):
		logger.IncrCounter("geocode.misses")
		n.cache.Set(query, nil)
		return Point{}, err
	default:
		logger.IncrCounter("geocode.errors")
		return Point{}, err
	}
}

func (n *Nominatim) search(ctx context.Context, query string) (Point, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return Point{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		var netErr interface{ Timeout() bool }
		if errors.As(err, &netErr) && netErr.Timeout() {
			return Point{}, fmt.Errorf("%w: %q", ErrTimeout, query)
		}
		return Point{}, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Point{}, fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return Point{}, fmt.Errorf("parsing response: %w", err)
	}
	if len(results) == 0 {
		return Point{}, fmt.Errorf("%w: %q", ErrNotFound, query)
	}

	r := results[0]
	return Point{Lat: r.Lat, Lon: r.Lon, DisplayName: r.DisplayName}, nil
}
