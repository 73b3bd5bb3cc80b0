package scraper

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/pfrederiksen/trailday/internal/logger"
)

// MaxAttempts bounds the number of fetches per scrape.
const MaxAttempts = 5

// ErrAccessDenied matches (via errors.Is) a FetchError whose attempts all
// ended with the site refusing automated requests.
var ErrAccessDenied = errors.New("access denied")

// Outcome is the result of a single fetch attempt.
type Outcome string

const (
	OutcomeSuccess   Outcome = "success"
	OutcomeBlocked   Outcome = "blocked"
	OutcomeTransient Outcome = "transient_error"
)

// Attempt records one trip through the retry loop.
type Attempt struct {
	Index     int
	UserAgent string
	Outcome   Outcome
	Err       error
}

// Result is a successful fetch together with the attempts it took.
type Result struct {
	Body     []byte
	Attempts []Attempt
}

// FetchError is returned once the retry budget is spent. Blocked reports
// whether the final attempt was refused by the site, in which case the error
// also matches ErrAccessDenied.
type FetchError struct {
	URL      string
	Attempts []Attempt
	Blocked  bool
	Err      error
}

func (e *FetchError) Error() string {
	if e.Blocked {
		return fmt.Sprintf("access denied after %d attempts; the site may be blocking automated requests, try again later: %v",
			len(e.Attempts), e.Err)
	}
	return fmt.Sprintf("fetch failed after %d attempts: %v", len(e.Attempts), e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrAccessDenied) select blocked exhaustion.
func (e *FetchError) Is(target error) bool {
	return e.Blocked && target == ErrAccessDenied
}

// Kind names the failure for display: "access_denied" or "fetch_failed".
func (e *FetchError) Kind() string {
	if e.Blocked {
		return "access_denied"
	}
	return "fetch_failed"
}

// IsBlocked reports whether err is the site refusing the request (403 or 429).
func IsBlocked(err error) bool {
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		return false
	}
	return statusErr.StatusCode == http.StatusForbidden || statusErr.StatusCode == http.StatusTooManyRequests
}

// Range is an interval a randomized wait is drawn from.
type Range struct {
	Min time.Duration
	Max time.Duration
}

func (r Range) pick(rnd *rand.Rand) time.Duration {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + time.Duration(rnd.Int63n(int64(r.Max-r.Min)))
}

// DefaultUserAgents is the pool rotated through after a blocked attempt.
var DefaultUserAgents = []string{
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 Edg/120.0.0.0",
}

// Retrier drives a Fetcher through the attempt / wait / rotate cycle.
//
// Before every attempt it sleeps for a PreDelay. A blocked answer waits a
// BlockedDelay and switches to a different user agent; any other error
// waits the shorter TransientDelay and keeps the current one. No wait
// follows the final attempt.
type Retrier struct {
	MaxAttempts    int
	PreDelay       Range
	BlockedDelay   Range
	TransientDelay Range
	UserAgents     []string

	// Sleep blocks for d. Tests replace it to avoid real waits.
	Sleep func(ctx context.Context, d time.Duration) error

	rnd *rand.Rand
}

// NewRetrier returns a Retrier with the production delays.
func NewRetrier() *Retrier {
	return &Retrier{
		MaxAttempts:    MaxAttempts,
		PreDelay:       Range{Min: 3 * time.Second, Max: 8 * time.Second},
		BlockedDelay:   Range{Min: 5 * time.Second, Max: 15 * time.Second},
		TransientDelay: Range{Min: 2 * time.Second, Max: 5 * time.Second},
		UserAgents:     DefaultUserAgents,
		Sleep:          sleepContext,
		rnd:            rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// WithSeed makes delay and user-agent choices reproducible.
func (r *Retrier) WithSeed(seed int64) *Retrier {
	r.rnd = rand.New(rand.NewSource(seed))
	return r
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (r *Retrier) sleep(ctx context.Context, d time.Duration) error {
	if r.Sleep == nil {
		return sleepContext(ctx, d)
	}
	return r.Sleep(ctx, d)
}

func (r *Retrier) random() *rand.Rand {
	if r.rnd == nil {
		r.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return r.rnd
}

// rotate picks a user agent different from current when the pool allows it.
func (r *Retrier) rotate(current string) string {
	candidates := make([]string, 0, len(r.UserAgents))
	for _, ua := range r.UserAgents {
		if ua != current {
			candidates = append(candidates, ua)
		}
	}
	if len(candidates) == 0 {
		return current
	}
	return candidates[r.random().Intn(len(candidates))]
}

// Do fetches url until it succeeds or the attempt budget is exhausted.
// Exhaustion returns a *FetchError carrying the last underlying error.
func (r *Retrier) Do(ctx context.Context, url string, f Fetcher) (*Result, error) {
	maxAttempts := r.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = MaxAttempts
	}
	userAgent := ""
	if len(r.UserAgents) > 0 {
		userAgent = r.UserAgents[0]
	}

	attempts := make([]Attempt, 0, maxAttempts)
	var lastErr error

	for i := 1; i <= maxAttempts; i++ {
		if err := r.sleep(ctx, r.PreDelay.pick(r.random())); err != nil {
			return nil, fmt.Errorf("waiting before attempt %d: %w", i, err)
		}

		logger.IncrCounter("fetch.attempts")
		start := time.Now()
		body, err := f.Fetch(ctx, url, userAgent)
		logger.RecordTiming("fetch.request", time.Since(start))

		if err == nil {
			attempts = append(attempts, Attempt{Index: i, UserAgent: userAgent, Outcome: OutcomeSuccess})
			logger.Debug("Fetched page", logger.Fields{"url": url, "attempt": i, "bytes": len(body)})
			return &Result{Body: body, Attempts: attempts}, nil
		}
		lastErr = err

		if IsBlocked(err) {
			attempts = append(attempts, Attempt{Index: i, UserAgent: userAgent, Outcome: OutcomeBlocked, Err: err})
			logger.IncrCounter("fetch.blocked")
			logger.Warn("Request blocked", logger.Fields{"url": url, "attempt": i, "max_attempts": maxAttempts})
			if i == maxAttempts {
				break
			}
			if err := r.sleep(ctx, r.BlockedDelay.pick(r.random())); err != nil {
				return nil, fmt.Errorf("waiting after blocked attempt %d: %w", i, err)
			}
			userAgent = r.rotate(userAgent)
			continue
		}

		attempts = append(attempts, Attempt{Index: i, UserAgent: userAgent, Outcome: OutcomeTransient, Err: err})
		logger.IncrCounter("fetch.transient")
		logger.Warn("Fetch attempt failed", logger.Fields{"url": url, "attempt": i, "error": err.Error()})
		if i == maxAttempts {
			break
		}
		if err := r.sleep(ctx, r.TransientDelay.pick(r.random())); err != nil {
			return nil, fmt.Errorf("waiting after failed attempt %d: %w", i, err)
		}
	}

	return nil, &FetchError{
		URL:      url,
		Attempts: attempts,
		Blocked:  IsBlocked(lastErr),
		Err:      lastErr,
	}
}
