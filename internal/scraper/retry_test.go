package scraper

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

var (
	errBlocked = &StatusError{URL: "https://www.alltrails.com/trail/x", StatusCode: http.StatusForbidden}
	errReset   = errors.New("connection reset by peer")
)

// scriptedFetcher returns the scripted error for each call in order and
// succeeds once the script runs out (or hits a nil entry).
type scriptedFetcher struct {
	script []error
	agents []string
}

func (f *scriptedFetcher) Fetch(_ context.Context, _ string, userAgent string) ([]byte, error) {
	i := len(f.agents)
	f.agents = append(f.agents, userAgent)
	if i < len(f.script) && f.script[i] != nil {
		return nil, f.script[i]
	}
	return []byte("<html><h1>ok</h1></html>"), nil
}

func repeat(err error, n int) []error {
	out := make([]error, n)
	for i := range out {
		out[i] = err
	}
	return out
}

func newTestRetrier(waits *[]time.Duration) *Retrier {
	r := NewRetrier().WithSeed(42)
	r.Sleep = func(_ context.Context, d time.Duration) error {
		*waits = append(*waits, d)
		return nil
	}
	return r
}

func TestRetrier_BlockedThenSuccess(t *testing.T) {
	var waits []time.Duration
	r := newTestRetrier(&waits)
	f := &scriptedFetcher{script: repeat(errBlocked, 4)}

	res, err := r.Do(context.Background(), "https://www.alltrails.com/trail/x", f)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}

	if len(res.Attempts) != 5 {
		t.Fatalf("attempts = %d, want 5", len(res.Attempts))
	}
	if res.Attempts[4].Outcome != OutcomeSuccess {
		t.Errorf("last outcome = %q, want success", res.Attempts[4].Outcome)
	}
	for i, a := range res.Attempts[:4] {
		if a.Outcome != OutcomeBlocked {
			t.Errorf("attempt %d outcome = %q, want blocked", i+1, a.Outcome)
		}
		if a.Index != i+1 {
			t.Errorf("attempt index = %d, want %d", a.Index, i+1)
		}
	}

	rotated := false
	for i := 1; i < len(f.agents); i++ {
		if f.agents[i] != f.agents[i-1] {
			rotated = true
		}
	}
	if !rotated {
		t.Errorf("user agent never rotated: %q", f.agents)
	}

	// 5 pre-request waits + 4 blocked waits
	if len(waits) != 9 {
		t.Errorf("waits = %d, want 9", len(waits))
	}
}

func TestRetrier_AlwaysBlocked(t *testing.T) {
	var waits []time.Duration
	r := newTestRetrier(&waits)
	f := &scriptedFetcher{script: repeat(errBlocked, 20)}

	res, err := r.Do(context.Background(), "https://www.alltrails.com/trail/x", f)
	if res != nil {
		t.Errorf("Do() result = %+v, want nil", res)
	}
	if len(f.agents) != MaxAttempts {
		t.Errorf("fetch calls = %d, want %d", len(f.agents), MaxAttempts)
	}
	if !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("Do() error = %v, want ErrAccessDenied", err)
	}

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Do() error = %T, want *FetchError", err)
	}
	if fetchErr.Kind() != "access_denied" {
		t.Errorf("Kind() = %q, want access_denied", fetchErr.Kind())
	}
	if len(fetchErr.Attempts) != MaxAttempts {
		t.Errorf("recorded attempts = %d, want %d", len(fetchErr.Attempts), MaxAttempts)
	}

	// no wait after the final attempt
	if len(waits) != 2*MaxAttempts-1 {
		t.Errorf("waits = %d, want %d", len(waits), 2*MaxAttempts-1)
	}
}

func TestRetrier_TransientExhaustion(t *testing.T) {
	var waits []time.Duration
	r := newTestRetrier(&waits)
	f := &scriptedFetcher{script: repeat(errReset, 20)}

	_, err := r.Do(context.Background(), "https://www.alltrails.com/trail/x", f)
	if errors.Is(err, ErrAccessDenied) {
		t.Fatalf("transient exhaustion should not be access denied: %v", err)
	}
	if !errors.Is(err, errReset) {
		t.Errorf("error should carry the last underlying error, got %v", err)
	}

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) || fetchErr.Kind() != "fetch_failed" {
		t.Fatalf("Do() error = %v, want fetch_failed FetchError", err)
	}

	for i := 1; i < len(f.agents); i++ {
		if f.agents[i] != f.agents[0] {
			t.Errorf("user agent changed on transient retry: %q", f.agents)
			break
		}
	}
}

func TestRetrier_LastOutcomeDecidesKind(t *testing.T) {
	var waits []time.Duration
	r := newTestRetrier(&waits)
	script := append([]error{errBlocked}, repeat(errReset, 4)...)
	f := &scriptedFetcher{script: script}

	_, err := r.Do(context.Background(), "https://www.alltrails.com/trail/x", f)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Do() error = %v", err)
	}
	if fetchErr.Blocked {
		t.Error("final transient failure should not report blocked")
	}
}

func TestRetrier_WaitRanges(t *testing.T) {
	var waits []time.Duration
	r := newTestRetrier(&waits)
	f := &scriptedFetcher{script: []error{errBlocked, errReset}}

	if _, err := r.Do(context.Background(), "https://www.alltrails.com/trail/x", f); err != nil {
		t.Fatalf("Do() error = %v", err)
	}

	// pre, blocked, pre, transient, pre
	if len(waits) != 5 {
		t.Fatalf("waits = %v, want 5 entries", waits)
	}
	inRange := func(d time.Duration, rg Range) bool { return d >= rg.Min && d < rg.Max }
	for _, i := range []int{0, 2, 4} {
		if !inRange(waits[i], r.PreDelay) {
			t.Errorf("pre-request wait %v outside %v", waits[i], r.PreDelay)
		}
	}
	if !inRange(waits[1], r.BlockedDelay) {
		t.Errorf("blocked wait %v outside %v", waits[1], r.BlockedDelay)
	}
	if !inRange(waits[3], r.TransientDelay) {
		t.Errorf("transient wait %v outside %v", waits[3], r.TransientDelay)
	}
}

func TestRetrier_ContextCancelled(t *testing.T) {
	r := NewRetrier()
	r.Sleep = func(ctx context.Context, _ time.Duration) error { return ctx.Err() }

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := &scriptedFetcher{}
	_, err := r.Do(ctx, "https://www.alltrails.com/trail/x", f)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Do() error = %v, want context.Canceled", err)
	}
	if len(f.agents) != 0 {
		t.Errorf("fetch should not run after cancellation, ran %d times", len(f.agents))
	}
}

func TestRetrier_RotateSingleAgent(t *testing.T) {
	r := NewRetrier()
	r.UserAgents = []string{"only-agent"}
	if got := r.rotate("only-agent"); got != "only-agent" {
		t.Errorf("rotate() = %q, want only-agent", got)
	}
}

func TestIsBlocked(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"403", &StatusError{StatusCode: 403}, true},
		{"429", &StatusError{StatusCode: 429}, true},
		{"500", &StatusError{StatusCode: 500}, false},
		{"plain error", errReset, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsBlocked(tt.err); got != tt.want {
				t.Errorf("IsBlocked() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRange_Pick(t *testing.T) {
	r := NewRetrier().WithSeed(7)
	fixed := Range{Min: time.Second, Max: time.Second}
	if got := fixed.pick(r.random()); got != time.Second {
		t.Errorf("pick() = %v, want 1s", got)
	}
	zero := Range{}
	if got := zero.pick(r.random()); got != 0 {
		t.Errorf("pick() = %v, want 0", got)
	}
}
