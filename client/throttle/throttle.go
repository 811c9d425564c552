package throttle

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// NewLimiter returns a token bucket refilled at rps tokens per second
// holding at most burst tokens. logFn may return nil to disable logging.
func NewLimiter(rps, burst int, logFn func() *slog.Logger) (*Limiter, error) {
	if rps <= 0 || burst <= 0 {
		return nil, fmt.Errorf("rps[%d] and burst[%d] %w", rps, burst, ErrMustNotBeZero)
	}

	if logFn == nil {
		logFn = func() *slog.Logger { return nil }
	}

	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		rps:     rps,
		burst:   burst,
		logFn:   logFn,
	}, nil
}

// Config reports the limits l was built with.
func (l *Limiter) Config() Config {
	return Config{RPS: l.rps, Burst: l.burst}
}

// Wrap returns a RoundTripper that takes a token from l before each request.
// A nil next falls back to http.DefaultTransport.
func (l *Limiter) Wrap(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}

	return &throttle{Limiter: l, next: next}
}

// NewRoundTripper wraps next with its own Limiter.
func NewRoundTripper(rps, burst int, logFn func() *slog.Logger, next http.RoundTripper) (http.RoundTripper, error) {
	l, err := NewLimiter(rps, burst, logFn)
	if err != nil {
		return nil, err
	}

	return l.Wrap(next), nil
}

func (t *throttle) RoundTrip(r *http.Request) (*http.Response, error) {
	ctx := r.Context()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w early: %w", ErrContextEnded, err)
	}

	start := time.Now()
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWaitingFailed, err)
	}

	if waited := time.Since(start); waited > time.Millisecond {
		if logger := t.logFn(); logger != nil {
			logger.Debug("throttled request", "url", r.URL.Redacted(), "waited", waited, "rps", t.rps, "burst", t.burst)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w post-wait: %w", ErrContextEnded, err)
	}

	return t.next.RoundTrip(r)
}
