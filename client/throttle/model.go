package throttle

import (
	"errors"
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"
)

var (
	ErrMustNotBeZero = errors.New("must be greater than zero")
	ErrWaitingFailed = errors.New("limiter waiting failed")
	ErrContextEnded  = errors.New("throttle context ended")
)

// Config defines the throttler's
// Requests Per Second and Burst Rate
type Config struct {
	RPS   int
	Burst int
}

// Limiter holds a token bucket that any number of transports can draw from.
// Every request opened through a wrapped transport takes one token.
type Limiter struct {
	limiter *rate.Limiter
	rps     int
	burst   int
	logFn   func() *slog.Logger
}

// throttle is an http.RoundTripper that waits on a shared Limiter
// before handing the request to next.
type throttle struct {
	*Limiter
	next http.RoundTripper
}
