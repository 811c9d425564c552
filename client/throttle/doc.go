// Package throttle limits how fast outbound HTTP requests are opened,
// using a token bucket from [golang.org/x/time/rate].
//
// # Usage
//
// Build a [Limiter] once and wrap as many transports as needed with it.
// All of them draw from the same bucket:
//
//	l, err := throttle.NewLimiter(
//		10, // requests per second
//		5,  // burst capacity
//		func() *slog.Logger { return slog.Default() },
//	)
//	httpClient := &http.Client{Transport: l.Wrap(transport)}
//
// [NewRoundTripper] is shorthand for a single transport with its own bucket.
//
// When the bucket is empty, requests block until a token becomes
// available or the request context is cancelled.
package throttle
