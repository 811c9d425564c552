// Package fetcher exposes the client builder.
package fetcher

import (
	"log/slog"

	"github.com/adamwoolhether/fetcher/client"
	"github.com/adamwoolhether/fetcher/config"
)

// NewClient instantiates a new *Client with the provided options.
// If not specified, a transport without keep-alives or transparent
// decompression is used.
func NewClient(opts ...client.Option) (*client.Client, error) {
	return client.Build(opts...)
}

// FromConfig returns the client options described by cfg. A nil logger
// leaves the client on slog.Default.
func FromConfig(cfg *config.Config, logger *slog.Logger) []client.Option {
	var opts []client.Option

	if logger != nil {
		opts = append(opts, client.WithLogger(logger))
	}
	if cfg.UserAgent != "" {
		opts = append(opts, client.WithUserAgent(cfg.UserAgent))
	}
	if cfg.NoFollowRedirects {
		opts = append(opts, client.WithNoFollowRedirects())
	}
	if cfg.Throttle.RPS > 0 {
		opts = append(opts, client.WithThrottle(cfg.Throttle.RPS, max(cfg.Throttle.Burst, 1)))
	}

	return opts
}
