package client

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/adamwoolhether/fetcher/client/download"
	"github.com/adamwoolhether/fetcher/client/throttle"
)

// Client opens connections and runs downloads. It holds no per-download
// state and is safe for concurrent use.
type Client struct {
	base              http.RoundTripper
	limiter           *throttle.Limiter
	userAgent         string
	noFollowRedirects bool
	logger            *slog.Logger
	tracer            trace.Tracer
	inst              *instruments
}

func Build(optFns ...Option) (*Client, error) {
	client := &Client{
		base:   newTransport(),
		logger: slog.Default(),
		tracer: defaultTracer,
	}

	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	if opts.rt != nil {
		client.base = opts.rt
	}

	if opts.logger != nil {
		client.logger = opts.logger
	}

	if opts.tracer != nil {
		client.tracer = opts.tracer
	}

	meter := defaultMeter
	if opts.meter != nil {
		meter = opts.meter
	}
	inst, err := newInstruments(meter)
	if err != nil {
		return nil, fmt.Errorf("configuring metrics: %w", err)
	}
	client.inst = inst

	client.userAgent = opts.userAgent
	client.noFollowRedirects = opts.noFollowRedirects

	if opts.throttle != nil {
		l, err := throttle.NewLimiter(opts.throttle.RPS, opts.throttle.Burst, func() *slog.Logger { return client.logger })
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		client.limiter = l
	}

	return client, nil
}

// Download performs the request described by spec and streams the response
// body to destPath, returning the absolute path written.
//
// The destination is only touched once the server has answered with a status
// below 400; anything else fails with [ErrIO] wrapping an
// [*UnexpectedStatusError].
func (c *Client) Download(ctx context.Context, spec RequestSpec, destPath string, opts ...DownloadOption) (DownloadResult, error) {
	if destPath == "" {
		return DownloadResult{}, &Error{Err: ErrInvalidRequest, Detail: "destination path must not be empty"}
	}

	id := uuid.NewString()
	logger := c.logger.With("download_id", id)

	ctx, span := c.tracer.Start(ctx, "fetcher.download",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("fetcher.download.id", id),
			attribute.String("fetcher.download.destination", destPath),
		),
	)
	defer span.End()

	var received int64
	opts = append([]DownloadOption{download.WithProgress(func(n, _ int64) { received = n })}, opts...)

	start := time.Now()
	res, err := c.download(ctx, spec, destPath, logger, opts)
	elapsed := time.Since(start)

	c.inst.record(ctx, methodOf(spec), received, err, elapsed)
	span.SetAttributes(attribute.Int64("fetcher.download.bytes", received))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, Outcome(err))
		logger.Error("download failed", "outcome", Outcome(err), "bytes", received, "error", err)
		return DownloadResult{}, err
	}

	logger.Info("download finished", "path", res.Path, "bytes", received, "elapsed", elapsed)

	return res, nil
}

func (c *Client) download(ctx context.Context, spec RequestSpec, destPath string, logger *slog.Logger, opts []DownloadOption) (DownloadResult, error) {
	conn, err := c.Open(ctx, spec)
	if err != nil {
		return DownloadResult{}, err
	}

	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("url.full", conn.URL.Redacted()),
		attribute.Int("http.response.status_code", conn.StatusCode()),
	)

	if conn.StatusCode() >= http.StatusBadRequest {
		return DownloadResult{}, c.rejectStatus(conn)
	}

	total := conn.ContentLength()
	logger.Info("downloading", "url", conn.URL.Redacted(), "status", conn.StatusCode(), "content_length", total, "path", destPath)

	return download.Handle(ctx, conn, total, destPath, logger, opts...)
}

// rejectStatus closes conn and reports its status with a capped copy of the body.
func (c *Client) rejectStatus(conn *Conn) error {
	b, err := io.ReadAll(io.LimitReader(conn, maxErrBodySize))
	if err != nil {
		b = []byte("unable to read body")
	}
	if err := conn.Close(); err != nil {
		c.logger.Error("failed to close response body", "error", err)
	}

	statusErr := ErrUnexpectedStatusCode
	if sc := conn.StatusCode(); sc == http.StatusUnauthorized || sc == http.StatusForbidden {
		statusErr = fmt.Errorf("%w: %w", ErrUnexpectedStatusCode, ErrAuthenticationFailed)
	}

	return download.IOError("opening response body", &UnexpectedStatusError{
		StatusCode: conn.StatusCode(),
		Body:       string(b),
		Err:        statusErr,
	})
}

// DownloadAsync runs [Client.Download] on its own goroutine. Pass
// [WithBatch] to bound concurrency, or [WithQueue] with an earlier job's
// queue to add to the same batch.
func (c *Client) DownloadAsync(ctx context.Context, spec RequestSpec, destPath string, opts ...DownloadOption) (*DownloadJob, error) {
	if destPath == "" {
		return nil, &Error{Err: ErrInvalidRequest, Detail: "destination path must not be empty"}
	}

	return download.Async(ctx, func(ctx context.Context) (DownloadResult, error) {
		return c.Download(ctx, spec, destPath, opts...)
	}, opts...)
}
