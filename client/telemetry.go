package client

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

const instrumentationName = "github.com/adamwoolhether/fetcher/client"

var (
	defaultTracer = tracenoop.NewTracerProvider().Tracer(instrumentationName)
	defaultMeter  = metricnoop.NewMeterProvider().Meter(instrumentationName)
)

type instruments struct {
	downloads metric.Int64Counter
	bytes     metric.Int64Counter
	duration  metric.Float64Histogram
}

func newInstruments(meter metric.Meter) (*instruments, error) {
	downloads, err := meter.Int64Counter("fetcher.downloads",
		metric.WithDescription("Downloads attempted, by outcome."))
	if err != nil {
		return nil, fmt.Errorf("creating downloads counter: %w", err)
	}

	bytes, err := meter.Int64Counter("fetcher.download.bytes",
		metric.WithDescription("Body bytes written to disk."),
		metric.WithUnit("By"))
	if err != nil {
		return nil, fmt.Errorf("creating bytes counter: %w", err)
	}

	duration, err := meter.Float64Histogram("fetcher.download.duration",
		metric.WithDescription("Time from opening the connection to closing the file."),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	return &instruments{downloads: downloads, bytes: bytes, duration: duration}, nil
}

func (i *instruments) record(ctx context.Context, method string, received int64, err error, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("outcome", Outcome(err)),
		attribute.String("http.request.method", method),
	)

	i.downloads.Add(ctx, 1, attrs)
	i.bytes.Add(ctx, received, attrs)
	i.duration.Record(ctx, elapsed.Seconds(), attrs)
}
