package client_test

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/adamwoolhether/fetcher/client"
)

func TestDownload_Telemetry(t *testing.T) {
	body := bytes.Repeat([]byte("m"), 3000)
	ts, _ := bodyServer(t, body)

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	c := build(t, client.WithMeter(mp.Meter("test")), client.WithTracer(tp.Tracer("test")))

	dir := t.TempDir()
	if _, err := c.Download(t.Context(), client.RequestSpec{URL: ts.URL}, filepath.Join(dir, "ok")); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if _, err := c.Download(t.Context(), client.RequestSpec{URL: "ftp:/nohost"}, filepath.Join(dir, "bad")); !errors.Is(err, client.ErrMalformedURL) {
		t.Fatalf("expected ErrMalformedURL, got: %v", err)
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(t.Context(), &rm); err != nil {
		t.Fatalf("collecting metrics: %v", err)
	}

	got := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					outcome, _ := dp.Attributes.Value("outcome")
					got[m.Name+"/"+outcome.AsString()] += dp.Value
				}
			case metricdata.Histogram[float64]:
				for _, dp := range data.DataPoints {
					outcome, _ := dp.Attributes.Value("outcome")
					got[m.Name+"/"+outcome.AsString()] += int64(dp.Count)
				}
			}
		}
	}

	exp := map[string]int64{
		"fetcher.downloads/success":               1,
		"fetcher.downloads/malformed_url":         1,
		"fetcher.download.bytes/success":          3000,
		"fetcher.download.bytes/malformed_url":    0,
		"fetcher.download.duration/success":       1,
		"fetcher.download.duration/malformed_url": 1,
	}
	if diff := cmp.Diff(exp, got); diff != "" {
		t.Errorf("metrics mismatch (-want +got):\n%s", diff)
	}

	spans := sr.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}

	ok, failed := spans[0], spans[1]
	if ok.Name() != "fetcher.download" {
		t.Errorf("unexpected span name %q", ok.Name())
	}
	if ok.Status().Code != codes.Unset {
		t.Errorf("expected unset status on success, got %v", ok.Status().Code)
	}

	attrs := attribute.NewSet(ok.Attributes()...)
	if v, _ := attrs.Value("fetcher.download.bytes"); v.AsInt64() != 3000 {
		t.Errorf("expected 3000 bytes attribute, got %v", v.Emit())
	}
	if v, _ := attrs.Value("http.response.status_code"); v.AsInt64() != 200 {
		t.Errorf("expected status attribute 200, got %v", v.Emit())
	}
	if v, _ := attrs.Value("fetcher.download.id"); v.AsString() == "" {
		t.Error("expected a download id attribute")
	}

	if failed.Status().Code != codes.Error || failed.Status().Description != "malformed_url" {
		t.Errorf("expected error status malformed_url, got %+v", failed.Status())
	}
}
