// Package metrics exposes the cleaning instruments through OpenTelemetry
// with a Prometheus exporter.
package metrics

import (
	"context"
	"emailcleaner/pkg/domain"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// DefaultBuckets provides a common set of histogram buckets in seconds that can
// be reused across the application for latency metrics.
var DefaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10} //nolint: gochecknoglobals

const meterName = "emailcleaner"

// Source labels where a batch came from.
type Source string

const (
	SourceAPI Source = "api"
	SourceBot Source = "bot"
	SourceCLI Source = "cli"
)

// NewMeterProvider creates a meter provider whose instruments are exported to
// the given Prometheus registerer.
func NewMeterProvider(reg prometheus.Registerer) (*sdkmetric.MeterProvider, error) {
	exp, err := otelprom.New(otelprom.WithRegisterer(reg))
	if err != nil {
		return nil, fmt.Errorf("could not create otel exporter: %w", err)
	}

	return sdkmetric.NewMeterProvider(sdkmetric.WithReader(exp)), nil
}

// Recorder records the outcome of cleaning batches. A nil *Recorder is valid and records nothing.
type Recorder struct {
	batches     metric.Int64Counter
	candidates  metric.Int64Counter
	corrections metric.Int64Counter
	duration    metric.Float64Histogram
}

// New creates the cleaning instruments on mp.
func New(mp metric.MeterProvider) (*Recorder, error) {
	meter := mp.Meter(meterName)

	batches, err := meter.Int64Counter("emailcleaner.batches",
		metric.WithDescription("Number of cleaned batches."))
	if err != nil {
		return nil, fmt.Errorf("could not create batches counter: %w", err)
	}
	candidates, err := meter.Int64Counter("emailcleaner.candidates",
		metric.WithDescription("Number of candidates by outcome."))
	if err != nil {
		return nil, fmt.Errorf("could not create candidates counter: %w", err)
	}
	corrections, err := meter.Int64Counter("emailcleaner.corrections",
		metric.WithDescription("Number of kept addresses whose domain was corrected."))
	if err != nil {
		return nil, fmt.Errorf("could not create corrections counter: %w", err)
	}
	duration, err := meter.Float64Histogram("emailcleaner.batch.duration",
		metric.WithDescription("Time spent cleaning a batch."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(DefaultBuckets...))
	if err != nil {
		return nil, fmt.Errorf("could not create duration histogram: %w", err)
	}

	return &Recorder{
		batches:     batches,
		candidates:  candidates,
		corrections: corrections,
		duration:    duration,
	}, nil
}

// RecordResult records a finished batch.
func (r *Recorder) RecordResult(ctx context.Context, source Source, res *domain.Result, elapsed time.Duration) {
	if r == nil || res == nil {
		return
	}

	src := attribute.String("source", string(source))
	s := res.Summary

	r.batches.Add(ctx, 1, metric.WithAttributes(src))
	r.candidates.Add(ctx, int64(s.Kept), metric.WithAttributes(src, attribute.String("outcome", "kept")))
	r.candidates.Add(ctx, int64(s.Removed), metric.WithAttributes(src, attribute.String("outcome", "removed")))
	r.candidates.Add(ctx, int64(s.Duplicates), metric.WithAttributes(src, attribute.String("outcome", "duplicate")))
	r.corrections.Add(ctx, int64(s.Corrected), metric.WithAttributes(src))
	r.duration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(src))
}
