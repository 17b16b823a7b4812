package image

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics provides metrics for the pack pipeline
type Metrics struct {
	packDuration     metric.Float64Histogram
	packTotal        metric.Int64Counter
	programsEmbedded metric.Int64Counter
	bytesEmbedded    metric.Int64Counter
}

// NewMetrics creates a new Metrics instance
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	packDuration, err := meter.Float64Histogram(
		"imagepack_pack_duration_seconds",
		metric.WithDescription("Duration of pack operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	packTotal, err := meter.Int64Counter(
		"imagepack_packs_total",
		metric.WithDescription("Total number of pack operations"),
	)
	if err != nil {
		return nil, err
	}

	programsEmbedded, err := meter.Int64Counter(
		"imagepack_programs_embedded_total",
		metric.WithDescription("Total number of programs embedded"),
	)
	if err != nil {
		return nil, err
	}

	bytesEmbedded, err := meter.Int64Counter(
		"imagepack_bytes_embedded_total",
		metric.WithDescription("Total bytes of program data embedded"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		packDuration:     packDuration,
		packTotal:        packTotal,
		programsEmbedded: programsEmbedded,
		bytesEmbedded:    bytesEmbedded,
	}, nil
}

// RecordPack records metrics for a completed pack operation
func (m *Metrics) RecordPack(ctx context.Context, status string, programs int, bytes int64, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("status", status),
	}

	m.packDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	m.packTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	if status == "success" {
		m.programsEmbedded.Add(ctx, int64(programs))
		m.bytesEmbedded.Add(ctx, bytes)
	}
}
