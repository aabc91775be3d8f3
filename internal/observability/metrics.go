package observability

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricRowsTotal     = "lsh.rows.total"
	metricBandsTotal    = "lsh.bands.total"
	metricBatchDuration = "lsh.batch.duration.seconds"
	metricErrorsTotal   = "lsh.errors.total"

	attrFamily = "family"
	attrStatus = "status"
	attrKind   = "kind"

	// StatusHashed labels rows that produced bands.
	StatusHashed = "hashed"
	// StatusNull labels rows that were null on input.
	StatusNull = "null"
)

// ErrNoRegistry is returned when a metrics textfile is requested but no
// Prometheus registry was initialized.
var ErrNoRegistry = errors.New("observability: prometheus registry not initialized")

// batchBucketBoundaries spans sub-millisecond batches up to a minute.
var batchBucketBoundaries = []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 60}

// BatchStats summarizes one hashed batch.
type BatchStats struct {
	Rows     int
	Nulls    int
	Bands    int
	Duration time.Duration
}

// HashMetrics holds the instruments recorded by the batch runner.
// A nil *HashMetrics is valid and records nothing.
type HashMetrics struct {
	rowsTotal     metric.Int64Counter
	bandsTotal    metric.Int64Counter
	batchDuration metric.Float64Histogram
	errorsTotal   metric.Int64Counter
}

// NewHashMetrics creates the hashing instruments from mt.
func NewHashMetrics(mt metric.Meter) (*HashMetrics, error) {
	b := newMetricBuilder(mt)

	hm := &HashMetrics{
		rowsTotal:     b.counter(metricRowsTotal, "Rows processed by status", "{row}"),
		bandsTotal:    b.counter(metricBandsTotal, "Band hashes written", "{band}"),
		batchDuration: b.histogram(metricBatchDuration, "Batch hashing duration in seconds", "s", batchBucketBoundaries...),
		errorsTotal:   b.counter(metricErrorsTotal, "Batches rejected by error kind", "{error}"),
	}

	if b.err != nil {
		return nil, b.err
	}

	return hm, nil
}

// RecordBatch records a successfully hashed batch for family.
func (hm *HashMetrics) RecordBatch(ctx context.Context, family string, stats BatchStats) {
	if hm == nil {
		return
	}

	fam := attribute.String(attrFamily, family)

	hm.rowsTotal.Add(ctx, int64(stats.Rows-stats.Nulls),
		metric.WithAttributes(fam, attribute.String(attrStatus, StatusHashed)))

	if stats.Nulls > 0 {
		hm.rowsTotal.Add(ctx, int64(stats.Nulls),
			metric.WithAttributes(fam, attribute.String(attrStatus, StatusNull)))
	}

	hm.bandsTotal.Add(ctx, int64(stats.Bands), metric.WithAttributes(fam))
	hm.batchDuration.Record(ctx, stats.Duration.Seconds(), metric.WithAttributes(fam))
}

// RecordError records a rejected batch. kind is a short error class such as
// "configuration" or "shape_mismatch".
func (hm *HashMetrics) RecordError(ctx context.Context, family, kind string) {
	if hm == nil {
		return
	}

	hm.errorsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrFamily, family),
		attribute.String(attrKind, kind),
	))
}
