// Package runner drives batch hashing over a row stream: it cuts the input
// into batches, hashes them on a bounded worker pool, and writes the results
// in input order.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"github.com/princeton-ddss/lsh/internal/observability"
	"github.com/princeton-ddss/lsh/internal/rowio"
	"github.com/princeton-ddss/lsh/pkg/alg/hll"
	"github.com/princeton-ddss/lsh/pkg/banding"
)

// Error kinds reported on the errors metric.
const (
	KindConfiguration    = "configuration"
	KindShapeMismatch    = "shape_mismatch"
	KindUnsupportedInput = "unsupported_input"
	KindInternal         = "internal"
)

// ErrInvalidBatchSize is returned when Options.BatchSize is not positive.
var ErrInvalidBatchSize = errors.New("runner: batch size must be positive")

// Options configures [Run].
type Options struct {
	// Family labels spans, logs, and metrics.
	Family string

	// BatchSize is the maximum number of rows per batch.
	BatchSize int

	// Workers bounds concurrent batches. Zero uses GOMAXPROCS.
	Workers int

	Logger  *slog.Logger
	Tracer  trace.Tracer
	Metrics *observability.HashMetrics
}

// Summary totals a completed run.
type Summary struct {
	Batches int
	Rows    int
	Nulls   int
	Bands   int

	// DistinctSignatures estimates how many different band tuples the
	// non-null rows produced. Rows sharing a tuple collide in every band.
	DistinctSignatures uint64

	Duration time.Duration
}

// Run reads src to exhaustion, hashes every batch with hash, and encodes the
// rows to dst in input order. The first failing batch aborts the run; rows
// of earlier windows may already have been written.
func Run(ctx context.Context, src *rowio.Reader, dst rowio.Encoder, hash HashFunc, opts Options) (Summary, error) {
	if opts.BatchSize <= 0 {
		return Summary{}, ErrInvalidBatchSize
	}

	opts = opts.withDefaults()
	start := time.Now()

	ctx, span := opts.Tracer.Start(ctx, "lsh."+opts.Family+".run",
		trace.WithAttributes(
			attribute.Int("lsh.batch_size", opts.BatchSize),
			attribute.Int("lsh.workers", opts.Workers),
		),
	)
	defer span.End()

	var sum Summary

	signatures, err := hll.New(hll.DefaultPrecision)
	if err != nil {
		return sum, err
	}

	for {
		ctxErr := ctx.Err()
		if ctxErr != nil {
			return sum, ctxErr
		}

		window, done, err := readWindow(src, opts.Workers, opts.BatchSize)
		if err != nil {
			opts.Metrics.RecordError(ctx, opts.Family, ErrorKind(err))
			failSpan(span, err)

			return sum, err
		}

		if len(window) == 0 {
			break
		}

		results, err := hashWindow(ctx, window, hash, opts)
		if err != nil {
			failSpan(span, err)

			return sum, err
		}

		for i, res := range results {
			encodeErr := dst.Encode(res.rows)
			if encodeErr != nil {
				return sum, fmt.Errorf("write batch %d: %w", window[i].Seq, encodeErr)
			}

			sum.add(res.rows)

			mergeErr := signatures.Merge(res.signatures)
			if mergeErr != nil {
				return sum, fmt.Errorf("merge batch %d signatures: %w", window[i].Seq, mergeErr)
			}
		}

		if done {
			break
		}
	}

	flushErr := dst.Flush()
	if flushErr != nil {
		return sum, fmt.Errorf("flush output: %w", flushErr)
	}

	sum.DistinctSignatures = signatures.Count()
	sum.Duration = time.Since(start)

	span.SetAttributes(
		attribute.Int("lsh.rows", sum.Rows),
		attribute.Int("lsh.bands", sum.Bands),
	)

	opts.Logger.InfoContext(ctx, "hashing complete",
		"family", opts.Family,
		"batches", humanize.Comma(int64(sum.Batches)),
		"rows", humanize.Comma(int64(sum.Rows)),
		"nulls", humanize.Comma(int64(sum.Nulls)),
		"bands", humanize.Comma(int64(sum.Bands)),
		"distinct_signatures", humanize.Comma(int64(sum.DistinctSignatures)),
		"duration", sum.Duration.Round(time.Millisecond),
	)

	return sum, nil
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}

	if o.Logger == nil {
		o.Logger = observability.Discard()
	}

	if o.Tracer == nil {
		o.Tracer = nooptrace.NewTracerProvider().Tracer("")
	}

	return o
}

func (s *Summary) add(rows []rowio.Row) {
	s.Batches++
	s.Rows += len(rows)

	for _, r := range rows {
		if r.Null() {
			s.Nulls++

			continue
		}

		s.Bands += len(r.Bands)
	}
}

// readWindow reads up to n batches. done reports that the input ended.
func readWindow(src *rowio.Reader, n, size int) ([]*rowio.Batch, bool, error) {
	window := make([]*rowio.Batch, 0, n)

	for len(window) < n {
		b, err := src.Next(size)
		if errors.Is(err, io.EOF) {
			return window, true, nil
		}

		if err != nil {
			return nil, false, err
		}

		window = append(window, b)
	}

	return window, false, nil
}

// batchResult is the output of one hashed batch.
type batchResult struct {
	rows []rowio.Row

	// signatures sketches the band tuples of the batch's non-null rows.
	signatures *hll.Sketch
}

// hashWindow hashes batches concurrently. Each worker owns its result slot.
func hashWindow(ctx context.Context, window []*rowio.Batch, hash HashFunc, opts Options) ([]batchResult, error) {
	results := make([]batchResult, len(window))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for i, b := range window {
		g.Go(func() error {
			res, err := hashBatch(gctx, b, hash, opts)
			results[i] = res

			return err
		})
	}

	err := g.Wait()
	if err != nil {
		return nil, err
	}

	return results, nil
}

func hashBatch(ctx context.Context, b *rowio.Batch, hash HashFunc, opts Options) (batchResult, error) {
	ctx, span := opts.Tracer.Start(ctx, "lsh."+opts.Family+".batch",
		trace.WithAttributes(
			attribute.Int("lsh.batch.seq", b.Seq),
			attribute.Int("lsh.batch.rows", b.Len()),
		),
	)
	defer span.End()

	began := time.Now()

	rows, written, err := hash(b)
	if err != nil {
		opts.Metrics.RecordError(ctx, opts.Family, ErrorKind(err))
		failSpan(span, err)

		return batchResult{}, fmt.Errorf("batch %d (rows %d-%d): %w", b.Seq, b.Start, b.Start+b.Len()-1, err)
	}

	signatures, err := hll.New(hll.DefaultPrecision)
	if err != nil {
		return batchResult{}, err
	}

	stats := observability.BatchStats{
		Rows:     len(rows),
		Bands:    written,
		Duration: time.Since(began),
	}

	for _, r := range rows {
		if r.Null() {
			stats.Nulls++

			continue
		}

		signatures.AddTuple(r.Bands)
	}

	opts.Metrics.RecordBatch(ctx, opts.Family, stats)
	opts.Logger.DebugContext(ctx, "batch hashed",
		"family", opts.Family,
		"seq", b.Seq,
		"rows", stats.Rows,
		"nulls", stats.Nulls,
		"bands", written,
		"elapsed", stats.Duration,
	)

	return batchResult{rows: rows, signatures: signatures}, nil
}

// ErrorKind classifies err for the errors metric.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, banding.ErrConfiguration):
		return KindConfiguration
	case errors.Is(err, banding.ErrShapeMismatch):
		return KindShapeMismatch
	case errors.Is(err, banding.ErrUnsupportedInput):
		return KindUnsupportedInput
	default:
		return KindInternal
	}
}

func failSpan(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
