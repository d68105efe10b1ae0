// Package ingest streams a document dataset into the index with bounded
// concurrency: a producer feeds chunks over a channel to N workers that issue
// bulk writes, with a
// single aggregator goroutine owning all counters, so the worker loop stays
// lock-free. A rejected document is recorded and the run continues; losing
// the store connection aborts the remaining stream.
package ingest

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/propstack/propsearch/internal/domain"
	"github.com/propstack/propsearch/internal/metrics"
)

const (
	defaultWorkers   = 4
	defaultChunkSize = 50

	// Coarse progress cadence, observability only.
	successLogEvery = 250
	produceLogEvery = 100
)

// chunk is one contiguous slice of the input handed to a worker.
type chunk struct {
	docs      []domain.Document
	firstLine int // 1-based position of docs[0] in the input
}

// itemResult pairs a per-document store outcome with its input position.
type itemResult struct {
	item domain.BulkItem
	line int
}

// Service runs bulk loads against one target index.
type Service struct {
	store      Store
	index      string
	workers    int
	chunkSize  int
	logger     *zap.Logger
	onProgress func(n int)
}

// New creates an ingestion service with default concurrency.
func New(store Store, index string, logger *zap.Logger) *Service {
	return &Service{
		store:     store,
		index:     index,
		workers:   defaultWorkers,
		chunkSize: defaultChunkSize,
		logger:    logger,
	}
}

// WithConcurrency overrides the worker pool size and bulk chunk size.
func (s *Service) WithConcurrency(workers, chunkSize int) *Service {
	if workers > 0 {
		s.workers = workers
	}
	if chunkSize > 0 {
		s.chunkSize = chunkSize
	}
	return s
}

// WithProgress sets a callback invoked once per accounted document.
func (s *Service) WithProgress(fn func(n int)) *Service {
	s.onProgress = fn
	return s
}

// Run loads every document into the index and reports the outcome. Every
// input record is accounted exactly once: Succeeded+Failed == Attempted
// unless the returned error is non-nil, in which case the store became
// unreachable and the unaccounted remainder was never written.
func (s *Service) Run(ctx context.Context, docs []domain.Document) (domain.IngestReport, error) {
	start := time.Now()
	report := domain.IngestReport{Attempted: len(docs)}

	chunks := make(chan chunk, s.workers*2)
	results := make(chan itemResult, s.workers*s.chunkSize)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < s.workers; i++ {
		g.Go(func() error {
			return s.worker(gctx, chunks, results)
		})
	}

	go s.produce(gctx, docs, chunks)

	var runErr error
	go func() {
		runErr = g.Wait()
		close(results)
	}()

	for r := range results {
		if r.item.OK {
			report.Succeeded++
			metrics.IngestDocsProcessed.WithLabelValues(s.index, "success").Inc()
			if report.Succeeded%successLogEvery == 0 {
				s.logger.Info("documents indexed", zap.Int("succeeded", report.Succeeded))
			}
		} else {
			report.Failed++
			metrics.IngestDocsProcessed.WithLabelValues(s.index, "failure").Inc()
			report.Failures = append(report.Failures, domain.IngestFailure{
				ErrorType:   r.item.ErrorType,
				ErrorReason: r.item.ErrorReason,
				DocID:       r.item.DocID,
				Line:        r.line,
			})
			if report.Failed <= 10 {
				s.logger.Warn("document rejected",
					zap.Int("line", r.line),
					zap.String("error_type", r.item.ErrorType),
					zap.String("error_reason", r.item.ErrorReason),
				)
			} else if report.Failed%100 == 0 {
				s.logger.Warn("rejection count", zap.Int("failed", report.Failed))
			}
		}
		if s.onProgress != nil {
			s.onProgress(1)
		}
	}

	// Completion order across workers is arbitrary; report failures in
	// input order.
	sort.Slice(report.Failures, func(i, j int) bool {
		return report.Failures[i].Line < report.Failures[j].Line
	})

	report.Duration = time.Since(start)

	if runErr != nil {
		return report, fmt.Errorf("bulk load aborted after %d of %d documents: %w",
			report.Succeeded+report.Failed, report.Attempted, runErr)
	}

	// Sanity check against the running counter. Divergence is possible if
	// another process touched the index mid-run; report it, don't reconcile.
	total, err := s.store.Count(ctx, s.index)
	if err != nil {
		s.logger.Warn("final count check failed", zap.Error(err))
	} else {
		report.IndexedTotal = total
		if total != report.Succeeded {
			s.logger.Warn("store count diverges from success counter",
				zap.Int("store_count", total),
				zap.Int("succeeded", report.Succeeded),
			)
		}
	}

	s.logger.Info("bulk load finished",
		zap.Int("attempted", report.Attempted),
		zap.Int("succeeded", report.Succeeded),
		zap.Int("failed", report.Failed),
		zap.Int("indexed_total", report.IndexedTotal),
		zap.Duration("duration", report.Duration),
	)
	return report, nil
}

// produce slices the input into contiguous chunks. Stops early when a worker
// failure cancels the group context.
func (s *Service) produce(ctx context.Context, docs []domain.Document, out chan<- chunk) {
	defer close(out)

	for offset := 0; offset < len(docs); offset += s.chunkSize {
		end := offset + s.chunkSize
		if end > len(docs) {
			end = len(docs)
		}

		select {
		case out <- chunk{docs: docs[offset:end], firstLine: offset + 1}:
		case <-ctx.Done():
			return
		}

		if end%produceLogEvery == 0 {
			s.logger.Debug("documents queued", zap.Int("queued", end))
		}
	}
}

// worker drains chunks and issues bulk writes. A write error is fatal for the
// whole run: it means the store itself is unreachable, not that a document
// was rejected.
func (s *Service) worker(ctx context.Context, chunks <-chan chunk, results chan<- itemResult) error {
	for c := range chunks {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		writeStart := time.Now()
		items, err := s.store.BulkInsert(ctx, s.index, c.docs)
		metrics.IngestChunkDuration.WithLabelValues(s.index).Observe(time.Since(writeStart).Seconds())
		metrics.IngestChunksTotal.WithLabelValues(s.index).Inc()

		if err != nil {
			return fmt.Errorf("bulk write at line %d: %w", c.firstLine, err)
		}

		for i, item := range items {
			select {
			case results <- itemResult{item: item, line: c.firstLine + i}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return nil
}
