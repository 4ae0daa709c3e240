// Package pipeline orchestrates classification end to end: intent, entity
// extraction and enhancement, action suggestion, ranking, and confidence.
package pipeline

import (
	"context"
	"time"

	"github.com/go-pkgz/pool"
	"github.com/rs/zerolog"

	"triage_server/core/domain"
)

// =============================================================================
// Batch Classification
// =============================================================================

const defaultBatchConcurrency = 8

// batchItem carries one email through the worker group with its slot in the
// result slice. Each slot is written by exactly one worker.
type batchItem struct {
	index   int
	email   *domain.EmailInput
	results []*domain.Classification
}

// batchWorker classifies one item. A per-item panic is already absorbed by
// Pipeline.Classify, so Do only records the result.
type batchWorker struct {
	pipeline *Pipeline
}

func (w *batchWorker) Do(ctx context.Context, item *batchItem) error {
	item.results[item.index] = w.pipeline.Classify(ctx, item.email)
	return nil
}

// BatchClassifier fans a batch of emails over a bounded worker group.
// Results keep the input order; one bad email never poisons its neighbors.
type BatchClassifier struct {
	pipeline    *Pipeline
	concurrency int
	log         zerolog.Logger
}

// NewBatchClassifier creates a batch classifier over the pipeline.
func NewBatchClassifier(p *Pipeline, concurrency int, log zerolog.Logger) *BatchClassifier {
	if concurrency <= 0 {
		concurrency = defaultBatchConcurrency
	}
	return &BatchClassifier{
		pipeline:    p,
		concurrency: concurrency,
		log:         log.With().Str("component", "batch_classifier").Logger(),
	}
}

// ClassifyBatch classifies every email concurrently and returns results in
// input order. Nil entries classify to the validation-error outcome like any
// other invalid input.
func (b *BatchClassifier) ClassifyBatch(ctx context.Context, emails []*domain.EmailInput) []*domain.Classification {
	results := make([]*domain.Classification, len(emails))
	if len(emails) == 0 {
		return results
	}

	start := time.Now()

	workers := b.concurrency
	if workers > len(emails) {
		workers = len(emails)
	}

	group := pool.New[*batchItem](workers, &batchWorker{pipeline: b.pipeline}).
		WithContinueOnError()

	if err := group.Go(ctx); err != nil {
		b.log.Error().Err(err).Msg("worker group failed to start, classifying serially")
		for i, email := range emails {
			results[i] = b.pipeline.Classify(ctx, email)
		}
		return results
	}

	for i, email := range emails {
		group.Submit(&batchItem{index: i, email: email, results: results})
	}

	if err := group.Close(ctx); err != nil {
		b.log.Warn().Err(err).Msg("worker group closed with error")
	}

	// A cancelled context can leave unprocessed slots; fill them with the
	// guaranteed fallback shape instead of nil.
	for i := range results {
		if results[i] == nil {
			results[i] = fallbackClassification(errMarkerPipeline)
		}
	}

	b.log.Info().
		Int("count", len(emails)).
		Int("workers", workers).
		Dur("elapsed", time.Since(start)).
		Msg("batch classified")

	return results
}
