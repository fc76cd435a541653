package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"infocurator/internal/domain"
	"infocurator/internal/ports"
	"infocurator/internal/retry"
)

const (
	// DefaultBatchSize keeps prompts small enough for reliable
	// array-shaped responses.
	DefaultBatchSize = 3

	defaultMaxAttempts = 3
	defaultRetryDelay  = time.Second

	weeklyTopItems = 20
)

// Batcher turns selected items into summarized items through an external
// text-generation call, batch by batch. Batches run sequentially to bound
// concurrent load on the summarization service; a batch that keeps failing
// gets sentinel summaries and never blocks the remaining batches.
type Batcher struct {
	summarizer  ports.Summarizer
	batchSize   int
	maxAttempts int
	retryDelay  time.Duration
	logger      *slog.Logger
}

func NewBatcher(summarizer ports.Summarizer, batchSize, maxAttempts int, retryDelay time.Duration, logger *slog.Logger) *Batcher {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if retryDelay <= 0 {
		retryDelay = defaultRetryDelay
	}
	return &Batcher{
		summarizer:  summarizer,
		batchSize:   batchSize,
		maxAttempts: maxAttempts,
		retryDelay:  retryDelay,
		logger:      logger,
	}
}

// Summarize processes items in input order and returns one SummarizedItem
// per input item. It never fails as a whole; failure is isolated per batch.
func (b *Batcher) Summarize(ctx context.Context, items []domain.ScoredItem) []domain.SummarizedItem {
	results := make([]domain.SummarizedItem, 0, len(items))

	for start := 0; start < len(items); start += b.batchSize {
		end := start + b.batchSize
		if end > len(items) {
			end = len(items)
		}
		batch := items[start:end]

		summaries, err := b.summarizeBatch(ctx, batch)
		if err != nil {
			b.log().Error("batch summarization failed",
				"batch_start", start, "size", len(batch), "error", err)
			for _, item := range batch {
				results = append(results, domain.SummarizedItem{
					ScoredItem: item,
					Summary:    domain.FailedSummaryText,
				})
			}
			continue
		}

		for i, item := range batch {
			summary := summaries[i]
			if summary == "" {
				summary = domain.FailedSummaryText
			}
			results = append(results, domain.SummarizedItem{ScoredItem: item, Summary: summary})
		}
		b.log().Info("batch summarized", "batch_start", start, "size", len(batch))
	}

	return results
}

// summarizeBatch requests summaries with bounded retries and linearly
// increasing backoff. A response with the wrong number of summaries counts
// as a failure and feeds the same retry path as a transport error.
func (b *Batcher) summarizeBatch(ctx context.Context, batch []domain.ScoredItem) ([]string, error) {
	var summaries []string
	cfg := retry.Config{MaxAttempts: b.maxAttempts, Delay: b.retryDelay, Linear: true}

	err := retry.Do(ctx, cfg, func() error {
		out, err := b.summarizer.SummarizeBatch(ctx, batch)
		if err != nil {
			return err
		}
		if len(out) != len(batch) {
			return fmt.Errorf("got %d summaries for %d items", len(out), len(batch))
		}
		summaries = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

// WeeklySummary condenses the top items of the trailing week into one
// digest. It degrades to an empty string on failure; the weekly digest is
// an optional extra and never fails a run.
func (b *Batcher) WeeklySummary(ctx context.Context, items []domain.SummarizedItem) string {
	if len(items) == 0 {
		return ""
	}

	top := make([]domain.SummarizedItem, len(items))
	copy(top, items)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Scores.Total > top[j].Scores.Total
	})
	if len(top) > weeklyTopItems {
		top = top[:weeklyTopItems]
	}

	summary, err := b.summarizer.GenerateWeeklySummary(ctx, top)
	if err != nil {
		b.log().Error("weekly summary failed", "items", len(top), "error", err)
		return ""
	}
	return summary
}

func (b *Batcher) log() *slog.Logger {
	if b.logger != nil {
		return b.logger
	}
	return slog.Default()
}
