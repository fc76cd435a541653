package ports

import (
	"context"
	"time"

	"infocurator/internal/domain"
)

// Summarizer produces natural-language summaries through an external
// text-generation service.
type Summarizer interface {
	// SummarizeBatch returns exactly one summary per item, order-preserving.
	// A response of the wrong shape is an error, not a partial result.
	SummarizeBatch(ctx context.Context, items []domain.ScoredItem) ([]string, error)
	GenerateWeeklySummary(ctx context.Context, items []domain.SummarizedItem) (string, error)
}

// SnapshotStore persists run snapshots and computes merged day views.
type SnapshotStore interface {
	SaveSnapshot(items []domain.SummarizedItem, weeklySummary string) (string, error)
	LatestSnapshot() (*domain.Snapshot, error)
	SnapshotsByDate(date string) ([]domain.Snapshot, error)
	MergeDay(date, category string) ([]domain.MergedItem, error)
	WeeklyItems(now time.Time) ([]domain.SummarizedItem, error)
}

// ItemArchive remembers curated item ids across runs so the pipeline can
// skip content it already delivered.
type ItemArchive interface {
	AlreadyCurated(ctx context.Context, ids []string) (map[string]bool, error)
	SaveCurated(ctx context.Context, items []domain.SummarizedItem) error
}

// Notifier reports run outcomes to an external channel.
type Notifier interface {
	NotifyRun(ctx context.Context, n domain.Notification) error
}

// Scheduler triggers pipeline runs. The includeWeekly flag marks runs that
// should also produce the weekly digest.
type Scheduler interface {
	Start(ctx context.Context, job func(trigger time.Time, includeWeekly bool)) error
	Stop(ctx context.Context) error
}
