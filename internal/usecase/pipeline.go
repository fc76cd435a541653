// Package usecase contains the run orchestration: collection fan-out,
// scoring, selection, summarization and persistence for one pipeline run.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"infocurator/internal/config"
	"infocurator/internal/domain"
	"infocurator/internal/metrics"
	"infocurator/internal/ports"
	"infocurator/internal/scoring"
	"infocurator/internal/source"
	"infocurator/internal/summarize"
)

// ErrAlreadyRunning is returned when a run is triggered while another run
// holds the pipeline. Concurrent runs are rejected, never queued.
var ErrAlreadyRunning = errors.New("pipeline run already in progress")

// RunOptions narrows a run. A CategoryID limits collection to one category;
// IncludeWeekly additionally produces the weekly digest.
type RunOptions struct {
	CategoryID    string
	IncludeWeekly bool
}

// Pipeline executes the full curation sequence. Only one run may be active
// per instance; the guard is instance state, not package state.
type Pipeline struct {
	cfg      config.Config
	registry *source.Registry
	engine   *scoring.Engine
	batcher  *summarize.Batcher
	store    ports.SnapshotStore
	archive  ports.ItemArchive
	notifier ports.Notifier
	metrics  *metrics.Metrics
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
	lastRun *domain.PipelineResult
}

// Deps bundles the pipeline collaborators. Archive and Notifier may be nil;
// both concerns are best-effort and never fail a run.
type Deps struct {
	Config   config.Config
	Registry *source.Registry
	Engine   *scoring.Engine
	Batcher  *summarize.Batcher
	Store    ports.SnapshotStore
	Archive  ports.ItemArchive
	Notifier ports.Notifier
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
}

func NewPipeline(d Deps) *Pipeline {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m := d.Metrics
	if m == nil {
		m = metrics.New()
	}
	return &Pipeline{
		cfg:      d.Config,
		registry: d.Registry,
		engine:   d.Engine,
		batcher:  d.Batcher,
		store:    d.Store,
		archive:  d.Archive,
		notifier: d.Notifier,
		metrics:  m,
		logger:   logger.With("component", "pipeline"),
	}
}

// Status reports whether a run is active and the outcome of the last one.
func (p *Pipeline) Status() (bool, *domain.PipelineResult) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running, p.lastRun
}

// Run executes one full pipeline pass. It is safe to call from multiple
// goroutines; all but the first caller get ErrAlreadyRunning.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (domain.PipelineResult, error) {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		p.metrics.RecordRunRejected()
		return domain.PipelineResult{}, ErrAlreadyRunning
	}
	p.running = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
	}()

	p.metrics.RecordRunStart()
	started := time.Now()

	result, err := p.run(ctx, opts)
	result.Elapsed = time.Since(started).Round(time.Millisecond).String()
	result.CompletedAt = time.Now()

	p.metrics.RecordRunEnd(result.Collected, result.Selected, time.Since(started), err)

	p.mu.Lock()
	snapshot := result
	p.lastRun = &snapshot
	p.mu.Unlock()

	if err != nil {
		p.notify(ctx, domain.Notification{
			Collected:  result.Collected,
			Selected:   result.Selected,
			Error:      err.Error(),
			Categories: result.Categories,
		})
		return result, err
	}

	p.notify(ctx, domain.Notification{
		Collected:     result.Collected,
		Selected:      result.Selected,
		IncludeWeekly: opts.IncludeWeekly && result.Success,
		Categories:    result.Categories,
	})
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, opts RunOptions) (domain.PipelineResult, error) {
	categories, err := p.categories(opts.CategoryID)
	if err != nil {
		return domain.PipelineResult{Message: err.Error()}, err
	}

	result := domain.PipelineResult{
		Categories: make(map[string]domain.CategorySummary, len(categories)),
	}

	// Categories run sequentially; only the sources inside one category
	// fan out concurrently.
	var scored []domain.ScoredItem
	for _, cat := range categories {
		items := p.collectCategory(ctx, cat)
		result.Collected += len(items)
		result.Categories[cat.ID] = domain.CategorySummary{
			Label:     cat.Label,
			Collected: len(items),
		}

		catScored := p.engine.Score(items, cat.Keywords)
		threshold := scoring.EffectiveThreshold(cat.Threshold, !cat.Themed())
		passed := 0
		for _, item := range catScored {
			if item.Scores.Total >= threshold {
				scored = append(scored, item)
				passed++
			}
		}
		p.logger.Info("category processed",
			"category", cat.ID, "collected", len(items),
			"threshold", threshold, "passed", passed)
	}

	if result.Collected == 0 {
		p.logger.Warn("no content collected, skipping snapshot")
		result.Success = true
		result.Message = "no content collected"
		return result, nil
	}

	scored = p.dropAlreadyCurated(ctx, scored)

	// Per-category thresholds were already applied, so the global pass
	// only enforces the diversity quota and the overall cap.
	selected := scoring.Select(scored, scoring.SelectionConfig{
		Threshold:    0,
		MaxArticles:  p.cfg.Scoring.MaxArticles,
		MaxPerSource: p.cfg.Scoring.MaxPerSource,
	})
	result.Selected = len(selected)

	if len(selected) == 0 {
		p.logger.Info("nothing passed selection, skipping snapshot",
			"collected", result.Collected)
		result.Success = true
		result.Message = "nothing passed selection"
		return result, nil
	}

	summarized := p.batcher.Summarize(ctx, selected)
	failed := 0
	for _, item := range summarized {
		if item.Summary == domain.FailedSummaryText {
			failed++
		}
	}
	if failed > 0 {
		p.metrics.AddSummaryFailures(failed)
	}

	weeklySummary := ""
	if opts.IncludeWeekly {
		weeklySummary = p.weeklySummary(ctx)
	}

	path, err := p.store.SaveSnapshot(summarized, weeklySummary)
	if err != nil {
		return result, fmt.Errorf("save snapshot: %w", err)
	}
	result.SnapshotPath = path

	if p.archive != nil {
		if err := p.archive.SaveCurated(ctx, summarized); err != nil {
			p.logger.Warn("archiving curated items failed", "error", err)
		}
	}

	result.Success = true
	result.Message = fmt.Sprintf("curated %d of %d items", result.Selected, result.Collected)
	p.logger.Info("run complete",
		"collected", result.Collected, "selected", result.Selected,
		"summary_failures", failed, "snapshot", path)
	return result, nil
}

func (p *Pipeline) categories(id string) ([]config.CategoryConfig, error) {
	if id == "" {
		return p.cfg.Categories, nil
	}
	for _, cat := range p.cfg.Categories {
		if cat.ID == id {
			return []config.CategoryConfig{cat}, nil
		}
	}
	return nil, fmt.Errorf("unknown category %q", id)
}

// collectCategory fans out one goroutine per assigned source and waits for
// all of them. A failing or panicking source contributes nothing but never
// aborts its siblings.
func (p *Pipeline) collectCategory(ctx context.Context, cat config.CategoryConfig) []domain.RawItem {
	query := source.Query{Keywords: cat.Keywords, Exclude: cat.Exclude}

	type slot struct {
		items []domain.RawItem
		err   error
	}
	slots := make([]slot, len(cat.Sources))

	var wg sync.WaitGroup
	for i, name := range cat.Sources {
		collector, err := p.registry.Resolve(name)
		if err != nil {
			slots[i].err = err
			continue
		}

		wg.Add(1)
		go func(i int, c source.Collector) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					slots[i].err = fmt.Errorf("collector panicked: %v", r)
				}
			}()
			slots[i].items, slots[i].err = c.Collect(ctx, query)
		}(i, collector)
	}
	wg.Wait()

	var items []domain.RawItem
	for i, s := range slots {
		if s.err != nil {
			p.logger.Error("source collection failed",
				"category", cat.ID, "source", cat.Sources[i], "error", s.err)
			continue
		}
		for _, item := range s.items {
			item.Category = cat.ID
			items = append(items, item)
		}
	}
	return items
}

// dropAlreadyCurated filters out items the archive has seen in earlier
// runs. The archive is best-effort: on lookup failure everything passes.
func (p *Pipeline) dropAlreadyCurated(ctx context.Context, items []domain.ScoredItem) []domain.ScoredItem {
	if p.archive == nil || len(items) == 0 {
		return items
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	seen, err := p.archive.AlreadyCurated(ctx, ids)
	if err != nil {
		p.logger.Warn("curated lookup failed, keeping all items", "error", err)
		return items
	}
	if len(seen) == 0 {
		return items
	}

	kept := items[:0]
	for _, item := range items {
		if seen[item.ID] {
			continue
		}
		kept = append(kept, item)
	}
	p.logger.Info("dropped already curated items", "dropped", len(items)-len(kept))
	return kept
}

func (p *Pipeline) weeklySummary(ctx context.Context) string {
	items, err := p.store.WeeklyItems(time.Now())
	if err != nil {
		p.logger.Warn("loading weekly items failed", "error", err)
		return ""
	}
	return p.batcher.WeeklySummary(ctx, items)
}

func (p *Pipeline) notify(ctx context.Context, n domain.Notification) {
	if p.notifier == nil {
		return
	}
	if err := p.notifier.NotifyRun(ctx, n); err != nil {
		p.logger.Warn("notification failed", "error", err)
	}
}
