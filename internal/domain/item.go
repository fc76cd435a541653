package domain

import "time"

// RawItem is one piece of content pulled from a single source by a collector.
// The ID is stable across runs for the same native content (<source>_<nativeId>),
// which is what makes cross-run deduplication possible.
type RawItem struct {
	ID                  string    `json:"id"`
	Title               string    `json:"title"`
	URL                 string    `json:"url"`
	BodyExcerpt         string    `json:"bodyExcerpt,omitempty"`
	EngagementPrimary   int       `json:"engagementPrimary"`
	EngagementSecondary int       `json:"engagementSecondary"`
	Source              string    `json:"source"`
	SubSource           string    `json:"subSource,omitempty"`
	Category            string    `json:"category,omitempty"`
	MatchedKeyword      string    `json:"matchedKeyword,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
	Author              string    `json:"author,omitempty"`
}

// Scores breaks the total quality score into its four dimensions.
// Each sub-score is clamped to its ceiling before summation; Total is in [0,100].
type Scores struct {
	Engagement      int `json:"engagement"`
	Keyword         int `json:"keyword"`
	Trust           int `json:"trust"`
	CrossValidation int `json:"crossValidation"`
	Total           int `json:"total"`
}

// ScoredItem is a RawItem after the scoring engine ran over it.
type ScoredItem struct {
	RawItem
	Scores Scores `json:"scores"`
}

// SummarizedItem carries the generated summary; on persistent summarization
// failure the summary holds FailedSummaryText, never the empty string.
type SummarizedItem struct {
	ScoredItem
	Summary string `json:"summary"`
}

// FailedSummaryText is attached to every item of a batch whose summarization
// attempts were exhausted.
const FailedSummaryText = "Summary could not be generated."

// Snapshot is one persisted pipeline run. Multiple snapshots may exist per
// calendar date, one per scheduled or manually triggered run.
type Snapshot struct {
	CreatedAt     time.Time        `json:"createdAt"`
	Date          string           `json:"date"`
	Hour          string           `json:"hour"`
	Items         []SummarizedItem `json:"items"`
	WeeklySummary string           `json:"weeklySummary,omitempty"`
}

// MergedItem is a snapshot item stamped with the creation time of the
// snapshot it was first seen in. Merged views are computed on read.
type MergedItem struct {
	SummarizedItem
	CollectedAt time.Time `json:"collectedAt"`
}

// CategorySummary reports how many items one category contributed to a run.
type CategorySummary struct {
	Label     string `json:"label"`
	Collected int    `json:"collected"`
}

// PipelineResult is the terminal status of a single run, successful or not.
type PipelineResult struct {
	Success      bool                       `json:"success"`
	Message      string                     `json:"message"`
	Collected    int                        `json:"collected"`
	Selected     int                        `json:"selected"`
	Elapsed      string                     `json:"elapsed,omitempty"`
	SnapshotPath string                     `json:"snapshotPath,omitempty"`
	Categories   map[string]CategorySummary `json:"categories,omitempty"`
	CompletedAt  time.Time                  `json:"completedAt"`
}

// Notification is handed to the notifier after every run.
type Notification struct {
	Collected     int
	Selected      int
	IncludeWeekly bool
	Error         string
	Categories    map[string]CategorySummary
}
