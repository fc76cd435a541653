package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"infocurator/internal/domain"
	"infocurator/internal/ports"
)

const (
	dateLayout = "2006-01-02"
	hourLayout = "15"

	weeklyWindow = 7 * 24 * time.Hour
)

// FileStore persists one JSON snapshot per pipeline run, named
// <date>_<hour>.json in the configured timezone, and computes merged day
// views on read. Snapshots are immutable once written.
type FileStore struct {
	dir      string
	location *time.Location
	logger   *slog.Logger
	now      func() time.Time
}

var _ ports.SnapshotStore = (*FileStore)(nil)

func NewFileStore(dir string, location *time.Location, logger *slog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	if location == nil {
		location = time.UTC
	}
	return &FileStore{
		dir:      dir,
		location: location,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// SaveSnapshot writes the run output and returns the file path.
func (s *FileStore) SaveSnapshot(items []domain.SummarizedItem, weeklySummary string) (string, error) {
	now := s.now().In(s.location)
	snapshot := domain.Snapshot{
		CreatedAt:     now,
		Date:          now.Format(dateLayout),
		Hour:          now.Format(hourLayout),
		Items:         items,
		WeeklySummary: weeklySummary,
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	path := filepath.Join(s.dir, fmt.Sprintf("%s_%s.json", snapshot.Date, snapshot.Hour))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	s.log().Info("snapshot saved", "path", path, "items", len(items))
	return path, nil
}

// LatestSnapshot returns the most recent readable snapshot, or nil when
// none exist.
func (s *FileStore) LatestSnapshot() (*domain.Snapshot, error) {
	files, err := s.snapshotFiles("")
	if err != nil {
		return nil, err
	}

	for i := len(files) - 1; i >= 0; i-- {
		snapshot, err := s.readSnapshot(files[i])
		if err != nil {
			s.log().Warn("skipping unreadable snapshot", "path", files[i], "error", err)
			continue
		}
		return snapshot, nil
	}
	return nil, nil
}

// SnapshotsByDate returns all readable snapshots for one calendar date in
// file order (earliest run first). Corrupt files are skipped with a warning.
func (s *FileStore) SnapshotsByDate(date string) ([]domain.Snapshot, error) {
	files, err := s.snapshotFiles(date)
	if err != nil {
		return nil, err
	}

	snapshots := make([]domain.Snapshot, 0, len(files))
	for _, path := range files {
		snapshot, err := s.readSnapshot(path)
		if err != nil {
			s.log().Warn("skipping unreadable snapshot", "path", path, "error", err)
			continue
		}
		snapshots = append(snapshots, *snapshot)
	}
	return snapshots, nil
}

// MergeDay combines all snapshots of one date into a single deduplicated
// view: items are stamped with their snapshot's creation time, duplicates
// by id keep the earliest run's version, an optional category filter is
// applied after dedup, and the result is re-sorted by total score.
func (s *FileStore) MergeDay(date, category string) ([]domain.MergedItem, error) {
	snapshots, err := s.SnapshotsByDate(date)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	merged := make([]domain.MergedItem, 0)
	for _, snapshot := range snapshots {
		for _, item := range snapshot.Items {
			if _, dup := seen[item.ID]; dup {
				continue
			}
			seen[item.ID] = struct{}{}
			merged = append(merged, domain.MergedItem{
				SummarizedItem: item,
				CollectedAt:    snapshot.CreatedAt,
			})
		}
	}

	if category != "" {
		filtered := merged[:0]
		for _, item := range merged {
			if item.Category == category {
				filtered = append(filtered, item)
			}
		}
		merged = filtered
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Scores.Total > merged[j].Scores.Total
	})

	return merged, nil
}

// WeeklyItems returns all items from snapshots created within the trailing
// seven days.
func (s *FileStore) WeeklyItems(now time.Time) ([]domain.SummarizedItem, error) {
	files, err := s.snapshotFiles("")
	if err != nil {
		return nil, err
	}

	cutoff := now.Add(-weeklyWindow)
	var items []domain.SummarizedItem
	for _, path := range files {
		snapshot, err := s.readSnapshot(path)
		if err != nil {
			s.log().Warn("skipping unreadable snapshot", "path", path, "error", err)
			continue
		}
		if snapshot.CreatedAt.Before(cutoff) {
			continue
		}
		items = append(items, snapshot.Items...)
	}
	return items, nil
}

// snapshotFiles lists snapshot paths sorted by name; the date_hour naming
// makes lexical order chronological. A non-empty prefix narrows to one date.
func (s *FileStore) snapshotFiles(prefix string) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read data directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		if prefix != "" && !strings.HasPrefix(name, prefix) {
			continue
		}
		files = append(files, filepath.Join(s.dir, name))
	}
	sort.Strings(files)
	return files, nil
}

func (s *FileStore) readSnapshot(path string) (*domain.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var snapshot domain.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snapshot, nil
}

func (s *FileStore) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}
