package snapshots

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"academy-match-service/internal/timeutil"
)

// Writer persists board snapshots with retention pruning. Writes are atomic
// (tmp file + rename) and skipped when the content is byte-identical to what
// is already on disk.
type Writer struct {
	basePath      string
	retentionDays int
}

// NewWriter constructs a writer rooted at basePath with a rolling window retention.
func NewWriter(basePath string, retentionDays int) *Writer {
	if retentionDays <= 0 {
		retentionDays = 7
	}
	return &Writer{
		basePath:      basePath,
		retentionDays: retentionDays,
	}
}

// BasePath exposes the writer root path (primarily for testing).
func (w *Writer) BasePath() string {
	if w == nil {
		return ""
	}
	return w.basePath
}

// WriteBoardSnapshot writes the snapshot for the given date (YYYY-MM-DD) and
// prunes snapshots older than the retention window.
func (w *Writer) WriteBoardSnapshot(date string, snapshot BoardSnapshot) error {
	if w == nil {
		return fmt.Errorf("snapshot writer not configured")
	}
	if date == "" {
		return fmt.Errorf("date required")
	}
	if snapshot.Date == "" {
		snapshot.Date = date
	}
	sort.Slice(snapshot.Requests, func(i, j int) bool {
		return snapshot.Requests[i].ID < snapshot.Requests[j].ID
	})

	target := BoardSnapshotPath(w.basePath, date)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}
	if existing, err := os.ReadFile(target); err == nil && bytes.Equal(existing, data) {
		return nil
	}

	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, target); err != nil {
		return err
	}

	return w.prune()
}

func (w *Writer) prune() error {
	dates, err := listDates(w.basePath)
	if err != nil {
		return err
	}
	if len(dates) <= w.retentionDays {
		return nil
	}
	sort.Strings(dates)
	for _, stale := range dates[:len(dates)-w.retentionDays] {
		if err := os.Remove(BoardSnapshotPath(w.basePath, stale)); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

func listDates(basePath string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(basePath, boardDir))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	var dates []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if filepath.Ext(name) != ".json" {
			continue
		}
		date := name[:len(name)-len(".json")]
		if _, err := timeutil.ParseDate(date); err != nil {
			continue
		}
		dates = append(dates, date)
	}
	return dates, nil
}
