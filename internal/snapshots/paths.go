package snapshots

import "path/filepath"

const boardDir = "board"

// BoardSnapshotPath returns the on-disk location of a board snapshot for a date.
func BoardSnapshotPath(basePath, date string) string {
	return filepath.Join(basePath, boardDir, date+".json")
}
