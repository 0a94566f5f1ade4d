package snapshots

import (
	"encoding/json"
	"errors"
	"os"
	"sort"
)

// ErrNoSnapshot is returned when no persisted board snapshot exists.
var ErrNoSnapshot = errors.New("no board snapshot on disk")

// FSStore reads persisted board snapshots back, used to warm-boot the store
// so the service serves stale-but-available data before the first poll lands.
type FSStore struct {
	basePath string
}

// NewFSStore constructs a reader rooted at basePath.
func NewFSStore(basePath string) *FSStore {
	return &FSStore{basePath: basePath}
}

// LoadBoard loads the snapshot for a specific date.
func (s *FSStore) LoadBoard(date string) (BoardSnapshot, error) {
	data, err := os.ReadFile(BoardSnapshotPath(s.basePath, date))
	if err != nil {
		if os.IsNotExist(err) {
			return BoardSnapshot{}, ErrNoSnapshot
		}
		return BoardSnapshot{}, err
	}
	var snap BoardSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return BoardSnapshot{}, err
	}
	return snap, nil
}

// LoadLatest loads the most recent snapshot on disk, if any.
func (s *FSStore) LoadLatest() (BoardSnapshot, error) {
	dates, err := listDates(s.basePath)
	if err != nil {
		return BoardSnapshot{}, err
	}
	if len(dates) == 0 {
		return BoardSnapshot{}, ErrNoSnapshot
	}
	sort.Strings(dates)
	return s.LoadBoard(dates[len(dates)-1])
}
