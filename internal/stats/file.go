package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

// fileState is the on-disk JSON shape.
type fileState struct {
	Users     map[string]string `json:"users"`
	Downloads int64             `json:"downloads"`
}

// FileStore persists counters to a single JSON file. Every mutation rewrites
// the file atomically via a temp file and rename.
type FileStore struct {
	path string

	mu    sync.Mutex
	state fileState
	now   func() time.Time
}

// NewFileStore loads (or initializes) the counters file at path.
func NewFileStore(path string) (*FileStore, error) {
	st := &FileStore{
		path:  path,
		state: fileState{Users: make(map[string]string)},
		now:   time.Now,
	}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// First run, file is created on the first write.
	case err != nil:
		return nil, fmt.Errorf("stats: read %s: %w", path, err)
	default:
		if err := json.Unmarshal(raw, &st.state); err != nil {
			return nil, fmt.Errorf("stats: parse %s: %w", path, err)
		}
		if st.state.Users == nil {
			st.state.Users = make(map[string]string)
		}
	}
	return st, nil
}

func (f *FileStore) RecordUserSeen(ctx context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := strconv.FormatInt(userID, 10)
	today := f.now().Format(dateLayout)
	if f.state.Users[key] == today {
		return nil
	}
	f.state.Users[key] = today
	return f.persistLocked()
}

func (f *FileStore) IncrementDownloads(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Downloads++
	return f.persistLocked()
}

func (f *FileStore) Snapshot(ctx context.Context) (Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	today := f.now().Format(dateLayout)
	snap := Snapshot{
		TotalUsers:     int64(len(f.state.Users)),
		TotalDownloads: f.state.Downloads,
	}
	for _, day := range f.state.Users {
		if day == today {
			snap.ActiveToday++
		}
	}
	return snap, nil
}

func (f *FileStore) Close() error { return nil }

func (f *FileStore) persistLocked() error {
	raw, err := json.MarshalIndent(f.state, "", "  ")
	if err != nil {
		return fmt.Errorf("stats: marshal: %w", err)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".stats-*.json")
	if err != nil {
		return fmt.Errorf("stats: temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("stats: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("stats: close: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("stats: rename: %w", err)
	}
	return nil
}
