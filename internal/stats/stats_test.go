package stats

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func fixedClock(day string) func() time.Time {
	t, _ := time.Parse(dateLayout, day)
	return func() time.Time { return t }
}

func TestMemoryStoreCounters(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	m.now = fixedClock("2024-03-15")

	for _, id := range []int64{1, 2, 2, 3} {
		if err := m.RecordUserSeen(ctx, id); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < 5; i++ {
		if err := m.IncrementDownloads(ctx); err != nil {
			t.Fatal(err)
		}
	}

	snap, err := m.Snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if snap.TotalUsers != 3 || snap.ActiveToday != 3 || snap.TotalDownloads != 5 {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestMemoryStoreActiveTodayExpires(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	m.now = fixedClock("2024-03-14")
	if err := m.RecordUserSeen(ctx, 1); err != nil {
		t.Fatal(err)
	}

	m.now = fixedClock("2024-03-15")
	if err := m.RecordUserSeen(ctx, 2); err != nil {
		t.Fatal(err)
	}

	snap, _ := m.Snapshot(ctx)
	if snap.TotalUsers != 2 || snap.ActiveToday != 1 {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestFileStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "bot_stats.json")

	st, err := NewFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	st.now = fixedClock("2024-03-15")

	if err := st.RecordUserSeen(ctx, 100); err != nil {
		t.Fatal(err)
	}
	if err := st.RecordUserSeen(ctx, 200); err != nil {
		t.Fatal(err)
	}
	if err := st.IncrementDownloads(ctx); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	reopened.now = fixedClock("2024-03-15")

	snap, err := reopened.Snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if snap.TotalUsers != 2 || snap.ActiveToday != 2 || snap.TotalDownloads != 1 {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestFileStoreSkipsRedundantWrites(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "bot_stats.json")

	st, err := NewFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	st.now = fixedClock("2024-03-15")

	if err := st.RecordUserSeen(ctx, 1); err != nil {
		t.Fatal(err)
	}
	info1, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}

	// Same user, same day: no rewrite.
	if err := st.RecordUserSeen(ctx, 1); err != nil {
		t.Fatal(err)
	}
	info2, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if !info1.ModTime().Equal(info2.ModTime()) || info1.Size() != info2.Size() {
		t.Error("redundant RecordUserSeen rewrote the file")
	}
}

func TestFileStoreFileShape(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "bot_stats.json")

	st, err := NewFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	st.now = fixedClock("2024-03-15")

	if err := st.RecordUserSeen(ctx, 42); err != nil {
		t.Fatal(err)
	}
	if err := st.IncrementDownloads(ctx); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var state fileState
	if err := json.Unmarshal(raw, &state); err != nil {
		t.Fatal(err)
	}
	if state.Users["42"] != "2024-03-15" {
		t.Errorf("users = %v", state.Users)
	}
	if state.Downloads != 1 {
		t.Errorf("downloads = %d", state.Downloads)
	}
}

func TestFileStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot_stats.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileStore(path); err == nil {
		t.Error("corrupt file accepted")
	}
}
