package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDeriveKey(t *testing.T) {
	ix := NewIndex("", "", "tgstat")
	cases := []struct {
		file string
		want string
	}{
		{"tgstat_ru_channels_news.csv", "news"},
		{"tgstat_ru_chats_crypto_2024.csv", "2024"},
		{"tgstat_news.csv", "news"},
		{"tgstat_ru_news.csv", "ru_news"},
		{"plain.csv", "plain"},
		{"Tgstat_RU_Channels_Humor.csv", "humor"},
	}
	for _, tc := range cases {
		if got := ix.deriveKey(tc.file); got != tc.want {
			t.Errorf("deriveKey(%q) = %q, want %q", tc.file, got, tc.want)
		}
	}
}

func TestListCountsDataRows(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tgstat_ru_channels_news.csv",
		"\ufeffname;link;members\nChannel A;https://t.me/a;100\nChannel B;https://t.me/b;200\n")
	writeFile(t, dir, "tgstat_ru_channels_crypto.csv",
		"name;link\nOnly Header Row Below\n")

	ix := NewIndex("", dir, "tgstat")
	entries := ix.List(DatasetChannels)

	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if got := entries["news"].Records; got != 2 {
		t.Errorf("news records = %d, want 2", got)
	}
	if got := entries["crypto"].Records; got != 1 {
		t.Errorf("crypto records = %d, want 1", got)
	}
	if entries["news"].SourcePath == "" {
		t.Error("news source path empty")
	}
}

func TestListMissingDirectory(t *testing.T) {
	ix := NewIndex(filepath.Join(t.TempDir(), "nope"), "", "tgstat")
	entries := ix.List(DatasetChats)
	if len(entries) != 0 {
		t.Fatalf("entries = %d, want 0", len(entries))
	}
}

func TestListEmptyDirectory(t *testing.T) {
	ix := NewIndex(t.TempDir(), "", "tgstat")
	if entries := ix.List(DatasetChats); len(entries) != 0 {
		t.Fatalf("entries = %d, want 0", len(entries))
	}
}

func TestListHeaderOnlyFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tgstat_ru_chats_books.csv", "name;link;members\n")

	ix := NewIndex(dir, "", "tgstat")
	e, ok := ix.Lookup(DatasetChats, "books")
	if !ok {
		t.Fatal("books entry missing")
	}
	if e.Records != 0 {
		t.Errorf("records = %d, want 0", e.Records)
	}
}

func TestListCollisionLastWriteWins(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tgstat_en_channels_news.csv", "name;link\nA;x\n")
	writeFile(t, dir, "tgstat_ru_channels_news.csv", "name;link\nA;x\nB;y\n")

	ix := NewIndex("", dir, "tgstat")
	entries := ix.List(DatasetChannels)
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	// Glob results are sorted, so the ru file is scanned last and wins.
	if got := entries["news"].Records; got != 2 {
		t.Errorf("news records = %d, want 2", got)
	}
}

func TestTotalRecordsAndKeys(t *testing.T) {
	entries := map[string]Entry{
		"b": {Key: "b", Records: 3},
		"a": {Key: "a", Records: 5},
	}
	if got := TotalRecords(entries); got != 8 {
		t.Errorf("TotalRecords = %d, want 8", got)
	}
	keys := Keys(entries)
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Errorf("Keys = %v, want [a b]", keys)
	}
}

func TestParseDatasetType(t *testing.T) {
	if dt, ok := ParseDatasetType("Chats"); !ok || dt != DatasetChats {
		t.Errorf("Chats = %q, %v", dt, ok)
	}
	if dt, ok := ParseDatasetType(" channels "); !ok || dt != DatasetChannels {
		t.Errorf("channels = %q, %v", dt, ok)
	}
	if _, ok := ParseDatasetType("groups"); ok {
		t.Error("groups accepted")
	}
}
