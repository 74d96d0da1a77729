// Package catalog maintains the category index derived from the dataset directories.
package catalog

import (
	"encoding/csv"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/parsertg/parsertg/core/logger"

	"log/slog"
)

// DatasetType is a top-level partition of exportable data.
type DatasetType string

const (
	DatasetChats    DatasetType = "chats"
	DatasetChannels DatasetType = "channels"
)

// ParseDatasetType maps a raw token to a dataset type.
func ParseDatasetType(s string) (DatasetType, bool) {
	switch DatasetType(strings.ToLower(strings.TrimSpace(s))) {
	case DatasetChats:
		return DatasetChats, true
	case DatasetChannels:
		return DatasetChannels, true
	}
	return "", false
}

// Entry describes one category backed by a single CSV source file.
type Entry struct {
	Key        string
	SourcePath string
	Records    int
}

// Index scans dataset directories and groups files into categories.
// Listings are recomputed on every call so record counts stay fresh.
type Index struct {
	roots  map[DatasetType]string
	prefix string
}

// NewIndex builds an index over the two dataset directories.
// prefix (without trailing underscore) is stripped from filename stems
// when deriving category keys.
func NewIndex(chatsDir, channelsDir, prefix string) *Index {
	return &Index{
		roots: map[DatasetType]string{
			DatasetChats:    chatsDir,
			DatasetChannels: channelsDir,
		},
		prefix: strings.ToLower(strings.TrimSuffix(prefix, "_")),
	}
}

// List scans the directory for the dataset type and returns categories by key.
// A missing directory yields an empty map; a file that fails to parse yields
// a zero record count instead of failing the whole scan.
func (ix *Index) List(dtype DatasetType) map[string]Entry {
	dir, ok := ix.roots[dtype]
	if !ok {
		return map[string]Entry{}
	}

	entries := map[string]Entry{}
	files, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return entries
	}
	sort.Strings(files)

	for _, path := range files {
		key := ix.deriveKey(filepath.Base(path))
		if key == "" {
			continue
		}
		count, err := countDataRows(path)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				logger.Catalog.Warn("unreadable dataset file",
					slog.String("event", "scan.count"),
					slog.String("path", path),
					slog.String("err", err.Error()),
				)
			}
			count = 0
		}
		if prev, exists := entries[key]; exists {
			// Collision between two filenames mapping to one key: last write wins.
			logger.Catalog.Warn("category key collision",
				slog.String("event", "scan.collision"),
				slog.String("key", key),
				slog.String("kept", path),
				slog.String("shadowed", prev.SourcePath),
			)
		}
		entries[key] = Entry{Key: key, SourcePath: path, Records: count}
	}

	keys, truncated := logger.SummarizeStrings(Keys(entries), 8)
	logger.Catalog.Debug("scan complete",
		slog.String("event", "scan.summary"),
		slog.String("dataset", string(dtype)),
		slog.Int("categories", len(entries)),
		slog.String("keys", keys),
		slog.Bool("keys_truncated", truncated),
	)
	return entries
}

// Lookup returns the entry for key within a dataset type, scanning afresh.
func (ix *Index) Lookup(dtype DatasetType, key string) (Entry, bool) {
	e, ok := ix.List(dtype)[key]
	return e, ok
}

// Keys returns the sorted category keys of a listing.
func Keys(entries map[string]Entry) []string {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// TotalRecords sums the record counts of a listing.
func TotalRecords(entries map[string]Entry) int {
	total := 0
	for _, e := range entries {
		total += e.Records
	}
	return total
}

// deriveKey produces a category key from a CSV filename.
// Prefixed stems like "tgstat_ru_channels_news" yield the last token when the
// stem has enough segments, otherwise the stem minus prefix; an empty result
// falls back to the last underscore-delimited token. Non-prefixed stems are
// used whole.
func (ix *Index) deriveKey(filename string) string {
	stem := strings.ToLower(strings.TrimSuffix(filename, filepath.Ext(filename)))
	if stem == "" {
		return ""
	}
	if ix.prefix == "" || !strings.HasPrefix(stem, ix.prefix+"_") {
		return stem
	}

	parts := strings.Split(stem, "_")
	var key string
	if len(parts) >= 4 {
		key = parts[len(parts)-1]
	} else {
		key = strings.TrimPrefix(stem, ix.prefix+"_")
	}
	if key == "" {
		key = parts[len(parts)-1]
	}
	return key
}

// countDataRows counts CSV data rows, excluding the header line.
func countDataRows(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r := csv.NewReader(newBOMReader(f))
	r.Comma = ';'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	count := -1 // header is not a data row
	for {
		_, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}
		count++
	}
	if count < 0 {
		count = 0
	}
	return count, nil
}

// newBOMReader strips a UTF-8 byte order mark if present.
func newBOMReader(r io.Reader) io.Reader {
	return &bomReader{r: r}
}

type bomReader struct {
	r       io.Reader
	checked bool
	buf     []byte
}

func (b *bomReader) Read(p []byte) (int, error) {
	if !b.checked {
		b.checked = true
		head := make([]byte, 3)
		n, err := io.ReadFull(b.r, head)
		if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
			return 0, err
		}
		head = head[:n]
		if !(n == 3 && head[0] == 0xEF && head[1] == 0xBB && head[2] == 0xBF) {
			b.buf = head
		}
	}
	if len(b.buf) > 0 {
		n := copy(p, b.buf)
		b.buf = b.buf[n:]
		return n, nil
	}
	return b.r.Read(p)
}
