package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return path
}

func fixedPipeline(maxRows int) *Pipeline {
	p := NewPipeline(maxRows)
	p.now = func() time.Time {
		return time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	}
	return p
}

const sampleCSV = "\xEF\xBB\xBFname;link;members\nAlpha;https://t.me/a;100\nBeta;https://t.me/b;N/A\nGamma;https://t.me/c;300\n"

func TestMaterializeTruncatesToRequested(t *testing.T) {
	path := writeSource(t, "tgstat_ru_channels_news.csv", sampleCSV)
	p := fixedPipeline(0)

	art, err := p.Materialize(context.Background(), Request{
		SourcePath: path, Limit: 2, Format: FormatCSV,
	})
	if err != nil {
		t.Fatal(err)
	}
	if art.Records != 2 {
		t.Errorf("records = %d, want 2", art.Records)
	}
}

func TestMaterializeLimitAboveAvailable(t *testing.T) {
	path := writeSource(t, "tgstat_ru_channels_news.csv", sampleCSV)
	p := fixedPipeline(0)

	art, err := p.Materialize(context.Background(), Request{
		SourcePath: path, Limit: 50, Format: FormatCSV,
	})
	if err != nil {
		t.Fatal(err)
	}
	if art.Records != 3 {
		t.Errorf("records = %d, want 3", art.Records)
	}
}

func TestMaterializeAllRecords(t *testing.T) {
	path := writeSource(t, "tgstat_ru_channels_news.csv", sampleCSV)
	p := fixedPipeline(0)

	art, err := p.Materialize(context.Background(), Request{
		SourcePath: path, Limit: AllRecords, Format: FormatCSV,
	})
	if err != nil {
		t.Fatal(err)
	}
	if art.Records != 3 {
		t.Errorf("records = %d, want 3", art.Records)
	}
	if art.Name != "tgstat_ru_channels_news_all_20240315_103000.csv" {
		t.Errorf("name = %q", art.Name)
	}
}

func TestMaterializeRowCap(t *testing.T) {
	path := writeSource(t, "tgstat_ru_channels_news.csv", sampleCSV)
	p := fixedPipeline(1)

	art, err := p.Materialize(context.Background(), Request{
		SourcePath: path, Limit: AllRecords, Format: FormatCSV,
	})
	if err != nil {
		t.Fatal(err)
	}
	if art.Records != 1 {
		t.Errorf("records = %d, want 1", art.Records)
	}
}

func TestMaterializeCSVRoundTrip(t *testing.T) {
	path := writeSource(t, "tgstat_ru_channels_news.csv", sampleCSV)
	p := fixedPipeline(0)

	art, err := p.Materialize(context.Background(), Request{
		SourcePath: path, Limit: AllRecords, Format: FormatCSV,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(art.Content, utf8BOM) {
		t.Fatal("csv artifact missing BOM")
	}

	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(art.Content, utf8BOM)))
	r.Comma = ';'
	rows, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(rows))
	}
	if rows[0][0] != "name" || rows[1][0] != "Alpha" || rows[3][2] != "300" {
		t.Errorf("unexpected rows: %v", rows)
	}
}

func TestMaterializeTXT(t *testing.T) {
	path := writeSource(t, "tgstat_ru_channels_news.csv", sampleCSV)
	p := fixedPipeline(0)

	art, err := p.Materialize(context.Background(), Request{
		SourcePath: path,
		Limit:      2,
		Format:     FormatTXT,
		Labels:     TxtLabels{Record: "Запись", Total: "Всего записей"},
	})
	if err != nil {
		t.Fatal(err)
	}
	out := string(art.Content)

	if !strings.Contains(out, "Запись 1\n") || !strings.Contains(out, "Запись 2\n") {
		t.Error("record headers missing")
	}
	if strings.Contains(out, "Запись 3") {
		t.Error("truncated record rendered")
	}
	if !strings.Contains(out, "name: Alpha\n") || !strings.Contains(out, "members: 100\n") {
		t.Error("field lines missing")
	}
	if strings.Contains(out, "members: N/A") {
		t.Error("N/A value rendered")
	}
	if !strings.Contains(out, "Всего записей: 2\n") {
		t.Error("total block missing")
	}
	if got := strings.Count(out, txtBorder); got != 6 {
		t.Errorf("border count = %d, want 6", got)
	}
	if art.Name != "tgstat_ru_channels_news_2_20240315_103000.txt" {
		t.Errorf("name = %q", art.Name)
	}
}

func TestMaterializeHeaderOnlySource(t *testing.T) {
	path := writeSource(t, "tgstat_ru_chats_books.csv", "name;link\n")
	p := fixedPipeline(0)

	art, err := p.Materialize(context.Background(), Request{
		SourcePath: path, Limit: 10, Format: FormatTXT,
	})
	if err != nil {
		t.Fatal(err)
	}
	if art.Records != 0 {
		t.Errorf("records = %d, want 0", art.Records)
	}
	if !strings.Contains(string(art.Content), "Total records: 0") {
		t.Error("total block missing for empty export")
	}
}

func TestMaterializeErrors(t *testing.T) {
	p := fixedPipeline(0)
	ctx := context.Background()

	if _, err := p.Materialize(ctx, Request{Limit: 1, Format: FormatCSV}); err == nil {
		t.Error("empty source path accepted")
	}
	path := writeSource(t, "x.csv", "a;b\n1;2\n")
	if _, err := p.Materialize(ctx, Request{SourcePath: path, Limit: 1, Format: "pdf"}); err == nil {
		t.Error("unknown format accepted")
	}
	if _, err := p.Materialize(ctx, Request{SourcePath: path, Limit: -5, Format: FormatCSV}); err == nil {
		t.Error("negative limit accepted")
	}
	if _, err := p.Materialize(ctx, Request{SourcePath: filepath.Join(t.TempDir(), "gone.csv"), Limit: 1, Format: FormatCSV}); err == nil {
		t.Error("missing source accepted")
	}
}

func TestParseFormat(t *testing.T) {
	if f, ok := ParseFormat("CSV"); !ok || f != FormatCSV {
		t.Errorf("CSV = %q, %v", f, ok)
	}
	if f, ok := ParseFormat(" txt "); !ok || f != FormatTXT {
		t.Errorf("txt = %q, %v", f, ok)
	}
	if _, ok := ParseFormat("xlsx"); ok {
		t.Error("xlsx accepted")
	}
}
