// Package export materializes dataset slices into downloadable CSV or TXT files.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/parsertg/parsertg/core/logger"

	"log/slog"
)

// Format selects the output file format.
type Format string

const (
	FormatCSV Format = "csv"
	FormatTXT Format = "txt"
)

// AllRecords requests every available data row.
const AllRecords = -1

// txtBorder separates records in the TXT rendering.
var txtBorder = strings.Repeat("=", 60)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseFormat maps a raw token to a known format.
func ParseFormat(s string) (Format, bool) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, true
	case FormatTXT:
		return FormatTXT, true
	}
	return "", false
}

// TxtLabels carries the localized strings used in the TXT rendering.
type TxtLabels struct {
	Record string
	Total  string
}

// Request describes a single export.
type Request struct {
	SourcePath string
	Limit      int // AllRecords or a positive row cap
	Format     Format
	Labels     TxtLabels
}

// Artifact is a fully rendered export ready for delivery.
type Artifact struct {
	Format  Format
	Name    string
	Content []byte
	Records int
}

// Pipeline reads source CSV files and renders export artifacts.
type Pipeline struct {
	maxRows int
	now     func() time.Time
}

// NewPipeline builds a pipeline with a hard cap on rows per export.
func NewPipeline(maxRows int) *Pipeline {
	return &Pipeline{maxRows: maxRows, now: time.Now}
}

// Materialize reads the request's source file, truncates it to the requested
// limit and renders the artifact. The exported row count is always
// min(requested, available), further bounded by the pipeline's row cap.
func (p *Pipeline) Materialize(ctx context.Context, req Request) (*Artifact, error) {
	if req.SourcePath == "" {
		return nil, fmt.Errorf("export: empty source path")
	}
	if req.Format != FormatCSV && req.Format != FormatTXT {
		return nil, fmt.Errorf("export: unknown format %q", req.Format)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	header, rows, err := readSource(req.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("export: read %s: %w", filepath.Base(req.SourcePath), err)
	}

	limit := req.Limit
	if limit == AllRecords || limit > len(rows) {
		limit = len(rows)
	}
	if limit < 0 {
		return nil, fmt.Errorf("export: invalid limit %d", req.Limit)
	}
	if p.maxRows > 0 && limit > p.maxRows {
		limit = p.maxRows
	}
	rows = rows[:limit]

	var content []byte
	switch req.Format {
	case FormatCSV:
		content, err = renderCSV(header, rows)
	case FormatTXT:
		content, err = renderTXT(header, rows, req.Labels)
	}
	if err != nil {
		return nil, err
	}

	art := &Artifact{
		Format:  req.Format,
		Name:    p.artifactName(req),
		Content: content,
		Records: len(rows),
	}

	logger.Export.Info("artifact ready",
		slog.String("event", "materialize"),
		slog.String("name", art.Name),
		slog.Int("records", art.Records),
		slog.Int("bytes", len(art.Content)),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	return art, nil
}

// artifactName builds "<stem>_<limit|all>_<timestamp>.<ext>".
func (p *Pipeline) artifactName(req Request) string {
	base := filepath.Base(req.SourcePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	limitToken := "all"
	if req.Limit != AllRecords {
		limitToken = strconv.Itoa(req.Limit)
	}
	stamp := p.now().Format("20060102_150405")
	return fmt.Sprintf("%s_%s_%s.%s", stem, limitToken, stamp, req.Format)
}

// readSource parses a ';'-delimited CSV file, tolerating a UTF-8 BOM.
// The first row is treated as the header.
func readSource(path string) (header []string, rows [][]string, err error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)

	r := csv.NewReader(bytes.NewReader(raw))
	r.Comma = ';'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	all, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(all) == 0 {
		return nil, nil, nil
	}
	return all[0], all[1:], nil
}

// renderCSV writes the header and rows back out with a leading BOM so the
// file opens correctly in spreadsheet tools.
func renderCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	w.Comma = ';'
	if len(header) > 0 {
		if err := w.Write(header); err != nil {
			return nil, err
		}
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// renderTXT renders each record as a bordered block of "field: value" lines.
// Empty and "N/A" values are skipped. A final block reports the total.
func renderTXT(header []string, rows [][]string, labels TxtLabels) ([]byte, error) {
	recordLabel := labels.Record
	if recordLabel == "" {
		recordLabel = "Record"
	}
	totalLabel := labels.Total
	if totalLabel == "" {
		totalLabel = "Total records"
	}

	var b strings.Builder
	for i, row := range rows {
		b.WriteString(txtBorder)
		b.WriteByte('\n')
		fmt.Fprintf(&b, "%s %d\n", recordLabel, i+1)
		for j, val := range row {
			val = strings.TrimSpace(val)
			if val == "" || strings.EqualFold(val, "N/A") {
				continue
			}
			field := fmt.Sprintf("field_%d", j+1)
			if j < len(header) {
				field = strings.TrimSpace(header[j])
			}
			fmt.Fprintf(&b, "%s: %s\n", field, val)
		}
		b.WriteString(txtBorder)
		b.WriteString("\n\n")
	}

	b.WriteString(txtBorder)
	b.WriteByte('\n')
	fmt.Fprintf(&b, "%s: %d\n", totalLabel, len(rows))
	b.WriteString(txtBorder)
	b.WriteByte('\n')

	return []byte(b.String()), nil
}
