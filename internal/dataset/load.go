// Package dataset reads and writes the decision file format.
package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/kailas-cloud/ementa/internal/domain"
	"github.com/kailas-cloud/ementa/internal/domain/decision"
)

// dateLayouts are tried in order; the first that parses wins.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02/01/2006",
	"2006/01/02",
}

// Load parses a delimited decision file.
// The input is decoded as UTF-8 (a leading BOM is dropped) and falls back to Latin-1
// when it is not valid UTF-8. The delimiter is ',' unless the header uses ';'.
func Load(r io.Reader) (decision.Dataset, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return decision.Dataset{}, fmt.Errorf("%w: %w", domain.ErrUnreadableFile, err)
	}
	text, err := decode(raw)
	if err != nil {
		return decision.Dataset{}, fmt.Errorf("%w: %w", domain.ErrUnreadableFile, err)
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = detectDelimiter(text)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return decision.Dataset{}, domain.NewSchemaError(domain.RequiredColumns(), nil)
		}
		return decision.Dataset{}, fmt.Errorf("%w: read header: %w", domain.ErrUnreadableFile, err)
	}
	cols, err := mapColumns(header)
	if err != nil {
		return decision.Dataset{}, err
	}

	var records []decision.Decision
	for row := 1; ; row++ {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return decision.Dataset{}, fmt.Errorf("%w: row %d: %w", domain.ErrUnreadableFile, row, err)
		}
		if isBlank(fields) {
			continue
		}
		d, err := cols.decode(fields)
		if err != nil {
			return decision.Dataset{}, fmt.Errorf("%w: row %d: %w", domain.ErrInvalidDataset, row, err)
		}
		records = append(records, d)
	}

	return decision.NewDataset(records, cols.date >= 0, cols.link >= 0)
}

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

func decode(raw []byte) (string, error) {
	if utf8.Valid(raw) {
		out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), raw)
		if err != nil {
			return "", fmt.Errorf("decode utf-8: %w", err)
		}
		return string(out), nil
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(bytes.TrimPrefix(raw, utf8BOM))
	if err != nil {
		return "", fmt.Errorf("decode latin-1: %w", err)
	}
	return string(out), nil
}

func detectDelimiter(text string) rune {
	line, _, _ := strings.Cut(text, "\n")
	if strings.Count(line, ";") > strings.Count(line, ",") {
		return ';'
	}
	return ','
}

// columns holds the header position of each known column (-1 when absent).
type columns struct {
	id, court, summary, outcome, date, link int
}

func mapColumns(header []string) (columns, error) {
	pos := make(map[string]int, len(header))
	found := make([]string, 0, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		found = append(found, h)
		if _, ok := pos[h]; !ok {
			pos[h] = i
		}
	}

	var missing bool
	for _, c := range domain.RequiredColumns() {
		if _, ok := pos[c]; !ok {
			missing = true
		}
	}
	if missing {
		return columns{}, domain.NewSchemaError(domain.RequiredColumns(), found)
	}

	lookup := func(name string) int {
		if i, ok := pos[name]; ok {
			return i
		}
		return -1
	}
	return columns{
		id:      pos[domain.ColumnID],
		court:   pos[domain.ColumnCourt],
		summary: pos[domain.ColumnSummary],
		outcome: pos[domain.ColumnOutcome],
		date:    lookup(domain.ColumnDate),
		link:    lookup(domain.ColumnLink),
	}, nil
}

func (c columns) decode(fields []string) (decision.Decision, error) {
	id, err := parseID(field(fields, c.id))
	if err != nil {
		return decision.Decision{}, err
	}
	d, err := decision.New(id, field(fields, c.court), field(fields, c.summary), field(fields, c.outcome))
	if err != nil {
		return decision.Decision{}, fmt.Errorf("build decision: %w", err)
	}
	if c.date >= 0 {
		if t, ok := ParseDate(field(fields, c.date)); ok {
			d = d.WithDate(t)
		}
	}
	if c.link >= 0 {
		d = d.WithLink(field(fields, c.link))
	}
	return d, nil
}

func field(fields []string, i int) string {
	if i < 0 || i >= len(fields) {
		return ""
	}
	return fields[i]
}

func parseID(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%s is empty", domain.ColumnID)
	}
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return id, nil
	}
	// Spreadsheet exports often write integer IDs as floats ("12.0").
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("%s %q is not an integer", domain.ColumnID, s)
	}
	return int64(f), nil
}

// ParseDate parses a date leniently. Unparseable input reports ok=false.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func isBlank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
