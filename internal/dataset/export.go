package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kailas-cloud/ementa/internal/domain"
	"github.com/kailas-cloud/ementa/internal/domain/analysis"
	"github.com/kailas-cloud/ementa/internal/domain/decision"
)

// DateLayout is the date format used in every exported file.
const DateLayout = "2006-01-02"

// Export file names offered for download.
const (
	MatchedFileName      = "decisoes_encontradas.csv"
	FrequencyFileName    = "frequencia_termos.csv"
	ReportFileName       = "relatorio_analise.pdf"
	SampleFileName       = "decisoes_exemplo.csv"
	frequencyTermHeader  = "Termo"
	frequencyCountHeader = "Contagem"
)

// WriteMatched writes the matched records with the ID, court, outcome and summary
// columns, plus the date column when withDate is set. The header is always written.
func WriteMatched(w io.Writer, records []decision.Decision, withDate bool) error {
	header := []string{domain.ColumnID, domain.ColumnCourt, domain.ColumnOutcome, domain.ColumnSummary}
	if withDate {
		header = append(header, domain.ColumnDate)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		row := []string{strconv.FormatInt(r.ID(), 10), r.Court(), r.Outcome(), r.Summary()}
		if withDate {
			row = append(row, formatDate(r))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write record %d: %w", r.ID(), err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteFrequencies writes the term frequency table with a Termo,Contagem header.
func WriteFrequencies(w io.Writer, table []analysis.TermCount) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{frequencyTermHeader, frequencyCountHeader}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, tc := range table {
		if err := cw.Write([]string{tc.Term, strconv.Itoa(tc.Count)}); err != nil {
			return fmt.Errorf("write term %q: %w", tc.Term, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteDataset writes a full dataset in the load format.
func WriteDataset(w io.Writer, ds decision.Dataset) error {
	header := []string{domain.ColumnID, domain.ColumnCourt, domain.ColumnSummary, domain.ColumnOutcome}
	if ds.HasDate() {
		header = append(header, domain.ColumnDate)
	}
	if ds.HasLink() {
		header = append(header, domain.ColumnLink)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range ds.Records() {
		row := []string{strconv.FormatInt(r.ID(), 10), r.Court(), r.Summary(), r.Outcome()}
		if ds.HasDate() {
			row = append(row, formatDate(r))
		}
		if ds.HasLink() {
			row = append(row, r.Link())
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write record %d: %w", r.ID(), err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// ReadMatchedIDs re-parses a matched-records export and returns its IDs in file order.
func ReadMatchedIDs(r io.Reader) ([]int64, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %w", domain.ErrUnreadableFile, err)
	}
	idCol := -1
	for i, h := range header {
		if strings.TrimSpace(h) == domain.ColumnID {
			idCol = i
			break
		}
	}
	if idCol < 0 {
		return nil, domain.NewSchemaError([]string{domain.ColumnID}, header)
	}

	ids := make([]int64, 0)
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrUnreadableFile, err)
		}
		id, err := parseID(field(row, idCol))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidDataset, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func formatDate(r decision.Decision) string {
	if t, ok := r.Date(); ok {
		return t.Format(DateLayout)
	}
	return ""
}
