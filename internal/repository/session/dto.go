package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/kailas-cloud/ementa/internal/domain/analysis"
	"github.com/kailas-cloud/ementa/internal/domain/decision"
	"github.com/kailas-cloud/ementa/internal/domain/search/criteria"
	domsession "github.com/kailas-cloud/ementa/internal/domain/session"
)

// stateRow is the JSON representation of a session stored under one key.
type stateRow struct {
	ID        string        `json:"id"`
	Source    string        `json:"source"`
	HasDate   bool          `json:"has_date"`
	HasLink   bool          `json:"has_link"`
	Records   []decisionRow `json:"records"`
	Criteria  criteriaRow   `json:"criteria"`
	Page      int           `json:"page"`
	Analysis  *resultRow    `json:"analysis,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type decisionRow struct {
	ID      int64     `json:"id"`
	Court   string    `json:"court"`
	Summary string    `json:"summary"`
	Outcome string    `json:"outcome"`
	Date    time.Time `json:"date,omitzero"`
	Link    string    `json:"link,omitempty"`
}

type criteriaRow struct {
	Court    string   `json:"court,omitempty"`
	Query    string   `json:"query,omitempty"`
	Outcomes []string `json:"outcomes,omitempty"`
	Years    []int    `json:"years,omitempty"`
	PageSize int      `json:"page_size"`
}

type countRow struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type resultRow struct {
	Terms         []string   `json:"terms"`
	Stopwords     []string   `json:"stopwords"`
	Frequencies   []countRow `json:"frequencies"`
	MatchedIDs    []int64    `json:"matched_ids"`
	Ranking       []countRow `json:"ranking"`
	Cloud         []countRow `json:"cloud"`
	ByOutcome     []countRow `json:"by_outcome"`
	ByCourt       []countRow `json:"by_court"`
	FilteredCount int        `json:"filtered_count"`
	RanAt         time.Time  `json:"ran_at"`
}

func marshalState(s domsession.State) ([]byte, error) {
	ds := s.Dataset()
	records := ds.Records()
	rows := make([]decisionRow, len(records))
	for i, d := range records {
		date, _ := d.Date()
		rows[i] = decisionRow{
			ID:      d.ID(),
			Court:   d.Court(),
			Summary: d.Summary(),
			Outcome: d.Outcome(),
			Date:    date,
			Link:    d.Link(),
		}
	}

	c := s.Criteria()
	row := stateRow{
		ID:      s.ID(),
		Source:  string(s.Source()),
		HasDate: ds.HasDate(),
		HasLink: ds.HasLink(),
		Records: rows,
		Criteria: criteriaRow{
			Court:    c.Court(),
			Query:    c.Query(),
			Outcomes: c.Outcomes(),
			Years:    c.Years(),
			PageSize: c.PageSize(),
		},
		Page:      s.Page(),
		CreatedAt: s.CreatedAt(),
		UpdatedAt: s.UpdatedAt(),
	}
	if res, ok := s.LastAnalysis(); ok {
		row.Analysis = resultToRow(res)
	}

	data, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}
	return data, nil
}

func unmarshalState(data []byte) (domsession.State, error) {
	var row stateRow
	if err := json.Unmarshal(data, &row); err != nil {
		return domsession.State{}, fmt.Errorf("unmarshal session: %w", err)
	}

	records := make([]decision.Decision, len(row.Records))
	for i, r := range row.Records {
		records[i] = decision.Reconstruct(r.ID, r.Court, r.Summary, r.Outcome, r.Date, r.Link)
	}
	ds, err := decision.NewDataset(records, row.HasDate, row.HasLink)
	if err != nil {
		return domsession.State{}, fmt.Errorf("hydrate dataset: %w", err)
	}

	c, err := criteria.New(row.Criteria.Court, row.Criteria.Query,
		row.Criteria.Outcomes, row.Criteria.Years, row.Criteria.PageSize)
	if err != nil {
		return domsession.State{}, fmt.Errorf("hydrate criteria: %w", err)
	}

	var last *analysis.Result
	if row.Analysis != nil {
		res := rowToResult(row.Analysis)
		last = &res
	}

	return domsession.Reconstruct(row.ID, ds, domsession.Source(row.Source), c, row.Page,
		last, row.CreatedAt, row.UpdatedAt), nil
}

func resultToRow(res analysis.Result) *resultRow {
	freqs := make([]countRow, len(res.Frequencies))
	for i, f := range res.Frequencies {
		freqs[i] = countRow{Label: f.Term, Count: f.Count}
	}
	return &resultRow{
		Terms:         res.Terms,
		Stopwords:     res.Stopwords,
		Frequencies:   freqs,
		MatchedIDs:    res.MatchedIDs,
		Ranking:       wordsToRows(res.Ranking),
		Cloud:         wordsToRows(res.Cloud),
		ByOutcome:     bucketsToRows(res.ByOutcome),
		ByCourt:       bucketsToRows(res.ByCourt),
		FilteredCount: res.FilteredCount,
		RanAt:         res.RanAt,
	}
}

func rowToResult(row *resultRow) analysis.Result {
	freqs := make([]analysis.TermCount, len(row.Frequencies))
	for i, f := range row.Frequencies {
		freqs[i] = analysis.TermCount{Term: f.Label, Count: f.Count}
	}
	matched := row.MatchedIDs
	if matched == nil {
		matched = []int64{}
	}
	return analysis.Result{
		Terms:         row.Terms,
		Stopwords:     row.Stopwords,
		Frequencies:   freqs,
		MatchedIDs:    matched,
		Ranking:       rowsToWords(row.Ranking),
		Cloud:         rowsToWords(row.Cloud),
		ByOutcome:     rowsToBuckets(row.ByOutcome),
		ByCourt:       rowsToBuckets(row.ByCourt),
		FilteredCount: row.FilteredCount,
		RanAt:         row.RanAt,
	}
}

func wordsToRows(words []analysis.WordCount) []countRow {
	rows := make([]countRow, len(words))
	for i, w := range words {
		rows[i] = countRow{Label: w.Word, Count: w.Count}
	}
	return rows
}

func rowsToWords(rows []countRow) []analysis.WordCount {
	words := make([]analysis.WordCount, len(rows))
	for i, r := range rows {
		words[i] = analysis.WordCount{Word: r.Label, Count: r.Count}
	}
	return words
}

func bucketsToRows(buckets []analysis.Bucket) []countRow {
	rows := make([]countRow, len(buckets))
	for i, b := range buckets {
		rows[i] = countRow{Label: b.Label, Count: b.Count}
	}
	return rows
}

func rowsToBuckets(rows []countRow) []analysis.Bucket {
	buckets := make([]analysis.Bucket, len(rows))
	for i, r := range rows {
		buckets[i] = analysis.Bucket{Label: r.Label, Count: r.Count}
	}
	return buckets
}
