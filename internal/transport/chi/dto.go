package chi

import (
	"time"

	"github.com/kailas-cloud/ementa/internal/dataset"
	domanalysis "github.com/kailas-cloud/ementa/internal/domain/analysis"
	"github.com/kailas-cloud/ementa/internal/domain/decision"
	"github.com/kailas-cloud/ementa/internal/domain/search/criteria"
	domsession "github.com/kailas-cloud/ementa/internal/domain/session"
	domusage "github.com/kailas-cloud/ementa/internal/domain/usage"
	"github.com/kailas-cloud/ementa/internal/usecase/filter"
	"github.com/kailas-cloud/ementa/internal/usecase/report"
)

// listExcerptRunes bounds the summary shown in decision listings.
const listExcerptRunes = 300

type analysisRequest struct {
	Terms     *string  `json:"terms"`
	Stopwords *string  `json:"stopwords"`
	Court     string   `json:"court"`
	Query     string   `json:"q"`
	Outcomes  []string `json:"outcomes"`
	Years     []int    `json:"years"`
	TopN      *int     `json:"top_n"`
}

type criteriaResponse struct {
	Court    string   `json:"court,omitempty"`
	Query    string   `json:"q,omitempty"`
	Outcomes []string `json:"outcomes"`
	Years    []int    `json:"years"`
	PageSize int      `json:"page_size"`
}

type sessionResponse struct {
	ID           string           `json:"id"`
	Source       string           `json:"source"`
	Records      int              `json:"records"`
	HasDate      bool             `json:"has_date"`
	HasLink      bool             `json:"has_link"`
	Criteria     criteriaResponse `json:"criteria"`
	Page         int              `json:"page"`
	LastAnalysis *analysisSummary `json:"last_analysis,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

type analysisSummary struct {
	Terms         []string  `json:"terms"`
	FilteredCount int       `json:"filtered_count"`
	MatchedCount  int       `json:"matched_count"`
	RanAt         time.Time `json:"ran_at"`
}

type facetsResponse struct {
	Outcomes []string `json:"outcomes"`
	Courts   []string `json:"courts"`
	Years    []int    `json:"years"`
	HasDate  bool     `json:"has_date"`
}

type decisionItem struct {
	ID      int64  `json:"id"`
	Court   string `json:"court"`
	Outcome string `json:"outcome"`
	Excerpt string `json:"excerpt"`
	Date    string `json:"date,omitempty"`
}

type decisionResponse struct {
	ID      int64  `json:"id"`
	Court   string `json:"court"`
	Outcome string `json:"outcome"`
	Summary string `json:"summary"`
	Date    string `json:"date,omitempty"`
	Link    string `json:"link,omitempty"`
}

type pageResponse struct {
	Items      []decisionItem `json:"items"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
	Total      int            `json:"total"`
}

type countResponse struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type analysisResponse struct {
	Terms         []string        `json:"terms"`
	Stopwords     []string        `json:"stopwords"`
	Frequencies   []countResponse `json:"frequencies"`
	MatchedIDs    []int64         `json:"matched_ids"`
	Ranking       []countResponse `json:"ranking"`
	ByOutcome     []countResponse `json:"by_outcome"`
	ByCourt       []countResponse `json:"by_court"`
	FilteredCount int             `json:"filtered_count"`
	RanAt         time.Time       `json:"ran_at"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func sessionToResponse(st domsession.State) sessionResponse {
	ds := st.Dataset()
	resp := sessionResponse{
		ID:        st.ID(),
		Source:    string(st.Source()),
		Records:   ds.Len(),
		HasDate:   ds.HasDate(),
		HasLink:   ds.HasLink(),
		Criteria:  criteriaToResponse(st.Criteria()),
		Page:      st.Page(),
		CreatedAt: st.CreatedAt(),
		UpdatedAt: st.UpdatedAt(),
	}
	if res, ok := st.LastAnalysis(); ok {
		resp.LastAnalysis = &analysisSummary{
			Terms:         nonNil(res.Terms),
			FilteredCount: res.FilteredCount,
			MatchedCount:  len(res.MatchedIDs),
			RanAt:         res.RanAt,
		}
	}
	return resp
}

func criteriaToResponse(c criteria.Criteria) criteriaResponse {
	return criteriaResponse{
		Court:    c.Court(),
		Query:    c.Query(),
		Outcomes: nonNil(c.Outcomes()),
		Years:    nonNil(c.Years()),
		PageSize: c.PageSize(),
	}
}

func pageToResponse(p filter.Page) pageResponse {
	items := make([]decisionItem, len(p.Items))
	for i, d := range p.Items {
		items[i] = decisionItem{
			ID:      d.ID(),
			Court:   d.Court(),
			Outcome: d.Outcome(),
			Excerpt: report.Excerpt(d.Summary(), listExcerptRunes),
			Date:    formatDate(d),
		}
	}
	return pageResponse{
		Items:      items,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages,
		Total:      p.Total,
	}
}

func decisionToResponse(d decision.Decision) decisionResponse {
	return decisionResponse{
		ID:      d.ID(),
		Court:   d.Court(),
		Outcome: d.Outcome(),
		Summary: d.Summary(),
		Date:    formatDate(d),
		Link:    d.Link(),
	}
}

func resultToResponse(res domanalysis.Result) analysisResponse {
	freqs := make([]countResponse, len(res.Frequencies))
	for i, f := range res.Frequencies {
		freqs[i] = countResponse{Label: f.Term, Count: f.Count}
	}
	ranking := make([]countResponse, len(res.Ranking))
	for i, w := range res.Ranking {
		ranking[i] = countResponse{Label: w.Word, Count: w.Count}
	}
	return analysisResponse{
		Terms:         nonNil(res.Terms),
		Stopwords:     nonNil(res.Stopwords),
		Frequencies:   freqs,
		MatchedIDs:    nonNil(res.MatchedIDs),
		Ranking:       ranking,
		ByOutcome:     bucketsToResponse(res.ByOutcome),
		ByCourt:       bucketsToResponse(res.ByCourt),
		FilteredCount: res.FilteredCount,
		RanAt:         res.RanAt,
	}
}

func bucketsToResponse(buckets []domanalysis.Bucket) []countResponse {
	out := make([]countResponse, len(buckets))
	for i, b := range buckets {
		out[i] = countResponse{Label: b.Label, Count: b.Count}
	}
	return out
}

func formatDate(d decision.Decision) string {
	t, ok := d.Date()
	if !ok {
		return ""
	}
	return t.Format(dataset.DateLayout)
}

type budgetResponse struct {
	TokensLimit     int64     `json:"tokens_limit"`
	TokensUsed      int64     `json:"tokens_used"`
	TokensRemaining int64     `json:"tokens_remaining"`
	IsExhausted     bool      `json:"is_exhausted"`
	ResetsAt        time.Time `json:"resets_at"`
}

type usageResponse struct {
	Period        string         `json:"period"`
	PeriodStartAt time.Time      `json:"period_start_at"`
	PeriodEndAt   time.Time      `json:"period_end_at"`
	Requests      int64          `json:"requests"`
	Budget        budgetResponse `json:"budget"`
}

func usageToResponse(r domusage.Report) usageResponse {
	b := r.Budget()
	return usageResponse{
		Period:        string(r.Period()),
		PeriodStartAt: r.Start(),
		PeriodEndAt:   r.End(),
		Requests:      r.Requests(),
		Budget: budgetResponse{
			TokensLimit:     b.Limit(),
			TokensUsed:      b.Used(),
			TokensRemaining: b.Remaining(),
			IsExhausted:     b.IsExhausted(),
			ResetsAt:        b.ResetsAt(),
		},
	}
}
