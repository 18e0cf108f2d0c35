package ementa

import (
	"context"
	"time"
)

// Summarizer writes a short narrative from the plain-text digest of an analysis.
// If it also implements HealthCheck(ctx) error, Client.Health reports on it.
type Summarizer interface {
	Summarize(ctx context.Context, digest string) (string, error)
}

// Source tells how a session's dataset was created.
type Source string

// Source constants.
const (
	SourceUpload Source = "upload"
	SourceSample Source = "sample"
)

// Session is a loaded dataset with the last browse position and analysis.
type Session struct {
	ID        string
	Source    Source
	Records   int
	HasDate   bool
	HasLink   bool
	Filter    Filter
	Page      int
	CreatedAt time.Time
	UpdatedAt time.Time

	// LastAnalysis is nil until Analyze runs.
	LastAnalysis *AnalysisSummary
}

// AnalysisSummary describes a session's last analysis.
type AnalysisSummary struct {
	Terms         []string
	FilteredCount int
	MatchedCount  int
	RanAt         time.Time
}

// Filter narrows a dataset. Zero values disable each predicate.
// Court "Ambos" also means any court.
type Filter struct {
	Court    string
	Query    string
	Outcomes []string
	Years    []int
	PageSize int // 0 = 10, capped at 50
}

// Decision is one court decision.
type Decision struct {
	ID      int64
	Court   string
	Summary string
	Outcome string
	Date    time.Time // zero when HasDate is false
	HasDate bool
	Link    string
}

// Page is one window of a filtered dataset.
type Page struct {
	Decisions  []Decision
	Page       int
	PageSize   int
	TotalPages int
	Total      int
}

// Facets are the filter options of a dataset.
type Facets struct {
	Outcomes []string
	Courts   []string
	Years    []int
	HasDate  bool
}

// AnalysisRequest configures one analysis run.
// A nil Terms or Stopwords slice selects the defaults; an empty one disables them.
type AnalysisRequest struct {
	Filter    Filter
	Terms     []string
	Stopwords []string
	TopN      int // 0 = 20
}

// TermCount is how many decisions contain Term.
type TermCount struct {
	Term  string
	Count int
}

// WordCount is one entry of the word ranking.
type WordCount struct {
	Word  string
	Count int
}

// Bucket is one label of an aggregate with its decision count.
type Bucket struct {
	Label string
	Count int
}

// Analysis is the result of an analysis run.
type Analysis struct {
	Terms         []string
	Stopwords     []string
	Frequencies   []TermCount
	MatchedIDs    []int64
	Ranking       []WordCount
	ByOutcome     []Bucket
	ByCourt       []Bucket
	FilteredCount int
	RanAt         time.Time
}
