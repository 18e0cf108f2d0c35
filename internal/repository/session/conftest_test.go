package session

import (
	"context"
	"testing"
	"time"

	"github.com/kailas-cloud/ementa/internal/db"
	"github.com/kailas-cloud/ementa/internal/domain/analysis"
	"github.com/kailas-cloud/ementa/internal/domain/decision"
	"github.com/kailas-cloud/ementa/internal/domain/search/criteria"
	domsession "github.com/kailas-cloud/ementa/internal/domain/session"
)

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	data      map[string][]byte
	ttls      map[string]time.Duration
	getErr    error
	setErr    error
	expireErr error
	delErr    error
}

func newMockKVStore() *mockKVStore {
	return &mockKVStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *mockKVStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockKVStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *mockKVStore) Expire(_ context.Context, key string, ttl time.Duration) error {
	if m.expireErr != nil {
		return m.expireErr
	}
	if _, ok := m.data[key]; !ok {
		return db.ErrKeyNotFound
	}
	m.ttls[key] = ttl
	return nil
}

func (m *mockKVStore) Del(_ context.Context, key string) error {
	if m.delErr != nil {
		return m.delErr
	}
	delete(m.data, key)
	delete(m.ttls, key)
	return nil
}

func testState(t *testing.T) domsession.State {
	t.Helper()
	created := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	ds, err := decision.NewDataset([]decision.Decision{
		decision.Reconstruct(1, "STF", "Dano moral em contrato", "Procedente",
			time.Date(2019, 5, 1, 0, 0, 0, 0, time.UTC), "https://portal.stf.jus.br/1"),
		decision.Reconstruct(2, "STJ", "Habeas corpus", "Improcedente", time.Time{}, ""),
	}, true, true)
	if err != nil {
		t.Fatalf("NewDataset: %v", err)
	}
	c, err := criteria.New("STF", "dano", []string{"Procedente"}, []int{2019}, 20)
	if err != nil {
		t.Fatalf("criteria.New: %v", err)
	}
	s := domsession.New("sess-1", ds, domsession.SourceUpload, created)
	s = s.WithBrowse(c, 2, created.Add(time.Minute))
	return s.WithAnalysis(analysis.Result{
		Terms:       []string{"dano moral"},
		Stopwords:   []string{"de"},
		Frequencies: []analysis.TermCount{{Term: "dano moral", Count: 1}},
		MatchedIDs:  []int64{1},
		Ranking:     []analysis.WordCount{{Word: "dano", Count: 1}},
		Cloud:       []analysis.WordCount{{Word: "dano", Count: 1}, {Word: "moral", Count: 1}},
		ByOutcome:   []analysis.Bucket{{Label: "Procedente", Count: 1}},
		ByCourt:     []analysis.Bucket{{Label: "STF", Count: 1}},

		FilteredCount: 1,
		RanAt:         created.Add(2 * time.Minute),
	}, created.Add(2*time.Minute))
}
