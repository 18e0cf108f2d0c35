package filter

import (
	"reflect"
	"testing"
	"time"

	"github.com/kailas-cloud/ementa/internal/domain/decision"
	"github.com/kailas-cloud/ementa/internal/domain/search/criteria"
)

func day(y, m, d int) time.Time { return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC) }

func rec(id int64, court, summary, outcome string, date time.Time) decision.Decision {
	return decision.Reconstruct(id, court, summary, outcome, date, "")
}

func mustDataset(t *testing.T, hasDate bool, recs ...decision.Decision) decision.Dataset {
	t.Helper()
	ds, err := decision.NewDataset(recs, hasDate, false)
	if err != nil {
		t.Fatalf("NewDataset: %v", err)
	}
	return ds
}

func mustCriteria(t *testing.T, court, q string, outcomes []string, years []int) criteria.Criteria {
	t.Helper()
	c, err := criteria.New(court, q, outcomes, years, 0)
	if err != nil {
		t.Fatalf("criteria.New: %v", err)
	}
	return c
}

func ids(recs []decision.Decision) []int64 {
	out := make([]int64, len(recs))
	for i, r := range recs {
		out[i] = r.ID()
	}
	return out
}

func fiveRecords(t *testing.T) decision.Dataset {
	return mustDataset(t, true,
		rec(1, "STF", "Dano moral em contrato de consumo", "Procedente", day(2019, 5, 1)),
		rec(2, "STJ", "Habeas corpus improcedente", "Improcedente", day(2021, 2, 3)),
		rec(3, "STF", "Repercussão geral reconhecida", "Parcialmente Procedente", day(2020, 7, 9)),
		rec(4, "STJ", "Contrato bancário e cobrança indevida", "Procedente", day(2022, 1, 15)),
		rec(5, "STF", "Questão tributária", "Improcedente", time.Time{}),
	)
}

func TestApply_CourtWithAllOutcomesSelected(t *testing.T) {
	ds := fiveRecords(t)
	c := mustCriteria(t, "STJ", "", []string{"Procedente", "Improcedente", "Parcialmente Procedente"}, nil)

	got := ids(Apply(ds, c))
	want := []int64{4, 2}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ids = %v, want %v", got, want)
	}
}

func TestApply_CourtCaseInsensitive(t *testing.T) {
	ds := fiveRecords(t)
	got := ids(Apply(ds, mustCriteria(t, "stj", "", nil, nil)))
	if len(got) != 2 {
		t.Errorf("ids = %v, want two STJ records", got)
	}
}

func TestApply_AnyCourt(t *testing.T) {
	ds := fiveRecords(t)
	got := ids(Apply(ds, mustCriteria(t, "Ambos", "", nil, nil)))
	want := []int64{4, 2, 3, 1, 5}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ids = %v, want %v (date desc, undated last)", got, want)
	}
}

func TestApply_TextIsCaseInsensitiveSubstring(t *testing.T) {
	ds := fiveRecords(t)
	got := ids(Apply(ds, mustCriteria(t, "", "CONTRATO", nil, nil)))
	want := []int64{4, 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ids = %v, want %v", got, want)
	}
}

func TestApply_TextIsLiteral(t *testing.T) {
	ds := mustDataset(t, false,
		rec(1, "STF", "art. 5º, inciso X", "Procedente", time.Time{}),
		rec(2, "STF", "artigo quinto", "Procedente", time.Time{}),
		rec(3, "STJ", "valor (R$ 10)", "Improcedente", time.Time{}),
		rec(4, "STJ", "sem pontuacao", "Improcedente", time.Time{}),
	)

	tests := []struct {
		query string
		want  []int64
	}{
		{".", []int64{1}},
		{"*", nil},
		{"(", []int64{3}},
		{"$", []int64{3}},
		{"art.", []int64{1}},
		{"[a-z]", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := Apply(ds, mustCriteria(t, "", tt.query, nil, nil))
			if len(got) != len(tt.want) {
				t.Fatalf("ids = %v, want %v", ids(got), tt.want)
			}
			for i, r := range got {
				if r.ID() != tt.want[i] {
					t.Errorf("ids = %v, want %v", ids(got), tt.want)
				}
			}
		})
	}
}

func TestApply_EmptyOutcomesIsNoop(t *testing.T) {
	ds := fiveRecords(t)
	got := Apply(ds, mustCriteria(t, "", "", nil, nil))
	if len(got) != 5 {
		t.Errorf("len = %d, want 5", len(got))
	}
}

func TestApply_OutcomeMembership(t *testing.T) {
	ds := fiveRecords(t)
	got := ids(Apply(ds, mustCriteria(t, "", "", []string{"Improcedente"}, nil)))
	want := []int64{2, 5}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ids = %v, want %v", got, want)
	}
}

func TestApply_YearExcludesUndated(t *testing.T) {
	ds := fiveRecords(t)

	got := ids(Apply(ds, mustCriteria(t, "", "", nil, []int{2020})))
	if !reflect.DeepEqual(got, []int64{3}) {
		t.Errorf("year=2020 ids = %v, want [3]", got)
	}

	all := Apply(ds, mustCriteria(t, "", "", nil, nil))
	found := false
	for _, r := range all {
		if r.ID() == 5 {
			found = true
		}
	}
	if !found {
		t.Error("undated record must be included when no year filter is active")
	}
}

func TestApply_YearIgnoredWithoutDateColumn(t *testing.T) {
	ds := mustDataset(t, false,
		rec(1, "STF", "a", "P", time.Time{}),
		rec(2, "STJ", "b", "P", time.Time{}),
	)
	got := Apply(ds, mustCriteria(t, "", "", nil, []int{2020}))
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
}

func TestApply_NoDateColumnKeepsLoadOrder(t *testing.T) {
	ds := mustDataset(t, false,
		rec(3, "STF", "a", "P", time.Time{}),
		rec(1, "STF", "b", "P", time.Time{}),
		rec(2, "STF", "c", "P", time.Time{}),
	)
	got := ids(Apply(ds, criteria.Any()))
	if !reflect.DeepEqual(got, []int64{3, 1, 2}) {
		t.Errorf("ids = %v", got)
	}
}

func TestApply_SameDateKeepsLoadOrder(t *testing.T) {
	ds := mustDataset(t, true,
		rec(1, "STF", "a", "P", day(2020, 1, 1)),
		rec(2, "STF", "b", "P", day(2021, 1, 1)),
		rec(3, "STF", "c", "P", day(2020, 1, 1)),
	)
	got := ids(Apply(ds, criteria.Any()))
	if !reflect.DeepEqual(got, []int64{2, 1, 3}) {
		t.Errorf("ids = %v", got)
	}
}

func TestApply_CombinedPredicates(t *testing.T) {
	ds := fiveRecords(t)
	c := mustCriteria(t, "STF", "dano", []string{"Procedente"}, []int{2019})
	got := ids(Apply(ds, c))
	if !reflect.DeepEqual(got, []int64{1}) {
		t.Errorf("ids = %v, want [1]", got)
	}
}

func TestApply_IsPureAndStable(t *testing.T) {
	ds := fiveRecords(t)
	c := mustCriteria(t, "", "o", nil, nil)

	first := Apply(ds, c)
	second := Apply(ds, c)
	if !reflect.DeepEqual(ids(first), ids(second)) {
		t.Errorf("non-deterministic: %v vs %v", ids(first), ids(second))
	}
	if got := ids(ds.Records()); !reflect.DeepEqual(got, []int64{1, 2, 3, 4, 5}) {
		t.Errorf("dataset order mutated: %v", got)
	}
}
