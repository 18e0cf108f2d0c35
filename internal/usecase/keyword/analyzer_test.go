package keyword

import (
	"reflect"
	"testing"
	"time"

	"github.com/kailas-cloud/ementa/internal/domain/analysis"
	"github.com/kailas-cloud/ementa/internal/domain/decision"
)

func rec(id int64, summary string) decision.Decision {
	return decision.Reconstruct(id, "STF", summary, "Procedente", time.Time{}, "")
}

func TestParseTerms(t *testing.T) {
	got := ParseTerms(" Dano Moral, , inconstitucionalidade,dano moral ,")
	want := []string{"dano moral", "inconstitucionalidade", "dano moral"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseTerms = %v, want %v", got, want)
	}
}

func TestParseStopwords(t *testing.T) {
	got := ParseStopwords("de\r\nA\n\n  para \n")
	want := []string{"de", "a", "para"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseStopwords = %v, want %v", got, want)
	}
}

func TestCountTerms_MixedCase(t *testing.T) {
	recs := []decision.Decision{rec(1, "Dano moral em contrato")}
	table, matched := CountTerms(recs, []string{"dano moral"})

	want := []analysis.TermCount{{Term: "dano moral", Count: 1}}
	if !reflect.DeepEqual(table, want) {
		t.Errorf("table = %v, want %v", table, want)
	}
	if !reflect.DeepEqual(matched, []int64{1}) {
		t.Errorf("matched = %v, want [1]", matched)
	}
}

func TestCountTerms_EmptyTerms(t *testing.T) {
	recs := []decision.Decision{rec(1, "qualquer coisa"), rec(2, "outra")}
	for _, terms := range [][]string{nil, {}, {" ", ""}} {
		table, matched := CountTerms(recs, terms)
		if len(table) != 0 || len(matched) != 0 {
			t.Errorf("CountTerms(%q) = %v, %v; want empty", terms, table, matched)
		}
	}
}

func TestCountTerms_RecordCountNotOccurrences(t *testing.T) {
	recs := []decision.Decision{
		rec(1, "dano dano dano"),
		rec(2, "sem relação"),
		rec(3, "Dano"),
	}
	table, matched := CountTerms(recs, []string{"dano"})
	if table[0].Count != 2 {
		t.Errorf("count = %d, want 2", table[0].Count)
	}
	if !reflect.DeepEqual(matched, []int64{1, 3}) {
		t.Errorf("matched = %v", matched)
	}
}

func TestCountTerms_DuplicatesAndUnion(t *testing.T) {
	recs := []decision.Decision{
		rec(1, "repercussão geral"),
		rec(2, "dano moral"),
		rec(3, "dano moral e repercussão geral"),
		rec(4, "nada"),
	}
	table, matched := CountTerms(recs, []string{"Dano Moral", "repercussão geral", "dano moral"})

	want := []analysis.TermCount{
		{Term: "dano moral", Count: 2},
		{Term: "repercussão geral", Count: 2},
		{Term: "dano moral", Count: 2},
	}
	if !reflect.DeepEqual(table, want) {
		t.Errorf("table = %v, want %v", table, want)
	}
	if !reflect.DeepEqual(matched, []int64{1, 2, 3}) {
		t.Errorf("matched = %v", matched)
	}
}

func TestCountTerms_Idempotent(t *testing.T) {
	recs := []decision.Decision{rec(1, "dano moral"), rec(2, "contrato")}
	t1, m1 := CountTerms(recs, []string{"dano", "contrato"})
	t2, m2 := CountTerms(recs, []string{"dano", "contrato"})
	if !reflect.DeepEqual(t1, t2) || !reflect.DeepEqual(m1, m2) {
		t.Error("repeated runs differ")
	}
}

func TestRankWords_LengthCutoff(t *testing.T) {
	got := RankWords([]decision.Decision{rec(1, "abc abcd abcd de")}, nil, DefaultTopN)
	want := []analysis.WordCount{{Word: "abcd", Count: 2}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RankWords = %v, want %v", got, want)
	}
}

func TestRankWords_DropsNonAlphaTokens(t *testing.T) {
	got := RankWords([]decision.Decision{rec(1, "procedente; procedente art5 2020 recurso")}, nil, 0)
	want := []analysis.WordCount{
		{Word: "procedente", Count: 1},
		{Word: "recurso", Count: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RankWords = %v, want %v", got, want)
	}
}

func TestRankWords_AccentsAndStopwords(t *testing.T) {
	recs := []decision.Decision{
		rec(1, "Repercussão geral para União"),
		rec(2, "repercussão PARA união"),
	}
	got := RankWords(recs, []string{"PARA"}, 0)
	want := []analysis.WordCount{
		{Word: "repercussão", Count: 2},
		{Word: "união", Count: 2},
		{Word: "geral", Count: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RankWords = %v, want %v", got, want)
	}
}

func TestRankWords_TieBreakFirstOccurrence(t *testing.T) {
	got := RankWords([]decision.Decision{rec(1, "zeta alfa beta alfa zeta")}, nil, 0)
	want := []analysis.WordCount{
		{Word: "zeta", Count: 2},
		{Word: "alfa", Count: 2},
		{Word: "beta", Count: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RankWords = %v, want %v", got, want)
	}
}

func TestRankWords_TopN(t *testing.T) {
	got := RankWords([]decision.Decision{rec(1, "aaaa bbbb cccc dddd")}, nil, 2)
	if len(got) != 2 || got[0].Word != "aaaa" || got[1].Word != "bbbb" {
		t.Errorf("RankWords = %v", got)
	}
}

func TestRankWords_EmptyCorpus(t *testing.T) {
	if got := RankWords(nil, nil, 0); len(got) != 0 {
		t.Errorf("RankWords(nil) = %v", got)
	}
	if got := RankWords([]decision.Decision{rec(1, "")}, nil, 0); len(got) != 0 {
		t.Errorf("RankWords(empty summary) = %v", got)
	}
}
