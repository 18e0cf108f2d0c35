package analysis

import (
	"reflect"
	"testing"
	"time"

	"github.com/kailas-cloud/ementa/internal/domain/decision"
)

func TestCountBy(t *testing.T) {
	recs := []decision.Decision{
		decision.Reconstruct(1, "STJ", "", "Improcedente", time.Time{}, ""),
		decision.Reconstruct(2, "STF", "", "Procedente", time.Time{}, ""),
		decision.Reconstruct(3, "STF", "", "Procedente", time.Time{}, ""),
		decision.Reconstruct(4, "STJ", "", "", time.Time{}, ""),
		decision.Reconstruct(5, "STF", "", "Parcialmente Procedente", time.Time{}, ""),
	}

	got := CountBy(recs, decision.Decision.Outcome)
	want := []Bucket{
		{Label: "Procedente", Count: 2},
		{Label: "Improcedente", Count: 1},
		{Label: "Parcialmente Procedente", Count: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CountBy(outcome) = %v, want %v", got, want)
	}

	courts := CountBy(recs, decision.Decision.Court)
	if len(courts) != 2 || courts[0].Label != "STF" || courts[0].Count != 3 {
		t.Errorf("CountBy(court) = %v", courts)
	}
}

func TestCountBy_Empty(t *testing.T) {
	if got := CountBy(nil, decision.Decision.Court); len(got) != 0 {
		t.Errorf("CountBy(nil) = %v", got)
	}
}

func TestResult_IsMatched(t *testing.T) {
	r := Result{MatchedIDs: []int64{3, 9}}
	if !r.IsMatched(9) || r.IsMatched(4) {
		t.Errorf("IsMatched mismatch for %v", r.MatchedIDs)
	}
}
