package dataset

import (
	"bytes"
	"reflect"
	"testing"
	"time"

	"github.com/kailas-cloud/ementa/internal/domain/analysis"
	"github.com/kailas-cloud/ementa/internal/domain/decision"
)

func TestWriteMatched_RoundTrip(t *testing.T) {
	recs := []decision.Decision{
		decision.Reconstruct(4, "STJ", "Contrato, \"bancário\"", "Procedente", time.Date(2022, 1, 15, 0, 0, 0, 0, time.UTC), ""),
		decision.Reconstruct(1, "STF", "Dano moral\nem contrato", "Improcedente", time.Time{}, ""),
	}

	var buf bytes.Buffer
	if err := WriteMatched(&buf, recs, true); err != nil {
		t.Fatalf("WriteMatched: %v", err)
	}

	ids, err := ReadMatchedIDs(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadMatchedIDs: %v", err)
	}
	if !reflect.DeepEqual(ids, []int64{4, 1}) {
		t.Errorf("ids = %v, want [4 1]", ids)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("ID_Decisao,Tribunal,Resultado,Ementa,Data\n")) {
		t.Errorf("unexpected header: %q", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("2022-01-15")) {
		t.Errorf("date not formatted: %q", buf.String())
	}
}

func TestWriteMatched_EmptyStillHasHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMatched(&buf, nil, false); err != nil {
		t.Fatalf("WriteMatched: %v", err)
	}
	if buf.String() != "ID_Decisao,Tribunal,Resultado,Ementa\n" {
		t.Errorf("got %q", buf.String())
	}
	ids, err := ReadMatchedIDs(&buf)
	if err != nil {
		t.Fatalf("ReadMatchedIDs: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("ids = %v", ids)
	}
}

func TestWriteFrequencies(t *testing.T) {
	var buf bytes.Buffer
	table := []analysis.TermCount{{Term: "dano moral", Count: 3}, {Term: "repercussão geral", Count: 0}}
	if err := WriteFrequencies(&buf, table); err != nil {
		t.Fatalf("WriteFrequencies: %v", err)
	}
	want := "Termo,Contagem\ndano moral,3\nrepercussão geral,0\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestWriteDataset_RoundTrip(t *testing.T) {
	ds, err := Sample(25, 7)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	var buf bytes.Buffer
	if err := WriteDataset(&buf, ds); err != nil {
		t.Fatalf("WriteDataset: %v", err)
	}
	back, err := Load(&buf)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(back.Records(), ds.Records()) {
		t.Error("records differ after round trip")
	}
}
