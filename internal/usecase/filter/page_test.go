package filter

import (
	"testing"
	"time"

	"github.com/kailas-cloud/ementa/internal/domain/decision"
)

func makeRecords(n int) []decision.Decision {
	out := make([]decision.Decision, n)
	for i := range out {
		out[i] = rec(int64(i+1), "STF", "x", "P", time.Time{})
	}
	return out
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name                 string
		n, page, size        int
		wantPage, wantPages  int
		wantFirst, wantCount int
	}{
		{"first page", 23, 1, 10, 1, 3, 1, 10},
		{"last partial page", 23, 3, 10, 3, 3, 21, 3},
		{"page past end clamps", 23, 9, 10, 3, 3, 21, 3},
		{"page zero clamps", 23, 0, 10, 1, 3, 1, 10},
		{"exact multiple", 20, 2, 10, 2, 2, 11, 10},
		{"empty", 0, 1, 10, 1, 1, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(makeRecords(tt.n), tt.page, tt.size)
			if p.Page != tt.wantPage {
				t.Errorf("Page = %d, want %d", p.Page, tt.wantPage)
			}
			if p.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", p.TotalPages, tt.wantPages)
			}
			if len(p.Items) != tt.wantCount {
				t.Fatalf("len(Items) = %d, want %d", len(p.Items), tt.wantCount)
			}
			if tt.wantCount > 0 && p.Items[0].ID() != int64(tt.wantFirst) {
				t.Errorf("first ID = %d, want %d", p.Items[0].ID(), tt.wantFirst)
			}
			if p.Total != tt.n {
				t.Errorf("Total = %d, want %d", p.Total, tt.n)
			}
		})
	}
}
