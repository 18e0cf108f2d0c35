package criteria

import (
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/ementa/internal/domain"
)

func TestNew_CourtNormalization(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantAny bool
	}{
		{"", "", true},
		{"Ambos", "", true},
		{"ambos", "", true},
		{"ANY", "", true},
		{" STJ ", "STJ", false},
		{"stf", "stf", false},
	}

	for _, tt := range tests {
		t.Run("court="+tt.in, func(t *testing.T) {
			c, err := New(tt.in, "", nil, nil, 0)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c.Court() != tt.want {
				t.Errorf("Court() = %q, want %q", c.Court(), tt.want)
			}
			if c.AnyCourt() != tt.wantAny {
				t.Errorf("AnyCourt() = %v, want %v", c.AnyCourt(), tt.wantAny)
			}
		})
	}
}

func TestNew_PageSize(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"default", 0, DefaultPageSize},
		{"explicit", 25, 25},
		{"clamped", 500, MaxPageSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New("", "", nil, nil, tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c.PageSize() != tt.want {
				t.Errorf("PageSize() = %d, want %d", c.PageSize(), tt.want)
			}
		})
	}
}

func TestNew_NegativePageSize(t *testing.T) {
	_, err := New("", "", nil, nil, -1)
	if !errors.Is(err, domain.ErrInvalidCriteria) {
		t.Fatalf("expected ErrInvalidCriteria, got %v", err)
	}
}

func TestNew_QueryTooLong(t *testing.T) {
	_, err := New("", strings.Repeat("a", MaxQueryLength+1), nil, nil, 0)
	if !errors.Is(err, domain.ErrInvalidCriteria) {
		t.Fatalf("expected ErrInvalidCriteria, got %v", err)
	}
}

func TestNew_InvalidYear(t *testing.T) {
	_, err := New("", "", nil, []int{2020, 0}, 0)
	if !errors.Is(err, domain.ErrInvalidCriteria) {
		t.Fatalf("expected ErrInvalidCriteria, got %v", err)
	}
}

func TestNew_DedupAndTrim(t *testing.T) {
	c, err := New("", "  dano moral  ", []string{"Procedente", " Procedente", "", "Improcedente"}, []int{2021, 2019, 2021}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Query() != "dano moral" {
		t.Errorf("Query() = %q", c.Query())
	}
	if got := c.Outcomes(); len(got) != 2 || got[0] != "Procedente" || got[1] != "Improcedente" {
		t.Errorf("Outcomes() = %v", got)
	}
	if got := c.Years(); len(got) != 2 || got[0] != 2019 || got[1] != 2021 {
		t.Errorf("Years() = %v", got)
	}
}

func TestNew_EmptyOutcomesStayNil(t *testing.T) {
	c, err := New("", "", []string{"", "  "}, nil, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Outcomes() != nil {
		t.Errorf("Outcomes() = %v, want nil", c.Outcomes())
	}
}

func TestAny(t *testing.T) {
	c := Any()
	if !c.AnyCourt() || c.Query() != "" || len(c.Outcomes()) != 0 || len(c.Years()) != 0 {
		t.Errorf("Any() = %+v", c)
	}
	if c.PageSize() != DefaultPageSize {
		t.Errorf("PageSize() = %d", c.PageSize())
	}
}
