package wordcloud

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/kailas-cloud/ementa/internal/domain/analysis"
)

func TestRender(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	tests := []struct {
		name  string
		words []analysis.WordCount
	}{
		{"empty uses placeholder", nil},
		{"ranked words", []analysis.WordCount{
			{Word: "dano", Count: 12},
			{Word: "moral", Count: 9},
			{Word: "indenização", Count: 4},
			{Word: "recurso", Count: 1},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := r.Render(tt.words)
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			cfg, err := png.DecodeConfig(bytes.NewReader(out))
			if err != nil {
				t.Fatalf("output is not a png: %v", err)
			}
			if cfg.Width != defaultWidth || cfg.Height != defaultHeight {
				t.Errorf("expected %dx%d, got %dx%d", defaultWidth, defaultHeight, cfg.Width, cfg.Height)
			}
		})
	}
}

func TestRender_ManyWordsFit(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	words := make([]analysis.WordCount, 0, 200)
	for i := range 200 {
		words = append(words, analysis.WordCount{Word: "processual", Count: 200 - i})
	}
	faces := r.newFaceCache()
	defer faces.close()
	rows, err := r.layout(words, faces)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	height := 0
	for _, rw := range rows {
		height += rw.height
		if rw.width > defaultWidth-2*margin {
			t.Errorf("row width %d exceeds canvas", rw.width)
		}
	}
	if height > defaultHeight-2*margin {
		t.Errorf("rows height %d exceeds canvas", height)
	}
}

func TestFontSize(t *testing.T) {
	tests := []struct {
		count, peak int
		want        float64
	}{
		{10, 10, maxFontSize},
		{0, 10, minFontSize},
		{0, 0, (minFontSize + maxFontSize) / 2},
	}
	for _, tt := range tests {
		if got := fontSize(tt.count, tt.peak); got != tt.want {
			t.Errorf("fontSize(%d, %d) = %v, want %v", tt.count, tt.peak, got, tt.want)
		}
	}
}
