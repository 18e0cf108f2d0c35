// Package chart renders the aggregate charts embedded in analysis reports.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"

	"github.com/kailas-cloud/ementa/internal/domain/analysis"
)

// Chart titles, kept in the report's language.
const (
	OutcomeTitle = "Distribuição de Resultados"
	CourtTitle   = "Proporção por Tribunal"
)

const (
	defaultWidth  = 1024
	defaultHeight = 576
)

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("no data to plot")

// Renderer draws PNG charts. Zero value is ready to use.
type Renderer struct {
	Width  int
	Height int
}

// NewRenderer creates a renderer with default dimensions.
func NewRenderer() *Renderer {
	return &Renderer{Width: defaultWidth, Height: defaultHeight}
}

// OutcomeBar renders a bar chart of decision counts per outcome.
func (r *Renderer) OutcomeBar(buckets []analysis.Bucket) ([]byte, error) {
	if len(buckets) == 0 {
		return nil, fmt.Errorf("outcome chart: %w", ErrNoData)
	}

	bars := make([]gochart.Value, 0, len(buckets))
	peak := 0
	for _, b := range buckets {
		bars = append(bars, gochart.Value{Label: b.Label, Value: float64(b.Count)})
		peak = max(peak, b.Count)
	}

	bc := gochart.BarChart{
		Title:    OutcomeTitle,
		Width:    r.width(),
		Height:   r.height(),
		BarWidth: barWidth(r.width(), len(bars)),
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40},
		},
		XAxis: gochart.Shown(),
		YAxis: gochart.YAxis{
			Style:          gochart.Shown(),
			Range:          &gochart.ContinuousRange{Min: 0, Max: yCeiling(peak)},
			ValueFormatter: gochart.IntValueFormatter,
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := bc.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render outcome chart: %w", err)
	}
	return buf.Bytes(), nil
}

// CourtPie renders a pie chart of the court share among matched decisions.
func (r *Renderer) CourtPie(buckets []analysis.Bucket) ([]byte, error) {
	values := make([]gochart.Value, 0, len(buckets))
	for _, b := range buckets {
		if b.Count <= 0 {
			continue
		}
		values = append(values, gochart.Value{
			Label: fmt.Sprintf("%s (%d)", b.Label, b.Count),
			Value: float64(b.Count),
		})
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("court chart: %w", ErrNoData)
	}

	pc := gochart.PieChart{
		Title:  CourtTitle,
		Width:  r.height(),
		Height: r.height(),
		Values: values,
	}

	var buf bytes.Buffer
	if err := pc.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render court chart: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) width() int {
	if r.Width <= 0 {
		return defaultWidth
	}
	return r.Width
}

func (r *Renderer) height() int {
	if r.Height <= 0 {
		return defaultHeight
	}
	return r.Height
}

// yCeiling leaves headroom above the tallest bar and keeps the range non-zero.
func yCeiling(peak int) float64 {
	return math.Max(1, math.Ceil(float64(peak)*1.1))
}

func barWidth(width, n int) int {
	w := width / (2 * (n + 1))
	return min(max(w, 10), 120)
}
