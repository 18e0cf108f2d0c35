// Package report renders analysis results into a paginated PDF.
package report

import (
	"bytes"
	"fmt"
	"image/png"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ementa/internal/domain/analysis"
	"github.com/kailas-cloud/ementa/internal/domain/decision"
	"github.com/kailas-cloud/ementa/internal/metrics"
)

// DefaultTitle is the report heading when none is configured.
const DefaultTitle = "Relatório de Análise"

// Sample page bounds.
const (
	DefaultSampleRows = 12
	MinSampleRows     = 10
	MaxSampleRows     = 20
)

const (
	excerptRunes = 120
	imageWidthMM = 170
	fontFamily   = "Helvetica"
	creator      = "ementa"
)

// DefaultAuthors is the authorship line printed under the title.
var DefaultAuthors = []string{"Nicolly Soares Mota", "Maria Eduarda de Bustamante Fontoura"}

// Image is a captioned PNG placed in the report body.
// Name identifies the asset in logs and metrics ("outcomes", "courts", "wordcloud").
type Image struct {
	Name    string
	Caption string
	PNG     []byte
}

// Input carries everything a single report renders.
type Input struct {
	Narrative   string
	Frequencies []analysis.TermCount
	Images      []Image
	Matched     []decision.Decision
	// GeneratedAt is stamped as the PDF creation date. Identical inputs yield identical bytes.
	GeneratedAt time.Time
}

// Builder lays out analysis reports.
type Builder struct {
	title      string
	authors    []string
	sampleRows int
	logger     *zap.Logger
}

// NewBuilder creates a Builder. Empty title and authors fall back to the defaults;
// sampleRows is clamped to [MinSampleRows, MaxSampleRows], zero meaning DefaultSampleRows.
func NewBuilder(title string, authors []string, sampleRows int, logger *zap.Logger) *Builder {
	if title == "" {
		title = DefaultTitle
	}
	if len(authors) == 0 {
		authors = DefaultAuthors
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{
		title:      title,
		authors:    authors,
		sampleRows: clampSampleRows(sampleRows),
		logger:     logger,
	}
}

// SampleRows returns the number of matched decisions listed on the sample page.
func (b *Builder) SampleRows() int { return b.sampleRows }

// Build renders the PDF. Bad images are skipped; only layout failures are returned.
func (b *Builder) Build(in Input) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCatalogSort(true)
	if !in.GeneratedAt.IsZero() {
		pdf.SetCreationDate(in.GeneratedAt)
		pdf.SetModificationDate(in.GeneratedAt)
	}
	pdf.SetTitle(b.title, true)
	pdf.SetAuthor(strings.Join(b.authors, "; "), true)
	pdf.SetCreator(creator, false)
	pdf.SetAutoPageBreak(true, 15)

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont(fontFamily, "B", 14)
	pdf.CellFormat(0, 8, tr(b.title), "", 1, "", false, 0, "")
	pdf.Ln(4)
	pdf.SetFont(fontFamily, "", 10)
	pdf.MultiCell(0, 6, tr("Autores: "+strings.Join(b.authors, "; ")), "", "", false)
	pdf.Ln(4)

	if n := strings.TrimSpace(in.Narrative); n != "" {
		pdf.SetFont(fontFamily, "B", 11)
		pdf.CellFormat(0, 6, "Resumo", "", 1, "", false, 0, "")
		pdf.SetFont(fontFamily, "", 10)
		pdf.MultiCell(0, 5, tr(n), "", "", false)
		pdf.Ln(4)
	}

	pdf.SetFont(fontFamily, "", 11)
	pdf.CellFormat(0, 6, tr("Frequência de termos:"), "", 1, "", false, 0, "")
	pdf.Ln(2)
	if len(in.Frequencies) == 0 {
		pdf.CellFormat(0, 6, tr("Nenhum termo informado."), "", 1, "", false, 0, "")
	}
	for _, f := range in.Frequencies {
		pdf.CellFormat(0, 6, tr(f.Term+": "+strconv.Itoa(f.Count)), "", 1, "", false, 0, "")
	}
	pdf.Ln(6)

	for i, img := range in.Images {
		b.placeImage(pdf, tr, i, img)
	}

	pdf.AddPage()
	pdf.SetFont(fontFamily, "", 11)
	pdf.CellFormat(0, 6, tr("Amostra de decisões encontradas:"), "", 1, "", false, 0, "")
	pdf.Ln(2)
	pdf.SetFont(fontFamily, "", 9)
	if len(in.Matched) == 0 {
		pdf.MultiCell(0, 5, tr("Nenhuma decisão corresponde aos termos informados."), "", "", false)
	}
	for _, d := range in.Matched[:min(len(in.Matched), b.sampleRows)] {
		pdf.MultiCell(0, 5, tr(SampleLine(d)), "", "", false)
		pdf.Ln(1)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("layout report: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}
	metrics.ReportBytes.Observe(float64(buf.Len()))
	return buf.Bytes(), nil
}

func (b *Builder) placeImage(pdf *fpdf.Fpdf, tr func(string) string, i int, img Image) {
	if len(img.PNG) == 0 {
		b.skip(img, fmt.Errorf("empty image"))
		return
	}
	if _, err := png.DecodeConfig(bytes.NewReader(img.PNG)); err != nil {
		b.skip(img, err)
		return
	}

	name := fmt.Sprintf("img%d-%s", i, img.Name)
	pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(img.PNG))
	if pdf.Err() {
		err := pdf.Error()
		pdf.ClearError()
		b.skip(img, err)
		return
	}

	pdf.SetFont(fontFamily, "", 11)
	pdf.CellFormat(0, 6, tr(img.Caption), "", 1, "", false, 0, "")
	pdf.ImageOptions(name, -1, 0, imageWidthMM, 0, true, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	pdf.Ln(4)
}

func (b *Builder) skip(img Image, err error) {
	b.logger.Warn("Report image skipped",
		zap.String("asset", img.Name),
		zap.Error(err),
	)
	metrics.ReportAssetsSkippedTotal.WithLabelValues(img.Name).Inc()
}

// SampleLine formats one matched decision for the sample page.
func SampleLine(d decision.Decision) string {
	return strings.Join([]string{
		strconv.FormatInt(d.ID(), 10),
		d.Court(),
		d.Outcome(),
		Excerpt(d.Summary(), excerptRunes),
	}, " | ")
}

// Excerpt truncates s to at most n runes, marking the cut with an ellipsis.
func Excerpt(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimRight(string(r[:n-1]), " ") + "…"
}

func clampSampleRows(n int) int {
	if n == 0 {
		return DefaultSampleRows
	}
	return min(max(n, MinSampleRows), MaxSampleRows)
}
