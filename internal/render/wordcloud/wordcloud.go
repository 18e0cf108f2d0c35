// Package wordcloud renders ranked words as a PNG cloud.
package wordcloud

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/kailas-cloud/ementa/internal/domain/analysis"
)

// EmptyText is drawn when there are no words to show.
const EmptyText = "Sem palavras para exibir"

const (
	defaultWidth  = 1000
	defaultHeight = 500
	minFontSize   = 14
	maxFontSize   = 64
	margin        = 20
	wordGap       = 16
	dpi           = 72
)

var palette = []color.RGBA{
	{R: 0x1f, G: 0x4e, B: 0x79, A: 0xff},
	{R: 0x2e, G: 0x75, B: 0xb6, A: 0xff},
	{R: 0x38, G: 0x8e, B: 0x3c, A: 0xff},
	{R: 0xc5, G: 0x5a, B: 0x11, A: 0xff},
	{R: 0x7b, G: 0x1f, B: 0xa2, A: 0xff},
}

// Renderer draws word clouds with an embedded Go font.
type Renderer struct {
	font   *opentype.Font
	width  int
	height int
}

// NewRenderer parses the embedded font.
func NewRenderer() (*Renderer, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &Renderer{font: f, width: defaultWidth, height: defaultHeight}, nil
}

// faceCache shares one face per font size within a render.
type faceCache struct {
	font  *opentype.Font
	faces map[float64]font.Face
}

func (r *Renderer) newFaceCache() *faceCache {
	return &faceCache{font: r.font, faces: make(map[float64]font.Face)}
}

func (c *faceCache) get(size float64) (font.Face, error) {
	if f, ok := c.faces[size]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(c.font, &opentype.FaceOptions{Size: size, DPI: dpi, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	c.faces[size] = f
	return f, nil
}

func (c *faceCache) close() {
	for _, f := range c.faces {
		_ = f.Close()
	}
}

type placed struct {
	text  string
	size  float64
	color color.RGBA
	width int
}

type row struct {
	words  []placed
	width  int
	height int
}

// Render lays out words in centred rows with font size scaled by frequency.
// Words that do not fit are dropped from the tail, so the most frequent ones always show.
func (r *Renderer) Render(words []analysis.WordCount) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	faces := r.newFaceCache()
	defer faces.close()

	items := words
	if len(items) == 0 {
		items = []analysis.WordCount{{Word: EmptyText, Count: 0}}
	}

	rows, err := r.layout(items, faces)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, rw := range rows {
		total += rw.height
	}
	y := (r.height - total) / 2
	for _, rw := range rows {
		x := (r.width - rw.width) / 2
		for _, w := range rw.words {
			f, err := faces.get(w.size)
			if err != nil {
				return nil, err
			}
			baseline := y + (rw.height+f.Metrics().Ascent.Ceil()-f.Metrics().Descent.Ceil())/2
			d := font.Drawer{
				Dst:  img,
				Src:  image.NewUniform(w.color),
				Face: f,
				Dot:  fixed.P(x, baseline),
			}
			d.DrawString(w.text)
			x += w.width + wordGap
		}
		y += rw.height
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) layout(words []analysis.WordCount, faces *faceCache) ([]row, error) {
	peak := 0
	for _, w := range words {
		peak = max(peak, w.Count)
	}

	limit := r.width - 2*margin
	var (
		rows   []row
		cur    row
		height int
	)
	for i, w := range words {
		size := fontSize(w.Count, peak)
		f, err := faces.get(size)
		if err != nil {
			return nil, err
		}
		adv := font.MeasureString(f, w.Word).Ceil()
		if adv > limit {
			continue
		}
		lineHeight := f.Metrics().Height.Ceil()

		if cur.width > 0 && cur.width+wordGap+adv > limit {
			if height+cur.height > r.height-2*margin {
				break
			}
			rows = append(rows, cur)
			height += cur.height
			cur = row{}
		}
		if cur.width > 0 {
			cur.width += wordGap
		}
		cur.words = append(cur.words, placed{
			text:  w.Word,
			size:  size,
			color: palette[i%len(palette)],
			width: adv,
		})
		cur.width += adv
		cur.height = max(cur.height, lineHeight)
	}
	if len(cur.words) > 0 && height+cur.height <= r.height-2*margin {
		rows = append(rows, cur)
	}
	return rows, nil
}

// fontSize scales linearly between minFontSize and maxFontSize.
func fontSize(count, peak int) float64 {
	if peak <= 0 {
		return (minFontSize + maxFontSize) / 2
	}
	size := minFontSize + float64(count)/float64(peak)*(maxFontSize-minFontSize)
	// Quantise so faces are shared between words of similar weight.
	return float64(int(size/2) * 2)
}
