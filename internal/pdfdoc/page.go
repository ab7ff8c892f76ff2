package pdfdoc

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/HRitchy/editeur-pdf-trade-republic/internal/document"
)

// Glyph extents relative to the font size, measured from the baseline.
const (
	ascent  = 0.8
	descent = 0.2
)

// Color is an RGB colour with components in [0, 1].
type Color struct {
	R, G, B float64
}

// TextRun is text drawn from a single origin with one font.
type TextRun struct {
	Text     string
	Font     string
	Size     float64
	X        float64
	Baseline float64
	Width    float64
	// Spacing is the extra advance after each glyph set by character
	// spacing. It is not a word break.
	Spacing float64
	Color   Color
}

// Bounds returns the box covering the run.
func (r TextRun) Bounds() document.Rect {
	return document.Rect{
		X0: r.X,
		Y0: r.Baseline - ascent*r.Size,
		X1: r.X + r.Width,
		Y1: r.Baseline + descent*r.Size,
	}
}

// runeBox returns the box of the k-th rune, splitting the run width evenly.
func (r TextRun) runeBox(k, n int) document.Rect {
	b := r.Bounds()
	if n <= 1 {
		return b
	}
	w := r.Width / float64(n)
	b.X0 = r.X + float64(k)*w
	b.X1 = b.X0 + w
	return b
}

// Image is one placement of an image XObject.
type Image struct {
	Name string
	Box  document.Rect
	// Data holds the encoded image, nil when the source stream could not
	// be decoded.
	Data []byte
	// Type is the encoding of Data, "PNG" or "JPG". Empty means PNG.
	Type string
}

// Drawing is a painted rectangle or line segment.
type Drawing struct {
	Box document.Rect
	// Line marks a stroked segment from (X0,Y0) to (X1,Y1) in Seg.
	Line  bool
	Seg   [4]float64
	Fill  bool
	Width float64
	Color Color
}

// Page holds the positioned content of one page.
type Page struct {
	width, height float64
	texts         []TextRun
	images        []Image
	drawings      []Drawing
}

var _ document.Page = (*Page)(nil)

func (p *Page) Size() (width, height float64) { return p.width, p.height }

// AddText appends a text run. The text is stored NFC-normalised.
func (p *Page) AddText(run TextRun) {
	run.Text = norm.NFC.String(run.Text)
	if run.Text == "" {
		return
	}
	p.texts = append(p.texts, run)
}

func (p *Page) AddImage(img Image) { p.images = append(p.images, img) }

func (p *Page) AddDrawing(d Drawing) { p.drawings = append(p.drawings, d) }

func (p *Page) Runs() []TextRun {
	return append([]TextRun(nil), p.texts...)
}

func (p *Page) Drawings() []Drawing {
	return append([]Drawing(nil), p.drawings...)
}

// Images lists each image once, at its first placement.
func (p *Page) Images() []document.ImageRef {
	seen := make(map[string]bool)
	var refs []document.ImageRef
	for _, img := range p.images {
		if seen[img.Name] {
			continue
		}
		seen[img.Name] = true
		refs = append(refs, document.ImageRef{Name: img.Name, Box: img.Box, Unsupported: img.Data == nil})
	}
	return refs
}

// DeleteImage removes every placement of the referenced image.
func (p *Page) DeleteImage(ref document.ImageRef) error {
	kept := p.images[:0]
	for _, img := range p.images {
		if img.Name != ref.Name {
			kept = append(kept, img)
		}
	}
	if len(kept) == len(p.images) {
		return fmt.Errorf("pdfdoc: image %q not on page", ref.Name)
	}
	for i := len(kept); i < len(p.images); i++ {
		p.images[i] = Image{}
	}
	p.images = kept
	return nil
}

// Text returns the page text, one line per row in reading order.
func (p *Page) Text() string {
	var b strings.Builder
	for i, l := range p.lines() {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(p.layoutLine(l).text))
	}
	return b.String()
}
