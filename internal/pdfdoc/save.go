package pdfdoc

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/HRitchy/editeur-pdf-trade-republic/internal/document"
)

// Fixed document dates keep the output byte-identical across runs.
var fixedDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// thinRule is the extent below which a rectangle is painted as a filled
// rule rather than an outline.
const thinRule = 2.0

// Save writes the document as PDF. With Garbage set, identical images are
// written once and shared; objects that no page references are never
// written either way.
func (d *Document) Save(w io.Writer, opts document.SaveOptions) error {
	if len(d.pages) == 0 {
		return errors.New("pdfdoc: document has no pages")
	}

	first := d.pages[0]
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: first.width, Ht: first.height},
	})
	pdf.SetCompression(opts.Compress)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(fixedDate)
	pdf.SetModificationDate(fixedDate)
	pdf.SetProducer("pdfedit", false)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)

	sw := &pageWriter{pdf: pdf, opts: opts, registered: make(map[string]bool)}
	for i, p := range d.pages {
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: p.width, Ht: p.height})
		sw.page = i
		sw.charSpace = 0
		sw.drawings(p.drawings)
		for _, img := range p.images {
			if img.Data == nil {
				d.log.WithField("page", i).WithField("image", img.Name).Warn("image skipped, no decodable data")
				continue
			}
			sw.image(img)
		}
		sw.texts(p.texts)
		if err := pdf.Error(); err != nil {
			return fmt.Errorf("pdfdoc: page %d: %w", i, err)
		}
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdfdoc: write: %w", err)
	}
	return nil
}

type pageWriter struct {
	pdf        *fpdf.Fpdf
	opts       document.SaveOptions
	registered map[string]bool
	page       int
	count      int
	font       string
	charSpace  float64
}

func rgb(c Color) (int, int, int) {
	to := func(v float64) int { return int(math.Round(math.Min(1, math.Max(0, v)) * 255)) }
	return to(c.R), to(c.G), to(c.B)
}

func (sw *pageWriter) drawings(drawings []Drawing) {
	for _, d := range drawings {
		if d.Line {
			sw.pdf.SetDrawColor(rgb(d.Color))
			sw.pdf.SetLineWidth(math.Max(d.Width, 0.1))
			sw.pdf.Line(d.Seg[0], d.Seg[1], d.Seg[2], d.Seg[3])
			continue
		}
		b := d.Box
		if d.Fill || b.Width() < thinRule || b.Height() < thinRule {
			sw.pdf.SetFillColor(rgb(d.Color))
			sw.pdf.Rect(b.X0, b.Y0, b.Width(), b.Height(), "F")
			continue
		}
		sw.pdf.SetDrawColor(rgb(d.Color))
		sw.pdf.SetLineWidth(math.Max(d.Width, 0.1))
		sw.pdf.Rect(b.X0, b.Y0, b.Width(), b.Height(), "D")
	}
}

func (sw *pageWriter) image(img Image) {
	sum := sha256.Sum256(img.Data)
	name := "img-" + hex.EncodeToString(sum[:8])
	if !sw.opts.Garbage {
		sw.count++
		name = fmt.Sprintf("%s-p%d-%d", name, sw.page, sw.count)
	}
	opts := fpdf.ImageOptions{ImageType: imagePNG}
	if img.Type != "" {
		opts.ImageType = img.Type
	}
	if !sw.registered[name] {
		sw.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img.Data))
		sw.registered[name] = true
	}
	b := img.Box
	sw.pdf.ImageOptions(name, b.X0, b.Y0, b.Width(), b.Height(), false, opts, 0, "")
}

// texts writes each run glyph by glyph so that character positions
// survive a reload with fonts lacking width tables.
func (sw *pageWriter) texts(runs []TextRun) {
	for _, r := range runs {
		if r.Size <= 0 {
			continue
		}
		family, style := standardFont(r.Font)
		if key := fmt.Sprintf("%s/%s/%.3f", family, style, r.Size); key != sw.font {
			sw.pdf.SetFont(family, style, r.Size)
			sw.font = key
		}
		sw.pdf.SetTextColor(rgb(r.Color))
		if r.Spacing != sw.charSpace {
			// Text state outlives BT/ET, so a reload sees the spacing again.
			sw.pdf.RawWriteStr(fmt.Sprintf("%.3f Tc", r.Spacing))
			sw.charSpace = r.Spacing
		}
		x := r.X
		for _, c := range encodeWinAnsi(r.Text) {
			s := string([]byte{c})
			sw.pdf.Text(x, r.Baseline, s)
			x += sw.pdf.GetStringWidth(s) + r.Spacing
		}
	}
}
