package edit

import (
	"io"
	"unicode/utf8"

	"github.com/HRitchy/editeur-pdf-trade-republic/internal/document"
	"github.com/HRitchy/editeur-pdf-trade-republic/internal/pdfdoc"
)

const (
	pageW = 595
	pageH = 842
)

// line is one text line at a baseline, 10pt, starting at x=50.
type line struct {
	text     string
	baseline float64
}

func addLines(p *pdfdoc.Page, lines ...line) {
	for _, l := range lines {
		p.AddText(pdfdoc.TextRun{
			Text:     l.text,
			Font:     "Helvetica",
			Size:     10,
			X:        50,
			Baseline: l.baseline,
			Width:    5 * float64(utf8.RuneCountInString(l.text)),
		})
	}
}

// newDoc builds a document with one page per element of pages.
func newDoc(pages ...[]line) *pdfdoc.Document {
	doc := pdfdoc.New()
	for _, lines := range pages {
		addLines(doc.AddPage(pageW, pageH), lines...)
	}
	return doc
}

// recorder wraps a document and counts every mutation made through it.
type recorder struct {
	document.Document
	redactions   int
	imageDeletes int
	pageDeletes  int
	saves        int
}

func (r *recorder) Page(i int) document.Page {
	p := r.Document.Page(i)
	if p == nil {
		return nil
	}
	return &recordingPage{Page: p, r: r}
}

func (r *recorder) DeletePage(i int) error {
	r.pageDeletes++
	return r.Document.DeletePage(i)
}

func (r *recorder) Save(w io.Writer, opts document.SaveOptions) error {
	r.saves++
	return r.Document.Save(w, opts)
}

func (r *recorder) mutations() int {
	return r.redactions + r.imageDeletes + r.pageDeletes
}

type recordingPage struct {
	document.Page
	r *recorder
}

func (p *recordingPage) Redact(rds ...document.Redaction) {
	p.r.redactions++
	p.Page.Redact(rds...)
}

func (p *recordingPage) DeleteImage(ref document.ImageRef) error {
	p.r.imageDeletes++
	return p.Page.DeleteImage(ref)
}
