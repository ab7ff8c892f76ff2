package edit

import (
	"strings"

	"github.com/HRitchy/editeur-pdf-trade-republic/internal/document"
)

// ReplaceText overwrites every occurrence of old with new and returns the
// number of pages touched.
func ReplaceText(doc document.Document, old, new string) int {
	pages, _ := ReplaceTextCount(doc, old, new)
	return pages
}

// ReplaceTextCount is ReplaceText that also reports the number of
// occurrences replaced. Pages without a match are left alone, as is every
// page when old is blank.
func ReplaceTextCount(doc document.Document, old, new string) (pages, matches int) {
	if strings.TrimSpace(old) == "" {
		return 0, 0
	}
	for i := 0; i < doc.PageCount(); i++ {
		p := doc.Page(i)
		boxes := p.Search(old)
		if len(boxes) == 0 {
			continue
		}
		rds := make([]document.Redaction, len(boxes))
		for k, box := range boxes {
			rds[k] = document.Redaction{Area: box, Replacement: new, TextOnly: true}
		}
		p.Redact(rds...)
		pages++
		matches += len(boxes)
	}
	return pages, matches
}

// StripImages removes every image from every page and returns how many
// were removed. Text and drawings are untouched.
func StripImages(doc document.Document) int {
	n := 0
	for i := 0; i < doc.PageCount(); i++ {
		p := doc.Page(i)
		for _, ref := range p.Images() {
			if p.DeleteImage(ref) == nil {
				n++
			}
		}
	}
	return n
}

// UnsupportedImages counts the images still on the pages whose data cannot
// be written back.
func UnsupportedImages(doc document.Document) int {
	n := 0
	for i := 0; i < doc.PageCount(); i++ {
		for _, ref := range doc.Page(i).Images() {
			if ref.Unsupported {
				n++
			}
		}
	}
	return n
}
