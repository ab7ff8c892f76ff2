package edit

import (
	"fmt"

	"github.com/HRitchy/editeur-pdf-trade-republic/internal/document"
)

// Validate checks the region against a document of pageCount pages. On a
// shared page the end box must not start above the bottom of the start box.
func (r Region) Validate(pageCount int) error {
	switch {
	case r.StartPage < 0 || r.EndPage >= pageCount:
		return fmt.Errorf("%w: pages %d-%d outside document of %d pages", ErrInvalidRegion, r.StartPage+1, r.EndPage+1, pageCount)
	case r.StartPage > r.EndPage:
		return fmt.Errorf("%w: end page %d before start page %d", ErrInvalidRegion, r.EndPage+1, r.StartPage+1)
	case r.StartPage == r.EndPage && r.EndBox.Y0 < r.StartBox.Y1:
		return fmt.Errorf("%w: end marker above start marker on page %d", ErrInvalidRegion, r.StartPage+1)
	}
	return nil
}

// Trim reduces doc to the region: content above the start marker and from
// the end cut down is destroyed, then pages outside the region are deleted
// from the last one backwards.
func Trim(doc document.Document, r Region, cut EndCut) error {
	if err := r.Validate(doc.PageCount()); err != nil {
		return err
	}

	first := doc.Page(r.StartPage)
	w, _ := first.Size()
	top := document.Redaction{Area: document.Rect{X1: w, Y1: r.StartBox.Y0}}
	if r.StartPage == r.EndPage {
		first.Redact(top, bottomBand(first, r.EndBox, cut))
	} else {
		first.Redact(top)
		last := doc.Page(r.EndPage)
		last.Redact(bottomBand(last, r.EndBox, cut))
	}

	for i := doc.PageCount() - 1; i >= 0; i-- {
		if i >= r.StartPage && i <= r.EndPage {
			continue
		}
		if err := doc.DeletePage(i); err != nil {
			return fmt.Errorf("trim: delete page %d: %w", i+1, err)
		}
	}
	return nil
}

func bottomBand(p document.Page, box document.Rect, cut EndCut) document.Redaction {
	w, h := p.Size()
	return document.Redaction{Area: document.Rect{Y0: cut.edge(box), X1: w, Y1: h}}
}
