package edit

import (
	"strings"

	"github.com/HRitchy/editeur-pdf-trade-republic/internal/document"
)

// Locate finds the first start marker and the first end marker on or after
// its page. Scanning stops at the end marker; the document is not modified.
func Locate(doc document.Document, start, end string) (Region, error) {
	if strings.TrimSpace(start) == "" || strings.TrimSpace(end) == "" {
		return Region{}, ErrEmptyMarker
	}
	n := doc.PageCount()
	if n == 0 {
		return Region{}, ErrEmptyDocument
	}

	found := false
	var r Region
	for i := 0; i < n; i++ {
		p := doc.Page(i)
		if !found {
			if boxes := p.Search(start); len(boxes) > 0 {
				r.StartPage, r.StartBox = i, boxes[0]
				found = true
			}
		}
		if found {
			if boxes := p.Search(end); len(boxes) > 0 {
				r.EndPage, r.EndBox = i, boxes[0]
				return r, nil
			}
		}
	}
	if !found {
		return Region{}, &MarkerError{Marker: start, Role: "start"}
	}
	return Region{}, &MarkerError{Marker: end, Role: "end"}
}
