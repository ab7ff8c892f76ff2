// Package pdfdoc is an in-memory page model for PDF documents. Pages are
// read with rsc.io/pdf into positioned text runs, images and drawings,
// edited in place, and written back out with fpdf.
package pdfdoc

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/HRitchy/editeur-pdf-trade-republic/internal/document"
)

// Document is an ordered list of pages.
type Document struct {
	pages []*Page
	log   logrus.FieldLogger
}

var _ document.Document = (*Document)(nil)

// New returns an empty document.
func New() *Document {
	return &Document{log: discardLogger()}
}

// SetLogger replaces the logger used for warnings while saving.
func (d *Document) SetLogger(log logrus.FieldLogger) {
	if log == nil {
		log = discardLogger()
	}
	d.log = log
}

// AddPage appends a blank page of the given size in points.
func (d *Document) AddPage(width, height float64) *Page {
	p := &Page{width: width, height: height}
	d.pages = append(d.pages, p)
	return p
}

func (d *Document) PageCount() int { return len(d.pages) }

// Page returns the page at index, or nil when out of range.
func (d *Document) Page(index int) document.Page {
	if p := d.PageAt(index); p != nil {
		return p
	}
	return nil
}

// PageAt is Page without the interface conversion.
func (d *Document) PageAt(index int) *Page {
	if index < 0 || index >= len(d.pages) {
		return nil
	}
	return d.pages[index]
}

func (d *Document) DeletePage(index int) error {
	if index < 0 || index >= len(d.pages) {
		return fmt.Errorf("pdfdoc: page %d out of range [0,%d)", index, len(d.pages))
	}
	copy(d.pages[index:], d.pages[index+1:])
	d.pages[len(d.pages)-1] = nil
	d.pages = d.pages[:len(d.pages)-1]
	return nil
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
