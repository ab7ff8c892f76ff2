// Package document defines the narrow page capability the editing pipeline
// works against. Coordinates are PDF points with the origin at the top-left
// corner of the page and y growing downwards.
package document

import "io"

// ImageRef identifies one image placed on a page.
type ImageRef struct {
	Name string
	Box  Rect
	// Unsupported marks an image whose data cannot be written back. It
	// is left out of a saved document.
	Unsupported bool
}

// Redaction destroys everything inside Area. When Replacement is set the
// text is placed at the area's position once the original content is gone.
type Redaction struct {
	Area        Rect
	Replacement string
	// TextOnly leaves images and drawings in place.
	TextOnly bool
}

// Page is a single mutable page.
type Page interface {
	Size() (width, height float64)
	// Search returns the boxes of every occurrence of text in reading order.
	Search(text string) []Rect
	// Redact applies all redactions in a single pass.
	Redact(redactions ...Redaction)
	Images() []ImageRef
	DeleteImage(ref ImageRef) error
}

// SaveOptions controls serialization.
type SaveOptions struct {
	// Garbage drops objects no longer referenced by any page.
	Garbage  bool
	Compress bool
}

// Document is an ordered sequence of pages.
type Document interface {
	PageCount() int
	Page(index int) Page
	DeletePage(index int) error
	Save(w io.Writer, opts SaveOptions) error
}
