package edit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HRitchy/editeur-pdf-trade-republic/internal/document"
	"github.com/HRitchy/editeur-pdf-trade-republic/internal/pdfdoc"
)

func TestReplaceText(t *testing.T) {
	doc := newDoc(
		[]line{{"Jean Dupont", 100}, {"Jean Dupont et Jean Dupont", 200}},
		[]line{{"Marie Curie", 100}},
		[]line{{"M. Jean Dupont", 100}},
	)
	rec := &recorder{Document: doc}

	pages, matches := ReplaceTextCount(rec, "Jean Dupont", "REDACTED")
	assert.Equal(t, 2, pages)
	assert.Equal(t, 4, matches)
	assert.Equal(t, 2, rec.redactions, "page without a match is not redacted")

	for i := 0; i < doc.PageCount(); i++ {
		assert.Empty(t, doc.Page(i).Search("Jean Dupont"))
	}
	assert.Len(t, doc.Page(0).Search("REDACTED"), 3)
	assert.Equal(t, "Marie Curie", doc.PageAt(1).Text())
	assert.Equal(t, "M. REDACTED", doc.PageAt(2).Text())
}

func TestReplaceTextBlankOld(t *testing.T) {
	for _, old := range []string{"", "   "} {
		rec := &recorder{Document: newDoc([]line{{"a   b", 100}})}
		assert.Zero(t, ReplaceText(rec, old, "x"))
		assert.Zero(t, rec.redactions)
	}
}

func TestReplaceTextKeepsImagesAndDrawings(t *testing.T) {
	doc := newDoc([]line{{"Compte Jean Dupont", 100}})
	p := doc.PageAt(0)
	p.AddImage(pdfdoc.Image{Name: "Im0", Box: document.Rect{X0: 40, Y0: 80, X1: 300, Y1: 120}})
	p.AddDrawing(pdfdoc.Drawing{Box: document.Rect{X0: 40, Y0: 80, X1: 300, Y1: 120}, Fill: true})

	assert.Equal(t, 1, ReplaceText(doc, "Jean Dupont", "REDACTED"))
	assert.Len(t, p.Images(), 1)
	assert.Len(t, p.Drawings(), 1)
}

func TestReplaceTextIdentity(t *testing.T) {
	doc := newDoc(
		[]line{{"X marque", 100}, {"autre ligne", 200}},
		[]line{{"sans rien", 100}},
	)
	p := doc.PageAt(0)
	p.AddImage(pdfdoc.Image{Name: "Im0", Box: document.Rect{X0: 40, Y0: 90, X1: 60, Y1: 110}})
	images := p.Images()

	assert.Equal(t, 1, ReplaceText(doc, "X", "X"))
	assert.Equal(t, 2, doc.PageCount())
	assert.Equal(t, images, p.Images())
	assert.Len(t, p.Search("X"), 1)
	assert.Len(t, p.Search("marque"), 1)
	assert.Len(t, p.Search("autre ligne"), 1)
	assert.Equal(t, "sans rien", doc.PageAt(1).Text())
}

func TestStripImages(t *testing.T) {
	doc := newDoc([]line{{"texte", 100}}, []line{{"suite", 100}})
	doc.PageAt(0).AddImage(pdfdoc.Image{Name: "Im0", Box: document.Rect{X0: 10, Y0: 10, X1: 50, Y1: 50}})
	doc.PageAt(0).AddImage(pdfdoc.Image{Name: "Im0", Box: document.Rect{X0: 10, Y0: 700, X1: 50, Y1: 740}})
	doc.PageAt(1).AddImage(pdfdoc.Image{Name: "Im1", Box: document.Rect{X0: 10, Y0: 10, X1: 50, Y1: 50}})
	doc.PageAt(1).AddDrawing(pdfdoc.Drawing{Box: document.Rect{X0: 10, Y0: 10, X1: 50, Y1: 50}, Fill: true})

	require.Equal(t, 2, StripImages(doc))
	for i := 0; i < doc.PageCount(); i++ {
		assert.Empty(t, doc.Page(i).Images())
	}
	assert.Equal(t, "texte", doc.PageAt(0).Text())
	assert.Len(t, doc.PageAt(1).Drawings(), 1)

	rec := &recorder{Document: doc}
	assert.Zero(t, StripImages(rec), "second pass finds nothing")
	assert.Zero(t, rec.mutations())
}

func TestAssembleEmptyDocument(t *testing.T) {
	_, err := Assemble(pdfdoc.New())
	assert.Error(t, err)
}
