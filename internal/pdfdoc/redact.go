package pdfdoc

import (
	"math"
	"unicode/utf8"

	"github.com/HRitchy/editeur-pdf-trade-republic/internal/document"
)

// replacementAdvance approximates the advance of a replacement glyph, in
// units of the font size.
const replacementAdvance = 0.5

// Redact destroys the content under each area in one pass and then places
// any replacement text.
//
// A rune is removed when the centre of its box lies inside an area. Images
// overlapping an area are removed. Drawings are removed when covered; a
// drawing crossed by an area spanning its visible width keeps the parts
// above and below the area, line segments included. TextOnly redactions leave images and drawings alone.
func (p *Page) Redact(redactions ...document.Redaction) {
	var textAreas, allAreas []document.Rect
	var placed []TextRun
	for _, rd := range redactions {
		if rd.Area.IsEmpty() {
			continue
		}
		if rd.Replacement != "" {
			placed = append(placed, p.replacementRun(rd))
		}
		textAreas = append(textAreas, rd.Area)
		if !rd.TextOnly {
			allAreas = append(allAreas, rd.Area)
		}
	}
	if len(textAreas) == 0 {
		return
	}

	p.texts = removeText(p.texts, textAreas)
	for _, area := range allAreas {
		p.images = removeImages(p.images, area)
		p.drawings = clipDrawings(p.drawings, area, p.width)
	}
	for _, run := range placed {
		p.AddText(run)
	}
}

// replacementRun positions text over area, reusing the font and baseline
// of the first rune the area covers.
func (p *Page) replacementRun(rd document.Redaction) TextRun {
	run := TextRun{
		Text: rd.Replacement,
		Font: "Helvetica",
		Size: rd.Area.Height() / (ascent + descent),
		X:    rd.Area.X0,
	}
	run.Baseline = rd.Area.Y1 - descent*run.Size

	for _, l := range p.lines() {
		lt := p.layoutLine(l)
		for _, c := range lt.cells {
			if c.run < 0 {
				continue
			}
			src := p.texts[c.run]
			if x, y := src.runeBox(c.pos, c.n).Center(); rd.Area.Contains(x, y) {
				run.Font, run.Size, run.Baseline, run.Color = src.Font, src.Size, src.Baseline, src.Color
				run.Width = replacementAdvance * run.Size * float64(utf8.RuneCountInString(run.Text))
				return run
			}
		}
	}
	run.Width = replacementAdvance * run.Size * float64(utf8.RuneCountInString(run.Text))
	return run
}

// removeText drops every rune whose centre lies in one of areas, splitting
// runs around the removed runes.
func removeText(runs []TextRun, areas []document.Rect) []TextRun {
	out := make([]TextRun, 0, len(runs))
	for _, r := range runs {
		runes := []rune(r.Text)
		n := len(runes)
		keep := make([]bool, n)
		dropped := false
		for k := range runes {
			x, y := r.runeBox(k, n).Center()
			keep[k] = !inAny(areas, x, y)
			dropped = dropped || !keep[k]
		}
		if !dropped {
			out = append(out, r)
			continue
		}
		w := r.Width / float64(n)
		for k := 0; k < n; {
			if !keep[k] {
				k++
				continue
			}
			j := k
			for j < n && keep[j] {
				j++
			}
			piece := r
			piece.Text = string(runes[k:j])
			piece.X = r.X + float64(k)*w
			piece.Width = float64(j-k) * w
			out = append(out, piece)
			k = j
		}
	}
	return out
}

func inAny(areas []document.Rect, x, y float64) bool {
	for _, a := range areas {
		if a.Contains(x, y) {
			return true
		}
	}
	return false
}

func removeImages(images []Image, area document.Rect) []Image {
	kept := images[:0]
	for _, img := range images {
		if !img.Box.Intersects(area) {
			kept = append(kept, img)
		}
	}
	return kept
}

// clipDrawings removes what area covers from each drawing. Only the part of
// a drawing inside the page width counts, so bleed past the edges does not
// keep a full-width area from clipping it.
func clipDrawings(drawings []Drawing, area document.Rect, pageWidth float64) []Drawing {
	out := make([]Drawing, 0, len(drawings))
	for _, d := range drawings {
		if !d.Box.Intersects(area) {
			out = append(out, d)
			continue
		}
		visible := d.Box
		visible.X0 = math.Max(visible.X0, math.Min(0, area.X0))
		visible.X1 = math.Min(visible.X1, math.Max(pageWidth, area.X1))
		if !(area.X0 <= visible.X0 && area.X1 >= visible.X1) {
			if !area.ContainsRect(visible) {
				out = append(out, d)
			}
			continue
		}
		if d.Line {
			if part, ok := lineBetween(d, math.Inf(-1), area.Y0); ok {
				out = append(out, part)
			}
			if part, ok := lineBetween(d, area.Y1, math.Inf(1)); ok {
				out = append(out, part)
			}
			continue
		}
		if d.Box.Y0 < area.Y0 {
			out = append(out, clipY(d, d.Box.Y0, area.Y0))
		}
		if d.Box.Y1 > area.Y1 {
			out = append(out, clipY(d, area.Y1, d.Box.Y1))
		}
	}
	return out
}

// clipY restricts a rectangle to the vertical span [y0, y1].
func clipY(d Drawing, y0, y1 float64) Drawing {
	d.Box.Y0, d.Box.Y1 = y0, y1
	return d
}

// lineBetween returns the part of a line segment whose y lies in [lo, hi].
func lineBetween(d Drawing, lo, hi float64) (Drawing, bool) {
	x0, y0, x1, y1 := d.Seg[0], d.Seg[1], d.Seg[2], d.Seg[3]
	if y0 > y1 {
		x0, y0, x1, y1 = x1, y1, x0, y0
	}
	lo, hi = math.Max(lo, y0), math.Min(hi, y1)
	if lo >= hi {
		return d, false
	}
	at := func(y float64) float64 { return x0 + (x1-x0)*(y-y0)/(y1-y0) }
	ax, bx := at(lo), at(hi)
	d.Seg = [4]float64{ax, lo, bx, hi}
	d.Box = document.Rect{X0: math.Min(ax, bx), Y0: lo, X1: math.Max(ax, bx), Y1: hi}
	return d, true
}
