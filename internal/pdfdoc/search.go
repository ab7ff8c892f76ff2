package pdfdoc

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/HRitchy/editeur-pdf-trade-republic/internal/document"
)

// wordGap is the horizontal gap, relative to the font size, above which two
// runs on the same row are treated as separate words.
const wordGap = 0.3

// line is a row of runs sharing a baseline, ordered left to right.
type line struct {
	baseline float64
	runs     []int
}

// cell maps one rune of a line's text back to a rune of a run. run is -1
// for a space inferred from a gap between runs.
type cell struct {
	run, pos, n int
}

type lineText struct {
	text  []rune
	cells []cell
}

func rowTolerance(size float64) float64 {
	return math.Max(1, 0.2*size)
}

// lines groups the page's runs into rows, top to bottom.
func (p *Page) lines() []line {
	idx := make([]int, len(p.texts))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ra, rb := p.texts[idx[a]], p.texts[idx[b]]
		if ra.Baseline != rb.Baseline {
			return ra.Baseline < rb.Baseline
		}
		return ra.X < rb.X
	})

	var rows []line
	for _, i := range idx {
		r := p.texts[i]
		if n := len(rows); n > 0 && math.Abs(r.Baseline-rows[n-1].baseline) <= rowTolerance(r.Size) {
			rows[n-1].runs = append(rows[n-1].runs, i)
			continue
		}
		rows = append(rows, line{baseline: r.Baseline, runs: []int{i}})
	}
	for _, row := range rows {
		sort.SliceStable(row.runs, func(a, b int) bool {
			return p.texts[row.runs[a]].X < p.texts[row.runs[b]].X
		})
	}
	return rows
}

// layoutLine renders a row as text. Whitespace collapses to single spaces
// and a space is inferred where runs are separated by a word-sized gap.
func (p *Page) layoutLine(l line) lineText {
	var lt lineText
	lastSpace := true
	var prev *TextRun
	for _, ri := range l.runs {
		r := &p.texts[ri]
		runes := []rune(r.Text)
		if len(runes) == 0 {
			continue
		}
		if prev != nil && prev.Width > 0 && !lastSpace && !unicode.IsSpace(runes[0]) {
			gap := r.X - (prev.X + prev.Width) - prev.Spacing
			if gap > wordGap*math.Max(prev.Size, r.Size) {
				lt.text = append(lt.text, ' ')
				lt.cells = append(lt.cells, cell{run: -1})
				lastSpace = true
			}
		}
		for k, ch := range runes {
			if unicode.IsSpace(ch) {
				if lastSpace {
					continue
				}
				ch = ' '
			}
			lt.text = append(lt.text, ch)
			lt.cells = append(lt.cells, cell{run: ri, pos: k, n: len(runes)})
			lastSpace = ch == ' '
		}
		prev = r
	}
	for len(lt.text) > 0 && lt.text[len(lt.text)-1] == ' ' {
		lt.text = lt.text[:len(lt.text)-1]
		lt.cells = lt.cells[:len(lt.cells)-1]
	}
	return lt
}

// normalizeQuery applies the same folding as layoutLine to a search string.
func normalizeQuery(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// Search returns the box of every occurrence of text on the page, in
// reading order. Matching is exact and case-sensitive; an occurrence must
// lie on a single row.
func (p *Page) Search(text string) []document.Rect {
	q := []rune(normalizeQuery(text))
	if len(q) == 0 {
		return nil
	}
	var boxes []document.Rect
	for _, l := range p.lines() {
		lt := p.layoutLine(l)
		for i := 0; i+len(q) <= len(lt.text); {
			if !hasPrefix(lt.text[i:], q) {
				i++
				continue
			}
			var box document.Rect
			for _, c := range lt.cells[i : i+len(q)] {
				if c.run < 0 {
					continue
				}
				box = box.Union(p.texts[c.run].runeBox(c.pos, c.n))
			}
			boxes = append(boxes, box)
			i += len(q)
		}
	}
	return boxes
}

func hasPrefix(s, prefix []rune) bool {
	if len(prefix) > len(s) {
		return false
	}
	for i, r := range prefix {
		if s[i] != r {
			return false
		}
	}
	return true
}
