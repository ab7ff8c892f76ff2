package pdfdoc

import (
	"strings"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"
)

// standardFont maps a PDF base font name onto one of the core font
// families, keeping bold and italic when the name carries them.
func standardFont(name string) (family, style string) {
	n := strings.ToLower(name)
	if i := strings.IndexByte(n, '+'); i >= 0 {
		n = n[i+1:]
	}
	switch {
	case containsAny(n, "courier", "mono"):
		family = "Courier"
	case containsAny(n, "times", "georgia", "garamond", "roman"),
		strings.Contains(n, "serif") && !strings.Contains(n, "sans"):
		family = "Times"
	default:
		family = "Helvetica"
	}
	if containsAny(n, "bold", "black", "heavy", "semibold", "demi") {
		style += "B"
	}
	if containsAny(n, "italic", "oblique") {
		style += "I"
	}
	return family, style
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// coreMetrics measures standard 14 font glyphs with fpdf's built-in font
// tables, for fonts whose dictionary omits /Widths.
type coreMetrics struct {
	pdf *fpdf.Fpdf
	cur string
}

func newCoreMetrics() *coreMetrics {
	return &coreMetrics{pdf: fpdf.New("P", "pt", "A4", "")}
}

// width returns the advance of a WinAnsi code in thousandths of an em.
func (m *coreMetrics) width(baseFont string, code byte) float64 {
	family, style := standardFont(baseFont)
	if key := family + style; key != m.cur {
		m.pdf.SetFont(family, style, 1000)
		m.cur = key
	}
	return m.pdf.GetStringWidth(string([]byte{code}))
}

// encodeWinAnsi converts text to the single-byte encoding the core fonts
// use. Characters outside Windows-1252 become '?'.
func encodeWinAnsi(s string) []byte {
	b := make([]byte, 0, len(s))
	for _, r := range s {
		if c, ok := charmap.Windows1252.EncodeRune(r); ok {
			b = append(b, c)
			continue
		}
		b = append(b, '?')
	}
	return b
}
