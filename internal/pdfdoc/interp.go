package pdfdoc

import (
	"math"
	"strings"

	"github.com/sirupsen/logrus"
	"rsc.io/pdf"

	"github.com/HRitchy/editeur-pdf-trade-republic/internal/document"
)

const maxFormDepth = 8

// gstate is the part of the PDF graphics state the page model keeps.
type gstate struct {
	ctm          matrix
	fill, stroke Color
	lineWidth    float64

	font      *fontInfo
	size      float64
	charSpace float64
	wordSpace float64
	scale     float64
	leading   float64
	rise      float64
}

func newGState() gstate {
	return gstate{ctm: identity, scale: 1, lineWidth: 1}
}

// interpreter replays a page's content streams into a Page.
type interpreter struct {
	page     *Page
	llx, ury float64
	metrics  *coreMetrics
	log      logrus.FieldLogger
	images   map[string]decodedImage
	src      []byte // raw file, nil when encrypted
	depth    int
}

// toPage converts PDF user space to top-left page coordinates.
func (in *interpreter) toPage(x, y float64) (float64, float64) {
	return x - in.llx, in.ury - y
}

func (in *interpreter) bounds(m matrix, pts ...[2]float64) document.Rect {
	var r document.Rect
	for i, pt := range pts {
		x, y := in.toPage(m.apply(pt[0], pt[1]))
		if i == 0 {
			r = document.Rect{X0: x, Y0: y, X1: x, Y1: y}
			continue
		}
		r.X0, r.X1 = math.Min(r.X0, x), math.Max(r.X1, x)
		r.Y0, r.Y1 = math.Min(r.Y0, y), math.Max(r.Y1, y)
	}
	return r
}

// run interprets one content stream (or array of streams) with the given
// resources. prefix namespaces image names found inside form XObjects.
func (in *interpreter) run(contents, res pdf.Value, g gstate, prefix string) {
	var (
		stack    []gstate
		tm, tlm  = identity, identity
		path     []Drawing
		cx, cy   float64
		sx, sy   float64
		fonts    = make(map[string]*fontInfo)
		fontDict = res.Key("Font")
	)

	show := func(raw string) {
		f := g.font
		if f == nil {
			return
		}
		for i := 0; i+f.codeLen <= len(raw); i += f.codeLen {
			code := raw[i : i+f.codeLen]
			w0 := f.width(code, in.metrics)
			trm := matrix{g.size * g.scale, 0, 0, g.size, 0, g.rise}.mul(tm).mul(g.ctm)
			spacing := g.charSpace * g.scale * tm.mul(g.ctm).xScale()
			if text := f.enc.Decode(code); text != "" && trm.yScale() > 0 {
				x, y := in.toPage(trm[4], trm[5])
				in.page.AddText(TextRun{
					Text:     text,
					Font:     f.base,
					Size:     trm.yScale(),
					X:        x,
					Baseline: y,
					Width:    w0 / 1000 * trm.xScale(),
					Spacing:  spacing,
					Color:    g.fill,
				})
			}
			tx := w0/1000*g.size + g.charSpace
			if f.codeLen == 1 && code[0] == ' ' {
				tx += g.wordSpace
			}
			tm = translate(tx*g.scale, 0).mul(tm)
		}
	}
	nextLine := func() {
		tlm = translate(0, -g.leading).mul(tlm)
		tm = tlm
	}
	paint := func(fill bool) {
		in.paint(path, g, fill)
		path = nil
	}

	visit := func(stk *pdf.Stack, op string) {
		args := popAll(stk)
		switch op {
		case "q":
			stack = append(stack, g)
		case "Q":
			if n := len(stack); n > 0 {
				g, stack = stack[n-1], stack[:n-1]
			}
		case "cm":
			if len(args) == 6 {
				g.ctm = matrixOf(args).mul(g.ctm)
			}
		case "w":
			g.lineWidth = num(args, 0)
		case "g", "rg", "k", "sc", "scn":
			g.fill = colorOf(args, g.fill)
		case "G", "RG", "K", "SC", "SCN":
			g.stroke = colorOf(args, g.stroke)

		case "m":
			cx, cy = num(args, 0), num(args, 1)
			sx, sy = cx, cy
		case "l":
			x, y := num(args, 0), num(args, 1)
			path = append(path, in.segment(g, cx, cy, x, y))
			cx, cy = x, y
		case "c":
			x, y := num(args, 4), num(args, 5)
			path = append(path, in.segment(g, cx, cy, x, y))
			cx, cy = x, y
		case "v", "y":
			x, y := num(args, 2), num(args, 3)
			path = append(path, in.segment(g, cx, cy, x, y))
			cx, cy = x, y
		case "h":
			if cx != sx || cy != sy {
				path = append(path, in.segment(g, cx, cy, sx, sy))
			}
			cx, cy = sx, sy
		case "re":
			x, y, w, h := num(args, 0), num(args, 1), num(args, 2), num(args, 3)
			path = append(path, Drawing{Box: in.bounds(g.ctm, [2]float64{x, y}, [2]float64{x + w, y + h})})
			cx, cy, sx, sy = x, y, x, y
		case "S", "s":
			paint(false)
		case "f", "F", "f*", "B", "B*", "b", "b*":
			paint(true)
		case "n":
			path = nil

		case "BT":
			tm, tlm = identity, identity
		case "Tc":
			g.charSpace = num(args, 0)
		case "Tw":
			g.wordSpace = num(args, 0)
		case "Tz":
			g.scale = num(args, 0) / 100
		case "TL":
			g.leading = num(args, 0)
		case "Ts":
			g.rise = num(args, 0)
		case "Tf":
			if len(args) == 2 {
				name := args[0].Name()
				f, ok := fonts[name]
				if !ok {
					f = newFontInfo(pdf.Font{V: fontDict.Key(name)})
					fonts[name] = f
				}
				g.font, g.size = f, args[1].Float64()
			}
		case "Td", "TD":
			if op == "TD" {
				g.leading = -num(args, 1)
			}
			tlm = translate(num(args, 0), num(args, 1)).mul(tlm)
			tm = tlm
		case "Tm":
			if len(args) == 6 {
				tlm = matrixOf(args)
				tm = tlm
			}
		case "T*":
			nextLine()
		case "Tj":
			if len(args) == 1 {
				show(args[0].RawString())
			}
		case "'":
			nextLine()
			if len(args) == 1 {
				show(args[0].RawString())
			}
		case "\"":
			if len(args) == 3 {
				g.wordSpace, g.charSpace = args[0].Float64(), args[1].Float64()
				nextLine()
				show(args[2].RawString())
			}
		case "TJ":
			if len(args) != 1 {
				return
			}
			arr := args[0]
			for i := 0; i < arr.Len(); i++ {
				v := arr.Index(i)
				if v.Kind() == pdf.String {
					show(v.RawString())
					continue
				}
				tm = translate(-v.Float64()/1000*g.size*g.scale, 0).mul(tm)
			}
		case "Do":
			if len(args) == 1 {
				in.do(args[0].Name(), res, g, prefix)
			}
		}
	}

	interpretAll(contents, visit)
}

// do places an image or replays a form XObject.
func (in *interpreter) do(name string, res pdf.Value, g gstate, prefix string) {
	x := res.Key("XObject").Key(name)
	switch x.Key("Subtype").Name() {
	case "Image":
		key := prefix + name
		img, ok := in.images[key]
		if !ok {
			var err error
			img, err = decodeImage(x, in.src)
			if err != nil {
				in.log.WithError(err).WithField("image", key).Warn("image data not decoded, it will be left out of the output")
			}
			in.images[key] = img
		}
		in.page.AddImage(Image{
			Name: key,
			Box:  in.bounds(g.ctm, [2]float64{0, 0}, [2]float64{1, 0}, [2]float64{0, 1}, [2]float64{1, 1}),
			Data: img.data,
			Type: img.typ,
		})
	case "Form":
		if in.depth >= maxFormDepth {
			return
		}
		m := identity
		if mv := x.Key("Matrix"); mv.Len() == 6 {
			for i := range m {
				m[i] = mv.Index(i).Float64()
			}
		}
		fres := x.Key("Resources")
		if fres.Kind() == pdf.Null {
			fres = res
		}
		fg := g
		fg.ctm = m.mul(g.ctm)
		in.depth++
		in.run(x, fres, fg, prefix+name+"/")
		in.depth--
	}
}

func (in *interpreter) segment(g gstate, x0, y0, x1, y1 float64) Drawing {
	px0, py0 := in.toPage(g.ctm.apply(x0, y0))
	px1, py1 := in.toPage(g.ctm.apply(x1, y1))
	return Drawing{
		Line: true,
		Seg:  [4]float64{px0, py0, px1, py1},
		Box: document.Rect{
			X0: math.Min(px0, px1), Y0: math.Min(py0, py1),
			X1: math.Max(px0, px1), Y1: math.Max(py0, py1),
		},
	}
}

// paint commits the current path. Filled paths made of axis-aligned
// segments become their bounding rectangle; other filled outlines are
// dropped.
func (in *interpreter) paint(path []Drawing, g gstate, fill bool) {
	if len(path) == 0 {
		return
	}
	width := g.lineWidth * math.Max(g.ctm.xScale(), g.ctm.yScale())
	if !fill {
		for _, d := range path {
			d.Color, d.Width = g.stroke, width
			in.page.AddDrawing(d)
		}
		return
	}
	var outline document.Rect
	aligned := true
	for _, d := range path {
		if !d.Line {
			in.page.AddDrawing(Drawing{Box: d.Box, Fill: true, Color: g.fill})
			continue
		}
		if d.Seg[0] != d.Seg[2] && d.Seg[1] != d.Seg[3] {
			aligned = false
		}
		outline = outline.Union(d.Box)
	}
	if aligned && !outline.IsEmpty() {
		in.page.AddDrawing(Drawing{Box: outline, Fill: true, Color: g.fill})
	}
}

func interpretAll(contents pdf.Value, visit func(*pdf.Stack, string)) {
	switch contents.Kind() {
	case pdf.Stream:
		pdf.Interpret(contents, visit)
	case pdf.Array:
		for i := 0; i < contents.Len(); i++ {
			interpretAll(contents.Index(i), visit)
		}
	}
}

func popAll(stk *pdf.Stack) []pdf.Value {
	args := make([]pdf.Value, stk.Len())
	for i := len(args) - 1; i >= 0; i-- {
		args[i] = stk.Pop()
	}
	return args
}

func num(args []pdf.Value, i int) float64 {
	if i >= len(args) {
		return 0
	}
	return args[i].Float64()
}

func matrixOf(args []pdf.Value) matrix {
	var m matrix
	for i := range m {
		m[i] = num(args, i)
	}
	return m
}

// colorOf reads a gray, RGB or CMYK colour operand list. Pattern and
// other operands leave the colour unchanged.
func colorOf(args []pdf.Value, cur Color) Color {
	for _, a := range args {
		if k := a.Kind(); k != pdf.Integer && k != pdf.Real {
			return cur
		}
	}
	switch len(args) {
	case 1:
		v := num(args, 0)
		return Color{v, v, v}
	case 3:
		return Color{num(args, 0), num(args, 1), num(args, 2)}
	case 4:
		c, m, y, k := num(args, 0), num(args, 1), num(args, 2), num(args, 3)
		return Color{(1 - c) * (1 - k), (1 - m) * (1 - k), (1 - y) * (1 - k)}
	}
	return cur
}

// fontInfo caches what text extraction needs from a font dictionary.
type fontInfo struct {
	font     pdf.Font
	base     string
	enc      pdf.TextEncoding
	codeLen  int
	standard bool
	widths   map[string]float64
}

func newFontInfo(f pdf.Font) *fontInfo {
	base := f.BaseFont()
	if i := strings.IndexByte(base, '+'); i >= 0 {
		base = base[i+1:]
	}
	info := &fontInfo{
		font:    f,
		base:    base,
		enc:     f.Encoder(),
		codeLen: 1,
		widths:  make(map[string]float64),
	}
	if f.V.Key("Subtype").Name() == "Type0" {
		info.codeLen = 2
	} else if f.V.Key("Widths").Kind() == pdf.Null {
		info.standard = true
	}
	return info
}

// width returns the advance of a character code in thousandths of an em.
func (f *fontInfo) width(code string, metrics *coreMetrics) float64 {
	if w, ok := f.widths[code]; ok {
		return w
	}
	var w float64
	switch {
	case f.codeLen == 2:
		w = cidWidth(f.font.V.Key("DescendantFonts").Index(0), int(code[0])<<8|int(code[1]))
	case f.standard:
		w = metrics.width(f.base, code[0])
	default:
		c := int(code[0])
		if c >= f.font.FirstChar() && c <= f.font.LastChar() {
			w = f.font.Width(c)
		} else {
			w = f.font.V.Key("FontDescriptor").Key("MissingWidth").Float64()
		}
	}
	if w <= 0 && !(f.codeLen == 1 && code[0] == ' ') {
		w = 500
	}
	f.widths[code] = w
	return w
}

// cidWidth looks a CID up in a CIDFont's /W array, falling back to /DW.
func cidWidth(desc pdf.Value, cid int) float64 {
	w := desc.Key("W")
	for i := 0; i+1 < w.Len(); {
		first := int(w.Index(i).Int64())
		next := w.Index(i + 1)
		if next.Kind() == pdf.Array {
			if cid >= first && cid < first+next.Len() {
				return next.Index(cid - first).Float64()
			}
			i += 2
			continue
		}
		if i+2 >= w.Len() {
			break
		}
		if last := int(next.Int64()); cid >= first && cid <= last {
			return w.Index(i + 2).Float64()
		}
		i += 3
	}
	if dw := desc.Key("DW"); dw.Kind() != pdf.Null {
		return dw.Float64()
	}
	return 1000
}
