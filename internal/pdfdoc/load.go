package pdfdoc

import (
	"bytes"
	"fmt"

	"github.com/sirupsen/logrus"
	"rsc.io/pdf"
)

// LoadOptions configures Load.
type LoadOptions struct {
	// Password is tried when the document is encrypted and the empty
	// user password does not open it.
	Password string
	Logger   logrus.FieldLogger
}

// Load parses PDF bytes into a Document.
func Load(data []byte, opts LoadOptions) (*Document, error) {
	log := opts.Logger
	if log == nil {
		log = discardLogger()
	}

	r, err := openReader(data, opts.Password)
	if err != nil {
		return nil, fmt.Errorf("pdfdoc: open: %w", err)
	}
	n, err := numPages(r)
	if err != nil {
		return nil, fmt.Errorf("pdfdoc: %w", err)
	}

	// Raw stream bytes are only usable in the clear.
	src := data
	if r.Trailer().Key("Encrypt").Kind() != pdf.Null {
		src = nil
	}

	doc := New()
	doc.log = log
	metrics := newCoreMetrics()
	for i := 1; i <= n; i++ {
		if err := doc.loadPage(r.Page(i), src, metrics, log.WithField("page", i)); err != nil {
			return nil, fmt.Errorf("pdfdoc: page %d: %w", i, err)
		}
	}
	log.WithField("pages", n).Debug("document loaded")
	return doc, nil
}

func openReader(data []byte, password string) (r *pdf.Reader, err error) {
	defer func() {
		if v := recover(); v != nil {
			r, err = nil, fmt.Errorf("malformed document: %v", v)
		}
	}()
	tried := false
	return pdf.NewReaderEncrypted(bytes.NewReader(data), int64(len(data)), func() string {
		if tried {
			return ""
		}
		tried = true
		return password
	})
}

func numPages(r *pdf.Reader) (n int, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("malformed page tree: %v", v)
		}
	}()
	return r.NumPage(), nil
}

func (d *Document) loadPage(p pdf.Page, src []byte, metrics *coreMetrics, log logrus.FieldLogger) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("malformed content: %v", v)
		}
	}()

	llx, lly, urx, ury := pageBox(p.V)
	in := &interpreter{
		page:    d.AddPage(urx-llx, ury-lly),
		llx:     llx,
		ury:     ury,
		metrics: metrics,
		log:     log,
		images:  make(map[string]decodedImage),
		src:     src,
	}
	in.run(p.V.Key("Contents"), p.Resources(), newGState(), "")
	log.WithFields(logrus.Fields{
		"runs":     len(in.page.texts),
		"images":   len(in.page.images),
		"drawings": len(in.page.drawings),
	}).Debug("page loaded")
	return nil
}

// pageBox returns the visible page area, preferring the crop box.
func pageBox(page pdf.Value) (llx, lly, urx, ury float64) {
	for _, key := range []string{"CropBox", "MediaBox"} {
		box := inherited(page, key)
		if box.Kind() != pdf.Array || box.Len() != 4 {
			continue
		}
		x0, y0 := box.Index(0).Float64(), box.Index(1).Float64()
		x1, y1 := box.Index(2).Float64(), box.Index(3).Float64()
		if x0 > x1 {
			x0, x1 = x1, x0
		}
		if y0 > y1 {
			y0, y1 = y1, y0
		}
		if x1 > x0 && y1 > y0 {
			return x0, y0, x1, y1
		}
	}
	return 0, 0, 612, 792
}

// inherited looks key up on the page and then its ancestors.
func inherited(v pdf.Value, key string) pdf.Value {
	for v.Kind() == pdf.Dict {
		if x := v.Key(key); x.Kind() != pdf.Null {
			return x
		}
		v = v.Key("Parent")
	}
	return pdf.Value{}
}
