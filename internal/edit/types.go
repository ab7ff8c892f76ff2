package edit

import (
	"github.com/sirupsen/logrus"

	"github.com/HRitchy/editeur-pdf-trade-republic/internal/document"
)

// Markers delimiting the transactions section of a statement.
const (
	DefaultStartMarker = "TRANSACTIONS"
	DefaultEndMarker   = "APERÇU DU SOLDE"
)

// EndCut selects where the end page is cut relative to the end marker.
type EndCut int

const (
	// CutAtMarker removes the end marker line with everything below it.
	CutAtMarker EndCut = iota
	// CutAfterMarker keeps the end marker line.
	CutAfterMarker
)

func (c EndCut) String() string {
	if c == CutAfterMarker {
		return "after-marker"
	}
	return "at-marker"
}

// edge returns the y coordinate the end page is cut from.
func (c EndCut) edge(box document.Rect) float64 {
	if c == CutAfterMarker {
		return box.Y1
	}
	return box.Y0
}

// EditRequest replaces every exact occurrence of Old with New.
type EditRequest struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// Options describes one transformation.
type Options struct {
	// StartMarker and EndMarker fall back to the defaults when empty.
	StartMarker    string
	EndMarker      string
	Edits          []EditRequest
	StripImages    bool
	KeepRegionOnly bool
	EndCut         EndCut
	Logger         logrus.FieldLogger
}

func (o Options) markers() (start, end string) {
	start, end = o.StartMarker, o.EndMarker
	if start == "" {
		start = DefaultStartMarker
	}
	if end == "" {
		end = DefaultEndMarker
	}
	return start, end
}

// Config is Options plus the file handling done by Run.
type Config struct {
	Options
	// OutPath defaults to "<input>_modifie.pdf" next to the input.
	OutPath  string
	Password string
}

// Region is the kept part of the document. Pages are zero-based.
type Region struct {
	StartPage int           `json:"start_page"`
	StartBox  document.Rect `json:"start_box"`
	EndPage   int           `json:"end_page"`
	EndBox    document.Rect `json:"end_box"`
}

// Replacement reports the outcome of one EditRequest.
type Replacement struct {
	Old     string `json:"old"`
	New     string `json:"new"`
	Pages   int    `json:"pages"`
	Matches int    `json:"matches"`
}

type Result struct {
	PagesIn       int           `json:"pages_in"`
	PagesOut      int           `json:"pages_out"`
	Region        *Region       `json:"region,omitempty"`
	Replacements  []Replacement `json:"replacements,omitempty"`
	ImagesRemoved int           `json:"images_removed"`
	// ImagesDropped counts kept images whose data could not be written
	// back, so they are missing from the output.
	ImagesDropped int           `json:"images_dropped"`
	Output        []byte        `json:"-"`
	OutPath       string        `json:"out_path,omitempty"`
	Bytes         int           `json:"bytes"`
}
