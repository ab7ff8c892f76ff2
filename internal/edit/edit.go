// Package edit extracts the transactions section of a statement and applies
// text replacement and image removal to what is kept.
package edit

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/HRitchy/editeur-pdf-trade-republic/internal/document"
	"github.com/HRitchy/editeur-pdf-trade-republic/internal/pdfdoc"
)

// Transform runs the pipeline on doc: trim to the marker region when
// requested, apply the edits, strip images, then serialize. Nothing is
// modified when the region cannot be located or is invalid.
func Transform(doc document.Document, opts Options) (Result, error) {
	log := logger(opts.Logger)
	res := Result{PagesIn: doc.PageCount()}
	if res.PagesIn == 0 {
		return Result{}, ErrEmptyDocument
	}

	if opts.KeepRegionOnly {
		start, end := opts.markers()
		region, err := Locate(doc, start, end)
		if err != nil {
			return Result{}, err
		}
		if err := Trim(doc, region, opts.EndCut); err != nil {
			return Result{}, err
		}
		res.Region = &region
		log.WithFields(logrus.Fields{
			"start_page": region.StartPage + 1,
			"end_page":   region.EndPage + 1,
			"cut":        opts.EndCut,
		}).Info("region kept")
	}

	for _, e := range opts.Edits {
		pages, matches := ReplaceTextCount(doc, e.Old, e.New)
		res.Replacements = append(res.Replacements, Replacement{Old: e.Old, New: e.New, Pages: pages, Matches: matches})
		log.WithFields(logrus.Fields{"old": e.Old, "pages": pages, "matches": matches}).Info("text replaced")
	}

	if opts.StripImages {
		res.ImagesRemoved = StripImages(doc)
		log.WithField("images", res.ImagesRemoved).Info("images removed")
	}

	if !opts.KeepRegionOnly && len(opts.Edits) == 0 && !opts.StripImages {
		log.Warn("no modification requested")
	}

	if res.ImagesDropped = UnsupportedImages(doc); res.ImagesDropped > 0 {
		log.WithField("images", res.ImagesDropped).Warn("images left out of the output")
	}

	out, err := Assemble(doc)
	if err != nil {
		return Result{}, err
	}
	res.PagesOut = doc.PageCount()
	res.Output = out
	res.Bytes = len(out)
	return res, nil
}

// Run loads the PDF at pdfPath, transforms it and writes the result. The
// output file is only written when every step succeeded.
func Run(pdfPath string, cfg Config) (Result, error) {
	log := logger(cfg.Logger)
	cfg.Logger = log

	data, err := os.ReadFile(pdfPath)
	if err != nil {
		return Result{}, err
	}
	doc, err := pdfdoc.Load(data, pdfdoc.LoadOptions{Password: cfg.Password, Logger: log})
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", pdfPath, err)
	}

	res, err := Transform(doc, cfg.Options)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", pdfPath, err)
	}

	out := cfg.OutPath
	if out == "" {
		out = outputPath(pdfPath)
	}
	if err := os.WriteFile(out, res.Output, 0o644); err != nil {
		return Result{}, err
	}
	res.OutPath = out
	log.WithFields(logrus.Fields{"out": out, "pages": res.PagesOut, "bytes": res.Bytes}).Info("document written")
	return res, nil
}

func logger(l logrus.FieldLogger) logrus.FieldLogger {
	if l != nil {
		return l
	}
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	return discard
}
