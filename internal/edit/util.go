package edit

import (
	"fmt"
	"path/filepath"
	"strings"
)

// outputPath places the result next to the input as "<name>_modifie.pdf".
func outputPath(in string) string {
	base := strings.TrimSuffix(in, filepath.Ext(in))
	return base + "_modifie.pdf"
}

// ParseEdits pairs search strings with their replacements.
func ParseEdits(olds, news []string) ([]EditRequest, error) {
	if len(olds) != len(news) {
		return nil, fmt.Errorf("%d texts to replace but %d replacements", len(olds), len(news))
	}
	edits := make([]EditRequest, len(olds))
	for i := range olds {
		edits[i] = EditRequest{Old: olds[i], New: news[i]}
	}
	return edits, nil
}
