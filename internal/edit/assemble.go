package edit

import (
	"bytes"
	"fmt"

	"github.com/HRitchy/editeur-pdf-trade-republic/internal/document"
)

// Assemble serializes doc compacted and compressed.
func Assemble(doc document.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := doc.Save(&buf, document.SaveOptions{Garbage: true, Compress: true}); err != nil {
		return nil, fmt.Errorf("assemble: %w", err)
	}
	return buf.Bytes(), nil
}
