package edit

import (
	"errors"
	"fmt"
)

var (
	// ErrMarkerNotFound reports that no region could be located.
	ErrMarkerNotFound = errors.New("marker not found")
	// ErrEmptyDocument is the degenerate not-found case of a document
	// without pages.
	ErrEmptyDocument = fmt.Errorf("empty document: %w", ErrMarkerNotFound)
	ErrInvalidRegion = errors.New("invalid region")
	ErrEmptyMarker   = errors.New("empty marker")
)

// MarkerError names the marker that was not found.
type MarkerError struct {
	Marker string
	// Role is "start" or "end".
	Role string
}

func (e *MarkerError) Error() string {
	return fmt.Sprintf("%s marker %q not found", e.Role, e.Marker)
}

func (e *MarkerError) Unwrap() error { return ErrMarkerNotFound }
