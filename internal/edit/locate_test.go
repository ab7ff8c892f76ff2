package edit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HRitchy/editeur-pdf-trade-republic/internal/pdfdoc"
)

func TestLocate(t *testing.T) {
	tests := []struct {
		name       string
		pages      [][]line
		start, end int
	}{
		{
			name:  "same page",
			pages: [][]line{{{"TRANSACTIONS", 100}, {"APERÇU DU SOLDE", 300}}},
		},
		{
			name:  "end on later page",
			pages: [][]line{{{"intro", 100}}, {{"TRANSACTIONS", 100}}, {{"rows", 100}}, {{"APERÇU DU SOLDE", 300}}},
			start: 1,
			end:   3,
		},
		{
			name:  "first occurrences win",
			pages: [][]line{{{"TRANSACTIONS", 100}}, {{"TRANSACTIONS", 100}, {"APERÇU DU SOLDE", 200}}, {{"APERÇU DU SOLDE", 200}}},
			start: 0,
			end:   1,
		},
		{
			name:  "end before start is ignored",
			pages: [][]line{{{"APERÇU DU SOLDE", 100}}, {{"TRANSACTIONS", 100}, {"APERÇU DU SOLDE", 400}}},
			start: 1,
			end:   1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Locate(newDoc(tt.pages...), DefaultStartMarker, DefaultEndMarker)
			require.NoError(t, err)
			assert.Equal(t, tt.start, r.StartPage)
			assert.Equal(t, tt.end, r.EndPage)
			assert.False(t, r.StartBox.IsEmpty())
			assert.False(t, r.EndBox.IsEmpty())
		})
	}
}

func TestLocateBoxes(t *testing.T) {
	doc := newDoc([]line{{"TRANSACTIONS", 100}}, []line{{"APERÇU DU SOLDE", 300}})

	r, err := Locate(doc, DefaultStartMarker, DefaultEndMarker)
	require.NoError(t, err)
	assert.InDelta(t, 92, r.StartBox.Y0, 1e-9)
	assert.InDelta(t, 102, r.StartBox.Y1, 1e-9)
	assert.InDelta(t, 292, r.EndBox.Y0, 1e-9)
	assert.InDelta(t, 50+15*5, r.EndBox.X1, 1e-9)
}

func TestLocateNotFound(t *testing.T) {
	t.Run("no start", func(t *testing.T) {
		doc := &recorder{Document: newDoc([]line{{"APERÇU DU SOLDE", 100}})}
		_, err := Locate(doc, DefaultStartMarker, DefaultEndMarker)
		require.ErrorIs(t, err, ErrMarkerNotFound)

		var me *MarkerError
		require.True(t, errors.As(err, &me))
		assert.Equal(t, "start", me.Role)
		assert.Zero(t, doc.mutations())
	})

	t.Run("no end after start", func(t *testing.T) {
		doc := newDoc([]line{{"APERÇU DU SOLDE", 100}}, []line{{"TRANSACTIONS", 100}})
		_, err := Locate(doc, DefaultStartMarker, DefaultEndMarker)

		var me *MarkerError
		require.True(t, errors.As(err, &me))
		assert.Equal(t, "end", me.Role)
		assert.Equal(t, DefaultEndMarker, me.Marker)
		assert.EqualError(t, err, `end marker "APERÇU DU SOLDE" not found`)
	})

	t.Run("empty document", func(t *testing.T) {
		_, err := Locate(pdfdoc.New(), DefaultStartMarker, DefaultEndMarker)
		assert.ErrorIs(t, err, ErrEmptyDocument)
		assert.ErrorIs(t, err, ErrMarkerNotFound)
	})

	t.Run("empty marker", func(t *testing.T) {
		_, err := Locate(newDoc([]line{{"x", 100}}), " ", DefaultEndMarker)
		assert.ErrorIs(t, err, ErrEmptyMarker)
	})
}
