package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HRitchy/editeur-pdf-trade-republic/internal/document"
	"github.com/HRitchy/editeur-pdf-trade-republic/internal/edit"
	"github.com/HRitchy/editeur-pdf-trade-republic/internal/pdfdoc"
)

func writeStatement(t *testing.T) string {
	t.Helper()
	doc := pdfdoc.New()
	for _, lines := range [][]string{
		{"Relevé de compte", "Jean Dupont"},
		{"TRANSACTIONS", "Virement Jean Dupont"},
		{"APERÇU DU SOLDE", "Mentions légales"},
	} {
		p := doc.AddPage(595, 842)
		for i, text := range lines {
			p.AddText(pdfdoc.TextRun{
				Text:     text,
				Font:     "Helvetica",
				Size:     10,
				X:        50,
				Baseline: 100 + 200*float64(i),
				Width:    5 * float64(utf8.RuneCountInString(text)),
			})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, doc.Save(&buf, document.SaveOptions{Compress: true}))

	path := filepath.Join(t.TempDir(), "releve.pdf")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func loadPDF(t *testing.T, path string) *pdfdoc.Document {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	doc, err := pdfdoc.Load(data, pdfdoc.LoadOptions{})
	require.NoError(t, err)
	return doc
}

func TestTransactionsCommand(t *testing.T) {
	in := writeStatement(t)

	stdout, err := execute(t, "transactions", in)
	require.NoError(t, err)

	var res edit.Result
	require.NoError(t, json.Unmarshal([]byte(stdout), &res))
	assert.Equal(t, 3, res.PagesIn)
	assert.Equal(t, 2, res.PagesOut)
	require.NotNil(t, res.Region)
	assert.Equal(t, 1, res.Region.StartPage)
	assert.Equal(t, 2, res.Region.EndPage)

	out := filepath.Join(filepath.Dir(in), "releve_modifie.pdf")
	assert.Equal(t, out, res.OutPath)
	doc := loadPDF(t, out)
	require.Equal(t, 2, doc.PageCount())
	assert.Equal(t, "TRANSACTIONS\nVirement Jean Dupont", doc.PageAt(0).Text())
	assert.Empty(t, doc.PageAt(1).Text())
}

func TestEditCommand(t *testing.T) {
	in := writeStatement(t)
	out := filepath.Join(t.TempDir(), "out.pdf")

	stdout, err := execute(t, "edit", in, "-o", out,
		"--replace", "Jean Dupont", "--with", "REDACTED",
		"--keep-region", "--keep-end-marker")
	require.NoError(t, err)

	var res edit.Result
	require.NoError(t, json.Unmarshal([]byte(stdout), &res))
	require.Len(t, res.Replacements, 1)
	assert.Equal(t, 1, res.Replacements[0].Matches)

	doc := loadPDF(t, out)
	require.Equal(t, 2, doc.PageCount())
	assert.Empty(t, doc.Page(0).Search("Jean Dupont"))
	assert.Len(t, doc.Page(0).Search("REDACTED"), 1)
	assert.Equal(t, "APERÇU DU SOLDE", doc.PageAt(1).Text())
}

func TestEditCommandErrors(t *testing.T) {
	in := writeStatement(t)

	_, err := execute(t, "edit", in, "--replace", "a")
	assert.Error(t, err)

	out := filepath.Join(t.TempDir(), "out.pdf")
	_, err = execute(t, "edit", in, "-o", out, "--keep-region", "--start", "ABSENT")
	assert.ErrorIs(t, err, edit.ErrMarkerNotFound)
	assert.NoFileExists(t, out)

	_, err = execute(t, "transactions")
	assert.Error(t, err)
}

func TestTextCommand(t *testing.T) {
	in := writeStatement(t)

	stdout, err := execute(t, "text", in)
	require.NoError(t, err)
	assert.Contains(t, stdout, "--- Page 2 ---\nTRANSACTIONS\nVirement Jean Dupont\n")

	stdout, err = execute(t, "text", "--json", in)
	require.NoError(t, err)
	var pages []pageText
	require.NoError(t, json.Unmarshal([]byte(stdout), &pages))
	require.Len(t, pages, 3)
	assert.Equal(t, "APERÇU DU SOLDE\nMentions légales", pages[2].Text)
}

func TestPasswordFallsBackToEnv(t *testing.T) {
	t.Setenv(passwordEnv, "secret")
	assert.Equal(t, "secret", password(""))
	assert.Equal(t, "flag", password("flag"))
}
