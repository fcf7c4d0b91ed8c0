package parser

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildDocx 生成只包含 word/document.xml 的最小 DOCX
func buildDocx(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	var body bytes.Buffer
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t xml:space="preserve">` + p + `</w:t></w:r></w:p>`)
	}
	doc := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body.String() + `</w:body></w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(doc))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestDocxExtractText(t *testing.T) {
	data := buildDocx(t, "Jane Smith", "jane@example.com", "", "EXPERIENCE", "Acme Corp - Engineer (2019 - Present)")

	text, err := NewDocxTextExtractor().ExtractText(context.Background(), data, "resume.docx")
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith\njane@example.com\n\nEXPERIENCE\nAcme Corp - Engineer (2019 - Present)", text)
}

func TestDocxMultipleRuns(t *testing.T) {
	doc := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		`<w:p><w:r><w:t>Senior </w:t></w:r><w:r><w:t>Developer</w:t></w:r></w:p>` +
		`</w:body></w:document>`
	text, err := parseDocxBody([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "Senior Developer", text)
}

func TestDocxInvalidArchive(t *testing.T) {
	_, err := NewDocxTextExtractor().ExtractText(context.Background(), []byte("not a zip"), "bad.docx")
	assert.Error(t, err)
}

func TestDocxMissingBody(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, err := zw.Create("docProps/core.xml")
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = NewDocxTextExtractor().ExtractText(context.Background(), buf.Bytes(), "empty.docx")
	assert.ErrorContains(t, err, "word/document.xml")
}

func TestDocxCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewDocxTextExtractor().ExtractText(ctx, buildDocx(t, "x"), "r.docx")
	assert.ErrorIs(t, err, context.Canceled)
}

type stubExtractor struct {
	text string
	uri  string
}

func (s *stubExtractor) ExtractText(_ context.Context, _ []byte, uri string) (string, error) {
	s.uri = uri
	return s.text, nil
}

func TestRegistryDispatch(t *testing.T) {
	pdf := &stubExtractor{text: "from pdf"}
	r := NewRegistry().Register(".PDF", pdf).Register(".docx", NewDocxTextExtractor())

	assert.True(t, r.Supports(".pdf"))
	assert.True(t, r.Supports(".DOCX"))
	assert.False(t, r.Supports(".txt"))
	assert.Equal(t, []string{".docx", ".pdf"}, r.Formats())

	text, err := r.Extract(context.Background(), "CV.Pdf", []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "from pdf", text)
	assert.Equal(t, "CV.Pdf", pdf.uri)

	_, err = r.Extract(context.Background(), "notes.txt", nil)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	_, err = r.Extract(context.Background(), "noext", nil)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestEinoPDFExtractorOptions(t *testing.T) {
	e, err := NewEinoPDFTextExtractor(context.Background(), WithPDFTimeout(5*time.Second))
	require.NoError(t, err)
	assert.NotNil(t, e.parser)
	assert.Equal(t, 5*time.Second, e.timeout)

	e, err = NewEinoPDFTextExtractor(context.Background(), WithPDFTimeout(0))
	require.NoError(t, err)
	assert.Equal(t, defaultPDFTimeout, e.timeout)
}

func TestEinoPDFExtractorRejectsGarbage(t *testing.T) {
	e, err := NewEinoPDFTextExtractor(context.Background())
	require.NoError(t, err)
	_, err = e.ExtractText(context.Background(), []byte("definitely not a pdf"), "garbage.pdf")
	assert.Error(t, err)
}

func TestDefaultRegistry(t *testing.T) {
	r, err := NewDefaultRegistry(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{".docx", ".pdf"}, r.Formats())
}
