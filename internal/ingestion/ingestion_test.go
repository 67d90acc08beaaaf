package ingestion

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

const documentXML = `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
<w:p><w:r><w:t>Senior</w:t></w:r><w:r><w:tab/><w:t>Engineer</w:t></w:r></w:p>
</w:body>
</w:document>`

func TestExtractText(t *testing.T) {
	doc, err := Extract(context.Background(), []byte("\xef\xbb\xbf  I handled customer service\n"), "resume.txt")
	require.NoError(t, err)

	assert.Equal(t, FormatText, doc.Format)
	assert.Equal(t, "I handled customer service", doc.Text)
	assert.Equal(t, "resume.txt", doc.Name)
}

func TestExtractMarkdownAndEmpty(t *testing.T) {
	doc, err := Extract(context.Background(), []byte("# Resume\n\n- Python\n"), "resume.md")
	require.NoError(t, err)
	assert.Equal(t, FormatText, doc.Format)

	doc, err = Extract(context.Background(), nil, "empty.txt")
	require.NoError(t, err)
	assert.Equal(t, "", doc.Text)
}

func TestExtractDOCX(t *testing.T) {
	data := buildZip(t, map[string]string{"word/document.xml": documentXML})

	doc, err := Extract(context.Background(), data, "resume.docx")
	require.NoError(t, err)

	assert.Equal(t, FormatDOCX, doc.Format)
	assert.Equal(t, "Jane Doe\nSenior\tEngineer", doc.Text)
}

func TestExtractPlainZipRejected(t *testing.T) {
	data := buildZip(t, map[string]string{"notes.txt": "hello"})

	_, err := Extract(context.Background(), data, "notes.zip")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExtractMalformedPDF(t *testing.T) {
	_, err := Extract(context.Background(), []byte("%PDF-1.4\nnot really a pdf"), "broken.pdf")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExtractBinaryRejected(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	_, err := Extract(context.Background(), png, "photo.png")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExtractCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Extract(ctx, []byte("text"), "a.txt")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "letter.txt")
	require.NoError(t, os.WriteFile(path, []byte("Dear team,\n\nRegards"), 0644))

	doc, err := ReadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "letter.txt", doc.Name)
	assert.Equal(t, "Dear team,\n\nRegards", doc.Text)

	_, err = ReadFile(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
