// Package ingestion turns resume and cover letter files into plain text.
package ingestion

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
)

// ErrUnsupportedFormat is returned for files that are not text, PDF or DOCX
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Format is the detected kind of a document file
type Format string

const (
	FormatText Format = "text"
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeZip  = "application/zip"
	mimeText = "text/plain"
)

// MaxFileSize caps how much of a file is read
const MaxFileSize = 20 << 20

// Document is the extracted text of one file
type Document struct {
	Name   string
	Format Format
	Text   string
}

// ReadFile extracts text from the file at path
func ReadFile(ctx context.Context, path string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("read %s: file exceeds %d bytes", path, MaxFileSize)
	}

	doc, err := Extract(ctx, data, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", path, err)
	}
	return doc, nil
}

// Extract detects the format of data and pulls out its text.
// name is only used as a hint for ambiguous zip payloads.
func Extract(ctx context.Context, data []byte, name string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	format, err := DetectFormat(data, name)
	if err != nil {
		return nil, err
	}

	var text string
	switch format {
	case FormatPDF:
		text, err = extractPDF(data)
	case FormatDOCX:
		text, err = extractDOCX(data)
	default:
		text, err = extractText(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", format, err)
	}

	return &Document{Name: name, Format: format, Text: strings.TrimSpace(text)}, nil
}

// DetectFormat sniffs the payload. Zip archives count as DOCX when they carry
// word/document.xml, or failing that when the name ends in .docx.
func DetectFormat(data []byte, name string) (Format, error) {
	mt := mimetype.Detect(data)

	switch {
	case mt.Is(mimePDF):
		return FormatPDF, nil
	case mt.Is(mimeDOCX):
		return FormatDOCX, nil
	case mt.Is(mimeZip):
		if zipHasDocument(data) || strings.EqualFold(filepath.Ext(name), ".docx") {
			return FormatDOCX, nil
		}
	}

	for m := mt; m != nil; m = m.Parent() {
		if m.Is(mimeText) {
			return FormatText, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, mt.String())
}

func extractText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", errors.New("text is not valid UTF-8")
	}
	// Strip a UTF-8 byte order mark
	return string(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))), nil
}

func extractPDF(data []byte) (text string, err error) {
	// The PDF parser panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty docx data")
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	docFile := findDocument(zr)
	if docFile == nil {
		return "", errors.New("word/document.xml not found")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	return docxText(rc)
}

// docxText collects the runs of w:t elements, ending a line at each paragraph
// or break and writing a tab for each w:tab
func docxText(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)
	var buf strings.Builder
	inText := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			if inText {
				buf.Write(t)
			}
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				buf.WriteByte('\t')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p", "br":
				buf.WriteByte('\n')
			}
		}
	}
	return buf.String(), nil
}

func findDocument(zr *zip.Reader) *zip.File {
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			return f
		}
	}
	return nil
}

func zipHasDocument(data []byte) bool {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	return findDocument(zr) != nil
}
