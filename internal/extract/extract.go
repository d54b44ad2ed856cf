// Package extract converts uploaded resume files into the plain text the
// rest of the system works with. The core never sees file formats.
package extract

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/nguyenthenguyen/docx"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
)

// FromUpload extracts plain text from an uploaded file based on its
// extension. Supported: .pdf, .docx, .txt.
func FromUpload(r io.Reader, filename string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".txt":
		return string(data), nil
	case ".pdf":
		return fromPDF(data)
	case ".docx":
		return fromDOCX(data)
	default:
		return "", fmt.Errorf("unsupported file format %q: upload a PDF or DOCX file", ext)
	}
}

func fromPDF(data []byte) (string, error) {
	pdfReader, err := model.NewPdfReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to read PDF: %w", err)
	}

	numPages, err := pdfReader.GetNumPages()
	if err != nil {
		return "", fmt.Errorf("failed to get page count: %w", err)
	}
	if numPages == 0 {
		return "", fmt.Errorf("PDF has no pages")
	}

	var sb strings.Builder
	for i := 1; i <= numPages; i++ {
		page, err := pdfReader.GetPage(i)
		if err != nil {
			return "", fmt.Errorf("failed to get page %d: %w", i, err)
		}

		ex, err := extractor.New(page)
		if err != nil {
			return "", fmt.Errorf("failed to create extractor for page %d: %w", i, err)
		}

		text, err := ex.ExtractText()
		if err != nil {
			return "", fmt.Errorf("failed to extract text from page %d: %w", i, err)
		}
		sb.WriteString(text)
	}

	return sb.String(), nil
}

func fromDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read DOCX: %w", err)
	}
	defer doc.Close()

	return docxContentToText(doc.Editable().GetContent()), nil
}

var docxTagPattern = regexp.MustCompile(`<[^>]+>`)

// docxContentToText flattens the document XML: paragraph ends become
// newlines, remaining tags are dropped.
func docxContentToText(content string) string {
	content = strings.ReplaceAll(content, "</w:p>", "\n")
	content = docxTagPattern.ReplaceAllString(content, "")
	content = strings.ReplaceAll(content, "&amp;", "&")
	content = strings.ReplaceAll(content, "&lt;", "<")
	content = strings.ReplaceAll(content, "&gt;", ">")
	return strings.TrimSpace(content)
}
