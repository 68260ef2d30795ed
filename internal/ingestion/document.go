// Package ingestion turns uploaded résumés and job postings into clean text.
package ingestion

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Supported content types
const (
	TypePlain = "text/plain"
	TypeHTML  = "text/html"
	TypePDF   = "application/pdf"
	TypeDOCX  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// MaxDocumentBytes bounds uploads and downloads
const MaxDocumentBytes = 10 << 20

var (
	// ErrUnsupportedType is returned for content types with no extractor
	ErrUnsupportedType = errors.New("unsupported document type")
	// ErrEmptyDocument is returned when extraction yields no text
	ErrEmptyDocument = errors.New("document contains no text")
	// ErrTooLarge is returned for documents over MaxDocumentBytes
	ErrTooLarge = errors.New("document too large")
)

var extensionTypes = map[string]string{
	".txt":  TypePlain,
	".md":   TypePlain,
	".html": TypeHTML,
	".htm":  TypeHTML,
	".pdf":  TypePDF,
	".docx": TypeDOCX,
}

// DetectContentType resolves the content type from a declared type, the file
// name and finally the leading bytes
func DetectContentType(declared, filename string, data []byte) string {
	if declared != "" {
		if mt, _, err := mime.ParseMediaType(declared); err == nil && mt != "application/octet-stream" {
			return mt
		}
	}
	if t, ok := extensionTypes[strings.ToLower(filepath.Ext(filename))]; ok {
		return t
	}
	mt, _, _ := mime.ParseMediaType(http.DetectContentType(data))
	// DOCX files sniff as zip
	if mt == "application/zip" {
		return TypeDOCX
	}
	return mt
}

// ExtractText returns cleaned text from a document of the given content type
func ExtractText(contentType string, data []byte) (*Document, error) {
	if len(data) > MaxDocumentBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(data))
	}

	var (
		raw   string
		pages int
		err   error
	)
	switch contentType {
	case TypePlain:
		raw = string(data)
	case TypeHTML:
		raw, err = CleanHTML(string(data))
	case TypePDF:
		raw, pages, err = extractPDFText(data)
	case TypeDOCX:
		raw, err = extractDocxText(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, contentType)
	}
	if err != nil {
		return nil, err
	}

	text := CleanText(raw)
	if text == "" {
		return nil, ErrEmptyDocument
	}
	return newDocument(text, "", contentType, pages), nil
}

// ExtractFile reads and extracts a document from disk
func ExtractFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %w", err)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	doc, err := ExtractText(DetectContentType("", path, data), data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	doc.Metadata.Source = path
	return doc, nil
}

func extractPDFText(data []byte) (text string, pages int, err error) {
	// the pdf reader panics on some malformed files
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to read pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("failed to read pdf: %w", err)
	}

	var sb strings.Builder
	pages = reader.NumPage()
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(pageText)
		sb.WriteString("\n\n")
	}
	return sb.String(), pages, nil
}

var (
	docxParagraphEnd = regexp.MustCompile(`</w:p>|<w:br\s*/>|<w:cr\s*/>`)
	docxTab          = regexp.MustCompile(`<w:tab\s*/>`)
	xmlTag           = regexp.MustCompile(`<[^>]+>`)
)

// extractDocxText reads word/document.xml and flattens its markup to text
func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer func() { _ = doc.Close() }()

	content := doc.Editable().GetContent()
	content = docxParagraphEnd.ReplaceAllString(content, "\n")
	content = docxTab.ReplaceAllString(content, "\t")
	content = xmlTag.ReplaceAllString(content, "")
	return html.UnescapeString(content), nil
}
