// Package extract turns uploaded resume documents into plain text for the
// analyzer. Extraction is best-effort: a page that yields no text contributes
// an empty string instead of failing the document.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"atscan/internal/errors"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// TextExtractor converts raw document bytes into plain text
type TextExtractor interface {
	Extract(ctx context.Context, data []byte, filename string) (string, error)
}

// SupportedExtensions lists the file extensions the document extractor accepts
var SupportedExtensions = []string{".pdf", ".docx", ".txt", ".md"}

// DocumentExtractor dispatches on file extension to a format-specific reader
type DocumentExtractor struct {
	logger *errors.Logger
}

// NewDocumentExtractor creates a document extractor
func NewDocumentExtractor(logger *errors.Logger) *DocumentExtractor {
	return &DocumentExtractor{logger: logger}
}

// Extract returns the plain text of the document. Unsupported extensions are
// a validation error; a document that parses but yields no text returns an
// empty string, not an error.
func (e *DocumentExtractor) Extract(ctx context.Context, data []byte, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return e.extractPDF(ctx, data)
	case ".docx":
		return e.extractDOCX(data)
	case ".txt", ".md":
		return string(data), nil
	default:
		return "", errors.NewValidationError(errors.ErrCodeUnsupportedFormat,
			fmt.Sprintf("Unsupported file type: %s", filepath.Ext(filename)), nil).
			WithContext("filename", filename)
	}
}

// extractPDF reads every page and joins the page texts with newlines. A page
// that fails to yield text contributes an empty string.
func (e *DocumentExtractor) extractPDF(ctx context.Context, data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.NewExtractionError(errors.ErrCodeExtractionFailed,
			"Failed to open PDF document", err)
	}

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			if e.logger != nil {
				e.logger.Warn("Failed to extract text from PDF page", "page", i, "error", err.Error())
			}
			text = ""
		}
		pages = append(pages, text)
	}

	return strings.Join(pages, "\n"), nil
}

func (e *DocumentExtractor) extractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.NewExtractionError(errors.ErrCodeExtractionFailed,
			"Failed to open DOCX document", err)
	}
	defer func() { _ = doc.Close() }()

	return doc.Editable().GetContent(), nil
}

// IsSupportedExtension reports whether the extractor handles the file's extension
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, supported := range SupportedExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}
