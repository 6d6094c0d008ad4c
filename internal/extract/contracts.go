package extract

import (
	"context"
	"time"
)

// TextExtractor is Stage 1: PDF bytes -> text.
//
// Extract never fails. A document that cannot be opened yields an empty Text with
// Readable=false and the cause recorded; pages that yield nothing contribute an empty line.
type TextExtractor interface {
	Extract(ctx context.Context, doc []byte) ExtractedText
}

// Extraction methods reported in ExtractedText.Method.
const (
	MethodPDFText   = "pdf-text"
	MethodPdftotext = "pdftotext"
)

type ExtractedText struct {
	// Text is every page's text followed by "\n", in page order. It is "" when no
	// page produced any non-whitespace text.
	Text     string
	Pages    int
	Method   string
	Readable bool  // false when the document could not be opened at all
	Cause    error // why the document was unreadable
	Duration time.Duration
	Warnings []string
}

// Empty reports whether there is nothing to send downstream.
func (t ExtractedText) Empty() bool {
	return t.Text == ""
}
