package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ledongthuc/pdf"
)

var errEmptyDocument = errors.New("empty document")

// Config tunes the built-in extractors.
type Config struct {
	Normalize bool   // collapse whitespace per page
	Pdftotext string // binary for CommandExtractor; default "pdftotext"
}

// PDFExtractor reads the embedded text layer with a pure-Go parser.
// Scanned, image-only pages carry no text layer and come back empty.
type PDFExtractor struct {
	cfg    Config
	logger *slog.Logger
}

func NewPDFExtractor(cfg Config, logger *slog.Logger) *PDFExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFExtractor{cfg: cfg, logger: logger}
}

func (e *PDFExtractor) Extract(ctx context.Context, doc []byte) ExtractedText {
	start := time.Now()
	res := ExtractedText{Method: MethodPDFText}
	defer func() {
		res.Duration = time.Since(start)
	}()

	if len(doc) == 0 {
		res.Cause = errEmptyDocument
		e.logger.Warn("extract.pdf.unreadable", "error", res.Cause)
		return res
	}

	r, err := openReader(doc)
	if err != nil {
		res.Cause = err
		e.logger.Warn("extract.pdf.unreadable",
			"bytes", len(doc),
			"error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return res
	}
	res.Readable = true
	res.Pages = r.NumPage()

	fonts := make(map[string]*pdf.Font)
	texts := make([]string, 0, res.Pages)
	for i := 1; i <= res.Pages; i++ {
		if err := ctx.Err(); err != nil {
			// Stop reading; an abandoned document counts as unreadable.
			res.Readable = false
			res.Cause = err
			res.Text = ""
			return res
		}
		text, err := pageText(r, i, fonts)
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("page %d: %v", i, err))
			text = ""
		}
		if e.cfg.Normalize {
			text = Normalize(text)
		}
		texts = append(texts, text)
	}
	res.Text = joinPages(texts)

	e.logger.Info("extract.pdf.ok",
		"pages", res.Pages,
		"text_len", len(res.Text),
		"warnings", len(res.Warnings),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res
}

// openReader guards against parser panics on malformed input.
func openReader(doc []byte) (r *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r, err = nil, fmt.Errorf("open pdf: %v", rec)
		}
	}()
	r, err = pdf.NewReader(bytes.NewReader(doc), int64(len(doc)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	return r, nil
}

func pageText(r *pdf.Reader, num int, fonts map[string]*pdf.Font) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("read page: %v", rec)
		}
	}()
	p := r.Page(num)
	if p.V.IsNull() {
		return "", nil
	}
	for _, name := range p.Fonts() {
		if _, ok := fonts[name]; !ok {
			f := p.Font(name)
			fonts[name] = &f
		}
	}
	return p.GetPlainText(fonts)
}

// FromFile reads path fully into memory and extracts it. No handle outlives the call.
func FromFile(ctx context.Context, ex TextExtractor, path string) ExtractedText {
	doc, err := os.ReadFile(path)
	if err != nil {
		return ExtractedText{Cause: fmt.Errorf("read %s: %w", path, err)}
	}
	return ex.Extract(ctx, doc)
}
