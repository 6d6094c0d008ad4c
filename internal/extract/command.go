package extract

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// CommandExtractor shells out to poppler's pdftotext. The document is streamed on
// stdin and the text read from stdout, so nothing touches the disk.
type CommandExtractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewCommandExtractor(cfg Config, logger *slog.Logger) *CommandExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	return &CommandExtractor{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
}

// WithRunner swaps the command runner, mainly for tests.
func (e *CommandExtractor) WithRunner(r Runner) *CommandExtractor {
	e.runner = r
	return e
}

func (e *CommandExtractor) Extract(ctx context.Context, doc []byte) ExtractedText {
	start := time.Now()
	res := ExtractedText{Method: MethodPdftotext}
	defer func() {
		res.Duration = time.Since(start)
	}()

	if len(doc) == 0 {
		res.Cause = errEmptyDocument
		return res
	}

	// pdftotext -layout -enc UTF-8 -eol unix - -
	out, errb, err := e.runner.Run(ctx, bytes.NewReader(doc), e.cfg.Pdftotext,
		"-layout", "-enc", "UTF-8", "-eol", "unix", "-", "-")
	if err != nil {
		res.Cause = fmt.Errorf("%s: %w", e.cfg.Pdftotext, err)
		if msg := strings.TrimSpace(string(errb)); msg != "" {
			res.Warnings = append(res.Warnings, msg)
		}
		e.logger.Warn("extract.pdftotext.unreadable", "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return res
	}

	pages := splitFormFeed(string(out))
	if e.cfg.Normalize {
		for i := range pages {
			pages[i] = Normalize(pages[i])
		}
	}
	res.Readable = true
	res.Pages = len(pages)
	res.Text = joinPages(pages)

	e.logger.Info("extract.pdftotext.ok",
		"pages", res.Pages,
		"text_len", len(res.Text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res
}

// splitFormFeed splits pdftotext output into pages. Every page, including the last,
// is terminated by a form feed.
func splitFormFeed(out string) []string {
	if out == "" {
		return nil
	}
	pages := strings.Split(out, "\f")
	if pages[len(pages)-1] == "" {
		pages = pages[:len(pages)-1]
	}
	for i := range pages {
		pages[i] = strings.TrimSuffix(pages[i], "\n")
	}
	return pages
}
