package pipeline

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/pdf-structurer/internal/common"
	"github.com/joseph-ayodele/pdf-structurer/internal/extract"
)

type ExtractStage struct {
	TextExtractor extract.TextExtractor
	Logger        *slog.Logger
}

func NewExtractStage(tx extract.TextExtractor, logger *slog.Logger) *ExtractStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtractStage{TextExtractor: tx, Logger: logger}
}

// Run extracts text and turns an empty result into an ExtractionFailure, telling an
// unopenable document apart from one that opened but held no text.
func (s *ExtractStage) Run(ctx context.Context, doc []byte) (extract.ExtractedText, error) {
	rid := common.RequestIDFromContext(ctx)
	res := s.TextExtractor.Extract(ctx, doc)

	for _, w := range res.Warnings {
		s.Logger.Warn("pipeline.extract.warning", "req_id", rid, "warning", w)
	}
	if !res.Empty() {
		s.Logger.Info("pipeline.extract.ok",
			"req_id", rid,
			"method", res.Method,
			"pages", res.Pages,
			"text_len", len(res.Text),
			"elapsed_ms", res.Duration.Milliseconds(),
		)
		return res, nil
	}

	reason := common.ReasonNoText
	if !res.Readable {
		reason = common.ReasonUnreadable
	}
	s.Logger.Error("pipeline.extract.failed",
		"req_id", rid,
		"reason", reason,
		"pages", res.Pages,
		"error", res.Cause,
	)
	return res, common.NewExtractionFailure(reason, res.Pages, res.Cause)
}
