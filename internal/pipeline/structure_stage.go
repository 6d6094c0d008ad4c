package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/pdf-structurer/internal/common"
	"github.com/joseph-ayodele/pdf-structurer/internal/llm"
)

type StructureStage struct {
	Structurer llm.Structurer
	Logger     *slog.Logger
}

func NewStructureStage(s llm.Structurer, logger *slog.Logger) *StructureStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &StructureStage{Structurer: s, Logger: logger}
}

// Run builds the prompt for text and asks the model for entries. Every error it returns
// is a *common.StructuringError.
func (s *StructureStage) Run(ctx context.Context, text string) (llm.ExtractionResult, []byte, error) {
	rid := common.RequestIDFromContext(ctx)
	start := time.Now()

	prompt := llm.BuildStructuringPrompt(text)
	res, raw, err := s.Structurer.Structure(ctx, prompt)
	if err != nil {
		var se *common.StructuringError
		if !errors.As(err, &se) {
			se = llm.CallError(ctx, "structurer failed", err)
			err = se
		}
		s.Logger.Error("pipeline.structure.failed",
			"req_id", rid,
			"kind", se.Kind,
			"error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.ExtractionResult{}, raw, err
	}

	s.Logger.Info("pipeline.structure.ok",
		"req_id", rid,
		"entries", len(res.Entries),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res, raw, nil
}
