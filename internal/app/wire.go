package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/pdf-structurer/internal/common"
	"github.com/joseph-ayodele/pdf-structurer/internal/export"
	"github.com/joseph-ayodele/pdf-structurer/internal/extract"
	"github.com/joseph-ayodele/pdf-structurer/internal/llm"
	"github.com/joseph-ayodele/pdf-structurer/internal/llm/gemini"
	"github.com/joseph-ayodele/pdf-structurer/internal/llm/openai"
	"github.com/joseph-ayodele/pdf-structurer/internal/pipeline"
	"github.com/joseph-ayodele/pdf-structurer/internal/storage"
)

// NewLogger builds the JSON logger used by every binary. Logs go to w (stderr in
// practice) so stdout stays free for command output and the MCP stdio transport.
func NewLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// NewExtractor picks the text extraction backend.
func NewExtractor(cfg *common.Config, logger *slog.Logger) (extract.TextExtractor, error) {
	ecfg := extract.Config{Normalize: cfg.Extract.Normalize, Pdftotext: cfg.Extract.Pdftotext}
	switch cfg.Extract.Backend {
	case common.ExtractBackendNative, "":
		return extract.NewPDFExtractor(ecfg, logger), nil
	case common.ExtractBackendPdftotext:
		return extract.NewCommandExtractor(ecfg, logger), nil
	default:
		return nil, common.NewAppError("CONFIG_ERROR", fmt.Sprintf("unknown extract backend %q", cfg.Extract.Backend), common.ErrInvalidInput)
	}
}

// NewStructurer builds the model client. The returned close func releases provider
// connections and is never nil.
func NewStructurer(ctx context.Context, cfg *common.Config, logger *slog.Logger) (llm.Structurer, func() error, error) {
	noop := func() error { return nil }
	switch cfg.LLM.Provider {
	case common.ProviderOpenAI:
		return openai.NewClient(openai.Config{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		}, logger), noop, nil
	case common.ProviderGemini:
		c, err := gemini.NewClient(ctx, gemini.Config{
			ProjectID:   cfg.GCP.ProjectID,
			Region:      cfg.GCP.Region,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
		}, logger)
		if err != nil {
			return nil, noop, err
		}
		return c, c.Close, nil
	default:
		return nil, noop, common.NewAppError("CONFIG_ERROR", fmt.Sprintf("unknown llm provider %q", cfg.LLM.Provider), common.ErrInvalidInput)
	}
}

// NewProcessor wires extractor, structurer and exporter into a pipeline.
func NewProcessor(ctx context.Context, cfg *common.Config, logger *slog.Logger) (*pipeline.Processor, func() error, error) {
	tx, err := NewExtractor(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	st, closeFn, err := NewStructurer(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	proc := pipeline.NewProcessor(logger,
		pipeline.NewExtractStage(tx, logger),
		pipeline.NewStructureStage(st, logger),
		export.NewService(logger),
	)
	return proc, closeFn, nil
}

// NewStore routes local paths to disk and gs:// URIs to Cloud Storage.
func NewStore(cfg *common.Config, logger *slog.Logger) *storage.Router {
	overwrite := cfg.Output.Overwrite
	return storage.NewRouter(storage.NewLocal(overwrite, logger), func(ctx context.Context) (storage.Store, error) {
		return storage.NewGCS(ctx, overwrite, logger)
	})
}
