package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joseph-ayodele/pdf-structurer/internal/app"
	"github.com/joseph-ayodele/pdf-structurer/internal/common"
)

// runllm runs the full pipeline several times on the same document and logs how the
// row count varies between runs.
func main() {
	logger := app.NewLogger(os.Stderr, "info")
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		logger.Error("usage: runllm <file.pdf> [times]")
		os.Exit(2)
	}
	path := os.Args[1]
	times := 10
	if len(os.Args) >= 3 {
		if n, err := strconv.Atoi(os.Args[2]); err == nil && n > 0 {
			times = n
		}
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(2)
	}

	ctx := context.Background()
	proc, closeFn, err := app.NewProcessor(ctx, cfg, logger)
	if err != nil {
		logger.Error("wire processor", "error", err)
		os.Exit(1)
	}
	defer func() { _ = closeFn() }()

	// --- Loop N times on the SAME file
	base := filepath.Base(path)
	counts := map[int]int{}
	for i := 1; i <= times; i++ {
		runCtx, cancelRun := context.WithTimeout(ctx, cfg.Batch.ProcessTimeout)
		start := time.Now()
		logger.Info("pipeline.iter.start", "iter", i, "basename", base)

		art, err := proc.ProcessFile(runCtx, path)
		cancelRun()

		if err != nil {
			logger.Error("pipeline.iter.error", "iter", i, "error", err, "user_message", common.UserMessage(err))
		} else {
			counts[art.Rows]++
			logger.Info("pipeline.iter.ok", "iter", i, "rows", art.Rows, "elapsed_ms", time.Since(start).Milliseconds())
		}

		time.Sleep(750 * time.Millisecond)
	}

	logger.Info("done", "file", base, "times", times, "distinct_row_counts", len(counts), "row_counts", counts)
}
