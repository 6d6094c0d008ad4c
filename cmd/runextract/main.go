package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joseph-ayodele/pdf-structurer/internal/app"
	"github.com/joseph-ayodele/pdf-structurer/internal/common"
	"github.com/joseph-ayodele/pdf-structurer/internal/extract"
)

func main() {
	logger := app.NewLogger(os.Stderr, "info")
	slog.SetDefault(logger)

	if len(os.Args) != 2 {
		logger.Error("usage", "cmd", "runextract <file.pdf>")
		os.Exit(2)
	}
	path := os.Args[1]

	cfg := common.LoadConfig()
	tx, err := app.NewExtractor(cfg, logger)
	if err != nil {
		logger.Error("invalid extract backend", "error", err)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	res := extract.FromFile(ctx, tx, path)
	if res.Empty() {
		logger.Error("text extraction failed",
			"path", path,
			"readable", res.Readable,
			"pages", res.Pages,
			"error", res.Cause,
			"warnings", res.Warnings,
			"duration_ms", res.Duration.Milliseconds(),
		)
		os.Exit(1)
	}

	logger.Info("text extraction OK",
		"method", res.Method,
		"pages", res.Pages,
		"bytes", len(res.Text),
		"warnings", len(res.Warnings),
		"duration_ms", res.Duration.Milliseconds(),
	)
	fmt.Print(res.Text)
}
