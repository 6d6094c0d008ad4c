package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/pdf-structurer/constants"
	"github.com/joseph-ayodele/pdf-structurer/internal/common"
	"github.com/joseph-ayodele/pdf-structurer/internal/llm"
)

// Exporter turns a result into spreadsheet bytes.
type Exporter interface {
	ToSpreadsheet(ctx context.Context, res llm.ExtractionResult) ([]byte, error)
}

// Artifact is the outcome of one successful run.
type Artifact struct {
	Data        []byte
	Filename    string
	ContentType string
	Rows        int
	Pages       int
	RequestID   string
	Result      llm.ExtractionResult
	Raw         []byte // model JSON as received
}

// Processor runs extract -> structure -> export for one document. It keeps no state
// between calls and is safe for concurrent use.
type Processor struct {
	logger    *slog.Logger
	extract   *ExtractStage
	structure *StructureStage
	exporter  Exporter
}

func NewProcessor(logger *slog.Logger, extract *ExtractStage, structure *StructureStage, exporter Exporter) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{logger: logger, extract: extract, structure: structure, exporter: exporter}
}

// Process converts doc into a spreadsheet. The first failing stage aborts the run and
// no partial artifact is returned.
func (p *Processor) Process(ctx context.Context, doc []byte) (Artifact, error) {
	ctx, rid := common.EnsureRequestID(ctx)
	start := time.Now()
	p.logger.Info("pipeline.run.start", "req_id", rid, "document", common.DocumentFromContext(ctx), "bytes", len(doc))

	text, err := p.extract.Run(ctx, doc)
	if err != nil {
		return Artifact{}, p.fail(rid, "extract", err, start)
	}

	res, raw, err := p.structure.Run(ctx, text.Text)
	if err != nil {
		return Artifact{}, p.fail(rid, "structure", err, start)
	}

	data, err := p.exporter.ToSpreadsheet(ctx, res)
	if err != nil {
		return Artifact{}, p.fail(rid, "export", err, start)
	}

	art := Artifact{
		Data:        data,
		Filename:    constants.ArtifactName,
		ContentType: constants.XLSXContentType,
		Rows:        len(res.Entries),
		Pages:       text.Pages,
		RequestID:   rid,
		Result:      res,
		Raw:         raw,
	}
	p.logger.Info("pipeline.run.ok",
		"req_id", rid,
		"pages", art.Pages,
		"rows", art.Rows,
		"bytes", len(art.Data),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return art, nil
}

// ProcessFile reads path into memory, then runs Process. The file is closed before any
// stage starts.
func (p *Processor) ProcessFile(ctx context.Context, path string) (Artifact, error) {
	doc, err := os.ReadFile(path)
	if err != nil {
		return Artifact{}, fmt.Errorf("read %s: %w", path, err)
	}
	if common.DocumentFromContext(ctx) == "" {
		ctx = common.WithDocument(ctx, filepath.Base(path))
	}
	return p.Process(ctx, doc)
}

func (p *Processor) fail(rid, stage string, err error, start time.Time) error {
	p.logger.Error("pipeline.run.failed",
		"req_id", rid,
		"stage", stage,
		"error", err,
		"user_message", common.UserMessage(err),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return err
}
