package tool

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/joseph-ayodele/pdf-structurer/internal/common"
	"github.com/joseph-ayodele/pdf-structurer/internal/llm"
	"github.com/joseph-ayodele/pdf-structurer/internal/pipeline"
	"github.com/joseph-ayodele/pdf-structurer/internal/storage"
)

// MetadataStructurePDFDocument describes the structure_pdf_document tool.
var MetadataStructurePDFDocument = &mcp.Tool{
	Name: "structure_pdf_document",
	Description: "Extract the text of a PDF, have a language model turn it into normalized " +
		"key/value entries and write them to an XLSX spreadsheet (columns #, Key, Value, Comments). " +
		"Paths may be local files or gs://bucket/object URIs. Returns the spreadsheet location and the entries.",
	InputSchema: map[string]interface{}{
		"type":     "object",
		"required": []string{"path"},
		"properties": map[string]interface{}{
			"path": map[string]interface{}{
				"type":        "string",
				"description": "Local path or gs:// URI of the PDF to process",
			},
			"output_path": map[string]interface{}{
				"type":        "string",
				"description": "Where to write the spreadsheet. Defaults to <name>_extracted_data.xlsx next to the input.",
			},
		},
	},
}

// InputStructurePDFDocument is the input for the StructurePDFDocument tool.
type InputStructurePDFDocument struct {
	Path       string `json:"path"`
	OutputPath string `json:"output_path"`
}

// OutputStructurePDFDocument is the output for the StructurePDFDocument tool.
type OutputStructurePDFDocument struct {
	// OutputPath is where the spreadsheet was written.
	OutputPath string `json:"output_path"`
	// Rows is the number of data rows, excluding the header.
	Rows  int `json:"rows"`
	Pages int `json:"pages"`
	// Entries are the records in spreadsheet order.
	Entries []llm.ExtractionRecord `json:"entries"`
}

// Processor runs the pipeline over one in-memory document.
type Processor interface {
	Process(ctx context.Context, doc []byte) (pipeline.Artifact, error)
}

type StructureTool struct {
	proc     Processor
	store    storage.Store
	maxBytes int64
	logger   *slog.Logger
}

func NewStructureTool(proc Processor, store storage.Store, maxBytes int64, logger *slog.Logger) *StructureTool {
	if logger == nil {
		logger = slog.Default()
	}
	return &StructureTool{proc: proc, store: store, maxBytes: maxBytes, logger: logger}
}

// Register adds the tool to server.
func (t *StructureTool) Register(server *mcp.Server) {
	mcp.AddTool(server, MetadataStructurePDFDocument, t.StructurePDFDocument)
}

// StructurePDFDocument reads the PDF, runs the pipeline and stores the spreadsheet.
func (t *StructureTool) StructurePDFDocument(ctx context.Context, _ *mcp.CallToolRequest, input InputStructurePDFDocument) (*mcp.CallToolResult, OutputStructurePDFDocument, error) {
	path := strings.TrimSpace(input.Path)
	if path == "" {
		return nil, OutputStructurePDFDocument{}, fmt.Errorf("path is required")
	}
	if err := pipeline.CheckInput(path, 0, 0); err != nil {
		return nil, OutputStructurePDFDocument{}, userError(err)
	}

	doc, err := t.store.Read(ctx, path)
	if err != nil {
		return nil, OutputStructurePDFDocument{}, err
	}
	if err := pipeline.CheckInput(path, int64(len(doc)), t.maxBytes); err != nil {
		return nil, OutputStructurePDFDocument{}, userError(err)
	}

	ctx = common.WithDocument(ctx, path)
	art, err := t.proc.Process(ctx, doc)
	if err != nil {
		return nil, OutputStructurePDFDocument{}, userError(err)
	}

	out := strings.TrimSpace(input.OutputPath)
	if out == "" {
		out = pipeline.ArtifactPath(path, "")
	}
	if err := t.store.Write(ctx, out, art.Data); err != nil {
		return nil, OutputStructurePDFDocument{}, err
	}

	t.logger.Info("tool.structure.ok", "req_id", art.RequestID, "path", path, "output", out, "rows", art.Rows)
	return nil, OutputStructurePDFDocument{
		OutputPath: out,
		Rows:       art.Rows,
		Pages:      art.Pages,
		Entries:    art.Result.Entries,
	}, nil
}

// userError prefixes err with the short message an end user should see.
func userError(err error) error {
	return fmt.Errorf("%s: %w", common.UserMessage(err), err)
}
