package pipeline

import (
	"context"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/pdf-structurer/constants"
	"github.com/joseph-ayodele/pdf-structurer/internal/async"
	"github.com/joseph-ayodele/pdf-structurer/internal/storage"
)

// JobHandler runs queued jobs: read the source through the store, check it, process it
// and write the artifact to the job's destination.
type JobHandler struct {
	proc     *Processor
	store    storage.Store
	maxBytes int64
	logger   *slog.Logger
}

func NewJobHandler(proc *Processor, store storage.Store, maxBytes int64, logger *slog.Logger) *JobHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &JobHandler{proc: proc, store: store, maxBytes: maxBytes, logger: logger}
}

func (h *JobHandler) Handle(ctx context.Context, job async.Job) (async.Summary, error) {
	if err := CheckInput(job.Source, 0, 0); err != nil {
		return async.Summary{}, err
	}
	doc, err := h.store.Read(ctx, job.Source)
	if err != nil {
		return async.Summary{}, err
	}
	if err := CheckInput(job.Source, int64(len(doc)), h.maxBytes); err != nil {
		return async.Summary{}, err
	}

	art, err := h.proc.Process(ctx, doc)
	if err != nil {
		return async.Summary{}, err
	}

	dest := job.Dest
	if dest == "" {
		dest = ArtifactPath(job.Source, "")
	}
	if err := h.store.Write(ctx, dest, art.Data); err != nil {
		h.logger.Error("pipeline.job.write_failed", "req_id", art.RequestID, "dest", dest, "error", err)
		return async.Summary{}, err
	}
	return async.Summary{Output: dest, Rows: art.Rows, Pages: art.Pages}, nil
}

// ArtifactPath derives where the spreadsheet for source goes: <stem>_extracted_data.xlsx
// next to it when outDir is empty, otherwise under outDir. Both may be gs:// URIs.
func ArtifactPath(source, outDir string) string {
	if storage.IsGCSURI(source) || storage.IsGCSURI(outDir) {
		name := strings.TrimSuffix(path.Base(source), path.Ext(source)) + constants.ArtifactSuffix
		if outDir == "" {
			return strings.TrimSuffix(source, path.Ext(source)) + constants.ArtifactSuffix
		}
		if storage.IsGCSURI(outDir) {
			return strings.TrimRight(outDir, "/") + "/" + name
		}
		return filepath.Join(outDir, name)
	}

	name := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source)) + constants.ArtifactSuffix
	if outDir == "" {
		return filepath.Join(filepath.Dir(source), name)
	}
	return filepath.Join(outDir, name)
}
