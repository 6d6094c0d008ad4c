package extract

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// DocumentInfo is a structural summary of a PDF, independent of its text layer.
type DocumentInfo struct {
	Pages int
	Valid bool
	// ValidationError is set when relaxed validation rejected the file.
	ValidationError error
}

var disableConfigDir sync.Once

func pdfcpuConfig() *model.Configuration {
	// pdfcpu otherwise creates a config dir under the user's home on first use.
	disableConfigDir.Do(api.DisableConfigDir)
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed
	return cfg
}

// Inspect parses doc once with pdfcpu, validates it and counts its pages.
// A validation failure is reported in DocumentInfo; the error is returned only when the
// document could not be read or its page tree could not be walked.
func Inspect(doc []byte) (info DocumentInfo, err error) {
	if len(doc) == 0 {
		return DocumentInfo{}, errEmptyDocument
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("pdfcpu: %v", rec)
		}
	}()
	pctx, err := api.ReadContext(bytes.NewReader(doc), pdfcpuConfig())
	if err != nil {
		return info, fmt.Errorf("pdfcpu read: %w", err)
	}
	if err := api.ValidateContext(pctx); err != nil {
		info.ValidationError = err
	} else {
		info.Valid = true
	}
	if err := pctx.EnsurePageCount(); err != nil {
		return info, fmt.Errorf("pdfcpu page count: %w", err)
	}
	info.Pages = pctx.PageCount
	return info, nil
}
