package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/pdf-structurer/constants"
	"github.com/joseph-ayodele/pdf-structurer/internal/common"
)

// CheckInput applies the intake rules callers enforce before running the pipeline:
// a name is required, only .pdf is accepted and size must not exceed maxBytes
// (no limit when maxBytes <= 0).
func CheckInput(name string, size, maxBytes int64) error {
	if strings.TrimSpace(name) == "" {
		return common.NewAppError("INVALID_INPUT", "No file selected", common.ErrInvalidInput)
	}
	if !constants.IsPDFExt(filepath.Ext(name)) {
		return common.NewAppError("INVALID_INPUT", "Only PDF files are supported", common.ErrInvalidInput)
	}
	if maxBytes > 0 && size > maxBytes {
		return common.NewAppError("INVALID_INPUT",
			fmt.Sprintf("File is larger than %d MB", maxBytes/(1024*1024)), common.ErrInvalidInput)
	}
	return nil
}
