package ingest

import (
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/pdf-structurer/constants"
)

// IsPDF checks the file extension only; content is validated by the extractor.
func IsPDF(path string) bool {
	return constants.IsPDFExt(filepath.Ext(path))
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}
