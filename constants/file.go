package constants

import "strings"

// PDFExt is the only document extension the pipeline accepts.
const PDFExt = "pdf"

const (
	// SheetName is the single worksheet written into every artifact.
	SheetName = "Extracted Data"
	// ArtifactName is the default download name for a spreadsheet artifact.
	ArtifactName = "extracted_data.xlsx"
	// XLSXContentType is the MIME type served with spreadsheet artifacts.
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	// ArtifactSuffix replaces a document's extension when deriving an output path.
	ArtifactSuffix = "_" + ArtifactName
)

// MaxDocumentBytes is the default upload cap (50 MB).
const MaxDocumentBytes int64 = 50 * 1024 * 1024

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// IsPDFExt reports whether ext (with or without the dot) names a PDF.
func IsPDFExt(ext string) bool {
	return NormalizeExt(ext) == PDFExt
}
