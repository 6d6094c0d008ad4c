package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
)

// Pipeline error kinds. Each typed error below matches exactly one of these via errors.Is.
var (
	ErrExtraction  = errors.New("could not read document")
	ErrStructuring = errors.New("extraction failed")
	ErrExport      = errors.New("export failed")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// ExtractionReason tells an unopenable document apart from one with no text layer.
type ExtractionReason string

const (
	ReasonUnreadable ExtractionReason = "unreadable" // corrupt, non-PDF or encrypted
	ReasonNoText     ExtractionReason = "no_text"    // opened, but no page yielded text
)

// ExtractionFailure is returned when a document produced no text.
type ExtractionFailure struct {
	Reason ExtractionReason
	Pages  int
	Cause  error
}

func NewExtractionFailure(reason ExtractionReason, pages int, cause error) *ExtractionFailure {
	return &ExtractionFailure{Reason: reason, Pages: pages, Cause: cause}
}

func (e *ExtractionFailure) Error() string {
	msg := fmt.Sprintf("extraction failure (%s, pages=%d)", e.Reason, e.Pages)
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *ExtractionFailure) Unwrap() error { return e.Cause }

func (e *ExtractionFailure) Is(target error) bool { return target == ErrExtraction }

// StructuringKind separates the ways a model call can fail.
type StructuringKind string

const (
	KindTransport StructuringKind = "transport" // network or service failure
	KindParse     StructuringKind = "parse"     // model output is not JSON
	KindSchema    StructuringKind = "schema"    // valid JSON, wrong shape
	KindCanceled  StructuringKind = "canceled"  // caller canceled or deadline hit
)

// StructuringError is returned by every structuring backend.
type StructuringError struct {
	Kind    StructuringKind
	Message string
	Cause   error
}

func NewStructuringError(kind StructuringKind, message string, cause error) *StructuringError {
	return &StructuringError{Kind: kind, Message: message, Cause: cause}
}

func (e *StructuringError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("structuring %s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("structuring %s: %s", e.Kind, e.Message)
}

func (e *StructuringError) Unwrap() error { return e.Cause }

func (e *StructuringError) Is(target error) bool { return target == ErrStructuring }

// IsStructuringKind reports whether err carries a StructuringError of the given kind.
func IsStructuringKind(err error, kind StructuringKind) bool {
	var se *StructuringError
	return errors.As(err, &se) && se.Kind == kind
}

// ExportError is returned when a result cannot be turned into a spreadsheet.
type ExportError struct {
	Message string
	Cause   error
}

func NewExportError(message string, cause error) *ExportError {
	return &ExportError{Message: message, Cause: cause}
}

func (e *ExportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("export: %s: %v", e.Message, e.Cause)
	}
	return "export: " + e.Message
}

func (e *ExportError) Unwrap() error { return e.Cause }

func (e *ExportError) Is(target error) bool { return target == ErrExport }

// UserMessage maps an error to the short text shown to end users.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrExtraction):
		return ErrExtraction.Error()
	case errors.Is(err, ErrStructuring):
		return ErrStructuring.Error()
	case errors.Is(err, ErrExport):
		return ErrExport.Error()
	case errors.Is(err, ErrInvalidInput):
		var ae *AppError
		if errors.As(err, &ae) {
			return ae.Message
		}
		return ErrInvalidInput.Error()
	default:
		return ErrInternal.Error()
	}
}
