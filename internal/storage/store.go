package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// GCSScheme prefixes Cloud Storage URIs.
const GCSScheme = "gs://"

// ErrObjectExists is returned when overwrite is disabled and the destination exists.
var ErrObjectExists = errors.New("object already exists")

// Store reads source documents and writes artifacts. URIs are local paths or gs://bucket/object.
type Store interface {
	Read(ctx context.Context, uri string) ([]byte, error)
	Write(ctx context.Context, uri string, data []byte) error
}

// IsGCSURI reports whether uri names a Cloud Storage object.
func IsGCSURI(uri string) bool {
	return strings.HasPrefix(uri, GCSScheme)
}

// ParseGCSURI splits gs://bucket/path/to/object into bucket and object name.
func ParseGCSURI(uri string) (bucket, object string, err error) {
	if !IsGCSURI(uri) {
		return "", "", fmt.Errorf("not a gs:// uri: %q", uri)
	}
	rest := strings.TrimPrefix(uri, GCSScheme)
	bucket, object, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || object == "" || strings.HasSuffix(object, "/") {
		return "", "", fmt.Errorf("gs uri must name bucket and object: %q", uri)
	}
	return bucket, object, nil
}
