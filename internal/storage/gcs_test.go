package storage

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
)

func TestClassifyWriteError(t *testing.T) {
	precondition := fmt.Errorf("close: %w", &googleapi.Error{Code: http.StatusPreconditionFailed})
	assert.ErrorIs(t, classifyWriteError("gs://b/o", precondition), ErrObjectExists)

	other := &googleapi.Error{Code: http.StatusServiceUnavailable}
	err := classifyWriteError("gs://b/o", other)
	assert.False(t, errors.Is(err, ErrObjectExists))
	assert.Same(t, other, err)
}
