package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/pdf-structurer/internal/common"
)

func TestSendJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		if r.URL.Path == "/fail" {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"rate limited"}`))
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	headers := map[string]string{"Authorization": "Bearer k"}

	raw, err := SendJSON(context.Background(), srv.Client(), srv.URL+"/ok", map[string]any{"a": 1}, headers, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(raw))

	raw, err = SendJSON(context.Background(), srv.Client(), srv.URL+"/fail", map[string]any{"a": 1}, headers, nil)
	require.Error(t, err)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
	assert.Contains(t, string(raw), "rate limited")
}

func TestCallError(t *testing.T) {
	boom := errors.New("connection reset")

	err := CallError(context.Background(), "call", boom)
	assert.Equal(t, common.KindTransport, err.Kind)
	assert.ErrorIs(t, err, boom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = CallError(ctx, "call", boom)
	assert.Equal(t, common.KindCanceled, err.Kind)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, boom)

	err = CallError(context.Background(), "call", context.DeadlineExceeded)
	assert.Equal(t, common.KindCanceled, err.Kind)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
