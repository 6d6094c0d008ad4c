package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/pdf-structurer/internal/common"
	"github.com/joseph-ayodele/pdf-structurer/internal/llm"
)

func chatBody(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{{
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	})
	return string(b)
}

func TestClientStructure(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantErr  bool
		wantKind common.StructuringKind
		validate func(t *testing.T, res llm.ExtractionResult, raw []byte)
	}{
		{
			name:   "entries decoded",
			status: http.StatusOK,
			body:   chatBody(`{"entries":[{"key":"First Name","value":"Jane","comments":"Jane Doe"}]}`),
			validate: func(t *testing.T, res llm.ExtractionResult, raw []byte) {
				require.Len(t, res.Entries, 1)
				assert.Equal(t, "Jane", res.Entries[0].Value)
				assert.JSONEq(t, `{"entries":[{"key":"First Name","value":"Jane","comments":"Jane Doe"}]}`, string(raw))
			},
		},
		{
			name:     "missing entries is schema error",
			status:   http.StatusOK,
			body:     chatBody(`{"data":[]}`),
			wantErr:  true,
			wantKind: common.KindSchema,
		},
		{
			name:     "prose content is parse error",
			status:   http.StatusOK,
			body:     chatBody(`I could not find any data.`),
			wantErr:  true,
			wantKind: common.KindParse,
		},
		{
			name:     "server error is transport error",
			status:   http.StatusInternalServerError,
			body:     `{"error":{"message":"upstream"}}`,
			wantErr:  true,
			wantKind: common.KindTransport,
		},
		{
			name:     "no choices is transport error",
			status:   http.StatusOK,
			body:     `{"choices":[]}`,
			wantErr:  true,
			wantKind: common.KindTransport,
		},
		{
			name:     "html envelope is transport error",
			status:   http.StatusOK,
			body:     `<html>bad gateway</html>`,
			wantErr:  true,
			wantKind: common.KindTransport,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got chatRequest
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/v1/chat/completions", r.URL.Path)
				assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
				require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1/", Model: "gpt-4o-mini", Temperature: 0.1}, nil)
			res, raw, err := c.Structure(context.Background(), "PROMPT TEXT")

			assert.Equal(t, "json_object", got.ResponseFormat.Type)
			assert.InDelta(t, 0.1, got.Temperature, 1e-6)
			assert.Equal(t, "gpt-4o-mini", got.Model)
			require.Len(t, got.Messages, 1)
			assert.Equal(t, "PROMPT TEXT", got.Messages[0].Content)

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, common.ErrStructuring)
				assert.True(t, common.IsStructuringKind(err, tt.wantKind), "got %v", err)
				return
			}
			require.NoError(t, err)
			tt.validate(t, res, raw)
		})
	}
}

func TestClientStructureCanceled(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	c := NewClient(Config{APIKey: "sk-test", BaseURL: srv.URL}, nil)
	_, _, err := c.Structure(ctx, "prompt")
	require.Error(t, err)
	assert.True(t, common.IsStructuringKind(err, common.KindCanceled), "got %v", err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int32(1), hits.Load())
}
