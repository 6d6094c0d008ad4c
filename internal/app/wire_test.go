package app

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/pdf-structurer/internal/common"
	"github.com/joseph-ayodele/pdf-structurer/internal/extract"
	"github.com/joseph-ayodele/pdf-structurer/internal/llm/openai"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "warn")
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"k":"v"`)
}

func TestNewExtractor(t *testing.T) {
	tests := []struct {
		name     string
		backend  string
		wantErr  bool
		validate func(t *testing.T, tx extract.TextExtractor)
	}{
		{
			name:    "native",
			backend: common.ExtractBackendNative,
			validate: func(t *testing.T, tx extract.TextExtractor) {
				assert.IsType(t, &extract.PDFExtractor{}, tx)
			},
		},
		{
			name:    "pdftotext",
			backend: common.ExtractBackendPdftotext,
			validate: func(t *testing.T, tx extract.TextExtractor) {
				assert.IsType(t, &extract.CommandExtractor{}, tx)
			},
		},
		{name: "unknown", backend: "tesseract", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := common.DefaultConfig()
			cfg.Extract.Backend = tt.backend
			tx, err := NewExtractor(cfg, nil)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			tt.validate(t, tx)
		})
	}
}

func TestNewStructurer(t *testing.T) {
	cfg := common.DefaultConfig()
	cfg.LLM.APIKey = "sk-test"
	st, closeFn, err := NewStructurer(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &openai.Client{}, st)
	assert.NoError(t, closeFn())

	cfg.LLM.Provider = "bard"
	_, closeFn, err = NewStructurer(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
	assert.NotNil(t, closeFn)

	cfg.LLM.Provider = common.ProviderGemini
	cfg.GCP.ProjectID = ""
	_, _, err = NewStructurer(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestNewProcessor(t *testing.T) {
	cfg := common.DefaultConfig()
	cfg.LLM.APIKey = "sk-test"
	proc, closeFn, err := NewProcessor(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, proc)
	assert.NoError(t, closeFn())
}
