package gemini

import (
	"context"
	"errors"
	"testing"

	"cloud.google.com/go/vertexai/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/pdf-structurer/internal/common"
)

type fakeModel struct {
	resp   *genai.GenerateContentResponse
	err    error
	prompt string
}

func (f *fakeModel) GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	for _, p := range parts {
		if txt, ok := p.(genai.Text); ok {
			f.prompt += string(txt)
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.resp, nil
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{Role: "model"}
	for _, p := range parts {
		content.Parts = append(content.Parts, genai.Text(p))
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}
}

func TestClientStructure(t *testing.T) {
	tests := []struct {
		name     string
		model    *fakeModel
		wantErr  bool
		wantKind common.StructuringKind
		entries  int
	}{
		{
			name:    "single part",
			model:   &fakeModel{resp: textResponse(`{"entries":[{"key":"City","value":"Pune","comments":"Pune, MH"}]}`)},
			entries: 1,
		},
		{
			name:    "split parts are joined",
			model:   &fakeModel{resp: textResponse(`{"entries":[{"key":"City",`, `"value":"Pune"}]}`)},
			entries: 1,
		},
		{
			name:     "missing entries",
			model:    &fakeModel{resp: textResponse(`{"items":[]}`)},
			wantErr:  true,
			wantKind: common.KindSchema,
		},
		{
			name:     "non json text",
			model:    &fakeModel{resp: textResponse(`not json`)},
			wantErr:  true,
			wantKind: common.KindParse,
		},
		{
			name:     "no candidates",
			model:    &fakeModel{resp: &genai.GenerateContentResponse{}},
			wantErr:  true,
			wantKind: common.KindTransport,
		},
		{
			name:     "service error",
			model:    &fakeModel{err: errors.New("rpc error: code = Unavailable")},
			wantErr:  true,
			wantKind: common.KindTransport,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClient(Config{Model: "gemini-2.5-pro", Temperature: 0.1}, tt.model, nil, nil)
			res, _, err := c.Structure(context.Background(), "THE PROMPT")
			assert.Equal(t, "THE PROMPT", tt.model.prompt)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, common.IsStructuringKind(err, tt.wantKind), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, res.Entries, tt.entries)
		})
	}
}

func TestClientStructureCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newClient(Config{}, &fakeModel{resp: textResponse(`{"entries":[]}`)}, nil, nil)
	_, _, err := c.Structure(ctx, "prompt")
	require.Error(t, err)
	assert.True(t, common.IsStructuringKind(err, common.KindCanceled))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewClientRequiresProject(t *testing.T) {
	_, err := NewClient(context.Background(), Config{Region: "us-central1"}, nil)
	assert.Error(t, err)
	assert.NoError(t, newClient(Config{}, &fakeModel{}, nil, nil).Close())
}
