package extract

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	stdout []byte
	stderr []byte
	err    error

	gotName  string
	gotArgs  []string
	gotStdin []byte
}

func (f *fakeRunner) Run(_ context.Context, stdin io.Reader, name string, args ...string) ([]byte, []byte, error) {
	f.gotName = name
	f.gotArgs = args
	if stdin != nil {
		f.gotStdin, _ = io.ReadAll(stdin)
	}
	return f.stdout, f.stderr, f.err
}

func TestCommandExtractor(t *testing.T) {
	tests := []struct {
		name         string
		runner       *fakeRunner
		cfg          Config
		doc          []byte
		wantText     string
		wantPages    int
		wantReadable bool
	}{
		{
			name:         "pages split on form feed",
			runner:       &fakeRunner{stdout: []byte("First page\n\fSecond page\n\f")},
			doc:          []byte("%PDF-1.4 fake"),
			wantText:     "First page\nSecond page\n",
			wantPages:    2,
			wantReadable: true,
		},
		{
			name:         "blank pages collapse to empty text",
			runner:       &fakeRunner{stdout: []byte("\n\f  \n\f")},
			doc:          []byte("%PDF-1.4 fake"),
			wantText:     "",
			wantPages:    2,
			wantReadable: true,
		},
		{
			name:         "normalize collapses whitespace",
			runner:       &fakeRunner{stdout: []byte("Name:\t\tJane    Doe  \r\n\n\n\nCity: Pune\f")},
			cfg:          Config{Normalize: true},
			doc:          []byte("%PDF-1.4 fake"),
			wantText:     "Name: Jane Doe\n\nCity: Pune\n",
			wantPages:    1,
			wantReadable: true,
		},
		{
			name:         "command failure is unreadable",
			runner:       &fakeRunner{stderr: []byte("Syntax Error: Couldn't find trailer dictionary"), err: errors.New("exit status 1")},
			doc:          []byte("garbage"),
			wantReadable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := NewCommandExtractor(tt.cfg, nil).WithRunner(tt.runner)
			res := ex.Extract(context.Background(), tt.doc)

			assert.Equal(t, tt.wantReadable, res.Readable)
			assert.Equal(t, tt.wantText, res.Text)
			assert.Equal(t, tt.wantPages, res.Pages)
			assert.Equal(t, MethodPdftotext, res.Method)
			assert.Equal(t, "pdftotext", tt.runner.gotName)
			assert.Equal(t, tt.doc, tt.runner.gotStdin)
			if !tt.wantReadable {
				require.Error(t, res.Cause)
				assert.NotEmpty(t, res.Warnings)
			}
		})
	}
}

func TestCommandExtractorEmptyInputSkipsCommand(t *testing.T) {
	r := &fakeRunner{}
	res := NewCommandExtractor(Config{Pdftotext: "/opt/poppler/pdftotext"}, nil).WithRunner(r).Extract(context.Background(), nil)
	assert.False(t, res.Readable)
	assert.ErrorIs(t, res.Cause, errEmptyDocument)
	assert.Empty(t, r.gotName)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "a b\nc", Normalize("  a\t b  \r\nc \n\n\n"))
}
