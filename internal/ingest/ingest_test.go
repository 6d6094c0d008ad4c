package ingest

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))
}

func TestScanDirectory(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a.pdf"))
	touch(t, filepath.Join(root, "B.PDF"))
	touch(t, filepath.Join(root, "notes.txt"))
	touch(t, filepath.Join(root, ".hidden.pdf"))
	touch(t, filepath.Join(root, "sub", "c.pdf"))
	touch(t, filepath.Join(root, ".cache", "d.pdf"))

	tests := []struct {
		name     string
		opts     ScanOptions
		want     []string
		validate func(t *testing.T, stats DirStats)
	}{
		{
			name: "top level only",
			opts: ScanOptions{SkipHidden: true},
			want: []string{"B.PDF", "a.pdf"},
		},
		{
			name: "recursive skipping hidden",
			opts: ScanOptions{SkipHidden: true, Recursive: true},
			want: []string{"B.PDF", "a.pdf", filepath.Join("sub", "c.pdf")},
			validate: func(t *testing.T, stats DirStats) {
				assert.Equal(t, uint32(3), stats.Matched)
				assert.Zero(t, stats.Failed)
			},
		},
		{
			name: "recursive with hidden",
			opts: ScanOptions{Recursive: true},
			want: []string{".cache/d.pdf", ".hidden.pdf", "B.PDF", "a.pdf", filepath.Join("sub", "c.pdf")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paths, stats, err := ScanDirectory(root, tt.opts)
			require.NoError(t, err)

			rel := make([]string, 0, len(paths))
			for _, p := range paths {
				r, err := filepath.Rel(root, p)
				require.NoError(t, err)
				rel = append(rel, filepath.ToSlash(r))
			}
			want := make([]string, len(tt.want))
			for i, w := range tt.want {
				want[i] = filepath.ToSlash(w)
			}
			sort.Strings(want)
			assert.Equal(t, want, rel)
			if tt.validate != nil {
				tt.validate(t, stats)
			}
		})
	}
}

func TestScanDirectoryErrors(t *testing.T) {
	_, _, err := ScanDirectory(" ", ScanOptions{})
	assert.Error(t, err)

	_, _, err = ScanDirectory(filepath.Join(t.TempDir(), "missing"), ScanOptions{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestIsPDFAndHidden(t *testing.T) {
	assert.True(t, IsPDF("/x/y.pdf"))
	assert.True(t, IsPDF("Y.PDF"))
	assert.False(t, IsPDF("y.pdf.xlsx"))
	assert.True(t, IsHidden("/x/.y.pdf"))
	assert.False(t, IsHidden("."))
	assert.False(t, IsHidden("/x/y.pdf"))
}

func receive(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case p, ok := <-ch:
		require.True(t, ok, "channel closed")
		return p
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watcher event")
		return ""
	}
}

func TestStartWatcher(t *testing.T) {
	root := t.TempDir()
	existing := filepath.Join(root, "old.pdf")
	touch(t, existing)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, errs, err := StartWatcher(ctx, WatchConfig{
		Roots:       []string{root},
		InitialScan: true,
		Debounce:    20 * time.Millisecond,
		SkipHidden:  true,
	}, nil)
	require.NoError(t, err)
	require.NotNil(t, errs)

	assert.Equal(t, existing, receive(t, events))

	fresh := filepath.Join(root, "new.pdf")
	touch(t, filepath.Join(root, "ignored.txt"))
	touch(t, filepath.Join(root, ".partial.pdf"))
	touch(t, fresh)
	assert.Equal(t, fresh, receive(t, events))

	cancel()
	for range events {
	}
}

func TestStartWatcherPicksUpMovedInDirectory(t *testing.T) {
	root := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, _, err := StartWatcher(ctx, WatchConfig{
		Roots:      []string{root},
		Debounce:   20 * time.Millisecond,
		SkipHidden: true,
	}, nil)
	require.NoError(t, err)

	staging := filepath.Join(t.TempDir(), "batch")
	touch(t, filepath.Join(staging, "a.pdf"))
	touch(t, filepath.Join(staging, "nested", "b.pdf"))
	touch(t, filepath.Join(staging, "notes.txt"))

	moved := filepath.Join(root, "batch")
	require.NoError(t, os.Rename(staging, moved))

	got := []string{receive(t, events), receive(t, events)}
	assert.ElementsMatch(t, []string{
		filepath.Join(moved, "a.pdf"),
		filepath.Join(moved, "nested", "b.pdf"),
	}, got)

	// the nested directory is watched too
	later := filepath.Join(moved, "nested", "c.pdf")
	touch(t, later)
	assert.Equal(t, later, receive(t, events))

	cancel()
	for range events {
	}
}

func TestStartWatcherNoRoots(t *testing.T) {
	_, _, err := StartWatcher(context.Background(), WatchConfig{}, nil)
	assert.Error(t, err)
}
