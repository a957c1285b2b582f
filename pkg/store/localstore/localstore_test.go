package localstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/taskbook/pkg/item"
)

func TestRoundTripActive(t *testing.T) {
	ls, err := New(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	empty, err := ls.ReadActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	want := map[string]item.Item{
		"1": {ID: 1, Description: "Fix bug", Boards: []string{"coding"}, KindFlag: item.KindTask, Priority: 2},
	}
	require.NoError(t, ls.WriteActive(ctx, want))

	got, err := ls.ReadActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestArchiveIndependentFromActive(t *testing.T) {
	ls, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	active := map[string]item.Item{"1": {ID: 1, Description: "A"}}
	archived := map[string]item.Item{"2": {ID: 2, Description: "B"}}
	require.NoError(t, ls.WriteActive(ctx, active))
	require.NoError(t, ls.WriteArchive(ctx, archived))

	gotActive, err := ls.ReadActive(ctx)
	require.NoError(t, err)
	gotArchive, err := ls.ReadArchive(ctx)
	require.NoError(t, err)

	assert.Equal(t, active, gotActive)
	assert.Equal(t, archived, gotArchive)
}

func TestNewSweepsLeftoverTempFiles(t *testing.T) {
	root := t.TempDir()
	ls, err := New(root)
	require.NoError(t, err)

	// Simulate a crash: leave a stray temp file behind.
	stray := filepath.Join(root, tempDir, "bucket-stray.json")
	require.NoError(t, os.WriteFile(stray, []byte("{}"), 0o644))

	_, err = New(root)
	require.NoError(t, err)
	_ = ls // keep ls referenced

	entries, err := os.ReadDir(filepath.Join(root, tempDir))
	require.NoError(t, err)
	assert.Empty(t, entries)
}
