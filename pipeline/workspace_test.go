package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkspaceLifecycle(t *testing.T) {
	base := t.TempDir()
	ws, err := NewWorkspace(base)
	require.NoError(t, err)

	assert.NotEmpty(t, ws.RunID())
	assert.Equal(t, filepath.Join(base, "concreate-"+ws.RunID()), ws.Root())

	dir, err := ws.SegmentDir(7)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(ws.Root(), "segment_007"), dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scratch.mp4"), []byte("x"), 0o644))

	require.NoError(t, ws.Close())
	_, statErr := os.Stat(ws.Root())
	assert.True(t, os.IsNotExist(statErr))
}

func TestWorkspaceIDsAreUnique(t *testing.T) {
	base := t.TempDir()
	a, err := NewWorkspace(base)
	require.NoError(t, err)
	b, err := NewWorkspace(base)
	require.NoError(t, err)
	assert.NotEqual(t, a.RunID(), b.RunID())
	assert.NotEqual(t, a.Root(), b.Root())
}

func TestWriteConcatManifestQuotesAndEscapes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clips.txt")
	err := WriteConcatManifest(path, []string{
		"/tmp/run/clip_000.mp4",
		"/tmp/it's here/clip_001.mp4",
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"file '/tmp/run/clip_000.mp4'\n"+
			`file '/tmp/it'\''s here/clip_001.mp4'`+"\n",
		string(data))
}
