package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "downloads")
	ws, err := New(root)
	require.NoError(t, err)
	assert.Equal(t, root, ws.Root())
	assert.DirExists(t, root)
}

func TestNewRejectsEmptyRoot(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)
}

func TestSaveImageSequencePreservesOrder(t *testing.T) {
	ws, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	var paths []string
	for seq, body := range []string{"first", "second", "third"} {
		p, err := ws.SaveImage(ctx, 42, seq, strings.NewReader(body))
		require.NoError(t, err)
		paths = append(paths, p)
	}

	assert.Equal(t, "000.jpg", filepath.Base(paths[0]))
	assert.Equal(t, "001.jpg", filepath.Base(paths[1]))
	assert.Equal(t, "002.jpg", filepath.Base(paths[2]))

	data, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestSaveImageUsersDoNotCollide(t *testing.T) {
	ws, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	a, err := ws.SaveImage(ctx, 1, 0, strings.NewReader("user one"))
	require.NoError(t, err)
	b, err := ws.SaveImage(ctx, 2, 0, strings.NewReader("user two"))
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Equal(t, ws.UserDir(1), filepath.Dir(a))
	assert.Equal(t, ws.UserDir(2), filepath.Dir(b))
}

func TestWriteArtifactNamesAreUnique(t *testing.T) {
	ws, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	a, err := ws.WriteArtifact(ctx, 7, []byte("%PDF-1"))
	require.NoError(t, err)
	b, err := ws.WriteArtifact(ctx, 7, []byte("%PDF-2"))
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(filepath.Base(a), "output-"))
	assert.True(t, strings.HasSuffix(a, ".pdf"))

	data, err := os.ReadFile(a)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1", string(data))
}

func TestCleanupRemovesUserSubtree(t *testing.T) {
	ws, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = ws.SaveImage(ctx, 9, 0, strings.NewReader("x"))
	require.NoError(t, err)
	_, err = ws.WriteArtifact(ctx, 9, []byte("%PDF"))
	require.NoError(t, err)
	_, err = ws.SaveImage(ctx, 10, 0, strings.NewReader("y"))
	require.NoError(t, err)

	require.NoError(t, ws.Cleanup(ctx, 9))

	assert.NoDirExists(t, ws.UserDir(9))
	assert.DirExists(t, ws.UserDir(10))
}

func TestCleanupAbsentUserIsNoError(t *testing.T) {
	ws, err := New(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, ws.Cleanup(context.Background(), 12345))
}
