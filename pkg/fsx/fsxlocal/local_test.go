package fsxlocal_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jamalpur-chamber/outbound/pkg/fsx/fsxlocal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFileSystem_LazyRootAndRoundTrip(t *testing.T) {
	ctx := context.Background()
	root := filepath.Join(t.TempDir(), "temp")

	lfs, err := fsxlocal.NewLocalFileSystem(root)
	require.NoError(t, err)

	_, err = os.Stat(root)
	assert.True(t, os.IsNotExist(err), "root must not exist before first write")

	files, err := lfs.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, files)

	n, err := lfs.WriteFileStream(ctx, "doc-1.pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, int64(8), n)

	info, err := lfs.Stat(ctx, "doc-1.pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", info.ContentType)

	rc, err := lfs.ReadFileStream(ctx, "doc-1.pdf")
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	assert.Equal(t, "%PDF-1.4", string(data))

	require.NoError(t, lfs.DeleteFile(ctx, "doc-1.pdf"))
	require.NoError(t, lfs.DeleteFile(ctx, "doc-1.pdf"), "deleting twice is fine")

	exists, err := lfs.Exists(ctx, "doc-1.pdf")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalFileSystem_WriteRefusesToOverwrite(t *testing.T) {
	ctx := context.Background()
	lfs, err := fsxlocal.NewLocalFileSystem(t.TempDir())
	require.NoError(t, err)

	_, err = lfs.WriteFileStream(ctx, "a.png", strings.NewReader("one"))
	require.NoError(t, err)
	_, err = lfs.WriteFileStream(ctx, "a.png", strings.NewReader("two"))
	assert.Error(t, err)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("client went away") }

func TestLocalFileSystem_FailedWriteLeavesNothing(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	lfs, err := fsxlocal.NewLocalFileSystem(root)
	require.NoError(t, err)

	_, err = lfs.WriteFileStream(ctx, "b.gif", io.MultiReader(strings.NewReader("GIF89a"), failingReader{}))
	require.Error(t, err)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLocalFileSystem_LocalPathStaysUnderRoot(t *testing.T) {
	root := t.TempDir()
	lfs, err := fsxlocal.NewLocalFileSystem(root)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(lfs.Root(), "etc", "passwd"), lfs.LocalPath("../../etc/passwd"))
	assert.Equal(t, filepath.Join(lfs.Root(), "x.pdf"), lfs.LocalPath("x.pdf"))
}

func TestLocalFileSystem_ReadMissing(t *testing.T) {
	lfs, err := fsxlocal.NewLocalFileSystem(t.TempDir())
	require.NoError(t, err)

	_, err = lfs.ReadFileStream(context.Background(), "nope.pdf")
	assert.ErrorIs(t, err, fsxlocal.ErrNotFound)
}
