package blobstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testStore runs the behaviour every Store must share.
func testStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	// 1. Streaming create
	data := []byte("hello world, this is a test blob")
	w, err := store.Create(ctx, "data-001.slot")
	require.NoError(t, err)
	n, err := w.Write(data)
	require.NoError(t, err)
	require.Equal(t, len(data), n)
	require.NoError(t, w.Sync())

	// Not visible before Close.
	_, err = store.Open(ctx, "data-001.slot")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, w.Close())
	require.Error(t, w.Close())

	// 2. Open and ReadAt
	blob, err := store.Open(ctx, "data-001.slot")
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, 5)
	n, err = blob.ReadAt(buf, 6)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, "world", string(buf))

	n, err = blob.ReadAt(make([]byte, 10), int64(len(data))-2)
	require.ErrorIs(t, err, io.EOF)
	require.Equal(t, 2, n)

	all, err := ReadAll(blob)
	require.NoError(t, err)
	require.Equal(t, data, all)
	require.NoError(t, blob.Close())

	// 3. Put, abort and list
	require.NoError(t, store.Put(ctx, "data-002.slot", []byte("x")))
	require.NoError(t, store.Put(ctx, "other.bin", nil))

	aborted, err := store.Create(ctx, "data-003.slot")
	require.NoError(t, err)
	_, err = aborted.Write([]byte("never"))
	require.NoError(t, err)
	require.NoError(t, aborted.Abort())

	names, err := store.List(ctx, "data-")
	require.NoError(t, err)
	assert.Equal(t, []string{"data-001.slot", "data-002.slot"}, names)

	names, err = store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"data-001.slot", "data-002.slot", "other.bin"}, names)

	empty, err := store.Open(ctx, "other.bin")
	require.NoError(t, err)
	assert.Zero(t, empty.Size())
	all, err = ReadAll(empty)
	require.NoError(t, err)
	assert.Empty(t, all)
	require.NoError(t, empty.Close())

	// 4. Delete
	require.NoError(t, store.Delete(ctx, "data-001.slot"))
	require.NoError(t, store.Delete(ctx, "data-001.slot"))

	names, err = store.List(ctx, "data-")
	require.NoError(t, err)
	assert.Equal(t, []string{"data-002.slot"}, names)

	_, err = store.Open(ctx, "data-001.slot")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStore(t *testing.T) {
	tmpDir := t.TempDir()
	testStore(t, NewLocalStore(tmpDir))

	// Aborted writes leave no temporary files behind.
	entries, err := os.ReadDir(tmpDir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), tmpPrefix)
	}
}

func TestLocalStore_Mapped(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "raw.slot"), []byte("0123456789"), 0o600))

	store := NewLocalStore(tmpDir)
	blob, err := store.Open(context.Background(), "raw.slot")
	require.NoError(t, err)

	m, ok := blob.(Mappable)
	require.True(t, ok)
	data, err := m.Bytes()
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(data))

	require.NoError(t, blob.Close())
	_, err = m.Bytes()
	assert.Error(t, err)
}

func TestLocalStore_MissingRoot(t *testing.T) {
	store := NewLocalStore(filepath.Join(t.TempDir(), "missing"))

	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, store.Put(context.Background(), "a.slot", []byte("a")))
	names, err = store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.slot"}, names)
}

func TestLocalStore_InvalidName(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx := context.Background()

	for _, name := range []string{"", ".", "..", "a/b", `a\b`} {
		_, err := store.Open(ctx, name)
		assert.Error(t, err, name)
		_, err = store.Create(ctx, name)
		assert.Error(t, err, name)
	}
}
