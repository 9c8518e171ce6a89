package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clipboard.xml")

	require.NoError(t, WriteFileAtomic(path, []byte("first"), 0644))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first", string(got))

	t.Run("replaces existing file", func(t *testing.T) {
		require.NoError(t, WriteFileAtomic(path, []byte("second"), 0644))
		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "second", string(got))
	})

	t.Run("leaves no temp files", func(t *testing.T) {
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "clipboard.xml", entries[0].Name())
	})

	t.Run("missing directory", func(t *testing.T) {
		err := WriteFileAtomic(filepath.Join(dir, "nope", "x.xml"), []byte("x"), 0644)
		assert.Error(t, err)
	})
}

func TestRemoveAllTempFiles(t *testing.T) {
	dir := t.TempDir()
	_, f, err := CreateTempFile(dir, tempPrefix, ".tmp")
	require.NoError(t, err)
	f.Close()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.xml"), nil, 0644))

	require.NoError(t, RemoveAllTempFiles(dir))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "keep.xml", entries[0].Name())

	assert.NoError(t, RemoveAllTempFiles(filepath.Join(dir, "missing")))
}

func TestFingerprint(t *testing.T) {
	a, err := Fingerprint([]byte("<fmxmlsnippet/>"))
	require.NoError(t, err)
	b, err := Fingerprint([]byte("<fmxmlsnippet/>"))
	require.NoError(t, err)
	c, err := Fingerprint([]byte("<fmxmlsnippet />"))
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	// base32 CIDv1
	assert.True(t, strings.HasPrefix(a, "b"), a)

	assert.Len(t, ShortFingerprint(a), 12)
	assert.Equal(t, "abc", ShortFingerprint("abc"))
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a")
	assert.False(t, FileExists(path))
	require.NoError(t, os.WriteFile(path, nil, 0644))
	assert.True(t, FileExists(path))
	assert.False(t, FileExists(dir))
}
