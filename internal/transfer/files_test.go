package transfer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "clipboard.xml")
	var files OSFiles

	require.NoError(t, files.WriteTextFile(path, []byte("<a/>"), true))
	text, err := files.ReadTextFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<a/>", text)

	require.NoError(t, files.WriteTextFile(path, []byte("<b/>"), false))
	text, err = files.ReadTextFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<b/>", text)

	_, err = files.ReadTextFile(filepath.Join(dir, "missing.xml"))
	assert.True(t, os.IsNotExist(err))

	bin := filepath.Join(dir, "bin.xml")
	require.NoError(t, os.WriteFile(bin, []byte{0xff, 0xfe, 0x00}, 0644))
	_, err = files.ReadTextFile(bin)
	assert.ErrorIs(t, err, errNotUTF8)
}

func TestOSFilesAtomicWriteClearsLeftovers(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, ".fmclip_0000.tmp")
	require.NoError(t, os.WriteFile(stale, []byte("partial"), 0600))

	require.NoError(t, OSFiles{}.WriteTextFile(filepath.Join(dir, "clipboard.xml"), []byte("<a/>"), true))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "clipboard.xml", entries[0].Name())
}
