package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveFileStripsDirectories(t *testing.T) {
	dir := t.TempDir()

	path, err := SaveFile(dir, "../../etc/piece.mid", strings.NewReader("MThd"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "piece.mid"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "MThd", string(data))

	_, err = SaveFile(dir, "", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestMakeTempDirAndDelete(t *testing.T) {
	parent := filepath.Join(t.TempDir(), "nested", "uploads")
	dir, err := MakeTempDir(parent, "upload_")
	require.NoError(t, err)
	assert.DirExists(t, dir)
	assert.Equal(t, parent, filepath.Dir(dir))

	_, err = SaveFile(dir, "a.wav", strings.NewReader("RIFF"))
	require.NoError(t, err)
	require.NoError(t, DeleteDir(dir))
	assert.NoDirExists(t, dir)
}

func TestMoveFile(t *testing.T) {
	dir := t.TempDir()
	src, err := SaveFile(dir, "a.tmp.wav", strings.NewReader("RIFF"))
	require.NoError(t, err)

	dst := filepath.Join(dir, "a.wav")
	require.NoError(t, MoveFile(src, dst))
	assert.FileExists(t, dst)
	assert.NoFileExists(t, src)

	assert.Error(t, MoveFile(src, dst))
	assert.Error(t, DeleteFile(src))
}
