package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moltenform/fileops/internal/config"
)

func TestMvCommand(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0644))

	cmd := newMvCmd(config.Config{})
	cmd.SetArgs([]string{src, dst})
	require.NoError(t, cmd.Execute())

	_, err := os.Lstat(dst)
	assert.NoError(t, err)
	_, err = os.Lstat(src)
	assert.True(t, os.IsNotExist(err))
}

func TestMvCommandConflict(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0644))
	require.NoError(t, os.WriteFile(dst, []byte("y"), 0644))

	cmd := newMvCmd(config.Config{})
	cmd.SetArgs([]string{src, dst})
	assert.Error(t, cmd.Execute())
}

func TestHashCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0644))

	cmd := newHashCmd(config.Config{})
	cmd.SetArgs([]string{path})
	require.NoError(t, cmd.Execute())
}

func TestHashCommandMissingFile(t *testing.T) {
	cmd := newHashCmd(config.Config{})
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "absent")})

	err := cmd.Execute()
	var ee *exitError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, 2, ee.code)
}
