package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/te_viewer_go/internal/config"
)

func TestLoadConfiguredDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "d11.dat"), []byte("1.0 2.0 3.0\n4.0 5.0 6.0\n"), 0o644))

	cfg := config.Default()
	cfg.DataDir = dir
	a := &App{cfg: cfg}

	got, keys, err := a.loadConfiguredDir()
	require.NoError(t, err)
	assert.Equal(t, dir, got)
	assert.Equal(t, []string{"d11.dat"}, keys)
	assert.Contains(t, a.PreviewFile("d11.dat", 1), "Shape: (2, 3)")
}

func TestLoadConfiguredDirUnset(t *testing.T) {
	a := &App{cfg: config.Default()}

	got, keys, err := a.loadConfiguredDir()
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Nil(t, keys)
	assert.Nil(t, a.current())
}
