package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ".dat", c.Extension)
	assert.Equal(t, 5, c.PreviewRows)
	assert.Equal(t, "gonum", c.Backend)
	assert.Equal(t, 3.0, c.ClipSigma)
	assert.True(t, c.Heatmap)

	chart := c.Chart()
	assert.Equal(t, 12*vg.Inch, chart.Width)
	assert.Equal(t, 6*vg.Inch, chart.Height)
	assert.Equal(t, vg.Points(1.5), chart.LineWidth)
	assert.Equal(t, "Data visualization", chart.TitlePrefix)
	assert.Equal(t, ".dat", c.LoadOptions().Extension)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("extension: .txt\npreview_rows: 3\nbackend: gochart\nchart_width_in: 8\n"), 0o644))
	t.Setenv("TEDATA_PREVIEW_ROWS", "7")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ".txt", c.Extension)
	assert.Equal(t, 7, c.PreviewRows)
	assert.Equal(t, "gochart", c.Backend)
	assert.Equal(t, 8*vg.Inch, c.Chart().Width)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestSaveThenLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	c, err := Load("")
	require.NoError(t, err)
	c.PreviewRows = 11
	c.TitlePrefix = "TE"

	require.NoError(t, Save(c, path))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 11, loaded.PreviewRows)
	assert.Equal(t, "TE", loaded.TitlePrefix)
}

func TestDefaultIgnoresEnv(t *testing.T) {
	t.Setenv("TEDATA_EXTENSION", ".txt")

	c := Default()
	assert.Equal(t, ".dat", c.Extension)
	assert.Equal(t, 5, c.PreviewRows)
}
