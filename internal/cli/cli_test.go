package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/te_viewer_go/internal/report"
)

func writeDataset(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "d11.dat"), []byte("1.0 2.0 3.0\n4.0 5.0 6.0\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "d12.dat"), []byte("1 2\n3 4\n5 6\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestListCommand(t *testing.T) {
	dir := writeDataset(t)

	out, err := run(t, "list", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "d11.dat\t(2, 3)")
	assert.Contains(t, out, "d12.dat\t(3, 2)")
	assert.NotContains(t, out, "notes.txt")
	assert.Contains(t, out, "2 file(s) loaded, 0 skipped")
}

func TestListCommandExtOverride(t *testing.T) {
	dir := writeDataset(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("7 8\n"), 0o644))

	out, err := run(t, "--ext", ".txt", "list", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "a.txt\t(1, 2)")
	assert.Contains(t, out, "1 file(s) loaded, 1 skipped")
}

func TestPreviewCommand(t *testing.T) {
	dir := writeDataset(t)

	out, err := run(t, "preview", dir, "d11.dat", "--rows", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Shape: (2, 3)")
	assert.Contains(t, out, "[var1 var2 var3]")
	assert.NotContains(t, out, "4.000000")
}

func TestPreviewCommandMissingFile(t *testing.T) {
	dir := writeDataset(t)

	out, err := run(t, "preview", dir, "nope.dat")
	require.Error(t, err)
	assert.ErrorIs(t, err, report.ErrKeyNotFound)
	var rep *reportedError
	assert.ErrorAs(t, err, &rep)
	assert.Contains(t, out, "Error: file nope.dat not found")
}

func TestDescribeCommand(t *testing.T) {
	dir := writeDataset(t)

	out, err := run(t, "describe", dir, "d12.dat")
	require.NoError(t, err)
	assert.Contains(t, out, "var1")
	assert.Contains(t, out, "var2")
}

func TestDescribeCommandMissingFile(t *testing.T) {
	dir := writeDataset(t)

	_, err := run(t, "describe", dir, "nope.dat")
	require.Error(t, err)
	assert.ErrorIs(t, err, report.ErrKeyNotFound)
	assert.Contains(t, err.Error(), "nope.dat")
}

func TestPlotCommand(t *testing.T) {
	dir := writeDataset(t)
	outPath := filepath.Join(t.TempDir(), "chart.png")
	heatPath := filepath.Join(t.TempDir(), "heat.png")

	out, err := run(t, "plot", dir, "d11.dat", "--vars", "var2,var9", "--out", outPath, "--heatmap", heatPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Warning: variable var9 not found in data")
	assert.Contains(t, out, "(1 line(s))")

	for _, p := range []string{outPath, heatPath} {
		b, err := os.ReadFile(p)
		require.NoError(t, err)
		assert.Equal(t, []byte("\x89PNG"), b[:4])
	}
}

func TestPlotCommandNoValidColumns(t *testing.T) {
	dir := writeDataset(t)
	outPath := filepath.Join(t.TempDir(), "chart.png")

	out, err := run(t, "plot", dir, "d11.dat", "--vars", "var9", "--out", outPath)
	require.Error(t, err)
	assert.ErrorIs(t, err, report.ErrNoValidColumns)
	assert.Contains(t, out, "Error while plotting")
	assert.NoFileExists(t, outPath)
}

func TestPlotCommandUnknownBackend(t *testing.T) {
	dir := writeDataset(t)

	_, err := run(t, "plot", dir, "d11.dat", "--backend", "ascii")
	require.Error(t, err)
	var rep *reportedError
	assert.False(t, errors.As(err, &rep), "renderer errors are left for Execute to print")
	assert.Contains(t, err.Error(), "ascii")
}

func TestReportCommand(t *testing.T) {
	dir := writeDataset(t)
	outPath := filepath.Join(t.TempDir(), "r.pdf")

	out, err := run(t, "report", dir, "d12.dat", "--out", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "PDF report successfully generated")

	b, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(b[:4]))
}

func TestReportCommandMissingFile(t *testing.T) {
	dir := writeDataset(t)

	out, err := run(t, "report", dir, "nope.dat", "--out", filepath.Join(t.TempDir(), "r.pdf"))
	assert.ErrorIs(t, err, report.ErrKeyNotFound)
	assert.Contains(t, out, "Error: file nope.dat not found")
}

func TestConfigShowAndInit(t *testing.T) {
	out, err := run(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "extension: .dat")
	assert.Contains(t, out, "backend: gonum")

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("preview_rows: 2\n"), 0o644))

	_, err = run(t, "--config", cfgPath, "config", "init")
	require.Error(t, err, "existing file is not overwritten without --force")

	out, err = run(t, "--config", cfgPath, "config", "init", "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved config to")

	b, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	assert.Contains(t, string(b), "preview_rows: 2")
	assert.Contains(t, string(b), "extension: .dat")
}

func TestDefaultOutput(t *testing.T) {
	assert.Equal(t, "d11.png", defaultOutput("d11.dat", ".png"))
	assert.Equal(t, "d11_report.pdf", defaultOutput("d11.dat", "_report.pdf"))
}
