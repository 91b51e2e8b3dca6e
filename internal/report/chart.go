package report

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"

	"gonum.org/v1/plot/vg"

	"github.com/user/te_viewer_go/internal/analysis"
	"github.com/user/te_viewer_go/internal/parser"
)

var (
	ErrInvalidCollection = errors.New("data collection is not valid")
	ErrKeyNotFound       = errors.New("file not found")
	ErrNotTable          = errors.New("data is not a table")
	ErrEmptyTable        = errors.New("data is empty")
	ErrNoValidColumns    = errors.New("no valid variables to plot")
)

// ChartConfig is the rendering configuration handed to a Renderer.
type ChartConfig struct {
	Width         vg.Length
	Height        vg.Length
	LineWidth     vg.Length
	XMargin       float64 // fraction of the x span left empty on each side
	GridAlpha     float64
	TitlePrefix   string
	XLabel        string
	YLabel        string
	TitleFontSize vg.Length
	LabelFontSize vg.Length
	Colors        []color.Color
}

// DefaultChartConfig returns a 12x6 inch chart with 1.5pt lines.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:         12 * vg.Inch,
		Height:        6 * vg.Inch,
		LineWidth:     vg.Points(1.5),
		XMargin:       0.01,
		GridAlpha:     0.7,
		TitlePrefix:   "Data visualization",
		XLabel:        "Sample",
		YLabel:        "Value",
		TitleFontSize: vg.Points(12),
		LabelFontSize: vg.Points(10),
		Colors:        defaultColors,
	}
}

var defaultColors = []color.Color{
	color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 255}, // blue
	color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 255}, // orange
	color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 255}, // green
	color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 255}, // red
	color.RGBA{R: 0x94, G: 0x67, B: 0xbd, A: 255}, // purple
	color.RGBA{R: 0x8c, G: 0x56, B: 0x4b, A: 255}, // brown
	color.RGBA{R: 0xe3, G: 0x77, B: 0xc2, A: 255}, // pink
	color.RGBA{R: 0x7f, G: 0x7f, B: 0x7f, A: 255}, // gray
	color.RGBA{R: 0xbc, G: 0xbd, B: 0x22, A: 255}, // olive
	color.RGBA{R: 0x17, G: 0xbe, B: 0xcf, A: 255}, // cyan
}

func (cfg ChartConfig) color(i int) color.Color {
	colors := cfg.Colors
	if len(colors) == 0 {
		colors = defaultColors
	}
	return colors[i%len(colors)]
}

func (cfg ChartConfig) gridColor() color.Color {
	alpha := cfg.GridAlpha
	if alpha <= 0 || alpha > 1 {
		alpha = 0.7
	}
	return color.NRGBA{R: 0xb0, G: 0xb0, B: 0xb0, A: uint8(alpha * 255)}
}

// xRange returns the x-axis limits for n samples with the configured margin on each side.
func (cfg ChartConfig) xRange(n int) (float64, float64) {
	maxX := float64(n - 1)
	span := maxX
	if span <= 0 {
		span = 1
	}
	pad := span * cfg.XMargin
	return -pad, maxX + pad
}

// Line is one plotted series: cleaned column values against row index.
type Line struct {
	Name   string
	Values []float64
}

// Chart is the cleaned, validated content of one plot, ready for a Renderer.
type Chart struct {
	Key      string
	Lines    []Line
	Warnings []string
	Clean    *analysis.CleanResult
}

// Title builds the chart title from a prefix and the source file name.
func (ch *Chart) Title(prefix string) string {
	if prefix == "" {
		return ch.Key
	}
	return fmt.Sprintf("%s - %s", prefix, ch.Key)
}

// Samples returns the length of the longest line.
func (ch *Chart) Samples() int {
	n := 0
	for _, l := range ch.Lines {
		if len(l.Values) > n {
			n = len(l.Values)
		}
	}
	return n
}

// PlotOptions controls BuildChart.
type PlotOptions struct {
	// Variables lists the columns to plot; empty means every column.
	Variables []string
	// Sigma is the clipping half-width in standard deviations; <= 0 means the default.
	Sigma float64
	// Out receives warnings about unknown variables; nil means os.Stdout.
	Out io.Writer
}

// BuildChart validates the entry stored under key, cleans a private copy of it and selects the
// requested columns. On failure the chart is nil and the error wraps one of the Err* values.
func BuildChart(c *parser.Collection, key string, opts PlotOptions) (chart *Chart, err error) {
	defer func() {
		if r := recover(); r != nil {
			chart = nil
			err = fmt.Errorf("plot %s: %v", key, r)
		}
	}()

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	if c == nil {
		return nil, ErrInvalidCollection
	}
	table, ok := c.Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	if table == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotTable, key)
	}
	if table.Empty() {
		return nil, fmt.Errorf("%w: %s", ErrEmptyTable, key)
	}

	cleaned, res, err := analysis.CleanTable(table, analysis.CleanOptions{Sigma: opts.Sigma})
	if err != nil {
		return nil, fmt.Errorf("clean %s: %w", key, err)
	}

	variables := opts.Variables
	if len(variables) == 0 {
		variables = cleaned.Columns()
	}

	chart = &Chart{Key: key, Lines: make([]Line, 0, len(variables)), Warnings: make([]string, 0), Clean: res}
	for _, name := range variables {
		values, ok := cleaned.Column(name)
		if !ok {
			warning := fmt.Sprintf("Warning: variable %s not found in data", name)
			fmt.Fprintln(out, warning)
			chart.Warnings = append(chart.Warnings, warning)
			continue
		}
		chart.Lines = append(chart.Lines, Line{Name: name, Values: values})
	}
	if len(chart.Lines) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoValidColumns, key)
	}
	return chart, nil
}
