package report

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
)

// heatmapRange is the colour scale in standard deviations. Cleaned data never leaves it
// when clipped at the default sigma.
const heatmapRange = 3.0

// standardizedGrid exposes chart lines as z-scores: X is the sample index, Y the line index.
type standardizedGrid struct {
	z       [][]float64
	samples int
}

func newStandardizedGrid(ch *Chart) standardizedGrid {
	g := standardizedGrid{z: make([][]float64, len(ch.Lines)), samples: ch.Samples()}
	for r, l := range ch.Lines {
		row := make([]float64, len(l.Values))
		valid := validOnly(l.Values)
		mean, std := math.NaN(), math.NaN()
		if len(valid) > 0 {
			mean, std = stat.MeanStdDev(valid, nil)
		}
		for c, v := range l.Values {
			switch {
			case math.IsNaN(v):
				row[c] = math.NaN()
			case math.IsNaN(std) || std == 0:
				row[c] = 0
			default:
				row[c] = (v - mean) / std
			}
		}
		g.z[r] = row
	}
	return g
}

func validOnly(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

func (g standardizedGrid) Dims() (c, r int) { return g.samples, len(g.z) }

func (g standardizedGrid) Z(c, r int) float64 {
	if c >= len(g.z[r]) {
		return math.NaN()
	}
	return g.z[r][c]
}

func (g standardizedGrid) X(c int) float64 { return float64(c) }

func (g standardizedGrid) Y(r int) float64 { return float64(r) }

// CreateHeatmapPlot renders the chart's cleaned columns as a PNG heatmap of per-column z-scores.
func CreateHeatmapPlot(ch *Chart, cfg ChartConfig) ([]byte, error) {
	if ch == nil || len(ch.Lines) == 0 {
		return nil, fmt.Errorf("no chart data to plot heatmap")
	}
	grid := newStandardizedGrid(ch)
	cols, rows := grid.Dims()
	if cols == 0 {
		return nil, fmt.Errorf("no samples to plot heatmap")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Standardized values - %s", ch.Key)
	p.Title.TextStyle.Font.Size = cfg.TitleFontSize
	p.X.Label.Text = cfg.XLabel
	p.Y.Label.Text = "Variable"

	// Label at most ~20 variables so long tables stay readable.
	step := int(math.Ceil(float64(rows) / 20))
	yTicks := make([]plot.Tick, 0, rows)
	for i, l := range ch.Lines {
		label := ""
		if i%step == 0 {
			label = l.Name
		}
		yTicks = append(yTicks, plot.Tick{Value: float64(i), Label: label})
	}
	p.Y.Tick.Marker = plot.ConstantTicks(yTicks)
	p.Y.Min = -0.5
	p.Y.Max = float64(rows) - 0.5
	p.X.Min = -0.5
	p.X.Max = float64(cols) - 0.5

	colors := moreland.SmoothBlueRed()
	colors.SetMax(heatmapRange)
	colors.SetMin(-heatmapRange)
	hm := plotter.NewHeatMap(grid, colors.Palette(255))
	hm.Min = -heatmapRange
	hm.Max = heatmapRange
	hm.NaN = color.Gray{Y: 200}
	hm.Rasterized = true
	p.Add(hm)

	writer, err := p.WriterTo(cfg.Width, cfg.Height, "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create heatmap writer: %w", err)
	}
	buf := new(bytes.Buffer)
	if _, err := writer.WriteTo(buf); err != nil {
		return nil, fmt.Errorf("failed to write heatmap to buffer: %w", err)
	}
	return buf.Bytes(), nil
}
