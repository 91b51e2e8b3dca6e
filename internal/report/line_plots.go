package report

import (
	"fmt"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	_ "gonum.org/v1/plot/vg/vgeps"
	_ "gonum.org/v1/plot/vg/vgimg"
	_ "gonum.org/v1/plot/vg/vgpdf"
	_ "gonum.org/v1/plot/vg/vgsvg"
)

// gonumRenderer draws charts with gonum/plot.
type gonumRenderer struct {
	cfg ChartConfig
}

func (r *gonumRenderer) Name() string { return BackendGonum }

func (r *gonumRenderer) Formats() []string {
	return []string{"png", "svg", "pdf", "jpg", "jpeg", "tif", "tiff", "eps"}
}

// finiteXYs pairs values with their row index, dropping NaN and Inf.
func finiteXYs(values []float64) plotter.XYs {
	pts := make(plotter.XYs, 0, len(values))
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(i), Y: v})
	}
	return pts
}

// newLinePlot builds the plot and a separate legend that Render draws outside the axes.
func (r *gonumRenderer) newLinePlot(ch *Chart) (*plot.Plot, plot.Legend, error) {
	p := plot.New()
	p.Title.Text = ch.Title(r.cfg.TitlePrefix)
	p.Title.TextStyle.Font.Size = r.cfg.TitleFontSize
	p.Title.Padding = vg.Points(15)
	p.X.Label.Text = r.cfg.XLabel
	p.X.Label.TextStyle.Font.Size = r.cfg.LabelFontSize
	p.Y.Label.Text = r.cfg.YLabel
	p.Y.Label.TextStyle.Font.Size = r.cfg.LabelFontSize

	grid := plotter.NewGrid()
	dashes := []vg.Length{vg.Points(4), vg.Points(2)}
	grid.Vertical.Color = r.cfg.gridColor()
	grid.Vertical.Dashes = dashes
	grid.Horizontal.Color = r.cfg.gridColor()
	grid.Horizontal.Dashes = dashes
	p.Add(grid)

	legend := plot.NewLegend()
	legend.Top = true
	legend.Left = true
	legend.TextStyle.Font.Size = r.cfg.LabelFontSize

	hasPoints := false
	for i, l := range ch.Lines {
		pts := finiteXYs(l.Values)
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, legend, fmt.Errorf("failed to create line for %s: %w", l.Name, err)
		}
		line.Color = r.cfg.color(i)
		line.LineStyle.Width = r.cfg.LineWidth
		p.Add(line)
		legend.Add(l.Name, line)
		hasPoints = hasPoints || len(pts) > 0
	}

	p.X.Min, p.X.Max = r.cfg.xRange(ch.Samples())
	if !hasPoints {
		p.Y.Min, p.Y.Max = 0, 1
	}
	return p, legend, nil
}

// Render draws the chart in the requested format. The legend gets its own strip to the right of
// the plot area.
func (r *gonumRenderer) Render(w io.Writer, ch *Chart, format string) error {
	p, legend, err := r.newLinePlot(ch)
	if err != nil {
		return err
	}

	c, err := draw.NewFormattedCanvas(r.cfg.Width, r.cfg.Height, format)
	if err != nil {
		return fmt.Errorf("failed to create plot canvas: %w", err)
	}
	dc := draw.New(c)

	gap := vg.Points(8)
	legendBox := legend.Rectangle(dc)
	legendWidth := legendBox.Max.X - legendBox.Min.X + 2*gap

	plotArea := dc
	plotArea.Max.X -= legendWidth
	p.Draw(plotArea)

	legendArea := dc
	legendArea.Min.X = plotArea.Max.X + gap
	legend.YOffs = -(r.cfg.TitleFontSize + p.Title.Padding*2)
	legend.Draw(legendArea)

	if _, err := c.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write plot: %w", err)
	}
	return nil
}
