package report

import (
	"fmt"
	"image/color"
	"io"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const goChartDPI = 96

// goChartRenderer draws charts with go-chart. It only produces PNG and SVG.
type goChartRenderer struct {
	cfg ChartConfig
}

func (r *goChartRenderer) Name() string { return BackendGoChart }

func (r *goChartRenderer) Formats() []string { return []string{"png", "svg"} }

func toDrawingColor(c color.Color) drawing.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return drawing.Color{R: n.R, G: n.G, B: n.B, A: n.A}
}

func (r *goChartRenderer) series(ch *Chart) []chart.Series {
	series := make([]chart.Series, 0, len(ch.Lines))
	for i, l := range ch.Lines {
		xs := make([]float64, 0, len(l.Values))
		ys := make([]float64, 0, len(l.Values))
		for x, y := range l.Values {
			if math.IsNaN(y) || math.IsInf(y, 0) {
				continue
			}
			xs = append(xs, float64(x))
			ys = append(ys, y)
		}
		// go-chart cannot range a single point.
		if len(xs) == 1 {
			xs = append(xs, xs[0]+1)
			ys = append(ys, ys[0])
		}
		series = append(series, chart.ContinuousSeries{
			Name:    l.Name,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: toDrawingColor(r.cfg.color(i)),
				StrokeWidth: float64(r.cfg.LineWidth),
			},
		})
	}
	return series
}

func (r *goChartRenderer) Render(w io.Writer, ch *Chart, format string) error {
	var provider chart.RendererProvider
	switch format {
	case "png":
		provider = chart.PNG
	case "svg":
		provider = chart.SVG
	default:
		return fmt.Errorf("go-chart backend cannot render %q", format)
	}

	gridStyle := chart.Style{
		StrokeColor:     toDrawingColor(r.cfg.gridColor()),
		StrokeWidth:     1,
		StrokeDashArray: []float64{4, 2},
	}
	xMin, xMax := r.cfg.xRange(ch.Samples())

	c := chart.Chart{
		Title:      ch.Title(r.cfg.TitlePrefix),
		TitleStyle: chart.Style{FontSize: float64(r.cfg.TitleFontSize)},
		Width:      int(r.cfg.Width.Dots(goChartDPI)),
		Height:     int(r.cfg.Height.Dots(goChartDPI)),
		DPI:        goChartDPI,
		// Left padding leaves room for the legend beside the plot area.
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 140, Right: 20, Bottom: 20}},
		XAxis: chart.XAxis{
			Name:           r.cfg.XLabel,
			Range:          &chart.ContinuousRange{Min: xMin, Max: xMax},
			GridMajorStyle: gridStyle,
		},
		YAxis: chart.YAxis{
			Name:           r.cfg.YLabel,
			GridMajorStyle: gridStyle,
		},
		Series: r.series(ch),
	}
	c.Elements = []chart.Renderable{chart.LegendLeft(&c)}

	if err := c.Render(provider, w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
