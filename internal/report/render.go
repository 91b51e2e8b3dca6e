package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/user/te_viewer_go/internal/parser"
)

const (
	BackendGonum   = "gonum"
	BackendGoChart = "gochart"
)

// Renderer turns a Chart into an encoded image.
type Renderer interface {
	Name() string
	Formats() []string
	Render(w io.Writer, ch *Chart, format string) error
}

// NewRenderer returns the renderer for backend ("" selects gonum).
func NewRenderer(backend string, cfg ChartConfig) (Renderer, error) {
	switch strings.ToLower(backend) {
	case "", BackendGonum:
		return &gonumRenderer{cfg: cfg}, nil
	case BackendGoChart:
		return &goChartRenderer{cfg: cfg}, nil
	default:
		return nil, fmt.Errorf("unknown chart backend: %s", backend)
	}
}

// FormatFromPath derives the image format from a file extension, defaulting to png.
func FormatFromPath(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return "png"
	}
	return ext
}

func supports(r Renderer, format string) bool {
	for _, f := range r.Formats() {
		if f == format {
			return true
		}
	}
	return false
}

// RenderBytes renders ch fully in memory. A panic inside the renderer is returned as an error.
func RenderBytes(r Renderer, ch *Chart, format string) (img []byte, err error) {
	if ch == nil {
		return nil, fmt.Errorf("no chart to render")
	}
	if !supports(r, format) {
		return nil, fmt.Errorf("%s backend does not support format %q", r.Name(), format)
	}
	defer func() {
		if rec := recover(); rec != nil {
			img = nil
			err = fmt.Errorf("render %s: %v", ch.Key, rec)
		}
	}()
	buf := new(bytes.Buffer)
	if err := r.Render(buf, ch, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveChart renders ch and writes it to path. Nothing is written if rendering fails.
func SaveChart(r Renderer, ch *Chart, path string) error {
	img, err := RenderBytes(r, ch, FormatFromPath(path))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, img, 0o644); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	return nil
}

// Plotter runs the whole plot operation: validation, cleaning and rendering. Every failure is
// reported on Out and the partially built chart is dropped.
type Plotter struct {
	Out      io.Writer
	Renderer Renderer
	Sigma    float64
}

func (p *Plotter) out() io.Writer {
	if p.Out == nil {
		return os.Stdout
	}
	return p.Out
}

// Plot builds the chart for key and writes it to path (format from the extension).
func (p *Plotter) Plot(c *parser.Collection, key string, variables []string, path string) (*Chart, error) {
	ch, err := BuildChart(c, key, PlotOptions{Variables: variables, Sigma: p.Sigma, Out: p.out()})
	if err == nil {
		err = SaveChart(p.Renderer, ch, path)
	}
	if err != nil {
		fmt.Fprintf(p.out(), "Error while plotting: %v\n", err)
		return nil, err
	}
	return ch, nil
}

// PlotImage is Plot for callers that want the encoded image instead of a file.
func (p *Plotter) PlotImage(c *parser.Collection, key string, variables []string, format string) (*Chart, []byte, error) {
	ch, err := BuildChart(c, key, PlotOptions{Variables: variables, Sigma: p.Sigma, Out: p.out()})
	var img []byte
	if err == nil {
		img, err = RenderBytes(p.Renderer, ch, format)
	}
	if err != nil {
		fmt.Fprintf(p.out(), "Error while plotting: %v\n", err)
		return nil, nil, err
	}
	return ch, img, nil
}
