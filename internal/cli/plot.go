package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	"github.com/user/te_viewer_go/internal/report"
)

// defaultOutput derives "<name><suffix>" from a dataset file name.
func defaultOutput(file, suffix string) string {
	return strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)) + suffix
}

type chartFlags struct {
	vars    []string
	backend string
	width   float64
	height  float64
	sigma   float64
}

func (f *chartFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.vars, "vars", nil, "variables to plot, e.g. var1,var2 (default: all)")
	cmd.Flags().StringVar(&f.backend, "backend", "", "chart backend: gonum or gochart (overrides config)")
	cmd.Flags().Float64Var(&f.width, "width", 0, "chart width in inches (overrides config)")
	cmd.Flags().Float64Var(&f.height, "height", 0, "chart height in inches (overrides config)")
	cmd.Flags().Float64Var(&f.sigma, "sigma", 0, "outlier clipping width in standard deviations (overrides config)")
}

// plotter applies flag overrides on top of the configuration.
func (f *chartFlags) plotter(opts *rootOptions, cmd *cobra.Command) (*report.Plotter, report.ChartConfig, error) {
	cfg := opts.cfg.Chart()
	if f.width > 0 {
		cfg.Width = vg.Length(f.width) * vg.Inch
	}
	if f.height > 0 {
		cfg.Height = vg.Length(f.height) * vg.Inch
	}
	backend := opts.cfg.Backend
	if f.backend != "" {
		backend = f.backend
	}
	sigma := opts.cfg.ClipSigma
	if f.sigma > 0 {
		sigma = f.sigma
	}
	r, err := report.NewRenderer(backend, cfg)
	if err != nil {
		return nil, cfg, err
	}
	return &report.Plotter{Out: cmd.OutOrStdout(), Renderer: r, Sigma: sigma}, cfg, nil
}

func newPlotCmd(opts *rootOptions) *cobra.Command {
	var (
		flags   chartFlags
		outPath string
		heatmap string
		open    bool
	)
	cmd := &cobra.Command{
		Use:   "plot <dir> <file>",
		Short: "Clean one file and render its variables as a line chart",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.loadCollection(cmd, args[0])
			if err != nil {
				return err
			}
			p, cfg, err := flags.plotter(opts, cmd)
			if err != nil {
				return err
			}
			if outPath == "" {
				outPath = defaultOutput(args[1], ".png")
			}

			out := cmd.OutOrStdout()
			ch, err := p.Plot(c, args[1], flags.vars, outPath)
			if err != nil {
				return reported(err)
			}
			fmt.Fprintf(out, "Chart written: %s (%d line(s))\n", outPath, len(ch.Lines))

			if heatmap != "" {
				img, err := report.CreateHeatmapPlot(ch, cfg)
				if err != nil {
					return err
				}
				if err := os.WriteFile(heatmap, img, 0o644); err != nil {
					return fmt.Errorf("failed to write heatmap: %w", err)
				}
				fmt.Fprintf(out, "Heatmap written: %s\n", heatmap)
			}

			if open {
				if err := browser.OpenFile(outPath); err != nil {
					return fmt.Errorf("open chart: %w", err)
				}
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output image; format from extension (default <file>.png)")
	cmd.Flags().StringVar(&heatmap, "heatmap", "", "also write a PNG heatmap of standardized values to this path")
	cmd.Flags().BoolVar(&open, "open", false, "open the chart in the system viewer")
	return cmd
}
