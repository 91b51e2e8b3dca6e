package cli

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/user/te_viewer_go/internal/analysis"
	"github.com/user/te_viewer_go/internal/report"
)

func newReportCmd(opts *rootOptions) *cobra.Command {
	var (
		flags   chartFlags
		outPath string
		rows    int
	)
	cmd := &cobra.Command{
		Use:   "report <dir> <file>",
		Short: "Write a PDF with preview, column statistics, line chart and heatmap of one file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.loadCollection(cmd, args[0])
			if err != nil {
				return err
			}
			key := args[1]
			out := cmd.OutOrStdout()
			if outPath == "" {
				outPath = defaultOutput(key, "_report.pdf")
			}
			if !cmd.Flags().Changed("rows") {
				rows = opts.cfg.PreviewRows
			}

			table, ok := c.Get(key)
			if !ok || table == nil {
				fmt.Fprintf(out, "Error: file %s not found\n", key)
				return reported(report.ErrKeyNotFound)
			}

			p, cfg, err := flags.plotter(opts, cmd)
			if err != nil {
				return err
			}
			ch, linePlot, err := p.PlotImage(c, key, flags.vars, "png")
			if err != nil {
				return reported(err)
			}

			summary, err := analysis.Describe(table)
			if err != nil {
				return err
			}

			var heatmap []byte
			if opts.cfg.Heatmap {
				heatmap, err = report.CreateHeatmapPlot(ch, cfg)
				if err != nil {
					log.Printf("Error generating heatmap for %s: %v", key, err)
				}
			}

			err = report.BuildPDFReport(outPath, report.ReportInput{
				Key:         key,
				Table:       table,
				PreviewRows: rows,
				Summary:     summary,
				Chart:       ch,
				LinePlot:    linePlot,
				Heatmap:     heatmap,
			})
			if err != nil {
				return fmt.Errorf("error generating PDF report: %w", err)
			}
			fmt.Fprintf(out, "PDF report successfully generated: %s\n", outPath)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output PDF path (default <file>_report.pdf)")
	cmd.Flags().IntVarP(&rows, "rows", "n", report.DefaultPreviewRows, "preview rows in the report")
	return cmd
}
