package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/te_viewer_go/internal/analysis"
	"github.com/user/te_viewer_go/internal/report"
)

func newPreviewCmd(opts *rootOptions) *cobra.Command {
	var rows int
	cmd := &cobra.Command{
		Use:   "preview <dir> <file>",
		Short: "Print shape, column names and the first rows of one file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.loadCollection(cmd, args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("rows") {
				rows = opts.cfg.PreviewRows
			}
			return reported(report.NewPreviewer(cmd.OutOrStdout()).Preview(c, args[1], rows))
		},
	}
	cmd.Flags().IntVarP(&rows, "rows", "n", report.DefaultPreviewRows, "number of rows to print")
	return cmd
}

func newDescribeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <dir> <file>",
		Short: "Print per-column count, missing, mean, std, min and max of one file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.loadCollection(cmd, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			table, ok := c.Get(args[1])
			if !ok || table == nil {
				return fmt.Errorf("%w: %s", report.ErrKeyNotFound, args[1])
			}
			summary, err := analysis.Describe(table)
			if err != nil {
				return err
			}
			return report.WriteSummary(out, summary)
		},
	}
}
