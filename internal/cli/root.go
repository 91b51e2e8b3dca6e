package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/user/te_viewer_go/internal/config"
	"github.com/user/te_viewer_go/internal/parser"
)

// reportedError marks an error whose message was already printed to the user.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	if err == nil {
		return nil
	}
	return &reportedError{err: err}
}

// rootOptions carries global flags and the loaded configuration to subcommands.
type rootOptions struct {
	cfgFile string
	ext     string
	cfg     *config.Global
}

func (o *rootOptions) loadConfig(cmd *cobra.Command) error {
	c, err := config.Load(o.cfgFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("ext") && o.ext != "" {
		c.Extension = o.ext
	}
	o.cfg = c
	return nil
}

// loadCollection reads dir with the configured extension. Skipped files are listed on stderr.
func (o *rootOptions) loadCollection(cmd *cobra.Command, dir string) (*parser.Collection, error) {
	c, err := parser.LoadDir(dir, o.cfg.LoadOptions())
	if err != nil {
		return nil, err
	}
	for _, s := range c.Skipped {
		fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Skipped %s: %v\n", s.Name, s.Err)
	}
	return c, nil
}

// NewRootCmd builds the tedata command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "tedata",
		Short: "Preview and plot whitespace-delimited numeric dataset files",
		Long: `tedata loads every dataset file with a given extension (default .dat) from a directory,
prints previews and column statistics, and renders cleaned line charts and PDF reports.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.loadConfig(cmd)
		},
	}
	root.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default is ~/.tedata/config.yaml)")
	root.PersistentFlags().StringVar(&opts.ext, "ext", "", "dataset file extension (overrides config)")

	root.AddCommand(
		newListCmd(opts),
		newPreviewCmd(opts),
		newDescribeCmd(opts),
		newPlotCmd(opts),
		newReportCmd(opts),
		newConfigCmd(opts),
	)
	return root
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		var rep *reportedError
		if !errors.As(err, &rep) {
			fmt.Fprintln(os.Stderr, "✗ Error:", err)
		}
		os.Exit(1)
	}
}
