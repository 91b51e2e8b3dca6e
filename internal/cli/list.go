package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list <dir>",
		Short: "Load a directory and list the dataset files found",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.loadCollection(cmd, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, key := range c.Keys() {
				t, _ := c.Get(key)
				rows, cols := t.Shape()
				fmt.Fprintf(out, "%s\t(%d, %d)\n", key, rows, cols)
			}
			fmt.Fprintf(out, "%d file(s) loaded, %d skipped\n", c.Len(), len(c.Skipped))
			return nil
		},
	}
}
