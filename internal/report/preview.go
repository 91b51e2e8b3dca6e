package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"text/tabwriter"

	"github.com/user/te_viewer_go/internal/analysis"
	"github.com/user/te_viewer_go/internal/parser"
)

// DefaultPreviewRows is the number of rows Preview prints when none is given.
const DefaultPreviewRows = 5

// Previewer prints human-readable summaries of loaded tables.
type Previewer struct {
	Out io.Writer
}

func NewPreviewer(out io.Writer) *Previewer {
	return &Previewer{Out: out}
}

func (p *Previewer) out() io.Writer {
	if p.Out == nil {
		return os.Stdout
	}
	return p.Out
}

// Preview prints the shape, column names and first rows of the table stored under key.
// An unknown key is reported on Out and returned as ErrKeyNotFound; nothing else is printed.
func (p *Previewer) Preview(c *parser.Collection, key string, rows int) error {
	out := p.out()
	table, ok := c.Get(key)
	if !ok || table == nil {
		fmt.Fprintf(out, "Error: file %s not found\n", key)
		return fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	if rows <= 0 {
		rows = DefaultPreviewRows
	}

	nrow, ncol := table.Shape()
	fmt.Fprintf(out, "\nFile: %s\n", key)
	fmt.Fprintf(out, "Shape: (%d, %d)\n", nrow, ncol)
	fmt.Fprintf(out, "Columns: %v\n", table.Columns())
	fmt.Fprintln(out, "\nPreview:")
	fmt.Fprintln(out, table.Head(rows).String())
	return nil
}

func formatStat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.4f", v)
}

// WriteSummary prints per-column statistics as an aligned table.
func WriteSummary(out io.Writer, s *analysis.TableSummary) error {
	if s == nil {
		return fmt.Errorf("no summary to print")
	}
	fmt.Fprintf(out, "\nFile: %s (%d rows)\n", s.Name, s.Rows)
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "column\tcount\tmissing\tmean\tstd\tmin\tmax\t")
	for _, c := range s.Columns {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\t%s\t%s\t\n",
			c.Name, c.Count, c.Missing, formatStat(c.Mean), formatStat(c.StdDev), formatStat(c.Min), formatStat(c.Max))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	for _, e := range s.AnalysisErrors {
		fmt.Fprintf(out, "- %s\n", e)
	}
	return nil
}
