package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/user/te_viewer_go/internal/parser"
)

func validValues(data []float64) []float64 {
	out := make([]float64, 0, len(data))
	for _, v := range data {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// describeColumn computes statistics over the non-missing values of one column.
// The standard deviation is the sample one, so it is NaN for fewer than two values.
func describeColumn(name string, data []float64) ColumnStats {
	valid := validValues(data)
	cs := ColumnStats{
		Name:    name,
		Count:   len(valid),
		Missing: len(data) - len(valid),
		Mean:    math.NaN(),
		StdDev:  math.NaN(),
		Min:     math.NaN(),
		Max:     math.NaN(),
		Range:   math.NaN(),
	}
	if len(valid) == 0 {
		return cs
	}
	cs.Mean, cs.StdDev = stat.MeanStdDev(valid, nil)
	cs.Min = floats.Min(valid)
	cs.Max = floats.Max(valid)
	cs.Range = cs.Max - cs.Min
	return cs
}

// Describe computes per-column statistics for a table.
func Describe(t *parser.Table) (*TableSummary, error) {
	if t == nil {
		return nil, fmt.Errorf("table is nil, cannot analyze")
	}
	summary := NewTableSummary(t.Name, t.Nrow())
	if t.Empty() {
		summary.AnalysisErrors = append(summary.AnalysisErrors, fmt.Sprintf("Table '%s' has no data.", t.Name))
		return summary, nil
	}

	for _, name := range t.Columns() {
		data, ok := t.Column(name)
		if !ok {
			summary.AnalysisErrors = append(summary.AnalysisErrors, fmt.Sprintf("Column '%s' could not be read.", name))
			continue
		}
		cs := describeColumn(name, data)
		if cs.Count == 0 {
			summary.AnalysisErrors = append(summary.AnalysisErrors, fmt.Sprintf("Column '%s' has no valid values.", name))
		}
		summary.Columns = append(summary.Columns, cs)
	}
	return summary, nil
}
