package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/user/te_viewer_go/internal/parser"
)

// FillForward returns a copy of values where every NaN takes the last preceding valid value.
// Leading NaNs stay NaN.
func FillForward(values []float64) []float64 {
	out := make([]float64, len(values))
	last := math.NaN()
	for i, v := range values {
		if math.IsNaN(v) {
			out[i] = last
			continue
		}
		out[i] = v
		last = v
	}
	return out
}

// FillBackward returns a copy of values where every NaN takes the next following valid value.
// Trailing NaNs stay NaN.
func FillBackward(values []float64) []float64 {
	out := make([]float64, len(values))
	next := math.NaN()
	for i := len(values) - 1; i >= 0; i-- {
		v := values[i]
		if math.IsNaN(v) {
			out[i] = next
			continue
		}
		out[i] = v
		next = v
	}
	return out
}

// FillMissing forward fills and then back fills the remaining leading gaps.
// A column without any valid value is returned unchanged (all NaN).
func FillMissing(values []float64) []float64 {
	return FillBackward(FillForward(values))
}

// ClipOutliers clamps values into [mean - sigma*std, mean + sigma*std] where std is the
// sample standard deviation. If std is NaN (fewer than two values, or NaNs present) or the
// column is constant, the values are returned unchanged and the bounds are marked as not applied.
func ClipOutliers(values []float64, sigma float64) ([]float64, ClipBounds) {
	if sigma <= 0 {
		sigma = DefaultClipSigma
	}
	out := make([]float64, len(values))
	copy(out, values)

	b := ClipBounds{Mean: math.NaN(), StdDev: math.NaN(), Lower: math.NaN(), Upper: math.NaN()}
	if len(values) == 0 {
		return out, b
	}
	b.Mean, b.StdDev = stat.MeanStdDev(values, nil)
	if math.IsNaN(b.Mean) || math.IsNaN(b.StdDev) || b.StdDev == 0 {
		return out, b
	}
	// A constant column can still carry rounding noise in its standard deviation.
	if floats.Min(values) == floats.Max(values) {
		return out, b
	}

	b.Lower = b.Mean - sigma*b.StdDev
	b.Upper = b.Mean + sigma*b.StdDev
	b.Applied = true
	for i, v := range out {
		switch {
		case v < b.Lower:
			out[i] = b.Lower
			b.Clipped++
		case v > b.Upper:
			out[i] = b.Upper
			b.Clipped++
		}
	}
	return out, b
}

// CleanTable returns a cleaned copy of t: missing values filled per column, then outliers clipped
// per column. t itself is never modified.
func CleanTable(t *parser.Table, opts CleanOptions) (*parser.Table, *CleanResult, error) {
	if t == nil {
		return nil, nil, fmt.Errorf("cannot clean a nil table")
	}
	names := t.Columns()
	columns := t.ColumnData()
	result := &CleanResult{Bounds: make([]ClipBounds, 0, len(names))}

	for i, values := range columns {
		filled := FillMissing(values)
		for j := range values {
			if math.IsNaN(values[j]) && !math.IsNaN(filled[j]) {
				result.Filled++
			}
		}
		clipped, bounds := ClipOutliers(filled, opts.Sigma)
		bounds.Column = names[i]
		columns[i] = clipped
		result.Bounds = append(result.Bounds, bounds)
	}

	cleaned, err := parser.NewTable(t.Name, names, columns)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to rebuild cleaned table: %w", err)
	}
	return cleaned, result, nil
}
