package analysis

// DefaultClipSigma is the number of standard deviations kept on each side of the mean.
const DefaultClipSigma = 3.0

// ClipBounds records the clamping range used for one column.
type ClipBounds struct {
	Column  string
	Mean    float64
	StdDev  float64 // sample standard deviation of the filled column
	Lower   float64
	Upper   float64
	Applied bool // false when the standard deviation is undefined or zero
	Clipped int  // number of values moved onto a bound
}

// CleanOptions controls CleanTable.
type CleanOptions struct {
	// Sigma is the clipping half-width in standard deviations; <= 0 means DefaultClipSigma.
	Sigma float64
}

// CleanResult is a cleaned private copy of a table together with what was done to it.
type CleanResult struct {
	Filled int          // number of missing values replaced
	Bounds []ClipBounds // one entry per column, in column order
}

// ColumnStats holds descriptive statistics for a single column.
type ColumnStats struct {
	Name    string
	Count   int // non-missing values
	Missing int
	Mean    float64
	StdDev  float64
	Min     float64
	Max     float64
	Range   float64
}

// TableSummary holds per-column statistics for one table.
type TableSummary struct {
	Name           string
	Rows           int
	Columns        []ColumnStats
	AnalysisErrors []string
}

func NewTableSummary(name string, rows int) *TableSummary {
	return &TableSummary{
		Name:           name,
		Rows:           rows,
		Columns:        make([]ColumnStats, 0),
		AnalysisErrors: make([]string, 0),
	}
}
