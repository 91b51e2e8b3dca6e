package parser

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// DefaultExtension is the file suffix LoadDir picks up when none is configured.
const DefaultExtension = ".dat"

// ColumnName returns the positional name of the i-th (0-based) column: var1, var2, ...
func ColumnName(i int) string {
	return fmt.Sprintf("var%d", i+1)
}

// Table is a rectangular numeric dataset with positionally named columns.
// Missing values are stored as NaN.
type Table struct {
	Name string
	df   dataframe.DataFrame
}

// NewTable builds a table from column-major data. All columns must have the same length.
func NewTable(name string, names []string, columns [][]float64) (*Table, error) {
	if len(names) != len(columns) {
		return nil, fmt.Errorf("table %s: %d column names for %d columns", name, len(names), len(columns))
	}
	if len(columns) == 0 {
		return &Table{Name: name}, nil
	}
	cols := make([]series.Series, len(columns))
	for i, values := range columns {
		if len(values) != len(columns[0]) {
			return nil, fmt.Errorf("table %s: column %s has %d rows, expected %d", name, names[i], len(values), len(columns[0]))
		}
		cols[i] = series.New(values, series.Float, names[i])
	}
	df := dataframe.New(cols...)
	if df.Err != nil {
		return nil, fmt.Errorf("table %s: %w", name, df.Err)
	}
	return &Table{Name: name, df: df}, nil
}

// Nrow returns the number of rows.
func (t *Table) Nrow() int { return t.df.Nrow() }

// Ncol returns the number of columns.
func (t *Table) Ncol() int { return t.df.Ncol() }

// Shape returns (rows, columns).
func (t *Table) Shape() (int, int) { return t.df.Dims() }

// Empty reports whether the table has no rows or no columns.
func (t *Table) Empty() bool {
	r, c := t.Shape()
	return r == 0 || c == 0
}

// Columns returns the column names in positional order.
func (t *Table) Columns() []string {
	if t.df.Ncol() == 0 {
		return []string{}
	}
	return t.df.Names()
}

// HasColumn reports whether name is one of the table's columns.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns() {
		if c == name {
			return true
		}
	}
	return false
}

// Column returns a copy of the named column's values.
func (t *Table) Column(name string) ([]float64, bool) {
	if !t.HasColumn(name) {
		return nil, false
	}
	s := t.df.Col(name)
	if s.Err != nil {
		return nil, false
	}
	return s.Float(), true
}

// ColumnData returns a copy of every column, in positional order.
func (t *Table) ColumnData() [][]float64 {
	names := t.Columns()
	out := make([][]float64, len(names))
	for i, n := range names {
		out[i], _ = t.Column(n)
	}
	return out
}

// Row returns a copy of the i-th row.
func (t *Table) Row(i int) []float64 {
	names := t.Columns()
	row := make([]float64, len(names))
	for j := range names {
		row[j] = t.df.Elem(i, j).Float()
	}
	return row
}

// Head returns a table holding at most the first k rows.
func (t *Table) Head(k int) *Table {
	if k >= t.Nrow() || t.Ncol() == 0 {
		return t
	}
	if k <= 0 {
		names := t.Columns()
		empty, _ := NewTable(t.Name, names, make([][]float64, len(names)))
		return empty
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	return &Table{Name: t.Name, df: t.df.Subset(idx)}
}

// MaxDisplayColumns is the widest table String prints in full. Wider tables show the first and
// last MaxDisplayColumns/2 columns around a "..." column.
const MaxDisplayColumns = 20

// displayColumns returns the column indexes String prints; -1 marks the elision column.
func (t *Table) displayColumns() []int {
	n := t.Ncol()
	if n <= MaxDisplayColumns {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		return idx
	}
	half := MaxDisplayColumns / 2
	idx := make([]int, 0, MaxDisplayColumns+1)
	for i := 0; i < half; i++ {
		idx = append(idx, i)
	}
	idx = append(idx, -1)
	for i := n - half; i < n; i++ {
		idx = append(idx, i)
	}
	return idx
}

// String renders every row with a leading row index, values as %f.
func (t *Table) String() string {
	nrow, ncol := t.Shape()
	if ncol == 0 {
		return fmt.Sprintf("Empty table (%d rows, %d columns)", nrow, ncol)
	}
	names := t.Columns()
	cols := t.displayColumns()

	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprint(tw, "\t")
	for _, j := range cols {
		if j < 0 {
			fmt.Fprint(tw, "...\t")
			continue
		}
		fmt.Fprintf(tw, "%s\t", names[j])
	}
	fmt.Fprintln(tw)
	for i := 0; i < nrow; i++ {
		fmt.Fprintf(tw, "%d\t", i)
		for _, j := range cols {
			if j < 0 {
				fmt.Fprint(tw, "...\t")
				continue
			}
			fmt.Fprintf(tw, "%f\t", t.df.Elem(i, j).Float())
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()
	return strings.TrimRight(b.String(), "\n")
}

// SkippedFile records a file the loader could not turn into a table.
type SkippedFile struct {
	Name string
	Err  error
}

// Collection maps file names to tables, remembering insertion order.
type Collection struct {
	tables  map[string]*Table
	keys    []string
	Skipped []SkippedFile // files that matched the extension but failed to load
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{
		tables:  make(map[string]*Table),
		keys:    make([]string, 0),
		Skipped: make([]SkippedFile, 0),
	}
}

// Add stores t under name. Re-adding an existing name replaces the table but keeps its position.
func (c *Collection) Add(name string, t *Table) {
	if _, ok := c.tables[name]; !ok {
		c.keys = append(c.keys, name)
	}
	c.tables[name] = t
}

// Get looks up a table by file name. The returned table may be nil if a nil entry was added.
func (c *Collection) Get(name string) (*Table, bool) {
	if c == nil {
		return nil, false
	}
	t, ok := c.tables[name]
	return t, ok
}

// Keys returns the file names in load order.
func (c *Collection) Keys() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// Len returns the number of tables.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.keys)
}
