package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/te_viewer_go/internal/parser"
)

func TestDescribe(t *testing.T) {
	table, err := parser.ParseDat("s.dat", []byte("1 5 NaN\n2 5 NaN\n3 5 7\n"))
	require.NoError(t, err)

	s, err := Describe(table)
	require.NoError(t, err)
	assert.Equal(t, "s.dat", s.Name)
	assert.Equal(t, 3, s.Rows)
	require.Len(t, s.Columns, 3)

	c1 := s.Columns[0]
	assert.Equal(t, "var1", c1.Name)
	assert.Equal(t, 3, c1.Count)
	assert.Zero(t, c1.Missing)
	assert.InDelta(t, 2.0, c1.Mean, 1e-12)
	assert.InDelta(t, 1.0, c1.StdDev, 1e-12)
	assert.Equal(t, 1.0, c1.Min)
	assert.Equal(t, 3.0, c1.Max)
	assert.Equal(t, 2.0, c1.Range)

	c2 := s.Columns[1]
	assert.Equal(t, 0.0, c2.StdDev)
	assert.Equal(t, 0.0, c2.Range)

	c3 := s.Columns[2]
	assert.Equal(t, 1, c3.Count)
	assert.Equal(t, 2, c3.Missing)
	assert.Equal(t, 7.0, c3.Mean)
	assert.True(t, math.IsNaN(c3.StdDev))
	assert.Empty(t, s.AnalysisErrors)
}

func TestDescribeEmptyAndMissingColumns(t *testing.T) {
	empty, err := parser.ParseDat("e.dat", nil)
	require.NoError(t, err)
	s, err := Describe(empty)
	require.NoError(t, err)
	assert.Empty(t, s.Columns)
	assert.Len(t, s.AnalysisErrors, 1)

	gaps, err := parser.ParseDat("g.dat", []byte("1 NaN\n2 NaN\n"))
	require.NoError(t, err)
	s, err = Describe(gaps)
	require.NoError(t, err)
	require.Len(t, s.Columns, 2)
	assert.Zero(t, s.Columns[1].Count)
	assert.True(t, math.IsNaN(s.Columns[1].Mean))
	assert.Len(t, s.AnalysisErrors, 1)

	_, err = Describe(nil)
	require.Error(t, err)
}
