package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/te_viewer_go/internal/parser"
)

var nan = math.NaN()

func TestFillMissing(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want []float64
	}{
		{"no gaps", []float64{1, 2, 3}, []float64{1, 2, 3}},
		{"inner gap takes previous", []float64{1, nan, nan, 4}, []float64{1, 1, 1, 4}},
		{"leading gap takes next", []float64{nan, nan, 3, 4}, []float64{3, 3, 3, 4}},
		{"trailing gap takes previous", []float64{1, 2, nan}, []float64{1, 2, 2}},
		{"mixed", []float64{nan, 2, nan, 5, nan}, []float64{2, 2, 2, 5, 5}},
		{"empty", []float64{}, []float64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FillMissing(tt.in))
		})
	}
}

func TestFillMissingAllNaN(t *testing.T) {
	out := FillMissing([]float64{nan, nan})
	require.Len(t, out, 2)
	assert.True(t, math.IsNaN(out[0]))
	assert.True(t, math.IsNaN(out[1]))
}

func TestFillDoesNotMutateInput(t *testing.T) {
	in := []float64{nan, 1, nan}
	_ = FillForward(in)
	_ = FillBackward(in)
	assert.True(t, math.IsNaN(in[0]))
	assert.True(t, math.IsNaN(in[2]))
}

func TestClipOutliersClampsExtremes(t *testing.T) {
	values := make([]float64, 20)
	values[19] = 100

	out, b := ClipOutliers(values, DefaultClipSigma)
	require.True(t, b.Applied)
	assert.Equal(t, 1, b.Clipped)
	assert.InDelta(t, 5.0, b.Mean, 1e-12)
	assert.InDelta(t, b.Upper, out[19], 1e-12)
	assert.Less(t, out[19], 100.0)
	assert.Equal(t, 0.0, out[0])
	assert.Equal(t, 100.0, values[19])
}

func TestClipOutliersIdentityWithinBounds(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	out, b := ClipOutliers(values, DefaultClipSigma)
	assert.True(t, b.Applied)
	assert.Zero(t, b.Clipped)
	assert.Equal(t, values, out)
}

func TestClipOutliersDegenerate(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
	}{
		{"single value", []float64{0.1}},
		{"zero variance", []float64{0.1, 0.1, 0.1}},
		{"all missing", []float64{nan, nan}},
		{"empty", []float64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, b := ClipOutliers(tt.values, 0)
			assert.False(t, b.Applied)
			assert.Zero(t, b.Clipped)
			require.Len(t, out, len(tt.values))
			for i := range out {
				if math.IsNaN(tt.values[i]) {
					assert.True(t, math.IsNaN(out[i]))
				} else {
					assert.Equal(t, tt.values[i], out[i])
				}
			}
		})
	}
}

func TestCleanTableLeavesSourceUntouched(t *testing.T) {
	src, err := parser.ParseDat("c.dat", []byte("1 NaN\nNaN 2\n3 4\n"))
	require.NoError(t, err)

	cleaned, res, err := CleanTable(src, CleanOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Filled)
	require.Len(t, res.Bounds, 2)
	assert.Equal(t, "var1", res.Bounds[0].Column)

	v1, _ := cleaned.Column("var1")
	v2, _ := cleaned.Column("var2")
	assert.Equal(t, []float64{1, 1, 3}, v1)
	assert.Equal(t, []float64{2, 2, 4}, v2)

	orig, _ := src.Column("var1")
	assert.True(t, math.IsNaN(orig[1]))
}

func TestCleanTableIdempotentOnCleanData(t *testing.T) {
	src, err := parser.ParseDat("d11.dat", []byte("1.0 2.0 3.0\n4.0 5.0 6.0\n"))
	require.NoError(t, err)

	cleaned, res, err := CleanTable(src, CleanOptions{})
	require.NoError(t, err)
	assert.Zero(t, res.Filled)
	assert.Equal(t, src.ColumnData(), cleaned.ColumnData())

	again, _, err := CleanTable(cleaned, CleanOptions{})
	require.NoError(t, err)
	assert.Equal(t, cleaned.ColumnData(), again.ColumnData())
}

func TestCleanTableNil(t *testing.T) {
	_, _, err := CleanTable(nil, CleanOptions{})
	require.Error(t, err)
}
