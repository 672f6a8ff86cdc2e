package analysis_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/user/dd_analyzer_go/internal/analysis"
)

func TestOriginalFunction_Recognized(t *testing.T) {
	cases := []struct {
		expression string
		want       func(float64) float64
	}{
		{"y = sin(x)", math.Sin},
		{"y = cos(x)", math.Cos},
		{"y = exp(x)", math.Exp},
		{"y = sin(x)^2", func(x float64) float64 { return math.Pow(math.Sin(x), 2) }},
		{"cos(x)^3", func(x float64) float64 { return math.Pow(math.Cos(x), 3) }},
	}
	for _, tc := range cases {
		t.Run(tc.expression, func(t *testing.T) {
			fn, err := analysis.OriginalFunction(tc.expression)
			require.NoError(t, err)
			for _, x := range []float64{-2, 0, 0.3, 1.7} {
				require.InDelta(t, tc.want(x), fn(x), 1e-12)
			}
		})
	}
}

func TestOriginalFunction_SymbolicFallback(t *testing.T) {
	fn, err := analysis.OriginalFunction("y = 1 + x + x^2 / 2")
	require.NoError(t, err)
	require.InDelta(t, 1+2+2.0, fn(2), 1e-12)

	fn, err = analysis.OriginalFunction("y = sin(x) * cos(x)")
	require.NoError(t, err)
	require.InDelta(t, math.Sin(1)*math.Cos(1), fn(1), 1e-12)
}

func TestOriginalFunction_Unrecognized(t *testing.T) {
	for _, expression := range []string{"y = ", "y = foo(x)", "y = x +", `y = "text"`} {
		_, err := analysis.OriginalFunction(expression)
		var unrecognized *analysis.UnrecognizedFunctionError
		require.ErrorAs(t, err, &unrecognized, expression)
		require.Equal(t, expression, unrecognized.Expression)
	}
}

func TestSampleFunction(t *testing.T) {
	ys := analysis.SampleFunction(func(x float64) float64 { return 2 * x }, []float64{1, 2, 3})
	require.Equal(t, []float64{2, 4, 6}, ys)
}

func TestOriginalFunction_OutsideDomainIsNaN(t *testing.T) {
	fn, err := analysis.OriginalFunction(`y = x < 1 ? 2.0 * x : "undefined"`)
	require.NoError(t, err)
	require.InDelta(t, 1.0, fn(0.5), 1e-12)
	require.True(t, math.IsNaN(fn(2)))

	ys := analysis.SampleFunction(fn, []float64{0, 2})
	require.InDelta(t, 0.0, ys[0], 1e-12)
	require.True(t, math.IsNaN(ys[1]))
}
