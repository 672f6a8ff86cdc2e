package parser_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/user/dd_analyzer_go/internal/parser"
)

const ddSample = `DELTA_ID, VARIABLE, INDEX, COEFFICIENT, ORDER, EXPONENTS
0, 0 ,1, 0.50000000, 1, [1 0 0]
0, 0 ,2, 0.25000000, 2, [2 0 0]
0, 1 ,1, -1.00000000, 1, [0 1 0]
1, 0 ,1, 0.75000000, 1, [1 0 0]

1, 1 ,1, 2.00000000, 1, [0 1 0]
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func coefficientAt(t *testing.T, deltas *parser.Deltas, d parser.DeltaID, v parser.VariableID, term parser.TermIndex) parser.Coefficient {
	t.Helper()
	vector, ok := deltas.Get(d)
	require.True(t, ok, "delta %q", d)
	series, ok := vector.Get(v)
	require.True(t, ok, "variable %q", v)
	c, ok := series.Get(term)
	require.True(t, ok, "term %q", term)
	return c
}

func TestParseDump_DD(t *testing.T) {
	path := writeFile(t, "deltas.dd", ddSample)

	dump, err := parser.ParseDump(path, parser.LayoutDD)
	require.NoError(t, err)
	require.Equal(t, path, dump.Path)
	require.Equal(t, 5, dump.NumRecords())
	require.Equal(t, 2, dump.NumDeltas())
	require.Equal(t, 3, dump.NumExponents)

	deltas := dump.Deltas()
	require.Equal(t, []parser.DeltaID{"0", "1"}, deltas.Keys())

	c := coefficientAt(t, deltas, "0", "0", "2")
	require.Equal(t, 0.25, c.Coefficient)
	require.Equal(t, 2, c.Order)
	require.Equal(t, []int{2, 0, 0}, c.Exponents)

	require.Equal(t, 2.0, coefficientAt(t, deltas, "1", "1", "1").Coefficient)
}

func TestParseDump_LayoutsAgree(t *testing.T) {
	flat := `unused, DELTA_ID, VARIABLE, INDEX, COEFFICIENT, ORDER, EXPONENTS
x, 7, 0, 1, 1.5, 1, [1 0]
x, 7, 1, 1, -2.5, 1, [0 1]
`
	walled := `PATCH_ID, POINT_ID, VARIABLE, INDEX, COEFFICIENT, ORDER, EXPONENTS
3, 7, 0, 1, 1.5, 1, [1 0]
3, 7, 1, 1, -2.5, 1, [0 1]
`
	dd := `DELTA_ID, VARIABLE, INDEX, COEFFICIENT, ORDER, EXPONENTS
7, 0, 1, 1.5, 1, [1 0]
7, 1, 1, -2.5, 1, [0 1]
`
	flatDump, err := parser.ReadDump(strings.NewReader(flat), "flat", parser.LayoutDDFlat)
	require.NoError(t, err)
	ddDump, err := parser.ReadDump(strings.NewReader(dd), "dd", parser.LayoutDD)
	require.NoError(t, err)
	walledDump, err := parser.ReadDump(strings.NewReader(walled), "walled", parser.LayoutDDWalled)
	require.NoError(t, err)

	require.Equal(t, []parser.PatchID{"3"}, walledDump.Patches.Keys())
	walledDeltas, _ := walledDump.Patches.Get("3")

	for _, deltas := range []*parser.Deltas{flatDump.Deltas(), ddDump.Deltas(), walledDeltas} {
		require.Equal(t, 1.5, coefficientAt(t, deltas, "7", "0", "1").Coefficient)
		require.Equal(t, -2.5, coefficientAt(t, deltas, "7", "1", "1").Coefficient)
	}
}

func TestParseDump_AVD(t *testing.T) {
	avd := `VARIABLE, INDEX, COEFFICIENT, ORDER, EXPONENTS
0, 1, 0.10000000, 0, [0 0]
0, 2, 1.00000000, 1, [1 0]
1, 1, 0.20000000, 0, [0 0]
`
	dump, err := parser.ReadDump(strings.NewReader(avd), "x.avd", parser.LayoutAVD)
	require.NoError(t, err)
	require.Equal(t, 3, dump.NumRecords())

	vector := dump.Vector()
	require.Equal(t, []parser.VariableID{"0", "1"}, vector.Keys())
	series, _ := vector.Get("0")
	require.Equal(t, []parser.TermIndex{"1", "2"}, series.Keys())
}

func TestParseDump_DuplicatesOverwrite(t *testing.T) {
	content := `DELTA_ID, VARIABLE, INDEX, COEFFICIENT, ORDER, EXPONENTS
0, 0, 1, 1.0, 1, [1]
0, 0, 2, 2.0, 2, [2]
0, 0, 1, 9.0, 1, [1]
`
	dump, err := parser.ReadDump(strings.NewReader(content), "dup", parser.LayoutDD)
	require.NoError(t, err)
	// Three data rows but only two distinct slots.
	require.Equal(t, 2, dump.NumRecords())

	deltas := dump.Deltas()
	require.Equal(t, 9.0, coefficientAt(t, deltas, "0", "0", "1").Coefficient)

	vector, _ := deltas.Get("0")
	series, _ := vector.Get("0")
	require.Equal(t, []parser.TermIndex{"1", "2"}, series.Keys())
}

func TestParseDump_HeaderOnly(t *testing.T) {
	dump, err := parser.ReadDump(strings.NewReader("anything at all\n"), "empty", parser.LayoutDD)
	require.NoError(t, err)
	require.Zero(t, dump.NumRecords())
}

func TestParseDump_MissingFile(t *testing.T) {
	dump, err := parser.ParseDump(filepath.Join(t.TempDir(), "nope.dd"), parser.LayoutDD)
	require.Nil(t, dump)
	require.ErrorIs(t, err, parser.ErrFileNotFound)
}

func TestParseDump_Malformed(t *testing.T) {
	cases := []struct {
		name  string
		row   string
		field string
		value string
	}{
		{"coefficient", "0, 0, 1, abc, 1, [1 0]", "coefficient", "abc"},
		{"order", "0, 0, 1, 1.0, one, [1 0]", "order", "one"},
		{"exponent", "0, 0, 1, 1.0, 1, [1 x]", "exponents", "[1 x]"},
		{"short row", "0, 0, 1", "row", "0,0,1"},
		{"empty fields", ",,,,,", "coefficient", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			content := "header\n" + tc.row + "\n"
			_, err := parser.ReadDump(strings.NewReader(content), "bad.dd", parser.LayoutDD)
			require.Error(t, err)

			var rowErr *parser.MalformedRowError
			require.True(t, errors.As(err, &rowErr))
			require.Equal(t, "bad.dd", rowErr.Path)
			require.Equal(t, 2, rowErr.Line)
			require.Equal(t, tc.field, rowErr.Field)
			require.Equal(t, tc.value, rowErr.Value)
			require.Contains(t, err.Error(), "bad.dd")
		})
	}
}

func TestParseDump_BlankLinesSkipped(t *testing.T) {
	content := "header\n0, 0, 1, 1.0, 1, [1]\n\n   \n1, 0, 1, 2.0, 1, [1]\n"
	dump, err := parser.ReadDump(strings.NewReader(content), "blank.dd", parser.LayoutDD)
	require.NoError(t, err)
	require.Equal(t, 2, dump.NumRecords())
}

func TestParseDump_ExponentWidthMismatch(t *testing.T) {
	content := `header
0, 0, 1, 1.0, 1, [1 0]
0, 1, 1, 1.0, 1, [1 0 0]
`
	_, err := parser.ReadDump(strings.NewReader(content), "width", parser.LayoutDD)
	var rowErr *parser.MalformedRowError
	require.ErrorAs(t, err, &rowErr)
	require.Equal(t, "exponents", rowErr.Field)
	require.Equal(t, 3, rowErr.Line)
}

func TestParseExponents(t *testing.T) {
	exps, err := parser.ParseExponents("[1 0 2]")
	require.NoError(t, err)
	require.Equal(t, []int{1, 0, 2}, exps)

	exps, err = parser.ParseExponents("[0]")
	require.NoError(t, err)
	require.Equal(t, []int{0}, exps)

	exps, err = parser.ParseExponents("  [3   4] ")
	require.NoError(t, err)
	require.Equal(t, []int{3, 4}, exps)

	_, err = parser.ParseExponents("[]")
	require.Error(t, err)
}

func TestParseLayout(t *testing.T) {
	for _, l := range []parser.Layout{parser.LayoutAVD, parser.LayoutDD, parser.LayoutDDFlat, parser.LayoutDDWalled} {
		got, err := parser.ParseLayout(l.String())
		require.NoError(t, err)
		require.Equal(t, l, got)
	}
	require.True(t, parser.LayoutDDWalled.Walled())
	require.False(t, parser.LayoutDDFlat.Walled())

	_, err := parser.ParseLayout("csv")
	require.ErrorIs(t, err, parser.ErrUnknownLayout)
}

func TestOrdered_SetKeepsPosition(t *testing.T) {
	o := parser.NewOrdered[string, int]()
	o.Set("b", 1)
	o.Set("a", 2)
	o.Set("b", 3)

	require.Equal(t, []string{"b", "a"}, o.Keys())
	v, ok := o.Get("b")
	require.True(t, ok)
	require.Equal(t, 3, v)
	require.Equal(t, 2, o.Len())
}
