package parser

import (
	"fmt"
	"strings"
)

// Layout names one of the fixed column arrangements a dump can have.
type Layout int

const (
	// LayoutAVD is an algebraic vector dump: one vector, no deltas.
	LayoutAVD Layout = iota
	// LayoutDD is a delta dump as the propagator writes it, led by DELTA_ID.
	LayoutDD
	// LayoutDDFlat is a delta dump carrying one extra leading column.
	LayoutDDFlat
	// LayoutDDWalled is a delta dump grouped by patch.
	LayoutDDWalled
)

// absent marks a column a layout does not carry.
const absent = -1

// Schema gives the position of each field for a layout.
type Schema struct {
	Patch       int
	Delta       int
	Variable    int
	Term        int
	Coefficient int
	Order       int
	Exponents   int
}

// Width is the number of columns a row must carry.
func (s Schema) Width() int {
	return s.Exponents + 1
}

var schemas = map[Layout]Schema{
	LayoutAVD:      {Patch: absent, Delta: absent, Variable: 0, Term: 1, Coefficient: 2, Order: 3, Exponents: 4},
	LayoutDD:       {Patch: absent, Delta: 0, Variable: 1, Term: 2, Coefficient: 3, Order: 4, Exponents: 5},
	LayoutDDFlat:   {Patch: absent, Delta: 1, Variable: 2, Term: 3, Coefficient: 4, Order: 5, Exponents: 6},
	LayoutDDWalled: {Patch: 0, Delta: 1, Variable: 2, Term: 3, Coefficient: 4, Order: 5, Exponents: 6},
}

var layoutNames = map[Layout]string{
	LayoutAVD:      "avd",
	LayoutDD:       "dd",
	LayoutDDFlat:   "dd-flat",
	LayoutDDWalled: "dd-walled",
}

// Schema returns the column positions of the layout.
func (l Layout) Schema() Schema {
	return schemas[l]
}

// Walled reports whether rows carry a patch id.
func (l Layout) Walled() bool {
	return schemas[l].Patch != absent
}

func (l Layout) String() string {
	if name, ok := layoutNames[l]; ok {
		return name
	}
	return fmt.Sprintf("Layout(%d)", int(l))
}

// ParseLayout maps a layout name ("avd", "dd", "dd-flat", "dd-walled") to
// its Layout.
func ParseLayout(name string) (Layout, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for l, n := range layoutNames {
		if n == name {
			return l, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLayout, name)
}
