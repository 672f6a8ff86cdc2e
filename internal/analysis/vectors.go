package analysis

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/user/dd_analyzer_go/internal/parser"
)

// DefaultTerm selects the first term of each variable, which holds the
// first-order coefficient in the propagator's dumps.
const DefaultTerm parser.TermIndex = "1"

// VectorSet holds one coefficient sequence per variable index 0..d, collected
// across the deltas of one patch in delta order.
type VectorSet struct {
	Patch      parser.PatchID
	Components [][]float64
	Deltas     []parser.DeltaID // Deltas visited, in order
	Warnings   []string         // Non-fatal findings, e.g. deltas missing a variable
}

// Dimensionality returns d for a set of d+1 components.
func (v *VectorSet) Dimensionality() int {
	return len(v.Components) - 1
}

// Ragged reports whether the components differ in length, which happens
// when some delta omits a requested variable.
func (v *VectorSet) Ragged() bool {
	if len(v.Components) == 0 {
		return false
	}
	for _, c := range v.Components[1:] {
		if len(c) != len(v.Components[0]) {
			return true
		}
	}
	return false
}

// Len returns the length of the shortest component.
func (v *VectorSet) Len() int {
	if len(v.Components) == 0 {
		return 0
	}
	n := len(v.Components[0])
	for _, c := range v.Components[1:] {
		n = min(n, len(c))
	}
	return n
}

// Aligned returns the components truncated to the shortest one, so they can
// be paired positionally.
func (v *VectorSet) Aligned() [][]float64 {
	n := v.Len()
	out := make([][]float64, len(v.Components))
	for i, c := range v.Components {
		out[i] = c[:n]
	}
	return out
}

// MissingTermError is returned when a requested variable has no record
// under the selected term.
type MissingTermError struct {
	Patch    parser.PatchID
	Delta    parser.DeltaID
	Variable parser.VariableID
	Term     parser.TermIndex
}

func (e *MissingTermError) Error() string {
	return fmt.Sprintf("delta %q variable %q has no term %q", e.Delta, e.Variable, e.Term)
}

// ExtractVector collects the coefficient stored under term for variables
// "0".."dimensionality" of every delta. Variables outside that range are
// ignored. A delta lacking a requested variable adds nothing to that
// component, which leaves the set ragged; each omission is recorded in
// Warnings.
func ExtractVector(deltas *parser.Deltas, dimensionality int, term parser.TermIndex) (*VectorSet, error) {
	if deltas == nil {
		return nil, fmt.Errorf("deltas is nil, cannot extract vector")
	}
	if dimensionality < 0 {
		return nil, fmt.Errorf("dimensionality must be non-negative, got %d", dimensionality)
	}

	set := &VectorSet{Components: make([][]float64, dimensionality+1)}
	wanted := make([]parser.VariableID, dimensionality+1)
	for i := range wanted {
		wanted[i] = parser.VariableID(strconv.Itoa(i))
	}

	for _, deltaID := range deltas.Keys() {
		vector, _ := deltas.Get(deltaID)
		set.Deltas = append(set.Deltas, deltaID)

		for i, varID := range wanted {
			series, ok := vector.Get(varID)
			if !ok {
				set.Warnings = append(set.Warnings, fmt.Sprintf("Warning: delta %q has no variable %q, component %d skips it.", deltaID, varID, i))
				continue
			}
			c, ok := series.Get(term)
			if !ok {
				return nil, &MissingTermError{Delta: deltaID, Variable: varID, Term: term}
			}
			set.Components[i] = append(set.Components[i], c.Coefficient)
		}
	}

	if set.Ragged() {
		set.Warnings = append(set.Warnings, fmt.Sprintf("Warning: components have unequal lengths, pairing will use the first %d samples.", set.Len()))
	}
	return set, nil
}

// ExtractPatches runs ExtractVector once per patch of dump, in patch order.
func ExtractPatches(dump *parser.Dump, dimensionality int, term parser.TermIndex) ([]*VectorSet, error) {
	if dump == nil {
		return nil, fmt.Errorf("dump is nil, cannot extract vectors")
	}

	sets := make([]*VectorSet, 0, dump.Patches.Len())
	for _, patchID := range dump.Patches.Keys() {
		deltas, _ := dump.Patches.Get(patchID)
		set, err := ExtractVector(deltas, dimensionality, term)
		if err != nil {
			var missing *MissingTermError
			if errors.As(err, &missing) {
				missing.Patch = patchID
			}
			return nil, fmt.Errorf("patch %q: %w", patchID, err)
		}
		set.Patch = patchID
		sets = append(sets, set)
	}
	return sets, nil
}
