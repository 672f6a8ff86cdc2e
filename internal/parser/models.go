package parser

// PatchID identifies a spatial patch (wall) of a walled dump.
type PatchID string

// DeltaID identifies one sampled perturbation of an ensemble.
type DeltaID string

// VariableID identifies one DA variable inside a delta, e.g. "0", "1".
type VariableID string

// TermIndex identifies one monomial of a DA variable. It is not related to
// the monomial's order.
type TermIndex string

// Coefficient is one term of a multivariate truncated power series.
type Coefficient struct {
	Coefficient float64
	Order       int
	Exponents   []int
}

// Ordered is a map that remembers the order in which keys were first seen.
// Setting an existing key replaces its value but keeps its position.
type Ordered[K comparable, V any] struct {
	keys   []K
	values map[K]V
}

// NewOrdered returns an empty ordered map.
func NewOrdered[K comparable, V any]() *Ordered[K, V] {
	return &Ordered[K, V]{values: make(map[K]V)}
}

// Get returns the value stored under key.
func (o *Ordered[K, V]) Get(key K) (V, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Set stores value under key.
func (o *Ordered[K, V]) Set(key K, value V) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// GetOrCreate returns the value under key, inserting the result of create
// on first sight.
func (o *Ordered[K, V]) GetOrCreate(key K, create func() V) V {
	if v, ok := o.values[key]; ok {
		return v
	}
	v := create()
	o.Set(key, v)
	return v
}

// Keys returns the keys in insertion order. The slice must not be modified.
func (o *Ordered[K, V]) Keys() []K { return o.keys }

// Len returns the number of keys.
func (o *Ordered[K, V]) Len() int { return len(o.keys) }

// Series holds the terms of one DA variable.
type Series = Ordered[TermIndex, Coefficient]

// Vector holds the DA variables of one delta.
type Vector = Ordered[VariableID, *Series]

// Deltas holds every delta of one patch.
type Deltas = Ordered[DeltaID, *Vector]

func newSeries() *Series { return NewOrdered[TermIndex, Coefficient]() }
func newVector() *Vector { return NewOrdered[VariableID, *Series]() }
func newDeltas() *Deltas { return NewOrdered[DeltaID, *Vector]() }

// Dump is a fully materialized DD/AVD file.
// Non-walled layouts keep their deltas under the unnamed patch "" and the avd
// layout keeps its single vector under the unnamed delta "".
type Dump struct {
	Path    string
	Layout  Layout
	Patches *Ordered[PatchID, *Deltas]
	// NumExponents is the exponent width shared by every record, 0 when empty.
	NumExponents int
}

// NewDump returns an empty dump for the given source and layout.
func NewDump(path string, layout Layout) *Dump {
	return &Dump{
		Path:    path,
		Layout:  layout,
		Patches: NewOrdered[PatchID, *Deltas](),
	}
}

// Deltas returns the deltas of the unnamed patch, which is where every
// non-walled layout stores them.
func (d *Dump) Deltas() *Deltas {
	deltas, ok := d.Patches.Get("")
	if !ok {
		return newDeltas()
	}
	return deltas
}

// Vector returns the single vector of an avd dump.
func (d *Dump) Vector() *Vector {
	v, ok := d.Deltas().Get("")
	if !ok {
		return newVector()
	}
	return v
}

// NumRecords counts leaf records, one per distinct (keys..., term) slot.
func (d *Dump) NumRecords() int {
	n := 0
	for _, p := range d.Patches.Keys() {
		deltas, _ := d.Patches.Get(p)
		n += countRecords(deltas)
	}
	return n
}

// NumDeltas counts deltas across all patches.
func (d *Dump) NumDeltas() int {
	n := 0
	for _, p := range d.Patches.Keys() {
		deltas, _ := d.Patches.Get(p)
		n += deltas.Len()
	}
	return n
}

func countRecords(deltas *Deltas) int {
	n := 0
	for _, dk := range deltas.Keys() {
		vector, _ := deltas.Get(dk)
		for _, vk := range vector.Keys() {
			series, _ := vector.Get(vk)
			n += series.Len()
		}
	}
	return n
}

// insert stores c in the slot named by the keys, creating levels on demand.
func (d *Dump) insert(patch PatchID, delta DeltaID, variable VariableID, term TermIndex, c Coefficient) {
	deltas := d.Patches.GetOrCreate(patch, newDeltas)
	vector := deltas.GetOrCreate(delta, newVector)
	series := vector.GetOrCreate(variable, newSeries)
	series.Set(term, c)
}

// ListingTerm is one row of a DACE text listing.
type ListingTerm struct {
	Index       int
	Coefficient float64
	Order       int
	Exponents   []int
}

// ListingSeries is one named block of a DACE text listing, e.g. "x" or
// "y = sin(x)".
type ListingSeries struct {
	Name  string
	Terms []ListingTerm
}

// Coefficients returns the coefficient column in row order.
func (s *ListingSeries) Coefficients() []float64 {
	out := make([]float64, len(s.Terms))
	for i, t := range s.Terms {
		out[i] = t.Coefficient
	}
	return out
}

// Orders returns the order column in row order.
func (s *ListingSeries) Orders() []int {
	out := make([]int, len(s.Terms))
	for i, t := range s.Terms {
		out[i] = t.Order
	}
	return out
}

// Listing is a DACE dump of an expansion variable and a function of it.
type Listing struct {
	Path     string
	Variable ListingSeries
	Function ListingSeries
}
