package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/user/dd_analyzer_go/internal/parser"
)

const (
	// DefaultStep is the sampling step of the span table domains.
	DefaultStep = 0.1
	// CenteredStep is the sampling step around an expansion centre.
	CenteredStep = 0.01
)

// ErrUnknownSpan is returned for a span selector outside the span table.
var ErrUnknownSpan = errors.New("unknown span selector")

// spanBounds maps a span selector to its symmetric domain.
var spanBounds = map[int][2]float64{
	1: {-10, 10},
	2: {-5, 5},
	3: {-1, 1},
}

// Evaluate computes sum(coefficients[i] * (x-center)^orders[i]) at every
// sample point. coefficients and orders must have the same length.
func Evaluate(coefficients []float64, orders []int, xs []float64, center float64) []float64 {
	if len(coefficients) != len(orders) {
		panic(fmt.Sprintf("analysis: %d coefficients but %d orders", len(coefficients), len(orders)))
	}

	ys := make([]float64, len(xs))
	for j, x := range xs {
		y := 0.0
		for i, coef := range coefficients {
			y += coef * math.Pow(x-center, float64(orders[i]))
		}
		ys[j] = y
	}
	return ys
}

// ExpansionCenter returns the order-0 coefficient of the expansion variable,
// or 0 when it has none.
func ExpansionCenter(variable parser.ListingSeries) float64 {
	for _, t := range variable.Terms {
		if t.Order == 0 {
			return t.Coefficient
		}
	}
	return 0
}

// Samples returns evenly spaced points from lower with the given step. The
// last point lands on upper only if includeStop is set.
func Samples(lower, upper, step float64, includeStop bool) ([]float64, error) {
	if step <= 0 {
		return nil, fmt.Errorf("step must be positive, got %g", step)
	}
	if upper <= lower {
		return nil, fmt.Errorf("lower bound (%g) must be below the upper bound (%g)", lower, upper)
	}

	// The small bias keeps e.g. 20/0.1 from flooring to 199.
	n := int(math.Floor((upper-lower)/step + 1e-9))
	if includeStop {
		n++
	}
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = lower + step*float64(i)
	}
	return xs, nil
}

// DefaultSamples samples the domain of a span selector: 1 is [-10,10], 2 is
// [-5,5] and 3 is [-1,1], with step 0.1.
func DefaultSamples(span int, includeStop bool) ([]float64, error) {
	bounds, ok := spanBounds[span]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSpan, span)
	}
	return Samples(bounds[0], bounds[1], DefaultStep, includeStop)
}

// CenteredSamples samples [center-halfWidth, center+halfWidth] with step 0.01.
func CenteredSamples(center, halfWidth float64, includeStop bool) ([]float64, error) {
	if halfWidth <= 0 {
		return nil, fmt.Errorf("half width must be positive, got %g", halfWidth)
	}
	return Samples(center-halfWidth, center+halfWidth, CenteredStep, includeStop)
}

// Curve is a sampled function.
type Curve struct {
	Name   string
	Center float64
	X      []float64
	Y      []float64
}

// TaylorOptions selects the sampling policy of ReconstructTaylor.
type TaylorOptions struct {
	Span int
	// Centered recentres the domain on the expansion point and reads Span
	// as a half width.
	Centered    bool
	IncludeStop bool
	// Samples overrides the sampling policy when not nil.
	Samples []float64
}

// ReconstructTaylor evaluates the function block of a listing.
func ReconstructTaylor(listing *parser.Listing, opts TaylorOptions) (*Curve, error) {
	if listing == nil {
		return nil, fmt.Errorf("listing is nil, cannot reconstruct")
	}
	if len(listing.Function.Terms) == 0 {
		return nil, fmt.Errorf("%s: function %q has no terms", listing.Path, listing.Function.Name)
	}

	center := 0.0
	if opts.Centered {
		center = ExpansionCenter(listing.Variable)
	}

	xs := opts.Samples
	if xs == nil {
		var err error
		if opts.Centered {
			xs, err = CenteredSamples(center, float64(opts.Span), opts.IncludeStop)
		} else {
			xs, err = DefaultSamples(opts.Span, opts.IncludeStop)
		}
		if err != nil {
			return nil, err
		}
	}

	f := listing.Function
	return &Curve{
		Name:   f.Name,
		Center: center,
		X:      xs,
		Y:      Evaluate(f.Coefficients(), f.Orders(), xs, center),
	}, nil
}
