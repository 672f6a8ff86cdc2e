package analysis

import (
	"fmt"
	"math"
)

// ComponentSummary holds descriptive statistics of one extracted component.
type ComponentSummary struct {
	Patch  string
	Name   string // e.g. "v0"
	Count  int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	Range  float64
}

// Helper to calculate mean
func calculateMean(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}

// Population standard deviation; a single point has zero spread.
func calculateStdDev(data []float64, mean float64) float64 {
	if len(data) == 0 || math.IsNaN(mean) {
		return math.NaN()
	}
	if len(data) == 1 {
		return 0.0
	}
	sumSqDiff := 0.0
	for _, v := range data {
		sumSqDiff += (v - mean) * (v - mean)
	}
	return math.Sqrt(sumSqDiff / float64(len(data)))
}

func calculateBounds(data []float64) (float64, float64) {
	if len(data) == 0 {
		return math.NaN(), math.NaN()
	}
	minVal, maxVal := data[0], data[0]
	for _, v := range data[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	return minVal, maxVal
}

// Summarize computes statistics for every component of set.
func Summarize(set *VectorSet) []ComponentSummary {
	if set == nil {
		return nil
	}
	out := make([]ComponentSummary, 0, len(set.Components))
	for i, c := range set.Components {
		mean := calculateMean(c)
		lo, hi := calculateBounds(c)
		out = append(out, ComponentSummary{
			Patch:  string(set.Patch),
			Name:   fmt.Sprintf("v%d", i),
			Count:  len(c),
			Mean:   mean,
			StdDev: calculateStdDev(c, mean),
			Min:    lo,
			Max:    hi,
			Range:  hi - lo,
		})
	}
	return out
}

// SymmetricLimit returns the largest absolute value across all data, for
// axes pinned symmetrically around zero. It is 1 when there is no data.
func SymmetricLimit(data ...[]float64) float64 {
	limit := 0.0
	for _, d := range data {
		for _, v := range d {
			if !math.IsNaN(v) {
				limit = math.Max(limit, math.Abs(v))
			}
		}
	}
	if limit == 0 {
		return 1
	}
	return limit
}
