package analysis

import (
	"math"

	"github.com/df07/go-principled-bsdf/pkg/core"
)

// Estimate accumulates scalar Monte Carlo samples
type Estimate struct {
	Sum   float64
	SumSq float64
	Count int
}

// AddSample adds one sample to the running sums
func (e *Estimate) AddSample(x float64) {
	e.Sum += x
	e.SumSq += x * x
	e.Count++
}

// Mean returns the sample mean, 0 when empty
func (e Estimate) Mean() float64 {
	if e.Count == 0 {
		return 0
	}
	return e.Sum / float64(e.Count)
}

// Variance returns the unbiased sample variance
func (e Estimate) Variance() float64 {
	if e.Count < 2 {
		return 0
	}
	n := float64(e.Count)
	mean := e.Sum / n
	v := (e.SumSq - n*mean*mean) / (n - 1)
	return math.Max(v, 0)
}

// StdErr returns the standard error of the mean
func (e Estimate) StdErr() float64 {
	if e.Count == 0 {
		return 0
	}
	return math.Sqrt(e.Variance() / float64(e.Count))
}

// ColorEstimate tracks an RGB mean with luminance variance for error bars
type ColorEstimate struct {
	ColorAccum core.Vec3 // RGB accumulator
	Luminance  Estimate  // Per-sample luminance
}

// AddSample adds a color sample
func (ce *ColorEstimate) AddSample(color core.Vec3) {
	ce.ColorAccum = ce.ColorAccum.Add(color)
	ce.Luminance.AddSample(color.Luminance())
}

// Count returns the number of samples taken
func (ce ColorEstimate) Count() int {
	return ce.Luminance.Count
}

// Mean returns the average color
func (ce ColorEstimate) Mean() core.Vec3 {
	if ce.Luminance.Count == 0 {
		return core.Vec3{}
	}
	return ce.ColorAccum.Multiply(1.0 / float64(ce.Luminance.Count))
}
