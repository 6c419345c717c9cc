package blur

import "math"

// Kernel holds a normalized 1-D Gaussian weight vector. Weights are
// symmetric about the center and sum to 1, so convolving a constant
// signal leaves it unchanged.
type Kernel struct {
	Weights   []float64
	HalfWidth int
}

// NewKernel builds the Gaussian kernel for a blur radius in pixels.
// Sigma is floored at 1, so a zero or negative radius still yields a
// valid near-identity kernel instead of failing.
func NewKernel(radius int) Kernel {
	sigma := math.Max(1, float64(radius)/2.5)
	half := int(math.Ceil(3 * sigma))

	weights := make([]float64, 2*half+1)
	sum := 0.0
	for i := range weights {
		d := float64(i - half)
		w := math.Exp(-(d * d) / (2 * sigma * sigma))
		weights[i] = w
		sum += w
	}
	for i := range weights {
		weights[i] /= sum
	}

	return Kernel{Weights: weights, HalfWidth: half}
}
