package metrics

import "math"

// Welford holds running statistics using Welford's online algorithm.
// Mean and standard deviation are updated incrementally in O(1) time
// and space, without storing the observations.
// Reference: https://en.wikipedia.org/wiki/Algorithms_for_calculating_variance#Welford's_online_algorithm
type Welford struct {
	count int64
	mean  float64
	m2    float64 // sum of squared differences from the mean
}

// Update adds a new observation.
func (w *Welford) Update(v float64) {
	w.count++
	delta := v - w.mean
	w.mean += delta / float64(w.count)
	delta2 := v - w.mean
	w.m2 += delta * delta2
}

// Count returns the number of observations.
func (w *Welford) Count() int64 { return w.count }

// Mean returns the current mean.
func (w *Welford) Mean() float64 { return w.mean }

// StdDev returns the population standard deviation.
// Returns 0 if fewer than 2 observations.
func (w *Welford) StdDev() float64 {
	if w.count < 2 {
		return 0
	}
	return math.Sqrt(w.m2 / float64(w.count))
}
