// Package latency models per-order network/processing delay and the
// queue that holds delayed placements until their release tick.
package latency

import "math/rand"

// Model samples non-negative latency in ticks from a Gaussian with the
// configured mean and standard deviation. Negative samples are clamped
// to zero rather than resampled, matching a simple fixed-point delay
// model: most orders arrive near the mean, a few arrive instantly.
type Model struct {
	Mean float64
	Std  float64
	rng  *rand.Rand
}

// NewModel creates a latency model seeded for reproducible sampling.
func NewModel(mean, std float64, seed int64) *Model {
	return &Model{Mean: mean, Std: std, rng: rand.New(rand.NewSource(seed))}
}

// Sample draws one latency value, in whole ticks.
func (m *Model) Sample() int64 {
	v := m.rng.NormFloat64()*m.Std + m.Mean
	if v < 0 {
		v = 0
	}
	return int64(v)
}
