// Package testutil provides deterministic signals and tolerance assertions for tests.
package testutil

import (
	"math/rand"
)

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	return Spikes(length, pos)
}

// Spikes returns a zero signal with unit samples at every listed position.
// Positions outside the signal are ignored.
func Spikes(length int, positions ...int) []float64 {
	out := make([]float64, length)
	for _, p := range positions {
		if p >= 0 && p < length {
			out[p] = 1
		}
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}
