package network

import "math/rand"

// NoiseFunction perturbs a true distance into a measured one. It is applied
// once per edge at network construction, so one snapshot carries one fixed
// set of measurements.
type NoiseFunction func(rng *rand.Rand, trueDistance float64) float64

// NoNoise is a NoiseFunction that reports the true distance unchanged.
func NoNoise(_ *rand.Rand, trueDistance float64) float64 {
	return trueDistance
}

// GaussianNoise creates a NoiseFunction that adds Gaussian noise with the
// given standard deviation.
func GaussianNoise(stdDev float64) NoiseFunction {
	if stdDev < 0 {
		stdDev = 0
	}
	return func(rng *rand.Rand, trueDistance float64) float64 {
		return clampNonNegative(trueDistance + rng.NormFloat64()*stdDev)
	}
}

// UniformNoise creates a NoiseFunction that adds uniform noise within
// [-maxDelta, +maxDelta].
func UniformNoise(maxDelta float64) NoiseFunction {
	if maxDelta < 0 {
		maxDelta = 0
	}
	return func(rng *rand.Rand, trueDistance float64) float64 {
		noise := (rng.Float64()*2 - 1) * maxDelta
		return clampNonNegative(trueDistance + noise)
	}
}

// PercentageNoise creates a NoiseFunction that adds uniform noise scaled to
// a fraction of the true distance, e.g. 0.05 for up to 5%.
func PercentageNoise(fraction float64) NoiseFunction {
	if fraction < 0 {
		fraction = 0
	}
	return func(rng *rand.Rand, trueDistance float64) float64 {
		noise := (rng.Float64()*2 - 1) * trueDistance * fraction
		return clampNonNegative(trueDistance + noise)
	}
}

// Distances cannot be negative.
func clampNonNegative(d float64) float64 {
	if d < 0 {
		return 0
	}
	return d
}
