// Package analysis extracts frequency content from recorded
// trajectories, useful for characterizing constrained or oscillating
// bodies.
package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the single-sided magnitude spectrum of a
// detrended sample series.
func PowerSpectrum(samples []float64) []float64 {
	if len(samples) < 2 {
		return nil
	}

	spectrum := fft.FFTReal(detrend(samples))
	half := len(spectrum) / 2
	power := make([]float64, half)
	for i := 0; i < half; i++ {
		power[i] = cmplx.Abs(spectrum[i])
	}
	return power
}

// DominantFrequency returns the strongest oscillation frequency in Hz
// and its magnitude, for samples taken every dt seconds. The DC bin is
// skipped.
func DominantFrequency(samples []float64, dt float64) (freq, power float64) {
	spectrum := PowerSpectrum(samples)
	if len(spectrum) < 2 || dt <= 0 {
		return 0, 0
	}

	best := 1
	for i := 2; i < len(spectrum); i++ {
		if spectrum[i] > spectrum[best] {
			best = i
		}
	}

	sampleRate := 1.0 / dt
	freq = float64(best) * sampleRate / float64(len(samples))
	return freq, spectrum[best]
}

func detrend(samples []float64) []float64 {
	mean := 0.0
	for _, s := range samples {
		mean += s
	}
	mean /= float64(len(samples))

	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s - mean
	}
	return out
}
