package analysis

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/san-kum/regensim/internal/datalog"
	"github.com/san-kum/regensim/internal/vehicle"
)

// Spectrum is a one-sided magnitude spectrum.
type Spectrum struct {
	Frequencies []float64 // Hz
	Magnitudes  []float64
}

// PowerSpectrum returns the one-sided magnitude spectrum of samples taken every dt seconds.
// The mean is removed first so the DC bin does not dominate.
func PowerSpectrum(samples []float64, dt float64) Spectrum {
	n := len(samples)
	if n < 2 || dt <= 0 {
		return Spectrum{}
	}

	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(n)
	centered := make([]float64, n)
	for i, v := range samples {
		centered[i] = v - mean
	}

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, centered)
	s := Spectrum{
		Frequencies: make([]float64, len(coeffs)),
		Magnitudes:  make([]float64, len(coeffs)),
	}
	for i, c := range coeffs {
		s.Frequencies[i] = fft.Freq(i) / dt
		s.Magnitudes[i] = cmplx.Abs(c) / float64(n)
	}
	return s
}

// DominantFrequency is the frequency of the strongest non-DC bin, or 0 for flat input.
func DominantFrequency(samples []float64, dt float64) float64 {
	s := PowerSpectrum(samples, dt)
	best, peak := 0.0, 0.0
	for i := 1; i < len(s.Magnitudes); i++ {
		if s.Magnitudes[i] > peak {
			peak = s.Magnitudes[i]
			best = s.Frequencies[i]
		}
	}
	if peak < 1e-12 {
		return 0
	}
	return best
}

// CornerSpectrum is the spectrum of one corner's displacement across the log.
// Entries are assumed to be evenly spaced dt apart.
func CornerSpectrum(entries []datalog.Entry, c vehicle.Corner, dt float64) Spectrum {
	return PowerSpectrum(Series(entries, c, Displacement), dt)
}

// RMS of a series, 0 when empty.
func RMS(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range samples {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(samples)))
}
