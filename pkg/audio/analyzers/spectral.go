package analyzers

import (
	"math/cmplx"

	"github.com/RyanBlaney/latency-benchmark-common/logging"
	"github.com/mjibson/go-dsp/fft"

	"github.com/RyanBlaney/word-recognizer/pkg/audio"
)

// SpectralAnalyzer turns a mono buffer into its one-sided magnitude spectrum
type SpectralAnalyzer struct {
	sampleRate int
	logger     logging.Logger
}

// NewSpectralAnalyzer creates a new spectral analyzer
func NewSpectralAnalyzer(sampleRate int) *SpectralAnalyzer {
	return &SpectralAnalyzer{
		sampleRate: sampleRate,
		logger: logging.WithFields(logging.Fields{
			"component":   "spectral_analyzer",
			"sample_rate": sampleRate,
		}),
	}
}

// SampleRate returns the rate used for the bin-to-Hz mapping
func (sa *SpectralAnalyzer) SampleRate() int {
	return sa.sampleRate
}

// ComputeSpectrum computes the unwindowed DFT of the whole buffer and keeps
// the first floor(N/2) bins. An empty buffer yields an empty spectrum.
func (sa *SpectralAnalyzer) ComputeSpectrum(signal audio.Buffer) *audio.Spectrum {
	n := len(signal)
	spectrum := &audio.Spectrum{
		Frequencies: []float64{},
		Magnitudes:  []float64{},
		SampleCount: n,
		SampleRate:  sa.sampleRate,
	}
	if n == 0 {
		sa.logger.Debug("Empty buffer, returning empty spectrum")
		return spectrum
	}

	coefficients := sa.FFT(signal)

	half := n / 2
	spectrum.Magnitudes = make([]float64, half)
	for k := 0; k < half; k++ {
		spectrum.Magnitudes[k] = cmplx.Abs(coefficients[k])
	}
	spectrum.Frequencies = sa.GetFrequencyBins(n, half)

	sa.logger.Debug("Spectrum computed", logging.Fields{
		"signal_length":   n,
		"freq_bins":       half,
		"freq_resolution": spectrum.FreqResolution(),
	})

	return spectrum
}

// FFT computes the DFT of x using mjibson/go-dsp, which handles
// non-power-of-2 lengths exactly
func (sa *SpectralAnalyzer) FFT(x []float64) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}
	return fft.FFTReal(x)
}

// GetFrequencyBins returns k*R/n for k in [0, numBins)
func (sa *SpectralAnalyzer) GetFrequencyBins(n, numBins int) []float64 {
	freqs := make([]float64, numBins)
	if n == 0 {
		return freqs
	}
	for k := range freqs {
		freqs[k] = float64(k) * float64(sa.sampleRate) / float64(n)
	}
	return freqs
}
