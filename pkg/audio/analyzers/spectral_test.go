package analyzers

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/word-recognizer/pkg/audio"
)

func TestComputeSpectrumLength(t *testing.T) {
	sa := NewSpectralAnalyzer(audio.DefaultSampleRate)

	for n := 0; n <= 17; n++ {
		buf := make(audio.Buffer, n)
		for i := range buf {
			buf[i] = math.Sin(float64(i)*0.7) + 0.25*float64(i%3)
		}

		spectrum := sa.ComputeSpectrum(buf)
		require.Len(t, spectrum.Magnitudes, n/2, "n=%d", n)
		require.Len(t, spectrum.Frequencies, n/2, "n=%d", n)
		assert.Equal(t, n, spectrum.SampleCount)

		for k := range spectrum.Magnitudes {
			assert.GreaterOrEqual(t, spectrum.Magnitudes[k], 0.0)
			assert.GreaterOrEqual(t, spectrum.Frequencies[k], 0.0)
			if k > 0 {
				assert.GreaterOrEqual(t, spectrum.Frequencies[k], spectrum.Frequencies[k-1])
			}
		}
	}
}

func TestComputeSpectrumEmptyBuffer(t *testing.T) {
	sa := NewSpectralAnalyzer(audio.DefaultSampleRate)

	spectrum := sa.ComputeSpectrum(audio.Buffer{})
	require.NotNil(t, spectrum)
	assert.Empty(t, spectrum.Magnitudes)
	assert.Empty(t, spectrum.Frequencies)
	assert.Equal(t, 0, spectrum.Len())
	assert.Equal(t, 0.0, spectrum.FreqResolution())

	spectrum = sa.ComputeSpectrum(nil)
	assert.Empty(t, spectrum.Magnitudes)
}

func TestComputeSpectrumSilence(t *testing.T) {
	sa := NewSpectralAnalyzer(audio.DefaultSampleRate)

	spectrum := sa.ComputeSpectrum(audio.Buffer{0, 0, 0, 0})
	assert.Equal(t, []float64{0, 0}, spectrum.Magnitudes)
	assert.Equal(t, []float64{0, 11025}, spectrum.Frequencies)
}

func TestComputeSpectrumImpulse(t *testing.T) {
	sa := NewSpectralAnalyzer(audio.DefaultSampleRate)

	spectrum := sa.ComputeSpectrum(audio.Buffer{1, 0, 0, 0})
	require.Len(t, spectrum.Magnitudes, 2)
	assert.InDelta(t, 1.0, spectrum.Magnitudes[0], 1e-12)
	assert.InDelta(t, 1.0, spectrum.Magnitudes[1], 1e-12)
}

func TestComputeSpectrumCosine(t *testing.T) {
	sa := NewSpectralAnalyzer(8000)

	const n = 8
	buf := make(audio.Buffer, n)
	for i := range buf {
		buf[i] = math.Cos(2 * math.Pi * float64(i) / n)
	}

	spectrum := sa.ComputeSpectrum(buf)
	require.Len(t, spectrum.Magnitudes, 4)

	expected := []float64{0, 4, 0, 0}
	for k, want := range expected {
		assert.InDelta(t, want, spectrum.Magnitudes[k], 1e-9, "bin %d", k)
	}
	assert.Equal(t, []float64{0, 1000, 2000, 3000}, spectrum.Frequencies)
	assert.Equal(t, 1000.0, spectrum.FreqResolution())
}

func TestComputeSpectrumOddLength(t *testing.T) {
	sa := NewSpectralAnalyzer(audio.DefaultSampleRate)

	buf := audio.Buffer{1, 1, 1, 1, 1}
	spectrum := sa.ComputeSpectrum(buf)

	require.Len(t, spectrum.Magnitudes, 2)
	assert.InDelta(t, 5.0, spectrum.Magnitudes[0], 1e-9)
	assert.InDelta(t, 0.0, spectrum.Magnitudes[1], 1e-9)
	assert.InDelta(t, 8820.0, spectrum.Frequencies[1], 1e-9)
}

func TestComputeSpectrumDoesNotModifyInput(t *testing.T) {
	sa := NewSpectralAnalyzer(audio.DefaultSampleRate)

	buf := audio.Buffer{0.5, -0.25, 0.125, 1}
	original := append(audio.Buffer(nil), buf...)

	sa.ComputeSpectrum(buf)
	assert.Equal(t, original, buf)
}

func TestDescribeEmptySpectrum(t *testing.T) {
	sa := NewSpectralAnalyzer(audio.DefaultSampleRate)

	descriptors := sa.Describe(sa.ComputeSpectrum(nil))
	require.NotNil(t, descriptors)
	assert.Equal(t, SpectralDescriptors{}, *descriptors)
}
