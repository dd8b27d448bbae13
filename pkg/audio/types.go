package audio

import "time"

// DefaultSampleRate is the rate every buffer handed to the analyzers is
// expected to be recorded at.
const DefaultSampleRate = 44100

// Buffer holds mono samples in recording order.
type Buffer []float64

// Duration returns the playback length of the buffer at the given rate.
func (b Buffer) Duration(sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(b)) / float64(sampleRate) * float64(time.Second))
}

// Spectrum is the non-negative-frequency half of the DFT of a Buffer.
// Frequencies[i] is the bin centre, in Hz, of Magnitudes[i].
type Spectrum struct {
	Frequencies []float64 `json:"frequencies" yaml:"frequencies"`
	Magnitudes  []float64 `json:"magnitudes" yaml:"magnitudes"`

	// SampleCount is the length of the buffer the spectrum was computed from.
	// Sub-band energies are normalised by it, not by the spectrum length.
	SampleCount int `json:"sample_count" yaml:"sample_count"`
	SampleRate  int `json:"sample_rate" yaml:"sample_rate"`
}

// Len returns the number of retained bins.
func (s *Spectrum) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Magnitudes)
}

// FreqResolution returns the width of one bin in Hz, or 0 for an empty spectrum.
func (s *Spectrum) FreqResolution() float64 {
	if s == nil || s.SampleCount == 0 {
		return 0
	}
	return float64(s.SampleRate) / float64(s.SampleCount)
}

// FeatureVector holds one energy value per sub-band.
type FeatureVector []float64

// Dim returns the number of sub-bands.
func (v FeatureVector) Dim() int {
	return len(v)
}

// Clone returns an independent copy.
func (v FeatureVector) Clone() FeatureVector {
	if v == nil {
		return nil
	}
	out := make(FeatureVector, len(v))
	copy(out, v)
	return out
}
