package extractors

import (
	"fmt"

	"github.com/RyanBlaney/latency-benchmark-common/logging"

	"github.com/RyanBlaney/word-recognizer/pkg/audio"
)

// SubBandExtractor partitions a magnitude spectrum into equal contiguous
// sub-bands and reports the energy of each one.
//
// The sub-band size is floor(len(magnitudes) / numSubBands). Bins past
// numSubBands*size never contribute to any band; vectors trained under this
// rule stay comparable only if the rule is kept.
type SubBandExtractor struct {
	numSubBands int
	logger      logging.Logger
}

// BandRange describes the bins covered by one sub-band.
type BandRange struct {
	Index      int     `json:"index" yaml:"index"`
	StartBin   int     `json:"start_bin" yaml:"start_bin"`
	EndBin     int     `json:"end_bin" yaml:"end_bin"` // exclusive
	LowFreqHz  float64 `json:"low_freq_hz" yaml:"low_freq_hz"`
	HighFreqHz float64 `json:"high_freq_hz" yaml:"high_freq_hz"`
}

// NewSubBandExtractor creates an extractor producing numSubBands energies
func NewSubBandExtractor(numSubBands int) (*SubBandExtractor, error) {
	if numSubBands < 1 {
		return nil, fmt.Errorf("number of sub-bands must be at least 1, got %d", numSubBands)
	}
	return &SubBandExtractor{
		numSubBands: numSubBands,
		logger: logging.WithFields(logging.Fields{
			"component":     "subband_extractor",
			"num_sub_bands": numSubBands,
		}),
	}, nil
}

// NumSubBands returns the length of every vector this extractor produces
func (e *SubBandExtractor) NumSubBands() int {
	return e.numSubBands
}

// SubBandSize returns the number of bins per band for a spectrum of the given length
func (e *SubBandExtractor) SubBandSize(spectrumLen int) int {
	return spectrumLen / e.numSubBands
}

// Extract computes energy_i = (1/N) * sum(|X[j]|^2) over band i, where N is
// the sample count of the input buffer. A spectrum of a zero-length
// buffer gives an all-zero vector.
func (e *SubBandExtractor) Extract(spectrum *audio.Spectrum) audio.FeatureVector {
	energies := make(audio.FeatureVector, e.numSubBands)
	if spectrum == nil || spectrum.SampleCount == 0 {
		return energies
	}

	size := e.SubBandSize(spectrum.Len())
	n := float64(spectrum.SampleCount)

	for i := 0; i < e.numSubBands; i++ {
		start := i * size
		end := start + size

		var sum float64
		for _, m := range spectrum.Magnitudes[start:end] {
			sum += m * m
		}
		energies[i] = sum / n
	}

	e.logger.Debug("Sub-band energies extracted", logging.Fields{
		"sample_count":   spectrum.SampleCount,
		"sub_band_size":  size,
		"discarded_bins": spectrum.Len() - size*e.numSubBands,
	})

	return energies
}

// BandRanges reports the bin and frequency span of every band for display
func (e *SubBandExtractor) BandRanges(spectrum *audio.Spectrum) []BandRange {
	size := e.SubBandSize(spectrum.Len())
	resolution := spectrum.FreqResolution()

	ranges := make([]BandRange, e.numSubBands)
	for i := range ranges {
		start := i * size
		end := start + size
		ranges[i] = BandRange{
			Index:      i,
			StartBin:   start,
			EndBin:     end,
			LowFreqHz:  float64(start) * resolution,
			HighFreqHz: float64(end) * resolution,
		}
	}
	return ranges
}
