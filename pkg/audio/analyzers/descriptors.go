package analyzers

import (
	sonar "github.com/RyanBlaney/sonido-sonar/fingerprint/analyzers"

	"github.com/RyanBlaney/word-recognizer/pkg/audio"
)

// SpectralDescriptors summarises the shape of a magnitude spectrum. They are
// informational only and never take part in classification.
type SpectralDescriptors struct {
	SpectralCentroid  float64 `json:"spectral_centroid" yaml:"spectral_centroid"`
	SpectralRolloff   float64 `json:"spectral_rolloff" yaml:"spectral_rolloff"`
	SpectralBandwidth float64 `json:"spectral_bandwidth" yaml:"spectral_bandwidth"`
	SpectralFlatness  float64 `json:"spectral_flatness" yaml:"spectral_flatness"`
	SpectralCrest     float64 `json:"spectral_crest" yaml:"spectral_crest"`
	SpectralSlope     float64 `json:"spectral_slope" yaml:"spectral_slope"`
	Energy            float64 `json:"energy" yaml:"energy"`
}

// Describe computes frame descriptors over the retained magnitudes
func (sa *SpectralAnalyzer) Describe(spectrum *audio.Spectrum) *SpectralDescriptors {
	if spectrum.Len() == 0 {
		return &SpectralDescriptors{}
	}

	features := sonar.NewSpectralAnalyzer(sa.sampleRate).ExtractFrameFeatures(spectrum.Magnitudes)

	return &SpectralDescriptors{
		SpectralCentroid:  features.SpectralCentroid,
		SpectralRolloff:   features.SpectralRolloff,
		SpectralBandwidth: features.SpectralBandwidth,
		SpectralFlatness:  features.SpectralFlatness,
		SpectralCrest:     features.SpectralCrest,
		SpectralSlope:     features.SpectralSlope,
		Energy:            features.Energy,
	}
}
