package audio

import "fmt"

// DefaultNumSubBands is the reference sub-band count.
const DefaultNumSubBands = 2

// FeatureConfig describes how buffers are turned into feature vectors.
// Vectors are only comparable when produced under the same FeatureConfig.
type FeatureConfig struct {
	SampleRate  int `json:"sample_rate" yaml:"sample_rate"`
	NumSubBands int `json:"num_sub_bands" yaml:"num_sub_bands"`
}

// DefaultFeatureConfig returns the reference configuration.
func DefaultFeatureConfig() FeatureConfig {
	return FeatureConfig{
		SampleRate:  DefaultSampleRate,
		NumSubBands: DefaultNumSubBands,
	}
}

// Validate checks that both parameters are positive.
func (c FeatureConfig) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %d", c.SampleRate)
	}
	if c.NumSubBands < 1 {
		return fmt.Errorf("number of sub-bands must be at least 1, got %d", c.NumSubBands)
	}
	return nil
}
