package recognizer

import (
	"time"

	"github.com/RyanBlaney/word-recognizer/pkg/audio"
	"github.com/RyanBlaney/word-recognizer/pkg/audio/analyzers"
	"github.com/RyanBlaney/word-recognizer/pkg/audio/extractors"
)

// ProcessedSample is everything derived from one buffer: the spectrum and
// band layout for plotting and the feature vector for training or
// classification.
type ProcessedSample struct {
	Spectrum    *audio.Spectrum        `json:"spectrum" yaml:"spectrum"`
	Features    audio.FeatureVector    `json:"features" yaml:"features"`
	Bands       []extractors.BandRange `json:"bands" yaml:"bands"`
	SampleCount int                    `json:"sample_count" yaml:"sample_count"`
	Duration    time.Duration          `json:"duration" yaml:"duration"`
}

// Pipeline runs the spectral analyzer and sub-band extractor as one step
type Pipeline struct {
	config    audio.FeatureConfig
	analyzer  *analyzers.SpectralAnalyzer
	extractor *extractors.SubBandExtractor
}

// NewPipeline creates a pipeline for the given feature configuration
func NewPipeline(config audio.FeatureConfig) (*Pipeline, error) {
	if err := config.Validate(); err != nil {
		return nil, NewError(ErrCodeInvalidConfig, "invalid feature configuration", "", err)
	}

	extractor, err := extractors.NewSubBandExtractor(config.NumSubBands)
	if err != nil {
		return nil, NewError(ErrCodeInvalidConfig, "failed to create sub-band extractor", "", err)
	}

	return &Pipeline{
		config:    config,
		analyzer:  analyzers.NewSpectralAnalyzer(config.SampleRate),
		extractor: extractor,
	}, nil
}

// Config returns the pipeline's feature configuration
func (p *Pipeline) Config() audio.FeatureConfig {
	return p.config
}

// Analyzer exposes the spectral analyzer for descriptor reports
func (p *Pipeline) Analyzer() *analyzers.SpectralAnalyzer {
	return p.analyzer
}

// Process computes the spectrum and feature vector of buf. A zero-length
// buffer yields an empty spectrum and an all-zero vector.
func (p *Pipeline) Process(buf audio.Buffer) *ProcessedSample {
	spectrum := p.analyzer.ComputeSpectrum(buf)

	return &ProcessedSample{
		Spectrum:    spectrum,
		Features:    p.extractor.Extract(spectrum),
		Bands:       p.extractor.BandRanges(spectrum),
		SampleCount: len(buf),
		Duration:    buf.Duration(p.config.SampleRate),
	}
}
