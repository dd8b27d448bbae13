package app

import (
	"time"

	"github.com/RyanBlaney/word-recognizer/internal/metrics"
	"github.com/RyanBlaney/word-recognizer/pkg/audio/analyzers"
	"github.com/RyanBlaney/word-recognizer/pkg/audio/extractors"
	"github.com/RyanBlaney/word-recognizer/pkg/recognizer"
)

// FileReport is the processing result for one recording
type FileReport struct {
	File            string                         `json:"file" yaml:"file"`
	SampleCount     int                            `json:"sample_count" yaml:"sample_count"`
	DurationSeconds float64                        `json:"duration_seconds" yaml:"duration_seconds"`
	Features        []float64                      `json:"features" yaml:"features"`
	Bands           []extractors.BandRange         `json:"bands" yaml:"bands"`
	Descriptors     *analyzers.SpectralDescriptors `json:"descriptors,omitempty" yaml:"descriptors,omitempty"`
	Spectrum        *SpectrumReport                `json:"spectrum,omitempty" yaml:"spectrum,omitempty"`
}

// SpectrumReport carries the retained spectrum for plotting
type SpectrumReport struct {
	Frequencies []float64 `json:"frequencies" yaml:"frequencies"`
	Magnitudes  []float64 `json:"magnitudes" yaml:"magnitudes"`
}

// TrainReport is the result of a training run
type TrainReport struct {
	ModelPath string                 `json:"model_path" yaml:"model_path"`
	TrainedAt time.Time              `json:"trained_at" yaml:"trained_at"`
	Classes   []ClassReport          `json:"classes" yaml:"classes"`
	Quality   *metrics.QualityReport `json:"quality" yaml:"quality"`
	Insights  []string               `json:"insights" yaml:"insights"`
}

// ClassReport summarises one trained class
type ClassReport struct {
	Label       recognizer.Label `json:"label" yaml:"label"`
	SampleCount int              `json:"sample_count" yaml:"sample_count"`
	Centroid    []float64        `json:"centroid" yaml:"centroid"`
}

// ClassifyReport is the classification result for one recording
type ClassifyReport struct {
	File      string                     `json:"file" yaml:"file"`
	Label     recognizer.Label           `json:"label" yaml:"label"`
	Distance  float64                    `json:"distance" yaml:"distance"`
	Distances []recognizer.ClassDistance `json:"distances" yaml:"distances"`
	Features  []float64                  `json:"features" yaml:"features"`
}
