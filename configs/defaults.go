package configs

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	appName = "word-recognizer"

	// modelFileName is the model file kept under data_dir when model.path is empty
	modelFileName = "model.yaml"
)

// SetDefaults sets default configuration values for all components
func SetDefaults(v *viper.Viper) {
	defaults := GetDefaultConfig()

	// Application defaults
	if !v.IsSet("verbose") {
		v.SetDefault("verbose", defaults.Verbose)
	}
	if !v.IsSet("log_level") {
		v.SetDefault("log_level", defaults.LogLevel)
	}
	if !v.IsSet("output_format") {
		v.SetDefault("output_format", defaults.OutputFormat)
	}
	if !v.IsSet("config_dir") {
		v.SetDefault("config_dir", defaults.ConfigDir)
	}
	if !v.IsSet("data_dir") {
		v.SetDefault("data_dir", defaults.DataDir)
	}

	// Audio defaults
	if !v.IsSet("audio.sample_rate") {
		v.SetDefault("audio.sample_rate", defaults.Audio.SampleRate)
	}

	// Feature defaults
	if !v.IsSet("features.num_sub_bands") {
		v.SetDefault("features.num_sub_bands", defaults.Features.NumSubBands)
	}

	// Training defaults
	if !v.IsSet("training.min_samples_per_class") {
		v.SetDefault("training.min_samples_per_class", defaults.Training.MinSamplesPerClass)
	}
	if !v.IsSet("training.classes") {
		v.SetDefault("training.classes", defaults.Training.Classes)
	}

	// Model defaults; an empty path resolves under data_dir at load time
	if !v.IsSet("model.path") {
		v.SetDefault("model.path", "")
	}

	// Processing defaults
	if !v.IsSet("processing.max_concurrency") {
		v.SetDefault("processing.max_concurrency", defaults.Processing.MaxConcurrency)
	}

	// Output defaults
	if !v.IsSet("output.precision") {
		v.SetDefault("output.precision", defaults.Output.Precision)
	}
	if !v.IsSet("output.include_spectrum") {
		v.SetDefault("output.include_spectrum", defaults.Output.IncludeSpectrum)
	}
	if !v.IsSet("output.include_descriptors") {
		v.SetDefault("output.include_descriptors", defaults.Output.IncludeDescriptors)
	}
}

// GetDefaultConfig returns a Config struct with all default values set
func GetDefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	dataDir := filepath.Join(home, ".local", "share", appName)

	return &Config{
		Verbose:      false,
		LogLevel:     "info",
		OutputFormat: "table",
		ConfigDir:    filepath.Join(home, ".config", appName),
		DataDir:      dataDir,

		Audio: AudioConfig{
			SampleRate: 44100,
		},

		Features: FeaturesConfig{
			NumSubBands: 2,
		},

		Training: TrainingConfig{
			MinSamplesPerClass: 2,
			Classes:            []string{"word1", "word2"},
		},

		Model: ModelConfig{
			Path: filepath.Join(dataDir, modelFileName),
		},

		Processing: ProcessingConfig{
			MaxConcurrency: 4,
		},

		Output: GetDefaultOutputConfig(),
	}
}

// GetDefaultOutputConfig returns default output formatting settings
func GetDefaultOutputConfig() OutputConfig {
	return OutputConfig{
		Precision:          4,
		IncludeSpectrum:    false,
		IncludeDescriptors: false,
	}
}

