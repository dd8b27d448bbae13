package configs

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	// Application settings
	Verbose      bool   `mapstructure:"verbose"`
	LogLevel     string `mapstructure:"log_level"`
	OutputFormat string `mapstructure:"output_format"`
	ConfigDir    string `mapstructure:"config_dir"`
	DataDir      string `mapstructure:"data_dir"`

	// Audio input configuration
	Audio AudioConfig `mapstructure:"audio"`

	// Feature extraction configuration
	Features FeaturesConfig `mapstructure:"features"`

	// Training policy
	Training TrainingConfig `mapstructure:"training"`

	// Model persistence
	Model ModelConfig `mapstructure:"model"`

	// Batch processing
	Processing ProcessingConfig `mapstructure:"processing"`

	// Output configuration
	Output OutputConfig `mapstructure:"output"`
}

// AudioConfig contains audio input settings
type AudioConfig struct {
	SampleRate int `mapstructure:"sample_rate"`
}

// FeaturesConfig contains feature extraction settings
type FeaturesConfig struct {
	NumSubBands int `mapstructure:"num_sub_bands"`
}

// TrainingConfig contains the training policy
type TrainingConfig struct {
	MinSamplesPerClass int      `mapstructure:"min_samples_per_class"`
	Classes            []string `mapstructure:"classes"`
}

// ModelConfig contains model persistence settings
type ModelConfig struct {
	Path string `mapstructure:"path"`
}

// ProcessingConfig contains batch processing settings
type ProcessingConfig struct {
	MaxConcurrency int `mapstructure:"max_concurrency"`
}

// OutputConfig contains output formatting settings
type OutputConfig struct {
	Precision          int  `mapstructure:"precision"`
	IncludeSpectrum    bool `mapstructure:"include_spectrum"`
	IncludeDescriptors bool `mapstructure:"include_descriptors"`
}

// LoadConfig loads configuration from viper
func LoadConfig() (*Config, error) {
	return loadFrom(viper.GetViper())
}

func loadFrom(v *viper.Viper) (*Config, error) {
	config := &Config{}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}

	if config.Model.Path == "" && config.DataDir != "" {
		config.Model.Path = filepath.Join(config.DataDir, modelFileName)
	}

	return config, nil
}

// ValidateConfig validates the configuration
func ValidateConfig(config *Config) error {
	if config.Audio.SampleRate <= 0 {
		return fmt.Errorf("audio sample rate must be positive")
	}

	if config.Features.NumSubBands <= 0 {
		return fmt.Errorf("number of sub-bands must be positive")
	}

	if config.Training.MinSamplesPerClass < 1 {
		return fmt.Errorf("minimum samples per class must be at least 1")
	}

	if len(config.Training.Classes) == 0 {
		return fmt.Errorf("at least one training class is required")
	}

	seen := make(map[string]bool, len(config.Training.Classes))
	for _, c := range config.Training.Classes {
		if strings.TrimSpace(c) == "" {
			return fmt.Errorf("training class labels cannot be empty")
		}
		if seen[c] {
			return fmt.Errorf("duplicate training class %q", c)
		}
		seen[c] = true
	}

	if config.Processing.MaxConcurrency <= 0 {
		return fmt.Errorf("max concurrency must be positive")
	}

	if config.Output.Precision < 0 {
		return fmt.Errorf("output precision cannot be negative")
	}

	switch config.OutputFormat {
	case "json", "yaml", "csv", "table":
	default:
		return fmt.Errorf("unsupported output format %q", config.OutputFormat)
	}

	return nil
}
