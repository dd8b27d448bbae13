package app

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/RyanBlaney/word-recognizer/configs"
	"github.com/RyanBlaney/word-recognizer/pkg/audio"
	"github.com/RyanBlaney/word-recognizer/pkg/recognizer"
)

// Manifest lists labelled training recordings
type Manifest struct {
	Classes map[string][]string `json:"classes" yaml:"classes"`

	// directory the manifest was read from; relative paths resolve against it
	baseDir string
}

// Entries returns the manifest recordings as absolute paths, grouped by label
// in the order given by classes. Labels missing from the manifest yield no entries.
func (m *Manifest) Entries(classes []recognizer.Label) map[recognizer.Label][]string {
	entries := make(map[recognizer.Label][]string, len(m.Classes))
	for _, label := range classes {
		for _, p := range m.Classes[string(label)] {
			if !filepath.IsAbs(p) {
				p = filepath.Join(m.baseDir, p)
			}
			entries[label] = append(entries[label], p)
		}
	}
	return entries
}

// Validate checks that every manifest label belongs to the training policy
func (m *Manifest) Validate(policy recognizer.TrainingPolicy) error {
	if len(m.Classes) == 0 {
		return fmt.Errorf("manifest lists no classes")
	}
	for label, files := range m.Classes {
		if !policy.Has(recognizer.Label(label)) {
			return recognizer.NewError(recognizer.ErrCodeUnknownClass,
				"manifest label is not a configured training class", recognizer.Label(label), nil)
		}
		if len(files) == 0 {
			return fmt.Errorf("manifest class %q lists no recordings", label)
		}
	}
	return nil
}

// loadManifestFromFile loads a training manifest from a file
func loadManifestFromFile(filePath string) (*Manifest, error) {
	// Check if file exists
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("manifest file does not exist: %s", filePath)
	}

	var (
		manifest *Manifest
		err      error
	)

	// Determine file format
	switch filepath.Ext(filePath) {
	case ".yaml", ".yml":
		manifest, err = loadManifestFromYAML(filePath)
	case ".json":
		manifest, err = loadManifestFromJSON(filePath)
	default:
		// Try YAML first, then JSON
		if manifest, err = loadManifestFromYAML(filePath); err != nil {
			manifest, err = loadManifestFromJSON(filePath)
		}
	}
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve manifest path: %w", err)
	}
	manifest.baseDir = filepath.Dir(abs)

	return manifest, nil
}

// loadManifestFromYAML loads a manifest from YAML file
func loadManifestFromYAML(filePath string) (*Manifest, error) {
	data, err := readFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read YAML manifest: %w", err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse YAML manifest: %w", err)
	}

	return &manifest, nil
}

// loadManifestFromJSON loads a manifest from JSON file
func loadManifestFromJSON(filePath string) (*Manifest, error) {
	data, err := readFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON manifest: %w", err)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse JSON manifest: %w", err)
	}

	return &manifest, nil
}

func readFile(filePath string) ([]byte, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}

// loadAndMergeConfig loads configuration from viper and applies CLI overrides
func loadAndMergeConfig(ctx *Context) (*configs.Config, error) {
	config, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load base configuration: %w", err)
	}

	if ctx.OutputFormat != "" {
		config.OutputFormat = ctx.OutputFormat
	}
	if ctx.Verbose {
		config.Verbose = true
	}

	if err := configs.ValidateConfig(config); err != nil {
		return nil, recognizer.NewError(recognizer.ErrCodeInvalidConfig, err.Error(), "", err)
	}

	return config, nil
}

// sessionConfig maps application configuration onto the recognizer session
func sessionConfig(config *configs.Config) recognizer.SessionConfig {
	classes := make([]recognizer.Label, len(config.Training.Classes))
	for i, c := range config.Training.Classes {
		classes[i] = recognizer.Label(c)
	}

	return recognizer.SessionConfig{
		Features: audio.FeatureConfig{
			SampleRate:  config.Audio.SampleRate,
			NumSubBands: config.Features.NumSubBands,
		},
		Policy: recognizer.TrainingPolicy{
			Classes:            classes,
			MinSamplesPerClass: config.Training.MinSamplesPerClass,
		},
	}
}
