package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/RyanBlaney/latency-benchmark-common/logging"
	"gopkg.in/yaml.v3"

	"github.com/RyanBlaney/word-recognizer/pkg/audio"
	"github.com/RyanBlaney/word-recognizer/pkg/recognizer"
)

// CurrentVersion is the model file format version written by Save
const CurrentVersion = 1

// ErrIncompatibleModel is returned when a stored model was trained with a
// different feature configuration than the one requested
var ErrIncompatibleModel = errors.New("model was trained with a different feature configuration")

// File is the on-disk form of a trained prototype set
type File struct {
	Version     int          `json:"version" yaml:"version"`
	SampleRate  int          `json:"sample_rate" yaml:"sample_rate"`
	NumSubBands int          `json:"num_sub_bands" yaml:"num_sub_bands"`
	TrainedAt   time.Time    `json:"trained_at" yaml:"trained_at"`
	Classes     []ClassEntry `json:"classes" yaml:"classes"`
}

// ClassEntry is one stored prototype
type ClassEntry struct {
	Label       string    `json:"label" yaml:"label"`
	Centroid    []float64 `json:"centroid" yaml:"centroid"`
	SampleCount int       `json:"sample_count" yaml:"sample_count"`
}

// Store persists prototype sets to a single file. The format follows the
// file extension: .json is JSON, anything else YAML.
type Store struct {
	path   string
	logger logging.Logger
}

// NewStore creates a store backed by path
func NewStore(path string, logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &Store{
		path: path,
		logger: logger.WithFields(logging.Fields{
			"component":  "model_store",
			"model_path": path,
		}),
	}
}

// Path returns the backing file path
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether a model file is present
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Save writes set atomically through a temporary file
func (s *Store) Save(set *recognizer.PrototypeSet, config audio.FeatureConfig) error {
	if set.Len() == 0 {
		return fmt.Errorf("cannot save an empty prototype set")
	}

	file := File{
		Version:     CurrentVersion,
		SampleRate:  config.SampleRate,
		NumSubBands: config.NumSubBands,
		TrainedAt:   set.TrainedAt().UTC(),
	}
	for _, p := range set.All() {
		file.Classes = append(file.Classes, ClassEntry{
			Label:       string(p.Label),
			Centroid:    p.Centroid,
			SampleCount: p.SampleCount,
		})
	}

	data, err := s.marshal(&file)
	if err != nil {
		return fmt.Errorf("failed to marshal model: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp model file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp model file: %w", err)
	}

	s.logger.Info("Model saved", logging.Fields{
		"classes":       len(file.Classes),
		"num_sub_bands": file.NumSubBands,
		"size_bytes":    len(data),
	})
	return nil
}

// Load reads the stored model and checks it matches config
func (s *Store) Load(config audio.FeatureConfig) (*recognizer.PrototypeSet, *File, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read model file: %w", err)
	}

	var file File
	if err := s.unmarshal(data, &file); err != nil {
		return nil, nil, fmt.Errorf("failed to parse model file %s: %w", s.path, err)
	}

	if file.Version > CurrentVersion {
		return nil, nil, fmt.Errorf("model file version %d is newer than supported version %d", file.Version, CurrentVersion)
	}
	if file.SampleRate != config.SampleRate || file.NumSubBands != config.NumSubBands {
		return nil, nil, fmt.Errorf("%w: model has %d Hz / %d sub-bands, configured %d Hz / %d sub-bands",
			ErrIncompatibleModel, file.SampleRate, file.NumSubBands, config.SampleRate, config.NumSubBands)
	}

	prototypes := make([]recognizer.ClassPrototype, 0, len(file.Classes))
	for _, c := range file.Classes {
		if len(c.Centroid) != file.NumSubBands {
			return nil, nil, fmt.Errorf("%w: class %q has %d sub-bands, model declares %d",
				recognizer.ErrDimensionMismatch, c.Label, len(c.Centroid), file.NumSubBands)
		}
		prototypes = append(prototypes, recognizer.ClassPrototype{
			Label:       recognizer.Label(c.Label),
			Centroid:    audio.FeatureVector(c.Centroid),
			SampleCount: c.SampleCount,
		})
	}

	set, err := recognizer.NewPrototypeSet(prototypes, file.TrainedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid model file %s: %w", s.path, err)
	}

	s.logger.Debug("Model loaded", logging.Fields{
		"classes":    set.Len(),
		"trained_at": file.TrainedAt,
	})
	return set, &file, nil
}

func (s *Store) marshal(file *File) ([]byte, error) {
	if filepath.Ext(s.path) == ".json" {
		return json.MarshalIndent(file, "", "  ")
	}
	return yaml.Marshal(file)
}

func (s *Store) unmarshal(data []byte, file *File) error {
	if filepath.Ext(s.path) == ".json" {
		return json.Unmarshal(data, file)
	}
	return yaml.Unmarshal(data, file)
}
