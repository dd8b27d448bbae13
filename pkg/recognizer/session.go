package recognizer

import (
	"fmt"
	"sync"

	"github.com/RyanBlaney/latency-benchmark-common/logging"

	"github.com/RyanBlaney/word-recognizer/pkg/audio"
)

// Session owns the recorded training samples and the current prototype set.
// Retraining and loading take the write lock; classification and reads take
// the read lock, so concurrent classification is safe.
type Session struct {
	mu         sync.RWMutex
	pipeline   *Pipeline
	trainer    *Trainer
	training   *TrainingSet
	prototypes *PrototypeSet
	logger     logging.Logger
}

// SessionConfig holds everything a session needs
type SessionConfig struct {
	Features audio.FeatureConfig
	Policy   TrainingPolicy
	Logger   logging.Logger
}

// DefaultSessionConfig returns the reference two-class, two-band configuration
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		Features: audio.DefaultFeatureConfig(),
		Policy:   DefaultTrainingPolicy(),
	}
}

// NewSession creates an untrained session
func NewSession(config SessionConfig) (*Session, error) {
	logger := config.Logger
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	pipeline, err := NewPipeline(config.Features)
	if err != nil {
		return nil, err
	}

	trainer, err := NewTrainer(config.Policy, logger)
	if err != nil {
		return nil, err
	}

	return &Session{
		pipeline: pipeline,
		trainer:  trainer,
		training: NewTrainingSet(),
		logger: logger.WithFields(logging.Fields{
			"component":     "recognizer_session",
			"num_sub_bands": config.Features.NumSubBands,
		}),
	}, nil
}

// Pipeline returns the session's processing pipeline
func (s *Session) Pipeline() *Pipeline {
	return s.pipeline
}

// Policy returns the session's training policy
func (s *Session) Policy() TrainingPolicy {
	return s.trainer.Policy()
}

// Process runs the pipeline without touching session state
func (s *Session) Process(buf audio.Buffer) *ProcessedSample {
	return s.pipeline.Process(buf)
}

// AddSample processes buf and records its feature vector under label
func (s *Session) AddSample(label Label, buf audio.Buffer) (*ProcessedSample, error) {
	if !s.trainer.Policy().Has(label) {
		return nil, NewError(ErrCodeUnknownClass, fmt.Sprintf("label %q is not a configured class", label), label, nil)
	}

	sample := s.pipeline.Process(buf)
	if err := s.AddFeatures(label, sample.Features); err != nil {
		return nil, err
	}
	return sample, nil
}

// AddFeatures records an already extracted feature vector under label
func (s *Session) AddFeatures(label Label, v audio.FeatureVector) error {
	if !s.trainer.Policy().Has(label) {
		return NewError(ErrCodeUnknownClass, fmt.Sprintf("label %q is not a configured class", label), label, nil)
	}
	if v.Dim() != s.pipeline.Config().NumSubBands {
		return NewError(ErrCodeDimensionMismatch,
			fmt.Sprintf("feature vector has %d sub-bands, session uses %d", v.Dim(), s.pipeline.Config().NumSubBands),
			label, nil)
	}

	s.mu.Lock()
	s.training.Add(label, v)
	count := s.training.Count(label)
	s.mu.Unlock()

	s.logger.Debug("Training sample recorded", logging.Fields{
		"label":   label,
		"samples": count,
	})
	return nil
}

// SampleCounts returns the number of recorded samples for every policy class
func (s *Session) SampleCounts() map[Label]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[Label]int, len(s.trainer.Policy().Classes))
	for _, label := range s.trainer.Policy().Classes {
		counts[label] = s.training.Count(label)
	}
	return counts
}

// TrainingSet returns a copy of the recorded samples
func (s *Session) TrainingSet() *TrainingSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.training.Clone()
}

// Train rebuilds the prototypes from every recorded sample. The previous
// prototypes are kept untouched when training fails.
func (s *Session) Train() (*PrototypeSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.trainer.Train(s.training)
	if err != nil {
		return nil, err
	}
	s.prototypes = set
	return set, nil
}

// LoadPrototypes replaces the current prototypes with a previously trained set
func (s *Session) LoadPrototypes(set *PrototypeSet) error {
	if set.Len() == 0 {
		return NewError(ErrCodeInvalidConfig, "cannot load an empty prototype set", "", nil)
	}
	if set.Dim() != s.pipeline.Config().NumSubBands {
		return NewError(ErrCodeDimensionMismatch,
			fmt.Sprintf("prototypes have %d sub-bands, session uses %d", set.Dim(), s.pipeline.Config().NumSubBands),
			"", nil)
	}

	s.mu.Lock()
	s.prototypes = set
	s.mu.Unlock()

	s.logger.Info("Prototypes loaded", logging.Fields{
		"classes": set.Len(),
	})
	return nil
}

// Prototypes returns the current prototype set, or nil when untrained
func (s *Session) Prototypes() *PrototypeSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prototypes
}

// Trained reports whether a prototype set is available
func (s *Session) Trained() bool {
	return s.Prototypes() != nil
}

// Reset discards all recorded samples and prototypes
func (s *Session) Reset() {
	s.mu.Lock()
	s.training = NewTrainingSet()
	s.prototypes = nil
	s.mu.Unlock()
}

// ClassifyFeatures classifies an already extracted feature vector
func (s *Session) ClassifyFeatures(v audio.FeatureVector) (*Classification, error) {
	s.mu.RLock()
	prototypes := s.prototypes
	s.mu.RUnlock()

	result, err := Classify(v, prototypes)
	if err != nil {
		s.logger.Warn("Classification failed", logging.Fields{
			"error": err.Error(),
		})
		return nil, err
	}

	s.logger.Debug("Classification completed", logging.Fields{
		"label":    result.Label,
		"distance": result.Distance,
	})
	return result, nil
}

// Classify processes buf and classifies its feature vector
func (s *Session) Classify(buf audio.Buffer) (*ProcessedSample, *Classification, error) {
	sample := s.pipeline.Process(buf)
	result, err := s.ClassifyFeatures(sample.Features)
	if err != nil {
		return sample, nil, err
	}
	return sample, result, nil
}
