package recognizer

import (
	"fmt"
	"time"

	"github.com/RyanBlaney/latency-benchmark-common/logging"
	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/word-recognizer/pkg/audio"
)

// DefaultMinSamplesPerClass is the reference number of recordings each class
// needs before training may run.
const DefaultMinSamplesPerClass = 2

// DefaultClasses are the two reference word classes, in tie-break order.
var DefaultClasses = []Label{"word1", "word2"}

// TrainingPolicy decides which classes must be present, and how many
// samples each needs, before a training call may proceed.
type TrainingPolicy struct {
	Classes            []Label `json:"classes" yaml:"classes"`
	MinSamplesPerClass int     `json:"min_samples_per_class" yaml:"min_samples_per_class"`
}

// DefaultTrainingPolicy returns the reference two-class policy
func DefaultTrainingPolicy() TrainingPolicy {
	classes := make([]Label, len(DefaultClasses))
	copy(classes, DefaultClasses)
	return TrainingPolicy{
		Classes:            classes,
		MinSamplesPerClass: DefaultMinSamplesPerClass,
	}
}

// Validate checks the policy names at least one class, without duplicates
func (p TrainingPolicy) Validate() error {
	if len(p.Classes) == 0 {
		return NewError(ErrCodeInvalidConfig, "training policy must name at least one class", "", nil)
	}
	if p.MinSamplesPerClass < 1 {
		return NewError(ErrCodeInvalidConfig,
			fmt.Sprintf("minimum samples per class must be at least 1, got %d", p.MinSamplesPerClass), "", nil)
	}
	seen := make(map[Label]struct{}, len(p.Classes))
	for _, label := range p.Classes {
		if label == "" {
			return NewError(ErrCodeInvalidConfig, "class labels must not be empty", "", nil)
		}
		if _, dup := seen[label]; dup {
			return NewError(ErrCodeInvalidConfig, fmt.Sprintf("duplicate class label %q", label), label, nil)
		}
		seen[label] = struct{}{}
	}
	return nil
}

// Has reports whether label is one of the policy's classes
func (p TrainingPolicy) Has(label Label) bool {
	for _, l := range p.Classes {
		if l == label {
			return true
		}
	}
	return false
}

// MeanVector returns the element-wise arithmetic mean of vectors
func MeanVector(vectors []audio.FeatureVector) (audio.FeatureVector, error) {
	if len(vectors) == 0 {
		return nil, NewError(ErrCodeInsufficientSamples, "cannot average zero feature vectors", "", nil)
	}

	dim := vectors[0].Dim()
	sum := make([]float64, dim)
	for i, v := range vectors {
		if v.Dim() != dim {
			return nil, NewError(ErrCodeDimensionMismatch,
				fmt.Sprintf("feature vector %d has %d sub-bands, expected %d", i, v.Dim(), dim), "", nil)
		}
		floats.Add(sum, v)
	}
	n := float64(len(vectors))
	for i := range sum {
		sum[i] /= n
	}

	return audio.FeatureVector(sum), nil
}

// ComputePrototype averages the vectors of one class. It fails with
// INSUFFICIENT_SAMPLES when fewer than minSamples vectors are given.
func ComputePrototype(label Label, vectors []audio.FeatureVector, minSamples int) (ClassPrototype, error) {
	if len(vectors) < minSamples {
		return ClassPrototype{}, NewError(ErrCodeInsufficientSamples,
			fmt.Sprintf("class %q has %d samples, at least %d required", label, len(vectors), minSamples),
			label, nil)
	}

	centroid, err := MeanVector(vectors)
	if err != nil {
		if rerr, ok := err.(*Error); ok {
			rerr.Label = label
		}
		return ClassPrototype{}, err
	}

	return ClassPrototype{
		Label:       label,
		Centroid:    centroid,
		SampleCount: len(vectors),
	}, nil
}

// Trainer builds prototype sets from training sets under a policy
type Trainer struct {
	policy TrainingPolicy
	logger logging.Logger
	now    func() time.Time
}

// NewTrainer creates a trainer for the given policy
func NewTrainer(policy TrainingPolicy, logger logging.Logger) (*Trainer, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	classes := make([]Label, len(policy.Classes))
	copy(classes, policy.Classes)
	policy.Classes = classes

	return &Trainer{
		policy: policy,
		logger: logger.WithFields(logging.Fields{
			"component": "prototype_trainer",
		}),
		now: time.Now,
	}, nil
}

// Policy returns the trainer's policy
func (t *Trainer) Policy() TrainingPolicy {
	return t.policy
}

// Train computes one prototype per policy class. Every class is checked
// before any centroid is computed, so a failing call produces nothing.
// Samples recorded under labels outside the policy are ignored.
func (t *Trainer) Train(ts *TrainingSet) (*PrototypeSet, error) {
	if ts == nil {
		ts = NewTrainingSet()
	}

	for _, label := range t.policy.Classes {
		if count := ts.Count(label); count < t.policy.MinSamplesPerClass {
			t.logger.Warn("Training rejected, not enough samples", logging.Fields{
				"label":       label,
				"samples":     count,
				"min_samples": t.policy.MinSamplesPerClass,
			})
			return nil, NewError(ErrCodeInsufficientSamples,
				fmt.Sprintf("class %q has %d samples, at least %d required", label, count, t.policy.MinSamplesPerClass),
				label, nil)
		}
	}

	for _, label := range ts.Labels() {
		if !t.policy.Has(label) {
			t.logger.Warn("Ignoring samples for label outside training policy", logging.Fields{
				"label":   label,
				"samples": ts.Count(label),
			})
		}
	}

	prototypes := make([]ClassPrototype, 0, len(t.policy.Classes))
	for _, label := range t.policy.Classes {
		p, err := ComputePrototype(label, ts.Samples(label), t.policy.MinSamplesPerClass)
		if err != nil {
			return nil, err
		}
		prototypes = append(prototypes, p)
	}

	set, err := NewPrototypeSet(prototypes, t.now())
	if err != nil {
		return nil, err
	}

	t.logger.Info("Training completed", logging.Fields{
		"classes":       len(prototypes),
		"num_sub_bands": set.Dim(),
	})

	return set, nil
}
