package recognizer

import (
	"fmt"
	"time"

	"github.com/RyanBlaney/word-recognizer/pkg/audio"
)

// Label identifies one word class
type Label string

// ClassPrototype is the mean feature vector of every training sample of one class
type ClassPrototype struct {
	Label       Label               `json:"label" yaml:"label"`
	Centroid    audio.FeatureVector `json:"centroid" yaml:"centroid"`
	SampleCount int                 `json:"sample_count" yaml:"sample_count"`
}

// PrototypeSet is an immutable, ordered set of class prototypes sharing one
// dimension. Order is the classification tie-break order.
type PrototypeSet struct {
	prototypes []ClassPrototype
	index      map[Label]int
	dim        int
	trainedAt  time.Time
}

// NewPrototypeSet validates and copies the given prototypes. The set must be
// non-empty, labels unique, and every centroid the same non-zero length.
func NewPrototypeSet(prototypes []ClassPrototype, trainedAt time.Time) (*PrototypeSet, error) {
	if len(prototypes) == 0 {
		return nil, NewError(ErrCodeInvalidConfig, "prototype set must contain at least one class", "", nil)
	}

	set := &PrototypeSet{
		prototypes: make([]ClassPrototype, len(prototypes)),
		index:      make(map[Label]int, len(prototypes)),
		dim:        prototypes[0].Centroid.Dim(),
		trainedAt:  trainedAt,
	}
	if set.dim == 0 {
		return nil, NewError(ErrCodeInvalidConfig, "prototype centroids must not be empty", prototypes[0].Label, nil)
	}

	for i, p := range prototypes {
		if _, dup := set.index[p.Label]; dup {
			return nil, NewError(ErrCodeInvalidConfig,
				fmt.Sprintf("duplicate prototype label %q", p.Label), p.Label, nil)
		}
		if p.Centroid.Dim() != set.dim {
			return nil, NewError(ErrCodeDimensionMismatch,
				fmt.Sprintf("prototype %q has %d sub-bands, expected %d", p.Label, p.Centroid.Dim(), set.dim),
				p.Label, nil)
		}
		set.index[p.Label] = i
		set.prototypes[i] = ClassPrototype{
			Label:       p.Label,
			Centroid:    p.Centroid.Clone(),
			SampleCount: p.SampleCount,
		}
	}

	return set, nil
}

// Len returns the number of classes
func (s *PrototypeSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.prototypes)
}

// Dim returns the shared centroid length
func (s *PrototypeSet) Dim() int {
	if s == nil {
		return 0
	}
	return s.dim
}

// TrainedAt returns when the set was produced
func (s *PrototypeSet) TrainedAt() time.Time {
	return s.trainedAt
}

// Labels returns the class labels in tie-break order
func (s *PrototypeSet) Labels() []Label {
	labels := make([]Label, len(s.prototypes))
	for i, p := range s.prototypes {
		labels[i] = p.Label
	}
	return labels
}

// Get returns a copy of the prototype for label
func (s *PrototypeSet) Get(label Label) (ClassPrototype, bool) {
	i, ok := s.index[label]
	if !ok {
		return ClassPrototype{}, false
	}
	p := s.prototypes[i]
	p.Centroid = p.Centroid.Clone()
	return p, true
}

// All returns copies of every prototype in order
func (s *PrototypeSet) All() []ClassPrototype {
	out := make([]ClassPrototype, len(s.prototypes))
	for i, p := range s.prototypes {
		p.Centroid = p.Centroid.Clone()
		out[i] = p
	}
	return out
}

// TrainingSet collects feature vectors per class label. Labels keep their
// first-insertion order; the order of vectors within a class does not affect
// training.
type TrainingSet struct {
	order   []Label
	samples map[Label][]audio.FeatureVector
}

// NewTrainingSet creates an empty training set
func NewTrainingSet() *TrainingSet {
	return &TrainingSet{
		samples: make(map[Label][]audio.FeatureVector),
	}
}

// Add records one feature vector for label
func (ts *TrainingSet) Add(label Label, v audio.FeatureVector) {
	if _, ok := ts.samples[label]; !ok {
		ts.order = append(ts.order, label)
	}
	ts.samples[label] = append(ts.samples[label], v.Clone())
}

// Samples returns the vectors recorded for label
func (ts *TrainingSet) Samples(label Label) []audio.FeatureVector {
	return ts.samples[label]
}

// Count returns the number of vectors recorded for label
func (ts *TrainingSet) Count(label Label) int {
	return len(ts.samples[label])
}

// Labels returns every label with at least one sample, in insertion order
func (ts *TrainingSet) Labels() []Label {
	out := make([]Label, len(ts.order))
	copy(out, ts.order)
	return out
}

// Clone returns a deep copy
func (ts *TrainingSet) Clone() *TrainingSet {
	out := NewTrainingSet()
	for _, label := range ts.order {
		for _, v := range ts.samples[label] {
			out.Add(label, v)
		}
	}
	return out
}
