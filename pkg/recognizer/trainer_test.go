package recognizer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/word-recognizer/pkg/audio"
)

func TestMeanVector(t *testing.T) {
	mean, err := MeanVector([]audio.FeatureVector{
		{1, 2, 3},
		{3, 4, 5},
	})
	require.NoError(t, err)
	assert.Equal(t, audio.FeatureVector{2, 3, 4}, mean)
}

func TestMeanOfRepeatedVector(t *testing.T) {
	v := audio.FeatureVector{0.5, 0.25, 2, 0}

	for k := 1; k <= 8; k++ {
		vectors := make([]audio.FeatureVector, k)
		for i := range vectors {
			vectors[i] = v
		}
		mean, err := MeanVector(vectors)
		require.NoError(t, err)
		assert.Equal(t, v, mean, "k=%d", k)
	}

	irregular := audio.FeatureVector{0.1, 1e-7, 3.3}
	mean, err := MeanVector([]audio.FeatureVector{irregular, irregular, irregular})
	require.NoError(t, err)
	assert.InDeltaSlice(t, irregular, mean, 1e-15)
}

func TestMeanVectorErrors(t *testing.T) {
	_, err := MeanVector(nil)
	assert.True(t, errors.Is(err, ErrInsufficientSamples))

	_, err = MeanVector([]audio.FeatureVector{{1, 2}, {1}})
	assert.True(t, errors.Is(err, ErrDimensionMismatch))
}

func TestComputePrototypeRequiresMinimum(t *testing.T) {
	_, err := ComputePrototype("word1", []audio.FeatureVector{{1, 0}}, 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientSamples))

	var rerr *Error
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, Label("word1"), rerr.Label)
	assert.Equal(t, ErrCodeInsufficientSamples, rerr.Code)

	p, err := ComputePrototype("word1", []audio.FeatureVector{{1, 0}, {0, 1}}, 2)
	require.NoError(t, err)
	assert.Equal(t, audio.FeatureVector{0.5, 0.5}, p.Centroid)
	assert.Equal(t, 2, p.SampleCount)
}

func TestTrainingPolicyValidate(t *testing.T) {
	assert.NoError(t, DefaultTrainingPolicy().Validate())

	tests := []TrainingPolicy{
		{Classes: nil, MinSamplesPerClass: 2},
		{Classes: []Label{"a", "a"}, MinSamplesPerClass: 2},
		{Classes: []Label{"a", ""}, MinSamplesPerClass: 2},
		{Classes: []Label{"a", "b"}, MinSamplesPerClass: 0},
	}
	for _, policy := range tests {
		err := policy.Validate()
		assert.True(t, errors.Is(err, ErrInvalidConfig), "policy %+v", policy)
	}
}

func TestTrainIsAllOrNothing(t *testing.T) {
	trainer, err := NewTrainer(DefaultTrainingPolicy(), nil)
	require.NoError(t, err)

	ts := NewTrainingSet()
	ts.Add("word1", audio.FeatureVector{1, 0})
	ts.Add("word1", audio.FeatureVector{1, 0})
	ts.Add("word2", audio.FeatureVector{0, 1})

	set, err := trainer.Train(ts)
	assert.Nil(t, set)
	assert.True(t, errors.Is(err, ErrInsufficientSamples))

	var rerr *Error
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, Label("word2"), rerr.Label)
}

func TestTrainIsIdempotent(t *testing.T) {
	trainer, err := NewTrainer(DefaultTrainingPolicy(), nil)
	require.NoError(t, err)

	ts := NewTrainingSet()
	ts.Add("word2", audio.FeatureVector{0.2, 0.9})
	ts.Add("word1", audio.FeatureVector{1.5, 0.1})
	ts.Add("word1", audio.FeatureVector{0.5, 0.3})
	ts.Add("word2", audio.FeatureVector{0.4, 0.7})

	first, err := trainer.Train(ts)
	require.NoError(t, err)
	second, err := trainer.Train(ts)
	require.NoError(t, err)

	assert.Equal(t, first.All(), second.All())
	// class order comes from the policy, not from insertion order
	assert.Equal(t, []Label{"word1", "word2"}, first.Labels())

	p, ok := first.Get("word1")
	require.True(t, ok)
	assert.InDeltaSlice(t, []float64{1.0, 0.2}, p.Centroid, 1e-12)
}

func TestTrainIgnoresUnknownLabels(t *testing.T) {
	trainer, err := NewTrainer(DefaultTrainingPolicy(), nil)
	require.NoError(t, err)

	ts := NewTrainingSet()
	for i := 0; i < 2; i++ {
		ts.Add("word1", audio.FeatureVector{1, 0})
		ts.Add("word2", audio.FeatureVector{0, 1})
		ts.Add("noise", audio.FeatureVector{5, 5})
	}

	set, err := trainer.Train(ts)
	require.NoError(t, err)
	assert.Equal(t, 2, set.Len())
	_, ok := set.Get("noise")
	assert.False(t, ok)
}

func TestTrainRejectsMixedDimensions(t *testing.T) {
	trainer, err := NewTrainer(DefaultTrainingPolicy(), nil)
	require.NoError(t, err)

	ts := NewTrainingSet()
	ts.Add("word1", audio.FeatureVector{1, 0})
	ts.Add("word1", audio.FeatureVector{1, 0})
	ts.Add("word2", audio.FeatureVector{0, 1, 0})
	ts.Add("word2", audio.FeatureVector{0, 1, 0})

	_, err = trainer.Train(ts)
	assert.True(t, errors.Is(err, ErrDimensionMismatch))
}

func TestNewPrototypeSetValidation(t *testing.T) {
	_, err := NewPrototypeSet(nil, testTime)
	assert.True(t, errors.Is(err, ErrInvalidConfig))

	_, err = NewPrototypeSet([]ClassPrototype{
		{Label: "a", Centroid: audio.FeatureVector{1}},
		{Label: "a", Centroid: audio.FeatureVector{2}},
	}, testTime)
	assert.True(t, errors.Is(err, ErrInvalidConfig))

	_, err = NewPrototypeSet([]ClassPrototype{
		{Label: "a", Centroid: audio.FeatureVector{1}},
		{Label: "b", Centroid: audio.FeatureVector{2, 3}},
	}, testTime)
	assert.True(t, errors.Is(err, ErrDimensionMismatch))
}

func TestPrototypeSetIsImmutable(t *testing.T) {
	centroid := audio.FeatureVector{1, 2}
	set, err := NewPrototypeSet([]ClassPrototype{{Label: "a", Centroid: centroid}}, testTime)
	require.NoError(t, err)

	centroid[0] = 99
	p, _ := set.Get("a")
	assert.Equal(t, audio.FeatureVector{1, 2}, p.Centroid)

	p.Centroid[1] = 42
	again, _ := set.Get("a")
	assert.Equal(t, audio.FeatureVector{1, 2}, again.Centroid)
	assert.Equal(t, testTime, set.TrainedAt())
}
