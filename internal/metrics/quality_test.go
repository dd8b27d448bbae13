package metrics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/word-recognizer/pkg/audio"
	"github.com/RyanBlaney/word-recognizer/pkg/recognizer"
)

func trainedFixture(t *testing.T, word1, word2 []audio.FeatureVector) (*recognizer.TrainingSet, *recognizer.PrototypeSet) {
	t.Helper()
	ts := recognizer.NewTrainingSet()
	for _, v := range word1 {
		ts.Add("word1", v)
	}
	for _, v := range word2 {
		ts.Add("word2", v)
	}

	trainer, err := recognizer.NewTrainer(recognizer.DefaultTrainingPolicy(), nil)
	require.NoError(t, err)
	set, err := trainer.Train(ts)
	require.NoError(t, err)
	return ts, set
}

func TestTrainingQuality(t *testing.T) {
	ts, set := trainedFixture(t,
		[]audio.FeatureVector{{0, 0}, {2, 0}},
		[]audio.FeatureVector{{10, 3}, {10, 5}, {10, 4}},
	)

	report, err := NewCalculator(nil).TrainingQuality(ts, set)
	require.NoError(t, err)
	require.Len(t, report.Classes, 2)

	word1 := report.Classes[0].Spread
	assert.Equal(t, recognizer.Label("word1"), report.Classes[0].Label)
	assert.Equal(t, 2, word1.Count)
	assert.InDelta(t, 1.0, word1.Mean, 1e-12)
	assert.InDelta(t, 0.0, word1.StdDev, 1e-12)

	word2 := report.Classes[1].Spread
	assert.Equal(t, 3, word2.Count)
	assert.InDelta(t, 0.0, word2.Min, 1e-12)
	assert.InDelta(t, 1.0, word2.Max, 1e-12)
	assert.InDelta(t, 1.0, word2.Median, 1e-12)

	require.Len(t, report.Separations, 1)
	assert.InDelta(t, 9.848857801796104, report.Separations[0].Distance, 1e-9)
}

func TestTrainingQualityRequiresPrototypes(t *testing.T) {
	_, err := NewCalculator(nil).TrainingQuality(recognizer.NewTrainingSet(), nil)
	assert.True(t, errors.Is(err, recognizer.ErrNotTrained))
}

func TestGenerateInsights(t *testing.T) {
	calc := NewCalculator(nil)

	ts, set := trainedFixture(t,
		[]audio.FeatureVector{{1, 1}, {1, 1}},
		[]audio.FeatureVector{{1, 1}, {1, 1}},
	)
	report, err := calc.TrainingQuality(ts, set)
	require.NoError(t, err)

	insights := calc.GenerateInsights(report)
	require.NotEmpty(t, insights)
	assert.Contains(t, insights[0], "identical prototypes")

	ts, set = trainedFixture(t,
		[]audio.FeatureVector{{0, 0}, {0.1, 0}},
		[]audio.FeatureVector{{10, 0}, {10.1, 0}},
	)
	report, err = calc.TrainingQuality(ts, set)
	require.NoError(t, err)
	assert.Empty(t, calc.GenerateInsights(report))

	assert.Empty(t, calc.GenerateInsights(nil))
}

func TestCalculateStatsEmpty(t *testing.T) {
	stats := NewCalculator(nil).calculateStats(nil)
	assert.Equal(t, &DistanceStats{}, stats)
}

func TestPercentile(t *testing.T) {
	calc := NewCalculator(nil)
	assert.Equal(t, 2.5, calc.percentile([]float64{1, 2, 3, 4}, 50))
	assert.Equal(t, 7.0, calc.percentile([]float64{7}, 50))
	assert.Equal(t, 4.0, calc.percentile([]float64{1, 2, 3, 4}, 100))
}
