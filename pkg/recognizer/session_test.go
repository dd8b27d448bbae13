package recognizer

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/RyanBlaney/word-recognizer/pkg/audio"
)

// SessionTestSuite exercises the reference two-class workflow end to end
type SessionTestSuite struct {
	suite.Suite
	session *Session
}

func (s *SessionTestSuite) SetupTest() {
	session, err := NewSession(DefaultSessionConfig())
	s.Require().NoError(err)
	s.session = session
}

func tone(n int, cyclesPerBuffer float64) audio.Buffer {
	buf := make(audio.Buffer, n)
	for i := range buf {
		buf[i] = math.Sin(2 * math.Pi * cyclesPerBuffer * float64(i) / float64(n))
	}
	return buf
}

func (s *SessionTestSuite) TestProcessSilentBuffer() {
	sample := s.session.Process(audio.Buffer{0, 0, 0, 0})

	s.Equal([]float64{0, 0}, sample.Spectrum.Magnitudes)
	s.Equal(audio.FeatureVector{0, 0}, sample.Features)
	s.Equal(4, sample.SampleCount)
}

func (s *SessionTestSuite) TestProcessEmptyBuffer() {
	sample := s.session.Process(nil)

	s.Empty(sample.Spectrum.Magnitudes)
	s.Empty(sample.Spectrum.Frequencies)
	s.Equal(audio.FeatureVector{0, 0}, sample.Features)
	s.Zero(sample.Duration)
}

func (s *SessionTestSuite) TestProcessAllZeroBufferAnyBandCount() {
	for _, bands := range []int{1, 2, 5, 16} {
		pipeline, err := NewPipeline(audio.FeatureConfig{SampleRate: audio.DefaultSampleRate, NumSubBands: bands})
		s.Require().NoError(err)

		sample := pipeline.Process(make(audio.Buffer, 64))
		s.Equal(make(audio.FeatureVector, bands), sample.Features, "bands=%d", bands)
	}
}

func (s *SessionTestSuite) TestTrainAndClassifyFeatures() {
	s.Require().NoError(s.session.AddFeatures("word1", audio.FeatureVector{1, 0}))
	s.Require().NoError(s.session.AddFeatures("word1", audio.FeatureVector{1, 0}))
	s.Require().NoError(s.session.AddFeatures("word2", audio.FeatureVector{0, 1}))
	s.Require().NoError(s.session.AddFeatures("word2", audio.FeatureVector{0, 1}))

	set, err := s.session.Train()
	s.Require().NoError(err)

	p1, _ := set.Get("word1")
	p2, _ := set.Get("word2")
	s.Equal(audio.FeatureVector{1, 0}, p1.Centroid)
	s.Equal(audio.FeatureVector{0, 1}, p2.Centroid)

	result, err := s.session.ClassifyFeatures(audio.FeatureVector{0.9, 0.1})
	s.Require().NoError(err)
	s.Equal(Label("word1"), result.Label)

	d1, _ := result.DistanceTo("word1")
	d2, _ := result.DistanceTo("word2")
	s.InDelta(0.141, d1, 1e-3)
	s.InDelta(1.273, d2, 1e-3)
}

func (s *SessionTestSuite) TestTrainWithTooFewSamplesLeavesPrototypesUnchanged() {
	s.Require().NoError(s.session.AddFeatures("word1", audio.FeatureVector{1, 0}))
	s.Require().NoError(s.session.AddFeatures("word1", audio.FeatureVector{1, 0}))
	s.Require().NoError(s.session.AddFeatures("word2", audio.FeatureVector{0, 1}))

	_, err := s.session.Train()
	s.True(errors.Is(err, ErrInsufficientSamples))
	s.Nil(s.session.Prototypes())
	s.False(s.session.Trained())

	// a later successful training followed by a failing one keeps the first result
	s.Require().NoError(s.session.AddFeatures("word2", audio.FeatureVector{0, 1}))
	trained, err := s.session.Train()
	s.Require().NoError(err)

	s.session.Reset()
	s.Nil(s.session.Prototypes())

	s.Require().NoError(s.session.LoadPrototypes(trained))
	_, err = s.session.Train()
	s.True(errors.Is(err, ErrInsufficientSamples))
	s.Same(trained, s.session.Prototypes())
}

func (s *SessionTestSuite) TestClassifyBeforeTraining() {
	_, _, err := s.session.Classify(tone(256, 4))
	s.True(errors.Is(err, ErrNotTrained))

	_, err = s.session.ClassifyFeatures(audio.FeatureVector{0, 0})
	s.True(errors.Is(err, ErrNotTrained))
}

func (s *SessionTestSuite) TestAddSampleUnknownClass() {
	_, err := s.session.AddSample("word3", tone(64, 2))
	s.True(errors.Is(err, ErrUnknownClass))
	s.Equal(map[Label]int{"word1": 0, "word2": 0}, s.session.SampleCounts())
}

func (s *SessionTestSuite) TestAddFeaturesDimensionMismatch() {
	err := s.session.AddFeatures("word1", audio.FeatureVector{1, 2, 3})
	s.True(errors.Is(err, ErrDimensionMismatch))
}

func (s *SessionTestSuite) TestLoadPrototypesDimensionMismatch() {
	set, err := NewPrototypeSet([]ClassPrototype{
		{Label: "word1", Centroid: audio.FeatureVector{1, 0, 0}},
		{Label: "word2", Centroid: audio.FeatureVector{0, 1, 0}},
	}, testTime)
	s.Require().NoError(err)

	s.True(errors.Is(s.session.LoadPrototypes(set), ErrDimensionMismatch))
	s.False(s.session.Trained())
}

func (s *SessionTestSuite) TestRecognizesTonesFromRawBuffers() {
	const n = 1024
	// word1: low-frequency tones, word2: tones in the upper half of the spectrum
	for _, cycles := range []float64{10, 20, 30} {
		sample, err := s.session.AddSample("word1", tone(n, cycles))
		s.Require().NoError(err)
		s.Len(sample.Spectrum.Magnitudes, n/2)
	}
	for _, cycles := range []float64{300, 350, 400} {
		_, err := s.session.AddSample("word2", tone(n, cycles))
		s.Require().NoError(err)
	}
	s.Equal(map[Label]int{"word1": 3, "word2": 3}, s.session.SampleCounts())

	_, err := s.session.Train()
	s.Require().NoError(err)

	_, result, err := s.session.Classify(tone(n, 15))
	s.Require().NoError(err)
	s.Equal(Label("word1"), result.Label)

	_, result, err = s.session.Classify(tone(n, 380))
	s.Require().NoError(err)
	s.Equal(Label("word2"), result.Label)
}

func (s *SessionTestSuite) TestConcurrentClassificationDuringRetraining() {
	for i := 0; i < 2; i++ {
		s.Require().NoError(s.session.AddFeatures("word1", audio.FeatureVector{1, 0}))
		s.Require().NoError(s.session.AddFeatures("word2", audio.FeatureVector{0, 1}))
	}
	_, err := s.session.Train()
	s.Require().NoError(err)

	var wg sync.WaitGroup
	errs := make(chan error, 64)

	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := s.session.ClassifyFeatures(audio.FeatureVector{0.8, 0.2})
			if err != nil {
				errs <- err
				return
			}
			if result.Label != "word1" {
				errs <- errors.New("unexpected label " + string(result.Label))
			}
		}()
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.session.Train(); err != nil {
				errs <- err
			}
		}()
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		s.NoError(err)
	}
}

func TestSessionTestSuite(t *testing.T) {
	suite.Run(t, new(SessionTestSuite))
}
