package recognizer

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/word-recognizer/pkg/audio"
)

// ClassDistance is the Euclidean distance from a query to one prototype
type ClassDistance struct {
	Label    Label   `json:"label" yaml:"label"`
	Distance float64 `json:"distance" yaml:"distance"`
}

// Classification holds the predicted label and the distance to every class
type Classification struct {
	Label     Label           `json:"label" yaml:"label"`
	Distance  float64         `json:"distance" yaml:"distance"`
	Distances []ClassDistance `json:"distances" yaml:"distances"`
}

// EuclideanDistance returns sqrt(sum((a_i - b_i)^2))
func EuclideanDistance(a, b audio.FeatureVector) (float64, error) {
	if a.Dim() != b.Dim() {
		return 0, NewError(ErrCodeDimensionMismatch,
			fmt.Sprintf("cannot compare vectors of %d and %d sub-bands", a.Dim(), b.Dim()), "", nil)
	}
	if a.Dim() == 0 {
		return 0, nil
	}
	return floats.Distance(a, b, 2), nil
}

// Classify returns the prototype closest to query. On equal distances the
// prototype earlier in the set's order wins.
func Classify(query audio.FeatureVector, prototypes *PrototypeSet) (*Classification, error) {
	if prototypes.Len() == 0 {
		return nil, NewError(ErrCodeNotTrained, "classification requested before training", "", nil)
	}
	if query.Dim() != prototypes.Dim() {
		return nil, NewError(ErrCodeDimensionMismatch,
			fmt.Sprintf("query has %d sub-bands, prototypes have %d", query.Dim(), prototypes.Dim()), "", nil)
	}

	result := &Classification{
		Distances: make([]ClassDistance, 0, prototypes.Len()),
	}

	best := -1
	for i, p := range prototypes.prototypes {
		d := floats.Distance(query, p.Centroid, 2)
		result.Distances = append(result.Distances, ClassDistance{Label: p.Label, Distance: d})
		if best < 0 || d < result.Distance {
			best = i
			result.Label = p.Label
			result.Distance = d
		}
	}

	return result, nil
}

// DistanceTo returns the distance recorded for label
func (c *Classification) DistanceTo(label Label) (float64, bool) {
	for _, d := range c.Distances {
		if d.Label == label {
			return d.Distance, true
		}
	}
	return 0, false
}
