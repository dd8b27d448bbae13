package metrics

import (
	"fmt"
	"math"
	"sort"

	"github.com/RyanBlaney/latency-benchmark-common/logging"
	"gonum.org/v1/gonum/stat"

	"github.com/RyanBlaney/word-recognizer/pkg/recognizer"
)

// Calculator derives training-quality statistics from a training set and
// the prototypes trained from it
type Calculator struct {
	logger logging.Logger
}

// NewCalculator creates a new metrics calculator
func NewCalculator(logger logging.Logger) *Calculator {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	return &Calculator{
		logger: logger.WithFields(logging.Fields{
			"component": "training_metrics",
		}),
	}
}

// DistanceStats summarises distances from training vectors to their centroid
type DistanceStats struct {
	Mean   float64 `json:"mean" yaml:"mean"`
	Median float64 `json:"median" yaml:"median"`
	Min    float64 `json:"min" yaml:"min"`
	Max    float64 `json:"max" yaml:"max"`
	StdDev float64 `json:"std_dev" yaml:"std_dev"`
	Count  int     `json:"count" yaml:"count"`
}

// ClassQuality describes how tightly one class clusters around its centroid
type ClassQuality struct {
	Label  recognizer.Label `json:"label" yaml:"label"`
	Spread *DistanceStats   `json:"spread" yaml:"spread"`
}

// Separation is the distance between two class centroids
type Separation struct {
	A        recognizer.Label `json:"a" yaml:"a"`
	B        recognizer.Label `json:"b" yaml:"b"`
	Distance float64          `json:"distance" yaml:"distance"`
}

// QualityReport is the full training-quality analysis
type QualityReport struct {
	Classes     []ClassQuality `json:"classes" yaml:"classes"`
	Separations []Separation   `json:"separations" yaml:"separations"`
}

// TrainingQuality computes per-class spread and pairwise centroid separation
func (c *Calculator) TrainingQuality(ts *recognizer.TrainingSet, prototypes *recognizer.PrototypeSet) (*QualityReport, error) {
	if prototypes.Len() == 0 {
		return nil, recognizer.NewError(recognizer.ErrCodeNotTrained, "no prototypes to analyse", "", nil)
	}

	report := &QualityReport{}
	all := prototypes.All()

	for _, p := range all {
		samples := ts.Samples(p.Label)
		distances := make([]float64, 0, len(samples))
		for _, v := range samples {
			d, err := recognizer.EuclideanDistance(v, p.Centroid)
			if err != nil {
				return nil, fmt.Errorf("failed to measure spread of %q: %w", p.Label, err)
			}
			distances = append(distances, d)
		}
		report.Classes = append(report.Classes, ClassQuality{
			Label:  p.Label,
			Spread: c.calculateStats(distances),
		})
	}

	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			d, err := recognizer.EuclideanDistance(all[i].Centroid, all[j].Centroid)
			if err != nil {
				return nil, err
			}
			report.Separations = append(report.Separations, Separation{
				A:        all[i].Label,
				B:        all[j].Label,
				Distance: d,
			})
		}
	}

	c.logger.Debug("Training quality calculated", logging.Fields{
		"classes":     len(report.Classes),
		"separations": len(report.Separations),
	})

	return report, nil
}

// GenerateInsights turns a report into human-readable observations
func (c *Calculator) GenerateInsights(report *QualityReport) []string {
	var insights []string
	if report == nil {
		return insights
	}

	spread := make(map[recognizer.Label]float64, len(report.Classes))
	for _, q := range report.Classes {
		spread[q.Label] = q.Spread.Max
	}

	for _, s := range report.Separations {
		if s.Distance == 0 {
			insights = append(insights, fmt.Sprintf("Classes %s and %s have identical prototypes and cannot be told apart", s.A, s.B))
			continue
		}
		worst := math.Max(spread[s.A], spread[s.B])
		if worst >= s.Distance/2 {
			insights = append(insights, fmt.Sprintf(
				"Classes %s and %s overlap: a training sample lies %.4g from its centroid while the centroids are %.4g apart",
				s.A, s.B, worst, s.Distance))
		}
	}

	for _, q := range report.Classes {
		if q.Spread.Count > 0 && q.Spread.Max == 0 {
			insights = append(insights, fmt.Sprintf("All samples of %s are identical; record more varied samples", q.Label))
		}
	}

	return insights
}

// calculateStats calculates statistical measures for a dataset
func (c *Calculator) calculateStats(data []float64) *DistanceStats {
	if len(data) == 0 {
		return &DistanceStats{Count: 0}
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	stats := &DistanceStats{
		Count:  len(data),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Median: c.percentile(sorted, 50),
	}
	stats.Mean, stats.StdDev = stat.PopMeanStdDev(data, nil)

	return c.sanitizeStats(stats)
}

// sanitizeStats replaces infinite and NaN values so reports stay serialisable
func (c *Calculator) sanitizeStats(stats *DistanceStats) *DistanceStats {
	for _, v := range []*float64{&stats.Mean, &stats.Median, &stats.Min, &stats.Max, &stats.StdDev} {
		if math.IsInf(*v, 0) || math.IsNaN(*v) {
			*v = 0
		}
	}
	return stats
}

// percentile interpolates the p-th percentile of sorted data
func (c *Calculator) percentile(sortedData []float64, p float64) float64 {
	if len(sortedData) == 0 {
		return 0
	}
	if len(sortedData) == 1 {
		return sortedData[0]
	}

	index := (p / 100.0) * float64(len(sortedData)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if upper >= len(sortedData) {
		return sortedData[len(sortedData)-1]
	}

	weight := index - float64(lower)
	return sortedData[lower]*(1-weight) + sortedData[upper]*weight
}
