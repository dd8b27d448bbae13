package app

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/RyanBlaney/latency-benchmark-common/logging"
	"github.com/RyanBlaney/latency-benchmark-common/output"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/RyanBlaney/word-recognizer/pkg/audio"
)

var titleCaser = cases.Title(language.English)

// outputResults formats a report and writes it to the output file or stdout.
// Structured formats receive the full report; table and csv get the flat view.
func (app *RecognizerApp) outputResults(report any, flat map[string]any) error {
	var (
		formatter  output.Formatter
		outputData map[string]any
	)

	switch app.config.OutputFormat {
	case "json":
		formatter = &output.JSONFormatter{}
	case "yaml":
		formatter = &output.YAMLFormatter{}
	case "csv":
		formatter = &output.CSVFormatter{}
	case "table":
		formatter = &output.TableFormatter{}
	default:
		formatter = &output.JSONFormatter{}
	}

	switch app.config.OutputFormat {
	case "csv", "table":
		outputData = flat
	default:
		outputData = map[string]any{
			"result":    report,
			"timestamp": time.Now(),
		}
	}

	formattedData, err := formatter.Format(outputData, true)
	if err != nil {
		return fmt.Errorf("failed to format output data: %w", err)
	}

	// Write to file or stdout
	if app.ctx.OutputFile != "" {
		return app.writeToFile(formattedData)
	}

	_, err = app.ctx.Stdout.Write(formattedData)
	return err
}

// writeToFile writes data to the specified output file
func (app *RecognizerApp) writeToFile(data []byte) error {
	// Ensure directory exists
	dir := filepath.Dir(app.ctx.OutputFile)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(app.ctx.OutputFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	app.logger.Debug("Results written to file", logging.Fields{
		"output_file": app.ctx.OutputFile,
		"size_bytes":  len(data),
	})

	return nil
}

func (app *RecognizerApp) processRows(r *FileReport) map[string]any {
	rows := map[string]any{
		"file":             r.File,
		"sample_count":     r.SampleCount,
		"duration_seconds": app.roundValue(r.DurationSeconds),
	}
	for i, e := range r.Features {
		rows[fmt.Sprintf("band_%d_energy", i)] = e
	}
	if r.Descriptors != nil {
		rows["spectral_centroid_hz"] = app.roundValue(r.Descriptors.SpectralCentroid)
		rows["spectral_rolloff_hz"] = app.roundValue(r.Descriptors.SpectralRolloff)
		rows["spectral_flatness"] = app.roundValue(r.Descriptors.SpectralFlatness)
	}
	return rows
}

func (app *RecognizerApp) trainRows(r *TrainReport) map[string]any {
	rows := map[string]any{
		"model_path": r.ModelPath,
		"trained_at": r.TrainedAt.Format(time.RFC3339),
	}
	for _, c := range r.Classes {
		rows[string(c.Label)+"_samples"] = c.SampleCount
		rows[string(c.Label)+"_centroid"] = joinFloats(c.Centroid)
	}
	for _, s := range r.Quality.Separations {
		rows[fmt.Sprintf("separation_%s_%s", s.A, s.B)] = app.roundValue(s.Distance)
	}
	return rows
}

func (app *RecognizerApp) classifyRows(r *ClassifyReport) map[string]any {
	rows := map[string]any{
		"file":     r.File,
		"label":    string(r.Label),
		"distance": r.Distance,
		"features": joinFloats(r.Features),
	}
	for _, d := range r.Distances {
		rows["distance_"+string(d.Label)] = d.Distance
	}
	return rows
}

// printProcessSummary writes a short human-readable summary to stderr
func (app *RecognizerApp) printProcessSummary(r *FileReport) {
	if app.ctx.Quiet {
		return
	}
	fmt.Fprintf(app.ctx.Stderr, "%s: %d samples, sub-band energies [%s]\n",
		filepath.Base(r.File), r.SampleCount, joinFloats(r.Features))
}

func (app *RecognizerApp) printTrainSummary(r *TrainReport) {
	if app.ctx.Quiet {
		return
	}
	for _, c := range r.Classes {
		fmt.Fprintf(app.ctx.Stderr, "%s: %d samples, centroid [%s]\n",
			titleCaser.String(string(c.Label)), c.SampleCount, joinFloats(c.Centroid))
	}
	for _, insight := range r.Insights {
		fmt.Fprintf(app.ctx.Stderr, "  ! %s\n", insight)
	}
	fmt.Fprintf(app.ctx.Stderr, "Model saved to %s\n", r.ModelPath)
}

func (app *RecognizerApp) printClassifySummary(r *ClassifyReport) {
	if app.ctx.Quiet {
		return
	}
	fmt.Fprintf(app.ctx.Stderr, "%s: %s (distance %.4g)\n",
		filepath.Base(r.File), titleCaser.String(string(r.Label)), r.Distance)
	for _, d := range r.Distances {
		marker := " "
		if d.Label == r.Label {
			marker = "*"
		}
		fmt.Fprintf(app.ctx.Stderr, "  %s %-12s %.4g\n", marker, titleCaser.String(string(d.Label)), d.Distance)
	}
}

// round applies the configured output precision to a vector
func (app *RecognizerApp) round(v audio.FeatureVector) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = app.roundValue(x)
	}
	return out
}

func (app *RecognizerApp) roundValue(x float64) float64 {
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return 0
	}
	if x == 0 || app.config.Output.Precision == 0 {
		return x
	}
	// significant digits, so tiny energies stay visible
	scale := math.Pow(10, float64(app.config.Output.Precision-1)-math.Floor(math.Log10(math.Abs(x))))
	return math.Round(x*scale) / scale
}

func joinFloats(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = fmt.Sprintf("%.4g", x)
	}
	return strings.Join(parts, ", ")
}
