package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/RyanBlaney/latency-benchmark-common/logging"

	"github.com/RyanBlaney/word-recognizer/configs"
	"github.com/RyanBlaney/word-recognizer/internal/metrics"
	"github.com/RyanBlaney/word-recognizer/internal/model"
	"github.com/RyanBlaney/word-recognizer/pkg/audio"
	"github.com/RyanBlaney/word-recognizer/pkg/recognizer"
)

// Context holds the application context and configuration
type Context struct {
	// CLI arguments
	ConfigFile   string // Application configuration file (optional)
	ManifestFile string // Training manifest (train only)
	OutputFile   string
	OutputFormat string
	Verbose      bool
	Quiet        bool

	// Runtime context
	Logger logging.Logger
	Config *configs.Config

	// Stdout and Stderr default to the process streams
	Stdout io.Writer
	Stderr io.Writer
}

// RecognizerApp handles the recognizer application lifecycle
type RecognizerApp struct {
	ctx     *Context
	config  *configs.Config
	session *recognizer.Session
	store   *model.Store
	logger  logging.Logger
}

// NewRecognizerApp creates a new recognizer application
func NewRecognizerApp(ctx *Context) (*RecognizerApp, error) {
	// Set up logging
	logger := setupLogging(ctx)
	ctx.Logger = logger

	if ctx.Stdout == nil {
		ctx.Stdout = os.Stdout
	}
	if ctx.Stderr == nil {
		ctx.Stderr = os.Stderr
	}

	// Load configuration
	config := ctx.Config
	if config == nil {
		var err error
		config, err = loadAndMergeConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		ctx.Config = config
	}

	sc := sessionConfig(config)
	sc.Logger = logger
	session, err := recognizer.NewSession(sc)
	if err != nil {
		return nil, fmt.Errorf("failed to create recognizer session: %w", err)
	}

	logger.Debug("Recognizer application initialized", logging.Fields{
		"app_config_file": ctx.ConfigFile,
		"model_path":      config.Model.Path,
		"output_format":   config.OutputFormat,
		"sample_rate":     config.Audio.SampleRate,
		"num_sub_bands":   config.Features.NumSubBands,
		"classes":         config.Training.Classes,
	})

	return &RecognizerApp{
		ctx:     ctx,
		config:  config,
		session: session,
		store:   model.NewStore(config.Model.Path, logger),
		logger:  logger,
	}, nil
}

// Session exposes the underlying recognizer session
func (app *RecognizerApp) Session() *recognizer.Session {
	return app.session
}

// setupLogging configures logging based on context
func setupLogging(ctx *Context) logging.Logger {
	switch {
	case ctx.Verbose:
		logging.SetLevel(logging.DebugLevel)
	case ctx.Quiet:
		logging.SetLevel(logging.ErrorLevel)
	default:
		logging.SetLevel(logging.InfoLevel)
	}

	if ctx.Logger != nil {
		return ctx.Logger
	}
	return logging.NewDefaultLogger()
}

// ProcessFile runs the analysis pipeline over one recording
func (app *RecognizerApp) ProcessFile(ctx context.Context, path string) (*FileReport, error) {
	results, err := app.processFiles(ctx, []string{path})
	if err != nil {
		return nil, err
	}

	report := app.fileReport(results[0])
	if err := app.outputResults(report, app.processRows(report)); err != nil {
		return nil, fmt.Errorf("failed to output results: %w", err)
	}
	app.printProcessSummary(report)

	return report, nil
}

// Train builds prototypes from the manifest recordings and saves the model
func (app *RecognizerApp) Train(ctx context.Context) (*TrainReport, error) {
	if app.ctx.ManifestFile == "" {
		return nil, fmt.Errorf("training manifest is required")
	}

	manifest, err := loadManifestFromFile(app.ctx.ManifestFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}

	policy := app.session.Policy()
	if err := manifest.Validate(policy); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}

	entries := manifest.Entries(policy.Classes)
	for _, label := range policy.Classes {
		paths := entries[label]
		results, err := app.processFiles(ctx, paths)
		if err != nil {
			return nil, fmt.Errorf("failed to process %s recordings: %w", label, err)
		}
		for _, r := range results {
			if err := app.session.AddFeatures(label, r.Sample.Features); err != nil {
				return nil, err
			}
		}
	}

	set, err := app.session.Train()
	if err != nil {
		return nil, fmt.Errorf("training failed: %w", err)
	}

	if err := app.store.Save(set, app.session.Pipeline().Config()); err != nil {
		return nil, fmt.Errorf("failed to save model: %w", err)
	}

	calculator := metrics.NewCalculator(app.logger)
	quality, err := calculator.TrainingQuality(app.session.TrainingSet(), set)
	if err != nil {
		return nil, fmt.Errorf("failed to analyse training quality: %w", err)
	}

	report := &TrainReport{
		ModelPath: app.store.Path(),
		TrainedAt: set.TrainedAt(),
		Quality:   quality,
		Insights:  calculator.GenerateInsights(quality),
	}
	for _, p := range set.All() {
		report.Classes = append(report.Classes, ClassReport{
			Label:       p.Label,
			SampleCount: p.SampleCount,
			Centroid:    app.round(p.Centroid),
		})
	}

	if err := app.outputResults(report, app.trainRows(report)); err != nil {
		return nil, fmt.Errorf("failed to output results: %w", err)
	}
	app.printTrainSummary(report)

	return report, nil
}

// Classify loads the saved model and classifies one recording
func (app *RecognizerApp) Classify(ctx context.Context, path string) (*ClassifyReport, error) {
	if !app.session.Trained() {
		if err := app.loadModel(); err != nil {
			return nil, err
		}
	}

	results, err := app.processFiles(ctx, []string{path})
	if err != nil {
		return nil, err
	}

	features := results[0].Sample.Features
	result, err := app.session.ClassifyFeatures(features)
	if err != nil {
		return nil, fmt.Errorf("classification failed: %w", err)
	}

	report := &ClassifyReport{
		File:     path,
		Label:    result.Label,
		Distance: app.roundValue(result.Distance),
		Features: app.round(features),
	}
	for _, d := range result.Distances {
		report.Distances = append(report.Distances, recognizer.ClassDistance{
			Label:    d.Label,
			Distance: app.roundValue(d.Distance),
		})
	}

	if err := app.outputResults(report, app.classifyRows(report)); err != nil {
		return nil, fmt.Errorf("failed to output results: %w", err)
	}
	app.printClassifySummary(report)

	return report, nil
}

// loadModel restores prototypes from the model store
func (app *RecognizerApp) loadModel() error {
	if !app.store.Exists() {
		return recognizer.NewError(recognizer.ErrCodeNotTrained,
			fmt.Sprintf("no model found at %s; run train first", app.store.Path()), "", nil)
	}

	set, file, err := app.store.Load(app.session.Pipeline().Config())
	if err != nil {
		if errors.Is(err, model.ErrIncompatibleModel) {
			return fmt.Errorf("model %s cannot be used with the current configuration: %w", app.store.Path(), err)
		}
		return fmt.Errorf("failed to load model: %w", err)
	}

	if err := app.session.LoadPrototypes(set); err != nil {
		return err
	}

	app.logger.Debug("Model loaded", logging.Fields{
		"model_path": app.store.Path(),
		"trained_at": file.TrainedAt,
		"classes":    set.Len(),
	})
	return nil
}

// fileReport converts a processed recording into its report
func (app *RecognizerApp) fileReport(r processedFile) *FileReport {
	sample := r.Sample
	report := &FileReport{
		File:            r.Path,
		SampleCount:     sample.SampleCount,
		DurationSeconds: sample.Duration.Seconds(),
		Features:        app.round(sample.Features),
		Bands:           sample.Bands,
	}

	if app.config.Output.IncludeDescriptors {
		report.Descriptors = app.session.Pipeline().Analyzer().Describe(sample.Spectrum)
	}
	if app.config.Output.IncludeSpectrum {
		report.Spectrum = &SpectrumReport{
			Frequencies: sample.Spectrum.Frequencies,
			Magnitudes:  app.round(audio.FeatureVector(sample.Spectrum.Magnitudes)),
		}
	}

	return report
}
