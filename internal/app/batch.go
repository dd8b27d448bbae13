package app

import (
	"context"
	"fmt"

	"github.com/RyanBlaney/latency-benchmark-common/logging"
	"golang.org/x/sync/errgroup"

	"github.com/RyanBlaney/word-recognizer/pkg/audio/wavfile"
	"github.com/RyanBlaney/word-recognizer/pkg/recognizer"
)

// processedFile pairs a recording path with its pipeline output
type processedFile struct {
	Path   string
	Sample *recognizer.ProcessedSample
}

// processFiles loads and processes recordings with bounded concurrency.
// Results keep the order of paths; the first failure cancels the batch.
func (app *RecognizerApp) processFiles(ctx context.Context, paths []string) ([]processedFile, error) {
	results := make([]processedFile, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(app.config.Processing.MaxConcurrency)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			buf, err := wavfile.LoadMono(path, app.config.Audio.SampleRate)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", path, err)
			}

			results[i] = processedFile{
				Path:   path,
				Sample: app.session.Process(buf),
			}

			app.logger.Debug("Recording processed", logging.Fields{
				"file":    path,
				"samples": len(buf),
			})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
