package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/word-recognizer/internal/app"
)

var trainManifest string

// trainCmd represents the train command
var trainCmd = &cobra.Command{
	Use:   "train --manifest FILE",
	Short: "Train word prototypes from labelled recordings",
	Long: `Train one prototype per configured word from the recordings listed in a
manifest, then save the model.

The manifest maps each word to its recordings. Relative paths are resolved
against the manifest's directory:

  classes:
    word1: [rec/yes-1.wav, rec/yes-2.wav]
    word2: [rec/no-1.wav, rec/no-2.wav]

Training fails without saving when any configured word has fewer than
training.min_samples_per_class recordings.

Examples:
  word-recognizer train --manifest training.yaml
  word-recognizer train --manifest training.yaml --model ./model.json -o json`,
	Args: cobra.NoArgs,
	RunE: runTrain,
}

func init() {
	rootCmd.AddCommand(trainCmd)

	trainCmd.Flags().StringVarP(&trainManifest, "manifest", "m", "",
		"training manifest (required)")
	trainCmd.Flags().String("model", "",
		"model file to write (overrides model.path)")
	trainCmd.Flags().IntP("parallel", "p", 0,
		"maximum recordings processed concurrently (overrides processing.max_concurrency)")
	addFeatureFlags(trainCmd)
	trainCmd.MarkFlagRequired("manifest")
}

func runTrain(cmd *cobra.Command, args []string) error {
	appCtx := newAppContext(cmd)
	appCtx.ManifestFile = trainManifest

	recognizerApp, err := app.NewRecognizerApp(appCtx)
	if err != nil {
		return err
	}

	if _, err := recognizerApp.Train(context.Background()); err != nil {
		return fmt.Errorf("%s%v%s", ColorRed, err, ColorReset)
	}
	return nil
}
