package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/word-recognizer/internal/app"
)

// classifyCmd represents the classify command
var classifyCmd = &cobra.Command{
	Use:   "classify FILE",
	Short: "Recognize the word spoken in a recording",
	Long: `Classify one WAV recording against a trained model and print the nearest
word together with its distance to every prototype.

The model must have been trained with the same sample rate and number of
sub-bands as the current configuration.

Examples:
  word-recognizer classify query.wav
  word-recognizer classify --model ./model.json -o json query.wav`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().String("model", "",
		"model file to read (overrides model.path)")
	addFeatureFlags(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	recognizerApp, err := app.NewRecognizerApp(newAppContext(cmd))
	if err != nil {
		return err
	}

	_, err = recognizerApp.Classify(context.Background(), args[0])
	return err
}
