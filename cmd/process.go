package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/word-recognizer/internal/app"
)

// processCmd represents the process command
var processCmd = &cobra.Command{
	Use:   "process FILE",
	Short: "Compute the spectrum and sub-band features of a recording",
	Long: `Run the spectral analyzer and sub-band extractor over one WAV recording
and print its feature vector.

Examples:
  # Print the sub-band energies of a recording
  word-recognizer process hello.wav

  # Include the full magnitude spectrum and descriptors as JSON
  word-recognizer process -o json --include-spectrum --include-descriptors hello.wav`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().Bool("include-spectrum", false,
		"include the magnitude spectrum in the output")
	processCmd.Flags().Bool("include-descriptors", false,
		"include spectral shape descriptors in the output")
	addFeatureFlags(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	recognizerApp, err := app.NewRecognizerApp(newAppContext(cmd))
	if err != nil {
		return err
	}

	_, err = recognizerApp.ProcessFile(context.Background(), args[0])
	return err
}
