package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/RyanBlaney/word-recognizer/internal/app"
)

// ANSI colors for terminal output
const (
	ColorReset = "\033[0m"
	ColorRed   = "\033[31m"
	ColorGreen = "\033[32m"
)

// newAppContext builds the application context shared by every subcommand.
// Results go to the command's output stream and summaries to its error stream.
func newAppContext(cmd *cobra.Command) *app.Context {
	return &app.Context{
		ConfigFile:   configFile,
		OutputFile:   outputFile,
		OutputFormat: viper.GetString("output_format"),
		Verbose:      viper.GetBool("verbose") || viper.GetString("log_level") == "debug",
		Quiet:        quiet,
		Stdout:       cmd.OutOrStdout(),
		Stderr:       cmd.ErrOrStderr(),
	}
}

// addFeatureFlags registers the feature extraction overrides on a subcommand
func addFeatureFlags(cmd *cobra.Command) {
	cmd.Flags().Int("num-sub-bands", 0,
		"number of sub-bands (overrides features.num_sub_bands)")
}
