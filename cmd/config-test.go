package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/RyanBlaney/word-recognizer/configs"
)

// configTestCmd represents the config test command
var configTestCmd = &cobra.Command{
	Use:   "config-test",
	Short: "Test and display all configuration values",
	Long: `Test configuration loading and display all values to verify proper parsing.

This command loads the configuration and displays all values in a structured format
to help verify that your YAML configuration is being parsed correctly.

Examples:
  # Test with default config file
  word-recognizer config-test

  # Test with specific config file
  word-recognizer --config /path/to/config.yaml config-test`,
	RunE: runConfigTest,
}

func init() {
	rootCmd.AddCommand(configTestCmd)
}

func runConfigTest(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "WORD RECOGNIZER CONFIGURATION TEST")
	fmt.Fprintln(out, strings.Repeat("=", 80))

	// Load configuration
	config, err := configs.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	printSection(out, "APPLICATION SETTINGS")
	printKeyValue(out, "Verbose", fmt.Sprintf("%t", config.Verbose))
	printKeyValue(out, "Log Level", config.LogLevel)
	printKeyValue(out, "Output Format", config.OutputFormat)
	printKeyValue(out, "Config Directory", config.ConfigDir)
	printKeyValue(out, "Data Directory", config.DataDir)

	printSection(out, "AUDIO CONFIGURATION")
	printKeyValue(out, "Sample Rate", fmt.Sprintf("%d Hz", config.Audio.SampleRate))

	printSection(out, "FEATURE CONFIGURATION")
	printKeyValue(out, "Sub-bands", fmt.Sprintf("%d", config.Features.NumSubBands))

	printSection(out, "TRAINING CONFIGURATION")
	printKeyValue(out, "Min Samples Per Class", fmt.Sprintf("%d", config.Training.MinSamplesPerClass))
	printKeyValue(out, "Classes", fmt.Sprintf("(%d) %v", len(config.Training.Classes), config.Training.Classes))

	printSection(out, "MODEL CONFIGURATION")
	printKeyValue(out, "Path", config.Model.Path)

	printSection(out, "PROCESSING CONFIGURATION")
	printKeyValue(out, "Max Concurrency", fmt.Sprintf("%d", config.Processing.MaxConcurrency))

	printSection(out, "OUTPUT CONFIGURATION")
	printKeyValue(out, "Precision", fmt.Sprintf("%d", config.Output.Precision))
	printKeyValue(out, "Include Spectrum", fmt.Sprintf("%t", config.Output.IncludeSpectrum))
	printKeyValue(out, "Include Descriptors", fmt.Sprintf("%t", config.Output.IncludeDescriptors))

	fmt.Fprintln(out)
	if err := configs.ValidateConfig(config); err != nil {
		fmt.Fprintln(out, ColorRed+strings.Repeat("-", 80))
		fmt.Fprintf(out, "CONFIGURATION INVALID: %v\n", err)
		fmt.Fprintln(out, strings.Repeat("=", 80)+ColorReset)
		return err
	}

	fmt.Fprintln(out, ColorGreen+strings.Repeat("-", 80))
	fmt.Fprintln(out, "CONFIGURATION TEST COMPLETED SUCCESSFULLY")
	fmt.Fprintf(out, "Config file: %s\n", getConfigFilePath())
	fmt.Fprintln(out, strings.Repeat("=", 80)+ColorReset)

	return nil
}

func printSection(out io.Writer, title string) {
	fmt.Fprintf(out, "\n%s\n", title)
	fmt.Fprintln(out, strings.Repeat("-", len(title)))
}

func printKeyValue(out io.Writer, key, value string) {
	if value == "" {
		fmt.Fprintf(out, "%-35s\n", key)
	} else {
		fmt.Fprintf(out, "%-35s %s\n", key+":", value)
	}
}

func getConfigFilePath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return "(none, using defaults)"
}
