package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/RyanBlaney/word-recognizer/configs"
)

const envPrefix = "WORD_RECOGNIZER"

var (
	configFile   string
	verbose      bool
	quiet        bool
	logLevel     string
	outputFormat string
	outputFile   string
	configDir    string
	dataDir      string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "word-recognizer",
	Short: "Isolated word recognition from sub-band energy features",
	Long: `A small speaker-dependent isolated word recognizer.

Each recording is reduced to the energy in a few equal-width frequency
sub-bands of its magnitude spectrum. Training averages the feature vectors
of each word into a prototype; classification picks the word whose
prototype is nearest in Euclidean distance.

Key features:
- WAV input with configurable sample rate
- Configurable number of sub-bands and vocabulary
- Persisted models in YAML or JSON
- Training quality report with class overlap warnings`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// flagKeys maps every configurable flag to the config key it overrides.
// Flags that are not listed (config, quiet, output-file, manifest) are read
// directly and never reach viper.
var flagKeys = map[string]string{
	"verbose":             "verbose",
	"log-level":           "log_level",
	"output":              "output_format",
	"config-dir":          "config_dir",
	"data-dir":            "data_dir",
	"model":               "model.path",
	"parallel":            "processing.max_concurrency",
	"num-sub-bands":       "features.num_sub_bands",
	"include-spectrum":    "output.include_spectrum",
	"include-descriptors": "output.include_descriptors",
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "",
		"directory searched first for word-recognizer.yaml")

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default is $HOME/.config/word-recognizer/word-recognizer.yaml)")

	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "",
		"data directory holding the default model (default is $HOME/.local/share/word-recognizer)")

	// Output and logging flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress the human-readable summary")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level (debug, info, error)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table",
		"output format (json, table, csv, yaml)")
	rootCmd.PersistentFlags().StringVar(&outputFile, "output-file", "",
		"write results to this file instead of stdout")
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if configFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			os.Exit(1)
		}

		if configDir != "" {
			viper.AddConfigPath(configDir)
		}
		viper.AddConfigPath(filepath.Join(home, ".config", "word-recognizer"))
		viper.AddConfigPath("/etc/word-recognizer")
		viper.AddConfigPath("./configs")
		viper.SetConfigName("word-recognizer")
		viper.SetConfigType("yaml")
	}

	// Environment variables: WORD_RECOGNIZER_FEATURES_NUM_SUB_BANDS etc.
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	configs.SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
		}
	}
}

// initializeConfig initializes configuration after flags are parsed
func initializeConfig(cmd *cobra.Command) error {
	return bindFlags(cmd, viper.GetViper())
}

// bindFlags binds the running command's configurable flags to their config
// keys. An unset flag leaves the file, env or default value in place.
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var errs []error

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return
		}
		if !f.Changed {
			return
		}
		if err := v.BindPFlag(key, f); err != nil {
			errs = append(errs, fmt.Errorf("failed to bind --%s: %w", f.Name, err))
		}
	})

	return errors.Join(errs...)
}
