package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sonigraph/sonigraph/configs"
	"github.com/sonigraph/sonigraph/logging"
)

var (
	configFile string
	logLevel   string
	quiet      bool

	appConfig *configs.AppConfig
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sonigraph",
	Short: "Offline audio-to-embedding analysis",
	Long: `sonigraph converts a decoded waveform into a time-ordered sequence of
embedded points (pitch, loudness, timbre, tonal concentration mapped to a
3D position and visual attributes), segmented into phrases and linked by a
per-segment proximity graph.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		appConfig, err = configs.Load(configFile)
		if err != nil {
			return err
		}

		if quiet {
			logging.SetGlobalLogger(&logging.NoOpLogger{})
			return nil
		}

		level := logLevel
		if level == "" {
			level = appConfig.LogLevel
		}
		switch level {
		case "debug":
			logging.GetGlobalLogger().SetLevel(logging.DebugLevel)
		case "warn":
			logging.GetGlobalLogger().SetLevel(logging.WarnLevel)
		case "error":
			logging.GetGlobalLogger().SetLevel(logging.ErrorLevel)
		default:
			logging.GetGlobalLogger().SetLevel(logging.InfoLevel)
		}

		return nil
	},
}

// Execute adds all child commands to the root command and runs it
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress all log output")
}
