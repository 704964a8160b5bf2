package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sonigraph/sonigraph/embedding"
	"github.com/sonigraph/sonigraph/transcode"
)

var (
	outputPath string
	outputForm string
	pretty     bool
	timeout    time.Duration
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file.wav>",
	Short: "Analyze a WAV file and emit the embedding as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		audio, err := transcode.DecodeWAVFile(args[0])
		if err != nil {
			return err
		}

		pipeline, err := embedding.New(appConfig.EmbeddingConfig())
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		result, err := pipeline.Analyze(ctx, audio.PCM, audio.SampleRate)
		if err != nil {
			return err
		}

		form := outputForm
		if form == "" {
			form = appConfig.Output.Form
		}

		var payload any
		switch form {
		case "points":
			payload = result.EmbeddedPoints()
		case "graph":
			payload = result.SegmentedGraph()
		default:
			return fmt.Errorf("unknown output form %q (expected points or graph)", form)
		}

		var data []byte
		if pretty || appConfig.Output.Pretty {
			data, err = json.MarshalIndent(payload, "", "  ")
		} else {
			data, err = json.Marshal(payload)
		}
		if err != nil {
			return fmt.Errorf("encoding output: %w", err)
		}

		if outputPath == "" || outputPath == "-" {
			_, err = os.Stdout.Write(append(data, '\n'))
			return err
		}

		return os.WriteFile(outputPath, data, 0o644)
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&outputPath, "out", "o", "",
		"output file (default: stdout)")
	analyzeCmd.Flags().StringVar(&outputForm, "form", "",
		"output form: points or graph (default from config)")
	analyzeCmd.Flags().BoolVar(&pretty, "pretty", false,
		"indent the JSON output")
	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 0,
		"wall-clock budget for the whole analysis (0: none)")

	rootCmd.AddCommand(analyzeCmd)
}
