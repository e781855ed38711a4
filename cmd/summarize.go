package cmd

import (
	"context"
	"fmt"
	"os"

	"reel-digest/domain/summary"

	"github.com/spf13/cobra"
)

var (
	summarizeInstruction string
	summarizeInterval    float64
	summarizeMaxFrames   int
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize <video-url>",
	Short: "Summarize a video from a URL",
	Long: `Download a video, sample frames and audio, and print Gemini's summary.

This runs the same pipeline the webhook uses, without sending any reply.
The command exits non-zero when the video could not be summarized; the
printed text is what a user would have received.

Example:
  reel-digest summarize https://example.com/clip.mp4
  reel-digest summarize https://example.com/clip.mp4 --interval 0.5 --instruction "List the people in this video"`,
	Args: cobra.ExactArgs(1),
	RunE: runSummarize,
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
	summarizeCmd.Flags().StringVar(&summarizeInstruction, "instruction", "", "Instruction for the model (default from config)")
	summarizeCmd.Flags().Float64Var(&summarizeInterval, "interval", 0, "Seconds between sampled frames (default from config)")
	summarizeCmd.Flags().IntVar(&summarizeMaxFrames, "max-frames", -1, "Maximum frames sent to the model, 0 for no limit (default from config)")
}

func runSummarize(cmd *cobra.Command, args []string) error {
	c, err := GetConfig()
	if err != nil {
		return err
	}
	if summarizeMaxFrames >= 0 {
		c.Summary.MaxFrames = summarizeMaxFrames
	}

	ctx := cmd.Context()
	logger := newLogger(c)

	model, err := newModel(ctx, c)
	if err != nil {
		return err
	}
	svc, err := newSummaryService(ctx, c, model, nil, logger)
	if err != nil {
		return err
	}

	input := summary.Input{
		VideoURL:         args[0],
		Instruction:      summarizeInstruction,
		SamplingInterval: summarizeInterval,
	}
	return RunSummarizeWithDependencies(ctx, svc, input, os.Stdout)
}

// Summarizer runs the summarize pipeline
type Summarizer interface {
	Summarize(ctx context.Context, in summary.Input) summary.Result
}

// RunSummarizeWithDependencies runs the summarize command with injected dependencies (for testing)
func RunSummarizeWithDependencies(ctx context.Context, svc Summarizer, input summary.Input, output OutputWriter) error {
	if input.SamplingInterval < 0 {
		return fmt.Errorf("--interval must be positive, got %v", input.SamplingInterval)
	}

	result := svc.Summarize(ctx, input)
	fmt.Fprintln(output, result.Text)

	if result.Failed() {
		return fmt.Errorf("summarize failed: %s", result.Outcome)
	}
	return nil
}
