package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"reel-digest/domain/video"
	"reel-digest/infrastructure/ffmpeg"
	"reel-digest/infrastructure/filesystem"

	"github.com/spf13/cobra"
)

var (
	sampleSourcePath string
	sampleOutputDir  string
	sampleInterval   float64
	sampleMaxFrames  int
)

var sampleFramesCmd = &cobra.Command{
	Use:   "sample-frames",
	Short: "Write the frames the model would see as PNG files",
	Long: `Sample still frames from a local video at a fixed interval and save them
as PNG files named by timestamp. This shows exactly which frames the
summarize pipeline would send to the model.

Example:
  reel-digest sample-frames --source clip.mp4 --output ./frames
  reel-digest sample-frames --source clip.mp4 --output ./frames --interval 0.5`,
	RunE: runSampleFrames,
}

func init() {
	rootCmd.AddCommand(sampleFramesCmd)
	sampleFramesCmd.Flags().StringVar(&sampleSourcePath, "source", "", "Path to source video file (required)")
	sampleFramesCmd.Flags().StringVar(&sampleOutputDir, "output", "", "Directory for the PNG files (required)")
	sampleFramesCmd.Flags().Float64Var(&sampleInterval, "interval", 0, "Seconds between frames (default from config)")
	sampleFramesCmd.Flags().IntVar(&sampleMaxFrames, "max-frames", -1, "Maximum frames to keep, 0 for no limit (default from config)")
	sampleFramesCmd.MarkFlagRequired("source")
	sampleFramesCmd.MarkFlagRequired("output")
}

func runSampleFrames(cmd *cobra.Command, args []string) error {
	c, err := GetConfig()
	if err != nil {
		return err
	}

	interval := sampleInterval
	if interval == 0 {
		interval = c.Summary.SamplingInterval
	}
	maxFrames := sampleMaxFrames
	if maxFrames < 0 {
		maxFrames = c.Summary.MaxFrames
	}

	sampler, err := newFrameSampler(c, ffmpeg.NewProber())
	if err != nil {
		return err
	}

	return RunSampleFramesWithDependencies(
		cmd.Context(),
		sampler,
		filesystem.NewTempFiles(),
		sampleSourcePath,
		sampleOutputDir,
		interval,
		maxFrames,
		os.Stdout,
	)
}

// RunSampleFramesWithDependencies runs the sample-frames command with injected dependencies (for testing)
func RunSampleFramesWithDependencies(
	ctx context.Context,
	sampler video.FrameSampler,
	fileChecker video.FileChecker,
	sourcePath string,
	outputDir string,
	interval float64,
	maxFrames int,
	output OutputWriter,
) error {
	if err := video.ValidateInterval(interval); err != nil {
		return err
	}
	if !fileChecker.Exists(sourcePath) {
		return fmt.Errorf("source file not found: %s", sourcePath)
	}

	if verifiable, ok := sampler.(Verifier); ok {
		verifyCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := verifiable.VerifyInstalled(verifyCtx); err != nil {
			return fmt.Errorf("ffmpeg verification failed: %w", err)
		}
	}

	fmt.Fprintf(output, "Sampling %s every %gs...\n", sourcePath, interval)

	frames, err := sampler.Sample(ctx, sourcePath, interval)
	if err != nil {
		return fmt.Errorf("frame sampling failed: %w", err)
	}
	kept := video.ThinFrames(frames, maxFrames)

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	for _, f := range kept {
		name := fmt.Sprintf("frame_%09.3f.png", f.Timestamp)
		path := filepath.Join(outputDir, name)
		if err := os.WriteFile(path, f.Image, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Fprintf(output, "  %s  %s\n", video.TimestampFromSeconds(f.Timestamp), name)
	}

	if len(kept) < len(frames) {
		fmt.Fprintf(output, "Wrote %d of %d frames (max-frames %d)\n", len(kept), len(frames), maxFrames)
	} else {
		fmt.Fprintf(output, "Wrote %d frames\n", len(kept))
	}
	return nil
}
