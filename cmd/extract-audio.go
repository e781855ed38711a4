package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"reel-digest/domain/video"
	"reel-digest/infrastructure/filesystem"

	"github.com/spf13/cobra"
)

var (
	extractSourcePath string
	extractOutputPath string
	extractBitrate    string
)

var extractAudioCmd = &cobra.Command{
	Use:   "extract-audio",
	Short: "Extract the audio track of a video as MP3",
	Long: `Extract audio from a local video file to MP3 format, exactly as the
summarize pipeline does before sending it to the model.

If --output is not given, the MP3 is written next to the source with the
same name.

Example:
  reel-digest extract-audio --source clip.mp4
  reel-digest extract-audio --source clip.mp4 --output /tmp/clip.mp3 --bitrate 64k`,
	RunE: runExtractAudio,
}

func init() {
	rootCmd.AddCommand(extractAudioCmd)
	extractAudioCmd.Flags().StringVar(&extractSourcePath, "source", "", "Path to source video file (required)")
	extractAudioCmd.Flags().StringVar(&extractOutputPath, "output", "", "Output MP3 path (default: source with .mp3 extension)")
	extractAudioCmd.Flags().StringVar(&extractBitrate, "bitrate", "", "Audio bitrate (default from config or 128k)")
	extractAudioCmd.MarkFlagRequired("source")
}

func runExtractAudio(cmd *cobra.Command, args []string) error {
	c, err := GetConfig()
	if err != nil {
		return err
	}

	bitrate := extractBitrate
	if bitrate == "" {
		bitrate = c.Audio.Bitrate
	}
	cc := *c
	cc.Audio.Bitrate = bitrate

	extractor := newExtractor(&cc, nil)

	return RunExtractAudioWithDependencies(
		cmd.Context(),
		extractor,
		filesystem.NewTempFiles(),
		extractSourcePath,
		extractOutputPath,
		bitrate,
		os.Stdout,
	)
}

// AudioWriter transcodes a video's audio track to a given path
type AudioWriter interface {
	ExtractTo(ctx context.Context, videoPath, outputPath string) error
}

// RunExtractAudioWithDependencies runs the extract-audio command with injected dependencies (for testing)
func RunExtractAudioWithDependencies(
	ctx context.Context,
	extractor AudioWriter,
	fileChecker video.FileChecker,
	sourcePath string,
	outputPath string,
	bitrate string,
	output OutputWriter,
) error {
	if !fileChecker.Exists(sourcePath) {
		return fmt.Errorf("source file not found: %s", sourcePath)
	}

	// Verify ffmpeg is available if extractor supports it
	if verifiable, ok := extractor.(Verifier); ok {
		verifyCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := verifiable.VerifyInstalled(verifyCtx); err != nil {
			return fmt.Errorf("ffmpeg verification failed: %w", err)
		}
	}

	if outputPath == "" {
		outputPath = strings.TrimSuffix(sourcePath, filepath.Ext(sourcePath)) + ".mp3"
	}
	if fileChecker.Exists(outputPath) {
		return fmt.Errorf("output file already exists: %s", outputPath)
	}

	fmt.Fprintf(output, "Extracting audio from %s with bitrate %s...\n", sourcePath, bitrate)

	if err := extractor.ExtractTo(ctx, sourcePath, outputPath); err != nil {
		return err
	}

	fmt.Fprintf(output, "Successfully created: %s\n", outputPath)
	return nil
}
