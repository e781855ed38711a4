package ffmpeg

import (
	"context"
	"fmt"
	"os"

	"reel-digest/domain/video"
)

// AudioExtractor implements video.AudioExtractor using ffmpeg
type AudioExtractor struct {
	ffmpegPath string
	runner     CommandRunner
	prober     video.Prober
	bitrate    string
	tempDir    string
}

// ExtractorOption is a functional option for configuring AudioExtractor
type ExtractorOption func(*AudioExtractor)

// WithExtractorFFmpegPath sets a custom ffmpeg executable path
func WithExtractorFFmpegPath(path string) ExtractorOption {
	return func(e *AudioExtractor) {
		e.ffmpegPath = path
	}
}

// WithExtractorCommandRunner sets a custom command runner (for testing)
func WithExtractorCommandRunner(runner CommandRunner) ExtractorOption {
	return func(e *AudioExtractor) {
		e.runner = runner
	}
}

// WithExtractorProber sets the prober used to detect an audio track
func WithExtractorProber(prober video.Prober) ExtractorOption {
	return func(e *AudioExtractor) {
		e.prober = prober
	}
}

// WithBitrate sets the MP3 bitrate, e.g. "128k"
func WithBitrate(bitrate string) ExtractorOption {
	return func(e *AudioExtractor) {
		e.bitrate = bitrate
	}
}

// WithTempDir sets the directory for extracted audio files (default os.TempDir)
func WithTempDir(dir string) ExtractorOption {
	return func(e *AudioExtractor) {
		e.tempDir = dir
	}
}

// NewExtractor creates a new FFmpeg-based audio extractor
func NewExtractor(opts ...ExtractorOption) *AudioExtractor {
	e := &AudioExtractor{
		ffmpegPath: "ffmpeg",
		runner:     &ExecCommandRunner{},
		bitrate:    video.DefaultAudioBitrate,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.prober == nil {
		e.prober = NewProber(WithProberCommandRunner(e.runner))
	}

	return e
}

// Extract implements video.AudioExtractor
func (e *AudioExtractor) Extract(ctx context.Context, videoPath string) (*video.AudioArtifact, error) {
	req, err := video.NewAudioExtractionRequest(videoPath, e.bitrate)
	if err != nil {
		return nil, err
	}

	info, err := e.prober.Probe(ctx, videoPath)
	if err != nil {
		return nil, err
	}
	if !info.HasAudio {
		return nil, nil
	}

	out, err := os.CreateTemp(e.tempDir, "reel-audio-*.mp3")
	if err != nil {
		return nil, fmt.Errorf("failed to create audio file: %w", err)
	}
	outputPath := out.Name()
	out.Close()

	if err := e.runner.Run(ctx, e.ffmpegPath, req.Args(outputPath)...); err != nil {
		os.Remove(outputPath)
		return nil, fmt.Errorf("ffmpeg audio extraction failed: %w", err)
	}

	if fi, err := os.Stat(outputPath); err != nil || fi.Size() == 0 {
		os.Remove(outputPath)
		return nil, fmt.Errorf("ffmpeg audio extraction produced no output")
	}

	return &video.AudioArtifact{Path: outputPath, MimeType: video.AudioMimeType}, nil
}

// ExtractTo transcodes the audio track of videoPath directly to outputPath
func (e *AudioExtractor) ExtractTo(ctx context.Context, videoPath, outputPath string) error {
	req, err := video.NewAudioExtractionRequest(videoPath, e.bitrate)
	if err != nil {
		return err
	}

	if err := e.runner.Run(ctx, e.ffmpegPath, req.Args(outputPath)...); err != nil {
		os.Remove(outputPath)
		return fmt.Errorf("ffmpeg audio extraction failed: %w", err)
	}

	return nil
}

// VerifyInstalled checks that ffmpeg is available
func (e *AudioExtractor) VerifyInstalled(ctx context.Context) error {
	_, err := e.runner.Output(ctx, e.ffmpegPath, "-version")
	if err != nil {
		return fmt.Errorf("ffmpeg not found or not executable: %w", err)
	}
	return nil
}

// Ensure AudioExtractor implements video.AudioExtractor
var _ video.AudioExtractor = (*AudioExtractor)(nil)
