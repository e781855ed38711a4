package ffmpeg

import (
	"bytes"
	"context"
	"fmt"

	"reel-digest/domain/video"
)

// pngMagic is the signature every PNG stream starts with
var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// FrameSampler implements video.FrameSampler using ffmpeg
type FrameSampler struct {
	ffmpegPath string
	runner     CommandRunner
	prober     video.Prober
}

// FrameSamplerOption is a functional option for configuring FrameSampler
type FrameSamplerOption func(*FrameSampler)

// WithSamplerFFmpegPath sets a custom ffmpeg executable path
func WithSamplerFFmpegPath(path string) FrameSamplerOption {
	return func(s *FrameSampler) {
		s.ffmpegPath = path
	}
}

// WithSamplerCommandRunner sets a custom command runner (for testing)
func WithSamplerCommandRunner(runner CommandRunner) FrameSamplerOption {
	return func(s *FrameSampler) {
		s.runner = runner
	}
}

// WithSamplerProber sets the prober used to read the video duration
func WithSamplerProber(prober video.Prober) FrameSamplerOption {
	return func(s *FrameSampler) {
		s.prober = prober
	}
}

// NewFrameSampler creates a new FFmpeg-based frame sampler
func NewFrameSampler(opts ...FrameSamplerOption) *FrameSampler {
	s := &FrameSampler{
		ffmpegPath: "ffmpeg",
		runner:     &ExecCommandRunner{},
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.prober == nil {
		s.prober = NewProber(WithProberCommandRunner(s.runner))
	}

	return s
}

// Sample implements video.FrameSampler.
// Any failure discards the frames captured so far; a partial sequence would leave
// gaps larger than the interval.
func (s *FrameSampler) Sample(ctx context.Context, videoPath string, interval float64) ([]video.FrameSample, error) {
	if err := video.ValidateInterval(interval); err != nil {
		return nil, err
	}

	info, err := s.prober.Probe(ctx, videoPath)
	if err != nil {
		return nil, err
	}
	if !info.HasVideo {
		return nil, video.ErrNoVideoStream
	}

	points, err := video.SamplePoints(info.FrameDuration(), interval)
	if err != nil {
		return nil, err
	}

	frames := make([]video.FrameSample, 0, len(points))
	for _, t := range points {
		img, err := s.captureFrame(ctx, videoPath, t)
		if err != nil {
			return nil, err
		}
		frames = append(frames, video.FrameSample{
			Timestamp: t,
			Image:     img,
			MimeType:  video.FrameMimeType,
		})
	}

	return frames, nil
}

// captureFrame decodes the frame at offset t and returns it as PNG bytes
func (s *FrameSampler) captureFrame(ctx context.Context, videoPath string, t float64) ([]byte, error) {
	ts := video.TimestampFromSeconds(t).String()
	args := []string{
		"-v", "error",
		"-ss", ts,
		"-i", videoPath,
		"-frames:v", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-",
	}

	out, err := s.runner.Output(ctx, s.ffmpegPath, args...)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg frame extraction failed at %s: %w", ts, err)
	}
	if !bytes.HasPrefix(out, pngMagic) {
		return nil, fmt.Errorf("ffmpeg produced no image at %s", ts)
	}
	return out, nil
}

// VerifyInstalled checks that ffmpeg is available
func (s *FrameSampler) VerifyInstalled(ctx context.Context) error {
	_, err := s.runner.Output(ctx, s.ffmpegPath, "-version")
	if err != nil {
		return fmt.Errorf("ffmpeg not found or not executable: %w", err)
	}
	return nil
}

// Ensure FrameSampler implements video.FrameSampler
var _ video.FrameSampler = (*FrameSampler)(nil)
