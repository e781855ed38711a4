package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"reel-digest/domain/video"
)

// Prober implements video.Prober using ffprobe
type Prober struct {
	ffprobePath string
	runner      CommandRunner
}

// ProberOption is a functional option for configuring Prober
type ProberOption func(*Prober)

// WithFFprobePath sets a custom ffprobe executable path
func WithFFprobePath(path string) ProberOption {
	return func(p *Prober) {
		p.ffprobePath = path
	}
}

// WithProberCommandRunner sets a custom command runner (for testing)
func WithProberCommandRunner(runner CommandRunner) ProberOption {
	return func(p *Prober) {
		p.runner = runner
	}
}

// NewProber creates a new ffprobe-based prober
func NewProber(opts ...ProberOption) *Prober {
	p := &Prober{
		ffprobePath: "ffprobe",
		runner:      &ExecCommandRunner{},
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// probeOutput is the subset of `ffprobe -print_format json` we read
type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType string `json:"codec_type"`
		Duration  string `json:"duration"`
	} `json:"streams"`
}

// Probe implements video.Prober
func (p *Prober) Probe(ctx context.Context, path string) (video.MediaInfo, error) {
	if path == "" {
		return video.MediaInfo{}, video.ErrEmptyVideoPath
	}

	out, err := p.runner.Output(ctx, p.ffprobePath,
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)
	if err != nil {
		return video.MediaInfo{}, fmt.Errorf("ffprobe failed: %w", err)
	}

	var parsed probeOutput
	if err := json.Unmarshal(out, &parsed); err != nil {
		return video.MediaInfo{}, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	var info video.MediaInfo
	for _, s := range parsed.Streams {
		switch s.CodecType {
		case "video":
			info.HasVideo = true
			if d, err := strconv.ParseFloat(s.Duration, 64); err == nil && d > 0 && info.VideoDuration == 0 {
				info.VideoDuration = d
			}
		case "audio":
			info.HasAudio = true
		}
	}

	// Some muxers only report the duration per stream
	if d, err := strconv.ParseFloat(parsed.Format.Duration, 64); err == nil && d > 0 {
		info.Duration = d
	} else {
		info.Duration = info.VideoDuration
	}

	return info, nil
}

// VerifyInstalled checks that ffprobe is available
func (p *Prober) VerifyInstalled(ctx context.Context) error {
	_, err := p.runner.Output(ctx, p.ffprobePath, "-version")
	if err != nil {
		return fmt.Errorf("ffprobe not found or not executable: %w", err)
	}
	return nil
}

// Ensure Prober implements video.Prober
var _ video.Prober = (*Prober)(nil)
