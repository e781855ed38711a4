package cmd

import (
	"context"
	"fmt"
	"log/slog"

	appsummary "reel-digest/application/summary"
	"reel-digest/domain/summary"
	"reel-digest/domain/video"
	"reel-digest/infrastructure/config"
	"reel-digest/infrastructure/download"
	"reel-digest/infrastructure/ffmpeg"
	"reel-digest/infrastructure/filesystem"
	"reel-digest/infrastructure/gemini"
	"reel-digest/infrastructure/opencv"
)

// Verifier is implemented by adapters that depend on an external binary
type Verifier interface {
	VerifyInstalled(ctx context.Context) error
}

// newFrameSampler returns the sampler selected by frames.backend
func newFrameSampler(c *config.Config, prober video.Prober) (video.FrameSampler, error) {
	switch c.Frames.Backend {
	case "opencv":
		if !opencv.Available() {
			return nil, fmt.Errorf("frames.backend is opencv but this binary was built without '-tags=opencv'")
		}
		return opencv.NewFrameSampler(opencv.WithProber(prober)), nil
	default:
		return ffmpeg.NewFrameSampler(ffmpeg.WithSamplerProber(prober)), nil
	}
}

func newExtractor(c *config.Config, prober video.Prober) *ffmpeg.AudioExtractor {
	return ffmpeg.NewExtractor(
		ffmpeg.WithExtractorProber(prober),
		ffmpeg.WithBitrate(c.Audio.Bitrate),
		ffmpeg.WithTempDir(c.Download.TempDir),
	)
}

// newModel connects to Gemini with the configured key
func newModel(ctx context.Context, c *config.Config) (*gemini.Client, error) {
	svc, err := gemini.NewGoogleService(ctx, c.Gemini.APIKey)
	if err != nil {
		return nil, fmt.Errorf("%w (set GOOGLE_API_KEY or gemini.api_key)", err)
	}
	return gemini.NewClient(svc, gemini.WithModel(c.Gemini.Model)), nil
}

// newSummaryService assembles the pipeline from production adapters
func newSummaryService(
	ctx context.Context,
	c *config.Config,
	model summary.Model,
	recorder summary.Recorder,
	logger *slog.Logger,
) (*appsummary.Service, error) {
	prober := ffmpeg.NewProber()
	sampler, err := newFrameSampler(c, prober)
	if err != nil {
		return nil, err
	}
	extractor := newExtractor(c, prober)

	for _, v := range []Verifier{prober, extractor} {
		if err := v.VerifyInstalled(ctx); err != nil {
			return nil, err
		}
	}

	acquirer := download.NewAcquirer(
		download.WithTimeout(c.Download.Timeout),
		download.WithMaxAttempts(c.Download.MaxAttempts),
		download.WithTempDir(c.Download.TempDir),
		download.WithLogger(logger),
	)

	requester := appsummary.NewRequester(model,
		appsummary.WithModelTimeout(c.Summary.ModelTimeout),
		appsummary.WithMaxAttempts(c.Gemini.MaxAttempts),
		appsummary.WithRequesterLogger(logger),
	)

	opts := []appsummary.Option{
		appsummary.WithInstruction(c.Summary.Instruction),
		appsummary.WithSamplingInterval(c.Summary.SamplingInterval),
		appsummary.WithMaxFrames(c.Summary.MaxFrames),
		appsummary.WithLogger(logger),
	}
	if recorder != nil {
		opts = append(opts, appsummary.WithRecorder(recorder))
	}

	return appsummary.NewService(acquirer, sampler, extractor, filesystem.NewTempFiles(), requester, opts...), nil
}
