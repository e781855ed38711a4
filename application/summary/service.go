package summary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"reel-digest/domain/summary"
	"reel-digest/domain/video"
)

// Service runs the summarize pipeline: acquire, sample frames and audio, ask the model
type Service struct {
	acquirer    video.Acquirer
	sampler     video.FrameSampler
	extractor   video.AudioExtractor
	remover     video.FileRemover
	requester   *Requester
	recorder    summary.Recorder
	logger      *slog.Logger
	instruction string
	interval    float64
	maxFrames   int
	readFile    func(string) ([]byte, error)
}

// Option is a functional option for configuring Service
type Option func(*Service)

// WithInstruction sets the instruction used when the input has none
func WithInstruction(instruction string) Option {
	return func(s *Service) {
		if strings.TrimSpace(instruction) != "" {
			s.instruction = instruction
		}
	}
}

// WithSamplingInterval sets the interval used when the input has no usable one
func WithSamplingInterval(seconds float64) Option {
	return func(s *Service) {
		if seconds > 0 {
			s.interval = seconds
		}
	}
}

// WithMaxFrames caps the number of frames sent to the model (0 means no cap)
func WithMaxFrames(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.maxFrames = n
		}
	}
}

// WithRecorder sets the metrics recorder
func WithRecorder(recorder summary.Recorder) Option {
	return func(s *Service) {
		s.recorder = recorder
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithFileReader replaces os.ReadFile for loading the extracted audio (for testing)
func WithFileReader(read func(string) ([]byte, error)) Option {
	return func(s *Service) {
		s.readFile = read
	}
}

// NewService creates a new summarize service
func NewService(
	acquirer video.Acquirer,
	sampler video.FrameSampler,
	extractor video.AudioExtractor,
	remover video.FileRemover,
	requester *Requester,
	opts ...Option,
) *Service {
	s := &Service{
		acquirer:    acquirer,
		sampler:     sampler,
		extractor:   extractor,
		remover:     remover,
		requester:   requester,
		logger:      slog.New(slog.DiscardHandler),
		instruction: summary.DefaultInstruction,
		interval:    video.DefaultSamplingInterval,
		readFile:    os.ReadFile,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Summarize downloads the video at in.VideoURL and returns a short text summary.
// It always returns a Result whose Text can be sent to the user; every temporary
// file it creates is removed before it returns.
func (s *Service) Summarize(ctx context.Context, in summary.Input) summary.Result {
	start := time.Now()
	logger := s.logger.With("request_id", uuid.NewString())

	result := s.run(ctx, logger, in)

	logger.Info("done",
		"outcome", result.Outcome,
		"duration", time.Since(start).Round(time.Millisecond))
	if s.recorder != nil {
		s.recorder.ObserveSummary(result.Outcome, time.Since(start))
	}
	return result
}

func (s *Service) run(ctx context.Context, logger *slog.Logger, in summary.Input) summary.Result {
	instruction := in.Instruction
	if strings.TrimSpace(instruction) == "" {
		instruction = s.instruction
	}
	interval := in.SamplingInterval
	if video.ValidateInterval(interval) != nil {
		interval = s.interval
	}

	logger.Info("acquiring video", "url", in.VideoURL)
	artifact, err := s.acquire(ctx, in.VideoURL)
	if err != nil {
		logger.Warn("download failed", "error", err)
		return summary.DownloadFailed()
	}
	defer s.remove(logger, artifact.Path)

	logger.Info("sampling", "path", artifact.Path, "interval", interval)
	frames, audio := s.extract(ctx, logger, artifact.Path, interval)
	if s.recorder != nil {
		s.recorder.ObserveFrames(len(frames))
	}

	req, err := summary.NewRequest(instruction, frames, audio)
	if err != nil {
		if errors.Is(err, summary.ErrNoContent) {
			logger.Warn("nothing to summarize")
			return summary.NothingToSummarize()
		}
		return summary.ModelFailed(err)
	}

	logger.Info("requesting",
		"frames", len(req.Frames()),
		"audio", req.HasAudio())
	return s.requester.Request(ctx, req)
}

// acquire wraps the acquirer so a panic surfaces as a download failure
func (s *Service) acquire(ctx context.Context, url string) (artifact *video.VideoArtifact, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			artifact, err = nil, fmt.Errorf("%w: %v", video.ErrDownloadFailed, rec)
		}
	}()

	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("%w: empty url", video.ErrDownloadFailed)
	}
	artifact, err = s.acquirer.Acquire(ctx, url)
	if err == nil && artifact == nil {
		err = fmt.Errorf("%w: no file", video.ErrDownloadFailed)
	}
	return artifact, err
}

// extract runs frame sampling and audio extraction concurrently.
// Either stage failing leaves its output empty; it never fails the request.
func (s *Service) extract(ctx context.Context, logger *slog.Logger, videoPath string, interval float64) ([]video.FrameSample, *summary.AudioClip) {
	var (
		frames []video.FrameSample
		audio  *summary.AudioClip
		g      errgroup.Group
	)

	g.Go(func() error {
		sampled, err := guard(func() ([]video.FrameSample, error) {
			return s.sampler.Sample(ctx, videoPath, interval)
		})
		if err != nil {
			logger.Warn("frame sampling failed", "error", err)
			return nil
		}
		frames = video.ThinFrames(sampled, s.maxFrames)
		if len(frames) < len(sampled) {
			logger.Info("thinned frames", "sampled", len(sampled), "kept", len(frames))
		}
		return nil
	})

	g.Go(func() error {
		clip, err := guard(func() (*summary.AudioClip, error) {
			return s.loadAudio(ctx, logger, videoPath)
		})
		if err != nil {
			logger.Warn("audio extraction failed", "error", err)
			return nil
		}
		audio = clip
		return nil
	})

	_ = g.Wait()
	return frames, audio
}

// loadAudio extracts the audio track, reads it into memory and removes the file
func (s *Service) loadAudio(ctx context.Context, logger *slog.Logger, videoPath string) (*summary.AudioClip, error) {
	artifact, err := s.extractor.Extract(ctx, videoPath)
	if err != nil {
		return nil, err
	}
	if artifact == nil {
		logger.Info("no audio track")
		return nil, nil
	}
	defer s.remove(logger, artifact.Path)

	data, err := s.readFile(artifact.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read extracted audio: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return &summary.AudioClip{Data: data, MimeType: artifact.MimeType}, nil
}

func (s *Service) remove(logger *slog.Logger, path string) {
	if err := s.remover.Remove(path); err != nil {
		logger.Warn("failed to remove temporary file", "path", path, "error", err)
	}
}

// guard runs fn and converts a panic into an error
func guard[T any](fn func() (T, error)) (out T, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			var zero T
			out, err = zero, fmt.Errorf("panic: %v", rec)
		}
	}()
	return fn()
}
