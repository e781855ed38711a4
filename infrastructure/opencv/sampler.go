//go:build opencv

package opencv

import (
	"context"
	"fmt"

	"gocv.io/x/gocv"

	"reel-digest/domain/video"
)

// FrameSampler implements video.FrameSampler by decoding in-process with GoCV
type FrameSampler struct {
	prober video.Prober
}

// FrameSamplerOption is a functional option for configuring FrameSampler
type FrameSamplerOption func(*FrameSampler)

// WithProber reads the duration with prober instead of the container metadata OpenCV reports
func WithProber(prober video.Prober) FrameSamplerOption {
	return func(s *FrameSampler) {
		s.prober = prober
	}
}

// NewFrameSampler creates a GoCV-backed frame sampler
func NewFrameSampler(opts ...FrameSamplerOption) *FrameSampler {
	s := &FrameSampler{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Available reports whether this build can decode with OpenCV
func Available() bool {
	return true
}

// Sample implements video.FrameSampler
func (s *FrameSampler) Sample(ctx context.Context, videoPath string, interval float64) ([]video.FrameSample, error) {
	if err := video.ValidateInterval(interval); err != nil {
		return nil, err
	}
	if videoPath == "" {
		return nil, video.ErrEmptyVideoPath
	}

	vc, err := gocv.VideoCaptureFile(videoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open video: %w", err)
	}
	defer vc.Close()

	duration, err := s.duration(ctx, vc, videoPath)
	if err != nil {
		return nil, err
	}

	points, err := video.SamplePoints(duration, interval)
	if err != nil {
		return nil, err
	}

	img := gocv.NewMat()
	defer img.Close()

	frames := make([]video.FrameSample, 0, len(points))
	for _, t := range points {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		vc.Set(gocv.VideoCapturePosMsec, t*1000)
		if ok := vc.Read(&img); !ok || img.Empty() {
			return nil, fmt.Errorf("failed to decode frame at %s", video.TimestampFromSeconds(t))
		}

		buf, err := gocv.IMEncode(gocv.PNGFileExt, img)
		if err != nil {
			return nil, fmt.Errorf("failed to encode frame at %s: %w", video.TimestampFromSeconds(t), err)
		}

		frames = append(frames, video.FrameSample{
			Timestamp: t,
			Image:     buf,
			MimeType:  video.FrameMimeType,
		})
	}

	return frames, nil
}

func (s *FrameSampler) duration(ctx context.Context, vc *gocv.VideoCapture, videoPath string) (float64, error) {
	if s.prober != nil {
		info, err := s.prober.Probe(ctx, videoPath)
		if err != nil {
			return 0, err
		}
		if !info.HasVideo {
			return 0, video.ErrNoVideoStream
		}
		return info.FrameDuration(), nil
	}

	fps := vc.Get(gocv.VideoCaptureFPS)
	count := vc.Get(gocv.VideoCaptureFrameCount)
	if fps <= 0 || count <= 0 {
		return 0, video.ErrUnknownDuration
	}
	return count / fps, nil
}

// Ensure FrameSampler implements video.FrameSampler
var _ video.FrameSampler = (*FrameSampler)(nil)
