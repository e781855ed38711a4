//go:build !opencv

package opencv

import (
	"context"
	"errors"

	"reel-digest/domain/video"
)

// errUnavailable is returned by every operation of the stub sampler
var errUnavailable = errors.New("opencv frame sampling not available: build with '-tags=opencv' and install OpenCV/GoCV")

// FrameSampler is a stub when GoCV/OpenCV is not available
type FrameSampler struct{}

// FrameSamplerOption is a functional option for configuring FrameSampler
type FrameSamplerOption func(*FrameSampler)

// WithProber is a no-op in stub mode
func WithProber(prober video.Prober) FrameSamplerOption {
	return func(s *FrameSampler) {}
}

// NewFrameSampler creates a stub sampler (requires building with -tags=opencv)
func NewFrameSampler(opts ...FrameSamplerOption) *FrameSampler {
	return &FrameSampler{}
}

// Available reports whether this build can decode with OpenCV
func Available() bool {
	return false
}

// Sample returns an error indicating OpenCV is not available
func (s *FrameSampler) Sample(ctx context.Context, videoPath string, interval float64) ([]video.FrameSample, error) {
	return nil, errUnavailable
}

// Ensure FrameSampler implements video.FrameSampler
var _ video.FrameSampler = (*FrameSampler)(nil)
