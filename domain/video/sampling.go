package video

import (
	"fmt"
	"math"
)

// DefaultSamplingInterval is the spacing in seconds between sampled frames
const DefaultSamplingInterval = 2.0

// ValidateInterval checks that interval is a finite number of seconds greater than zero
func ValidateInterval(interval float64) error {
	if math.IsNaN(interval) || math.IsInf(interval, 0) || interval <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidSamplingInterval, interval)
	}
	return nil
}

// SamplePoints returns the timestamps at which frames are captured for a video of
// the given duration: k*interval for k = 0 .. floor(duration/interval)-1.
//
// The step is the literal floating interval, so 0.5 yields 0, 0.5, 1.0, ...
// Every point is strictly below duration and the count is floor(duration/interval).
func SamplePoints(duration, interval float64) ([]float64, error) {
	if err := ValidateInterval(interval); err != nil {
		return nil, err
	}
	if math.IsNaN(duration) || math.IsInf(duration, 0) || duration <= 0 {
		return nil, fmt.Errorf("%w: got %v", ErrUnknownDuration, duration)
	}

	count := int(math.Floor(duration / interval))
	points := make([]float64, 0, count)
	for k := 0; k < count; k++ {
		t := float64(k) * interval
		if t >= duration {
			break
		}
		points = append(points, t)
	}
	return points, nil
}
