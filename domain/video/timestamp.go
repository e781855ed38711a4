package video

import (
	"fmt"
	"math"
)

// Timestamp is a position in a video with millisecond precision
type Timestamp struct {
	Hours        int
	Minutes      int
	Seconds      int
	Milliseconds int
}

// TimestampFromSeconds converts a non-negative offset in seconds to a Timestamp.
// Negative values are clamped to zero.
func TimestampFromSeconds(s float64) Timestamp {
	if s < 0 || math.IsNaN(s) {
		s = 0
	}
	total := int64(math.Round(s * 1000))
	return Timestamp{
		Hours:        int(total / 3_600_000),
		Minutes:      int(total % 3_600_000 / 60_000),
		Seconds:      int(total % 60_000 / 1000),
		Milliseconds: int(total % 1000),
	}
}

// String returns the timestamp in HH:MM:SS.mmm format, which ffmpeg accepts for -ss
func (t Timestamp) String() string {
	return fmt.Sprintf("%02d:%02d:%02d.%03d", t.Hours, t.Minutes, t.Seconds, t.Milliseconds)
}

// TotalSeconds returns the timestamp as fractional seconds
func (t Timestamp) TotalSeconds() float64 {
	return float64(t.Hours*3600+t.Minutes*60+t.Seconds) + float64(t.Milliseconds)/1000
}

// IsZero returns true if the timestamp is 00:00:00.000
func (t Timestamp) IsZero() bool {
	return t == Timestamp{}
}
