package video

// FrameSample is one still image captured from a video
type FrameSample struct {
	Timestamp float64 // seconds from the start of the video
	Image     []byte  // encoded still image
	MimeType  string
}

// ThinFrames keeps exactly max frames when there are more, chosen at an even
// stride from the first frame. Kept frames stay in order, so their spacing
// remains a multiple of the sampling interval. A max of zero or less returns
// frames unchanged.
func ThinFrames(frames []FrameSample, max int) []FrameSample {
	if max <= 0 || len(frames) <= max {
		return frames
	}
	if max == 1 {
		return frames[:1]
	}
	stride := (len(frames) - 1) / (max - 1)
	thinned := make([]FrameSample, 0, max)
	for i := 0; i < len(frames) && len(thinned) < max; i += stride {
		thinned = append(thinned, frames[i])
	}
	return thinned
}

// Timestamps returns the capture time of each frame
func Timestamps(frames []FrameSample) []float64 {
	ts := make([]float64, len(frames))
	for i, f := range frames {
		ts[i] = f.Timestamp
	}
	return ts
}
