package video

// MIME types of the artifacts handed to the model
const (
	FrameMimeType = "image/png"
	AudioMimeType = "audio/mpeg"
)

// VideoArtifact is a temporary file holding the downloaded video bytes.
// It is owned by exactly one request and removed when that request completes.
type VideoArtifact struct {
	Path string
}

// AudioArtifact is a temporary file holding the transcoded audio track.
// It is removed as soon as its bytes have been read into a summary request.
type AudioArtifact struct {
	Path     string
	MimeType string
}

// MediaInfo describes the streams of a local media file
type MediaInfo struct {
	Duration      float64 // container duration in seconds
	VideoDuration float64 // video stream duration in seconds, 0 when not reported
	HasVideo      bool
	HasAudio      bool
}

// FrameDuration is the span in which frames can be decoded. A container may run
// past its last picture when the audio is longer, so the video stream's own
// duration wins whenever it is reported and shorter.
func (m MediaInfo) FrameDuration() float64 {
	if m.VideoDuration > 0 && (m.Duration <= 0 || m.VideoDuration < m.Duration) {
		return m.VideoDuration
	}
	return m.Duration
}
