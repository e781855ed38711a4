package video

import (
	"fmt"
	"strings"
)

// DefaultAudioBitrate is the default bitrate for audio extraction
const DefaultAudioBitrate = "128k"

// AudioExtractionRequest represents a request to extract audio from a video
type AudioExtractionRequest struct {
	SourceVideoPath string
	Bitrate         string
}

// NewAudioExtractionRequest creates a new AudioExtractionRequest with validation
func NewAudioExtractionRequest(sourcePath string, bitrate string) (*AudioExtractionRequest, error) {
	if sourcePath == "" {
		return nil, ErrEmptyVideoPath
	}

	bitrate = strings.TrimSpace(bitrate)
	if bitrate == "" {
		bitrate = DefaultAudioBitrate
	}
	if !strings.HasSuffix(bitrate, "k") || len(bitrate) < 2 {
		return nil, fmt.Errorf("invalid audio bitrate %q: expected a value like 128k", bitrate)
	}
	for _, r := range bitrate[:len(bitrate)-1] {
		if r < '0' || r > '9' {
			return nil, fmt.Errorf("invalid audio bitrate %q: expected a value like 128k", bitrate)
		}
	}

	return &AudioExtractionRequest{
		SourceVideoPath: sourcePath,
		Bitrate:         bitrate,
	}, nil
}

// Args returns the ffmpeg arguments that transcode the audio track to MP3 at outputPath
func (r *AudioExtractionRequest) Args(outputPath string) []string {
	return []string{
		"-i", r.SourceVideoPath,
		"-vn",                   // No video
		"-acodec", "libmp3lame", // MP3 codec
		"-ab", r.Bitrate,        // Audio bitrate
		"-y",                    // Overwrite output file if it exists
		outputPath,
	}
}
