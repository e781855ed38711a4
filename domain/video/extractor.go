package video

import "context"

// Acquirer fetches a remote video into a local temporary file.
// On failure no file is left behind.
type Acquirer interface {
	Acquire(ctx context.Context, url string) (*VideoArtifact, error)
}

// FrameSampler decodes a video and returns still frames at every multiple of interval.
// An error means nothing usable was decoded; callers treat it as an empty sequence.
type FrameSampler interface {
	Sample(ctx context.Context, videoPath string, interval float64) ([]FrameSample, error)
}

// AudioExtractor defines the interface for audio extraction operations
// This is a port that can be implemented by different infrastructure adapters
type AudioExtractor interface {
	// Extract transcodes the audio track of videoPath into a new temporary file.
	// It returns (nil, nil) when the source has no audio track.
	Extract(ctx context.Context, videoPath string) (*AudioArtifact, error)
}

// Prober reads stream and duration information from a media file
type Prober interface {
	Probe(ctx context.Context, path string) (MediaInfo, error)
}

// FileChecker defines the interface for checking file existence
type FileChecker interface {
	// Exists returns true if the file exists
	Exists(path string) bool
}

// FileRemover deletes temporary artifacts.
// Removing a file that no longer exists is not an error.
type FileRemover interface {
	Remove(path string) error
}
