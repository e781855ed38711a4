package video

import "errors"

var (
	// ErrDownloadFailed is returned when the remote video cannot be fetched
	ErrDownloadFailed = errors.New("video download failed")

	// ErrInvalidSamplingInterval is returned for intervals that are not finite and positive
	ErrInvalidSamplingInterval = errors.New("sampling interval must be a positive number of seconds")

	// ErrEmptyVideoPath is returned when no local video path is given
	ErrEmptyVideoPath = errors.New("video path is required")

	// ErrNoVideoStream is returned when the source has no decodable video stream
	ErrNoVideoStream = errors.New("source has no video stream")

	// ErrUnknownDuration is returned when the container reports no usable duration
	ErrUnknownDuration = errors.New("video duration is unknown")
)
