package video

import (
	"errors"
	"testing"
)

func TestNewAudioExtractionRequest(t *testing.T) {
	tests := []struct {
		name        string
		sourcePath  string
		bitrate     string
		wantBitrate string
		wantErr     bool
		errContains string
	}{
		{
			name:        "valid request with explicit bitrate",
			sourcePath:  "/tmp/video-123.mp4",
			bitrate:     "192k",
			wantBitrate: "192k",
		},
		{
			name:        "valid request with default bitrate",
			sourcePath:  "/tmp/video-123.mp4",
			bitrate:     "",
			wantBitrate: DefaultAudioBitrate,
		},
		{
			name:        "surrounding whitespace is trimmed",
			sourcePath:  "/tmp/video-123.mp4",
			bitrate:     " 64k ",
			wantBitrate: "64k",
		},
		{
			name:        "empty source path",
			sourcePath:  "",
			bitrate:     "192k",
			wantErr:     true,
			errContains: "video path is required",
		},
		{
			name:        "bitrate without unit",
			sourcePath:  "/tmp/video-123.mp4",
			bitrate:     "128",
			wantErr:     true,
			errContains: "invalid audio bitrate",
		},
		{
			name:        "bitrate with letters",
			sourcePath:  "/tmp/video-123.mp4",
			bitrate:     "highk",
			wantErr:     true,
			errContains: "invalid audio bitrate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewAudioExtractionRequest(tt.sourcePath, tt.bitrate)

			if tt.wantErr {
				if err == nil {
					t.Errorf("NewAudioExtractionRequest() expected error, got nil")
					return
				}
				if tt.errContains != "" && !contains(err.Error(), tt.errContains) {
					t.Errorf("NewAudioExtractionRequest() error = %v, want error containing %q", err, tt.errContains)
				}
				return
			}

			if err != nil {
				t.Errorf("NewAudioExtractionRequest() unexpected error: %v", err)
				return
			}

			if got.Bitrate != tt.wantBitrate {
				t.Errorf("NewAudioExtractionRequest() Bitrate = %q, want %q", got.Bitrate, tt.wantBitrate)
			}
		})
	}
}

func TestNewAudioExtractionRequest_EmptyPathIsSentinel(t *testing.T) {
	_, err := NewAudioExtractionRequest("", "")
	if !errors.Is(err, ErrEmptyVideoPath) {
		t.Errorf("expected ErrEmptyVideoPath, got %v", err)
	}
}

func TestAudioExtractionRequest_Args(t *testing.T) {
	req := &AudioExtractionRequest{SourceVideoPath: "/tmp/in.mp4", Bitrate: "128k"}

	got := req.Args("/tmp/out.mp3")
	want := []string{"-i", "/tmp/in.mp4", "-vn", "-acodec", "libmp3lame", "-ab", "128k", "-y", "/tmp/out.mp3"}

	if len(got) != len(want) {
		t.Fatalf("Args() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Args()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
