package summary

import (
	"errors"
	"testing"

	"reel-digest/domain/video"
)

func sampleFrames() []video.FrameSample {
	return []video.FrameSample{
		{Timestamp: 0, Image: []byte("png-0"), MimeType: video.FrameMimeType},
		{Timestamp: 2, Image: []byte("png-2"), MimeType: video.FrameMimeType},
	}
}

func TestNewRequest(t *testing.T) {
	tests := []struct {
		name        string
		instruction string
		frames      []video.FrameSample
		audio       *AudioClip
		wantErr     error
		wantParts   int
	}{
		{
			name:        "frames and audio",
			instruction: DefaultInstruction,
			frames:      sampleFrames(),
			audio:       &AudioClip{Data: []byte("mp3"), MimeType: video.AudioMimeType},
			wantParts:   3,
		},
		{
			name:        "frames only",
			instruction: DefaultInstruction,
			frames:      sampleFrames(),
			wantParts:   2,
		},
		{
			name:        "audio only",
			instruction: DefaultInstruction,
			audio:       &AudioClip{Data: []byte("mp3")},
			wantParts:   1,
		},
		{
			name:        "nothing to send",
			instruction: DefaultInstruction,
			wantErr:     ErrNoContent,
		},
		{
			name:        "empty audio counts as absent",
			instruction: DefaultInstruction,
			audio:       &AudioClip{},
			wantErr:     ErrNoContent,
		},
		{
			name:        "blank instruction",
			instruction: "   ",
			frames:      sampleFrames(),
			wantErr:     ErrEmptyInstruction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := NewRequest(tt.instruction, tt.frames, tt.audio)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NewRequest() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewRequest() unexpected error: %v", err)
			}
			if got := req.MediaParts(); got != tt.wantParts {
				t.Errorf("MediaParts() = %d, want %d", got, tt.wantParts)
			}
		})
	}
}

func TestRequest_IsImmutable(t *testing.T) {
	frames := sampleFrames()
	audio := &AudioClip{Data: []byte("mp3")}

	req, err := NewRequest(DefaultInstruction, frames, audio)
	if err != nil {
		t.Fatalf("NewRequest() unexpected error: %v", err)
	}

	// Mutating the caller's inputs must not leak into the request
	frames[0].Timestamp = 99
	audio.Data[0] = 'X'

	if got := req.Frames()[0].Timestamp; got != 0 {
		t.Errorf("frame timestamp changed to %v after caller mutation", got)
	}
	if got := string(req.Audio().Data); got != "mp3" {
		t.Errorf("audio data changed to %q after caller mutation", got)
	}

	// Mutating returned copies must not leak either
	req.Frames()[1].Timestamp = 42
	req.Audio().Data[0] = 'Y'

	if got := req.Frames()[1].Timestamp; got != 2 {
		t.Errorf("frame timestamp changed to %v after accessor mutation", got)
	}
	if got := string(req.Audio().Data); got != "mp3" {
		t.Errorf("audio data changed to %q after accessor mutation", got)
	}
}

func TestRequest_AudioDefaultsMimeType(t *testing.T) {
	req, err := NewRequest(DefaultInstruction, nil, &AudioClip{Data: []byte("mp3")})
	if err != nil {
		t.Fatalf("NewRequest() unexpected error: %v", err)
	}
	if got := req.Audio().MimeType; got != video.AudioMimeType {
		t.Errorf("Audio().MimeType = %q, want %q", got, video.AudioMimeType)
	}
	if !req.HasAudio() {
		t.Error("HasAudio() = false, want true")
	}
	if got := req.PayloadBytes(); got != 3 {
		t.Errorf("PayloadBytes() = %d, want 3", got)
	}
}
