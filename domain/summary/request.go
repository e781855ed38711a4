package summary

import (
	"strings"

	"reel-digest/domain/video"
)

// DefaultInstruction is sent to the model when the caller gives none
const DefaultInstruction = "Summarize this video under 100 words"

// AudioClip is the transcoded audio track held in memory
type AudioClip struct {
	Data     []byte
	MimeType string
}

// Request is the immutable bundle passed once to the model
type Request struct {
	instruction string
	frames      []video.FrameSample
	audio       *AudioClip
}

// NewRequest builds a Request, copying frames and audio so later changes by the
// caller are not observed. It fails with ErrNoContent when there is nothing to send.
func NewRequest(instruction string, frames []video.FrameSample, audio *AudioClip) (*Request, error) {
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return nil, ErrEmptyInstruction
	}
	if audio != nil && len(audio.Data) == 0 {
		audio = nil
	}
	if len(frames) == 0 && audio == nil {
		return nil, ErrNoContent
	}

	req := &Request{
		instruction: instruction,
		frames:      make([]video.FrameSample, len(frames)),
	}
	copy(req.frames, frames)
	if audio != nil {
		clip := AudioClip{Data: append([]byte(nil), audio.Data...), MimeType: audio.MimeType}
		if clip.MimeType == "" {
			clip.MimeType = video.AudioMimeType
		}
		req.audio = &clip
	}
	return req, nil
}

// Instruction returns the instruction text
func (r *Request) Instruction() string {
	return r.instruction
}

// Frames returns a copy of the frames in capture order
func (r *Request) Frames() []video.FrameSample {
	out := make([]video.FrameSample, len(r.frames))
	copy(out, r.frames)
	return out
}

// Audio returns a copy of the audio clip, or nil when the request has none
func (r *Request) Audio() *AudioClip {
	if r.audio == nil {
		return nil
	}
	return &AudioClip{Data: append([]byte(nil), r.audio.Data...), MimeType: r.audio.MimeType}
}

// HasAudio reports whether the request carries an audio part
func (r *Request) HasAudio() bool {
	return r.audio != nil
}

// MediaParts returns the number of image and audio parts in the request
func (r *Request) MediaParts() int {
	n := len(r.frames)
	if r.audio != nil {
		n++
	}
	return n
}

// PayloadBytes returns the total size of the inline media
func (r *Request) PayloadBytes() int {
	n := 0
	for _, f := range r.frames {
		n += len(f.Image)
	}
	if r.audio != nil {
		n += len(r.audio.Data)
	}
	return n
}
