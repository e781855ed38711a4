package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reel-digest/domain/messaging"
	"reel-digest/domain/summary"
	"reel-digest/domain/video"
)

type stubChecker map[string]bool

func (s stubChecker) Exists(path string) bool { return s[path] }

type stubSampler struct {
	frames []video.FrameSample
	err    error
}

func (s *stubSampler) Sample(ctx context.Context, videoPath string, interval float64) ([]video.FrameSample, error) {
	return s.frames, s.err
}

type recordingSender struct {
	replies []messaging.Reply
	err     error
}

func (r *recordingSender) Send(ctx context.Context, reply messaging.Reply) error {
	if r.err != nil {
		return r.err
	}
	r.replies = append(r.replies, reply)
	return nil
}

type stubSummarizer struct {
	result summary.Result
	got    summary.Input
}

func (s *stubSummarizer) Summarize(ctx context.Context, in summary.Input) summary.Result {
	s.got = in
	return s.result
}

func TestRunSampleFrames_WritesOneFilePerKeptFrame(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "frames")
	sampler := &stubSampler{}
	for i := 0; i < 6; i++ {
		sampler.frames = append(sampler.frames, video.FrameSample{
			Timestamp: float64(i) * 2,
			Image:     []byte{0x89, 'P', 'N', 'G', byte(i)},
			MimeType:  video.FrameMimeType,
		})
	}

	var buf bytes.Buffer
	err := RunSampleFramesWithDependencies(context.Background(), sampler, stubChecker{"clip.mp4": true},
		"clip.mp4", out, 2, 3, &buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatalf("failed to read output dir: %v", err)
	}
	want := []string{"frame_00000.000.png", "frame_00004.000.png", "frame_00008.000.png"}
	if len(entries) != len(want) {
		t.Fatalf("expected %d files, got %d", len(want), len(entries))
	}
	for i, e := range entries {
		if e.Name() != want[i] {
			t.Errorf("file %d: expected %s, got %s", i, want[i], e.Name())
		}
	}
	if !strings.Contains(buf.String(), "Wrote 3 of 6 frames") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestRunSampleFrames_Errors(t *testing.T) {
	tests := []struct {
		name     string
		interval float64
		exists   bool
		sampler  *stubSampler
		wantErr  string
	}{
		{"invalid interval", 0, true, &stubSampler{}, "sampling interval"},
		{"missing source", 1, false, &stubSampler{}, "source file not found"},
		{"sampler failure", 1, true, &stubSampler{err: errors.New("corrupt")}, "frame sampling failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := RunSampleFramesWithDependencies(context.Background(), tt.sampler,
				stubChecker{"clip.mp4": tt.exists}, "clip.mp4", t.TempDir(), tt.interval, 0, &buf)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestRunSendReply(t *testing.T) {
	sender := &recordingSender{}
	var buf bytes.Buffer

	if err := RunSendReplyWithDependencies(context.Background(), sender, " 1789 ", "hello", &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.replies) != 1 || sender.replies[0].RecipientID != "1789" {
		t.Fatalf("unexpected replies: %+v", sender.replies)
	}

	if err := RunSendReplyWithDependencies(context.Background(), sender, "", "hello", &buf); !errors.Is(err, messaging.ErrNoRecipient) {
		t.Errorf("expected ErrNoRecipient, got %v", err)
	}
	if err := RunSendReplyWithDependencies(context.Background(), sender, "1789", "  ", &buf); err == nil {
		t.Error("expected error for empty text")
	}

	failing := &recordingSender{err: errors.New("status 400")}
	if err := RunSendReplyWithDependencies(context.Background(), failing, "1789", "hello", &buf); err == nil {
		t.Error("expected send error to be returned")
	}
}

func TestRunSummarize(t *testing.T) {
	tests := []struct {
		name    string
		result  summary.Result
		wantErr bool
	}{
		{"summary", summary.Summarized("A dog catches a frisbee."), false},
		{"download failure", summary.DownloadFailed(), true},
		{"model failure", summary.ModelFailed(errors.New("quota")), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubSummarizer{result: tt.result}
			var buf bytes.Buffer
			in := summary.Input{VideoURL: "https://example.com/v.mp4", SamplingInterval: 0.5}

			err := RunSummarizeWithDependencies(context.Background(), svc, in, &buf)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if strings.TrimSpace(buf.String()) != tt.result.Text {
				t.Errorf("expected output %q, got %q", tt.result.Text, buf.String())
			}
			if svc.got != in {
				t.Errorf("input not passed through: %+v", svc.got)
			}
		})
	}
}
