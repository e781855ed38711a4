//go:build integration

package steps

import (
	"context"
	"errors"
	"os"
	"sync"

	"reel-digest/domain/messaging"
	"reel-digest/domain/summary"
	"reel-digest/domain/video"
)

// mockFileChecker reports existence from a fixed map
type mockFileChecker struct {
	existingFiles map[string]bool
}

func (m *mockFileChecker) Exists(path string) bool {
	return m.existingFiles[path]
}

// fakeVideo describes what the mock adapters find behind one URL
type fakeVideo struct {
	duration    float64
	hasAudio    bool
	decodable   bool
	unreachable bool
}

// fakeMedia plays the acquirer, sampler, and extractor for a set of fake videos.
// Files are real so that cleanup can be observed on disk.
type fakeMedia struct {
	mu     sync.Mutex
	dir    string
	videos map[string]fakeVideo
	byPath map[string]fakeVideo
}

func newFakeMedia(dir string) *fakeMedia {
	return &fakeMedia{
		dir:    dir,
		videos: make(map[string]fakeVideo),
		byPath: make(map[string]fakeVideo),
	}
}

func (m *fakeMedia) Acquire(ctx context.Context, url string) (*video.VideoArtifact, error) {
	m.mu.Lock()
	v, ok := m.videos[url]
	m.mu.Unlock()
	if !ok || v.unreachable {
		return nil, video.ErrDownloadFailed
	}

	f, err := os.CreateTemp(m.dir, "reel-*.mp4")
	if err != nil {
		return nil, err
	}
	f.WriteString("fake video")
	f.Close()

	m.mu.Lock()
	m.byPath[f.Name()] = v
	m.mu.Unlock()
	return &video.VideoArtifact{Path: f.Name()}, nil
}

func (m *fakeMedia) lookup(path string) fakeVideo {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byPath[path]
}

func (m *fakeMedia) Sample(ctx context.Context, videoPath string, interval float64) ([]video.FrameSample, error) {
	v := m.lookup(videoPath)
	if !v.decodable {
		return nil, errors.New("invalid data found when processing input")
	}
	points, err := video.SamplePoints(v.duration, interval)
	if err != nil {
		return nil, err
	}
	frames := make([]video.FrameSample, 0, len(points))
	for _, t := range points {
		frames = append(frames, video.FrameSample{Timestamp: t, Image: []byte("png"), MimeType: video.FrameMimeType})
	}
	return frames, nil
}

func (m *fakeMedia) Extract(ctx context.Context, videoPath string) (*video.AudioArtifact, error) {
	v := m.lookup(videoPath)
	if !v.hasAudio {
		return nil, nil
	}
	f, err := os.CreateTemp(m.dir, "reel-audio-*.mp3")
	if err != nil {
		return nil, err
	}
	f.WriteString("ID3 fake audio")
	f.Close()
	return &video.AudioArtifact{Path: f.Name(), MimeType: video.AudioMimeType}, nil
}

// mockModel answers every request with a fixed text or error
type mockModel struct {
	mu      sync.Mutex
	text    string
	err     error
	calls   int
	lastReq *summary.Request
}

func (m *mockModel) CountTokens(ctx context.Context, req *summary.Request) (int, error) {
	return 100, nil
}

func (m *mockModel) Generate(ctx context.Context, req *summary.Request) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastReq = req
	if m.err != nil {
		return "", m.err
	}
	return m.text, nil
}

// mockSender records every reply
type mockSender struct {
	mu      sync.Mutex
	replies []messaging.Reply
}

func (m *mockSender) Send(ctx context.Context, reply messaging.Reply) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, reply)
	return nil
}

func (m *mockSender) sent() []messaging.Reply {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]messaging.Reply(nil), m.replies...)
}
