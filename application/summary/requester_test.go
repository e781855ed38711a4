package summary

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"reel-digest/domain/summary"
	"reel-digest/domain/video"
)

// flakyModel fails the first failures calls with err
type flakyModel struct {
	failures int
	err      error
	calls    int
	text     string
	panics   bool
}

func (m *flakyModel) CountTokens(ctx context.Context, req *summary.Request) (int, error) {
	return 0, errors.New("count unsupported")
}

func (m *flakyModel) Generate(ctx context.Context, req *summary.Request) (string, error) {
	m.calls++
	if m.panics {
		panic("boom")
	}
	if m.calls <= m.failures {
		return "", m.err
	}
	return m.text, nil
}

// slowModel blocks until its context is done
type slowModel struct{}

func (slowModel) CountTokens(ctx context.Context, req *summary.Request) (int, error) {
	return 1, nil
}

func (slowModel) Generate(ctx context.Context, req *summary.Request) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func testRequest(t *testing.T) *summary.Request {
	t.Helper()
	req, err := summary.NewRequest("Summarize", []video.FrameSample{{Timestamp: 0, Image: []byte("png"), MimeType: video.FrameMimeType}}, nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	return req
}

func TestRequester_Request(t *testing.T) {
	tests := []struct {
		name        string
		model       *flakyModel
		attempts    int
		wantOutcome summary.Outcome
		wantCalls   int
	}{
		{
			name:        "success",
			model:       &flakyModel{text: "ok"},
			attempts:    1,
			wantOutcome: summary.OutcomeSummarized,
			wantCalls:   1,
		},
		{
			name:        "single attempt reports first error",
			model:       &flakyModel{failures: 1, err: errors.New("unavailable"), text: "ok"},
			attempts:    1,
			wantOutcome: summary.OutcomeModelError,
			wantCalls:   1,
		},
		{
			name:        "retries transient error",
			model:       &flakyModel{failures: 1, err: errors.New("unavailable"), text: "ok"},
			attempts:    3,
			wantOutcome: summary.OutcomeSummarized,
			wantCalls:   2,
		},
		{
			name:        "rejected request is not retried",
			model:       &flakyModel{failures: 5, err: fmt.Errorf("%w: invalid argument", summary.ErrRejected)},
			attempts:    3,
			wantOutcome: summary.OutcomeModelError,
			wantCalls:   1,
		},
		{
			name:        "empty answer",
			model:       &flakyModel{},
			attempts:    3,
			wantOutcome: summary.OutcomeModelError,
			wantCalls:   1,
		},
		{
			name:        "panic becomes model error",
			model:       &flakyModel{panics: true},
			attempts:    1,
			wantOutcome: summary.OutcomeModelError,
			wantCalls:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRequester(tt.model, WithMaxAttempts(tt.attempts))

			result := r.Request(context.Background(), testRequest(t))

			if result.Outcome != tt.wantOutcome {
				t.Errorf("Outcome = %q, want %q (text %q)", result.Outcome, tt.wantOutcome, result.Text)
			}
			if result.Text == "" {
				t.Error("Text should never be empty")
			}
			if tt.model.calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", tt.model.calls, tt.wantCalls)
			}
		})
	}
}

func TestRequester_Timeout(t *testing.T) {
	r := NewRequester(slowModel{}, WithModelTimeout(20*time.Millisecond))

	start := time.Now()
	result := r.Request(context.Background(), testRequest(t))

	if result.Outcome != summary.OutcomeModelError {
		t.Errorf("Outcome = %q, want model_error", result.Outcome)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("timeout not honoured, took %v", elapsed)
	}
}
