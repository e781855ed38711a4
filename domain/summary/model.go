package summary

import (
	"context"
	"time"
)

// Model is a one-shot multimodal text generator
// This is a port that can be implemented by different infrastructure adapters
type Model interface {
	// CountTokens estimates the token size of the assembled request
	CountTokens(ctx context.Context, req *Request) (int, error)

	// Generate returns the model's text answer for the request
	Generate(ctx context.Context, req *Request) (string, error)
}

// Input is the entry point payload for a summarize request.
// Empty fields fall back to the service defaults.
type Input struct {
	VideoURL         string
	Instruction      string
	SamplingInterval float64
}

// Recorder receives pipeline measurements
type Recorder interface {
	ObserveSummary(outcome Outcome, elapsed time.Duration)
	ObserveFrames(n int)
}
