package summary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"

	"reel-digest/domain/summary"
)

// DefaultModelTimeout bounds a single summarize call to the model, retries included
const DefaultModelTimeout = 180 * time.Second

// Requester sends one assembled request to the model and turns the answer into a Result
type Requester struct {
	model       summary.Model
	timeout     time.Duration
	maxAttempts int
	logger      *slog.Logger
}

// RequesterOption is a functional option for configuring Requester
type RequesterOption func(*Requester)

// WithModelTimeout sets the deadline for the model call
func WithModelTimeout(d time.Duration) RequesterOption {
	return func(r *Requester) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithMaxAttempts sets how many times a failed model call is tried
func WithMaxAttempts(n int) RequesterOption {
	return func(r *Requester) {
		if n > 0 {
			r.maxAttempts = n
		}
	}
}

// WithRequesterLogger sets the logger
func WithRequesterLogger(logger *slog.Logger) RequesterOption {
	return func(r *Requester) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRequester creates a Requester for the given model
func NewRequester(model summary.Model, opts ...RequesterOption) *Requester {
	r := &Requester{
		model:       model,
		timeout:     DefaultModelTimeout,
		maxAttempts: 1,
		logger:      slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Request asks the model for a summary. It never returns an error: failures are
// reported as a model-error Result whose text can be relayed to the user.
func (r *Requester) Request(ctx context.Context, req *summary.Request) (result summary.Result) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("model call panicked", "panic", rec)
			result = summary.ModelFailed(fmt.Errorf("%v", rec))
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if tokens, err := r.model.CountTokens(ctx, req); err != nil {
		r.logger.Warn("token count unavailable", "error", err)
	} else {
		r.logger.Info("request size",
			"tokens", tokens,
			"media_parts", req.MediaParts(),
			"payload_bytes", req.PayloadBytes())
	}

	text, err := backoff.Retry(ctx, func() (string, error) {
		text, err := r.model.Generate(ctx, req)
		if err != nil {
			if errors.Is(err, summary.ErrRejected) {
				return "", backoff.Permanent(err)
			}
			return "", err
		}
		if text == "" {
			return "", backoff.Permanent(summary.ErrEmptyResponse)
		}
		return text, nil
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(uint(r.maxAttempts)),
		backoff.WithNotify(func(err error, next time.Duration) {
			r.logger.Warn("model call failed, will retry", "error", err, "delay", next)
		}),
	)
	if err != nil {
		r.logger.Error("model call failed", "error", err)
		return summary.ModelFailed(err)
	}

	return summary.Summarized(text)
}
