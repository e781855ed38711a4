package download

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/cenkalti/backoff/v5"

	"reel-digest/domain/video"
)

// chunkSize is the buffer used to stream the response body to disk
const chunkSize = 8192

// DefaultTimeout bounds one download attempt
const DefaultTimeout = 60 * time.Second

// Acquirer implements video.Acquirer over HTTP(S)
type Acquirer struct {
	client      *http.Client
	timeout     time.Duration
	maxAttempts int
	tempDir     string
	logger      *slog.Logger
}

// Option is a functional option for configuring Acquirer
type Option func(*Acquirer)

// WithHTTPClient sets the HTTP client (for testing)
func WithHTTPClient(client *http.Client) Option {
	return func(a *Acquirer) {
		a.client = client
	}
}

// WithTimeout sets the per-attempt download timeout
func WithTimeout(d time.Duration) Option {
	return func(a *Acquirer) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithMaxAttempts sets how many times a failed download is tried
func WithMaxAttempts(n int) Option {
	return func(a *Acquirer) {
		if n > 0 {
			a.maxAttempts = n
		}
	}
}

// WithTempDir sets the directory for downloaded files (default os.TempDir)
func WithTempDir(dir string) Option {
	return func(a *Acquirer) {
		a.tempDir = dir
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(a *Acquirer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAcquirer creates a new HTTP video downloader
func NewAcquirer(opts ...Option) *Acquirer {
	a := &Acquirer{
		client:      http.DefaultClient,
		timeout:     DefaultTimeout,
		maxAttempts: 1,
		logger:      slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Acquire implements video.Acquirer. Every error wraps video.ErrDownloadFailed
// and no file is left on disk when it fails.
func (a *Acquirer) Acquire(ctx context.Context, url string) (*video.VideoArtifact, error) {
	path, err := backoff.Retry(ctx, func() (string, error) {
		path, err := a.fetch(ctx, url)
		if err != nil {
			if se, ok := err.(*statusError); ok && !se.retryable() {
				return "", backoff.Permanent(err)
			}
			return "", err
		}
		return path, nil
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(uint(a.maxAttempts)),
		backoff.WithNotify(func(err error, next time.Duration) {
			a.logger.Warn("download failed, will retry", "url", url, "error", err, "delay", next)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", video.ErrDownloadFailed, err)
	}

	return &video.VideoArtifact{Path: path}, nil
}

// statusError is a non-2xx HTTP response
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s", e.code, http.StatusText(e.code))
}

// retryable reports whether the server might answer differently next time
func (e *statusError) retryable() bool {
	return e.code == http.StatusTooManyRequests || e.code >= 500
}

// fetch performs one download attempt into a fresh temp file
func (a *Acquirer) fetch(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", backoff.Permanent(err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &statusError{code: resp.StatusCode}
	}

	out, err := os.CreateTemp(a.tempDir, "reel-*.mp4")
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("failed to create temp file: %w", err))
	}

	n, copyErr := io.CopyBuffer(out, resp.Body, make([]byte, chunkSize))
	closeErr := out.Close()
	if copyErr != nil || closeErr != nil {
		os.Remove(out.Name())
		if copyErr != nil {
			return "", fmt.Errorf("failed to read body: %w", copyErr)
		}
		return "", closeErr
	}

	a.logger.Debug("downloaded video", "url", url, "bytes", n, "path", out.Name())
	return out.Name(), nil
}

// Ensure Acquirer implements video.Acquirer
var _ video.Acquirer = (*Acquirer)(nil)
