package webhook

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"reel-digest/domain/messaging"
	"reel-digest/infrastructure/metrics"
)

// maxBodyBytes bounds the webhook request body
const maxBodyBytes = 1 << 20

// Dispatcher handles one inbound event to completion
type Dispatcher interface {
	Handle(ctx context.Context, event messaging.Event) error
}

// Handler exposes the Instagram webhook endpoints using go-chi.
type Handler struct {
	dispatcher  Dispatcher
	verifyToken string
	appSecret   string
	log         *slog.Logger
	metrics     *metrics.Metrics
	wg          sync.WaitGroup
}

// Option is a functional option for configuring Handler
type Option func(*Handler)

// WithAppSecret enables X-Hub-Signature-256 verification of POST bodies
func WithAppSecret(secret string) Option {
	return func(h *Handler) {
		h.appSecret = secret
	}
}

// WithMetrics records in-flight message processing.
// Metrics may be nil to disable metric recording (e.g. in tests).
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) {
		h.metrics = m
	}
}

// NewHandler returns a Handler that dispatches events to d.
func NewHandler(d Dispatcher, verifyToken string, log *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		dispatcher:  d,
		verifyToken: verifyToken,
		log:         log,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes mounts the webhook endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/webhook", h.Verify)
	r.Post("/webhook", h.Receive)
}

// Verify handles GET /webhook, the platform's subscription handshake.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("hub.mode") == "subscribe" && h.verifyToken != "" && q.Get("hub.verify_token") == h.verifyToken {
		h.log.Info("webhook verified")
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, q.Get("hub.challenge"))
		return
	}

	h.log.Warn("webhook verification failed", slog.String("mode", q.Get("hub.mode")))
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	io.WriteString(w, "Verification failed!")
}

// Receive handles POST /webhook. Events are processed in the background so the
// platform gets its 200 immediately.
func (h *Handler) Receive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeStatus(w, http.StatusBadRequest, "failed to read body")
		return
	}

	if h.appSecret != "" && !ValidSignature(h.appSecret, body, r.Header.Get(SignatureHeader)) {
		h.log.Warn("rejected webhook with bad signature")
		writeStatus(w, http.StatusForbidden, "invalid signature")
		return
	}

	events, err := ParseEvents(body)
	if err != nil {
		h.log.Warn("invalid webhook body", slog.String("error", err.Error()))
		writeStatus(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := context.WithoutCancel(r.Context())
	for _, ev := range events {
		h.dispatch(ctx, ev)
	}

	writeStatus(w, http.StatusOK, "")
}

func (h *Handler) dispatch(ctx context.Context, ev messaging.Event) {
	h.wg.Add(1)
	if h.metrics != nil {
		h.metrics.MessageStarted()
	}
	go func() {
		defer h.wg.Done()
		if h.metrics != nil {
			defer h.metrics.MessageDone()
		}
		defer func() {
			if rec := recover(); rec != nil {
				h.log.Error("message handler panicked", slog.Any("panic", rec))
			}
		}()

		log := h.log.With(slog.String("sender", ev.Sender()))
		switch m := ev.(type) {
		case messaging.VideoMessage:
			log.Info("received video", slog.String("url", m.VideoURL))
		case messaging.TextMessage:
			log.Info("received message", slog.String("text", m.Text))
		}

		if err := h.dispatcher.Handle(ctx, ev); err != nil {
			log.Error("failed to handle message", slog.String("error", err.Error()))
		}
	}()
}

// Wait blocks until all background message processing has finished.
func (h *Handler) Wait() {
	h.wg.Wait()
}

type statusBody struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func writeStatus(w http.ResponseWriter, code int, msg string) {
	body := statusBody{Status: "success"}
	if code != http.StatusOK {
		body = statusBody{Status: "error", Message: msg}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}
