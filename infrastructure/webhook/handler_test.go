package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reel-digest/domain/messaging"
)

// recordingDispatcher collects dispatched events
type recordingDispatcher struct {
	mu     sync.Mutex
	events []messaging.Event
	ctxErr []error
}

func (d *recordingDispatcher) Handle(ctx context.Context, ev messaging.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, ev)
	d.ctxErr = append(d.ctxErr, ctx.Err())
	return nil
}

func newTestRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()
	h.Routes(r)
	return r
}

func newTestHandler(d Dispatcher, opts ...Option) *Handler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(d, "verify-me", log, opts...)
}

func TestHandler_Verify(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantCode int
		wantBody string
	}{
		{
			name:     "valid handshake",
			query:    "?hub.mode=subscribe&hub.verify_token=verify-me&hub.challenge=1158201444",
			wantCode: http.StatusOK,
			wantBody: "1158201444",
		},
		{
			name:     "wrong token",
			query:    "?hub.mode=subscribe&hub.verify_token=nope&hub.challenge=1",
			wantCode: http.StatusForbidden,
			wantBody: "Verification failed!",
		},
		{
			name:     "wrong mode",
			query:    "?hub.mode=unsubscribe&hub.verify_token=verify-me&hub.challenge=1",
			wantCode: http.StatusForbidden,
			wantBody: "Verification failed!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(newTestHandler(&recordingDispatcher{}))

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/webhook"+tt.query, nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestHandler_Receive(t *testing.T) {
	d := &recordingDispatcher{}
	h := newTestHandler(d)
	r := newTestRouter(h)

	body := `{"object":"instagram","entry":[{"messaging":[{"sender":{"id":"42"},"message":{"attachments":[{"type":"video","payload":{"url":"https://cdn/v.mp4"}}]}}]}]}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader([]byte(body))))
	h.Wait()

	require.Equal(t, http.StatusOK, rec.Code)
	var resp statusBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)

	require.Len(t, d.events, 1)
	assert.Equal(t, messaging.VideoMessage{SenderID: "42", VideoURL: "https://cdn/v.mp4"}, d.events[0])
	assert.NoError(t, d.ctxErr[0], "dispatch context must outlive the request")
}

func TestHandler_ReceiveBadBody(t *testing.T) {
	d := &recordingDispatcher{}
	r := newTestRouter(newTestHandler(d))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader([]byte("{"))))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"error"`)
	assert.Empty(t, d.events)
}

func TestHandler_ReceiveSignature(t *testing.T) {
	body := []byte(`{"object":"instagram","entry":[{"messaging":[{"sender":{"id":"1"},"message":{"text":"hi"}}]}]}`)

	tests := []struct {
		name      string
		signature string
		wantCode  int
		wantCount int
	}{
		{name: "valid", signature: Sign("app-secret", body), wantCode: http.StatusOK, wantCount: 1},
		{name: "missing", signature: "", wantCode: http.StatusForbidden},
		{name: "forged", signature: Sign("guess", body), wantCode: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &recordingDispatcher{}
			h := newTestHandler(d, WithAppSecret("app-secret"))

			req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
			if tt.signature != "" {
				req.Header.Set(SignatureHeader, tt.signature)
			}
			rec := httptest.NewRecorder()
			newTestRouter(h).ServeHTTP(rec, req)
			h.Wait()

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Len(t, d.events, tt.wantCount)
		})
	}
}
