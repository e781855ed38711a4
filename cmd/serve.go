package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appmessaging "reel-digest/application/messaging"
	"reel-digest/infrastructure/filesystem"
	"reel-digest/infrastructure/instagram"
	"reel-digest/infrastructure/logging"
	"reel-digest/infrastructure/metrics"
	"reel-digest/infrastructure/webhook"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

// staleAge is how old a leftover temp file must be before serve removes it at startup
const staleAge = time.Hour

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Instagram webhook server",
	Long: `Start the HTTP server that receives Instagram messaging webhooks.

Videos and reels sent as direct messages are downloaded, summarized by Gemini,
and answered with the summary. Text messages receive a short acknowledgement.

Endpoints:
  GET  /webhook   subscription verification
  POST /webhook   message events
  GET  /metrics   Prometheus metrics

Requires gemini.api_key, instagram.page_access_token, and
instagram.verify_token (or GOOGLE_API_KEY, PAGE_ACCESS_TOKEN, VERIFY_TOKEN).

Example:
  reel-digest serve
  reel-digest serve --port 8080`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&servePort, "port", "", "Listen port (default from config or 5000)")
}

func runServe(cmd *cobra.Command, args []string) error {
	c, err := GetConfig()
	if err != nil {
		return err
	}
	if err := c.ValidateServe(); err != nil {
		return err
	}
	if servePort != "" {
		c.Server.Port = servePort
	}

	log := newLogger(c)
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dir := c.Download.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	if removed, err := filesystem.NewTempFiles().Sweep(dir, staleAge); err != nil {
		log.Warn("temp file sweep failed", "dir", dir, "error", err)
	} else if len(removed) > 0 {
		log.Info("removed stale temp files", "dir", dir, "count", len(removed))
	}

	met := metrics.New()

	model, err := newModel(ctx, c)
	if err != nil {
		return err
	}
	summarizer, err := newSummaryService(ctx, c, model, met, log)
	if err != nil {
		return err
	}
	sender := instagram.NewClient(ctx, c.Instagram.PageAccessToken, instagram.WithAPIURL(c.Instagram.APIURL))
	messages := appmessaging.NewService(summarizer, sender, log)

	hook := webhook.NewHandler(messages, c.Instagram.VerifyToken, log,
		webhook.WithAppSecret(c.Instagram.AppSecret),
		webhook.WithMetrics(met),
	)

	srv := &http.Server{
		Addr:              ":" + c.Server.Port,
		Handler:           NewRouter(hook, met, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return RunServer(ctx, srv, hook, log)
}

// NewRouter mounts the webhook and metrics endpoints behind the request middleware
func NewRouter(hook *webhook.Handler, met *metrics.Metrics, log *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(logging.RequestLogger(log))
	r.Use(metrics.RequestMiddleware(met))

	r.Method(http.MethodGet, "/metrics", met.Handler())
	hook.Routes(r)
	return r
}

// RunServer serves until ctx is cancelled, then drains requests and in-flight messages
func RunServer(ctx context.Context, srv *http.Server, hook *webhook.Handler, log *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutdown signal received, draining connections")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	done := make(chan struct{})
	go func() {
		hook.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-shutdownCtx.Done():
		log.Warn("gave up waiting for in-flight messages")
	}

	log.Info("server stopped")
	return nil
}
