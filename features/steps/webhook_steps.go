//go:build integration

package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	appmessaging "reel-digest/application/messaging"
	appsummary "reel-digest/application/summary"
	"reel-digest/cmd"
	"reel-digest/infrastructure/filesystem"
	"reel-digest/infrastructure/metrics"
	"reel-digest/infrastructure/webhook"

	"github.com/cucumber/godog"
)

// webhookContext holds test state for webhook scenarios
type webhookContext struct {
	verifyToken string
	appSecret   string
	server      *httptest.Server
	hook        *webhook.Handler
	sender      *mockSender
	status      int
	body        string
}

// SharedWebhookContext is reset before each scenario via Before hook
var SharedWebhookContext *webhookContext

func getWebhookContext() *webhookContext {
	return SharedWebhookContext
}

func InitializeWebhookScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		SharedWebhookContext = &webhookContext{sender: &mockSender{}}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if w := SharedWebhookContext; w != nil && w.server != nil {
			w.server.Close()
			w.hook.Wait()
		}
		SharedWebhookContext = nil
		return c, nil
	})

	ctx.Step(`^the webhook server is running with verify token "([^"]*)"$`, theWebhookServerIsRunning)
	ctx.Step(`^the webhook server requires signatures with app secret "([^"]*)"$`, theWebhookServerRequiresSignatures)
	ctx.Step(`^the platform verifies the subscription with token "([^"]*)" and challenge "([^"]*)"$`, thePlatformVerifiesTheSubscription)
	ctx.Step(`^user "([^"]*)" sends a video "([^"]*)"$`, userSendsAVideo)
	ctx.Step(`^user "([^"]*)" sends the text "([^"]*)"$`, userSendsTheText)
	ctx.Step(`^user "([^"]*)" sends the signed text "([^"]*)"$`, userSendsTheSignedText)
	ctx.Step(`^the platform posts the body "([^"]*)"$`, thePlatformPostsTheBody)
	ctx.Step(`^I fetch the metrics$`, iFetchTheMetrics)
	ctx.Step(`^the response status should be (\d+)$`, theResponseStatusShouldBe)
	ctx.Step(`^the response body should be "([^"]*)"$`, theResponseBodyShouldBe)
	ctx.Step(`^the metrics should include "([^"]*)"$`, theMetricsShouldInclude)
	ctx.Step(`^user "([^"]*)" should receive these replies in order:$`, userShouldReceiveTheseRepliesInOrder)
	ctx.Step(`^no replies should be sent$`, noRepliesShouldBeSent)
}

// start builds the production router around the fake media and model
func (w *webhookContext) start() {
	if w.server != nil {
		w.server.Close()
		w.hook.Wait()
	}

	s := getSummarizeContext()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	met := metrics.New()

	summarizer := appsummary.NewService(
		s.media,
		s.media,
		s.media,
		filesystem.NewTempFiles(),
		appsummary.NewRequester(s.model),
		appsummary.WithRecorder(met),
	)
	messages := appmessaging.NewService(summarizer, w.sender, log)

	w.hook = webhook.NewHandler(messages, w.verifyToken, log,
		webhook.WithAppSecret(w.appSecret),
		webhook.WithMetrics(met),
	)
	w.server = httptest.NewServer(cmd.NewRouter(w.hook, met, log))
}

func (w *webhookContext) do(req *http.Request) error {
	resp, err := w.server.Client().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	w.status = resp.StatusCode
	w.body = string(body)
	return nil
}

func (w *webhookContext) post(body []byte, signature string) error {
	req, err := http.NewRequest(http.MethodPost, w.server.URL+"/webhook", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set(webhook.SignatureHeader, signature)
	}
	return w.do(req)
}

func theWebhookServerIsRunning(token string) error {
	w := getWebhookContext()
	w.verifyToken = token
	w.start()
	return nil
}

func theWebhookServerRequiresSignatures(secret string) error {
	w := getWebhookContext()
	w.appSecret = secret
	w.start()
	return nil
}

func thePlatformVerifiesTheSubscription(token, challenge string) error {
	w := getWebhookContext()
	url := fmt.Sprintf("%s/webhook?hub.mode=subscribe&hub.verify_token=%s&hub.challenge=%s", w.server.URL, token, challenge)
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	return w.do(req)
}

// messageBody builds a webhook envelope with one inbound message
func messageBody(senderID string, message map[string]any) ([]byte, error) {
	return json.Marshal(map[string]any{
		"object": "instagram",
		"entry": []map[string]any{{
			"id":   "17841400000000000",
			"time": 1700000000,
			"messaging": []map[string]any{{
				"sender":    map[string]string{"id": senderID},
				"recipient": map[string]string{"id": "17841400000000000"},
				"timestamp": 1700000000000,
				"message":   message,
			}},
		}},
	})
}

func userSendsAVideo(senderID, url string) error {
	body, err := messageBody(senderID, map[string]any{
		"mid": "mid.video",
		"attachments": []map[string]any{{
			"type":    "video",
			"payload": map[string]string{"url": url},
		}},
	})
	if err != nil {
		return err
	}
	return getWebhookContext().post(body, "")
}

func userSendsTheText(senderID, text string) error {
	body, err := messageBody(senderID, map[string]any{"mid": "mid.text", "text": text})
	if err != nil {
		return err
	}
	return getWebhookContext().post(body, "")
}

func userSendsTheSignedText(senderID, text string) error {
	w := getWebhookContext()
	body, err := messageBody(senderID, map[string]any{"mid": "mid.text", "text": text})
	if err != nil {
		return err
	}
	return w.post(body, webhook.Sign(w.appSecret, body))
}

func thePlatformPostsTheBody(body string) error {
	return getWebhookContext().post([]byte(body), "")
}

func iFetchTheMetrics() error {
	w := getWebhookContext()
	req, err := http.NewRequest(http.MethodGet, w.server.URL+"/metrics", nil)
	if err != nil {
		return err
	}
	return w.do(req)
}

func theResponseStatusShouldBe(code int) error {
	w := getWebhookContext()
	if w.status != code {
		return fmt.Errorf("expected status %d, got %d (body %q)", code, w.status, w.body)
	}
	return nil
}

func theResponseBodyShouldBe(expected string) error {
	w := getWebhookContext()
	if w.body != expected {
		return fmt.Errorf("expected body %q, got %q", expected, w.body)
	}
	return nil
}

func theMetricsShouldInclude(name string) error {
	w := getWebhookContext()
	if !strings.Contains(w.body, name) {
		return fmt.Errorf("expected metrics to include %q", name)
	}
	return nil
}

func userShouldReceiveTheseRepliesInOrder(recipientID string, table *godog.Table) error {
	w := getWebhookContext()
	w.hook.Wait()

	var expected []string
	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header row
		}
		expected = append(expected, row.Cells[0].Value)
	}

	var got []string
	for _, r := range w.sender.sent() {
		if r.RecipientID == recipientID {
			got = append(got, r.Text)
		}
	}

	if len(got) != len(expected) {
		return fmt.Errorf("expected replies %q, got %q", expected, got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			return fmt.Errorf("expected replies %q, got %q", expected, got)
		}
	}
	return nil
}

func noRepliesShouldBeSent() error {
	w := getWebhookContext()
	w.hook.Wait()
	if sent := w.sender.sent(); len(sent) > 0 {
		return fmt.Errorf("expected no replies, got %d", len(sent))
	}
	return nil
}
