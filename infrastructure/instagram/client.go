package instagram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2"

	"reel-digest/domain/messaging"
)

// DefaultAPIURL is the Instagram Graph API send endpoint
const DefaultAPIURL = "https://graph.instagram.com/v21.0/me/messages"

// MaxMessageLength is the longest text the platform accepts in one message
const MaxMessageLength = 1000

type sendRequest struct {
	Recipient recipient `json:"recipient"`
	Message   message   `json:"message"`
}

type recipient struct {
	ID string `json:"id"`
}

type message struct {
	Text string `json:"text"`
}

type apiErrorBody struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// Client implements messaging.ReplySender using the Instagram Graph API
type Client struct {
	httpClient *http.Client
	apiURL     string
	maxLength  int
}

// ClientOption is a functional option for configuring Client
type ClientOption func(*Client)

// WithAPIURL sets a custom send endpoint (for testing)
func WithAPIURL(url string) ClientOption {
	return func(c *Client) {
		if url != "" {
			c.apiURL = url
		}
	}
}

// WithHTTPClient sets the HTTP client; it must add authorization itself
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithMaxLength overrides the per-message length limit
func WithMaxLength(n int) ClientOption {
	return func(c *Client) {
		c.maxLength = n
	}
}

// NewClient creates a new Instagram client that authenticates with the page access token
func NewClient(ctx context.Context, accessToken string, opts ...ClientOption) *Client {
	c := &Client{
		apiURL:    DefaultAPIURL,
		maxLength: MaxMessageLength,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
		c.httpClient = oauth2.NewClient(ctx, src)
	}

	return c
}

// Send implements messaging.ReplySender. Text longer than the platform limit is
// delivered as consecutive messages.
func (c *Client) Send(ctx context.Context, reply messaging.Reply) error {
	if err := reply.Validate(); err != nil {
		return fmt.Errorf("invalid reply: %w", err)
	}

	for _, chunk := range messaging.SplitText(reply.Text, c.maxLength) {
		if err := c.post(ctx, reply.RecipientID, chunk); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) post(ctx context.Context, recipientID, text string) error {
	body, err := json.Marshal(sendRequest{
		Recipient: recipient{ID: recipientID},
		Message:   message{Text: text},
	})
	if err != nil {
		return fmt.Errorf("failed to encode reply: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", messaging.ErrSendFailed, err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d: %s", messaging.ErrSendFailed, resp.StatusCode, errorDetail(respBody))
	}
	return nil
}

// errorDetail extracts the Graph API error message when the body has one
func errorDetail(body []byte) string {
	var parsed apiErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	return strings.TrimSpace(string(body))
}

// Ensure Client implements messaging.ReplySender
var _ messaging.ReplySender = (*Client)(nil)
