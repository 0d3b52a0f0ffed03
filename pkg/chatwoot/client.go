// Package chatwoot is a minimal client for the Chatwoot application API.
package chatwoot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds every outbound API call.
const DefaultTimeout = 10 * time.Second

// Config holds the connection settings for a Chatwoot installation.
type Config struct {
	BaseURL  string
	APIToken string
	Timeout  time.Duration
}

// Client posts messages through the Chatwoot application API.
type Client struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
}

// New creates a Client. A zero Timeout falls back to DefaultTimeout.
func New(config Config) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:  strings.TrimRight(config.BaseURL, "/"),
		apiToken: config.APIToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// HasToken reports whether an API token is configured.
func (c *Client) HasToken() bool {
	return c.apiToken != ""
}

// createMessageRequest is the body of the create-message endpoint.
type createMessageRequest struct {
	Content           string         `json:"content"`
	MessageType       string         `json:"message_type"`
	Private           bool           `json:"private"`
	ContentType       string         `json:"content_type"`
	ContentAttributes map[string]any `json:"content_attributes"`
}

// Message is the subset of the created message the bot cares about. ID and
// ConversationID hold whatever JSON value the API returned, with numbers
// kept as json.Number.
type Message struct {
	ID             any    `json:"id"`
	Content        string `json:"content"`
	ConversationID any    `json:"conversation_id"`
}

// CreateOutgoingMessage posts a plain-text outgoing message into a
// conversation and returns the created message.
func (c *Client) CreateOutgoingMessage(ctx context.Context, accountID, conversationID, content string, private bool) (*Message, error) {
	reqBody := createMessageRequest{
		Content:           content,
		MessageType:       "outgoing",
		Private:           private,
		ContentType:       "text",
		ContentAttributes: map[string]any{},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/api/v1/accounts/%s/conversations/%s/messages",
		c.baseURL, url.PathEscape(accountID), url.PathEscape(conversationID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api_access_token", c.apiToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var msg Message
	dec := json.NewDecoder(bytes.NewReader(respBody))
	dec.UseNumber()
	if err := dec.Decode(&msg); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	return &msg, nil
}
