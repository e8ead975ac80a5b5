package assistant

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

const (
	DefaultURL       = "https://api.anthropic.com/v1/messages"
	DefaultModel     = "claude-sonnet-4-20250514"
	DefaultMaxTokens = 1024
	apiVersion       = "2023-06-01"
	maxErrorBody     = 300
)

var ErrNotConfigured = errors.New("assistant endpoint is not configured")

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Options struct {
	URL       string
	APIKey    string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// Client sends chat turns to a Messages API compatible endpoint through a
// circuit breaker.
type Client struct {
	url       string
	apiKey    string
	model     string
	maxTokens int
	http      *http.Client
	breaker   *gobreaker.CircuitBreaker
	logger    *log.Entry
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []Message `json:"messages"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

func NewClient(opts Options, logger *log.Logger) *Client {
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	entry := logger.WithField("component", "assistant")

	return &Client{
		url:       opts.URL,
		apiKey:    opts.APIKey,
		model:     opts.Model,
		maxTokens: opts.MaxTokens,
		http:      &http.Client{Timeout: opts.Timeout},
		logger:    entry,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "assistant-cb",
			MaxRequests: 1,
			Timeout:     5 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 3
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				entry.WithFields(log.Fields{
					"breaker": name,
					"from":    from.String(),
					"to":      to.String(),
				}).Warn("circuit breaker state changed")
			},
		}),
	}
}

// Complete returns the text of the assistant's reply to messages.
func (c *Client) Complete(ctx context.Context, system string, messages []Message) (string, error) {
	if c.url == "" {
		return "", ErrNotConfigured
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.send(ctx, system, messages)
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (c *Client) send(ctx context.Context, system string, messages []Message) (string, error) {
	body, err := sonic.Marshal(messagesRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System:    system,
		Messages:  messages,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("anthropic-version", apiVersion)
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("assistant request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if len(raw) > maxErrorBody {
			raw = raw[:maxErrorBody]
		}
		return "", fmt.Errorf("assistant error (%d): %s", resp.StatusCode, string(raw))
	}

	var out messagesResponse
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	for _, block := range out.Content {
		if block.Type == "" || block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", errors.New("empty response content")
}
