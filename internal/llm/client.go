package llm

import (
	"context"
	"strings"
	"time"

	appErr "github.com/chiedozieu/website-builder/pkg/errors"
	openai "github.com/sashabaranov/go-openai"
)

// Completer submits a structured prompt to a text-generation backend and
// returns a single text completion. Implementations may fail or time out;
// callers treat any error as a generation failure.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Client talks to an OpenAI-compatible chat-completions endpoint
// (OpenRouter in production). Stateless; safe for concurrent use.
type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
}

// NewClient builds a Client against the given base URL and model.
func NewClient(apiKey, baseURL, model string, timeout time.Duration) *Client {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &Client{
		api:     openai.NewClientWithConfig(cfg),
		model:   model,
		timeout: timeout,
	}
}

var _ Completer = (*Client)(nil)

func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", appErr.Wrap(err, appErr.CodeUnavailable, "model call timed out")
		}
		return "", appErr.Wrap(err, appErr.CodeUnavailable, "model call failed")
	}
	if len(resp.Choices) == 0 {
		return "", appErr.New(appErr.CodeUnavailable, "model returned no choices")
	}
	out := resp.Choices[0].Message.Content
	if strings.TrimSpace(out) == "" {
		return "", appErr.New(appErr.CodeUnavailable, "model returned empty completion")
	}
	return out, nil
}
