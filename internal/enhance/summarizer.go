// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enhance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/paper-aggregator/pkg/types"
)

// completionAPIBase is the chat-completions endpoint. Declared as a var
// so tests can substitute an httptest server.
var completionAPIBase = "https://api.openai.com/v1/chat/completions"

// Client wraps an OpenAI-compatible chat completions API.
type Client struct {
	HTTPClient *http.Client
	Model      string
	APIKey     string
}

// NewClient returns a completion client, or a nil Completer when no model
// is configured so callers can pass the result straight to an Enhancer.
// The return type is the interface: a nil *Client stored into a Completer
// would not compare equal to nil and the Enhancer would call it.
func NewClient(httpClient *http.Client, cfg types.EnhanceConfig) Completer {
	if cfg.Model == "" {
		return nil
	}
	return &Client{HTTPClient: httpClient, Model: cfg.Model, APIKey: cfg.APIKey}
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete sends a prompt and returns the model's reply, trimmed.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	payload := chatRequest{
		Model:     c.Model,
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens: 300,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, completionAPIBase, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading completion response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion API returned HTTP %d", resp.StatusCode)
	}

	var cr chatResponse
	if err := json.Unmarshal(respBody, &cr); err != nil {
		return "", fmt.Errorf("parsing completion response: %w", err)
	}
	if cr.Error != nil {
		return "", fmt.Errorf("completion API error: %s", cr.Error.Message)
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("completion API returned no choices")
	}

	return strings.TrimSpace(cr.Choices[0].Message.Content), nil
}

// summaryPrompt builds the summarization prompt for one record.
func summaryPrompt(p types.Paper) string {
	return fmt.Sprintf(`Summarize this paper in two or three plain sentences for a researcher skimming results.

Title: %s

Abstract:
%s

Return only the summary text.`, p.Title, p.Abstract)
}
