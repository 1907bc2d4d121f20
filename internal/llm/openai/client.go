// Package openai implements llm.Client against any OpenAI-compatible
// chat-completions endpoint. The default provider is Groq.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"resume-ats-backend/internal/analysis"
	"resume-ats-backend/internal/llm"
)

const (
	groqAPIURL   = "https://api.groq.com/openai/v1/chat/completions"
	openaiAPIURL = "https://api.openai.com/v1/chat/completions"
)

// Client calls an OpenAI-compatible chat-completions API.
type Client struct {
	apiKey     string
	model      string
	apiURL     string
	httpClient *http.Client
}

// Options configures the client. Provider selects the endpoint unless BaseURL
// overrides it.
type Options struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
	Timeout  time.Duration
}

// NewClient constructs a client. A missing API key is not an error here; calls
// will return *llm.ConfigError so the route layer can report 503 consistently.
func NewClient(opts Options) *Client {
	apiURL := strings.TrimSpace(opts.BaseURL)
	if apiURL == "" {
		switch opts.Provider {
		case "openai":
			apiURL = openaiAPIURL
		default:
			apiURL = groqAPIURL
		}
	} else if !strings.Contains(apiURL, "/chat/completions") {
		apiURL = strings.TrimRight(apiURL, "/") + "/chat/completions"
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 45 * time.Second
	}

	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		model:      strings.TrimSpace(opts.Model),
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Configured reports whether the client can reach a provider.
func (c *Client) Configured() bool {
	return c.apiKey != "" && c.model != ""
}

func (c *Client) configError() error {
	if c.apiKey == "" {
		return &llm.ConfigError{Reason: "no API key"}
	}
	if c.model == "" {
		return &llm.ConfigError{Reason: "no model"}
	}
	return nil
}

// Analyze scores the resume via one chat-completion call and parses the
// constrained JSON response.
func (c *Client) Analyze(ctx context.Context, resumeText string, sections analysis.Sections) (analysis.Result, error) {
	if !c.Configured() {
		return analysis.Result{}, c.configError()
	}
	content, err := c.chatOnce(ctx, buildAnalysisMessages(resumeText, sections))
	if err != nil {
		return analysis.Result{}, err
	}
	return parseAnalysisResult(content)
}

// KeyPoints extracts 5-8 achievement bullets.
func (c *Client) KeyPoints(ctx context.Context, resumeText string) ([]string, error) {
	if !c.Configured() {
		return nil, c.configError()
	}
	content, err := c.chatOnce(ctx, buildKeyPointsMessages(resumeText))
	if err != nil {
		return nil, err
	}
	return parseKeyPoints(content)
}

// ImproveLines rewrites weak lines, keyed by the original line.
func (c *Client) ImproveLines(ctx context.Context, resumeText string) (map[string]string, error) {
	if !c.Configured() {
		return nil, c.configError()
	}
	content, err := c.chatOnce(ctx, buildImproveLinesMessages(resumeText))
	if err != nil {
		return nil, err
	}
	return parseImprovedLines(content)
}

// ImproveText rewrites a single line or block for a category.
func (c *Client) ImproveText(ctx context.Context, text, category, userInput string) (llm.Improvement, error) {
	if !c.Configured() {
		return llm.Improvement{}, c.configError()
	}
	content, err := c.chatOnce(ctx, buildImproveTextMessages(text, category, userInput))
	if err != nil {
		return llm.Improvement{}, err
	}
	return parseImprovement(content)
}

// Chat answers a conversational message.
func (c *Client) Chat(ctx context.Context, history []llm.ChatMessage, message string, contextNote string) (string, error) {
	if !c.Configured() {
		return "", c.configError()
	}
	return c.chatOnce(ctx, buildChatMessages(history, message, contextNote))
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float32      `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// chatOnce performs a single chat-completion request. No retries; the caller
// decides whether to fall back.
func (c *Client) chatOnce(ctx context.Context, messages []chatMessage) (string, error) {
	temp := float32(0)
	reqBody := chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: &temp,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", &llm.ServiceError{Cause: llm.CauseBadRequest, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", &llm.ServiceError{Cause: llm.CauseBadRequest, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &llm.ServiceError{Cause: llm.CauseTransient, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &llm.ServiceError{Cause: llm.CauseTransient, Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", &llm.ServiceError{Cause: llm.CauseRateLimited, Err: fmt.Errorf("status 429: %s", truncateBody(body))}
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", &llm.ServiceError{Cause: llm.CauseAuthFailed, Err: fmt.Errorf("status %d: %s", resp.StatusCode, truncateBody(body))}
	case resp.StatusCode == http.StatusBadRequest:
		return "", &llm.ServiceError{Cause: llm.CauseBadRequest, Err: fmt.Errorf("status 400: %s", truncateBody(body))}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return "", &llm.ServiceError{Cause: llm.CauseTransient, Err: fmt.Errorf("status %d: %s", resp.StatusCode, truncateBody(body))}
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &llm.ServiceError{Cause: llm.CauseUnparseable, Err: fmt.Errorf("response parse: %w", err)}
	}
	if parsed.Error != nil {
		return "", &llm.ServiceError{Cause: llm.CauseTransient, Err: fmt.Errorf("%s (%s)", parsed.Error.Message, parsed.Error.Type)}
	}
	if len(parsed.Choices) == 0 {
		return "", &llm.ServiceError{Cause: llm.CauseUnparseable, Err: fmt.Errorf("response missing choices")}
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", &llm.ServiceError{Cause: llm.CauseUnparseable, Err: fmt.Errorf("response empty content")}
	}
	return content, nil
}

func truncateBody(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 300 {
		return s[:300] + "..."
	}
	return s
}

var _ llm.Client = (*Client)(nil)
