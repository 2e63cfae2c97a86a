package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Alfex4936/spellfix/internal/net"
)

// Compat talks to any OpenAI-compatible chat completions endpoint over plain
// REST, for gateways the SDK does not handle well.
type Compat struct {
	cfg    Config
	client *net.Client
}

// NewCompat requires cfg.BaseURL or falls back to DefaultBaseURL.
func NewCompat(cfg Config) (*Compat, error) {
	cfg = cfg.withDefaults(DefaultOpenAIModel)
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	c, err := net.New(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return &Compat{cfg: cfg, client: c}, nil
}

func (c *Compat) Name() string { return "compat" }

// --- wire types ---

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	Temperature    float32           `json:"temperature,omitempty"`
	TopP           float32           `json:"top_p,omitempty"`
	MaxTokens      int32             `json:"max_tokens,omitempty"`
	ResponseFormat map[string]string `json:"response_format"`
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

func (c *Compat) Correct(ctx context.Context, text string, opts Options) (*Response, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: BuildPrompt(text, opts.ProtectedWords)},
		},
		Temperature:    c.cfg.Temperature,
		TopP:           c.cfg.TopP,
		MaxTokens:      c.cfg.MaxOutputTokens,
		ResponseFormat: map[string]string{"type": "json_object"},
	})
	if err != nil {
		return nil, err
	}

	req, err := c.client.NewPOST(ctx, "/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &ProviderError{Kind: KindUnavailable, Provider: c.Name(), Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ProviderError{Kind: KindUnavailable, Provider: c.Name(), StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, FromStatus(c.Name(), resp.StatusCode, resp.Header.Get("Retry-After"), string(raw))
	}

	var chat chatResponse
	if err := json.Unmarshal(raw, &chat); err != nil {
		return nil, &ProviderError{Kind: KindMalformed, Provider: c.Name(), Err: fmt.Errorf("decode envelope: %w", err)}
	}
	if chat.Error != nil {
		return nil, &ProviderError{Kind: KindUnavailable, Provider: c.Name(), StatusCode: resp.StatusCode, Err: fmt.Errorf("api error: %s", chat.Error.Message)}
	}
	if len(chat.Choices) == 0 {
		return nil, &ProviderError{Kind: KindMalformed, Provider: c.Name(), Err: fmt.Errorf("empty choices")}
	}
	return decodeReply(c.Name(), chat.Choices[0].Message.Content)
}
