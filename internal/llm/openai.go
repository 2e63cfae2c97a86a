package llm

import (
	"context"
	"errors"

	"github.com/sashabaranov/go-openai"
)

// OpenAI uses the official chat completions API in JSON mode.
type OpenAI struct {
	cfg    Config
	client *openai.Client
}

func NewOpenAI(cfg Config) *OpenAI {
	cfg = cfg.withDefaults(DefaultOpenAIModel)
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	return &OpenAI{cfg: cfg, client: openai.NewClientWithConfig(oc)}
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) Correct(ctx context.Context, text string, opts Options) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, o.cfg.Timeout)
	defer cancel()

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(text, opts.ProtectedWords)},
		},
		Temperature:         o.cfg.Temperature,
		TopP:                o.cfg.TopP,
		MaxCompletionTokens: int(o.cfg.MaxOutputTokens),
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, Classify(o.Name(), err)
	}
	if len(resp.Choices) == 0 {
		return nil, &ProviderError{Kind: KindMalformed, Provider: o.Name(), Err: errors.New("empty choices")}
	}
	return decodeReply(o.Name(), resp.Choices[0].Message.Content)
}
