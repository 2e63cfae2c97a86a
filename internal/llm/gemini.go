package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Gemini uses Google's generative model API with a JSON response type.
type Gemini struct {
	cfg    Config
	client *genai.Client
}

// NewGemini dials the API. Close releases the underlying connection.
func NewGemini(ctx context.Context, cfg Config) (*Gemini, error) {
	cfg = cfg.withDefaults(DefaultGeminiModel)
	if cfg.APIKey == "" {
		return nil, errors.New("llm: gemini requires an api key")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("llm: gemini client: %w", err)
	}
	return &Gemini{cfg: cfg, client: client}, nil
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) Close() error { return g.client.Close() }

func (g *Gemini) Correct(ctx context.Context, text string, opts Options) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	m := g.client.GenerativeModel(g.cfg.Model)
	if g.cfg.Temperature > 0 {
		m.SetTemperature(g.cfg.Temperature)
	}
	if g.cfg.TopP > 0 {
		m.SetTopP(g.cfg.TopP)
	}
	if g.cfg.TopK > 0 {
		m.SetTopK(g.cfg.TopK)
	}
	m.SetMaxOutputTokens(g.cfg.MaxOutputTokens)
	m.ResponseMIMEType = "application/json"
	m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}

	resp, err := m.GenerateContent(ctx, genai.Text(BuildPrompt(text, opts.ProtectedWords)))
	if err != nil {
		return nil, Classify(g.Name(), err)
	}
	return g.reply(resp)
}

func (g *Gemini) reply(resp *genai.GenerateContentResponse) (*Response, error) {
	content := firstText(resp)
	if content == "" {
		return nil, &ProviderError{Kind: KindMalformed, Provider: g.Name(), Err: errors.New("empty candidate")}
	}
	return decodeReply(g.Name(), content)
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String()
}
