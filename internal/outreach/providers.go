package outreach

import (
	"context"

	"github.com/leadgenius/prospect-cli/pkg/anthropic"
	"github.com/leadgenius/prospect-cli/pkg/gemini"
)

// GeminiGenerator adapts a Gemini client to TextGenerator. Outreach calls
// request free prose: no schema, no grounding.
type GeminiGenerator struct {
	Client gemini.Client
	Model  string
}

func (g *GeminiGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := g.Client.GenerateContent(ctx, gemini.GenerateRequest{
		Model: g.Model,
		Contents: []gemini.Content{
			{Role: "user", Parts: []gemini.Part{{Text: prompt}}},
		},
	})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// AnthropicGenerator adapts an Anthropic client to TextGenerator.
type AnthropicGenerator struct {
	Client    anthropic.Client
	Model     string
	MaxTokens int64
}

func (a *AnthropicGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	maxTokens := a.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1024
	}
	resp, err := a.Client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     a.Model,
		MaxTokens: maxTokens,
		Messages:  []anthropic.Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}
