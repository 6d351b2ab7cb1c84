package gemini

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/deusflow/newswatch/internal/analysis"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const DefaultModel = "gemini-1.5-flash"

// maxContextRunes keeps prompts bounded for long content blocks.
const maxContextRunes = 6000

type Client struct {
	client *genai.Client
	model  string
}

func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}

	return &Client{client: client, model: model}, nil
}

func (c *Client) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

func (c *Client) Name() string {
	return "gemini/" + c.model
}

// Analyze asks Gemini for a JSON object with summary, crypto, gold and
// outlook. The payload is returned unparsed.
func (c *Client) Analyze(ctx context.Context, req analysis.Request) (string, error) {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(0.2)
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(analysis.SystemPrompt)},
	}

	req.Context = truncate(req.Context, maxContextRunes)
	resp, err := model.GenerateContent(ctx, genai.Text(req.UserPrompt()))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from Gemini")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String(), nil
}

// truncate cuts on a rune boundary, preferring to end at a sentence.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	trimmed := string([]rune(s)[:max])
	if idx := strings.LastIndex(trimmed, ". "); idx > max/5 {
		trimmed = trimmed[:idx+1]
	}
	return trimmed + " [TRUNCATED]"
}
