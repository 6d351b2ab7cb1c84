// Package openai adapts the OpenAI chat completions API to analysis.Analyzer.
package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/deusflow/newswatch/internal/analysis"
	goopenai "github.com/sashabaranov/go-openai"
)

const DefaultModel = "gpt-4o-mini"

type Client struct {
	client *goopenai.Client
	model  string
}

func NewClient(apiKey, model string) *Client {
	return newClient(goopenai.DefaultConfig(apiKey), model)
}

// NewClientWithBaseURL points the client at a compatible endpoint.
func NewClientWithBaseURL(apiKey, baseURL, model string) *Client {
	cfg := goopenai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return newClient(cfg, model)
}

func newClient(cfg goopenai.ClientConfig, model string) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{client: goopenai.NewClientWithConfig(cfg), model: model}
}

func (c *Client) Name() string {
	return "openai/" + c.model
}

// Analyze requests a JSON object response and returns it unparsed.
func (c *Client) Analyze(ctx context.Context, req analysis.Request) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0.2,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: analysis.SystemPrompt},
			{Role: goopenai.ChatMessageRoleUser, Content: req.UserPrompt()},
		},
		ResponseFormat: &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errors.New("empty completion")
	}
	return resp.Choices[0].Message.Content, nil
}
