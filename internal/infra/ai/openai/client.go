package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const maxTokens = 2048

type Client struct {
	*openai.Client
	Model          string
	EmbeddingModel string
}

func NewClient(apiKey, model, embeddingModel string) *Client {
	return &Client{Client: openai.NewClient(apiKey), Model: model, EmbeddingModel: embeddingModel}
}

// Complete implements the Reasoner port: one system/user exchange, raw
// text back. The caller owns parsing; the model may still fence its
// JSON.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	model := c.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	req := openai.ChatCompletionRequest{
		Model:       model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}

	return resp.Choices[0].Message.Content, nil
}

// Embed returns the embedding vector for one text, used by the rule
// retrieval index.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	model := c.EmbeddingModel
	if model == "" {
		model = string(openai.SmallEmbedding3)
	}
	resp, err := c.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(model),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("empty embedding response")
	}
	return resp.Data[0].Embedding, nil
}
