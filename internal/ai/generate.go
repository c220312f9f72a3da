package ai

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"

	"scribby/internal/upstream"
)

const systemPrompt = "You are an expert social media content creator."

// CallModel sends the prompt through a chat completion and returns the raw
// assistant message content.
func CallModel(ctx context.Context, prompt, apiKey, model, baseURL string) (string, error) {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	client := openai.NewClientWithConfig(cfg)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.7,
		MaxTokens:   2000,
	})
	if err != nil {
		return "", upstream.Classify(err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("invalid response format from LLM API")
	}
	return resp.Choices[0].Message.Content, nil
}
