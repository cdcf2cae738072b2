package provider

import (
	"context"
	"errors"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

const (
	mistralBaseURL  = "https://api.mistral.ai/v1"
	togetherBaseURL = "https://api.together.xyz/v1"
)

// openAICompatBackend serves every vendor speaking the OpenAI chat
// completions dialect: OpenAI itself plus Mistral and Together via their
// compatible endpoints.
type openAICompatBackend struct {
	client *openai.Client
}

func newOpenAICompat(credential, baseURL string, httpClient *http.Client) *openAICompatBackend {
	cfg := openai.DefaultConfig(credential)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return &openAICompatBackend{client: openai.NewClientWithConfig(cfg)}
}

func (b *openAICompatBackend) sendPrompt(ctx context.Context, model, prompt string) (string, error) {
	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("response contained no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
