package provider

import (
	"context"
	"errors"
	"net/http"
)

const (
	anthropicBaseURL    = "https://api.anthropic.com"
	anthropicAPIVersion = "2023-06-01"
	anthropicMaxTokens  = 2048
)

type anthropicBackend struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func (b *anthropicBackend) sendPrompt(ctx context.Context, model, prompt string) (string, error) {
	payload := map[string]any{
		"model":      model,
		"max_tokens": anthropicMaxTokens,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}
	var resp struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	headers := map[string]string{
		"x-api-key":         b.apiKey,
		"anthropic-version": anthropicAPIVersion,
	}
	if err := postJSON(ctx, b.client, b.baseURL+"/v1/messages", headers, payload, &resp); err != nil {
		return "", err
	}
	if len(resp.Content) == 0 {
		return "", errors.New("response contained no content blocks")
	}
	return resp.Content[0].Text, nil
}
