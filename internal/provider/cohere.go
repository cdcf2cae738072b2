package provider

import (
	"context"
	"errors"
	"net/http"
)

const cohereBaseURL = "https://api.cohere.com"

type cohereBackend struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func (b *cohereBackend) sendPrompt(ctx context.Context, model, prompt string) (string, error) {
	payload := map[string]string{
		"model":   model,
		"message": prompt,
	}
	var resp struct {
		Text string `json:"text"`
	}
	headers := map[string]string{"Authorization": "Bearer " + b.apiKey}
	if err := postJSON(ctx, b.client, b.baseURL+"/v1/chat", headers, payload, &resp); err != nil {
		return "", err
	}
	if resp.Text == "" {
		return "", errors.New("response contained no text")
	}
	return resp.Text, nil
}
