package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

const googleBaseURL = "https://generativelanguage.googleapis.com"

type googleBackend struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func (b *googleBackend) sendPrompt(ctx context.Context, model, prompt string) (string, error) {
	payload := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	}
	var resp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		b.baseURL, url.PathEscape(model), url.QueryEscape(b.apiKey))
	if err := postJSON(ctx, b.client, endpoint, nil, payload, &resp); err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("response contained no candidates")
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
