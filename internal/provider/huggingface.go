package provider

import (
	"context"
	"errors"
	"net/http"
)

const huggingFaceBaseURL = "https://api-inference.huggingface.co"

type huggingFaceBackend struct {
	token   string
	baseURL string
	client  *http.Client
}

func (b *huggingFaceBackend) sendPrompt(ctx context.Context, model, prompt string) (string, error) {
	payload := map[string]string{"inputs": prompt}
	var resp []struct {
		GeneratedText string `json:"generated_text"`
	}
	headers := map[string]string{"Authorization": "Bearer " + b.token}
	// Model identifiers contain a literal slash ("owner/name").
	endpoint := b.baseURL + "/models/" + model
	if err := postJSON(ctx, b.client, endpoint, headers, payload, &resp); err != nil {
		return "", err
	}
	if len(resp) == 0 {
		return "", errors.New("response contained no generations")
	}
	return resp[0].GeneratedText, nil
}
