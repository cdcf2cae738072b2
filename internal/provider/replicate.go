package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const replicateBaseURL = "https://api.replicate.com"

type replicateBackend struct {
	token   string
	baseURL string
	client  *http.Client
}

func (b *replicateBackend) sendPrompt(ctx context.Context, model, prompt string) (string, error) {
	payload := map[string]any{
		"input": map[string]string{"prompt": prompt},
	}
	var resp struct {
		Output json.RawMessage `json:"output"`
		Error  string          `json:"error"`
		Status string          `json:"status"`
	}
	headers := map[string]string{
		"Authorization": "Bearer " + b.token,
		// Block until the prediction finishes instead of polling.
		"Prefer": "wait",
	}
	endpoint := b.baseURL + "/v1/models/" + model + "/predictions"
	if err := postJSON(ctx, b.client, endpoint, headers, payload, &resp); err != nil {
		return "", err
	}
	if resp.Error != "" {
		return "", fmt.Errorf("prediction failed: %s", resp.Error)
	}
	if len(resp.Output) == 0 {
		return "", errors.New("response contained no output")
	}

	// Output is either the full string or a list of streamed chunks.
	var chunks []string
	if err := json.Unmarshal(resp.Output, &chunks); err == nil {
		return strings.Join(chunks, ""), nil
	}
	var text string
	if err := json.Unmarshal(resp.Output, &text); err != nil {
		return "", fmt.Errorf("unrecognized output shape: %w", err)
	}
	return text, nil
}
