package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

const bedrockRegion = "us-east-1"

// bedrockInvoker is the slice of the Bedrock runtime client the backend
// uses; tests substitute a fake.
type bedrockInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

type bedrockBackend struct {
	client bedrockInvoker
}

// newBedrock resolves AWS configuration from the environment. Bedrock
// authenticates through the standard AWS credential chain, so the stored
// credential string is not used here. A resolution failure means the
// environment cannot reach Bedrock at all, which the gateway reports as
// backend-unavailable rather than a request failure.
func newBedrock(_ string) (backend, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(bedrockRegion))
	if err != nil {
		return nil, fmt.Errorf("resolve AWS configuration: %w", err)
	}
	return &bedrockBackend{client: bedrockruntime.NewFromConfig(cfg)}, nil
}

func (b *bedrockBackend) sendPrompt(ctx context.Context, model, prompt string) (string, error) {
	body, err := json.Marshal(map[string]string{"inputText": prompt})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	out, err := b.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		Body:        body,
		ModelId:     aws.String(model),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
	})
	if err != nil {
		return "", err
	}

	var resp struct {
		Results []struct {
			OutputText string `json:"outputText"`
		} `json:"results"`
	}
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(resp.Results) == 0 {
		return "", errors.New("response contained no results")
	}
	return resp.Results[0].OutputText, nil
}
