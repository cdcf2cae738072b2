// Package provider presents one call shape over heterogeneous LLM vendor
// back-ends: Generate(provider, credential, model, prompt) -> text.
package provider

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// backend is the capability shape every vendor translation implements.
type backend interface {
	sendPrompt(ctx context.Context, model, prompt string) (string, error)
}

// entry records one provider in the gateway table: its model catalog,
// whether a working back-end can be built at all, and the constructor that
// turns a credential into a live client handle.
type entry struct {
	models    []string
	available bool
	construct func(credential string) (backend, error)
}

// Gateway dispatches generation requests to vendor back-ends through a
// table built once at startup and immutable afterwards (aside from model
// catalog extensions applied during initialization).
type Gateway struct {
	entries map[string]entry
	client  *http.Client
	logger  *zap.Logger
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithLogger sets the gateway logger.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Gateway) { g.logger = logger }
}

// WithHTTPClient sets the HTTP client used by the REST back-ends.
func WithHTTPClient(client *http.Client) Option {
	return func(g *Gateway) { g.client = client }
}

// NewGateway builds the provider table with all built-in back-ends.
func NewGateway(opts ...Option) *Gateway {
	g := &Gateway{
		entries: make(map[string]entry),
		client:  http.DefaultClient,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.registerBuiltins()
	return g
}

func (g *Gateway) registerBuiltins() {
	g.entries["openai"] = entry{
		models:    []string{"gpt-4o", "gpt-4-turbo", "gpt-3.5-turbo"},
		available: true,
		construct: func(credential string) (backend, error) {
			return newOpenAICompat(credential, "", g.client), nil
		},
	}
	g.entries["anthropic"] = entry{
		models:    []string{"claude-3-opus-20240229", "claude-3-sonnet-20240229"},
		available: true,
		construct: func(credential string) (backend, error) {
			return &anthropicBackend{apiKey: credential, baseURL: anthropicBaseURL, client: g.client}, nil
		},
	}
	g.entries["google"] = entry{
		models:    []string{"gemini-1.5-pro", "gemini-1.5-flash"},
		available: true,
		construct: func(credential string) (backend, error) {
			return &googleBackend{apiKey: credential, baseURL: googleBaseURL, client: g.client}, nil
		},
	}
	g.entries["mistral"] = entry{
		models:    []string{"mistral-medium", "mistral-large"},
		available: true,
		construct: func(credential string) (backend, error) {
			return newOpenAICompat(credential, mistralBaseURL, g.client), nil
		},
	}
	g.entries["cohere"] = entry{
		models:    []string{"command-r", "command-r-plus"},
		available: true,
		construct: func(credential string) (backend, error) {
			return &cohereBackend{apiKey: credential, baseURL: cohereBaseURL, client: g.client}, nil
		},
	}
	g.entries["huggingface"] = entry{
		models:    []string{"mistralai/Mistral-7B-Instruct-v0.2", "meta-llama/Llama-3-8B"},
		available: true,
		construct: func(credential string) (backend, error) {
			return &huggingFaceBackend{token: credential, baseURL: huggingFaceBaseURL, client: g.client}, nil
		},
	}
	g.entries["replicate"] = entry{
		models:    []string{"meta/llama-2-70b-chat", "mistralai/mixtral-8x7b"},
		available: true,
		construct: func(credential string) (backend, error) {
			return &replicateBackend{token: credential, baseURL: replicateBaseURL, client: g.client}, nil
		},
	}
	g.entries["together"] = entry{
		models:    []string{"meta-llama/Llama-3-70B", "mistralai/Mixtral-8x22B"},
		available: true,
		construct: func(credential string) (backend, error) {
			return newOpenAICompat(credential, togetherBaseURL, g.client), nil
		},
	}
	g.entries["bedrock"] = entry{
		models:    []string{"anthropic.claude-v2", "ai21.j2-ultra"},
		available: true,
		construct: newBedrock,
	}
}

// Generate issues a single blocking prompt/response round trip against the
// named provider. A fresh client is built per call; nothing is cached.
// Failures are ErrUnknownProvider, ErrBackendUnavailable, or
// ErrGenerationFailed wrapped in an *Error naming the provider.
func (g *Gateway) Generate(ctx context.Context, name, credential, model, prompt string) (string, error) {
	e, ok := g.entries[name]
	if !ok {
		return "", &Error{
			Provider: name,
			Op:       "generate",
			Err:      fmt.Errorf("%w: %q (known: %s)", ErrUnknownProvider, name, strings.Join(g.Providers(), ", ")),
		}
	}

	if !e.available || e.construct == nil {
		return "", &Error{Provider: name, Op: "generate", Err: ErrBackendUnavailable}
	}

	client, err := e.construct(credential)
	if err != nil {
		return "", &Error{
			Provider: name,
			Op:       "generate",
			Err:      fmt.Errorf("%w: %v", ErrBackendUnavailable, err),
		}
	}

	g.logger.Debug("issuing generation request",
		zap.String("provider", name),
		zap.String("model", model))

	text, err := client.sendPrompt(ctx, model, prompt)
	if err != nil {
		return "", &Error{
			Provider: name,
			Op:       "generate",
			Err:      fmt.Errorf("%w: %v", ErrGenerationFailed, err),
		}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", &Error{
			Provider: name,
			Op:       "generate",
			Err:      fmt.Errorf("%w: backend returned an empty response", ErrGenerationFailed),
		}
	}
	return text, nil
}

// Providers returns the registered provider names in sorted order.
func (g *Gateway) Providers() []string {
	names := make([]string, 0, len(g.entries))
	for name := range g.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Models returns the model catalog for a provider.
func (g *Gateway) Models(name string) ([]string, error) {
	e, ok := g.entries[name]
	if !ok {
		return nil, &Error{Provider: name, Op: "models", Err: ErrUnknownProvider}
	}
	out := make([]string, len(e.models))
	copy(out, e.models)
	return out, nil
}

// ExtendModels appends catalog entries for a provider, skipping
// duplicates. Intended for startup-time catalog merges only; unknown
// providers are ignored so a stale override file cannot break the table.
func (g *Gateway) ExtendModels(name string, models []string) {
	e, ok := g.entries[name]
	if !ok {
		g.logger.Warn("model catalog extension for unknown provider", zap.String("provider", name))
		return
	}
	known := make(map[string]bool, len(e.models))
	for _, m := range e.models {
		known[m] = true
	}
	for _, m := range models {
		if m == "" || known[m] {
			continue
		}
		e.models = append(e.models, m)
		known[m] = true
	}
	g.entries[name] = e
}
