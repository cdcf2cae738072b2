package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	text string
	err  error
}

func (f *fakeBackend) sendPrompt(ctx context.Context, model, prompt string) (string, error) {
	return f.text, f.err
}

// register installs a test-only entry into the gateway table.
func register(g *Gateway, name string, e entry) {
	g.entries[name] = e
}

func TestGenerateUnknownProvider(t *testing.T) {
	g := NewGateway()

	_, err := g.Generate(context.Background(), "nope", "key", "model", "hi")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownProvider))

	var perr *Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "nope", perr.Provider)
	assert.Contains(t, err.Error(), "anthropic")
	assert.Contains(t, err.Error(), "openai")
}

func TestGenerateUnavailableBackend(t *testing.T) {
	g := NewGateway()
	register(g, "stub", entry{models: []string{"m"}, available: false})

	_, err := g.Generate(context.Background(), "stub", "key", "m", "hi")
	assert.True(t, errors.Is(err, ErrBackendUnavailable))
}

func TestGenerateConstructFailure(t *testing.T) {
	g := NewGateway()
	register(g, "stub", entry{
		models:    []string{"m"},
		available: true,
		construct: func(string) (backend, error) {
			return nil, errors.New("no environment")
		},
	})

	_, err := g.Generate(context.Background(), "stub", "key", "m", "hi")
	assert.True(t, errors.Is(err, ErrBackendUnavailable))
	assert.Contains(t, err.Error(), "no environment")
}

func TestGenerateTrimsResponse(t *testing.T) {
	g := NewGateway()
	register(g, "stub", entry{
		models:    []string{"m"},
		available: true,
		construct: func(string) (backend, error) {
			return &fakeBackend{text: "  ls -la  \n"}, nil
		},
	})

	text, err := g.Generate(context.Background(), "stub", "key", "m", "hi")
	require.NoError(t, err)
	assert.Equal(t, "ls -la", text)
}

func TestGenerateEmptyResponse(t *testing.T) {
	g := NewGateway()
	register(g, "stub", entry{
		models:    []string{"m"},
		available: true,
		construct: func(string) (backend, error) {
			return &fakeBackend{text: "   \n"}, nil
		},
	})

	_, err := g.Generate(context.Background(), "stub", "key", "m", "hi")
	assert.True(t, errors.Is(err, ErrGenerationFailed))
}

func TestGenerateBackendError(t *testing.T) {
	g := NewGateway()
	register(g, "stub", entry{
		models:    []string{"m"},
		available: true,
		construct: func(string) (backend, error) {
			return &fakeBackend{err: errors.New("rate limited")}, nil
		},
	})

	_, err := g.Generate(context.Background(), "stub", "key", "m", "hi")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGenerationFailed))
	assert.Contains(t, err.Error(), "rate limited")
}

func TestProvidersSorted(t *testing.T) {
	g := NewGateway()
	names := g.Providers()
	require.NotEmpty(t, names)
	assert.Contains(t, names, "openai")
	assert.Contains(t, names, "bedrock")
	for i := 1; i < len(names); i++ {
		assert.Less(t, names[i-1], names[i])
	}
}

func TestModelsUnknownProvider(t *testing.T) {
	g := NewGateway()
	_, err := g.Models("nope")
	assert.True(t, errors.Is(err, ErrUnknownProvider))
}

func TestExtendModels(t *testing.T) {
	g := NewGateway()
	before, err := g.Models("openai")
	require.NoError(t, err)

	g.ExtendModels("openai", []string{"gpt-4o", "gpt-4o-mini", ""})
	after, err := g.Models("openai")
	require.NoError(t, err)

	assert.Len(t, after, len(before)+1)
	assert.Contains(t, after, "gpt-4o-mini")

	// Unknown providers are skipped without creating an entry.
	g.ExtendModels("nope", []string{"x"})
	_, err = g.Models("nope")
	assert.Error(t, err)
}

func TestOpenAICompatBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o", req.Model)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)

		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"echo hi"}}]}`)
	}))
	defer srv.Close()

	b := newOpenAICompat("test-key", srv.URL+"/v1", srv.Client())
	text, err := b.sendPrompt(context.Background(), "gpt-4o", "say hi")
	require.NoError(t, err)
	assert.Equal(t, "echo hi", text)
}

func TestAnthropicBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicAPIVersion, r.Header.Get("anthropic-version"))
		fmt.Fprint(w, `{"content":[{"type":"text","text":"ls"}]}`)
	}))
	defer srv.Close()

	b := &anthropicBackend{apiKey: "test-key", baseURL: srv.URL, client: srv.Client()}
	text, err := b.sendPrompt(context.Background(), "claude-3-opus-20240229", "list files")
	require.NoError(t, err)
	assert.Equal(t, "ls", text)
}

func TestGoogleBackendKeyInQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-1.5-pro:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":"pwd"}]}}]}`)
	}))
	defer srv.Close()

	b := &googleBackend{apiKey: "test-key", baseURL: srv.URL, client: srv.Client()}
	text, err := b.sendPrompt(context.Background(), "gemini-1.5-pro", "where am I")
	require.NoError(t, err)
	assert.Equal(t, "pwd", text)
}

func TestCohereBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"text":"df -h"}`)
	}))
	defer srv.Close()

	b := &cohereBackend{apiKey: "test-key", baseURL: srv.URL, client: srv.Client()}
	text, err := b.sendPrompt(context.Background(), "command-r", "disk usage")
	require.NoError(t, err)
	assert.Equal(t, "df -h", text)
}

func TestHuggingFaceBackendKeepsModelSlash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/mistralai/Mistral-7B-Instruct-v0.2", r.URL.Path)
		fmt.Fprint(w, `[{"generated_text":"uptime"}]`)
	}))
	defer srv.Close()

	b := &huggingFaceBackend{token: "test-key", baseURL: srv.URL, client: srv.Client()}
	text, err := b.sendPrompt(context.Background(), "mistralai/Mistral-7B-Instruct-v0.2", "how long up")
	require.NoError(t, err)
	assert.Equal(t, "uptime", text)
}

func TestReplicateBackend(t *testing.T) {
	t.Run("chunked output", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/models/meta/llama-2-70b-chat/predictions", r.URL.Path)
			assert.Equal(t, "wait", r.Header.Get("Prefer"))
			fmt.Fprint(w, `{"status":"succeeded","output":["echo"," done"]}`)
		}))
		defer srv.Close()

		b := &replicateBackend{token: "test-key", baseURL: srv.URL, client: srv.Client()}
		text, err := b.sendPrompt(context.Background(), "meta/llama-2-70b-chat", "finish")
		require.NoError(t, err)
		assert.Equal(t, "echo done", text)
	})

	t.Run("string output", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"status":"succeeded","output":"whoami"}`)
		}))
		defer srv.Close()

		b := &replicateBackend{token: "test-key", baseURL: srv.URL, client: srv.Client()}
		text, err := b.sendPrompt(context.Background(), "meta/llama-2-70b-chat", "who")
		require.NoError(t, err)
		assert.Equal(t, "whoami", text)
	})

	t.Run("prediction error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"status":"failed","error":"model overloaded"}`)
		}))
		defer srv.Close()

		b := &replicateBackend{token: "test-key", baseURL: srv.URL, client: srv.Client()}
		_, err := b.sendPrompt(context.Background(), "meta/llama-2-70b-chat", "who")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "model overloaded")
	})
}

func TestPostJSONNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"bad key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	var out struct{}
	err := postJSON(context.Background(), srv.Client(), srv.URL, nil, map[string]string{}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "bad key")
	// Credential-bearing URLs must never leak into error text.
	assert.NotContains(t, err.Error(), srv.URL)
}

type fakeInvoker struct {
	out *bedrockruntime.InvokeModelOutput
	err error

	gotModel string
	gotBody  []byte
}

func (f *fakeInvoker) InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	if params.ModelId != nil {
		f.gotModel = *params.ModelId
	}
	f.gotBody = params.Body
	return f.out, f.err
}

func TestBedrockBackend(t *testing.T) {
	fake := &fakeInvoker{
		out: &bedrockruntime.InvokeModelOutput{
			Body: []byte(`{"results":[{"outputText":"top -b -n 1"}]}`),
		},
	}
	b := &bedrockBackend{client: fake}

	text, err := b.sendPrompt(context.Background(), "anthropic.claude-v2", "busiest process")
	require.NoError(t, err)
	assert.Equal(t, "top -b -n 1", text)
	assert.Equal(t, "anthropic.claude-v2", fake.gotModel)
	assert.Contains(t, string(fake.gotBody), "busiest process")
}

func TestBedrockBackendNoResults(t *testing.T) {
	fake := &fakeInvoker{
		out: &bedrockruntime.InvokeModelOutput{Body: []byte(`{"results":[]}`)},
	}
	b := &bedrockBackend{client: fake}

	_, err := b.sendPrompt(context.Background(), "anthropic.claude-v2", "hi")
	assert.Error(t, err)
}
