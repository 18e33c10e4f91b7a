package main

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/a-h/insightengine/gemini"
	"github.com/a-h/insightengine/generator"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"google.golang.org/api/option"
)

// LLMFlags are shared by the commands that talk to a model directly.
type LLMFlags struct {
	Provider    string  `help:"The model provider." env:"LLM_PROVIDER" enum:"googleai,ollama,openai" default:"googleai"`
	Model       string  `help:"The model to use. Defaults to a model suited to the provider." env:"LLM_MODEL" default:""`
	ProviderURL string  `help:"The URL of the model provider, for Ollama, OpenAI compatible or Gemini API servers." env:"LLM_URL" default:""`
	APIKey      string  `help:"The model provider's API key." env:"API_KEY" default:""`
	Temperature float64 `help:"The sampling temperature. Zero uses the provider's default." env:"LLM_TEMPERATURE" default:"0"`
	MaxTokens   int     `help:"The maximum number of tokens to generate. Zero uses the provider's default." env:"LLM_MAX_TOKENS" default:"0"`
}

var defaultModels = map[string]string{
	"googleai": "gemini-3-pro-preview",
	"ollama":   "mistral-nemo",
	"openai":   "gpt-4o",
}

func (f LLMFlags) model() string {
	if f.Model != "" {
		return f.Model
	}
	return defaultModels[f.Provider]
}

// newLLM returns a model that's created on first use. The API key isn't
// checked up front, so a missing or invalid key is reported by the first
// generation that needs it.
func newLLM(ctx context.Context, f LLMFlags, httpClient *http.Client) llms.Model {
	return &lazyModel{
		create: func() (llms.Model, error) {
			return createLLM(ctx, f, httpClient)
		},
	}
}

func createLLM(ctx context.Context, f LLMFlags, httpClient *http.Client) (llms.Model, error) {
	switch f.Provider {
	case "ollama":
		opts := []ollama.Option{
			ollama.WithModel(f.model()),
			ollama.WithHTTPClient(httpClient),
		}
		if f.ProviderURL != "" {
			opts = append(opts, ollama.WithServerURL(f.ProviderURL))
		}
		return ollama.New(opts...)
	case "googleai":
		if f.APIKey == "" {
			return nil, fmt.Errorf("no API key configured for googleai")
		}
		schema, err := gemini.ParseSchema(generator.Schema)
		if err != nil {
			return nil, err
		}
		opts := []gemini.Option{
			gemini.WithAPIKey(f.APIKey),
			gemini.WithModel(f.model()),
			gemini.WithResponseSchema(schema),
		}
		if f.ProviderURL != "" {
			opts = append(opts, gemini.WithClientOptions(option.WithEndpoint(f.ProviderURL)))
		}
		return gemini.New(ctx, opts...)
	case "openai":
		opts := []openai.Option{
			openai.WithToken(f.APIKey),
			openai.WithModel(f.model()),
			openai.WithHTTPClient(httpClient),
		}
		if f.ProviderURL != "" {
			opts = append(opts, openai.WithBaseURL(f.ProviderURL))
		}
		return openai.New(opts...)
	}
	return nil, fmt.Errorf("unknown model provider %q", f.Provider)
}

type lazyModel struct {
	create func() (llms.Model, error)

	once  sync.Once
	model llms.Model
	err   error
}

func (m *lazyModel) get() (llms.Model, error) {
	m.once.Do(func() {
		m.model, m.err = m.create()
	})
	return m.model, m.err
}

func (m *lazyModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	model, err := m.get()
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM: %w", err)
	}
	return model.GenerateContent(ctx, messages, options...)
}

func (m *lazyModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}
