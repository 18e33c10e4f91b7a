package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/a-h/insightengine/generator"
	"github.com/tmc/langchaingo/llms"
)

func TestLLMFlagsModel(t *testing.T) {
	tests := []struct {
		name     string
		flags    LLMFlags
		expected string
	}{
		{name: "googleai has a default", flags: LLMFlags{Provider: "googleai"}, expected: "gemini-3-pro-preview"},
		{name: "ollama has a default", flags: LLMFlags{Provider: "ollama"}, expected: "mistral-nemo"},
		{name: "the model can be overridden", flags: LLMFlags{Provider: "openai", Model: "gpt-4o-mini"}, expected: "gpt-4o-mini"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if actual := tt.flags.model(); actual != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, actual)
			}
		})
	}
}

func TestCreateLLMErrors(t *testing.T) {
	tests := []struct {
		name  string
		flags LLMFlags
	}{
		{name: "unknown providers", flags: LLMFlags{Provider: "unknown"}},
		{name: "googleai without an API key", flags: LLMFlags{Provider: "googleai"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := createLLM(context.Background(), tt.flags, &http.Client{}); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

type geminiRequest struct {
	APIKey           string
	GenerationConfig struct {
		ResponseMIMEType string `json:"responseMimeType"`
		ResponseSchema   *struct {
			Required []string `json:"required"`
		} `json:"responseSchema"`
	} `json:"generationConfig"`
}

func TestGoogleAIRequestsJSONResponses(t *testing.T) {
	var requests []geminiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		req.APIKey = r.URL.Query().Get("key")
		requests = append(requests, req)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"{}"}]}}]}`)
	}))
	defer srv.Close()

	flags := LLMFlags{Provider: "googleai", APIKey: "key", ProviderURL: srv.URL}
	gen := generator.New(slog.New(slog.NewTextHandler(io.Discard, nil)), newLLM(context.Background(), flags, &http.Client{}), generator.Options{})

	_, err := gen.Generate(context.Background(), "thesis")
	if !errors.Is(err, generator.ErrParse) {
		t.Errorf("expected the empty object to fail validation, got %v", err)
	}
	if len(requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(requests))
	}
	req := requests[0]
	if req.APIKey != "key" {
		t.Errorf("expected the API key to be sent, got %q", req.APIKey)
	}
	if req.GenerationConfig.ResponseMIMEType != "application/json" {
		t.Errorf("expected a JSON response MIME type, got %q", req.GenerationConfig.ResponseMIMEType)
	}
	if req.GenerationConfig.ResponseSchema == nil || len(req.GenerationConfig.ResponseSchema.Required) == 0 {
		t.Errorf("expected the summary schema to be sent, got %+v", req.GenerationConfig.ResponseSchema)
	}
}

func TestMissingCredentialsAreRequestFailures(t *testing.T) {
	llm := newLLM(context.Background(), LLMFlags{Provider: "googleai"}, &http.Client{})
	gen := generator.New(slog.New(slog.NewTextHandler(io.Discard, nil)), llm, generator.Options{})

	_, err := gen.Generate(context.Background(), "thesis")
	if !errors.Is(err, generator.ErrRequest) {
		t.Errorf("expected a request failure, got %v", err)
	}
}

func TestLazyModelCreatesOnce(t *testing.T) {
	var created int
	m := &lazyModel{
		create: func() (llms.Model, error) {
			created++
			return nil, errors.New("no credentials")
		},
	}
	for range 3 {
		if _, err := m.GenerateContent(context.Background(), nil); err == nil {
			t.Error("expected an error")
		}
	}
	if created != 1 {
		t.Errorf("expected the model to be created once, got %d", created)
	}
}
