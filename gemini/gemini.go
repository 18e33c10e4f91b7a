// Package gemini is an llms.Model backed by the Gemini API. Unlike the
// langchaingo googleai provider, JSON mode is sent to the API as a response
// MIME type, along with an optional response schema.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/tmc/langchaingo/llms"
	"google.golang.org/api/option"
)

const jsonMIMEType = "application/json"

type options struct {
	apiKey        string
	model         string
	schema        *genai.Schema
	clientOptions []option.ClientOption
}

type Option func(*options)

func WithAPIKey(apiKey string) Option {
	return func(o *options) {
		o.apiKey = apiKey
	}
}

// WithModel sets the model used when a call doesn't name one.
func WithModel(model string) Option {
	return func(o *options) {
		o.model = model
	}
}

// WithResponseSchema constrains the output of calls made in JSON mode.
func WithResponseSchema(schema *genai.Schema) Option {
	return func(o *options) {
		o.schema = schema
	}
}

// WithClientOptions passes options, such as an endpoint, to the API client.
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(o *options) {
		o.clientOptions = append(o.clientOptions, opts...)
	}
}

func New(ctx context.Context, opts ...Option) (*LLM, error) {
	o := options{
		model: "gemini-3-pro-preview",
	}
	for _, opt := range opts {
		opt(&o)
	}
	clientOptions := o.clientOptions
	if o.apiKey != "" {
		clientOptions = append(clientOptions, option.WithAPIKey(o.apiKey))
	}
	client, err := genai.NewClient(ctx, clientOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &LLM{
		client: client,
		model:  o.model,
		schema: o.schema,
	}, nil
}

type LLM struct {
	client *genai.Client
	model  string
	schema *genai.Schema
}

var _ llms.Model = (*LLM)(nil)

func (l *LLM) Close() error {
	return l.client.Close()
}

func (l *LLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, l, prompt, options...)
}

func (l *LLM) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	var opts llms.CallOptions
	for _, opt := range options {
		opt(&opts)
	}
	system, contents, err := convertMessages(messages)
	if err != nil {
		return nil, err
	}
	if len(contents) == 0 {
		return nil, errors.New("no user content to send")
	}

	name := l.model
	if opts.Model != "" {
		name = opts.Model
	}
	model := l.client.GenerativeModel(name)
	model.GenerationConfig = generationConfig(opts, l.schema)
	model.SystemInstruction = system

	last := contents[len(contents)-1]
	var resp *genai.GenerateContentResponse
	if len(contents) == 1 {
		resp, err = model.GenerateContent(ctx, last.Parts...)
	} else {
		chat := model.StartChat()
		chat.History = contents[:len(contents)-1]
		resp, err = chat.SendMessage(ctx, last.Parts...)
	}
	if err != nil {
		return nil, err
	}
	return convertResponse(resp), nil
}

func generationConfig(opts llms.CallOptions, schema *genai.Schema) (gc genai.GenerationConfig) {
	if opts.Temperature != 0 {
		gc.SetTemperature(float32(opts.Temperature))
	}
	if opts.MaxTokens != 0 {
		gc.SetMaxOutputTokens(int32(opts.MaxTokens))
	}
	if opts.TopP != 0 {
		gc.SetTopP(float32(opts.TopP))
	}
	if opts.TopK != 0 {
		gc.SetTopK(int32(opts.TopK))
	}
	if opts.CandidateCount != 0 {
		gc.SetCandidateCount(int32(opts.CandidateCount))
	}
	gc.StopSequences = opts.StopWords
	if opts.JSONMode {
		gc.ResponseMIMEType = jsonMIMEType
		gc.ResponseSchema = schema
	}
	return gc
}

// convertMessages splits the system prompt from the conversation. Consecutive
// messages with the same role are merged into a single turn.
func convertMessages(messages []llms.MessageContent) (system *genai.Content, contents []*genai.Content, err error) {
	for i, msg := range messages {
		parts, err := convertParts(msg.Parts)
		if err != nil {
			return nil, nil, fmt.Errorf("message %d: %w", i, err)
		}
		var role string
		switch msg.Role {
		case llms.ChatMessageTypeSystem:
			if system == nil {
				system = &genai.Content{}
			}
			system.Parts = append(system.Parts, parts...)
			continue
		case llms.ChatMessageTypeHuman:
			role = "user"
		case llms.ChatMessageTypeAI:
			role = "model"
		default:
			return nil, nil, fmt.Errorf("message %d: unsupported role %q", i, msg.Role)
		}
		if n := len(contents); n > 0 && contents[n-1].Role == role {
			contents[n-1].Parts = append(contents[n-1].Parts, parts...)
			continue
		}
		contents = append(contents, &genai.Content{Role: role, Parts: parts})
	}
	return system, contents, nil
}

func convertParts(parts []llms.ContentPart) (converted []genai.Part, err error) {
	for _, p := range parts {
		switch p := p.(type) {
		case llms.TextContent:
			converted = append(converted, genai.Text(p.Text))
		default:
			return nil, fmt.Errorf("unsupported content part %T", p)
		}
	}
	return converted, nil
}

func convertResponse(resp *genai.GenerateContentResponse) *llms.ContentResponse {
	cr := &llms.ContentResponse{}
	if resp == nil {
		return cr
	}
	for _, c := range resp.Candidates {
		var sb strings.Builder
		if c.Content != nil {
			for _, p := range c.Content.Parts {
				if t, ok := p.(genai.Text); ok {
					sb.WriteString(string(t))
				}
			}
		}
		info := map[string]any{}
		if resp.UsageMetadata != nil {
			info["input_tokens"] = resp.UsageMetadata.PromptTokenCount
			info["output_tokens"] = resp.UsageMetadata.CandidatesTokenCount
			info["total_tokens"] = resp.UsageMetadata.TotalTokenCount
		}
		cr.Choices = append(cr.Choices, &llms.ContentChoice{
			Content:        sb.String(),
			StopReason:     c.FinishReason.String(),
			GenerationInfo: info,
		})
	}
	return cr
}
