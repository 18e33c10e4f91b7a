package generator

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/a-h/insightengine/metrics"
	"github.com/a-h/insightengine/models"
	"github.com/tmc/langchaingo/llms"
)

// Schema is the JSON schema the model is asked to conform to.
//
//go:embed schema.json
var Schema string

const systemPrompt = `You are a research analyst who writes structured intelligence reports.

Respond with a single JSON object and nothing else. The object must conform to this JSON schema:

%s`

const userPrompt = `Generate a comprehensive, academic-style bullet point summary of a conceptual book based on the following thesis: "%s".
The summary should be structured as a seminal business and technology book with 6-8 chapters.
Each chapter must include a title, a high-level summary, and at least 5 deep-dive bullet points exploring specific implications for professional software (e.g., IDEs, CRM, Design tools, Medical software, etc.).
Focus on technical integration, user experience paradigms, and the shift from "Discovery" to "Actionable Intelligence".`

// Prompt returns the instruction sent to the model for the thesis.
func Prompt(thesis string) string {
	return fmt.Sprintf(userPrompt, thesis)
}

type Options struct {
	// Temperature is passed to the model when non-zero.
	Temperature float64
	// MaxTokens is passed to the model when non-zero.
	MaxTokens int
}

func New(log *slog.Logger, llm llms.Model, opts Options) *Generator {
	return &Generator{
		log:  log,
		llm:  llm,
		opts: opts,
	}
}

// Generator turns a thesis into a Summary using a language model.
type Generator struct {
	log  *slog.Logger
	llm  llms.Model
	opts Options
}

// Generate makes a single call to the model. Failures are always *Error.
func (g *Generator) Generate(ctx context.Context, thesis string) (summary models.Summary, err error) {
	start := time.Now()
	summary, err = g.generate(ctx, thesis)
	metrics.ObserveGeneration(outcome(err), time.Since(start))
	return summary, err
}

func (g *Generator) generate(ctx context.Context, thesis string) (summary models.Summary, err error) {
	msgs := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, fmt.Sprintf(systemPrompt, Schema)),
		llms.TextParts(llms.ChatMessageTypeHuman, Prompt(thesis)),
	}
	g.log.Debug("generating summary", slog.String("thesis", thesis))

	resp, err := g.llm.GenerateContent(ctx, msgs, g.callOptions()...)
	if ctxErr := ctx.Err(); err != nil && errors.Is(ctxErr, context.Canceled) && !errors.Is(err, ctxErr) {
		err = fmt.Errorf("%w: %w", ctxErr, err)
	}
	if errors.Is(err, context.Canceled) {
		g.log.Debug("generation cancelled", slog.Any("error", err))
		return summary, requestError(err)
	}
	if err != nil {
		g.log.Error("failed to generate content", slog.Any("error", err))
		return summary, requestError(err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		err = errors.New("model returned no choices")
		g.log.Error("failed to generate content", slog.Any("error", err))
		return summary, requestError(err)
	}

	summary, err = Parse(resp.Choices[0].Content)
	if err != nil {
		g.log.Error("failed to parse summary", slog.Any("error", err), slog.Int("length", len(resp.Choices[0].Content)))
		return summary, err
	}
	g.log.Info("summary generated", slog.String("title", summary.Title), slog.Int("chapters", len(summary.Chapters)))
	return summary, nil
}

func (g *Generator) callOptions() []llms.CallOption {
	opts := []llms.CallOption{llms.WithJSONMode()}
	if g.opts.Temperature != 0 {
		opts = append(opts, llms.WithTemperature(g.opts.Temperature))
	}
	if g.opts.MaxTokens != 0 {
		opts = append(opts, llms.WithMaxTokens(g.opts.MaxTokens))
	}
	return opts
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, context.Canceled):
		return metrics.OutcomeCancelled
	case errors.Is(err, ErrParse):
		return metrics.OutcomeParseFailure
	default:
		return metrics.OutcomeRequestFailure
	}
}
