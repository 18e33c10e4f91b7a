package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/a-h/insightengine/generator"
	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/schema"
	"gopkg.in/yaml.v3"
)

type GenerateCommand struct {
	LLMFlags `embed:""`
	Thesis   string `help:"The thesis to generate a report for." xor:"input" default:""`
	File     string `help:"A text or PDF file containing the thesis." xor:"input" default:""`
	Format   string `help:"The output format." enum:"json,yaml" default:"json"`
	LogLevel string `help:"The log level to use." env:"LOG_LEVEL" default:"info"`
}

func (c GenerateCommand) Run(ctx context.Context) (err error) {
	log := getLogger(c.LogLevel)

	thesis := c.Thesis
	if c.File != "" {
		thesis, err = readThesis(ctx, c.File)
		if err != nil {
			return err
		}
	}
	if strings.TrimSpace(thesis) == "" {
		return fmt.Errorf("a thesis is required, use --thesis or --file")
	}

	gen := generator.New(log, newLLM(ctx, c.LLMFlags, &http.Client{}), generator.Options{
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
	})
	summary, err := gen.Generate(ctx, thesis)
	if err != nil {
		return err
	}

	if c.Format == "yaml" {
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		return enc.Encode(summary)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}

func readThesis(ctx context.Context, name string) (thesis string, err error) {
	f, err := os.Open(name)
	if err != nil {
		return "", fmt.Errorf("failed to open thesis file: %w", err)
	}
	defer f.Close()
	docs, err := loadDocuments(ctx, f, filepath.Ext(name))
	if err != nil {
		return "", fmt.Errorf("failed to load thesis file: %w", err)
	}
	return joinPages(docs), nil
}

func loadDocuments(ctx context.Context, f *os.File, ext string) ([]schema.Document, error) {
	if !strings.EqualFold(ext, ".pdf") {
		return documentloaders.NewText(f).Load(ctx)
	}
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	return documentloaders.NewPDF(f, fi.Size()).Load(ctx)
}

func joinPages(docs []schema.Document) string {
	var sb strings.Builder
	for _, doc := range docs {
		sb.WriteString(doc.PageContent)
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}
