package main

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/a-h/insightengine/client"
	"github.com/a-h/insightengine/models"
	"github.com/pluja/pocketbase"
	"github.com/tmc/langchaingo/documentloaders"
)

type BatchCommand struct {
	ServerURL     string `help:"The URL of the insight engine server." env:"INSIGHT_ENGINE_URL" default:"http://localhost:9020"`
	ServerAPIKey  string `help:"The API key for the insight engine server." env:"INSIGHT_ENGINE_API_KEY" default:""`
	PocketbaseURL string `help:"The URL of the Pocketbase server." env:"POCKETBASE_URL" default:"http://localhost:8090"`
	ID            string `help:"The ID of the record to generate a report for, if you just want one." env:"ID" default:""`
	Collection    string `help:"The name of the collection containing theses." env:"COLLECTION" default:"theses"`
	Field         string `help:"The field containing the thesis text." env:"FIELD" default:"thesis"`
	Files         string `help:"Comma separated list of fields that contain Pocketbase PDF references to read the thesis from, when the thesis field is empty." env:"FILES" default:""`
	DryRun        bool   `help:"Print the theses without generating reports." env:"DRY_RUN" default:"false"`
	LogLevel      string `help:"The log level to use." env:"LOG_LEVEL" default:"info"`
}

func (c BatchCommand) Run(ctx context.Context) (err error) {
	log := getLogger(c.LogLevel)

	iec := client.New(c.ServerURL, c.ServerAPIKey)

	pbe := NewPocketbaseExporter(c.PocketbaseURL, pocketbase.NewClient(c.PocketbaseURL), c.Collection, c.Field, c.Files)
	var count int
	for t := range pbe.Export(ctx) {
		if c.ID != "" && t.ID != c.ID {
			continue
		}
		if strings.TrimSpace(t.Thesis) == "" {
			log.Warn("skipping record without a thesis", slog.String("id", t.ID))
			continue
		}
		if c.DryRun {
			log.Info("skipping report generation in dry run mode", slog.String("id", t.ID))
			fmt.Println(t.Thesis)
			continue
		}
		log.Info("generating report", slog.String("id", t.ID))
		resp, err := iec.SummaryPost(ctx, models.SummaryPostRequest{
			Thesis: t.Thesis,
		})
		if err != nil {
			return fmt.Errorf("failed to generate report for %q: %w", t.ID, err)
		}
		count++
		log.Info("report generated", slog.String("id", t.ID), slog.Int64("reportId", resp.ReportID), slog.String("title", resp.Summary.Title))
	}
	if pbe.Error != nil {
		return pbe.Error
	}
	log.Info("batch complete", slog.Int("reports", count))
	return nil
}

func NewPocketbaseExporter(baseURL string, client *pocketbase.Client, collection, field, files string) *PocketbaseExporter {
	return &PocketbaseExporter{
		baseURL:    baseURL,
		client:     client,
		collection: collection,
		field:      field,
		files:      splitFields(files),
		PageSize:   10,
	}
}

func splitFields(s string) (fields []string) {
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

type PocketbaseExporter struct {
	// baseURL for downloading files, e.g. http://localhost:8090
	baseURL    string
	client     *pocketbase.Client
	collection string
	field      string
	files      []string
	PageSize   int
	Error      error
}

type ExportedThesis struct {
	ID     string
	Thesis string
}

func (p *PocketbaseExporter) Export(ctx context.Context) iter.Seq[ExportedThesis] {
	var page int
	return func(yield func(ExportedThesis) bool) {
		for {
			if ctx.Err() != nil {
				return
			}
			if p.Error != nil {
				return
			}
			page++
			response, err := p.client.List(p.collection, pocketbase.ParamsList{
				Page: page,
				Size: p.PageSize,
				Sort: "-created",
			})
			if err != nil {
				p.Error = fmt.Errorf("failed to list %q: %w", p.collection, err)
				return
			}
			if len(response.Items) == 0 {
				return
			}
			for _, item := range response.Items {
				if !yield(p.createThesis(ctx, item)) {
					return
				}
			}
		}
	}
}

func (p *PocketbaseExporter) createThesis(ctx context.Context, item map[string]any) (t ExportedThesis) {
	t.ID, _ = item["id"].(string)
	t.Thesis = thesisFromItem(item, p.field)
	if t.Thesis != "" {
		return t
	}
	var sb strings.Builder
	for _, fileName := range pdfFileNames(item, p.files) {
		if ctx.Err() != nil {
			return t
		}
		text, err := p.getPDFText(ctx, p.collection, t.ID, fileName)
		if err != nil {
			p.Error = fmt.Errorf("failed to get file text: %w", err)
			return t
		}
		sb.WriteString(text)
	}
	t.Thesis = strings.TrimSpace(sb.String())
	return t
}

func thesisFromItem(item map[string]any, field string) string {
	s, _ := item[field].(string)
	return strings.TrimSpace(s)
}

// pdfFileNames returns the PDF attachments in the file fields. Pocketbase
// stores single file fields as a string, and multiple file fields as a list.
func pdfFileNames(item map[string]any, fields []string) (names []string) {
	for _, field := range fields {
		var candidates []any
		switch v := item[field].(type) {
		case string:
			candidates = []any{v}
		case []any:
			candidates = v
		}
		for _, c := range candidates {
			name, ok := c.(string)
			if !ok || !strings.EqualFold(filepath.Ext(name), ".pdf") {
				continue
			}
			names = append(names, name)
		}
	}
	return names
}

func (p *PocketbaseExporter) getPDFText(ctx context.Context, collection, id, filename string) (string, error) {
	downloadURL, err := createURL(p.baseURL, "api", "files", collection, id, filename)
	if err != nil {
		return "", fmt.Errorf("failed to create download URL: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create download request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download file: unexpected status %d", resp.StatusCode)
	}

	pdfFile, err := os.CreateTemp("", "insightengine-batch-*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer pdfFile.Close()
	defer os.Remove(pdfFile.Name())

	fileSize, err := io.Copy(pdfFile, resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	docs, err := documentloaders.NewPDF(pdfFile, fileSize).Load(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load PDF: %w", err)
	}
	return joinPages(docs), nil
}

func createURL(baseURL string, pathSegments ...string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse baseURL: %w", err)
	}
	u.Path = strings.Join(pathSegments, "/")
	return u.String(), nil
}
