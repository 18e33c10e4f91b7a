package generator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/insightengine/models"
)

// Parse decodes and validates a model response. Surrounding whitespace and a
// Markdown code fence are tolerated, anything else must be a single JSON object.
func Parse(text string) (summary models.Summary, err error) {
	text = stripCodeFence(strings.TrimSpace(text))
	if text == "" {
		return summary, parseError(errors.New("empty response"))
	}
	dec := json.NewDecoder(strings.NewReader(text))
	if err = dec.Decode(&summary); err != nil {
		return models.Summary{}, parseError(fmt.Errorf("invalid JSON: %w", err))
	}
	if _, err = dec.Token(); err != io.EOF {
		return models.Summary{}, parseError(errors.New("unexpected content after JSON object"))
	}
	if err = summary.Validate(); err != nil {
		return models.Summary{}, parseError(fmt.Errorf("invalid summary: %w", err))
	}
	return summary, nil
}

func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	// Drop the opening fence line, which may carry a language tag.
	nl := strings.IndexByte(text, '\n')
	if nl < 0 {
		return text
	}
	text = strings.TrimSpace(text[nl+1:])
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
