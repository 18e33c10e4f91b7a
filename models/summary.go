package models

import (
	"errors"
	"fmt"
	"strings"
)

// Summary is the structured report generated for a thesis.
type Summary struct {
	Title            string    `json:"title" yaml:"title"`
	AuthorAlias      string    `json:"authorAlias" yaml:"authorAlias"`
	ExecutiveSummary string    `json:"executiveSummary" yaml:"executiveSummary"`
	Chapters         []Chapter `json:"chapters" yaml:"chapters"`
	Conclusion       string    `json:"conclusion" yaml:"conclusion"`
}

// Chapter is one titled section of a Summary. The ID is the selection key,
// and isn't necessarily the chapter's position.
type Chapter struct {
	ID        int      `json:"id" yaml:"id"`
	Title     string   `json:"title" yaml:"title"`
	Summary   string   `json:"summary" yaml:"summary"`
	KeyPoints []string `json:"keyPoints" yaml:"keyPoints"`
}

// Chapter returns the chapter with the given id and its index in Chapters.
func (s Summary) Chapter(id int) (ch Chapter, index int, ok bool) {
	for i, c := range s.Chapters {
		if c.ID == id {
			return c, i, true
		}
	}
	return ch, -1, false
}

var ErrNoChapters = errors.New("summary has no chapters")

// Validate checks the shape of a summary received from an untrusted source.
// Chapter and key point counts are prompt conventions and aren't checked.
func (s Summary) Validate() error {
	var errs []error
	if strings.TrimSpace(s.Title) == "" {
		errs = append(errs, errors.New("missing title"))
	}
	if strings.TrimSpace(s.ExecutiveSummary) == "" {
		errs = append(errs, errors.New("missing executiveSummary"))
	}
	if strings.TrimSpace(s.Conclusion) == "" {
		errs = append(errs, errors.New("missing conclusion"))
	}
	if len(s.Chapters) == 0 {
		errs = append(errs, ErrNoChapters)
	}
	seen := make(map[int]struct{}, len(s.Chapters))
	for i, ch := range s.Chapters {
		if _, dup := seen[ch.ID]; dup {
			errs = append(errs, fmt.Errorf("chapter %d: duplicate id %d", i, ch.ID))
		}
		seen[ch.ID] = struct{}{}
		if strings.TrimSpace(ch.Title) == "" {
			errs = append(errs, fmt.Errorf("chapter %d: missing title", i))
		}
		if strings.TrimSpace(ch.Summary) == "" {
			errs = append(errs, fmt.Errorf("chapter %d: missing summary", i))
		}
		if ch.KeyPoints == nil {
			errs = append(errs, fmt.Errorf("chapter %d: missing keyPoints", i))
		}
	}
	return errors.Join(errs...)
}
