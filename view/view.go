// Package view derives everything the dashboard and the terminal client show
// from a state snapshot. It has no behaviour of its own.
package view

import (
	"fmt"

	"github.com/a-h/insightengine/models"
	"github.com/a-h/insightengine/state"
)

type Mode int

const (
	ModeIdle Mode = iota
	ModeLoading
	ModeLoaded
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeLoading:
		return "loading"
	case ModeLoaded:
		return "loaded"
	}
	return "unknown"
}

const (
	IdleNavigationText = "Awaiting data synthesis..."
	IdleContentText    = "Initiate system to synthesize knowledge"
	NoChaptersText     = "This report has no chapters."
	ReportLabel        = "Q3 2024 Intelligence Report"
	ThesisContext      = "The shift from discovery to intent-based execution within native environments."
)

var Tags = []string{"#IntelligentSearch", "#SaaSIntegration", "#API-First", "#SemanticWeb", "#ContextAware"}

type Report struct {
	Mode   Mode
	Thesis string
	// Error is shown alongside whatever else is on screen, including a
	// document from an earlier cycle.
	Error string

	Title            string
	AuthorAlias      string
	ExecutiveSummary string
	Conclusion       string
	Navigation       []NavItem
	// Chapter is nil when the document has no chapters.
	Chapter *ChapterDetail
	Tags    []string
	Chart   Chart
}

type NavItem struct {
	ID     int
	Label  string
	Title  string
	Active bool
}

type ChapterDetail struct {
	ID          int
	Position    string
	Title       string
	Summary     string
	KeyPoints   []string
	HasPrevious bool
	HasNext     bool
}

func New(s state.State) (r Report) {
	r.Thesis = s.Thesis
	r.Error = s.ErrorMessage
	r.Chart = NewChart(models.TrendData, ChartWidth, ChartHeight)
	switch {
	case s.IsLoading:
		r.Mode = ModeLoading
		return r
	case s.Document == nil:
		r.Mode = ModeIdle
		return r
	}
	r.Mode = ModeLoaded
	doc := s.Document
	r.Title = doc.Title
	r.AuthorAlias = doc.AuthorAlias
	r.ExecutiveSummary = doc.ExecutiveSummary
	r.Conclusion = doc.Conclusion
	r.Tags = Tags
	r.Navigation = make([]NavItem, len(doc.Chapters))
	for i, ch := range doc.Chapters {
		r.Navigation[i] = NavItem{
			ID:     ch.ID,
			Label:  twoDigits(i + 1),
			Title:  ch.Title,
			Active: ch.ID == s.ActiveChapterID,
		}
	}
	if ch, index, ok := s.ActiveChapter(); ok {
		r.Chapter = &ChapterDetail{
			ID:          ch.ID,
			Position:    fmt.Sprintf("CHAPTER %s OF %s", twoDigits(index+1), twoDigits(len(doc.Chapters))),
			Title:       ch.Title,
			Summary:     ch.Summary,
			KeyPoints:   ch.KeyPoints,
			HasPrevious: index > 0,
			HasNext:     index < len(doc.Chapters)-1,
		}
	}
	return r
}

func twoDigits(n int) string {
	return fmt.Sprintf("%02d", n)
}
