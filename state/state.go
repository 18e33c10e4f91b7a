// Package state holds the report state that drives both the web dashboard and
// the terminal client. All changes go through Controller methods.
package state

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/a-h/insightengine/metrics"
	"github.com/a-h/insightengine/models"
)

const DefaultThesis = "The future of search lies in deep integration with professional software rather than a standalone search bar."

// ErrorMessage is shown for any failed cycle. Request and parse failures
// aren't distinguished for the user.
const ErrorMessage = "Failed to generate the intelligence report. Please check your API configuration."

type Summarizer interface {
	Generate(ctx context.Context, thesis string) (models.Summary, error)
}

// State is a copy of the controller state.
type State struct {
	Thesis string
	// Document is shared with the controller and must not be modified.
	Document  *models.Summary
	IsLoading bool
	// ActiveChapterID is only meaningful when Document is set and has chapters.
	ActiveChapterID int
	ErrorMessage    string
}

func (s State) HasDocument() bool {
	return s.Document != nil
}

// ActiveChapter returns the selected chapter and its index.
func (s State) ActiveChapter() (ch models.Chapter, index int, ok bool) {
	if s.Document == nil {
		return ch, -1, false
	}
	return s.Document.Chapter(s.ActiveChapterID)
}

type Direction int

const (
	Previous Direction = -1
	Next     Direction = 1
)

// Cycle identifies one attempt to generate a summary.
type Cycle struct {
	Seq    uint64
	Thesis string
}

func New(log *slog.Logger, summarizer Summarizer) *Controller {
	return &Controller{
		log:        log,
		summarizer: summarizer,
		state: State{
			Thesis: DefaultThesis,
		},
	}
}

type Controller struct {
	log        *slog.Logger
	summarizer Summarizer

	m      sync.Mutex
	state  State
	seq    uint64
	cancel context.CancelFunc
}

func (c *Controller) Snapshot() State {
	c.m.Lock()
	defer c.m.Unlock()
	return c.state
}

// Initialize starts a cycle for the default thesis, so that there's something
// to show without the user doing anything. The caller runs it.
func (c *Controller) Initialize() Cycle {
	c.m.Lock()
	defer c.m.Unlock()
	return c.begin(DefaultThesis)
}

// SubmitThesis starts a cycle for text. Blank text is ignored.
func (c *Controller) SubmitThesis(text string) (cycle Cycle, ok bool) {
	if strings.TrimSpace(text) == "" {
		return cycle, false
	}
	c.m.Lock()
	defer c.m.Unlock()
	c.state.Thesis = text
	return c.begin(text), true
}

func (c *Controller) begin(thesis string) Cycle {
	c.seq++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.state.IsLoading = true
	c.state.ErrorMessage = ""
	return Cycle{Seq: c.seq, Thesis: thesis}
}

// Run generates the summary for the cycle and applies the result, unless a
// newer cycle has started in the meantime. It reports whether the result was
// applied.
func (c *Controller) Run(ctx context.Context, cycle Cycle) (applied bool) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	c.m.Lock()
	if cycle.Seq != c.seq {
		c.m.Unlock()
		c.discard(cycle)
		return false
	}
	c.cancel = cancel
	c.m.Unlock()

	summary, err := c.summarizer.Generate(ctx, cycle.Thesis)

	c.m.Lock()
	defer c.m.Unlock()
	if cycle.Seq != c.seq {
		c.discard(cycle)
		return false
	}
	c.cancel = nil
	c.state.IsLoading = false
	if err != nil {
		c.log.Error("request cycle failed", slog.Uint64("seq", cycle.Seq), slog.Any("error", err))
		c.state.ErrorMessage = ErrorMessage
		return true
	}
	c.state.Document = &summary
	c.state.ActiveChapterID = 0
	if len(summary.Chapters) > 0 {
		c.state.ActiveChapterID = summary.Chapters[0].ID
	}
	return true
}

func (c *Controller) discard(cycle Cycle) {
	metrics.CyclesDiscarded.Inc()
	c.log.Debug("discarding superseded request cycle", slog.Uint64("seq", cycle.Seq))
}

// SelectChapter selects the chapter with the given id, if the current
// document has one.
func (c *Controller) SelectChapter(id int) (ok bool) {
	c.m.Lock()
	defer c.m.Unlock()
	if c.state.Document == nil {
		return false
	}
	if _, _, ok = c.state.Document.Chapter(id); !ok {
		return false
	}
	c.state.ActiveChapterID = id
	return true
}

// StepChapter moves the selection by position. It doesn't wrap around.
func (c *Controller) StepChapter(d Direction) (moved bool) {
	c.m.Lock()
	defer c.m.Unlock()
	_, index, ok := c.state.ActiveChapter()
	if !ok {
		return false
	}
	next := index + int(d)
	if next < 0 || next >= len(c.state.Document.Chapters) {
		return false
	}
	c.state.ActiveChapterID = c.state.Document.Chapters[next].ID
	return true
}
