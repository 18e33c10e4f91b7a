package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/a-h/insightengine/client"
	"github.com/a-h/insightengine/state"
	"github.com/a-h/insightengine/view"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

type ViewCommand struct {
	ServerURL    string        `help:"The URL of the insight engine server." env:"INSIGHT_ENGINE_URL" default:"http://localhost:9020"`
	ServerAPIKey string        `help:"The API key for the insight engine server." env:"INSIGHT_ENGINE_API_KEY" default:""`
	CycleTimeout time.Duration `help:"The maximum time a generation can take." env:"CYCLE_TIMEOUT" default:"3m"`
	LogLevel     string        `help:"The log level to use." env:"LOG_LEVEL" default:"error"`
}

func (c ViewCommand) Run(ctx context.Context) (err error) {
	// Logs go to stderr, which would corrupt the terminal UI at lower levels.
	log := getLogger(c.LogLevel)
	summarizer := client.Summarizer{Client: client.New(c.ServerURL, c.ServerAPIKey)}
	controller := state.New(log, summarizer)

	p := tea.NewProgram(newReportModel(ctx, controller, c.CycleTimeout), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// Dracula color scheme.
var (
	Background  = lipgloss.Color("#282a36")
	CurrentLine = lipgloss.Color("#44475a")
	Foreground  = lipgloss.Color("#f8f8f2")
	Comment     = lipgloss.Color("#6272a4")
	Cyan        = lipgloss.Color("#8be9fd")
	Green       = lipgloss.Color("#50fa7b")
	Orange      = lipgloss.Color("#ffb86c")
	Pink        = lipgloss.Color("#ff79c6")
	Purple      = lipgloss.Color("#bd93f9")
	Red         = lipgloss.Color("#ff5555")
)

var (
	labelStyle   = lipgloss.NewStyle().Foreground(Comment).Bold(true)
	titleStyle   = lipgloss.NewStyle().Foreground(Purple).Bold(true)
	headingStyle = lipgloss.NewStyle().Foreground(Cyan).Bold(true)
	textStyle    = lipgloss.NewStyle().Foreground(Foreground)
	mutedStyle   = lipgloss.NewStyle().Foreground(Comment)
	activeStyle  = lipgloss.NewStyle().Background(CurrentLine).Foreground(Green).Bold(true)
	pointStyle   = lipgloss.NewStyle().Foreground(Orange)
	tagStyle     = lipgloss.NewStyle().Foreground(Pink)
	errorStyle   = lipgloss.NewStyle().Foreground(Red).Bold(true)
	helpStyle    = lipgloss.NewStyle().Foreground(Comment).Italic(true)
)

const helpText = "/ edit thesis • ←/h previous • →/l next • 1-9 chapter • q quit"

type cycleDoneMsg struct {
	applied bool
}

type reportModel struct {
	ctx          context.Context
	controller   *state.Controller
	cycleTimeout time.Duration

	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model
	editing  bool
	width    int
}

func newReportModel(ctx context.Context, controller *state.Controller, cycleTimeout time.Duration) reportModel {
	ta := textarea.New()
	ta.Placeholder = "Enter a thesis or topic to explore..."
	ta.Prompt = "┃ "
	ta.CharLimit = 1000
	ta.SetHeight(2)
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.SetValue(controller.Snapshot().Thesis)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(Purple)

	return reportModel{
		ctx:          ctx,
		controller:   controller,
		cycleTimeout: cycleTimeout,
		viewport:     viewport.New(80, 20),
		textarea:     ta,
		spinner:      sp,
		width:        80,
	}
}

func (m reportModel) Init() tea.Cmd {
	return tea.Batch(
		m.run(m.controller.Initialize()),
		m.spinner.Tick,
	)
}

// run executes the cycle outside the update loop. The controller discards the
// result if a newer cycle has started.
func (m reportModel) run(cycle state.Cycle) tea.Cmd {
	return func() tea.Msg {
		ctx := m.ctx
		if m.cycleTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, m.cycleTimeout)
			defer cancel()
		}
		return cycleDoneMsg{applied: m.controller.Run(ctx, cycle)}
	}
}

func (m reportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case cycleDoneMsg:
		return m.refresh(), nil
	case spinner.TickMsg:
		if !m.controller.Snapshot().IsLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m.refresh(), cmd
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - m.textarea.Height() - 4
		m.textarea.SetWidth(msg.Width)
		return m.refresh(), nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateBrowsing(msg)
	case cursor.BlinkMsg:
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m reportModel) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.textarea.Blur()
		m.textarea.SetValue(m.controller.Snapshot().Thesis)
		return m, nil
	case "enter":
		cycle, ok := m.controller.SubmitThesis(m.textarea.Value())
		if !ok {
			// Blank theses are ignored, keep editing.
			return m, nil
		}
		m.editing = false
		m.textarea.Blur()
		return m.refresh(), tea.Batch(m.run(cycle), m.spinner.Tick)
	}
	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m reportModel) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "q":
		return m, tea.Quit
	case "/", "i":
		m.editing = true
		return m, m.textarea.Focus()
	case "left", "h":
		m.controller.StepChapter(state.Previous)
		return m.refresh(), nil
	case "right", "l":
		m.controller.StepChapter(state.Next)
		return m.refresh(), nil
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		nav := view.New(m.controller.Snapshot()).Navigation
		if pos := int(key[0] - '1'); pos < len(nav) {
			m.controller.SelectChapter(nav[pos].ID)
		}
		return m.refresh(), nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m reportModel) refresh() reportModel {
	m.viewport.SetContent(renderReport(view.New(m.controller.Snapshot()), m.width, m.spinner.View()))
	return m
}

func (m reportModel) View() string {
	return fmt.Sprintf("%s\n%s\n%s",
		m.viewport.View(),
		m.textarea.View(),
		helpStyle.Render(helpText),
	)
}

// renderReport draws the report for a terminal of the given width.
func renderReport(r view.Report, width int, spinner string) string {
	width = max(width-2, 20)
	wrap := func(s string) string {
		return wordwrap.String(s, width)
	}

	var sb strings.Builder
	section := func(s string) {
		sb.WriteString(s)
		sb.WriteString("\n\n")
	}

	section(labelStyle.Render(view.ReportLabel))
	if r.Error != "" {
		section(errorStyle.Render(wrap(r.Error)))
	}

	switch r.Mode {
	case view.ModeIdle:
		section(mutedStyle.Render(view.IdleContentText))
	case view.ModeLoading:
		section(fmt.Sprintf("%s %s", spinner, mutedStyle.Render(wrap("Synthesizing: "+r.Thesis))))
	case view.ModeLoaded:
		section(titleStyle.Render(wrap(r.Title)))
		if r.AuthorAlias != "" {
			section(mutedStyle.Render("by " + r.AuthorAlias))
		}
		section(textStyle.Render(wrap(r.ExecutiveSummary)))
		section(renderNavigation(r.Navigation))
		section(renderChapter(r.Chapter, wrap))
		section(headingStyle.Render("Conclusion") + "\n" + textStyle.Render(wrap(r.Conclusion)))
		section(tagStyle.Render(wrap(strings.Join(r.Tags, " "))))
	}

	section(mutedStyle.Render(asciiChart(r.Chart, 11)))
	return strings.TrimRight(sb.String(), "\n")
}

func renderNavigation(nav []view.NavItem) string {
	lines := make([]string, len(nav))
	for i, item := range nav {
		line := fmt.Sprintf(" %s  %s ", item.Label, item.Title)
		if item.Active {
			lines[i] = activeStyle.Render(line)
			continue
		}
		lines[i] = textStyle.Render(line)
	}
	return strings.Join(lines, "\n")
}

func renderChapter(ch *view.ChapterDetail, wrap func(string) string) string {
	if ch == nil {
		return mutedStyle.Render(view.NoChaptersText)
	}
	var sb strings.Builder
	sb.WriteString(labelStyle.Render(ch.Position))
	sb.WriteString("\n")
	sb.WriteString(headingStyle.Render(wrap(ch.Title)))
	sb.WriteString("\n\n")
	sb.WriteString(textStyle.Render(wrap(ch.Summary)))
	sb.WriteString("\n")
	for _, kp := range ch.KeyPoints {
		sb.WriteString("\n")
		sb.WriteString(pointStyle.Render(wrap("• " + kp)))
	}
	var nav []string
	if ch.HasPrevious {
		nav = append(nav, "← previous")
	}
	if ch.HasNext {
		nav = append(nav, "next →")
	}
	if len(nav) > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(helpStyle.Render(strings.Join(nav, "   ")))
	}
	return sb.String()
}
