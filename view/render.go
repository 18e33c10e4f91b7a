package view

import (
	"embed"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templates embed.FS

var dashboard = template.Must(template.New("dashboard.html").Funcs(template.FuncMap{
	"isLoading": func(m Mode) bool { return m == ModeLoading },
	"isLoaded":  func(m Mode) bool { return m == ModeLoaded },
	"skeleton":  func(n int) []int { return make([]int, n) },
}).ParseFS(templates, "templates/dashboard.html"))

// Render writes the HTML dashboard for the report.
func Render(w io.Writer, r Report) error {
	return dashboard.Execute(w, struct {
		Report
		IdleNavigationText string
		IdleContentText    string
		NoChaptersText     string
		ReportLabel        string
		ThesisContext      string
	}{
		Report:             r,
		IdleNavigationText: IdleNavigationText,
		IdleContentText:    IdleContentText,
		NoChaptersText:     NoChaptersText,
		ReportLabel:        ReportLabel,
		ThesisContext:      ThesisContext,
	})
}
