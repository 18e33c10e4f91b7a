package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/a-h/insightengine/models"
)

const (
	ChartWidth   = 280
	ChartHeight  = 160
	chartPadding = 24
)

type Chart struct {
	Title  string
	Width  int
	Height int
	Series []Series
	XTicks []Tick
	YTicks []Tick
	// Baseline is the y coordinate of the zero line.
	Baseline float64
}

type Series struct {
	Name   string
	Color  string
	Values []int
	// Line and Area are SVG point lists.
	Line string
	Area string
}

type Tick struct {
	Label string
	X     float64
	Y     float64
}

// NewChart lays out the trend series inside a width x height SVG viewport.
// Values are percentages, so the y axis is fixed at 0-100.
func NewChart(data []models.TrendPoint, width, height int) (c Chart) {
	c.Title = models.TrendTitle
	c.Width = width
	c.Height = height
	left, right := float64(chartPadding), float64(width-chartPadding/2)
	top, bottom := float64(chartPadding/2), float64(height-chartPadding)
	c.Baseline = bottom
	if len(data) == 0 {
		return c
	}

	minYear, maxYear := data[0].Year, data[0].Year
	for _, p := range data {
		minYear = min(minYear, p.Year)
		maxYear = max(maxYear, p.Year)
	}
	x := func(year int) float64 {
		if maxYear == minYear {
			return left
		}
		return left + (right-left)*float64(year-minYear)/float64(maxYear-minYear)
	}
	y := func(v int) float64 {
		return bottom - (bottom-top)*float64(v)/100
	}

	standalone := make([]int, len(data))
	integrated := make([]int, len(data))
	for i, p := range data {
		standalone[i] = p.Standalone
		integrated[i] = p.Integrated
		c.XTicks = append(c.XTicks, Tick{Label: strconv.Itoa(p.Year), X: x(p.Year), Y: bottom})
	}
	for v := 0; v <= 100; v += 25 {
		c.YTicks = append(c.YTicks, Tick{Label: strconv.Itoa(v), X: left, Y: y(v)})
	}

	series := func(name, color string, values []int) Series {
		points := make([]string, len(data))
		for i, p := range data {
			points[i] = point(x(p.Year), y(values[i]))
		}
		line := strings.Join(points, " ")
		area := point(x(data[0].Year), bottom) + " " + line + " " + point(x(data[len(data)-1].Year), bottom)
		return Series{Name: name, Color: color, Values: values, Line: line, Area: area}
	}
	c.Series = []Series{
		series("Standalone Search", "#3b82f6", standalone),
		series("Integrated OS/SaaS", "#10b981", integrated),
	}
	return c
}

func point(x, y float64) string {
	return fmt.Sprintf("%.1f,%.1f", x, y)
}
