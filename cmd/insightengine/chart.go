package main

import (
	"fmt"
	"strings"

	"github.com/a-h/insightengine/view"
)

const chartColumnWidth = 6

var seriesMarkers = []rune{'o', '*'}

// asciiChart plots the chart's series on a grid of the given number of rows.
// Points where series overlap are drawn with '#'.
func asciiChart(c view.Chart, rows int) string {
	if len(c.XTicks) == 0 || rows < 2 {
		return ""
	}
	cols := len(c.XTicks) * chartColumnWidth
	grid := make([][]rune, rows)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", cols))
	}
	for si, s := range c.Series {
		marker := seriesMarkers[si%len(seriesMarkers)]
		for i, v := range s.Values {
			row := rows - 1 - (v*(rows-1)+50)/100
			row = max(0, min(rows-1, row))
			col := i*chartColumnWidth + chartColumnWidth/2
			if grid[row][col] != ' ' && grid[row][col] != marker {
				grid[row][col] = '#'
				continue
			}
			grid[row][col] = marker
		}
	}

	var sb strings.Builder
	sb.WriteString(c.Title)
	sb.WriteString("\n")
	for i, line := range grid {
		label := "    "
		switch i {
		case 0:
			label = "100%"
		case (rows - 1) / 2:
			label = " 50%"
		case rows - 1:
			label = "  0%"
		}
		fmt.Fprintf(&sb, "%s |%s\n", label, strings.TrimRight(string(line), " "))
	}
	fmt.Fprintf(&sb, "     +%s\n", strings.Repeat("-", cols))
	sb.WriteString("      ")
	for _, t := range c.XTicks {
		fmt.Fprintf(&sb, "%-*s", chartColumnWidth, centre(t.Label, chartColumnWidth))
	}
	sb.WriteString("\n")
	for si, s := range c.Series {
		fmt.Fprintf(&sb, "      %c %s\n", seriesMarkers[si%len(seriesMarkers)], s.Name)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func centre(s string, width int) string {
	if len(s) >= width {
		return s
	}
	left := (width - len(s)) / 2
	return strings.Repeat(" ", left) + s
}
