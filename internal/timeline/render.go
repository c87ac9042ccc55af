package timeline

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// palette colours bars by row.
var palette = []lipgloss.Color{"212", "111", "150", "221", "209", "80"}

// Styles holds the lipgloss styles used by Renderer
type Styles struct {
	Label   lipgloss.Style
	Axis    lipgloss.Style
	Remain  lipgloss.Style
	Hovered lipgloss.Style
	Tooltip lipgloss.Style
}

// DefaultStyles returns the default timeline styles
func DefaultStyles() Styles {
	return Styles{
		Label:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Axis:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Remain:  lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		Hovered: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		Tooltip: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1),
	}
}

// Renderer draws a Projection as a text Gantt chart.
type Renderer struct {
	// Width is the chart area in cells, excluding the label column
	Width int
	// LabelWidth is the width of the task label column
	LabelWidth int
	// TooltipWidthPct is the tooltip width relative to the chart area
	TooltipWidthPct float64
	// TickCount is the number of axis labels
	TickCount int
	Styles    Styles
}

// NewRenderer returns a renderer for a chart area of width cells.
func NewRenderer(width int, tooltipWidthPct float64) *Renderer {
	return &Renderer{
		Width:           width,
		LabelWidth:      16,
		TooltipWidthPct: tooltipWidthPct,
		TickCount:       5,
		Styles:          DefaultStyles(),
	}
}

// Render draws one row per bar, an axis line and, when hovered names a task
// in the projection, its tooltip below the row or above it for the last two
// rows.
func (r *Renderer) Render(p Projection, hovered string) string {
	var lines []string
	tooltipRow := -1
	var tooltip []string

	for _, bar := range p.Bars {
		isHovered := hovered != "" && bar.Task.ID == hovered
		lines = append(lines, r.row(bar, isHovered))
		if isHovered {
			tooltipRow = bar.Row
			placement := PlaceTooltip(bar.Row, p.Rows(), bar.LeftPct, r.TooltipWidthPct)
			tooltip = r.tooltip(bar, placement)
			if placement.Above {
				tooltipRow--
			}
		}
	}

	if tooltip != nil {
		at := tooltipRow + 1
		merged := make([]string, 0, len(lines)+len(tooltip))
		merged = append(merged, lines[:at]...)
		merged = append(merged, tooltip...)
		merged = append(merged, lines[at:]...)
		lines = merged
	}

	lines = append(lines, r.axis(p))
	return strings.Join(lines, "\n")
}

func (r *Renderer) row(bar Bar, hovered bool) string {
	label := truncate(fmt.Sprintf("%s %s", bar.Task.ID, bar.Task.Title), r.LabelWidth)
	label = fmt.Sprintf("%-*s", r.LabelWidth, label)
	if hovered {
		label = r.Styles.Hovered.Render(label)
	} else {
		label = r.Styles.Label.Render(label)
	}

	offset, length := bar.Columns(r.Width)
	done := int(math.Round(clampPct(bar.Task.Progress) / 100 * float64(length)))

	colour := lipgloss.NewStyle().Foreground(palette[bar.Row%len(palette)])
	var b strings.Builder
	b.WriteString(label)
	b.WriteString(" ")
	b.WriteString(strings.Repeat(" ", offset))
	b.WriteString(colour.Render(strings.Repeat("█", done)))
	b.WriteString(r.Styles.Remain.Render(strings.Repeat("▒", length-done)))
	b.WriteString(strings.Repeat(" ", r.Width-offset-length))
	fmt.Fprintf(&b, " %dd", bar.DurationDays)
	return b.String()
}

func (r *Renderer) axis(p Projection) string {
	line := []rune(strings.Repeat(" ", r.Width+len("     ")))
	for _, tick := range p.Ticks(r.TickCount) {
		col := cells(tick.Pct, r.Width)
		label := []rune(tick.Label)
		if col+len(label) > len(line) {
			col = len(line) - len(label)
		}
		if col < 0 {
			col = 0
		}
		copy(line[col:], label)
	}
	return strings.Repeat(" ", r.LabelWidth+1) + r.Styles.Axis.Render(strings.TrimRight(string(line), " "))
}

func (r *Renderer) tooltip(bar Bar, placement Placement) []string {
	t := bar.Task
	body := []string{
		lipgloss.NewStyle().Bold(true).Render(t.Title),
		fmt.Sprintf("ID: %s", t.ID),
		fmt.Sprintf("Start: %s", t.Start.Format("2006-01-02")),
		fmt.Sprintf("End: %s", t.End.Format("2006-01-02")),
		fmt.Sprintf("Duration: %d days", bar.DurationDays),
		fmt.Sprintf("Progress: %.0f%%", t.Progress),
	}
	if len(t.Resources) > 0 {
		body = append(body, "Resources: "+strings.Join(t.Resources, ", "))
	}
	if len(t.Dependencies) > 0 {
		body = append(body, "Depends on: "+strings.Join(t.Dependencies, ", "))
	}

	width := cells(r.TooltipWidthPct, r.Width)
	if width < 24 {
		width = 24
	}
	box := r.Styles.Tooltip.Width(width).Render(strings.Join(body, "\n"))

	anchor := cells(placement.AnchorPct, r.Width)
	left := anchor + int(math.Round(placement.TranslateXPct/100*float64(lipgloss.Width(box))))
	if left < 0 {
		left = 0
	}
	indent := strings.Repeat(" ", r.LabelWidth+1+left)

	lines := strings.Split(box, "\n")
	for i, line := range lines {
		lines[i] = indent + line
	}
	return lines
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 1 {
		return string(runes[:n])
	}
	return string(runes[:n-1]) + "…"
}

func clampPct(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
