package timeline

import (
	"fmt"
	"math"
	"time"

	"github.com/felixgeelhaar/planboard/internal/errors"
)

// ErrEmptyTimeline is returned by Project for an empty task list. Callers
// render a "no data" state instead.
var ErrEmptyTimeline = errors.New(errors.ErrCodeTimelineEmpty, "no scheduled tasks to display")

const day = 24 * time.Hour

// Bar is a task positioned on the window, in percent of the chart width.
type Bar struct {
	Task         ScheduledTask `json:"task"`
	Row          int           `json:"row"`
	LeftPct      float64       `json:"leftPct"`
	WidthPct     float64       `json:"widthPct"`
	DurationDays int           `json:"durationDays"`
}

// Projection is a snapshot normalized to the [earliest start, latest end]
// window.
type Projection struct {
	WindowStart time.Time `json:"windowStart"`
	WindowEnd   time.Time `json:"windowEnd"`
	Bars        []Bar     `json:"bars"`
}

// Project maps tasks onto the window in input order, one row per task.
// Positions use unrounded day differences. When every task shares one
// instant the window is degenerate and all bars are zero.
func Project(tasks []ScheduledTask) (Projection, error) {
	if len(tasks) == 0 {
		return Projection{}, ErrEmptyTimeline
	}

	start, end := tasks[0].Start, tasks[0].End
	for _, t := range tasks[1:] {
		if t.Start.Before(start) {
			start = t.Start
		}
		if t.End.After(end) {
			end = t.End
		}
	}

	span := days(end.Sub(start))
	bars := make([]Bar, len(tasks))
	for i, t := range tasks {
		bar := Bar{Task: t, Row: i, DurationDays: DurationDays(t)}
		if span > 0 {
			bar.LeftPct = days(t.Start.Sub(start)) / span * 100
			bar.WidthPct = days(t.End.Sub(start))/span*100 - bar.LeftPct
		}
		bars[i] = bar
	}

	return Projection{WindowStart: start, WindowEnd: end, Bars: bars}, nil
}

// DurationDays is the task length in whole days, rounded up. Display only.
func DurationDays(t ScheduledTask) int {
	return int(math.Ceil(days(t.End.Sub(t.Start))))
}

// SpanDays is the window length in fractional days.
func (p Projection) SpanDays() float64 {
	return days(p.WindowEnd.Sub(p.WindowStart))
}

// Rows returns the number of rows in the chart.
func (p Projection) Rows() int {
	return len(p.Bars)
}

// Bar returns the bar of the task with the given id.
func (p Projection) Bar(id string) (Bar, bool) {
	for _, b := range p.Bars {
		if b.Task.ID == id {
			return b, true
		}
	}
	return Bar{}, false
}

// Tick is an axis label at a position on the window.
type Tick struct {
	Pct   float64   `json:"pct"`
	Day   int       `json:"day"`
	Date  time.Time `json:"date"`
	Label string    `json:"label"`
}

// Ticks returns n evenly spaced axis labels ("Day N", counted from the
// window start). A degenerate window or n < 2 yields a single tick.
func (p Projection) Ticks(n int) []Tick {
	span := p.SpanDays()
	if n < 2 || span <= 0 {
		return []Tick{{Pct: 0, Day: 0, Date: p.WindowStart, Label: "Day 0"}}
	}

	ticks := make([]Tick, n)
	for i := range ticks {
		pct := float64(i) / float64(n-1) * 100
		offset := int(math.Round(span * pct / 100))
		ticks[i] = Tick{
			Pct:   pct,
			Day:   offset,
			Date:  p.WindowStart.Add(time.Duration(offset) * day),
			Label: fmt.Sprintf("Day %d", offset),
		}
	}
	return ticks
}

// Columns converts the bar to terminal cells on a chart of the given width.
// A bar of non-zero width occupies at least one cell and never overflows.
func (b Bar) Columns(width int) (offset, length int) {
	if width <= 0 {
		return 0, 0
	}
	offset = cells(b.LeftPct, width)
	length = cells(b.WidthPct, width)
	if b.WidthPct > 0 && length == 0 {
		length = 1
	}
	if offset >= width {
		offset = width - 1
	}
	if offset+length > width {
		length = width - offset
	}
	return offset, length
}

func cells(pct float64, width int) int {
	return int(math.Round(pct / 100 * float64(width)))
}

func days(d time.Duration) float64 {
	return float64(d) / float64(day)
}
