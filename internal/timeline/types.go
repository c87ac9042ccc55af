// Package timeline projects scheduled tasks onto a proportional horizontal
// scale and places the hover tooltip of the Gantt view.
package timeline

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// dateLayouts are tried in order when decoding start and end dates.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate parses an RFC 3339 timestamp, a zone-less ISO timestamp or a
// plain YYYY-MM-DD date. Zone-less values are taken as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// ScheduledTask is one entry of a timeline snapshot.
type ScheduledTask struct {
	ID           string    `json:"id" yaml:"id"`
	Title        string    `json:"title" yaml:"title"`
	Start        time.Time `json:"start" yaml:"start"`
	End          time.Time `json:"end" yaml:"end"`
	Progress     float64   `json:"progress" yaml:"progress"`
	Dependencies []string  `json:"dependencies" yaml:"dependencies"`
	Resources    []string  `json:"resources" yaml:"resources"`
}

type scheduledTaskWire struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Start        string   `json:"start"`
	End          string   `json:"end"`
	Progress     float64  `json:"progress"`
	Dependencies []string `json:"dependencies"`
	Resources    []string `json:"resources"`
}

// UnmarshalJSON accepts the date forms understood by ParseDate.
func (t *ScheduledTask) UnmarshalJSON(data []byte) error {
	var w scheduledTaskWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	start, err := ParseDate(w.Start)
	if err != nil {
		return fmt.Errorf("task %s start: %w", w.ID, err)
	}
	end, err := ParseDate(w.End)
	if err != nil {
		return fmt.Errorf("task %s end: %w", w.ID, err)
	}
	if end.Before(start) {
		return fmt.Errorf("task %s ends before it starts", w.ID)
	}

	*t = ScheduledTask{
		ID:           w.ID,
		Title:        w.Title,
		Start:        start,
		End:          end,
		Progress:     w.Progress,
		Dependencies: w.Dependencies,
		Resources:    w.Resources,
	}
	return nil
}

// Snapshot is the complete timeline as served by the scheduler service. A new
// snapshot replaces the previous one wholesale.
type Snapshot struct {
	Tasks        []ScheduledTask `json:"tasks" yaml:"tasks"`
	ProjectStart string          `json:"projectStart,omitempty" yaml:"projectStart,omitempty"`
	ProjectEnd   string          `json:"projectEnd,omitempty" yaml:"projectEnd,omitempty"`
}

// Empty reports whether the snapshot has nothing to project.
func (s Snapshot) Empty() bool {
	return len(s.Tasks) == 0
}
