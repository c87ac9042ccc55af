package tui

import (
	"github.com/felixgeelhaar/planboard/internal/api"
	"github.com/felixgeelhaar/planboard/internal/board"
	"github.com/felixgeelhaar/planboard/internal/gateway"
	"github.com/felixgeelhaar/planboard/internal/timeline"
)

// projectLoadedMsg carries the result of GET /projects
type projectLoadedMsg struct {
	data *board.ProjectData
	err  error
}

// graphLoadedMsg carries the dependency-graph artifact
type graphLoadedMsg struct {
	graph api.Graph
	err   error
}

// timelineLoadedMsg carries the gantt-chart snapshot
type timelineLoadedMsg struct {
	snapshot *timeline.Snapshot
	err      error
}

// saveDoneMsg ends a save. payload is what was sent.
type saveDoneMsg struct {
	payload board.Payload
	outcome gateway.SaveOutcome
	err     error
}

// scheduleDoneMsg ends a schedule request
type scheduleDoneMsg struct {
	resp *api.ScheduleResponse
	err  error
}

// notificationExpiredMsg dismisses the notification with the given seq
type notificationExpiredMsg struct {
	seq int
}
