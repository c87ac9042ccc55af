package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/planboard/internal/board"
)

func (m Model) loadProject() tea.Cmd {
	ctx, remote := m.ctx, m.remote
	return func() tea.Msg {
		data, err := remote.GetProject(ctx)
		return projectLoadedMsg{data: data, err: err}
	}
}

func (m Model) loadGraph() tea.Cmd {
	ctx, remote := m.ctx, m.remote
	return func() tea.Msg {
		g, err := remote.FetchGraph(ctx)
		return graphLoadedMsg{graph: g, err: err}
	}
}

func (m Model) loadTimeline() tea.Cmd {
	ctx, remote := m.ctx, m.remote
	return func() tea.Msg {
		snap, err := remote.FetchTimeline(ctx)
		return timelineLoadedMsg{snapshot: snap, err: err}
	}
}

// save runs the save sequence off the update loop. The store is finalized
// in Update when the result arrives, so the finalizer here is nil.
func (m Model) save(payload board.Payload) tea.Cmd {
	ctx, saver := m.ctx, m.saver
	return func() tea.Msg {
		outcome, err := saver.Save(ctx, payload, nil)
		return saveDoneMsg{payload: payload, outcome: outcome, err: err}
	}
}

func (m Model) schedule() tea.Cmd {
	ctx, scheduler := m.ctx, m.scheduler
	return func() tea.Msg {
		resp, err := scheduler.Request(ctx)
		return scheduleDoneMsg{resp: resp, err: err}
	}
}

func expireNotification(seq int, ttl time.Duration) tea.Cmd {
	return tea.Tick(ttl, func(time.Time) tea.Msg {
		return notificationExpiredMsg{seq: seq}
	})
}

// refreshArtifacts re-fetches the views whose refresh token moved.
func (m *Model) refreshArtifacts() tea.Cmd {
	var cmds []tea.Cmd
	if m.tokens.Graph.Changed(m.graphSeen) {
		m.graphSeen = m.tokens.Graph.Value()
		m.graphLoading = true
		cmds = append(cmds, m.loadGraph())
	}
	if m.tokens.Timeline.Changed(m.timelineSeen) {
		m.timelineSeen = m.tokens.Timeline.Value()
		m.timelineLoading = true
		cmds = append(cmds, m.loadTimeline())
	}
	return tea.Batch(cmds...)
}
