package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/felixgeelhaar/planboard/internal/board"
	"github.com/felixgeelhaar/planboard/internal/errors"
)

// Init loads the project and both artifacts
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadProject(), m.loadGraph(), m.loadTimeline(), m.spinner.Tick)
}

// Update handles messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if w := msg.Width - 24; w > 20 {
			m.chartWidth = w
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case projectLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.loadErr = msg.err
			m.logger.LogError(m.ctx, "project load failed", msg.err)
			cmd := m.notify(noticeError, "Failed to load project data: "+summary(msg.err))
			return m, cmd
		}
		m.loadErr = nil
		m.store.Load(*msg.data)
		m.issues = m.store.Validate()
		m.clampCursor()
		return m, nil

	case graphLoadedMsg:
		m.graphLoading = false
		m.graph, m.graphErr = msg.graph, msg.err
		return m, nil

	case timelineLoadedMsg:
		m.timelineLoading = false
		if msg.err != nil {
			m.timelineErr = msg.err
			return m, nil
		}
		m.timelineErr = nil
		m.snapshot = msg.snapshot
		m.resetHover()
		return m, nil

	case saveDoneMsg:
		return m.saveDone(msg)

	case scheduleDoneMsg:
		return m.scheduleDone(msg)

	case notificationExpiredMsg:
		if m.note != nil && m.note.seq == msg.seq {
			m.note = nil
		}
		return m, nil
	}

	if m.form != nil {
		return m.updateForm(msg)
	}
	if k, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(k)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp

	case key.Matches(msg, keys.NextPane):
		m.pane = (m.pane + 1) % Pane(len(paneNames))

	case key.Matches(msg, keys.Up):
		m.move(-1)

	case key.Matches(msg, keys.Down):
		m.move(1)

	case key.Matches(msg, keys.Clear):
		if m.pane == PaneTimeline {
			m.hover.Clear()
		}

	case key.Matches(msg, keys.Add):
		if m.saving {
			cmd := m.notify(noticeWarning, "Save in progress")
			return m, cmd
		}
		m.fields = &taskFields{ID: m.store.NextID(), RequiredTime: "0", DecayFactor: "0"}
		return m.openForm(formAdd, newTaskForm(formAdd, m.fields))

	case key.Matches(msg, keys.Edit):
		t, ok := m.selectedTask()
		if !ok || m.pane != PaneTasks {
			return m, nil
		}
		if m.saving {
			cmd := m.notify(noticeWarning, "Save in progress")
			return m, cmd
		}
		if m.store.IsDeleted(t.ID) {
			cmd := m.notify(noticeWarning, fmt.Sprintf("Task %s is marked for deletion; undelete it first", t.ID))
			return m, cmd
		}
		m.fields = fieldsFromTask(t)
		return m.openForm(formEdit, newTaskForm(formEdit, m.fields))

	case key.Matches(msg, keys.Delete):
		if t, ok := m.selectedTask(); ok && m.pane == PaneTasks && !m.saving {
			m.store.MarkDeleted(t.ID)
			m.issues = m.store.Validate()
			if deps := m.store.Dependents(t.ID); len(deps) > 0 {
				cmd := m.notify(noticeWarning, fmt.Sprintf("Task %s marked for deletion; %s still depend on it", t.ID, board.JoinIDs(deps)))
				return m, cmd
			}
		}

	case key.Matches(msg, keys.Undelete):
		if t, ok := m.selectedTask(); ok && m.pane == PaneTasks && !m.saving {
			m.store.UnmarkDeleted(t.ID)
			m.issues = m.store.Validate()
		}

	case key.Matches(msg, keys.Save):
		if m.saving {
			return m, nil
		}
		m.saving = true
		m.issues = m.store.Validate()
		for _, issue := range m.issues {
			m.logger.WarnContext(m.ctx, "saving with validation issue", "kind", issue.Kind, "task", issue.TaskID, "message", issue.Message)
		}
		return m, tea.Batch(m.save(m.store.Commit()), m.spinner.Tick)

	case key.Matches(msg, keys.Schedule):
		if m.scheduling {
			return m, nil
		}
		m.scheduling = true
		return m, tea.Batch(m.schedule(), m.spinner.Tick)

	case key.Matches(msg, keys.Reload):
		return m.reload()
	}

	return m, nil
}

// move steps the task cursor or, on the timeline, the hovered bar.
func (m *Model) move(delta int) {
	switch m.pane {
	case PaneTasks:
		m.cursor += delta
		m.clampCursor()
	case PaneTimeline:
		if m.snapshot == nil || m.snapshot.Empty() {
			return
		}
		if _, hovered := m.hover.Current(); hovered {
			m.hoverRow += delta
		}
		n := len(m.snapshot.Tasks)
		if m.hoverRow < 0 {
			m.hoverRow = 0
		}
		if m.hoverRow >= n {
			m.hoverRow = n - 1
		}
		m.hover.Enter(m.snapshot.Tasks[m.hoverRow].ID)
	}
}

// resetHover keeps the hover on the same task after a new snapshot, or
// clears it if the task is gone.
func (m *Model) resetHover() {
	id, ok := m.hover.Current()
	if !ok {
		return
	}
	if m.snapshot != nil {
		for i, t := range m.snapshot.Tasks {
			if t.ID == id {
				m.hoverRow = i
				return
			}
		}
	}
	m.hover.Leave(id)
	m.hoverRow = 0
}

func (m Model) reload() (tea.Model, tea.Cmd) {
	switch m.pane {
	case PaneGraph:
		m.graphLoading = true
		return m, m.loadGraph()
	case PaneTimeline:
		m.timelineLoading = true
		return m, m.loadTimeline()
	}

	if m.saving {
		cmd := m.notify(noticeWarning, "Save in progress")
		return m, cmd
	}
	if m.store.Dirty() {
		confirmed := false
		m.confirmed = &confirmed
		return m.openForm(formReload, newReloadForm(m.confirmed))
	}
	m.loading = true
	return m, m.loadProject()
}

func (m Model) openForm(mode formMode, form *huh.Form) (tea.Model, tea.Cmd) {
	m.form = form
	m.formMode = mode
	return m, m.form.Init()
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		return m.submitForm()
	case huh.StateAborted:
		m.form = nil
		return m, nil
	}
	return m, cmd
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	mode := m.formMode
	m.form = nil

	switch mode {
	case formAdd:
		t := m.fields.Task()
		if _, exists := m.store.Task(t.ID); exists {
			cmd := m.notify(noticeError, fmt.Sprintf("Task not added: %s already exists", t.ID))
			return m, cmd
		}
		if !m.store.AddTask(t) {
			cmd := m.notify(noticeError, "Task not added: a title and a positive base reward are required")
			return m, cmd
		}
		m.cursor = m.store.Len() - 1
		m.issues = m.store.Validate()
		cmd := m.notify(noticeSuccess, fmt.Sprintf("Task %s added. Remember to save your changes.", t.ID))
		return m, cmd

	case formEdit:
		t := m.fields.Task()
		if !m.store.UpdateTask(t) {
			cmd := m.notify(noticeError, fmt.Sprintf("Task %s no longer exists", t.ID))
			return m, cmd
		}
		m.issues = m.store.Validate()
		cmd := m.notify(noticeSuccess, fmt.Sprintf("Task %s updated", t.ID))
		return m, cmd

	case formReload:
		if m.confirmed != nil && *m.confirmed {
			m.loading = true
			return m, m.loadProject()
		}
	}
	return m, nil
}

func (m Model) saveDone(msg saveDoneMsg) (tea.Model, tea.Cmd) {
	m.saving = false
	if msg.outcome.Persisted {
		m.store.Finalize(msg.payload)
		m.clampCursor()
		m.issues = m.store.Validate()
	}

	var note tea.Cmd
	switch {
	case msg.err == nil:
		note = m.notify(noticeSuccess, "Project saved successfully")
	case errors.IsPartial(msg.err):
		note = m.notify(noticeWarning, summary(msg.err))
	default:
		note = m.notify(noticeError, summary(msg.err))
	}
	refresh := m.refreshArtifacts()
	return m, tea.Batch(note, refresh)
}

func (m Model) scheduleDone(msg scheduleDoneMsg) (tea.Model, tea.Cmd) {
	m.scheduling = false
	if msg.err != nil {
		cmd := m.notify(noticeError, summary(msg.err))
		return m, cmd
	}

	m.lastResult = msg.resp
	text := "Schedule computed"
	if r := msg.resp.Result; r != nil {
		text = fmt.Sprintf("Schedule computed: %d tasks, total reward %.1f over %.1f days",
			len(r.ScheduledTasks), r.TotalReward, r.TotalTime)
	}
	note := m.notify(noticeSuccess, text)
	refresh := m.refreshArtifacts()
	return m, tea.Batch(note, refresh)
}

// notify replaces the notification and schedules its dismissal.
func (m *Model) notify(kind noticeKind, text string) tea.Cmd {
	m.noteSeq++
	m.note = &notification{kind: kind, text: text, seq: m.noteSeq}
	return expireNotification(m.noteSeq, m.noteTTL)
}

// summary is the one-line text of err for a notification
func summary(err error) string {
	if be, ok := err.(*errors.BoardError); ok {
		return be.Summary()
	}
	return err.Error()
}

var _ tea.Model = Model{}
