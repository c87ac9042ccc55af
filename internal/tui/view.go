package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/planboard/internal/api"
	"github.com/felixgeelhaar/planboard/internal/board"
	"github.com/felixgeelhaar/planboard/internal/errors"
	"github.com/felixgeelhaar/planboard/internal/schedule"
	"github.com/felixgeelhaar/planboard/internal/timeline"
)

// View renders the board
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.form != nil {
		return m.form.View()
	}

	sections := []string{m.renderHeader()}
	if n := m.renderNotification(); n != "" {
		sections = append(sections, n)
	}
	sections = append(sections, m.renderTabs(), m.renderPane())
	if len(m.issues) > 0 && m.pane == PaneTasks {
		sections = append(sections, m.renderIssues())
	}
	sections = append(sections, m.help.View(keys))
	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("planboard"))

	active := len(m.store.Active())
	fmt.Fprintf(&b, "  %s", m.styles.Subtitle.Render(fmt.Sprintf("%d tasks, %d resources", active, len(m.store.Resources()))))
	if n := m.store.DeletedCount(); n > 0 {
		fmt.Fprintf(&b, "  %s", m.styles.Muted.Render(fmt.Sprintf("%d marked for deletion", n)))
	}
	if m.store.Dirty() {
		fmt.Fprintf(&b, "  %s", m.styles.Dirty.Render("● unsaved changes"))
	}
	if m.saving {
		fmt.Fprintf(&b, "  %s Saving...", m.spinner.View())
	}
	if m.scheduling {
		fmt.Fprintf(&b, "  %s Scheduling...", m.spinner.View())
	}
	return b.String()
}

func (m Model) renderNotification() string {
	if m.note == nil {
		return ""
	}
	switch m.note.kind {
	case noticeError:
		return m.styles.Error.Render("✗ " + m.note.text)
	case noticeWarning:
		return m.styles.Warning.Render("! " + m.note.text)
	default:
		return m.styles.Success.Render("✓ " + m.note.text)
	}
}

func (m Model) renderTabs() string {
	tabs := make([]string, len(paneNames))
	for i, name := range paneNames {
		if Pane(i) == m.pane {
			tabs[i] = m.styles.ActiveTab.Render(name)
		} else {
			tabs[i] = m.styles.Tab.Render(name)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderPane() string {
	var body string
	switch m.pane {
	case PaneTasks:
		body = m.renderTasks()
	case PaneGraph:
		body = m.isolate("dependency graph", m.renderGraph)
	case PaneTimeline:
		body = m.isolate("timeline", m.renderTimeline)
	}
	return m.styles.ActivePane.Render(body)
}

// isolate renders a pane, replacing a panic with an inline error so the
// rest of the board still draws.
func (m Model) isolate(name string, render func() string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			err := errors.New(errors.ErrCodeTimelineRender, fmt.Sprintf("%s could not be rendered: %v", name, r))
			m.logger.LogError(m.ctx, "pane render failed", err)
			out = m.styles.Error.Render(err.Message) + "\n" + m.styles.Muted.Render("Press r to reload")
		}
	}()
	return render()
}

func (m Model) renderTasks() string {
	if m.loading {
		return m.spinner.View() + " Loading project..."
	}
	if m.loadErr != nil {
		return m.styles.Error.Render("Failed to load project data: "+summary(m.loadErr)) + "\n" +
			m.styles.Muted.Render("Check that the scheduler service is running, then press r to retry")
	}

	tasks := m.store.Tasks()
	if len(tasks) == 0 {
		return m.styles.Muted.Render("No tasks yet. Press a to add one.")
	}

	lines := make([]string, 0, len(tasks)+8)
	for i, t := range tasks {
		cursor := "  "
		if i == m.cursor {
			cursor = m.styles.Selected.Render("> ")
		}

		reward := m.styles.rewardStyle(t.BaseReward).Render(fmt.Sprintf("%g pts", t.BaseReward))
		line := fmt.Sprintf("%-4s %-28s %s  %dd", t.ID, truncate(t.Title, 28), reward, t.RequiredTime)
		if len(t.Dependencies) > 0 {
			line += m.styles.Muted.Render("  after " + strings.Join(idStrings(t.Dependencies), ", "))
		}
		if m.store.IsDeleted(t.ID) {
			line = m.styles.Deleted.Render(fmt.Sprintf("%-4s %-28s", t.ID, truncate(t.Title, 28))) + m.styles.Muted.Render("  deleted, u to restore")
		}
		lines = append(lines, cursor+line)
	}

	if t, ok := m.selectedTask(); ok {
		lines = append(lines, "", m.renderDetail(t))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderDetail(t board.Task) string {
	var b strings.Builder
	b.WriteString(m.styles.Key.Render(t.Title))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Reward %g, decay %g, %d days", t.BaseReward, t.RewardDecayFactor, t.RequiredTime)
	if len(t.RequiredResources) > 0 {
		fmt.Fprintf(&b, ", needs %s", strings.Join(t.RequiredResources, ", "))
	}
	if desc := renderMarkdown(t.Description, m.detailWidth()); desc != "" {
		b.WriteString("\n")
		b.WriteString(desc)
	}
	return b.String()
}

func (m Model) detailWidth() int {
	if m.width > 8 {
		return m.width - 8
	}
	return 72
}

func (m Model) renderGraph() string {
	if m.graphLoading {
		return m.spinner.View() + " Loading dependency graph..."
	}
	if m.graphErr != nil {
		return m.styles.Error.Render("Error loading dependency graph: "+summary(m.graphErr)) + "\n" +
			m.styles.Muted.Render("Press r to retry")
	}

	switch g := m.graph.(type) {
	case api.GraphImage:
		return fmt.Sprintf("Dependency graph image (%d bytes).\n%s", len(g.PNG),
			m.styles.Muted.Render("Export it with: planboard graph --out graph.png"))
	case api.GraphTable:
		if len(g.Nodes) == 0 {
			return m.styles.Muted.Render("The dependency graph is empty. Save the project to generate it.")
		}
		lines := []string{m.styles.Key.Render(fmt.Sprintf("%-6s %-28s %s", "Task", "Title", "Depends on"))}
		for _, n := range g.Nodes {
			deps := g.DependenciesOf(n.ID)
			dep := m.styles.Muted.Render("none")
			if len(deps) > 0 {
				dep = strings.Join(deps, ", ")
			}
			lines = append(lines, fmt.Sprintf("%-6s %-28s %s", n.ID, truncate(n.Label, 28), dep))
		}
		return strings.Join(lines, "\n")
	default:
		return m.styles.Muted.Render("No dependency graph yet. Save the project to generate it.")
	}
}

func (m Model) renderTimeline() string {
	if m.timelineLoading {
		return m.spinner.View() + " Loading timeline..."
	}
	if m.timelineErr != nil {
		return m.styles.Error.Render("Error loading timeline: "+summary(m.timelineErr)) + "\n" +
			m.styles.Muted.Render("Press r to retry")
	}
	if m.snapshot == nil || m.snapshot.Empty() {
		return m.styles.Muted.Render("No scheduled tasks to display. Press S to compute a schedule.")
	}

	proj, err := timeline.Project(m.snapshot.Tasks)
	if err != nil {
		return m.styles.Muted.Render(err.Error())
	}

	hovered, _ := m.hover.Current()
	chart := timeline.NewRenderer(m.chartWidth, m.tooltipWidth).Render(proj, hovered)

	if m.lastResult == nil || m.lastResult.Result == nil {
		return chart
	}
	return chart + "\n\n" + m.renderScheduleSummary(m.lastResult.Result)
}

func (m Model) renderScheduleSummary(r *api.ScheduleResult) string {
	lines := []string{m.styles.Key.Render(fmt.Sprintf("Total reward %.1f, total time %.1f days", r.TotalReward, r.TotalTime))}
	for _, st := range schedule.ByPriority(r) {
		line := fmt.Sprintf("%-6s %-8s reward %.1f", st.ID, schedule.PriorityOf(st), st.ActualReward)
		if st.LLMAnalysis != nil && len(st.LLMAnalysis.PotentialRisks) > 0 {
			line += m.styles.Muted.Render("  risks: " + strings.Join(st.LLMAnalysis.PotentialRisks, "; "))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderIssues() string {
	lines := []string{m.styles.Warning.Render(fmt.Sprintf("%d warning(s); saving is still allowed", len(m.issues)))}
	for _, issue := range m.issues {
		lines = append(lines, m.styles.Muted.Render("  "+issue.String()))
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
