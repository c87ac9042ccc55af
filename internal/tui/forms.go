package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/felixgeelhaar/planboard/internal/board"
	"github.com/felixgeelhaar/planboard/internal/domain"
)

type formMode int

const (
	formAdd formMode = iota
	formEdit
	formReload
)

// taskFields holds the raw form values. The form binds to these pointers,
// so taskFields is always used by pointer.
type taskFields struct {
	ID           domain.TaskID
	Title        string
	Description  string
	BaseReward   string
	RequiredTime string
	DecayFactor  string
	Dependencies string
	Resources    string
}

func fieldsFromTask(t board.Task) *taskFields {
	return &taskFields{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		BaseReward:   formatNumber(t.BaseReward),
		RequiredTime: strconv.Itoa(t.RequiredTime),
		DecayFactor:  formatNumber(t.RewardDecayFactor),
		Dependencies: board.JoinIDs(t.Dependencies),
		Resources:    strings.Join(t.RequiredResources, ", "),
	}
}

// Task converts the fields into a task. Unparseable numbers become 0,
// which the quick-add path then rejects for the reward.
func (f *taskFields) Task() board.Task {
	reward, _ := strconv.ParseFloat(strings.TrimSpace(f.BaseReward), 64)
	decay, _ := strconv.ParseFloat(strings.TrimSpace(f.DecayFactor), 64)
	days, _ := strconv.Atoi(strings.TrimSpace(f.RequiredTime))
	return board.Task{
		ID:                f.ID,
		Title:             strings.TrimSpace(f.Title),
		Description:       f.Description,
		BaseReward:        reward,
		Dependencies:      board.ParseIDList(f.Dependencies),
		RequiredResources: board.ParseList(f.Resources),
		RequiredTime:      days,
		RewardDecayFactor: decay,
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func validateNumber(allowEmpty bool) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" && allowEmpty {
			return nil
		}
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return fmt.Errorf("enter a number")
		}
		return nil
	}
}

func validateInt(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if n, err := strconv.Atoi(s); err != nil || n < 0 {
		return fmt.Errorf("enter a whole number of days")
	}
	return nil
}

// newTaskForm builds the quick-add or edit form for f.
func newTaskForm(mode formMode, f *taskFields) *huh.Form {
	title := "Add task " + f.ID.String()
	if mode == formEdit {
		title = "Edit task " + f.ID.String()
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&f.Title),
			huh.NewText().
				Title("Description").
				Description("Markdown").
				Lines(3).
				Value(&f.Description),
			huh.NewInput().
				Title("Base reward").
				Value(&f.BaseReward).
				Validate(validateNumber(mode == formAdd)),
			huh.NewInput().
				Title("Required time (days)").
				Value(&f.RequiredTime).
				Validate(validateInt),
			huh.NewInput().
				Title("Reward decay factor").
				Value(&f.DecayFactor).
				Validate(validateNumber(true)),
			huh.NewInput().
				Title("Dependencies").
				Description("Comma-separated task ids, e.g. T1, T3").
				Value(&f.Dependencies),
			huh.NewInput().
				Title("Required resources").
				Description("Comma-separated").
				Value(&f.Resources),
		).Title(title).Description("Enter to continue • Esc to cancel"),
	).WithShowHelp(false)
}

// newReloadForm asks before discarding unsaved changes.
func newReloadForm(confirmed *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Discard unsaved changes and reload the project?").
				Affirmative("Reload").
				Negative("Keep editing").
				Value(confirmed),
		),
	).WithShowHelp(false)
}

func idStrings(ids []domain.TaskID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
