// Package board holds the editable state of a planning session: the task
// collection, the pending deletions and the resource set.
package board

import (
	"strings"

	"github.com/felixgeelhaar/planboard/internal/domain"
)

// Task is a unit of work as exchanged with the scheduler service.
type Task struct {
	ID                domain.TaskID   `json:"id" yaml:"id"`
	Title             string          `json:"title" yaml:"title"`
	Description       string          `json:"description" yaml:"description"`
	BaseReward        float64         `json:"baseReward" yaml:"baseReward"`
	Dependencies      []domain.TaskID `json:"dependencies" yaml:"dependencies"`
	RequiredResources []string        `json:"requiredResources" yaml:"requiredResources"`
	RequiredTime      int             `json:"requiredTime" yaml:"requiredTime"`
	RewardDecayFactor float64         `json:"rewardDecayFactor" yaml:"rewardDecayFactor"`
}

// Clone returns a deep copy with non-nil slices.
func (t Task) Clone() Task {
	out := t
	out.Dependencies = append(make([]domain.TaskID, 0, len(t.Dependencies)), t.Dependencies...)
	out.RequiredResources = append(make([]string, 0, len(t.RequiredResources)), t.RequiredResources...)
	return out
}

// DependsOn reports whether id is among the task's dependencies.
func (t Task) DependsOn(id domain.TaskID) bool {
	for _, dep := range t.Dependencies {
		if dep == id {
			return true
		}
	}
	return false
}

// quickAddable reports whether the quick-add path accepts the task.
func (t Task) quickAddable() bool {
	return strings.TrimSpace(t.Title) != "" && t.BaseReward > 0
}

// Payload is the body of a project save: the active tasks and the resource set.
type Payload struct {
	Tasks     []Task   `json:"tasks" yaml:"tasks"`
	Resources []string `json:"resources" yaml:"resources"`
}

// ProjectData is a project as returned by the scheduler service. Resources
// may be absent.
type ProjectData struct {
	Resources []string `json:"resources,omitempty" yaml:"resources"`
	Tasks     []Task   `json:"tasks" yaml:"tasks"`
}

// ParseList splits a comma-separated form value into trimmed, non-empty items.
func ParseList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseIDList is ParseList for dependency ids.
func ParseIDList(s string) []domain.TaskID {
	items := ParseList(s)
	out := make([]domain.TaskID, len(items))
	for i, item := range items {
		out[i] = domain.TaskID(item)
	}
	return out
}

// JoinIDs renders ids as a comma-separated form value.
func JoinIDs(ids []domain.TaskID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, ", ")
}
