package board

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/planboard/internal/domain"
)

// IssueKind classifies a consistency problem in the active task list.
type IssueKind string

const (
	IssueDuplicateID        IssueKind = "duplicate-id"
	IssueUnknownDependency  IssueKind = "unknown-dependency"
	IssueDeletedDependency  IssueKind = "deleted-dependency"
	IssueSelfDependency     IssueKind = "self-dependency"
	IssueCircularDependency IssueKind = "circular-dependency"
)

// Issue is a warning about the task graph. Only duplicate ids block a
// save; the scheduler breaks dependency cycles itself.
type Issue struct {
	Kind    IssueKind     `json:"kind" yaml:"kind"`
	TaskID  domain.TaskID `json:"taskId" yaml:"taskId"`
	Message string        `json:"message" yaml:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.TaskID, i.Message)
}

// Validate checks the active tasks for duplicate ids, dangling or
// self-referencing dependencies and dependency cycles.
func (s *Store) Validate() []Issue {
	active := s.Active()
	var issues []Issue

	seen := make(map[domain.TaskID]bool, len(active))
	for _, t := range active {
		if seen[t.ID] {
			issues = append(issues, Issue{
				Kind:    IssueDuplicateID,
				TaskID:  t.ID,
				Message: fmt.Sprintf("id %q is used by more than one task", t.ID),
			})
		}
		seen[t.ID] = true
	}

	graph := make(map[domain.TaskID][]domain.TaskID, len(active))
	for _, t := range active {
		for _, dep := range t.Dependencies {
			switch {
			case dep == t.ID:
				issues = append(issues, Issue{
					Kind:    IssueSelfDependency,
					TaskID:  t.ID,
					Message: "task depends on itself",
				})
			case seen[dep]:
				graph[t.ID] = append(graph[t.ID], dep)
			case s.IsDeleted(dep):
				issues = append(issues, Issue{
					Kind:    IssueDeletedDependency,
					TaskID:  t.ID,
					Message: fmt.Sprintf("dependency %q is marked for deletion", dep),
				})
			default:
				issues = append(issues, Issue{
					Kind:    IssueUnknownDependency,
					TaskID:  t.ID,
					Message: fmt.Sprintf("dependency %q does not exist", dep),
				})
			}
		}
	}

	order := make([]domain.TaskID, 0, len(active))
	for _, t := range active {
		order = append(order, t.ID)
	}
	return append(issues, findCycles(order, graph)...)
}

// findCycles reports each dependency cycle once, starting the walk from
// tasks in collection order.
func findCycles(order []domain.TaskID, graph map[domain.TaskID][]domain.TaskID) []Issue {
	visited := make(map[domain.TaskID]bool)
	recStack := make(map[domain.TaskID]bool)
	var issues []Issue

	var visit func(id domain.TaskID, path []domain.TaskID)
	visit = func(id domain.TaskID, path []domain.TaskID) {
		visited[id] = true
		recStack[id] = true
		path = append(path, id)

		for _, dep := range graph[id] {
			if !visited[dep] {
				visit(dep, path)
				continue
			}
			if recStack[dep] {
				issues = append(issues, Issue{
					Kind:    IssueCircularDependency,
					TaskID:  dep,
					Message: "circular dependency: " + cyclePath(path, dep),
				})
			}
		}

		recStack[id] = false
	}

	for _, id := range order {
		if !visited[id] {
			visit(id, nil)
		}
	}
	return issues
}

func cyclePath(path []domain.TaskID, back domain.TaskID) string {
	start := 0
	for i, id := range path {
		if id == back {
			start = i
			break
		}
	}
	parts := make([]string, 0, len(path)-start+1)
	for _, id := range path[start:] {
		parts = append(parts, string(id))
	}
	parts = append(parts, string(back))
	return strings.Join(parts, " -> ")
}
