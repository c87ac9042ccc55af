package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/planboard/internal/domain"
)

func task(id, title string, reward float64, resources ...string) Task {
	return Task{
		ID:                domain.TaskID(id),
		Title:             title,
		BaseReward:        reward,
		RequiredResources: resources,
		RequiredTime:      2,
	}
}

func ids(tasks []Task) []domain.TaskID {
	out := make([]domain.TaskID, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestAddTaskRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		task Task
	}{
		{"empty title", task("T1", "", 10)},
		{"blank title", task("T1", "   ", 10)},
		{"zero reward", task("T1", "Design", 0)},
		{"negative reward", task("T1", "Design", -5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			s.AddTask(task("T9", "Existing", 1, "alice"))

			before := s.Tasks()
			beforeRes := s.Resources()

			assert.False(t, s.AddTask(tt.task))
			assert.Equal(t, before, s.Tasks())
			assert.Equal(t, beforeRes, s.Resources())
		})
	}
}

func TestAddTaskUnionsResources(t *testing.T) {
	s := NewStore()
	s.SeedResources("carol")

	require.True(t, s.AddTask(task("T1", "Design", 10, "alice", "bob")))
	require.True(t, s.AddTask(task("T2", "Build", 20, "bob", "dave")))

	assert.Equal(t, []string{"carol", "alice", "bob", "dave"}, s.Resources())
}

func TestAddTaskAssignsID(t *testing.T) {
	s := NewStore()
	require.True(t, s.AddTask(task("T4", "First", 1)))
	require.True(t, s.AddTask(task("", "Second", 1)))

	got, ok := s.Task("T5")
	require.True(t, ok)
	assert.Equal(t, "Second", got.Title)
}

func TestAddTaskRejectsDuplicateAndMalformedIDs(t *testing.T) {
	s := NewStore()
	require.True(t, s.AddTask(task("T1", "Design", 10, "alice")))

	assert.False(t, s.AddTask(task("T1", "Design again", 5, "bob")))
	assert.False(t, s.AddTask(task("task-2", "Build", 5, "bob")))

	payload := s.Commit()
	require.Len(t, payload.Tasks, 1)
	assert.Equal(t, "Design", payload.Tasks[0].Title)
	assert.Equal(t, []string{"alice"}, s.Resources())

	s.MarkDeleted("T1")
	assert.False(t, s.AddTask(task("T1", "Replacement", 5)), "a pending deletion still owns its id")
}

func TestLoadSeedsResources(t *testing.T) {
	s := NewStore()
	s.Load(ProjectData{
		Resources: []string{"dev", "qa"},
		Tasks:     []Task{task("T1", "Design", 10, "ops", "dev")},
	})
	assert.Equal(t, []string{"dev", "qa", "ops"}, s.Resources())
	assert.False(t, s.Dirty())
}

func TestDependents(t *testing.T) {
	s := NewStore()
	a := task("T1", "Design", 10)
	b := task("T2", "Build", 10)
	b.Dependencies = []domain.TaskID{"T1"}
	c := task("T3", "Ship", 10)
	c.Dependencies = []domain.TaskID{"T1", "T2"}
	s.Load(ProjectData{Tasks: []Task{a, b, c}})

	assert.Equal(t, []domain.TaskID{"T2", "T3"}, s.Dependents("T1"))
	assert.Empty(t, s.Dependents("T3"))

	s.MarkDeleted("T2")
	assert.Equal(t, []domain.TaskID{"T3"}, s.Dependents("T1"), "deleted tasks are not dependents")
}

func TestUpdateTask(t *testing.T) {
	s := NewStore()
	s.AddTask(task("T1", "Design", 10, "alice"))

	updated := task("T1", "Design v2", 15, "erin")
	assert.True(t, s.UpdateTask(updated))

	got, _ := s.Task("T1")
	assert.Equal(t, "Design v2", got.Title)
	assert.Equal(t, []string{"alice", "erin"}, s.Resources(), "resources never shrink")

	assert.False(t, s.UpdateTask(task("T99", "Ghost", 1, "zed")))
	assert.NotContains(t, s.Resources(), "zed")
	assert.Equal(t, 1, s.Len())
}

func TestStoreReturnsCopies(t *testing.T) {
	s := NewStore()
	s.AddTask(task("T1", "Design", 10, "alice"))

	got, _ := s.Task("T1")
	got.RequiredResources[0] = "mallory"
	got.Title = "changed"

	again, _ := s.Task("T1")
	assert.Equal(t, "Design", again.Title)
	assert.Equal(t, []string{"alice"}, again.RequiredResources)
}

func TestNextID(t *testing.T) {
	for _, order := range [][]string{{"T1", "T3", "T7"}, {"T7", "T3", "T1"}, {"T3", "T7", "T1"}} {
		s := NewStore()
		for _, id := range order {
			require.True(t, s.AddTask(task(id, "x", 1)))
		}
		assert.Equal(t, domain.TaskID("T8"), s.NextID(), "order %v", order)
	}

	s := NewStore()
	assert.Equal(t, domain.TaskID("T1"), s.NextID())

	s.Load(ProjectData{Tasks: []Task{task("X", "a", 1), task("T2", "b", 1), task("Tabc", "c", 1)}})
	assert.Equal(t, domain.TaskID("T3"), s.NextID())

	s.MarkDeleted("T2")
	assert.Equal(t, domain.TaskID("T3"), s.NextID(), "deleted tasks still reserve their id")
}

func TestDeleteUndeleteRoundTrip(t *testing.T) {
	s := NewStore()
	s.AddTask(task("T1", "Design", 10, "alice"))
	s.AddTask(task("T2", "Build", 20, "bob"))
	before := s.Commit()

	s.MarkDeleted("T1")
	s.MarkDeleted("T1")
	assert.True(t, s.IsDeleted("T1"))
	assert.Equal(t, []domain.TaskID{"T2"}, ids(s.Commit().Tasks))
	assert.Equal(t, 2, s.Len(), "collection is untouched until finalize")

	s.UnmarkDeleted("T1")
	s.UnmarkDeleted("T1")
	assert.False(t, s.IsDeleted("T1"))
	assert.Equal(t, before, s.Commit())
}

func TestCommitExcludesDeletedAndKeepsResources(t *testing.T) {
	s := NewStore()
	s.AddTask(task("T1", "Design", 10, "alice"))
	s.AddTask(task("T2", "Build", 20, "bob"))
	s.AddTask(task("T3", "Ship", 30, "carol"))
	s.MarkDeleted("T2")
	s.MarkDeleted("T404")

	p := s.Commit()
	for _, tk := range p.Tasks {
		assert.False(t, s.IsDeleted(tk.ID))
	}
	assert.Equal(t, []domain.TaskID{"T1", "T3"}, ids(p.Tasks))

	resources := make(map[string]bool)
	for _, r := range p.Resources {
		resources[r] = true
	}
	for _, tk := range s.Tasks() {
		for _, r := range tk.RequiredResources {
			assert.True(t, resources[r], "resource %q missing", r)
		}
	}
}

func TestCommitNeverNil(t *testing.T) {
	p := NewStore().Commit()
	assert.NotNil(t, p.Tasks)
	assert.NotNil(t, p.Resources)

	s := NewStore()
	s.AddTask(Task{ID: "T1", Title: "bare", BaseReward: 1})
	got := s.Commit().Tasks[0]
	assert.NotNil(t, got.Dependencies)
	assert.NotNil(t, got.RequiredResources)
}

func TestFinalize(t *testing.T) {
	s := NewStore()
	s.AddTask(task("T1", "Design", 10, "alice"))
	s.AddTask(task("T2", "Build", 20, "bob"))
	s.MarkDeleted("T1")

	p := s.Commit()
	s.Finalize(p)

	assert.Equal(t, []domain.TaskID{"T2"}, ids(s.Tasks()))
	assert.Equal(t, 0, s.DeletedCount())
	assert.False(t, s.IsDeleted("T1"))
	assert.Contains(t, s.Resources(), "alice", "resources survive committed deletions")
	assert.False(t, s.Dirty())
}

func TestLoad(t *testing.T) {
	s := NewStore()
	s.AddTask(task("T1", "Old", 1, "old"))
	s.MarkDeleted("T1")

	s.Load(ProjectData{
		Tasks: []Task{task("T5", "Fresh", 3, "alice")},
	})

	assert.Equal(t, []domain.TaskID{"T5"}, ids(s.Tasks()))
	assert.Equal(t, []string{"alice"}, s.Resources(), "missing resources are treated as empty")
	assert.Equal(t, 0, s.DeletedCount())
	assert.False(t, s.Dirty())

	s.Load(ProjectData{Resources: []string{"bob"}, Tasks: []Task{task("T1", "x", 1, "alice")}})
	assert.Equal(t, []string{"bob", "alice"}, s.Resources())
}

func TestDirty(t *testing.T) {
	s := NewStore()
	assert.False(t, s.Dirty())

	s.AddTask(task("T1", "Design", 10))
	assert.True(t, s.Dirty())

	s.Finalize(s.Commit())
	assert.False(t, s.Dirty())

	s.MarkDeleted("T1")
	assert.True(t, s.Dirty())
	s.UnmarkDeleted("T1")
	assert.False(t, s.Dirty())
}

func TestParseList(t *testing.T) {
	assert.Equal(t, []string{"alice", "bob"}, ParseList(" alice, ,bob ,"))
	assert.Empty(t, ParseList(""))
	assert.NotNil(t, ParseList(""))
	assert.Equal(t, []domain.TaskID{"T1", "T2"}, ParseIDList("T1,T2"))
	assert.Equal(t, "T1, T2", JoinIDs([]domain.TaskID{"T1", "T2"}))
}
