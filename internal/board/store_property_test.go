package board

import (
	"reflect"
	"strconv"
	"testing"

	"pgregory.net/rapid"

	"github.com/felixgeelhaar/planboard/internal/domain"
)

var propertyResources = []string{"Developer", "Designer", "QA", "Ops"}

// genTaskID generates ids from a small pool so collisions are common
func genTaskID() *rapid.Generator[domain.TaskID] {
	return rapid.Custom(func(t *rapid.T) domain.TaskID {
		return domain.TaskID("T" + strconv.Itoa(rapid.IntRange(1, 12).Draw(t, "seq")))
	})
}

// genValidTask generates tasks the quick-add path accepts
func genValidTask() *rapid.Generator[Task] {
	return rapid.Custom(func(t *rapid.T) Task {
		return Task{
			ID:                genTaskID().Draw(t, "id"),
			Title:             rapid.StringMatching(`[A-Z][a-z]{0,10}`).Draw(t, "title"),
			BaseReward:        rapid.Float64Range(0.5, 100).Draw(t, "reward"),
			Dependencies:      rapid.SliceOfN(genTaskID(), 0, 3).Draw(t, "deps"),
			RequiredResources: rapid.SliceOfN(rapid.SampledFrom(propertyResources), 0, 3).Draw(t, "resources"),
			RequiredTime:      rapid.IntRange(0, 10).Draw(t, "time"),
		}
	})
}

// genInvalidTask generates tasks with a blank title or a non-positive reward
func genInvalidTask() *rapid.Generator[Task] {
	return rapid.Custom(func(t *rapid.T) Task {
		task := genValidTask().Draw(t, "base")
		task.RequiredResources = append(task.RequiredResources, "Unseen")
		if rapid.Bool().Draw(t, "blank_title") {
			task.Title = rapid.SampledFrom([]string{"", " ", "\t", "   "}).Draw(t, "blank")
		} else {
			task.BaseReward = rapid.Float64Range(-100, 0).Draw(t, "bad_reward")
		}
		return task
	})
}

// genStore builds a store from a loaded project with unique ids
func genStore(t *rapid.T) *Store {
	tasks := rapid.SliceOfNDistinct(genValidTask(), 0, 8, func(task Task) domain.TaskID {
		return task.ID
	}).Draw(t, "tasks")
	s := NewStore()
	s.Load(ProjectData{
		Resources: rapid.SliceOfN(rapid.SampledFrom(propertyResources), 0, 2).Draw(t, "seed"),
		Tasks:     tasks,
	})
	return s
}

func checkStoreInvariants(t *rapid.T, s *Store) {
	for _, task := range s.Active() {
		if s.IsDeleted(task.ID) {
			t.Fatalf("active task %s is marked deleted", task.ID)
		}
	}

	resources := make(map[string]bool)
	for _, r := range s.Resources() {
		resources[r] = true
	}
	for _, task := range s.Tasks() {
		for _, r := range task.RequiredResources {
			if !resources[r] {
				t.Fatalf("resource %q of task %s missing from resource set %v", r, task.ID, s.Resources())
			}
		}
	}
}

// TestStore_InvalidQuickAddLeavesStoreUnchanged tests that rejected tasks change nothing
func TestStore_InvalidQuickAddLeavesStoreUnchanged(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := genStore(t)
		tasks, resources, fingerprint := s.Tasks(), s.Resources(), s.Fingerprint()

		invalid := genInvalidTask().Draw(t, "invalid")
		if s.AddTask(invalid) {
			t.Fatalf("task %+v should be rejected", invalid)
		}

		if !reflect.DeepEqual(tasks, s.Tasks()) {
			t.Fatalf("tasks changed: %v -> %v", tasks, s.Tasks())
		}
		if !reflect.DeepEqual(resources, s.Resources()) {
			t.Fatalf("resources changed: %v -> %v", resources, s.Resources())
		}
		if fingerprint != s.Fingerprint() {
			t.Fatalf("fingerprint changed")
		}
	})
}

// TestStore_DeleteUndeleteRoundTrip tests that undeleting restores the commit payload
func TestStore_DeleteUndeleteRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := genStore(t)
		id := genTaskID().Draw(t, "target")
		if s.IsDeleted(id) {
			t.Skip("target already deleted")
		}
		before := s.Commit()

		s.MarkDeleted(id)
		for _, task := range s.Commit().Tasks {
			if task.ID == id {
				t.Fatalf("deleted task %s still in commit", id)
			}
		}
		s.UnmarkDeleted(id)

		if !reflect.DeepEqual(before, s.Commit()) {
			t.Fatalf("round trip changed the payload: %v -> %v", before, s.Commit())
		}
		if s.Dirty() {
			t.Fatalf("round trip left the store dirty")
		}
	})
}

// TestStore_InvariantsHoldUnderEdits tests the deletion and resource
// invariants across arbitrary edit sequences
func TestStore_InvariantsHoldUnderEdits(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := genStore(t)
		checkStoreInvariants(t, s)

		steps := rapid.IntRange(1, 30).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 4).Draw(t, "op") {
			case 0:
				s.AddTask(genValidTask().Draw(t, "add"))
			case 1:
				s.AddTask(genInvalidTask().Draw(t, "add_invalid"))
			case 2:
				s.UpdateTask(genValidTask().Draw(t, "update"))
			case 3:
				s.MarkDeleted(genTaskID().Draw(t, "delete"))
			case 4:
				s.UnmarkDeleted(genTaskID().Draw(t, "undelete"))
			}
			checkStoreInvariants(t, s)
		}

		seen := make(map[domain.TaskID]bool)
		for _, task := range s.Commit().Tasks {
			if seen[task.ID] {
				t.Fatalf("commit carries duplicate id %s", task.ID)
			}
			seen[task.ID] = true
		}
	})
}
