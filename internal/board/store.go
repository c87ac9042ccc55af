package board

import (
	"github.com/felixgeelhaar/planboard/internal/domain"
)

// Store is the single source of truth for a board session. It is not safe
// for concurrent use; the board mutates it from its update loop only.
//
// Deletions are soft: MarkDeleted records the id and Commit leaves the task
// out of the payload, but the collection itself only changes in Finalize.
type Store struct {
	tasks     []Task
	deleted   *orderedSet
	resources *orderedSet
	savedHash string
}

// NewStore returns an empty store.
func NewStore() *Store {
	s := &Store{
		deleted:   newOrderedSet(),
		resources: newOrderedSet(),
	}
	s.savedHash = s.Fingerprint()
	return s
}

// AddTask appends t when it has a non-blank title and a positive base
// reward, and reports whether it did. An empty id is replaced by NextID; an
// explicit id must be well formed and not already in the collection.
// Rejected tasks leave the store unchanged.
func (s *Store) AddTask(t Task) bool {
	if !t.quickAddable() {
		return false
	}
	t = t.Clone()
	switch {
	case t.ID == "":
		t.ID = s.NextID()
	case t.ID.Validate() != nil, s.indexOf(t.ID) >= 0:
		return false
	}
	s.tasks = append(s.tasks, t)
	s.resources.add(t.RequiredResources...)
	return true
}

// UpdateTask replaces the task with the same id and reports whether one
// existed.
func (s *Store) UpdateTask(t Task) bool {
	i := s.indexOf(t.ID)
	if i < 0 {
		return false
	}
	t = t.Clone()
	s.tasks[i] = t
	s.resources.add(t.RequiredResources...)
	return true
}

// MarkDeleted excludes id from the next commit. Idempotent.
func (s *Store) MarkDeleted(id domain.TaskID) {
	s.deleted.add(string(id))
}

// UnmarkDeleted restores id into the active list. Idempotent.
func (s *Store) UnmarkDeleted(id domain.TaskID) {
	s.deleted.remove(string(id))
}

// IsDeleted reports whether id is pending deletion.
func (s *Store) IsDeleted(id domain.TaskID) bool {
	return s.deleted.has(string(id))
}

// DeletedCount returns the number of ids pending deletion.
func (s *Store) DeletedCount() int {
	return s.deleted.len()
}

// Tasks returns every task in the collection, including those marked deleted.
func (s *Store) Tasks() []Task {
	out := make([]Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out
}

// Active returns the tasks not marked deleted, in collection order.
func (s *Store) Active() []Task {
	out := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if !s.deleted.has(string(t.ID)) {
			out = append(out, t.Clone())
		}
	}
	return out
}

// Task returns the task with the given id.
func (s *Store) Task(id domain.TaskID) (Task, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.tasks[i].Clone(), true
	}
	return Task{}, false
}

// Dependents returns the active tasks that depend on id, in collection order.
func (s *Store) Dependents(id domain.TaskID) []domain.TaskID {
	var out []domain.TaskID
	for _, t := range s.tasks {
		if t.ID != id && !s.deleted.has(string(t.ID)) && t.DependsOn(id) {
			out = append(out, t.ID)
		}
	}
	return out
}

// Len returns the size of the collection, including deleted tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// Resources returns the resource set in insertion order.
func (s *Store) Resources() []string {
	return s.resources.list()
}

// SeedResources adds resources that do not come from task editing.
func (s *Store) SeedResources(names ...string) {
	s.resources.add(names...)
}

// NextID returns the id for a new task. Deleted tasks still count, so an
// id is not reused before the deletion is committed.
func (s *Store) NextID() domain.TaskID {
	ids := make([]domain.TaskID, len(s.tasks))
	for i, t := range s.tasks {
		ids[i] = t.ID
	}
	return domain.NextTaskID(ids)
}

// Commit returns the save payload: the active tasks and the resource set.
// Both slices are non-nil.
func (s *Store) Commit() Payload {
	return Payload{
		Tasks:     s.Active(),
		Resources: s.resources.list(),
	}
}

// Finalize applies an acknowledged save: the collection becomes exactly the
// committed tasks and pending deletions are cleared.
func (s *Store) Finalize(p Payload) {
	s.tasks = make([]Task, len(p.Tasks))
	for i, t := range p.Tasks {
		s.tasks[i] = t.Clone()
		s.resources.add(t.RequiredResources...)
	}
	s.resources.add(p.Resources...)
	s.deleted.clear()
	s.savedHash = s.Fingerprint()
}

// Load replaces the session with a freshly fetched project. Tasks are kept
// as received, duplicates included; Validate reports them and the save
// sequence refuses them.
func (s *Store) Load(data ProjectData) {
	s.tasks = make([]Task, len(data.Tasks))
	s.resources = newOrderedSet()
	s.SeedResources(data.Resources...)
	for i, t := range data.Tasks {
		s.tasks[i] = t.Clone()
		s.resources.add(t.RequiredResources...)
	}
	s.deleted.clear()
	s.savedHash = s.Fingerprint()
}

// Dirty reports whether the commit payload differs from the last loaded or
// saved state.
func (s *Store) Dirty() bool {
	return s.Fingerprint() != s.savedHash
}

func (s *Store) indexOf(id domain.TaskID) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
