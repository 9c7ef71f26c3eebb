package state

import (
	"sync"

	"relgraph/domain/config"
	"relgraph/domain/core/entities"
	"relgraph/domain/core/valueobjects"
)

// collection is keyed storage that preserves the order of first insertion.
// Upsert of a known id replaces in place; new ids append. Both paths are
// O(1) amortized.
type collection[T any] struct {
	byID  map[string]*T
	order []string
	clone func(*T) *T
}

func newCollection[T any](clone func(*T) *T) collection[T] {
	return collection[T]{
		byID:  make(map[string]*T),
		clone: clone,
	}
}

func (c *collection[T]) upsert(id string, entity *T) {
	if _, exists := c.byID[id]; !exists {
		c.order = append(c.order, id)
	}
	c.byID[id] = c.clone(entity)
}

func (c *collection[T]) remove(id string) {
	if _, exists := c.byID[id]; !exists {
		return
	}
	delete(c.byID, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func (c *collection[T]) get(id string) (*T, bool) {
	entity, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	return c.clone(entity), true
}

func (c *collection[T]) snapshot() []*T {
	out := make([]*T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.clone(c.byID[id]))
	}
	return out
}

func (c *collection[T]) replaceAll(ids []string, items []*T) {
	c.byID = make(map[string]*T, len(items))
	c.order = c.order[:0]
	for i, id := range ids {
		if _, dup := c.byID[id]; dup {
			continue
		}
		c.order = append(c.order, id)
		c.byID[id] = c.clone(items[i])
	}
}

func (c *collection[T]) len() int {
	return len(c.byID)
}

// EntityStore is the in-memory mirror of the three synchronized collections.
// It is the single shared mutable resource: every component reads through
// the derived-view methods, which always hand out copies, and only the sync
// controller writes. The store knows nothing about network or rendering.
type EntityStore struct {
	mu          sync.RWMutex
	people      collection[entities.Person]
	connections collection[entities.Connection]
	tasks       collection[entities.Task]
}

// NewEntityStore creates an empty store
func NewEntityStore() *EntityStore {
	return &EntityStore{
		people:      newCollection((*entities.Person).Clone),
		connections: newCollection((*entities.Connection).Clone),
		tasks:       newCollection((*entities.Task).Clone),
	}
}

// ReplaceAll atomically swaps in the full content of all three collections.
// Used by the initial bulk load so consumers never observe a partially
// loaded mirror.
func (s *EntityStore) ReplaceAll(people []*entities.Person, connections []*entities.Connection, tasks []*entities.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pids := make([]string, len(people))
	for i, p := range people {
		pids[i] = p.ID
	}
	cids := make([]string, len(connections))
	for i, c := range connections {
		cids[i] = c.ID
	}
	tids := make([]string, len(tasks))
	for i, t := range tasks {
		tids[i] = t.ID
	}

	s.people.replaceAll(pids, people)
	s.connections.replaceAll(cids, connections)
	s.tasks.replaceAll(tids, tasks)
}

// UpsertPerson inserts or replaces a person by id
func (s *EntityStore) UpsertPerson(p *entities.Person) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.people.upsert(p.ID, p)
}

// RemovePerson deletes a person if present; a no-op otherwise, since remote
// notifications may arrive after local removal already happened
func (s *EntityStore) RemovePerson(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.people.remove(id)
}

// UpsertConnection inserts or replaces a connection by id
func (s *EntityStore) UpsertConnection(c *entities.Connection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connections.upsert(c.ID, c)
}

// RemoveConnection deletes a connection if present
func (s *EntityStore) RemoveConnection(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connections.remove(id)
}

// UpsertTask inserts or replaces a task by id
func (s *EntityStore) UpsertTask(t *entities.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks.upsert(t.ID, t)
}

// RemoveTask deletes a task if present
func (s *EntityStore) RemoveTask(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks.remove(id)
}

// Person returns a copy of the person with the given id
func (s *EntityStore) Person(id string) (*entities.Person, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.people.get(id)
}

// Connection returns a copy of the connection with the given id
func (s *EntityStore) Connection(id string) (*entities.Connection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connections.get(id)
}

// Task returns a copy of the task with the given id
func (s *EntityStore) Task(id string) (*entities.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tasks.get(id)
}

// People returns all people in insertion order
func (s *EntityStore) People() []*entities.Person {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.people.snapshot()
}

// Connections returns all connections in insertion order
func (s *EntityStore) Connections() []*entities.Connection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connections.snapshot()
}

// Tasks returns all tasks in insertion order
func (s *EntityStore) Tasks() []*entities.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tasks.snapshot()
}

// PeopleCount returns the number of stored people
func (s *EntityStore) PeopleCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.people.len()
}

// Derived views. Each is recomputed from current state on every call and is
// never cached; at this scale recomputation is cheaper than maintaining
// incremental indices.

// ActivePeople returns non-archived people in insertion order
func (s *EntityStore) ActivePeople() []*entities.Person {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*entities.Person{}
	for _, id := range s.people.order {
		if p := s.people.byID[id]; !p.Archived {
			out = append(out, p.Clone())
		}
	}
	return out
}

// ArchivedPeople returns archived people in insertion order
func (s *EntityStore) ArchivedPeople() []*entities.Person {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*entities.Person{}
	for _, id := range s.people.order {
		if p := s.people.byID[id]; p.Archived {
			out = append(out, p.Clone())
		}
	}
	return out
}

// ActiveConnections returns connections whose both endpoints exist and are
// non-archived. Dangling references are excluded, never an error: a
// connection notification may land before its endpoint's.
func (s *EntityStore) ActiveConnections() []*entities.Connection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*entities.Connection{}
	for _, id := range s.connections.order {
		c := s.connections.byID[id]
		from, okFrom := s.people.byID[c.FromPersonID]
		to, okTo := s.people.byID[c.ToPersonID]
		if okFrom && okTo && !from.Archived && !to.Archived {
			out = append(out, c.Clone())
		}
	}
	return out
}

// TasksByPerson returns the tasks owned by a person, in insertion order
func (s *EntityStore) TasksByPerson(personID string) []*entities.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*entities.Task{}
	for _, id := range s.tasks.order {
		if t := s.tasks.byID[id]; t.PersonID == personID {
			out = append(out, t.Clone())
		}
	}
	return out
}

// TasksByDay returns tasks whose deadline falls on the given calendar date
// (YYYY-MM-DD). Tasks without a deadline are excluded.
func (s *EntityStore) TasksByDay(day string) []*entities.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*entities.Task{}
	for _, id := range s.tasks.order {
		t := s.tasks.byID[id]
		if d, ok := t.DeadlineDay(); ok && d == day {
			out = append(out, t.Clone())
		}
	}
	return out
}

// TasksByStatus returns tasks whose effective status matches, using the
// status-if-present-else-completed fallback
func (s *EntityStore) TasksByStatus(status valueobjects.TaskStatus) []*entities.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*entities.Task{}
	for _, id := range s.tasks.order {
		if t := s.tasks.byID[id]; t.EffectiveStatus() == status {
			out = append(out, t.Clone())
		}
	}
	return out
}

// FindCoreNode returns the first person matching the reserved core name, in
// insertion order. First-match is the convention guarding against the soft
// invariant that two sessions may bootstrap concurrently.
func (s *EntityStore) FindCoreNode(cfg *config.DomainConfig) (*entities.Person, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.people.order {
		if p := s.people.byID[id]; p.IsCore(cfg) {
			return p.Clone(), true
		}
	}
	return nil, false
}
