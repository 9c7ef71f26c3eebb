package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relgraph/domain/config"
	"relgraph/domain/core/entities"
	"relgraph/domain/core/valueobjects"
)

func person(id, name string) *entities.Person {
	return &entities.Person{
		ID:             id,
		UserID:         "u1",
		Name:           name,
		ConnectionType: valueobjects.ConnectionBusiness,
	}
}

func connection(id, from, to string) *entities.Connection {
	return &entities.Connection{ID: id, UserID: "u1", FromPersonID: from, ToPersonID: to}
}

func task(id, personID string) *entities.Task {
	return &entities.Task{ID: id, UserID: "u1", PersonID: personID, Title: "task " + id}
}

func TestUpsertPreservesInsertionOrder(t *testing.T) {
	s := NewEntityStore()
	s.UpsertPerson(person("a", "Ada"))
	s.UpsertPerson(person("b", "Bob"))
	s.UpsertPerson(person("c", "Cleo"))

	// Replacing an existing id keeps its original slot
	renamed := person("a", "Ada Lovelace")
	s.UpsertPerson(renamed)

	people := s.People()
	require.Len(t, people, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{people[0].ID, people[1].ID, people[2].ID})
	assert.Equal(t, "Ada Lovelace", people[0].Name)
}

func TestRemoveIsIdempotent(t *testing.T) {
	s := NewEntityStore()
	s.UpsertPerson(person("a", "Ada"))
	s.RemovePerson("a")
	s.RemovePerson("a")
	s.RemovePerson("never-existed")
	assert.Empty(t, s.People())
}

func TestReplaceAllSwapsAtomically(t *testing.T) {
	s := NewEntityStore()
	s.UpsertPerson(person("old", "Old"))
	s.UpsertTask(task("t-old", "old"))

	s.ReplaceAll(
		[]*entities.Person{person("a", "Ada"), person("b", "Bob")},
		[]*entities.Connection{connection("c1", "a", "b")},
		[]*entities.Task{task("t1", "a")},
	)

	assert.Len(t, s.People(), 2)
	assert.Len(t, s.Connections(), 1)
	assert.Len(t, s.Tasks(), 1)
	_, ok := s.Person("old")
	assert.False(t, ok)
}

func TestSnapshotsAreCopies(t *testing.T) {
	s := NewEntityStore()
	s.UpsertPerson(person("a", "Ada"))

	got, ok := s.Person("a")
	require.True(t, ok)
	got.Name = "mutated"
	got.Archived = true

	stored, _ := s.Person("a")
	assert.Equal(t, "Ada", stored.Name)
	assert.False(t, stored.Archived)
}

func TestActiveAndArchivedPeople(t *testing.T) {
	s := NewEntityStore()
	s.UpsertPerson(person("a", "Ada"))
	archived := person("b", "Bob")
	archived.Archived = true
	s.UpsertPerson(archived)

	active := s.ActivePeople()
	require.Len(t, active, 1)
	assert.Equal(t, "a", active[0].ID)

	got := s.ArchivedPeople()
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)
}

func TestActiveConnections(t *testing.T) {
	s := NewEntityStore()
	s.UpsertPerson(person("a", "Ada"))
	s.UpsertPerson(person("b", "Bob"))
	s.UpsertConnection(connection("c1", "a", "b"))
	s.UpsertConnection(connection("dangling", "a", "ghost"))

	t.Run("dangling endpoints are excluded", func(t *testing.T) {
		got := s.ActiveConnections()
		require.Len(t, got, 1)
		assert.Equal(t, "c1", got[0].ID)
	})

	t.Run("archiving an endpoint hides its connections", func(t *testing.T) {
		bob, _ := s.Person("b")
		bob.Archived = true
		s.UpsertPerson(bob)
		assert.Empty(t, s.ActiveConnections())
	})

	t.Run("removing a person excludes its connections immediately", func(t *testing.T) {
		bob, _ := s.Person("b")
		bob.Archived = false
		s.UpsertPerson(bob)
		require.Len(t, s.ActiveConnections(), 1)

		s.RemovePerson("b")
		assert.Empty(t, s.ActiveConnections())
	})
}

func TestTaskViews(t *testing.T) {
	s := NewEntityStore()
	t1 := task("t1", "a")
	deadline := "2025-06-01"
	t1.Deadline = &deadline

	t2 := task("t2", "a")
	ts := "2025-06-01T09:00:00Z"
	t2.Deadline = &ts
	st := valueobjects.StatusInProgress
	t2.Status = &st

	t3 := task("t3", "b")
	t3.Completed = true

	s.UpsertTask(t1)
	s.UpsertTask(t2)
	s.UpsertTask(t3)

	t.Run("by person", func(t *testing.T) {
		got := s.TasksByPerson("a")
		require.Len(t, got, 2)
		assert.Equal(t, "t1", got[0].ID)
		assert.Equal(t, "t2", got[1].ID)
	})

	t.Run("by day groups timestamps with plain dates", func(t *testing.T) {
		got := s.TasksByDay("2025-06-01")
		require.Len(t, got, 2)
	})

	t.Run("by effective status", func(t *testing.T) {
		assert.Len(t, s.TasksByStatus(valueobjects.StatusTodo), 1)
		assert.Len(t, s.TasksByStatus(valueobjects.StatusInProgress), 1)
		assert.Len(t, s.TasksByStatus(valueobjects.StatusDone), 1)
	})
}

func TestFindCoreNode(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	s := NewEntityStore()

	_, ok := s.FindCoreNode(cfg)
	assert.False(t, ok)

	s.UpsertPerson(person("a", "Ada"))
	s.UpsertPerson(person("core1", cfg.CoreNodeName))
	s.UpsertPerson(person("core2", cfg.CoreNodeName))

	// First match in insertion order wins when duplicates exist
	core, ok := s.FindCoreNode(cfg)
	require.True(t, ok)
	assert.Equal(t, "core1", core.ID)
}
