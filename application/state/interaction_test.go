package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInteractionStateDefaults(t *testing.T) {
	s := NewInteractionState()

	_, selected := s.SelectedPerson()
	assert.False(t, selected)
	_, hovered := s.HoveredPerson()
	assert.False(t, hovered)
	assert.Equal(t, SectionGraph, s.ActiveSection())
	assert.False(t, s.AddModalOpen())
}

func TestInteractionStateTransitions(t *testing.T) {
	s := NewInteractionState()

	s.SelectPerson("p1")
	id, ok := s.SelectedPerson()
	assert.True(t, ok)
	assert.Equal(t, "p1", id)

	s.ClearSelection()
	_, ok = s.SelectedPerson()
	assert.False(t, ok)

	s.HoverPerson("p2")
	id, ok = s.HoveredPerson()
	assert.True(t, ok)
	assert.Equal(t, "p2", id)

	s.HoverPerson("")
	_, ok = s.HoveredPerson()
	assert.False(t, ok)

	s.SetActiveSection(SectionCalendar)
	assert.Equal(t, SectionCalendar, s.ActiveSection())

	s.OpenAddModal()
	assert.True(t, s.AddModalOpen())
	s.CloseAddModal()
	assert.False(t, s.AddModalOpen())
}
