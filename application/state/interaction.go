package state

import (
	"sync"
)

// NavSection identifies a sidebar navigation section
type NavSection string

const (
	SectionResearch  NavSection = "research"
	SectionArchive   NavSection = "archive"
	SectionGraph     NavSection = "graph"
	SectionKnowledge NavSection = "knowledge"
	SectionAnalytics NavSection = "analytics"
	SectionModels    NavSection = "models"
	SectionCalendar  NavSection = "calendar"
)

// NavSections lists the sidebar sections in display order
var NavSections = []NavSection{
	SectionResearch,
	SectionArchive,
	SectionGraph,
	SectionKnowledge,
	SectionAnalytics,
	SectionModels,
	SectionCalendar,
}

// InteractionState holds transient UI selection and navigation state. It is
// decoupled from entity data: only identifiers are kept, resolved against
// the entity store on read, so a removed person can never be pinned alive
// through a stale selection reference.
type InteractionState struct {
	mu             sync.RWMutex
	selectedPerson string
	hoveredPerson  string
	activeSection  NavSection
	addModalOpen   bool
}

// NewInteractionState creates interaction state with the graph section active
func NewInteractionState() *InteractionState {
	return &InteractionState{activeSection: SectionGraph}
}

// SelectPerson marks a person as selected
func (s *InteractionState) SelectPerson(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedPerson = id
}

// ClearSelection closes the detail panel
func (s *InteractionState) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedPerson = ""
}

// SelectedPerson returns the selected person id, if any
func (s *InteractionState) SelectedPerson() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedPerson, s.selectedPerson != ""
}

// HoverPerson marks a person as hovered; an empty id clears the hover
func (s *InteractionState) HoverPerson(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hoveredPerson = id
}

// HoveredPerson returns the hovered person id, if any
func (s *InteractionState) HoveredPerson() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hoveredPerson, s.hoveredPerson != ""
}

// SetActiveSection switches the sidebar navigation
func (s *InteractionState) SetActiveSection(section NavSection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeSection = section
}

// ActiveSection returns the current sidebar section
func (s *InteractionState) ActiveSection() NavSection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeSection
}

// OpenAddModal shows the add-person modal
func (s *InteractionState) OpenAddModal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addModalOpen = true
}

// CloseAddModal hides the add-person modal
func (s *InteractionState) CloseAddModal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addModalOpen = false
}

// AddModalOpen reports whether the add-person modal is showing
func (s *InteractionState) AddModalOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addModalOpen
}
