package valueobjects

import (
	pkgerrors "relgraph/pkg/errors"
)

// TaskStatus is the tri-state kanban column of a task. Legacy rows predate
// the column and carry only the completed boolean; see Task.EffectiveStatus.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusDone       TaskStatus = "done"
)

// AllTaskStatuses lists the kanban columns in board order
var AllTaskStatuses = []TaskStatus{StatusTodo, StatusInProgress, StatusDone}

// NewTaskStatus creates a TaskStatus from a raw string with validation
func NewTaskStatus(raw string) (TaskStatus, error) {
	st := TaskStatus(raw)
	if !st.IsValid() {
		return "", pkgerrors.NewValidationError("unknown task status: " + raw)
	}
	return st, nil
}

// IsValid checks membership in the closed set
func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Completed reports whether this status counts as completed
func (s TaskStatus) Completed() bool {
	return s == StatusDone
}

// String returns the wire representation
func (s TaskStatus) String() string {
	return string(s)
}
