package entities

import (
	"time"

	"relgraph/domain/core/valueobjects"
)

// Task is a per-person todo item. Status is the tri-state kanban column
// added after the completed boolean shipped; legacy rows carry only the
// boolean, so the two must stay mutually consistent and the effective
// status is always computed through the fallback in EffectiveStatus.
type Task struct {
	ID           string                   `json:"id" validate:"required"`
	UserID       string                   `json:"user_id" validate:"required"`
	PersonID     string                   `json:"person_id" validate:"required"`
	Title        string                   `json:"title" validate:"required"`
	Completed    bool                     `json:"completed"`
	Deadline     *string                  `json:"deadline"`
	Status       *valueobjects.TaskStatus `json:"status,omitempty" validate:"omitempty,oneof=todo in_progress done"`
	ConnectionID *string                  `json:"connection_id,omitempty"`
	CreatedAt    time.Time                `json:"created_at"`
}

// EffectiveStatus computes the kanban column via the two-step fallback:
// the status column when present (it wins even against an inconsistent
// completed flag), otherwise derived from the legacy boolean.
func (t *Task) EffectiveStatus() valueobjects.TaskStatus {
	if t.Status != nil && t.Status.IsValid() {
		return *t.Status
	}
	if t.Completed {
		return valueobjects.StatusDone
	}
	return valueobjects.StatusTodo
}

// DeadlineDay returns the calendar date (YYYY-MM-DD) of the deadline, if any.
// Timestamps are truncated to their date part.
func (t *Task) DeadlineDay() (string, bool) {
	if t.Deadline == nil || *t.Deadline == "" {
		return "", false
	}
	day := *t.Deadline
	if len(day) > len(time.DateOnly) {
		day = day[:len(time.DateOnly)]
	}
	return day, true
}

// Clone returns a deep copy safe to hand outside the store
func (t *Task) Clone() *Task {
	cp := *t
	if t.Deadline != nil {
		d := *t.Deadline
		cp.Deadline = &d
	}
	if t.Status != nil {
		s := *t.Status
		cp.Status = &s
	}
	if t.ConnectionID != nil {
		c := *t.ConnectionID
		cp.ConnectionID = &c
	}
	return &cp
}

// TaskUpdate is a partial update of the mutable task fields. Nil pointers
// mean "leave unchanged"; the Clear flags distinguish clearing a nullable
// column from leaving it alone.
type TaskUpdate struct {
	Title           *string
	Completed       *bool
	Status          *valueobjects.TaskStatus
	Deadline        *string
	ClearDeadline   bool
	ConnectionID    *string
	ClearConnection bool
}

// IsEmpty reports whether the update changes nothing
func (u TaskUpdate) IsEmpty() bool {
	return u.Title == nil && u.Completed == nil && u.Status == nil &&
		u.Deadline == nil && !u.ClearDeadline &&
		u.ConnectionID == nil && !u.ClearConnection
}

// ApplyTo shallow-merges the update into a copy of the task. Setting the
// status recomputes the completed flag so the pair never diverges locally.
func (u TaskUpdate) ApplyTo(t *Task) *Task {
	merged := t.Clone()
	if u.Title != nil {
		merged.Title = *u.Title
	}
	if u.Completed != nil {
		merged.Completed = *u.Completed
	}
	if u.Status != nil {
		s := *u.Status
		merged.Status = &s
		merged.Completed = s.Completed()
	}
	if u.ClearDeadline {
		merged.Deadline = nil
	} else if u.Deadline != nil {
		d := *u.Deadline
		merged.Deadline = &d
	}
	if u.ClearConnection {
		merged.ConnectionID = nil
	} else if u.ConnectionID != nil {
		c := *u.ConnectionID
		merged.ConnectionID = &c
	}
	return merged
}
