package entities

import (
	"time"
)

// TaskComment is an append-only note on a task. Comments are fetched lazily
// when a task's detail view opens and are not part of the live-synced state.
type TaskComment struct {
	ID        string    `json:"id" validate:"required"`
	TaskID    string    `json:"task_id" validate:"required"`
	UserID    string    `json:"user_id" validate:"required"`
	Body      string    `json:"body" validate:"required"`
	CreatedAt time.Time `json:"created_at"`
}

// Clone returns a copy safe to hand outside the store
func (c *TaskComment) Clone() *TaskComment {
	cp := *c
	return &cp
}
