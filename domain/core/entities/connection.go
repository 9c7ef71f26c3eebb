package entities

import (
	"time"
)

// Connection is a typed edge between two people. Direction is stored as it
// was created but the graph treats edges as undirected for rendering and
// filtering.
type Connection struct {
	ID           string    `json:"id" validate:"required"`
	UserID       string    `json:"user_id" validate:"required"`
	FromPersonID string    `json:"from_person_id" validate:"required"`
	ToPersonID   string    `json:"to_person_id" validate:"required"`
	CreatedAt    time.Time `json:"created_at"`
}

// Touches reports whether the connection has the given person as either endpoint
func (c *Connection) Touches(personID string) bool {
	return c.FromPersonID == personID || c.ToPersonID == personID
}

// Clone returns a copy safe to hand outside the store
func (c *Connection) Clone() *Connection {
	cp := *c
	return &cp
}
