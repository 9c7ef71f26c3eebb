package entities

import (
	"time"

	"relgraph/domain/config"
	"relgraph/domain/core/valueobjects"
)

// Person is one node of the relationship graph. The record mirrors the
// remote row exactly; the id, owning user and creation timestamp are
// assigned server-side and never fabricated locally.
type Person struct {
	ID             string                      `json:"id" validate:"required"`
	UserID         string                      `json:"user_id" validate:"required"`
	Name           string                      `json:"name" validate:"required"`
	Bio            *string                     `json:"bio"`
	ConnectionType valueobjects.ConnectionType `json:"connection_type" validate:"required,oneof=philosophical business psychological practical synthesis"`
	Archived       bool                        `json:"archived"`
	PosX           float64                     `json:"pos_x"`
	PosY           float64                     `json:"pos_y"`
	PosZ           float64                     `json:"pos_z"`
	CreatedAt      time.Time                   `json:"created_at"`
}

// Position returns the stored scene position
func (p *Person) Position() valueobjects.Position {
	pos, err := valueobjects.NewPosition(p.PosX, p.PosY, p.PosZ)
	if err != nil {
		return valueobjects.Origin()
	}
	return pos
}

// SetPosition overwrites the stored scene position
func (p *Person) SetPosition(pos valueobjects.Position) {
	p.PosX = pos.X()
	p.PosY = pos.Y()
	p.PosZ = pos.Z()
}

// IsCore reports whether this person is the distinguished core node. The
// convention matches by reserved display name; this predicate is the only
// place the comparison lives.
func (p *Person) IsCore(cfg *config.DomainConfig) bool {
	return p.Name == cfg.CoreNodeName
}

// Clone returns a deep copy safe to hand outside the store
func (p *Person) Clone() *Person {
	cp := *p
	if p.Bio != nil {
		bio := *p.Bio
		cp.Bio = &bio
	}
	return &cp
}
