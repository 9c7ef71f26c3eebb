package supabase

import (
	"context"
	"encoding/json"

	"github.com/supabase-community/postgrest-go"

	"relgraph/application/ports"
	"relgraph/domain/core/entities"
	"relgraph/domain/core/valueobjects"
	pkgerrors "relgraph/pkg/errors"
)

const peopleTable = "people"

type personGateway struct {
	c *Client
}

// personInsert is the insert row shape; id and created_at are server-assigned
type personInsert struct {
	UserID         string  `json:"user_id"`
	Name           string  `json:"name"`
	Bio            *string `json:"bio"`
	ConnectionType string  `json:"connection_type"`
	Archived       bool    `json:"archived"`
	PosX           float64 `json:"pos_x"`
	PosY           float64 `json:"pos_y"`
	PosZ           float64 `json:"pos_z"`
}

func (g *personGateway) List(ctx context.Context) ([]*entities.Person, error) {
	data, _, err := g.c.sb.From(peopleTable).
		Select("*", "", false).
		Order("created_at", &postgrest.OrderOpts{Ascending: true}).
		ExecuteWithContext(ctx)
	if err != nil {
		return nil, pkgerrors.NewExternalError(peopleTable, err)
	}

	var rows []*entities.Person
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, pkgerrors.NewExternalError(peopleTable, err)
	}
	return rows, nil
}

func (g *personGateway) Create(ctx context.Context, fields ports.PersonFields) (*entities.Person, error) {
	userID, err := g.c.currentUserID()
	if err != nil {
		return nil, err
	}

	row := personInsert{
		UserID:         userID,
		Name:           fields.Name,
		Bio:            fields.Bio,
		ConnectionType: fields.ConnectionType.String(),
		Archived:       fields.Archived,
		PosX:           fields.Position.X(),
		PosY:           fields.Position.Y(),
		PosZ:           fields.Position.Z(),
	}

	data, _, err := g.c.sb.From(peopleTable).
		Insert(row, false, "", "representation", "").
		Single().
		ExecuteWithContext(ctx)
	if err != nil {
		return nil, pkgerrors.NewExternalError(peopleTable, err)
	}

	var person entities.Person
	if err := json.Unmarshal(data, &person); err != nil {
		return nil, pkgerrors.NewExternalError(peopleTable, err)
	}
	return &person, nil
}

func (g *personGateway) SetArchived(ctx context.Context, id string, archived bool) error {
	_, _, err := g.c.sb.From(peopleTable).
		Update(map[string]interface{}{"archived": archived}, "", "").
		Eq("id", id).
		ExecuteWithContext(ctx)
	if err != nil {
		return pkgerrors.NewExternalError(peopleTable, err)
	}
	return nil
}

func (g *personGateway) SetPosition(ctx context.Context, id string, pos valueobjects.Position) error {
	_, _, err := g.c.sb.From(peopleTable).
		Update(map[string]interface{}{
			"pos_x": pos.X(),
			"pos_y": pos.Y(),
			"pos_z": pos.Z(),
		}, "", "").
		Eq("id", id).
		ExecuteWithContext(ctx)
	if err != nil {
		return pkgerrors.NewExternalError(peopleTable, err)
	}
	return nil
}
