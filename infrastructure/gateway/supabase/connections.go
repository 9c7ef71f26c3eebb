package supabase

import (
	"context"
	"encoding/json"

	"github.com/supabase-community/postgrest-go"

	"relgraph/domain/core/entities"
	pkgerrors "relgraph/pkg/errors"
)

const connectionsTable = "connections"

type connectionGateway struct {
	c *Client
}

type connectionInsert struct {
	UserID       string `json:"user_id"`
	FromPersonID string `json:"from_person_id"`
	ToPersonID   string `json:"to_person_id"`
}

func (g *connectionGateway) List(ctx context.Context) ([]*entities.Connection, error) {
	data, _, err := g.c.sb.From(connectionsTable).
		Select("*", "", false).
		Order("created_at", &postgrest.OrderOpts{Ascending: true}).
		ExecuteWithContext(ctx)
	if err != nil {
		return nil, pkgerrors.NewExternalError(connectionsTable, err)
	}

	var rows []*entities.Connection
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, pkgerrors.NewExternalError(connectionsTable, err)
	}
	return rows, nil
}

func (g *connectionGateway) CreateBatch(ctx context.Context, fromPersonID string, toPersonIDs []string) ([]*entities.Connection, error) {
	if len(toPersonIDs) == 0 {
		return nil, nil
	}

	userID, err := g.c.currentUserID()
	if err != nil {
		return nil, err
	}

	rows := make([]connectionInsert, 0, len(toPersonIDs))
	for _, toID := range toPersonIDs {
		rows = append(rows, connectionInsert{
			UserID:       userID,
			FromPersonID: fromPersonID,
			ToPersonID:   toID,
		})
	}

	data, _, err := g.c.sb.From(connectionsTable).
		Insert(rows, false, "", "representation", "").
		ExecuteWithContext(ctx)
	if err != nil {
		return nil, pkgerrors.NewExternalError(connectionsTable, err)
	}

	var created []*entities.Connection
	if err := json.Unmarshal(data, &created); err != nil {
		return nil, pkgerrors.NewExternalError(connectionsTable, err)
	}
	return created, nil
}

func (g *connectionGateway) Delete(ctx context.Context, id string) error {
	_, _, err := g.c.sb.From(connectionsTable).
		Delete("", "").
		Eq("id", id).
		ExecuteWithContext(ctx)
	if err != nil {
		return pkgerrors.NewExternalError(connectionsTable, err)
	}
	return nil
}
