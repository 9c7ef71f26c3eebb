package supabase

import (
	"context"
	"encoding/json"

	"github.com/supabase-community/postgrest-go"

	"relgraph/domain/core/entities"
	pkgerrors "relgraph/pkg/errors"
)

const commentsTable = "task_comments"

type commentGateway struct {
	c *Client
}

type commentInsert struct {
	UserID string `json:"user_id"`
	TaskID string `json:"task_id"`
	Body   string `json:"body"`
}

func (g *commentGateway) ListByTask(ctx context.Context, taskID string) ([]*entities.TaskComment, error) {
	data, _, err := g.c.sb.From(commentsTable).
		Select("*", "", false).
		Eq("task_id", taskID).
		Order("created_at", &postgrest.OrderOpts{Ascending: true}).
		ExecuteWithContext(ctx)
	if err != nil {
		return nil, pkgerrors.NewExternalError(commentsTable, err)
	}

	var rows []*entities.TaskComment
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, pkgerrors.NewExternalError(commentsTable, err)
	}
	return rows, nil
}

func (g *commentGateway) Create(ctx context.Context, taskID, body string) (*entities.TaskComment, error) {
	userID, err := g.c.currentUserID()
	if err != nil {
		return nil, err
	}

	row := commentInsert{UserID: userID, TaskID: taskID, Body: body}

	data, _, err := g.c.sb.From(commentsTable).
		Insert(row, false, "", "representation", "").
		Single().
		ExecuteWithContext(ctx)
	if err != nil {
		return nil, pkgerrors.NewExternalError(commentsTable, err)
	}

	var comment entities.TaskComment
	if err := json.Unmarshal(data, &comment); err != nil {
		return nil, pkgerrors.NewExternalError(commentsTable, err)
	}
	return &comment, nil
}

func (g *commentGateway) Delete(ctx context.Context, id string) error {
	_, _, err := g.c.sb.From(commentsTable).
		Delete("", "").
		Eq("id", id).
		ExecuteWithContext(ctx)
	if err != nil {
		return pkgerrors.NewExternalError(commentsTable, err)
	}
	return nil
}
