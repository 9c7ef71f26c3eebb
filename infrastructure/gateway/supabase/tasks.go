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

const tasksTable = "tasks"

type taskGateway struct {
	c *Client
}

type taskInsert struct {
	UserID       string  `json:"user_id"`
	PersonID     string  `json:"person_id"`
	Title        string  `json:"title"`
	Completed    bool    `json:"completed"`
	Status       string  `json:"status"`
	Deadline     *string `json:"deadline"`
	ConnectionID *string `json:"connection_id"`
}

func (g *taskGateway) List(ctx context.Context) ([]*entities.Task, error) {
	data, _, err := g.c.sb.From(tasksTable).
		Select("*", "", false).
		Order("created_at", &postgrest.OrderOpts{Ascending: true}).
		ExecuteWithContext(ctx)
	if err != nil {
		return nil, pkgerrors.NewExternalError(tasksTable, err)
	}

	var rows []*entities.Task
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, pkgerrors.NewExternalError(tasksTable, err)
	}
	return rows, nil
}

func (g *taskGateway) Create(ctx context.Context, fields ports.TaskFields) (*entities.Task, error) {
	userID, err := g.c.currentUserID()
	if err != nil {
		return nil, err
	}

	row := taskInsert{
		UserID:       userID,
		PersonID:     fields.PersonID,
		Title:        fields.Title,
		Completed:    false,
		Status:       valueobjects.StatusTodo.String(),
		Deadline:     fields.Deadline,
		ConnectionID: fields.ConnectionID,
	}

	data, _, err := g.c.sb.From(tasksTable).
		Insert(row, false, "", "representation", "").
		Single().
		ExecuteWithContext(ctx)
	if err != nil {
		return nil, pkgerrors.NewExternalError(tasksTable, err)
	}

	var task entities.Task
	if err := json.Unmarshal(data, &task); err != nil {
		return nil, pkgerrors.NewExternalError(tasksTable, err)
	}
	return &task, nil
}

func (g *taskGateway) Update(ctx context.Context, id string, update entities.TaskUpdate) error {
	payload := map[string]interface{}{}
	if update.Title != nil {
		payload["title"] = *update.Title
	}
	if update.Completed != nil {
		payload["completed"] = *update.Completed
	}
	if update.Status != nil {
		payload["status"] = update.Status.String()
		// the legacy flag mirrors the status column so older readers agree
		payload["completed"] = update.Status.Completed()
	}
	if update.ClearDeadline {
		payload["deadline"] = nil
	} else if update.Deadline != nil {
		payload["deadline"] = *update.Deadline
	}
	if update.ClearConnection {
		payload["connection_id"] = nil
	} else if update.ConnectionID != nil {
		payload["connection_id"] = *update.ConnectionID
	}
	if len(payload) == 0 {
		return nil
	}

	_, _, err := g.c.sb.From(tasksTable).
		Update(payload, "", "").
		Eq("id", id).
		ExecuteWithContext(ctx)
	if err != nil {
		return pkgerrors.NewExternalError(tasksTable, err)
	}
	return nil
}

func (g *taskGateway) Delete(ctx context.Context, id string) error {
	_, _, err := g.c.sb.From(tasksTable).
		Delete("", "").
		Eq("id", id).
		ExecuteWithContext(ctx)
	if err != nil {
		return pkgerrors.NewExternalError(tasksTable, err)
	}
	return nil
}
