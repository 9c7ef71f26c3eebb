package events

import (
	"encoding/json"
	"fmt"

	"relgraph/domain/core/entities"
	"relgraph/domain/core/validators"
	pkgerrors "relgraph/pkg/errors"
)

// Kind identifies one of the synchronized entity collections. Values match
// the remote table names so a notification's table tag maps directly.
type Kind string

const (
	KindPeople       Kind = "people"
	KindConnections  Kind = "connections"
	KindTasks        Kind = "tasks"
	KindTaskComments Kind = "task_comments"
)

// SyncedKinds are the collections mirrored by the entity store. Task
// comments are fetched lazily and never streamed.
var SyncedKinds = []Kind{KindPeople, KindConnections, KindTasks}

// IsValid checks membership in the known kinds
func (k Kind) IsValid() bool {
	switch k {
	case KindPeople, KindConnections, KindTasks, KindTaskComments:
		return true
	}
	return false
}

// KindFromTable maps a notification's table tag to its Kind
func KindFromTable(table string) (Kind, error) {
	k := Kind(table)
	if !k.IsValid() {
		return "", pkgerrors.NewValidationError(fmt.Sprintf("unknown table %q", table))
	}
	return k, nil
}

// Op is the operation carried by a change notification
type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// IsValid checks membership in the known operations
func (o Op) IsValid() bool {
	switch o {
	case OpInsert, OpUpdate, OpDelete:
		return true
	}
	return false
}

// OpFromChangeType maps the feed's change type tag (INSERT, UPDATE, DELETE)
// to its Op
func OpFromChangeType(changeType string) (Op, error) {
	switch changeType {
	case "INSERT":
		return OpInsert, nil
	case "UPDATE":
		return OpUpdate, nil
	case "DELETE":
		return OpDelete, nil
	}
	return "", pkgerrors.NewValidationError(fmt.Sprintf("unknown change type %q", changeType))
}

// ChangeEvent is one decoded, validated notification from the remote change
// feed. Exactly one entity pointer is set for inserts and updates; deletes
// carry only the entity id (the remote feed ships a sparse old record).
type ChangeEvent struct {
	Kind Kind
	Op   Op

	Person     *entities.Person
	Connection *entities.Connection
	Task       *entities.Task

	// EntityID is set for deletes
	EntityID string
}

// deleteRecord is the sparse old-row payload of a delete notification
type deleteRecord struct {
	ID string `json:"id"`
}

// DecodeChange decodes a raw notification payload into a ChangeEvent,
// validating it against the entity schema. Payloads that fail validation are
// rejected here and must never reach the store.
func DecodeChange(v *validators.PayloadValidator, kind Kind, op Op, payload json.RawMessage) (*ChangeEvent, error) {
	if !kind.IsValid() {
		return nil, pkgerrors.NewValidationError(fmt.Sprintf("unknown change kind %q", kind))
	}
	if !op.IsValid() {
		return nil, pkgerrors.NewValidationError(fmt.Sprintf("unknown change op %q", op))
	}

	ev := &ChangeEvent{Kind: kind, Op: op}

	if op == OpDelete {
		var rec deleteRecord
		if err := json.Unmarshal(payload, &rec); err != nil {
			return nil, pkgerrors.NewValidationError("malformed delete payload").WithCause(err)
		}
		if rec.ID == "" {
			return nil, pkgerrors.NewValidationError("delete payload missing id")
		}
		ev.EntityID = rec.ID
		return ev, nil
	}

	switch kind {
	case KindPeople:
		var p entities.Person
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, pkgerrors.NewValidationError("malformed person payload").WithCause(err)
		}
		if err := v.ValidatePerson(&p); err != nil {
			return nil, err
		}
		ev.Person = &p
		ev.EntityID = p.ID
	case KindConnections:
		var c entities.Connection
		if err := json.Unmarshal(payload, &c); err != nil {
			return nil, pkgerrors.NewValidationError("malformed connection payload").WithCause(err)
		}
		if err := v.ValidateConnection(&c); err != nil {
			return nil, err
		}
		ev.Connection = &c
		ev.EntityID = c.ID
	case KindTasks:
		var t entities.Task
		if err := json.Unmarshal(payload, &t); err != nil {
			return nil, pkgerrors.NewValidationError("malformed task payload").WithCause(err)
		}
		if err := v.ValidateTask(&t); err != nil {
			return nil, err
		}
		ev.Task = &t
		ev.EntityID = t.ID
	default:
		return nil, pkgerrors.NewValidationError(fmt.Sprintf("change kind %q is not synced", kind))
	}

	return ev, nil
}
