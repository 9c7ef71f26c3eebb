package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relgraph/domain/core/validators"
	pkgerrors "relgraph/pkg/errors"
)

func TestDecodeChange(t *testing.T) {
	v := validators.NewPayloadValidator()

	t.Run("valid person insert", func(t *testing.T) {
		payload := json.RawMessage(`{
			"id": "p1", "user_id": "u1", "name": "Ada",
			"connection_type": "business", "archived": false,
			"pos_x": 1, "pos_y": 2, "pos_z": 3
		}`)
		ev, err := DecodeChange(v, KindPeople, OpInsert, payload)
		require.NoError(t, err)
		require.NotNil(t, ev.Person)
		assert.Equal(t, "p1", ev.EntityID)
		assert.Equal(t, "Ada", ev.Person.Name)
	})

	t.Run("person missing required fields is rejected", func(t *testing.T) {
		payload := json.RawMessage(`{"id": "p1", "user_id": "u1"}`)
		_, err := DecodeChange(v, KindPeople, OpInsert, payload)
		require.Error(t, err)
		assert.True(t, pkgerrors.IsValidation(err))
	})

	t.Run("person with unknown connection type is rejected", func(t *testing.T) {
		payload := json.RawMessage(`{
			"id": "p1", "user_id": "u1", "name": "Ada", "connection_type": "cosmic"
		}`)
		_, err := DecodeChange(v, KindPeople, OpInsert, payload)
		require.Error(t, err)
		assert.True(t, pkgerrors.IsValidation(err))
	})

	t.Run("malformed json is rejected", func(t *testing.T) {
		_, err := DecodeChange(v, KindTasks, OpUpdate, json.RawMessage(`{nope`))
		require.Error(t, err)
		assert.True(t, pkgerrors.IsValidation(err))
	})

	t.Run("delete decodes a sparse old record", func(t *testing.T) {
		ev, err := DecodeChange(v, KindConnections, OpDelete, json.RawMessage(`{"id": "c9"}`))
		require.NoError(t, err)
		assert.Equal(t, "c9", ev.EntityID)
		assert.Nil(t, ev.Connection)
	})

	t.Run("delete without an id is rejected", func(t *testing.T) {
		_, err := DecodeChange(v, KindConnections, OpDelete, json.RawMessage(`{}`))
		require.Error(t, err)
	})

	t.Run("unknown kind and op are rejected", func(t *testing.T) {
		_, err := DecodeChange(v, Kind("widgets"), OpInsert, json.RawMessage(`{}`))
		assert.Error(t, err)

		_, err = DecodeChange(v, KindPeople, Op("upsert"), json.RawMessage(`{}`))
		assert.Error(t, err)
	})

	t.Run("valid task update", func(t *testing.T) {
		payload := json.RawMessage(`{
			"id": "t1", "user_id": "u1", "person_id": "p1",
			"title": "call back", "completed": false, "status": "in_progress"
		}`)
		ev, err := DecodeChange(v, KindTasks, OpUpdate, payload)
		require.NoError(t, err)
		require.NotNil(t, ev.Task)
		assert.Equal(t, "t1", ev.EntityID)
	})

	t.Run("task with unknown status is rejected", func(t *testing.T) {
		payload := json.RawMessage(`{
			"id": "t1", "user_id": "u1", "person_id": "p1",
			"title": "call back", "status": "blocked"
		}`)
		_, err := DecodeChange(v, KindTasks, OpUpdate, payload)
		require.Error(t, err)
	})
}

func TestKindFromTable(t *testing.T) {
	k, err := KindFromTable("people")
	require.NoError(t, err)
	assert.Equal(t, KindPeople, k)

	_, err = KindFromTable("widgets")
	assert.Error(t, err)
}

func TestOpFromChangeType(t *testing.T) {
	for raw, want := range map[string]Op{
		"INSERT": OpInsert,
		"UPDATE": OpUpdate,
		"DELETE": OpDelete,
	} {
		op, err := OpFromChangeType(raw)
		require.NoError(t, err)
		assert.Equal(t, want, op)
	}

	_, err := OpFromChangeType("TRUNCATE")
	assert.Error(t, err)
}
