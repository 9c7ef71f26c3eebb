package supabase

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"relgraph/domain/core/entities"
	"relgraph/domain/core/valueobjects"
	"relgraph/infrastructure/config"
)

type recordedRequest struct {
	method string
	path   string
	body   map[string]interface{}
}

// requestRecorder is a stand-in REST endpoint that captures every request
// body so tests can assert exactly what the gateway puts on the wire.
type requestRecorder struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (r *requestRecorder) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	data, _ := io.ReadAll(req.Body)
	var body map[string]interface{}
	if len(data) > 0 {
		_ = json.Unmarshal(data, &body)
	}
	r.mu.Lock()
	r.requests = append(r.requests, recordedRequest{
		method: req.Method,
		path:   req.URL.Path,
		body:   body,
	})
	r.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte("[]"))
}

func (r *requestRecorder) all() []recordedRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedRequest(nil), r.requests...)
}

func (r *requestRecorder) single(t *testing.T) recordedRequest {
	t.Helper()
	reqs := r.all()
	require.Len(t, reqs, 1)
	return reqs[0]
}

func newRecordedClient(t *testing.T) (*Client, *requestRecorder) {
	t.Helper()
	recorder := &requestRecorder{}
	server := httptest.NewServer(recorder)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		SupabaseURL:     server.URL,
		SupabaseAnonKey: "anon-key",
	}
	client, err := NewClient(cfg, zap.NewNop())
	require.NoError(t, err)
	return client, recorder
}

func strPtr(s string) *string { return &s }

func statusPtr(s valueobjects.TaskStatus) *valueobjects.TaskStatus { return &s }

func TestTaskGatewayUpdatePayload(t *testing.T) {
	ctx := context.Background()

	t.Run("connection reference is persisted", func(t *testing.T) {
		client, recorder := newRecordedClient(t)

		err := client.Tasks().Update(ctx, "t1", entities.TaskUpdate{
			ConnectionID: strPtr("c1"),
		})
		require.NoError(t, err)

		req := recorder.single(t)
		assert.Equal(t, http.MethodPatch, req.method)
		assert.Equal(t, "/rest/v1/tasks", req.path)
		assert.Equal(t, "c1", req.body["connection_id"])
	})

	t.Run("connection reference rides along with other fields", func(t *testing.T) {
		client, recorder := newRecordedClient(t)

		err := client.Tasks().Update(ctx, "t1", entities.TaskUpdate{
			Title:        strPtr("call back"),
			ConnectionID: strPtr("c2"),
		})
		require.NoError(t, err)

		body := recorder.single(t).body
		assert.Equal(t, "call back", body["title"])
		assert.Equal(t, "c2", body["connection_id"])
	})

	t.Run("clearing the connection nulls the column", func(t *testing.T) {
		client, recorder := newRecordedClient(t)

		err := client.Tasks().Update(ctx, "t1", entities.TaskUpdate{
			ClearConnection: true,
		})
		require.NoError(t, err)

		body := recorder.single(t).body
		v, ok := body["connection_id"]
		require.True(t, ok)
		assert.Nil(t, v)
	})

	t.Run("clearing the deadline wins over a deadline value", func(t *testing.T) {
		client, recorder := newRecordedClient(t)

		err := client.Tasks().Update(ctx, "t1", entities.TaskUpdate{
			Deadline:      strPtr("2026-09-15"),
			ClearDeadline: true,
		})
		require.NoError(t, err)

		body := recorder.single(t).body
		v, ok := body["deadline"]
		require.True(t, ok)
		assert.Nil(t, v)
	})

	t.Run("status mirrors the legacy completed flag", func(t *testing.T) {
		client, recorder := newRecordedClient(t)

		err := client.Tasks().Update(ctx, "t1", entities.TaskUpdate{
			Status: statusPtr(valueobjects.StatusDone),
		})
		require.NoError(t, err)

		body := recorder.single(t).body
		assert.Equal(t, "done", body["status"])
		assert.Equal(t, true, body["completed"])
	})

	t.Run("empty update skips the round trip", func(t *testing.T) {
		client, recorder := newRecordedClient(t)

		err := client.Tasks().Update(ctx, "t1", entities.TaskUpdate{})
		require.NoError(t, err)
		assert.Empty(t, recorder.all())
	})
}
