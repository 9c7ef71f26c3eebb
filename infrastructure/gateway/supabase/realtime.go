package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"relgraph/application/ports"
	"relgraph/domain/core/validators"
	"relgraph/domain/events"
	"relgraph/infrastructure/config"
	pkgerrors "relgraph/pkg/errors"
)

// Feed delivers postgres change notifications over the Supabase realtime
// websocket. One socket carries all table topics; handlers for a table run
// on the read loop, so delivery order within a table is socket order.
type Feed struct {
	cfg       *config.Config
	client    *Client
	validator *validators.PayloadValidator
	logger    *zap.Logger

	mu       sync.Mutex
	conn     *websocket.Conn
	handlers map[events.Kind]ports.ChangeHandler
	joinRef  int
	closed   bool
	done     chan struct{}
}

// phoenixMessage is the realtime protocol envelope
type phoenixMessage struct {
	Topic   string          `json:"topic"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	Ref     string          `json:"ref"`
}

// changePayload is the payload of a postgres_changes event
type changePayload struct {
	Data struct {
		Table     string          `json:"table"`
		Type      string          `json:"type"`
		Record    json.RawMessage `json:"record"`
		OldRecord json.RawMessage `json:"old_record"`
	} `json:"data"`
}

// NewFeed creates a realtime feed. The socket is dialed lazily on the first
// Subscribe call.
func NewFeed(cfg *config.Config, client *Client, validator *validators.PayloadValidator, logger *zap.Logger) *Feed {
	return &Feed{
		cfg:       cfg,
		client:    client,
		validator: validator,
		logger:    logger,
		handlers:  make(map[events.Kind]ports.ChangeHandler),
		done:      make(chan struct{}),
	}
}

// Subscribe joins the topic for one table and routes its change events to
// the handler. A kind can carry at most one subscription at a time.
func (f *Feed) Subscribe(ctx context.Context, kind events.Kind, handler ports.ChangeHandler) (ports.Unsubscribe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, pkgerrors.NewUnavailableError("realtime feed is closed")
	}
	if _, ok := f.handlers[kind]; ok {
		return nil, pkgerrors.NewConflictError(fmt.Sprintf("already subscribed to %s", kind))
	}

	if f.conn == nil {
		if err := f.dial(ctx); err != nil {
			return nil, err
		}
	}

	if err := f.join(kind); err != nil {
		return nil, err
	}
	f.handlers[kind] = handler
	f.logger.Info("subscribed to change feed", zap.String("table", string(kind)))

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if _, ok := f.handlers[kind]; !ok {
			return
		}
		delete(f.handlers, kind)
		f.leave(kind)
	}, nil
}

// Close tears down the socket and all subscriptions. Safe to call twice.
func (f *Feed) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true
	close(f.done)
	f.handlers = make(map[events.Kind]ports.ChangeHandler)
	if f.conn != nil {
		err := f.conn.Close()
		f.conn = nil
		return err
	}
	return nil
}

// dial opens the websocket and starts the heartbeat and read loops.
// Caller holds f.mu.
func (f *Feed) dial(ctx context.Context) error {
	wsURL, err := f.socketURL()
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return pkgerrors.NewNetworkError("realtime dial failed", err)
	}
	f.conn = conn

	go f.heartbeatLoop()
	go f.readLoop(conn)
	return nil
}

func (f *Feed) socketURL() (string, error) {
	u, err := url.Parse(f.cfg.SupabaseURL)
	if err != nil {
		return "", pkgerrors.NewValidationError("invalid supabase url: " + err.Error())
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/realtime/v1/websocket"
	q := u.Query()
	q.Set("apikey", f.cfg.SupabaseAnonKey)
	q.Set("vsn", "1.0.0")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// join sends phx_join for the table topic. Caller holds f.mu.
func (f *Feed) join(kind events.Kind) error {
	f.joinRef++
	payload := map[string]interface{}{
		"config": map[string]interface{}{
			"postgres_changes": []map[string]interface{}{
				{"event": "*", "schema": "public", "table": string(kind)},
			},
		},
	}
	// Row-level security filters the stream by the signed-in user
	if token := f.client.accessToken(); token != "" {
		payload["access_token"] = token
	}
	msg := map[string]interface{}{
		"topic":   topicFor(kind),
		"event":   "phx_join",
		"ref":     fmt.Sprintf("%d", f.joinRef),
		"payload": payload,
	}
	if err := f.conn.WriteJSON(msg); err != nil {
		return pkgerrors.NewNetworkError("realtime join failed", err)
	}
	return nil
}

// leave sends phx_leave for the table topic. Caller holds f.mu.
func (f *Feed) leave(kind events.Kind) {
	if f.conn == nil {
		return
	}
	f.joinRef++
	msg := map[string]interface{}{
		"topic":   topicFor(kind),
		"event":   "phx_leave",
		"ref":     fmt.Sprintf("%d", f.joinRef),
		"payload": map[string]interface{}{},
	}
	if err := f.conn.WriteJSON(msg); err != nil {
		f.logger.Warn("realtime leave failed", zap.String("table", string(kind)), zap.Error(err))
	}
}

func (f *Feed) heartbeatLoop() {
	interval := f.cfg.HeartbeatInterval
	if interval <= 0 {
		interval = 25 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-f.done:
			return
		case <-ticker.C:
			// The socket allows a single concurrent writer, so the
			// heartbeat writes under the same lock as join and leave.
			f.mu.Lock()
			if f.conn == nil {
				f.mu.Unlock()
				return
			}
			f.joinRef++
			msg := map[string]interface{}{
				"topic":   "phoenix",
				"event":   "heartbeat",
				"ref":     fmt.Sprintf("%d", f.joinRef),
				"payload": map[string]interface{}{},
			}
			err := f.conn.WriteJSON(msg)
			f.mu.Unlock()
			if err != nil {
				f.logger.Warn("realtime heartbeat failed", zap.Error(err))
				return
			}
		}
	}
}

func (f *Feed) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-f.done:
			default:
				f.logger.Error("realtime read failed, feed stopped", zap.Error(err))
			}
			return
		}

		var msg phoenixMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			f.logger.Warn("undecodable realtime frame dropped", zap.Error(err))
			continue
		}
		if msg.Event != "postgres_changes" {
			continue
		}
		f.dispatch(&msg)
	}
}

// dispatch decodes one change frame and hands it to the table's handler.
// Invalid payloads are logged and dropped.
func (f *Feed) dispatch(msg *phoenixMessage) {
	var payload changePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		f.logger.Warn("undecodable change payload dropped", zap.Error(err))
		return
	}

	kind, err := events.KindFromTable(payload.Data.Table)
	if err != nil {
		f.logger.Warn("change for unknown table dropped", zap.String("table", payload.Data.Table))
		return
	}
	op, err := events.OpFromChangeType(payload.Data.Type)
	if err != nil {
		f.logger.Warn("change with unknown type dropped", zap.String("type", payload.Data.Type))
		return
	}

	record := payload.Data.Record
	if op == events.OpDelete {
		record = payload.Data.OldRecord
	}

	ev, err := events.DecodeChange(f.validator, kind, op, record)
	if err != nil {
		f.logger.Warn("invalid change payload dropped",
			zap.String("table", string(kind)),
			zap.String("op", string(op)),
			zap.Error(err),
		)
		return
	}

	f.mu.Lock()
	handler := f.handlers[kind]
	f.mu.Unlock()
	if handler != nil {
		handler(ev)
	}
}

func topicFor(kind events.Kind) string {
	return "realtime:public:" + string(kind)
}
