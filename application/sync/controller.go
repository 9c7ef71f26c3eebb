package sync

import (
	"context"
	"math/rand"
	"sync"

	"go.uber.org/zap"

	"relgraph/application/ports"
	"relgraph/application/state"
	"relgraph/domain/config"
	"relgraph/domain/core/entities"
	"relgraph/domain/core/valueobjects"
	"relgraph/domain/events"
	pkgerrors "relgraph/pkg/errors"
	"relgraph/pkg/extensions"
)

// Phase is the lifecycle state of one synchronized collection
type Phase string

const (
	PhaseUninitialized Phase = "uninitialized"
	PhaseLoading       Phase = "loading"
	PhaseReady         Phase = "ready"
	PhaseFailed        Phase = "failed"
)

// Controller owns the entity store and keeps it consistent under optimistic
// local mutations, asynchronous remote confirmation, and out-of-band change
// notifications. All store writes go through here; the presentation layer
// only reads derived views.
type Controller struct {
	store       *state.EntityStore
	people      ports.PersonGateway
	connections ports.ConnectionGateway
	tasks       ports.TaskGateway
	comments    ports.CommentGateway
	feed        ports.ChangeFeed
	sessions    ports.SessionProvider
	cfg         *config.DomainConfig
	logger      *zap.Logger
	hooks       *extensions.HookManager

	// randFloat is swappable so placement is deterministic under test
	randFloat func() float64

	mu                 sync.Mutex
	phases             map[events.Kind]Phase
	loadErr            error
	bootstrapAttempted bool
	started            bool
	unsubscribes       []ports.Unsubscribe
}

// Gateways bundles the per-kind remote gateways the controller talks to
type Gateways struct {
	People      ports.PersonGateway
	Connections ports.ConnectionGateway
	Tasks       ports.TaskGateway
	Comments    ports.CommentGateway
}

// NewController creates a controller. Session presence is observed through
// the provider's change callback; a sign-in after an empty load may still
// bootstrap the core node.
func NewController(
	store *state.EntityStore,
	gw Gateways,
	feed ports.ChangeFeed,
	sessions ports.SessionProvider,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *Controller {
	c := &Controller{
		store:       store,
		people:      gw.People,
		connections: gw.Connections,
		tasks:       gw.Tasks,
		comments:    gw.Comments,
		feed:        feed,
		sessions:    sessions,
		cfg:         cfg,
		logger:      logger,
		hooks:       extensions.NewHookManager(),
		randFloat:   rand.Float64,
		phases: map[events.Kind]Phase{
			events.KindPeople:      PhaseUninitialized,
			events.KindConnections: PhaseUninitialized,
			events.KindTasks:       PhaseUninitialized,
		},
	}

	sessions.OnChange(func(s *ports.Session) {
		c.hooks.Execute(context.Background(), extensions.HookSessionChanged, s)
		if s == nil {
			return
		}
		c.maybeBootstrapCoreNode(context.Background())
	})

	return c
}

// Store exposes the entity store's derived-view surface
func (c *Controller) Store() *state.EntityStore {
	return c.store
}

// Hooks exposes the lifecycle hook registry so the rendering layer can
// schedule re-draws on store changes
func (c *Controller) Hooks() *extensions.HookManager {
	return c.hooks
}

// Phase returns the lifecycle state of one collection
func (c *Controller) Phase(kind events.Kind) Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phases[kind]
}

// LoadErr returns the failure reason of the last load, if it failed
func (c *Controller) LoadErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadErr
}

// Load fetches all three collections in parallel and swaps them into the
// store atomically. On any failure the prior store content is left
// untouched and the collections transition to Failed; retry is
// caller-initiated. A cancelled context discards the fetched result.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	prev := make(map[events.Kind]Phase, len(c.phases))
	for k, p := range c.phases {
		prev[k] = p
	}
	for _, k := range events.SyncedKinds {
		c.phases[k] = PhaseLoading
	}
	c.mu.Unlock()

	var (
		wg          sync.WaitGroup
		people      []*entities.Person
		connections []*entities.Connection
		tasks       []*entities.Task
		errs        [3]error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		people, errs[0] = c.people.List(ctx)
	}()
	go func() {
		defer wg.Done()
		connections, errs[1] = c.connections.List(ctx)
	}()
	go func() {
		defer wg.Done()
		tasks, errs[2] = c.tasks.List(ctx)
	}()
	wg.Wait()

	if ctx.Err() != nil {
		// The consuming view went away mid-load: discard the result and
		// restore the previous lifecycle state.
		c.mu.Lock()
		c.phases = prev
		c.mu.Unlock()
		return pkgerrors.NewCancelledError("initial load").WithCause(ctx.Err())
	}

	for _, err := range errs {
		if err != nil {
			c.mu.Lock()
			for _, k := range events.SyncedKinds {
				c.phases[k] = PhaseFailed
			}
			c.loadErr = err
			c.mu.Unlock()
			c.logger.Error("initial load failed", zap.Error(err))
			return pkgerrors.Wrap(err, "initial load")
		}
	}

	c.store.ReplaceAll(people, connections, tasks)

	c.mu.Lock()
	for _, k := range events.SyncedKinds {
		c.phases[k] = PhaseReady
	}
	c.loadErr = nil
	c.mu.Unlock()

	c.logger.Info("initial load complete",
		zap.Int("people", len(people)),
		zap.Int("connections", len(connections)),
		zap.Int("tasks", len(tasks)),
	)

	c.hooks.Execute(ctx, extensions.HookAfterLoad, nil)
	c.maybeBootstrapCoreNode(ctx)
	return nil
}

// maybeBootstrapCoreNode creates the distinguished core person when the
// graph is empty. The attempt guard is per session lifetime and is cleared
// on failure so a later qualifying state change may retry; it is not
// hard-exclusive across sessions — two sessions racing can create two core
// nodes, and FindCoreNode's first-match convention is the only guard.
func (c *Controller) maybeBootstrapCoreNode(ctx context.Context) {
	if !c.cfg.EnableBootstrap {
		return
	}

	c.mu.Lock()
	qualifies := c.phases[events.KindPeople] == PhaseReady && !c.bootstrapAttempted
	c.mu.Unlock()
	if !qualifies || c.store.PeopleCount() > 0 || c.sessions.Session() == nil {
		return
	}

	c.mu.Lock()
	if c.bootstrapAttempted {
		c.mu.Unlock()
		return
	}
	c.bootstrapAttempted = true
	c.mu.Unlock()

	person, err := c.people.Create(ctx, ports.PersonFields{
		Name:           c.cfg.CoreNodeName,
		ConnectionType: c.cfg.CoreNodeConnectionType,
	})
	if err != nil {
		c.logger.Warn("core node bootstrap failed", zap.Error(err))
		c.mu.Lock()
		c.bootstrapAttempted = false
		c.mu.Unlock()
		return
	}

	c.store.UpsertPerson(person)
	c.hooks.Execute(ctx, extensions.HookAfterMutation, "bootstrap core node")
	c.logger.Info("core node bootstrapped", zap.String("id", person.ID))
}

// AddPerson creates a person at a sampled shell position and optionally
// connects it to the given targets. The store is only mutated with the
// canonical server record — no temporary identifier is fabricated, the UI
// defers acting on the new person until the call resolves. If the batch
// connect fails the person stays committed and the connections are simply
// absent; the returned error covers the overall intent, not a rollback.
func (c *Controller) AddPerson(ctx context.Context, fields ports.PersonFields, connectTo ...string) (*entities.Person, error) {
	if _, err := c.requireSession(); err != nil {
		return nil, err
	}
	if fields.Name == "" {
		return nil, pkgerrors.NewValidationError("person name cannot be empty")
	}
	if !fields.ConnectionType.IsValid() {
		return nil, pkgerrors.NewValidationError("connection type is invalid")
	}

	fields.Archived = false
	fields.Position = c.shellPosition()

	person, err := c.people.Create(ctx, fields)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "create person")
	}
	c.store.UpsertPerson(person)
	c.hooks.Execute(ctx, extensions.HookAfterMutation, "add person")

	if len(connectTo) > 0 {
		created, err := c.connections.CreateBatch(ctx, person.ID, connectTo)
		for _, conn := range created {
			c.store.UpsertConnection(conn)
		}
		if err != nil {
			c.logger.Warn("batch connect failed after person create",
				zap.String("person_id", person.ID),
				zap.Int("targets", len(connectTo)),
				zap.Error(err),
			)
			return person, pkgerrors.Wrap(err, "connect new person")
		}
	}

	return person, nil
}

// ArchivePerson flags a person as archived. Optimistic: the local flag flips
// immediately so the detail panel responds, then the remote update is
// issued.
func (c *Controller) ArchivePerson(ctx context.Context, id string) error {
	return c.setArchived(ctx, id, true)
}

// UnarchivePerson clears a person's archived flag, optimistically
func (c *Controller) UnarchivePerson(ctx context.Context, id string) error {
	return c.setArchived(ctx, id, false)
}

func (c *Controller) setArchived(ctx context.Context, id string, archived bool) error {
	if _, err := c.requireSession(); err != nil {
		return err
	}
	person, ok := c.store.Person(id)
	if !ok {
		return pkgerrors.NewNotFoundError("person")
	}
	person.Archived = archived

	return c.applyOptimistic(ctx, "set archived",
		func() { c.store.UpsertPerson(person) },
		func(ctx context.Context) error { return c.people.SetArchived(ctx, id, archived) },
	)
}

// MovePerson records a drag-end position. Optimistic: the local position is
// updated immediately so the node does not snap back while the remote
// update is in flight.
func (c *Controller) MovePerson(ctx context.Context, id string, pos valueobjects.Position) error {
	if _, err := c.requireSession(); err != nil {
		return err
	}
	person, ok := c.store.Person(id)
	if !ok {
		return pkgerrors.NewNotFoundError("person")
	}
	person.SetPosition(pos)

	return c.applyOptimistic(ctx, "move person",
		func() { c.store.UpsertPerson(person) },
		func(ctx context.Context) error { return c.people.SetPosition(ctx, id, pos) },
	)
}

// RemoveConnection deletes a connection. Not optimistic: removal is applied
// only after remote confirmation.
func (c *Controller) RemoveConnection(ctx context.Context, id string) error {
	if _, err := c.requireSession(); err != nil {
		return err
	}
	if err := c.connections.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(err, "remove connection")
	}
	c.store.RemoveConnection(id)
	c.hooks.Execute(ctx, extensions.HookAfterMutation, "remove connection")
	return nil
}

// AddTask creates a task for a person. Not optimistic: dependent UI needs
// the server-assigned identifier, so the store is only mutated after the
// call resolves.
func (c *Controller) AddTask(ctx context.Context, fields ports.TaskFields) (*entities.Task, error) {
	if _, err := c.requireSession(); err != nil {
		return nil, err
	}
	if fields.PersonID == "" {
		return nil, pkgerrors.NewValidationError("task person id cannot be empty")
	}
	if fields.Title == "" {
		return nil, pkgerrors.NewValidationError("task title cannot be empty")
	}

	task, err := c.tasks.Create(ctx, fields)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "create task")
	}
	c.store.UpsertTask(task)
	c.hooks.Execute(ctx, extensions.HookAfterMutation, "add task")
	return task, nil
}

// UpdateTask shallow-merges a partial update into the stored task
// optimistically while the remote update is issued. A status change
// recomputes the completed flag before merging.
func (c *Controller) UpdateTask(ctx context.Context, id string, update entities.TaskUpdate) error {
	if _, err := c.requireSession(); err != nil {
		return err
	}
	if update.IsEmpty() {
		return nil
	}
	existing, ok := c.store.Task(id)
	if !ok {
		return pkgerrors.NewNotFoundError("task")
	}
	merged := update.ApplyTo(existing)

	return c.applyOptimistic(ctx, "update task",
		func() { c.store.UpsertTask(merged) },
		func(ctx context.Context) error { return c.tasks.Update(ctx, id, update) },
	)
}

// DeleteTask removes a task. Not optimistic: selection tracking needs the
// removal confirmed before local state drops the row.
func (c *Controller) DeleteTask(ctx context.Context, id string) error {
	if _, err := c.requireSession(); err != nil {
		return err
	}
	if err := c.tasks.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(err, "delete task")
	}
	c.store.RemoveTask(id)
	c.hooks.Execute(ctx, extensions.HookAfterMutation, "delete task")
	return nil
}

// Comments fetches a task's comments on demand. Comments are not part of
// the live-synced mirror; a cancelled context discards the result.
func (c *Controller) Comments(ctx context.Context, taskID string) ([]*entities.TaskComment, error) {
	list, err := c.comments.ListByTask(ctx, taskID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "fetch comments")
	}
	if ctx.Err() != nil {
		return nil, pkgerrors.NewCancelledError("fetch comments").WithCause(ctx.Err())
	}
	return list, nil
}

// AddComment appends a comment to a task
func (c *Controller) AddComment(ctx context.Context, taskID, body string) (*entities.TaskComment, error) {
	if _, err := c.requireSession(); err != nil {
		return nil, err
	}
	if body == "" {
		return nil, pkgerrors.NewValidationError("comment body cannot be empty")
	}
	comment, err := c.comments.Create(ctx, taskID, body)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "add comment")
	}
	return comment, nil
}

// DeleteComment removes a comment
func (c *Controller) DeleteComment(ctx context.Context, id string) error {
	if _, err := c.requireSession(); err != nil {
		return err
	}
	if err := c.comments.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(err, "delete comment")
	}
	return nil
}

// Start establishes one change-feed subscription per synchronized kind.
// Subscriptions live until Close; starting twice is an error so duplicate
// subscriptions cannot pile up.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return pkgerrors.NewConflictError("change feed already started")
	}
	c.started = true
	c.mu.Unlock()

	if !c.cfg.EnableRealtimeSync {
		return nil
	}

	for _, kind := range events.SyncedKinds {
		unsub, err := c.feed.Subscribe(ctx, kind, c.ApplyChange)
		if err != nil {
			c.Close()
			return pkgerrors.Wrapf(err, "subscribe %s", kind)
		}
		c.mu.Lock()
		c.unsubscribes = append(c.unsubscribes, unsub)
		c.mu.Unlock()
	}
	return nil
}

// Close tears down the change-feed subscriptions. Idempotent.
func (c *Controller) Close() {
	c.mu.Lock()
	unsubs := c.unsubscribes
	c.unsubscribes = nil
	c.started = false
	c.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
}

// ApplyChange applies one inbound notification to the store. Upsert by
// identifier makes the path idempotent: an echo of a change this session
// already applied optimistically replaces equal data and is a no-op.
func (c *Controller) ApplyChange(ev *events.ChangeEvent) {
	if ev == nil {
		return
	}

	switch ev.Kind {
	case events.KindPeople:
		if ev.Op == events.OpDelete {
			c.store.RemovePerson(ev.EntityID)
		} else if ev.Person != nil {
			c.store.UpsertPerson(ev.Person)
		}
	case events.KindConnections:
		if ev.Op == events.OpDelete {
			c.store.RemoveConnection(ev.EntityID)
		} else if ev.Connection != nil {
			c.store.UpsertConnection(ev.Connection)
		}
	case events.KindTasks:
		if ev.Op == events.OpDelete {
			c.store.RemoveTask(ev.EntityID)
		} else if ev.Task != nil {
			c.store.UpsertTask(ev.Task)
		}
	default:
		c.logger.Debug("ignoring change for unsynced kind", zap.String("kind", string(ev.Kind)))
		return
	}

	c.logger.Debug("applied change",
		zap.String("kind", string(ev.Kind)),
		zap.String("op", string(ev.Op)),
		zap.String("id", ev.EntityID),
	)
	c.hooks.Execute(context.Background(), extensions.HookAfterChangeApplied, ev)
}

// SetPlacementRange retunes the shell placement radii at runtime. Invalid
// ranges are ignored and the current range kept.
func (c *Controller) SetPlacementRange(min, max float64) {
	if min <= 0 || max < min {
		c.logger.Warn("ignoring invalid placement range",
			zap.Float64("min", min),
			zap.Float64("max", max),
		)
		return
	}
	c.mu.Lock()
	c.cfg.PlacementRadiusMin = min
	c.cfg.PlacementRadiusMax = max
	c.mu.Unlock()
}

// requireSession rejects mutations attempted with no active session
func (c *Controller) requireSession() (*ports.Session, error) {
	s := c.sessions.Session()
	if s == nil {
		return nil, pkgerrors.NewUnauthorizedError("")
	}
	return s, nil
}
