package ports

import (
	"context"
	"time"

	"relgraph/domain/core/entities"
	"relgraph/domain/core/valueobjects"
	"relgraph/domain/events"
)

// PersonFields are the caller-supplied fields of a new person. The server
// assigns id, owning user and creation timestamp.
type PersonFields struct {
	Name           string
	Bio            *string
	ConnectionType valueobjects.ConnectionType
	Archived       bool
	Position       valueobjects.Position
}

// TaskFields are the caller-supplied fields of a new task
type TaskFields struct {
	PersonID     string
	Title        string
	Deadline     *string
	ConnectionID *string
}

// PersonGateway performs remote CRUD for people.
// List returns rows ordered by creation timestamp ascending; Create returns
// the canonical server record.
type PersonGateway interface {
	List(ctx context.Context) ([]*entities.Person, error)
	Create(ctx context.Context, fields PersonFields) (*entities.Person, error)
	SetArchived(ctx context.Context, id string, archived bool) error
	SetPosition(ctx context.Context, id string, pos valueobjects.Position) error
}

// ConnectionGateway performs remote CRUD for connections
type ConnectionGateway interface {
	List(ctx context.Context) ([]*entities.Connection, error)
	CreateBatch(ctx context.Context, fromPersonID string, toPersonIDs []string) ([]*entities.Connection, error)
	Delete(ctx context.Context, id string) error
}

// TaskGateway performs remote CRUD for tasks
type TaskGateway interface {
	List(ctx context.Context) ([]*entities.Task, error)
	Create(ctx context.Context, fields TaskFields) (*entities.Task, error)
	Update(ctx context.Context, id string, update entities.TaskUpdate) error
	Delete(ctx context.Context, id string) error
}

// CommentGateway performs remote CRUD for task comments
type CommentGateway interface {
	ListByTask(ctx context.Context, taskID string) ([]*entities.TaskComment, error)
	Create(ctx context.Context, taskID, body string) (*entities.TaskComment, error)
	Delete(ctx context.Context, id string) error
}

// ChangeHandler receives decoded, validated change events. Handlers for one
// kind are invoked in delivery order; no ordering holds across kinds.
type ChangeHandler func(ev *events.ChangeEvent)

// Unsubscribe tears down a single subscription. Safe to call more than once.
type Unsubscribe func()

// ChangeFeed is the push channel of entity change notifications. Delivery is
// at-least-once and may echo changes this session originated.
type ChangeFeed interface {
	Subscribe(ctx context.Context, kind events.Kind, handler ChangeHandler) (Unsubscribe, error)
}

// Session is the authenticated remote session
type Session struct {
	UserID      string
	Email       string
	AccessToken string
	ExpiresAt   time.Time
}

// SessionProvider exposes the externally-observed auth state. Session
// presence is injected into every operation that needs an authorization
// check rather than read from ambient globals.
type SessionProvider interface {
	// Session returns the current session, or nil when signed out
	Session() *Session

	// OnChange registers a callback invoked whenever the session changes,
	// including sign-out (nil session)
	OnChange(fn func(*Session))

	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context) error
}
