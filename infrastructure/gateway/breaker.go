package gateway

import (
	"context"
	"errors"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"relgraph/application/ports"
	"relgraph/domain/core/entities"
	"relgraph/domain/core/valueobjects"
	"relgraph/infrastructure/config"
	pkgerrors "relgraph/pkg/errors"
)

// newBreaker builds a circuit breaker for one remote gateway. Trips after a
// run of consecutive failures and holds open for the configured duration.
func newBreaker(name string, cfg *config.Config, logger *zap.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    name,
		Timeout: cfg.BreakerOpenDuration,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(cfg.BreakerMaxFailures)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("gateway", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}

// breakerErr maps breaker rejections to an unavailable error; other errors
// pass through unchanged
func breakerErr(name string, err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return pkgerrors.NewUnavailableError(name).WithCause(err)
	}
	return err
}

// PersonBreaker wraps a PersonGateway with a circuit breaker
type PersonBreaker struct {
	next ports.PersonGateway
	cb   *gobreaker.CircuitBreaker
}

// NewPersonBreaker creates a breaker-guarded person gateway
func NewPersonBreaker(next ports.PersonGateway, cfg *config.Config, logger *zap.Logger) *PersonBreaker {
	return &PersonBreaker{next: next, cb: newBreaker("people", cfg, logger)}
}

func (b *PersonBreaker) List(ctx context.Context) ([]*entities.Person, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.List(ctx)
	})
	if err != nil {
		return nil, breakerErr("people", err)
	}
	return out.([]*entities.Person), nil
}

func (b *PersonBreaker) Create(ctx context.Context, fields ports.PersonFields) (*entities.Person, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Create(ctx, fields)
	})
	if err != nil {
		return nil, breakerErr("people", err)
	}
	return out.(*entities.Person), nil
}

func (b *PersonBreaker) SetArchived(ctx context.Context, id string, archived bool) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.next.SetArchived(ctx, id, archived)
	})
	return breakerErr("people", err)
}

func (b *PersonBreaker) SetPosition(ctx context.Context, id string, pos valueobjects.Position) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.next.SetPosition(ctx, id, pos)
	})
	return breakerErr("people", err)
}

// ConnectionBreaker wraps a ConnectionGateway with a circuit breaker
type ConnectionBreaker struct {
	next ports.ConnectionGateway
	cb   *gobreaker.CircuitBreaker
}

// NewConnectionBreaker creates a breaker-guarded connection gateway
func NewConnectionBreaker(next ports.ConnectionGateway, cfg *config.Config, logger *zap.Logger) *ConnectionBreaker {
	return &ConnectionBreaker{next: next, cb: newBreaker("connections", cfg, logger)}
}

func (b *ConnectionBreaker) List(ctx context.Context) ([]*entities.Connection, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.List(ctx)
	})
	if err != nil {
		return nil, breakerErr("connections", err)
	}
	return out.([]*entities.Connection), nil
}

func (b *ConnectionBreaker) CreateBatch(ctx context.Context, fromPersonID string, toPersonIDs []string) ([]*entities.Connection, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.CreateBatch(ctx, fromPersonID, toPersonIDs)
	})
	if err != nil {
		return nil, breakerErr("connections", err)
	}
	created, _ := out.([]*entities.Connection)
	return created, nil
}

func (b *ConnectionBreaker) Delete(ctx context.Context, id string) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.next.Delete(ctx, id)
	})
	return breakerErr("connections", err)
}

// TaskBreaker wraps a TaskGateway with a circuit breaker
type TaskBreaker struct {
	next ports.TaskGateway
	cb   *gobreaker.CircuitBreaker
}

// NewTaskBreaker creates a breaker-guarded task gateway
func NewTaskBreaker(next ports.TaskGateway, cfg *config.Config, logger *zap.Logger) *TaskBreaker {
	return &TaskBreaker{next: next, cb: newBreaker("tasks", cfg, logger)}
}

func (b *TaskBreaker) List(ctx context.Context) ([]*entities.Task, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.List(ctx)
	})
	if err != nil {
		return nil, breakerErr("tasks", err)
	}
	return out.([]*entities.Task), nil
}

func (b *TaskBreaker) Create(ctx context.Context, fields ports.TaskFields) (*entities.Task, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Create(ctx, fields)
	})
	if err != nil {
		return nil, breakerErr("tasks", err)
	}
	return out.(*entities.Task), nil
}

func (b *TaskBreaker) Update(ctx context.Context, id string, update entities.TaskUpdate) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.next.Update(ctx, id, update)
	})
	return breakerErr("tasks", err)
}

func (b *TaskBreaker) Delete(ctx context.Context, id string) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.next.Delete(ctx, id)
	})
	return breakerErr("tasks", err)
}

// CommentBreaker wraps a CommentGateway with a circuit breaker
type CommentBreaker struct {
	next ports.CommentGateway
	cb   *gobreaker.CircuitBreaker
}

// NewCommentBreaker creates a breaker-guarded comment gateway
func NewCommentBreaker(next ports.CommentGateway, cfg *config.Config, logger *zap.Logger) *CommentBreaker {
	return &CommentBreaker{next: next, cb: newBreaker("task_comments", cfg, logger)}
}

func (b *CommentBreaker) ListByTask(ctx context.Context, taskID string) ([]*entities.TaskComment, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.ListByTask(ctx, taskID)
	})
	if err != nil {
		return nil, breakerErr("task_comments", err)
	}
	return out.([]*entities.TaskComment), nil
}

func (b *CommentBreaker) Create(ctx context.Context, taskID, body string) (*entities.TaskComment, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Create(ctx, taskID, body)
	})
	if err != nil {
		return nil, breakerErr("task_comments", err)
	}
	return out.(*entities.TaskComment), nil
}

func (b *CommentBreaker) Delete(ctx context.Context, id string) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.next.Delete(ctx, id)
	})
	return breakerErr("task_comments", err)
}
