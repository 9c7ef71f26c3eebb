package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"relgraph/application/ports"
	"relgraph/domain/core/entities"
	"relgraph/domain/core/valueobjects"
	"relgraph/infrastructure/config"
	pkgerrors "relgraph/pkg/errors"
)

type stubPersonGateway struct {
	err   error
	calls int
}

func (s *stubPersonGateway) List(ctx context.Context) ([]*entities.Person, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return []*entities.Person{{ID: "p1", UserID: "u1", Name: "Ada", ConnectionType: "business"}}, nil
}

func (s *stubPersonGateway) Create(ctx context.Context, fields ports.PersonFields) (*entities.Person, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &entities.Person{ID: "p1", UserID: "u1", Name: fields.Name, ConnectionType: fields.ConnectionType}, nil
}

func (s *stubPersonGateway) SetArchived(ctx context.Context, id string, archived bool) error {
	s.calls++
	return s.err
}

func (s *stubPersonGateway) SetPosition(ctx context.Context, id string, pos valueobjects.Position) error {
	s.calls++
	return s.err
}

func testConfig() *config.Config {
	return &config.Config{
		BreakerMaxFailures:  3,
		BreakerOpenDuration: time.Minute,
	}
}

func TestBreakerPassesThroughSuccess(t *testing.T) {
	stub := &stubPersonGateway{}
	b := NewPersonBreaker(stub, testConfig(), zap.NewNop())

	people, err := b.List(context.Background())
	require.NoError(t, err)
	require.Len(t, people, 1)

	require.NoError(t, b.SetArchived(context.Background(), "p1", true))
	assert.Equal(t, 2, stub.calls)
}

func TestBreakerPassesThroughFailures(t *testing.T) {
	boom := errors.New("boom")
	stub := &stubPersonGateway{err: boom}
	b := NewPersonBreaker(stub, testConfig(), zap.NewNop())

	_, err := b.List(context.Background())
	assert.ErrorIs(t, err, boom, "underlying error surfaces while the circuit is closed")
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	stub := &stubPersonGateway{err: errors.New("down")}
	cfg := testConfig()
	b := NewPersonBreaker(stub, cfg, zap.NewNop())

	for i := 0; i < cfg.BreakerMaxFailures; i++ {
		_, err := b.List(context.Background())
		require.Error(t, err)
	}

	callsBefore := stub.calls
	_, err := b.List(context.Background())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsUnavailable(err), "open circuit reports unavailable")
	assert.Equal(t, callsBefore, stub.calls, "open circuit short-circuits the remote call")
}

func TestBreakerRecoversAfterSuccess(t *testing.T) {
	stub := &stubPersonGateway{err: errors.New("down")}
	b := NewPersonBreaker(stub, testConfig(), zap.NewNop())

	_, err := b.List(context.Background())
	require.Error(t, err)

	stub.err = nil
	_, err = b.List(context.Background())
	require.NoError(t, err, "a success below the trip threshold resets the failure run")
}
