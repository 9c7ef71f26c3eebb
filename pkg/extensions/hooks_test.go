package extensions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHooksRunInRegistrationOrder(t *testing.T) {
	m := NewHookManager()
	var order []string
	m.Register(HookAfterLoad, func(ctx context.Context, data interface{}) {
		order = append(order, "first")
	})
	m.Register(HookAfterLoad, func(ctx context.Context, data interface{}) {
		order = append(order, "second")
	})

	m.Execute(context.Background(), HookAfterLoad, nil)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestHooksAreScopedToTheirPoint(t *testing.T) {
	m := NewHookManager()
	fired := false
	m.Register(HookAfterMutation, func(ctx context.Context, data interface{}) {
		fired = true
	})

	m.Execute(context.Background(), HookAfterLoad, nil)
	assert.False(t, fired)

	m.Execute(context.Background(), HookAfterMutation, "archive")
	assert.True(t, fired)
}

func TestHooksReceiveData(t *testing.T) {
	m := NewHookManager()
	var got interface{}
	m.Register(HookAfterChangeApplied, func(ctx context.Context, data interface{}) {
		got = data
	})
	m.Execute(context.Background(), HookAfterChangeApplied, 42)
	assert.Equal(t, 42, got)
}

func TestClearRemovesObservers(t *testing.T) {
	m := NewHookManager()
	calls := 0
	m.Register(HookSessionChanged, func(ctx context.Context, data interface{}) {
		calls++
	})
	m.Execute(context.Background(), HookSessionChanged, nil)
	m.Clear(HookSessionChanged)
	m.Execute(context.Background(), HookSessionChanged, nil)
	assert.Equal(t, 1, calls)
}
