package sync

import (
	"context"

	"go.uber.org/zap"

	"relgraph/pkg/extensions"
)

// applyOptimistic applies a local store mutation immediately, then issues
// the remote call. A remote failure is returned to the caller but the local
// mutation is NOT compensated — the store keeps the optimistic value until
// a later confirmation or notification overwrites it. Whether these
// mutations should roll back is an open question; every optimistic path
// funnels through here so a compensating strategy can be added in one
// place.
func (c *Controller) applyOptimistic(ctx context.Context, op string, local func(), remote func(context.Context) error) error {
	local()
	c.hooks.Execute(ctx, extensions.HookAfterMutation, op)
	if err := remote(ctx); err != nil {
		c.logger.Warn("optimistic mutation unconfirmed, local state kept",
			zap.String("op", op),
			zap.Error(err),
		)
		return err
	}
	return nil
}
