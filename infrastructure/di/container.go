package di

import (
	"go.uber.org/zap"

	"relgraph/application/ports"
	"relgraph/application/state"
	"relgraph/application/sync"
	"relgraph/infrastructure/config"
	"relgraph/infrastructure/gateway/supabase"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	Client      *supabase.Client
	Sessions    ports.SessionProvider
	Feed        *supabase.Feed
	Store       *state.EntityStore
	Interaction *state.InteractionState
	Controller  *sync.Controller

	watcher *config.Watcher
}

// NewContainer wires the full dependency graph by hand. Kept in sync with
// the wire provider set; the generated initializer replaces this when wire
// is run.
func NewContainer(cfg *config.Config) (*Container, error) {
	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, err
	}

	dc, err := ProvideDomainConfig(cfg)
	if err != nil {
		return nil, err
	}

	client, err := ProvideSupabaseClient(cfg, logger)
	if err != nil {
		return nil, err
	}

	validator := ProvideValidator()
	sessions := ProvideSessionProvider(client, logger)
	feed := ProvideFeed(cfg, client, validator, logger)
	store := ProvideEntityStore()

	controller := ProvideController(
		store,
		ProvidePersonGateway(client, cfg, logger),
		ProvideConnectionGateway(client, cfg, logger),
		ProvideTaskGateway(client, cfg, logger),
		ProvideCommentGateway(client, cfg, logger),
		ProvideChangeFeed(feed),
		sessions,
		dc,
		logger,
	)

	c := &Container{
		Config:      cfg,
		Logger:      logger,
		Client:      client,
		Sessions:    sessions,
		Feed:        feed,
		Store:       store,
		Interaction: ProvideInteractionState(),
		Controller:  controller,
	}

	if cfg.DynamicConfigPath != "" {
		watcher, err := config.NewWatcher(cfg.DynamicConfigPath, logger)
		if err != nil {
			logger.Warn("dynamic config unavailable, using static settings", zap.Error(err))
		} else {
			c.watcher = watcher
			applyDynamic(controller, watcher.Current())
			watcher.OnChange(func(dyn *config.DynamicConfig) {
				applyDynamic(controller, dyn)
			})
			watcher.Start()
		}
	}

	return c, nil
}

// Close releases the container's long-lived resources
func (c *Container) Close() error {
	c.Controller.Close()
	if c.watcher != nil {
		c.watcher.Stop()
	}
	err := c.Feed.Close()
	_ = c.Logger.Sync()
	return err
}

func applyDynamic(controller *sync.Controller, dyn *config.DynamicConfig) {
	if dyn == nil {
		return
	}
	controller.SetPlacementRange(dyn.Placement.RadiusMin, dyn.Placement.RadiusMax)
}
