package di

import (
	"go.uber.org/zap"

	"relgraph/application/ports"
	"relgraph/application/state"
	"relgraph/application/sync"
	domaincfg "relgraph/domain/config"
	"relgraph/domain/core/validators"
	"relgraph/infrastructure/config"
	"relgraph/infrastructure/gateway"
	"relgraph/infrastructure/gateway/supabase"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error

	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}

	if err != nil {
		return nil, err
	}

	return logger, nil
}

// ProvideDomainConfig creates the domain configuration, honoring the
// environment's realtime toggle
func ProvideDomainConfig(cfg *config.Config) (*domaincfg.DomainConfig, error) {
	dc := domaincfg.DefaultDomainConfig()
	dc.EnableRealtimeSync = cfg.RealtimeEnabled
	if err := dc.Validate(); err != nil {
		return nil, err
	}
	return dc, nil
}

// ProvideValidator creates the shared payload validator
func ProvideValidator() *validators.PayloadValidator {
	return validators.NewPayloadValidator()
}

// ProvideSupabaseClient creates the remote store client
func ProvideSupabaseClient(cfg *config.Config, logger *zap.Logger) (*supabase.Client, error) {
	return supabase.NewClient(cfg, logger)
}

// ProvideSessionProvider creates the auth session provider
func ProvideSessionProvider(client *supabase.Client, logger *zap.Logger) ports.SessionProvider {
	return supabase.NewSessionProvider(client, logger)
}

// ProvidePersonGateway creates the breaker-guarded person gateway
func ProvidePersonGateway(client *supabase.Client, cfg *config.Config, logger *zap.Logger) ports.PersonGateway {
	return gateway.NewPersonBreaker(client.People(), cfg, logger)
}

// ProvideConnectionGateway creates the breaker-guarded connection gateway
func ProvideConnectionGateway(client *supabase.Client, cfg *config.Config, logger *zap.Logger) ports.ConnectionGateway {
	return gateway.NewConnectionBreaker(client.Connections(), cfg, logger)
}

// ProvideTaskGateway creates the breaker-guarded task gateway
func ProvideTaskGateway(client *supabase.Client, cfg *config.Config, logger *zap.Logger) ports.TaskGateway {
	return gateway.NewTaskBreaker(client.Tasks(), cfg, logger)
}

// ProvideCommentGateway creates the breaker-guarded comment gateway
func ProvideCommentGateway(client *supabase.Client, cfg *config.Config, logger *zap.Logger) ports.CommentGateway {
	return gateway.NewCommentBreaker(client.Comments(), cfg, logger)
}

// ProvideFeed creates the realtime change feed
func ProvideFeed(cfg *config.Config, client *supabase.Client, validator *validators.PayloadValidator, logger *zap.Logger) *supabase.Feed {
	return supabase.NewFeed(cfg, client, validator, logger)
}

// ProvideChangeFeed exposes the feed through its port
func ProvideChangeFeed(feed *supabase.Feed) ports.ChangeFeed {
	return feed
}

// ProvideEntityStore creates the in-memory entity store
func ProvideEntityStore() *state.EntityStore {
	return state.NewEntityStore()
}

// ProvideInteractionState creates the ephemeral UI interaction state
func ProvideInteractionState() *state.InteractionState {
	return state.NewInteractionState()
}

// ProvideController creates the sync controller
func ProvideController(
	store *state.EntityStore,
	people ports.PersonGateway,
	connections ports.ConnectionGateway,
	tasks ports.TaskGateway,
	comments ports.CommentGateway,
	feed ports.ChangeFeed,
	sessions ports.SessionProvider,
	dc *domaincfg.DomainConfig,
	logger *zap.Logger,
) *sync.Controller {
	return sync.NewController(store, sync.Gateways{
		People:      people,
		Connections: connections,
		Tasks:       tasks,
		Comments:    comments,
	}, feed, sessions, dc, logger)
}
