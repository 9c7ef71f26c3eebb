package supabase

import (
	"sync"

	supa "github.com/supabase-community/supabase-go"
	"go.uber.org/zap"

	"relgraph/application/ports"
	"relgraph/infrastructure/config"
	pkgerrors "relgraph/pkg/errors"
)

// Client wraps the Supabase SDK client and tracks the active session so the
// table gateways can stamp the owning user id on inserts and send the
// user's bearer token with every request.
type Client struct {
	sb     *supa.Client
	logger *zap.Logger

	mu      sync.RWMutex
	session *ports.Session
}

// NewClient creates a Supabase-backed client from configuration
func NewClient(cfg *config.Config, logger *zap.Logger) (*Client, error) {
	sb, err := supa.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, nil)
	if err != nil {
		return nil, pkgerrors.NewExternalError("supabase", err)
	}
	return &Client{sb: sb, logger: logger}, nil
}

// People returns the person gateway
func (c *Client) People() ports.PersonGateway {
	return &personGateway{c}
}

// Connections returns the connection gateway
func (c *Client) Connections() ports.ConnectionGateway {
	return &connectionGateway{c}
}

// Tasks returns the task gateway
func (c *Client) Tasks() ports.TaskGateway {
	return &taskGateway{c}
}

// Comments returns the task comment gateway
func (c *Client) Comments() ports.CommentGateway {
	return &commentGateway{c}
}

func (c *Client) setSession(s *ports.Session) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
}

// currentUserID returns the signed-in user's id, or an unauthorized error.
// The controller guards mutations already; this is the gateway-side check
// for callers that bypass it.
func (c *Client) currentUserID() (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return "", pkgerrors.NewUnauthorizedError("")
	}
	return c.session.UserID, nil
}

// accessToken returns the current bearer token, or empty when signed out
func (c *Client) accessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return ""
	}
	return c.session.AccessToken
}
