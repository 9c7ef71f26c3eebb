package supabase

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/supabase-community/gotrue-go/types"
	"go.uber.org/zap"

	"relgraph/application/ports"
	pkgerrors "relgraph/pkg/errors"
)

// SessionProvider implements ports.SessionProvider on top of the Supabase
// auth endpoint. It keeps the Client's session in step so table gateways
// stamp the right user id.
type SessionProvider struct {
	c      *Client
	logger *zap.Logger

	mu        sync.RWMutex
	session   *ports.Session
	listeners []func(*ports.Session)
}

// NewSessionProvider creates a session provider bound to the given client
func NewSessionProvider(c *Client, logger *zap.Logger) *SessionProvider {
	return &SessionProvider{c: c, logger: logger}
}

// Session returns a copy of the current session, or nil when signed out
func (p *SessionProvider) Session() *ports.Session {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.session == nil {
		return nil
	}
	s := *p.session
	return &s
}

// OnChange registers a listener for session transitions, including sign-out
func (p *SessionProvider) OnChange(fn func(*ports.Session)) {
	p.mu.Lock()
	p.listeners = append(p.listeners, fn)
	p.mu.Unlock()
}

// SignIn authenticates with email and password and publishes the new session
func (p *SessionProvider) SignIn(ctx context.Context, email, password string) (*ports.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, pkgerrors.NewCancelledError("sign in").WithCause(err)
	}

	resp, err := p.c.sb.SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, pkgerrors.NewUnauthorizedError("sign in failed")
	}

	session := &ports.Session{
		UserID:      userIDFromToken(resp),
		Email:       resp.User.Email,
		AccessToken: resp.AccessToken,
		ExpiresAt:   time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second),
	}

	p.publish(session)
	p.logger.Info("signed in", zap.String("user_id", session.UserID))
	return p.Session(), nil
}

// SignOut revokes the remote session and publishes the signed-out state.
// Local state is cleared even when the revoke call fails.
func (p *SessionProvider) SignOut(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return pkgerrors.NewCancelledError("sign out").WithCause(err)
	}

	err := p.c.sb.Auth.Logout()
	p.publish(nil)
	if err != nil {
		p.logger.Warn("remote sign-out failed, local session cleared", zap.Error(err))
		return pkgerrors.NewExternalError("auth", err)
	}
	p.logger.Info("signed out")
	return nil
}

func (p *SessionProvider) publish(session *ports.Session) {
	p.mu.Lock()
	p.session = session
	listeners := make([]func(*ports.Session), len(p.listeners))
	copy(listeners, p.listeners)
	p.mu.Unlock()

	p.c.setSession(session)
	for _, fn := range listeners {
		fn(session)
	}
}

// userIDFromToken resolves the user id from the auth response, falling back
// to the access token's subject claim when the user record is absent
func userIDFromToken(sess types.Session) string {
	if sess.User.ID != uuid.Nil {
		return sess.User.ID.String()
	}
	token, _, err := jwt.NewParser().ParseUnverified(sess.AccessToken, jwt.MapClaims{})
	if err != nil {
		return ""
	}
	sub, err := token.Claims.GetSubject()
	if err != nil {
		return ""
	}
	return sub
}
