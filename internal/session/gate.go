// Package session holds the authenticated user for the lifetime of the
// console process and restores it across restarts.
package session

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"transrural/internal/api"
	"transrural/internal/domain"
	"transrural/pkg/logger"
)

// Gate is the login/logout front door. The UI branches on the role of the
// user it returns: admin surface for admins, driver surface for everyone
// else.
type Gate struct {
	client *api.Client
	store  *Store
	log    logger.ILogger

	current *Session
}

func NewGate(client *api.Client, store *Store, log logger.ILogger) *Gate {
	return &Gate{client: client, store: store, log: log}
}

// Restore loads a persisted session. Expired tokens are discarded so the
// user lands on the login screen instead of a wall of 401s.
func (g *Gate) Restore() (domain.User, bool) {
	sess, ok := g.store.Load()
	if !ok {
		return domain.User{}, false
	}
	if tokenExpired(sess.Token, time.Now()) {
		g.log.Info("stored session expired", logger.String("username", sess.User.Username))
		_ = g.store.Clear()
		return domain.User{}, false
	}
	g.current = &sess
	g.client.SetToken(sess.Token)
	return sess.User, true
}

// Login authenticates and persists the session. The persisted marker is a
// convenience; the server remains the authority on token validity.
func (g *Gate) Login(ctx context.Context, username, password string) (domain.User, error) {
	res, err := g.client.Login(ctx, username, password)
	if err != nil {
		return domain.User{}, err
	}

	sess := Session{User: res.User, Token: res.Token, SavedAt: time.Now()}
	g.current = &sess
	if err := g.store.Save(sess); err != nil {
		// A failed save only costs the next restart a re-login.
		g.log.Warning("could not persist session", logger.Error(err))
	}
	return res.User, nil
}

// Logout drops the in-memory session and the persisted marker.
func (g *Gate) Logout() {
	g.current = nil
	g.client.ClearToken()
	_ = g.store.Clear()
}

// Current returns the active user, if any.
func (g *Gate) Current() (domain.User, bool) {
	if g.current == nil {
		return domain.User{}, false
	}
	return g.current.User, true
}

// tokenExpired inspects the exp claim without verifying the signature;
// only the server can verify, this is just a local freshness check.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return exp.Before(now)
}
