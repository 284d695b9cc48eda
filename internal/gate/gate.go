package gate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/matheus3301/sentinel/internal/bus"
	"github.com/matheus3301/sentinel/internal/client"
	"github.com/matheus3301/sentinel/internal/query"
	"go.uber.org/zap"
)

// ErrMissingField is returned when a required credential is blank.
var ErrMissingField = errors.New("required field missing")

// AuthAPI is the part of the backend the gate talks to. *client.AuthService implements it.
type AuthAPI interface {
	Login(ctx context.Context, creds client.Credentials) (*client.AuthToken, error)
	Register(ctx context.Context, creds client.Credentials) (*client.AuthToken, error)
	Me(ctx context.Context) (*client.User, error)
}

// Gate owns the signed-in user and decides which routes may render.
type Gate struct {
	mu    sync.RWMutex
	state State
	user  *client.User

	auth   AuthAPI
	tokens client.TokenStore
	cache  *query.Cache
	bus    *bus.Bus
	log    *zap.Logger
	now    func() time.Time
}

// New creates a gate in the Loading state. cache may be nil.
func New(auth AuthAPI, tokens client.TokenStore, cache *query.Cache, b *bus.Bus, log *zap.Logger) *Gate {
	return &Gate{
		state:  Loading,
		auth:   auth,
		tokens: tokens,
		cache:  cache,
		bus:    b,
		log:    log,
		now:    time.Now,
	}
}

// State returns the current state.
func (g *Gate) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// Loading reports whether the session check is still running.
func (g *Gate) Loading() bool {
	return g.State() == Loading
}

// User returns a copy of the signed-in user, or nil.
func (g *Gate) User() *client.User {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.user == nil {
		return nil
	}
	u := *g.user
	return &u
}

// Bootstrap resolves the stored token into a user. A missing or expired
// token ends anonymous without a network call; a failed profile fetch
// clears the token.
func (g *Gate) Bootstrap(ctx context.Context) error {
	token, err := g.tokens.Token()
	if err != nil {
		g.signOut()
		return fmt.Errorf("read token: %w", err)
	}
	if token == "" {
		g.signOut()
		return nil
	}
	if g.expired(token) {
		g.log.Info("stored token expired")
		g.clearToken()
		g.signOut()
		return nil
	}

	user, err := g.auth.Me(ctx)
	if err != nil {
		g.log.Warn("restore session", zap.Error(err))
		g.clearToken()
		g.signOut()
		return nil
	}
	g.signIn(user)
	return nil
}

// Login signs in with email and password.
func (g *Gate) Login(ctx context.Context, email, password string) error {
	if err := required(map[string]string{"email": email, "password": password}); err != nil {
		return err
	}
	if _, err := g.auth.Login(ctx, client.Credentials{Email: strings.TrimSpace(email), Password: password}); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	return g.loadUser(ctx)
}

// Register creates an account and signs in.
func (g *Gate) Register(ctx context.Context, email, password, fullName string) error {
	if err := required(map[string]string{"email": email, "password": password, "full_name": fullName}); err != nil {
		return err
	}
	creds := client.Credentials{
		Email:    strings.TrimSpace(email),
		Password: password,
		FullName: strings.TrimSpace(fullName),
	}
	if _, err := g.auth.Register(ctx, creds); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return g.loadUser(ctx)
}

func (g *Gate) loadUser(ctx context.Context) error {
	user, err := g.auth.Me(ctx)
	if err != nil {
		g.clearToken()
		return fmt.Errorf("load profile: %w", err)
	}
	g.signIn(user)
	return nil
}

// Logout forgets the token, the cached queries and the user.
func (g *Gate) Logout() {
	g.clearToken()
	if g.cache != nil {
		g.cache.Clear()
	}
	g.signOut()
}

// Refresh re-reads the profile, e.g. after an edit.
func (g *Gate) Refresh(ctx context.Context) error {
	user, err := g.auth.Me(ctx)
	if err != nil {
		return err
	}
	g.SetUser(user)
	return nil
}

// SetUser replaces the signed-in user's profile. It is ignored when signed out.
func (g *Gate) SetUser(u *client.User) {
	if u == nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == Authenticated {
		cp := *u
		g.user = &cp
	}
}

// Run moves the gate to Anonymous whenever the backend rejects the session.
// It blocks until ctx is done.
func (g *Gate) Run(ctx context.Context) {
	events, unsub := g.bus.Subscribe(bus.SessionInvalidated, 8)
	defer unsub()
	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-events:
			if g.State() == Anonymous {
				continue
			}
			g.log.Info("session rejected by backend", zap.Any("path", evt.Payload))
			if g.cache != nil {
				g.cache.Clear()
			}
			g.signOut()
		}
	}
}

func (g *Gate) signIn(u *client.User) {
	cp := *u
	g.transition(Authenticated, &cp)
}

func (g *Gate) signOut() {
	g.transition(Anonymous, nil)
}

func (g *Gate) transition(to State, user *client.User) {
	g.mu.Lock()
	from := g.state
	if from == to {
		g.user = user
		g.mu.Unlock()
		return
	}
	if err := checkTransition(from, to); err != nil {
		g.mu.Unlock()
		g.log.Error("gate transition", zap.Error(err))
		return
	}
	g.state = to
	g.user = user
	g.mu.Unlock()

	g.log.Debug("gate state", zap.String("from", string(from)), zap.String("to", string(to)))
	g.bus.Emit(bus.SessionChanged, Change{From: from, To: to})
}

func (g *Gate) clearToken() {
	if err := g.tokens.ClearToken(); err != nil {
		g.log.Error("clear token", zap.Error(err))
	}
}

// expired reports whether token is a JWT whose exp has passed. Tokens that
// do not parse are left for the backend to judge.
func (g *Gate) expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !g.now().Before(exp.Time)
}

func required(fields map[string]string) error {
	var missing []string
	for _, name := range []string{"email", "password", "full_name"} {
		v, ok := fields[name]
		if ok && strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}
	return nil
}
