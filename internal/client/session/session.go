// Package session holds the process-wide authentication state of the client.
// A Context is built once at startup and passed to everything that needs to
// know who is signed in.
package session

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/wastewise/wastewise/internal/client/authstore"
	"github.com/wastewise/wastewise/internal/core/domain"
)

// State is an immutable snapshot of the session.
type State struct {
	User      *domain.User
	Token     string
	IsLoading bool
}

// Authenticated reports whether a user is signed in.
func (s State) Authenticated() bool {
	return !s.IsLoading && s.User != nil && s.Token != ""
}

type Context struct {
	store authstore.Store
	log   zerolog.Logger

	initOnce sync.Once

	mu    sync.RWMutex
	state State
	subs  map[chan State]struct{}
}

// New returns a Context in the loading state. Call Init before use.
func New(store authstore.Store, log zerolog.Logger) *Context {
	return &Context{
		store: store,
		log:   log,
		state: State{IsLoading: true},
		subs:  make(map[chan State]struct{}),
	}
}

// Init reads the store exactly once and leaves the loading state.
func (c *Context) Init() State {
	c.initOnce.Do(func() {
		next := State{}
		if sess, ok := c.store.Load(); ok {
			user := sess.User
			next = State{User: &user, Token: sess.Token}
			c.log.Debug().Str("user_id", user.ID).Msg("session restored")
		}
		c.set(next)
	})
	return c.State()
}

// State returns the current snapshot.
func (c *Context) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Token returns the bearer token, or "" when signed out.
func (c *Context) Token() string {
	return c.State().Token
}

// User returns the signed-in user.
func (c *Context) User() (*domain.User, bool) {
	s := c.State()
	return s.User, s.User != nil
}

// Login replaces the state with sess and persists it.
func (c *Context) Login(sess authstore.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loginLocked(sess)
}

// Logout clears the state and the store.
func (c *Context) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(State{})
	c.store.Clear()
}

// UpdateUser swaps in a refreshed profile. An empty token keeps the current
// one. It does nothing once signed out, so a racing Logout always wins.
func (c *Context) UpdateUser(user domain.User, token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.User == nil {
		return
	}
	if token == "" {
		token = c.state.Token
	}
	c.loginLocked(authstore.Session{Token: token, User: user})
}

func (c *Context) loginLocked(sess authstore.Session) {
	user := sess.User
	c.setLocked(State{User: &user, Token: sess.Token})
	c.store.Save(sess)
}

// Subscribe returns a channel that receives the latest state after every
// change, and a function that unsubscribes. Slow readers only see the most
// recent snapshot.
func (c *Context) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)

	c.mu.Lock()
	c.subs[ch] = struct{}{}
	c.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, ch)
			c.mu.Unlock()
			close(ch)
		})
	}
}

func (c *Context) set(next State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(next)
}

// setLocked publishes next. c.mu must be held for writing.
func (c *Context) setLocked(next State) {
	c.state = next
	for ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		ch <- next
	}
}
