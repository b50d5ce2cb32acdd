// Package session owns the operator's sign-in state. Tokens live in the token
// store; a token-free snapshot of the signed-in user is kept under SnapshotKey
// so a restarted console can tell what it last showed.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"admin-console/internal/event"
	"admin-console/internal/kvstore"
	"admin-console/internal/model"
	"admin-console/internal/tokenstore"
)

const SnapshotKey = "auth-storage"

// Backend is the part of the API client the session needs.
type Backend interface {
	Login(ctx context.Context, email, password string) (model.LoginResponse, error)
	Refresh(ctx context.Context) (model.TokenPair, error)
}

type Manager struct {
	backend          Backend
	tokens           *tokenstore.Store
	kv               kvstore.Store
	bus              event.Bus
	now              func() time.Time
	policy           Policy
	refreshOnStartup bool

	mu    sync.RWMutex
	state State
}

type Option func(*Manager)

func WithBus(bus event.Bus) Option {
	return func(m *Manager) { m.bus = bus }
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func WithPolicy(p Policy) Option {
	return func(m *Manager) { m.policy = p }
}

// WithRefreshOnStartup makes CheckAuth try one token refresh when the stored
// access token has expired but a refresh token is present.
func WithRefreshOnStartup(enabled bool) Option {
	return func(m *Manager) { m.refreshOnStartup = enabled }
}

func NewManager(backend Backend, tokens *tokenstore.Store, kv kvstore.Store, opts ...Option) *Manager {
	m := &Manager{
		backend: backend,
		tokens:  tokens,
		kv:      kv,
		bus:     event.Nop{},
		now:     time.Now,
		policy:  DefaultPolicy,
		state:   State{Status: Unauthenticated, Reason: ReasonNoToken},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Login authenticates against the backend. Tokens are persisted only after
// the access token proved to be a non-expired admin token.
func (m *Manager) Login(ctx context.Context, email, password string) (model.Session, error) {
	resp, err := m.backend.Login(ctx, email, password)
	if err != nil {
		reason := loginReason(err)
		slog.Warn("login failed", "email", email, "reason", reason, "error", err)
		m.abandon(ctx)
		return model.Session{}, &LoginError{Reason: reason, Err: err}
	}

	state := Reconcile(resp.Token, m.now(), m.policy)
	if !state.Authenticated() {
		reason := LoginUnknown
		switch state.Reason {
		case ReasonNotAdmin:
			reason = LoginAccessDenied
		case ReasonExpired:
			reason = LoginExpiredToken
		}
		slog.Warn("login rejected", "email", email, "reason", reason, "token_state", state.Reason)
		m.abandon(ctx)
		return model.Session{}, &LoginError{Reason: reason}
	}

	if err := m.tokens.Save(ctx, resp.Token); err != nil {
		return model.Session{}, fmt.Errorf("persist tokens: %w", err)
	}
	m.setState(ctx, state)

	slog.Info("operator logged in", "user_id", state.Session.User.ID, "expires_at", state.Session.ExpiresAt)
	m.bus.Publish(event.New(event.TypeSessionLoggedIn, state.Session.User))

	return *state.Session, nil
}

// abandon drops whatever session preceded a failed login, so a rejected
// attempt always leaves the console signed out.
func (m *Manager) abandon(ctx context.Context) {
	if err := m.tokens.Clear(ctx); err != nil {
		slog.Error("clear tokens after failed login", "error", err)
	}
	previous := m.setState(ctx, State{Status: Unauthenticated, Reason: ReasonNoToken})
	if previous.Authenticated() {
		slog.Info("previous session ended by failed login", "user_id", previous.Session.User.ID)
		m.bus.Publish(event.New(event.TypeSessionExpired, event.SessionExpired{Reason: string(ReasonNoToken)}))
	}
}

// Logout forgets every credential. It never fails on an already logged out
// console.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.tokens.Clear(ctx); err != nil {
		return fmt.Errorf("clear tokens: %w", err)
	}
	m.setState(ctx, State{Status: Unauthenticated, Reason: ReasonLoggedOut})

	slog.Info("operator logged out")
	m.bus.Publish(event.New(event.TypeSessionLoggedOut, nil))
	return nil
}

// CheckAuth validates the stored tokens and brings the in-memory state and
// the snapshot in line with them. Invalid credentials are removed. Calling it
// repeatedly with unchanged storage yields the same state.
func (m *Manager) CheckAuth(ctx context.Context) (State, error) {
	tokens, err := m.tokens.Tokens(ctx)
	if err != nil {
		return State{}, fmt.Errorf("load tokens: %w", err)
	}

	state := Reconcile(tokens, m.now(), m.policy)
	if state.Reason == ReasonExpired && m.refreshOnStartup && tokens.RefreshToken != "" {
		state = m.tryRefresh(ctx, state)
	}

	if !state.Authenticated() {
		if err := m.tokens.Clear(ctx); err != nil {
			return State{}, fmt.Errorf("clear tokens: %w", err)
		}
	}

	previous := m.setState(ctx, state)
	if previous.Authenticated() && !state.Authenticated() {
		slog.Info("session no longer valid", "reason", state.Reason)
		m.bus.Publish(event.New(event.TypeSessionExpired, event.SessionExpired{Reason: string(state.Reason)}))
	}
	return state, nil
}

func (m *Manager) tryRefresh(ctx context.Context, expired State) State {
	slog.Info("access token expired, attempting refresh")
	if _, err := m.backend.Refresh(ctx); err != nil {
		slog.Warn("refresh on check failed", "error", err)
		return expired
	}

	tokens, err := m.tokens.Tokens(ctx)
	if err != nil {
		slog.Warn("reload refreshed tokens failed", "error", err)
		return expired
	}
	return Reconcile(tokens, m.now(), m.policy)
}

// Current returns the signed-in session without its tokens.
func (m *Manager) Current() (model.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.state.Authenticated() {
		return model.Session{}, false
	}
	s := *m.state.Session
	s.AccessToken = ""
	s.RefreshToken = ""
	return s, true
}

func (m *Manager) Snapshot() model.SessionSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return snapshotOf(m.state)
}

// LoadSnapshot reads what was last persisted under SnapshotKey.
func (m *Manager) LoadSnapshot(ctx context.Context) (model.SessionSnapshot, error) {
	raw, err := m.kv.Get(ctx, SnapshotKey)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return model.SessionSnapshot{}, nil
		}
		return model.SessionSnapshot{}, err
	}

	var snap model.SessionSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return model.SessionSnapshot{}, fmt.Errorf("decode session snapshot: %w", err)
	}
	return snap, nil
}

// Run follows token events from the API client until ctx is done.
func (m *Manager) Run(ctx context.Context, bus event.Bus) {
	events, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			m.handle(ctx, e)
		}
	}
}

func (m *Manager) handle(ctx context.Context, e event.Event) {
	switch e.Type {
	case event.TypeTokenRefreshed:
		tokens, err := m.tokens.Tokens(ctx)
		if err != nil {
			slog.Warn("reload tokens after refresh failed", "error", err)
			return
		}
		state := Reconcile(tokens, m.now(), m.policy)
		if state.Authenticated() {
			m.setState(ctx, state)
			slog.Debug("session expiry extended", "expires_at", state.Session.ExpiresAt)
		}
	case event.TypeSessionExpired:
		reason := ReasonExpired
		if p, ok := e.Payload.(event.SessionExpired); ok && p.Reason != "" {
			reason = Reason(p.Reason)
		}
		m.setState(ctx, State{Status: Unauthenticated, Reason: reason})
	}
}

// setState swaps the in-memory state, persists the matching snapshot and
// returns the previous state.
func (m *Manager) setState(ctx context.Context, state State) State {
	m.mu.Lock()
	previous := m.state
	m.state = state
	m.mu.Unlock()

	raw, err := json.Marshal(snapshotOf(state))
	if err != nil {
		slog.Error("encode session snapshot failed", "error", err)
		return previous
	}
	if err := m.kv.Set(ctx, SnapshotKey, string(raw)); err != nil {
		slog.Warn("persist session snapshot failed", "error", err)
	}
	return previous
}

func snapshotOf(state State) model.SessionSnapshot {
	if !state.Authenticated() {
		return model.SessionSnapshot{}
	}
	user := state.Session.User
	return model.SessionSnapshot{User: &user, IsAuthenticated: true}
}
