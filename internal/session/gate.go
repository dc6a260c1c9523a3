// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session holds the client-side belief that the current user is an
// authenticated admin. The belief is backed by a bearer token in a
// TokenStore and is confirmed against the server before it is trusted.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/olegiv/parish-go/internal/client"
	"github.com/olegiv/parish-go/internal/model"
)

// Messages shown to the user verbatim.
const (
	MsgInvalidCredentials = "Invalid email or password. Please check your credentials."
	MsgLoginFailed        = "Login failed. Please try again later."
	MsgRegistrationFailed = "Registration failed. Try again."
)

// Sentinel errors returned by Login and Register. Their text is the message
// to display.
var (
	ErrInvalidCredentials = errors.New(MsgInvalidCredentials)
	ErrLoginFailed        = errors.New(MsgLoginFailed)
	ErrRegistrationFailed = errors.New(MsgRegistrationFailed)
)

// State is the gate's position in its state machine.
type State int

const (
	StateUnknown State = iota
	StateAnonymous
	StateValidating
	StateAdmin
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateValidating:
		return "validating"
	case StateAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// Status is a read-only snapshot of the gate.
type Status struct {
	State   State
	IsAdmin bool
	// Loading is true until the first validation has completed.
	Loading bool
	Admin   *model.Admin
}

// Authenticator is the part of the API the gate needs. *client.Client
// implements it.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (model.LoginResponse, error)
	Register(ctx context.Context, email, password string) (model.LoginResponse, error)
	VerifyToken(ctx context.Context) (model.VerifyResponse, error)
}

// Gate owns the admin session. Create one per process and pass it to
// whatever needs to know whether the user is an admin.
type Gate struct {
	auth   Authenticator
	tokens TokenStore
	logger *slog.Logger

	// storeMu serializes every token write with the transition that
	// follows it. It is taken before mu.
	storeMu sync.Mutex

	mu      sync.RWMutex
	state   State
	loading bool
	admin   *model.Admin
	// gen increments on every transition so a validation that finishes
	// after a login or logout does not overwrite the newer state.
	gen uint64
}

// New creates a gate in StateUnknown.
func New(auth Authenticator, tokens TokenStore, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{
		auth:    auth,
		tokens:  tokens,
		logger:  logger,
		state:   StateUnknown,
		loading: true,
	}
}

// Status returns the current snapshot.
func (g *Gate) Status() Status {
	g.mu.RLock()
	defer g.mu.RUnlock()

	st := Status{
		State:   g.state,
		IsAdmin: g.state == StateAdmin,
		Loading: g.loading,
	}
	if g.admin != nil {
		a := *g.admin
		st.Admin = &a
	}
	return st
}

// IsAdmin reports whether the gate currently believes the user is an admin.
func (g *Gate) IsAdmin() bool {
	return g.Status().IsAdmin
}

// Start resets the gate to StateUnknown and validates the stored token.
func (g *Gate) Start(ctx context.Context) bool {
	g.mu.Lock()
	g.state = StateUnknown
	g.loading = true
	g.admin = nil
	g.gen++
	g.mu.Unlock()

	return g.Validate(ctx)
}

// Validate confirms the stored token with one round trip to the server.
// Any failure other than cancellation of ctx purges the token and leaves
// the gate anonymous. A cancelled validation keeps the token and returns
// the gate to StateUnknown.
func (g *Gate) Validate(ctx context.Context) bool {
	g.storeMu.Lock()
	token, err := g.tokens.Load()
	if err != nil {
		g.logger.Warn("failed to read stored token", "error", err)
	}
	if token == "" {
		g.transition(nil, StateAnonymous, nil)
		g.storeMu.Unlock()
		return false
	}

	g.mu.Lock()
	g.state = StateValidating
	g.loading = true
	g.gen++
	gen := g.gen
	g.mu.Unlock()
	g.storeMu.Unlock()

	resp, err := g.auth.VerifyToken(ctx)

	g.storeMu.Lock()
	defer g.storeMu.Unlock()

	if err == nil && resp.Valid {
		admin := resp.Admin
		return g.transition(&gen, StateAdmin, &admin)
	}

	if ctx.Err() != nil {
		g.mu.Lock()
		if g.gen == gen {
			g.state = StateUnknown
			g.admin = nil
		}
		g.mu.Unlock()
		return false
	}

	if err != nil {
		g.logger.Info("stored token rejected", "error", err)
	}
	if !g.stillCurrent(gen) {
		return g.IsAdmin()
	}
	if err := g.tokens.Clear(); err != nil {
		g.logger.Warn("failed to purge rejected token", "error", err)
	}
	g.transition(&gen, StateAnonymous, nil)
	return false
}

// Login exchanges credentials for a token. A 401 yields
// ErrInvalidCredentials and leaves the stored token untouched; any other
// failure yields ErrLoginFailed.
func (g *Gate) Login(ctx context.Context, email, password string) error {
	resp, err := g.auth.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			return ErrInvalidCredentials
		}
		g.logger.Error("login request failed", "error", err)
		return &failure{msg: ErrLoginFailed, cause: err}
	}
	if err := g.establish(resp); err != nil {
		g.logger.Error("failed to store login token", "error", err)
		return &failure{msg: ErrLoginFailed, cause: err}
	}
	return nil
}

// Register creates an admin account and signs it in.
func (g *Gate) Register(ctx context.Context, email, password string) error {
	resp, err := g.auth.Register(ctx, email, password)
	if err == nil {
		err = g.establish(resp)
	}
	if err != nil {
		g.logger.Error("registration failed", "error", err)
		return &failure{msg: ErrRegistrationFailed, cause: err}
	}
	return nil
}

func (g *Gate) establish(resp model.LoginResponse) error {
	if resp.Token == "" {
		return errors.New("server returned an empty token")
	}
	g.storeMu.Lock()
	defer g.storeMu.Unlock()

	if err := g.tokens.Save(resp.Token); err != nil {
		return err
	}
	admin := resp.Admin
	g.transition(nil, StateAdmin, &admin)
	return nil
}

// Logout purges the token and clears the admin state. Calling it when not
// signed in is a no-op.
func (g *Gate) Logout() error {
	g.storeMu.Lock()
	defer g.storeMu.Unlock()

	err := g.tokens.Clear()
	g.transition(nil, StateAnonymous, nil)
	return err
}

func (g *Gate) stillCurrent(gen uint64) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.gen == gen
}

// transition moves to state. With a non-nil gen it only applies while no
// other transition has happened since gen was taken, and reports whether
// the gate ended up as admin.
func (g *Gate) transition(gen *uint64, state State, admin *model.Admin) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if gen != nil && g.gen != *gen {
		return g.state == StateAdmin
	}
	g.gen++
	g.state = state
	g.loading = false
	g.admin = admin
	return state == StateAdmin
}

// failure carries a user-facing message and the underlying cause.
type failure struct {
	msg   error
	cause error
}

func (f *failure) Error() string { return f.msg.Error() }

func (f *failure) Unwrap() []error { return []error{f.msg, f.cause} }
